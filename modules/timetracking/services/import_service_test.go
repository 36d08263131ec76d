package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/tempora-uz/tempora/modules/timetracking/domain/entities"
	"github.com/tempora-uz/tempora/modules/timetracking/importer"
	"github.com/tempora-uz/tempora/modules/timetracking/importer/adapters"
	"github.com/tempora-uz/tempora/modules/timetracking/infrastructure/persistence"
	"github.com/tempora-uz/tempora/pkg/eventbus"
	"github.com/tempora-uz/tempora/pkg/logging"
)

func passthroughTx(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

func newTestImportService(store importer.RowStore, publisher eventbus.EventBus) *ImportService {
	svc := NewImportService(store, adapters.DefaultRegistry(), publisher, logging.SilentLogger())
	svc.runInTx = passthroughTx
	return svc
}

func seedOrganization(t *testing.T, store *persistence.MemoryRowStore, rate any) uuid.UUID {
	t.Helper()
	orgID := uuid.New()
	require.NoError(t, store.Insert(context.Background(), entities.OrganizationsTable, orgID, importer.Row{
		entities.OrganizationName:         "Acme Inc",
		entities.OrganizationBillableRate: rate,
	}))
	return orgID
}

func TestImportService_Success(t *testing.T) {
	store := persistence.NewMemoryRowStore()
	orgID := seedOrganization(t, store, int64(3000))

	publisher := eventbus.NewEventPublisher(logging.SilentLogger())
	var published []entities.TimeEntriesImportedEvent
	publisher.Subscribe(func(name string, e entities.TimeEntriesImportedEvent) {
		published = append(published, e)
	})

	svc := newTestImportService(store, publisher)

	data := []byte(`Email,Name,Client,Project,Task,Description,Billable,Start,End,Tags
jane@example.com,Jane Doe,Acme,Website,Design,Meeting,true,2024-03-15T09:00:00Z,2024-03-15T10:00:00Z,dev
`)
	report, err := svc.Import(context.Background(), orgID, "csv", data, "UTC")
	require.NoError(t, err)
	require.Equal(t, 1, report.TimeEntries.Created)
	require.Equal(t, 1, report.Projects.Created)

	entries := store.Rows(entities.TimeEntriesTable)
	require.Len(t, entries, 1)
	// organization default applies: the project is created non-billable
	// and the placeholder member has no rate
	require.Equal(t, int64(3000), entries[0][entities.TimeEntryBillableRate])

	require.Len(t, published, 1)
	require.Equal(t, orgID, published[0].OrganizationID)
	require.Equal(t, 1, published[0].TimeEntriesCreated)
	require.Equal(t, 1, published[0].ProjectsCreated)
	require.Equal(t, 1, published[0].TasksCreated)
}

func TestImportService_UnknownFormat(t *testing.T) {
	store := persistence.NewMemoryRowStore()
	svc := newTestImportService(store, eventbus.NewEventPublisher(logging.SilentLogger()))

	_, err := svc.Import(context.Background(), uuid.New(), "jira", nil, "UTC")
	require.Error(t, err)
	require.Equal(t, importer.KindFormat, importer.KindOf(err))
}

func TestImportService_InvalidTimezone(t *testing.T) {
	store := persistence.NewMemoryRowStore()
	svc := newTestImportService(store, eventbus.NewEventPublisher(logging.SilentLogger()))

	_, err := svc.Import(context.Background(), uuid.New(), "csv", nil, "Mars/Olympus")
	require.Error(t, err)
	require.Equal(t, importer.KindValidation, importer.KindOf(err))
	require.Contains(t, err.Error(), `invalid timezone: "Mars/Olympus"`)
}

func TestImportService_UnknownOrganization(t *testing.T) {
	store := persistence.NewMemoryRowStore()
	svc := newTestImportService(store, eventbus.NewEventPublisher(logging.SilentLogger()))

	_, err := svc.Import(context.Background(), uuid.New(), "csv", []byte("Email,Name,Client,Project,Task,Description,Billable,Start,End,Tags\n"), "UTC")
	require.Error(t, err)
	require.Equal(t, importer.KindReferential, importer.KindOf(err))
	require.Contains(t, err.Error(), "organization does not exist")
}

func TestImportService_UserErrorsSurfaceVerbatim(t *testing.T) {
	store := persistence.NewMemoryRowStore()
	orgID := seedOrganization(t, store, nil)

	publisher := eventbus.NewEventPublisher(logging.SilentLogger())
	var published int
	publisher.Subscribe(func(name string, e entities.TimeEntriesImportedEvent) { published++ })

	svc := newTestImportService(store, publisher)

	_, err := svc.Import(context.Background(), orgID, "csv", []byte("Email,Name\njane@example.com,Jane\n"), "UTC")
	require.Error(t, err)
	require.Equal(t, importer.KindFormat, importer.KindOf(err))
	require.Contains(t, err.Error(), "missing required column(s)")
	require.Equal(t, 0, published)
}

type failingStore struct {
	importer.RowStore
}

func (f failingStore) Insert(ctx context.Context, table string, id uuid.UUID, row importer.Row) error {
	return errors.New("connection refused to db-internal-host:5432")
}

func TestImportService_SystemErrorsAreStripped(t *testing.T) {
	base := persistence.NewMemoryRowStore()
	orgID := seedOrganization(t, base, nil)

	svc := newTestImportService(failingStore{RowStore: base}, eventbus.NewEventPublisher(logging.SilentLogger()))

	data := []byte(`Email,Name,Client,Project,Task,Description,Billable,Start,End,Tags
jane@example.com,Jane Doe,Acme,,,Meeting,true,2024-03-15T09:00:00Z,,
`)
	_, err := svc.Import(context.Background(), orgID, "csv", data, "UTC")
	require.Error(t, err)
	require.Equal(t, importer.KindSystem, importer.KindOf(err))
	require.False(t, importer.IsUserError(err))
	require.NotContains(t, err.Error(), "db-internal-host")
}
