package importer_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/tempora-uz/tempora/modules/timetracking/domain/entities"
	"github.com/tempora-uz/tempora/modules/timetracking/importer"
	"github.com/tempora-uz/tempora/modules/timetracking/infrastructure/persistence"
)

func newClientCache(store importer.RowStore, orgID uuid.UUID) *importer.Cache {
	return importer.NewCache(store, importer.CacheConfig{
		Table: entities.ClientsTable,
		Scope: importer.Row{entities.ClientOrganizationID: orgID},
	})
}

func TestCache_GetOrCreateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewMemoryRowStore()
	cache := newClientCache(store, uuid.New())

	key := importer.Row{entities.ClientName: "Acme"}
	first, err := cache.GetOrCreateID(ctx, key, nil, "")
	require.NoError(t, err)
	second, err := cache.GetOrCreateID(ctx, key, nil, "")
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, 1, cache.CreatedCount())
	require.Equal(t, 1, store.Count(entities.ClientsTable))
}

func TestCache_ScopeSeparatesOrganizations(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewMemoryRowStore()
	key := importer.Row{entities.ClientName: "Acme"}

	a := newClientCache(store, uuid.New())
	b := newClientCache(store, uuid.New())

	idA, err := a.GetOrCreateID(ctx, key, nil, "")
	require.NoError(t, err)
	idB, err := b.GetOrCreateID(ctx, key, nil, "")
	require.NoError(t, err)

	require.NotEqual(t, idA, idB)
	require.Equal(t, 2, store.Count(entities.ClientsTable))
}

func TestCache_MatchesPreexistingRowWithoutCreating(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewMemoryRowStore()
	orgID := uuid.New()

	existing := uuid.New()
	require.NoError(t, store.Insert(ctx, entities.ClientsTable, existing, importer.Row{
		entities.ClientOrganizationID: orgID,
		entities.ClientName:           "Acme",
	}))

	cache := newClientCache(store, orgID)
	id, err := cache.GetOrCreateID(ctx, importer.Row{entities.ClientName: "Acme"}, nil, "")
	require.NoError(t, err)

	require.Equal(t, existing, id)
	require.Equal(t, 0, cache.CreatedCount())
	require.Equal(t, 1, store.Count(entities.ClientsTable))
}

func TestCache_AttrsApplyOnlyOnCreate(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewMemoryRowStore()
	cache := importer.NewCache(store, importer.CacheConfig{
		Table: entities.ProjectsTable,
		Scope: importer.Row{entities.ProjectOrganizationID: uuid.New()},
	})

	key := importer.Row{entities.ProjectName: "Website", entities.ProjectClientID: nil}
	_, err := cache.GetOrCreateID(ctx, key, importer.Row{entities.ProjectIsBillable: false}, "")
	require.NoError(t, err)

	// A later record with different attrs must not touch the stored row.
	_, err = cache.GetOrCreateID(ctx, key, importer.Row{entities.ProjectIsBillable: true}, "")
	require.NoError(t, err)

	rows := store.Rows(entities.ProjectsTable)
	require.Len(t, rows, 1)
	require.Equal(t, false, rows[0][entities.ProjectIsBillable])
}

func TestCache_ExternalIDIndex(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewMemoryRowStore()
	cache := newClientCache(store, uuid.New())

	idA, err := cache.GetOrCreateID(ctx, importer.Row{entities.ClientName: "Acme"}, nil, "ext-1")
	require.NoError(t, err)
	idB, err := cache.GetOrCreateID(ctx, importer.Row{entities.ClientName: "Globex"}, nil, "ext-2")
	require.NoError(t, err)

	got, ok := cache.GetIDByExternalID("ext-1")
	require.True(t, ok)
	require.Equal(t, idA, got)
	got, ok = cache.GetIDByExternalID("ext-2")
	require.True(t, ok)
	require.Equal(t, idB, got)

	_, ok = cache.GetIDByExternalID("ext-3")
	require.False(t, ok)

	require.Equal(t, []string{"ext-1", "ext-2"}, cache.ExternalIDs())
}

func TestCache_ExternalIDBindsOnce(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewMemoryRowStore()
	cache := newClientCache(store, uuid.New())

	first, err := cache.GetOrCreateID(ctx, importer.Row{entities.ClientName: "Acme"}, nil, "c1")
	require.NoError(t, err)

	// repeating the same binding is fine
	again, err := cache.GetOrCreateID(ctx, importer.Row{entities.ClientName: "Acme"}, nil, "c1")
	require.NoError(t, err)
	require.Equal(t, first, again)

	// the same identifier on a different row is a referential error and
	// must not disturb the original binding
	_, err = cache.GetOrCreateID(ctx, importer.Row{entities.ClientName: "Globex"}, nil, "c1")
	require.Error(t, err)
	require.Equal(t, importer.KindReferential, importer.KindOf(err))
	require.Contains(t, err.Error(), "conflicting external id: c1")

	got, ok := cache.GetIDByExternalID("c1")
	require.True(t, ok)
	require.Equal(t, first, got)
	require.Equal(t, []string{"c1"}, cache.ExternalIDs())
}

func TestCache_ValidationRules(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewMemoryRowStore()
	cache := importer.NewCache(store, importer.CacheConfig{
		Table: entities.UsersTable,
		Scope: importer.Row{entities.UserIsPlaceholder: true},
		Rules: map[string]string{entities.UserEmail: "required,email"},
	})

	_, err := cache.GetOrCreateID(ctx, importer.Row{entities.UserEmail: "not-an-email"}, nil, "")
	require.Error(t, err)
	require.Equal(t, importer.KindValidation, importer.KindOf(err))
	require.Contains(t, err.Error(), `invalid email: "not-an-email"`)
	require.Equal(t, 0, store.Count(entities.UsersTable))

	_, err = cache.GetOrCreateID(ctx, importer.Row{entities.UserEmail: nil, entities.UserName: "Ghost"}, nil, "")
	require.Error(t, err)
	require.Contains(t, err.Error(), "email is required")

	_, err = cache.GetOrCreateID(ctx, importer.Row{entities.UserEmail: "jane@example.com"}, nil, "")
	require.NoError(t, err)
}

func TestCache_BeforeSaveNormalizesZeroRate(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewMemoryRowStore()
	cache := importer.NewCache(store, importer.CacheConfig{
		Table: entities.MembersTable,
		Scope: importer.Row{entities.MemberOrganizationID: uuid.New()},
		BeforeSave: func(row importer.Row) {
			if v, ok := row[entities.MemberBillableRate].(int64); ok && v == 0 {
				row[entities.MemberBillableRate] = nil
			}
		},
	})

	_, err := cache.GetOrCreateID(ctx,
		importer.Row{entities.MemberUserID: uuid.New()},
		importer.Row{entities.MemberBillableRate: int64(0)},
		"",
	)
	require.NoError(t, err)

	rows := store.Rows(entities.MembersTable)
	require.Len(t, rows, 1)
	require.Nil(t, rows[0][entities.MemberBillableRate])
}

func TestCache_CreateNeverDeduplicates(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewMemoryRowStore()
	orgID := uuid.New()
	cache := importer.NewCache(store, importer.CacheConfig{
		Table: entities.TimeEntriesTable,
		Scope: importer.Row{entities.TimeEntryOrganizationID: orgID},
	})

	attrs := importer.Row{entities.TimeEntryDescription: "standup"}
	_, err := cache.Create(ctx, attrs)
	require.NoError(t, err)
	_, err = cache.Create(ctx, attrs)
	require.NoError(t, err)

	require.Equal(t, 2, cache.CreatedCount())
	require.Equal(t, 2, store.Count(entities.TimeEntriesTable))
}

func TestCache_GetEntityByIDServesCreatedRows(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewMemoryRowStore()
	cache := newClientCache(store, uuid.New())

	id, err := cache.GetOrCreateID(ctx, importer.Row{entities.ClientName: "Acme"}, nil, "")
	require.NoError(t, err)

	row, err := cache.GetEntityByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "Acme", row[entities.ClientName])

	_, err = cache.GetEntityByID(ctx, uuid.New())
	require.Error(t, err)
	require.Equal(t, importer.KindSystem, importer.KindOf(err))
}
