package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/tempora-uz/tempora/modules/timetracking/domain/entities"
	"github.com/tempora-uz/tempora/modules/timetracking/importer"
	"github.com/tempora-uz/tempora/pkg/composables"
	"github.com/tempora-uz/tempora/pkg/eventbus"
)

// ImportService runs format adapters against an organization inside a
// single transaction per call: either every row of the input lands or
// none do.
type ImportService struct {
	store     importer.RowStore
	registry  *importer.Registry
	publisher eventbus.EventBus
	logger    *logrus.Logger

	// runInTx is swapped in tests where no database pool exists.
	runInTx func(ctx context.Context, fn func(context.Context) error) error
}

func NewImportService(
	store importer.RowStore,
	registry *importer.Registry,
	publisher eventbus.EventBus,
	logger *logrus.Logger,
) *ImportService {
	return &ImportService{
		store:     store,
		registry:  registry,
		publisher: publisher,
		logger:    logger,
		runInTx:   composables.InTenantTx,
	}
}

// Formats lists the supported format keywords.
func (s *ImportService) Formats() []string {
	return s.registry.Keywords()
}

// Import parses data in the named format and materializes it for the
// organization. On success the report carries per-entity creation
// counters; on failure nothing is persisted and user-actionable errors
// come back verbatim while internal failures are logged and replaced
// with a generic message.
func (s *ImportService) Import(
	ctx context.Context,
	organizationID uuid.UUID,
	format string,
	data []byte,
	timezone string,
) (*importer.Report, error) {
	adapter, err := s.registry.Resolve(format)
	if err != nil {
		return nil, err
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, importer.ValidationErrorf("invalid timezone: %q", timezone)
	}

	log := s.logger.WithFields(logrus.Fields{
		"organization_id": organizationID,
		"format":          format,
	})

	ctx = composables.WithTenantID(ctx, organizationID)

	var report *importer.Report
	err = s.runInTx(ctx, func(txCtx context.Context) error {
		orgRow, found, err := s.store.GetByID(txCtx, entities.OrganizationsTable, organizationID)
		if err != nil {
			return err
		}
		if !found {
			return importer.ReferentialErrorf("organization does not exist: %s", organizationID)
		}
		session := importer.NewSession(
			s.store,
			adapter,
			organizationID,
			importer.Int64Column(orgRow, entities.OrganizationBillableRate),
			loc,
			log,
		)
		report, err = session.Run(txCtx, data)
		return err
	})
	if err != nil {
		if importer.IsUserError(err) {
			return nil, err
		}
		log.WithError(err).Error("import failed")
		return nil, importer.SystemError(err)
	}

	log.WithFields(logrus.Fields{
		"time_entries_created": report.TimeEntries.Created,
		"projects_created":     report.Projects.Created,
	}).Info("import completed")

	s.publisher.Publish("timeentries.imported", entities.TimeEntriesImportedEvent{
		OrganizationID:     organizationID,
		TimeEntriesCreated: report.TimeEntries.Created,
		ProjectsCreated:    report.Projects.Created,
		TasksCreated:       report.Tasks.Created,
	})
	return report, nil
}
