package adapters

import (
	"context"
	"time"

	"github.com/tempora-uz/tempora/modules/timetracking/domain/entities"
	"github.com/tempora-uz/tempora/modules/timetracking/importer"
)

// clockifyProjects imports Clockify's projects export: one row per
// project with its client and a comma-joined task list. No time entries
// are produced.
type clockifyProjects struct{}

var clockifyProjectColumns = []string{
	"Name", "Client", "Status", "Visibility", "Billability", "Tasks",
}

func (clockifyProjects) Keyword() string { return "clockify_projects" }

func (clockifyProjects) Import(ctx context.Context, ic *importer.Context, data []byte) error {
	return runCSV(ctx, ic, data, clockifyProjectColumns, reconcileClockifyProject)
}

func reconcileClockifyProject(ctx context.Context, ic *importer.Context, rec record) error {
	var billable bool
	switch rec.Get("Billability") {
	case "Billable":
		billable = true
	case "Non-billable", "":
	default:
		return importer.ValidationErrorf("invalid billability value: %q", rec.Get("Billability"))
	}

	var public bool
	switch rec.Get("Visibility") {
	case "Public":
		public = true
	case "Private", "":
	default:
		return importer.ValidationErrorf("invalid visibility value: %q", rec.Get("Visibility"))
	}

	var archivedAt any
	switch rec.Get("Status") {
	case "Archived":
		archivedAt = time.Now().UTC()
	case "Active", "":
	default:
		return importer.ValidationErrorf("invalid status value: %q", rec.Get("Status"))
	}

	var clientID any
	if name := rec.Get("Client"); name != "" {
		id, err := ic.Clients.GetOrCreateID(ctx, importer.Row{entities.ClientName: name}, nil, "")
		if err != nil {
			return err
		}
		clientID = id
	}

	projectID, err := ic.Projects.GetOrCreateID(ctx,
		importer.Row{
			entities.ProjectName:     rec.Get("Name"),
			entities.ProjectClientID: clientID,
		},
		importer.Row{
			entities.ProjectIsBillable: billable,
			entities.ProjectIsPublic:   public,
			entities.ProjectArchivedAt: archivedAt,
		},
		"",
	)
	if err != nil {
		return err
	}

	for _, taskName := range importer.SplitTags(rec.Get("Tasks"), ",") {
		if _, err := ic.Tasks.GetOrCreateID(ctx, importer.Row{
			entities.TaskName:      taskName,
			entities.TaskProjectID: projectID,
		}, nil, ""); err != nil {
			return err
		}
	}
	return nil
}
