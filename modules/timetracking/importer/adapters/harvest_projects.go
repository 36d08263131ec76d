package adapters

import (
	"context"

	"github.com/tempora-uz/tempora/modules/timetracking/domain/entities"
	"github.com/tempora-uz/tempora/modules/timetracking/importer"
)

// harvestProjects imports Harvest's projects export. Rate is a
// major-unit money value and Budget a decimal hours figure; both accept
// `,` or `.` as the decimal separator.
type harvestProjects struct{}

var harvestProjectColumns = []string{"Client", "Project", "Code", "Rate", "Budget"}

func (harvestProjects) Keyword() string { return "harvest_projects" }

func (harvestProjects) Import(ctx context.Context, ic *importer.Context, data []byte) error {
	return runCSV(ctx, ic, data, harvestProjectColumns, reconcileHarvestProject)
}

func reconcileHarvestProject(ctx context.Context, ic *importer.Context, rec record) error {
	var clientID any
	if name := rec.Get("Client"); name != "" {
		id, err := ic.Clients.GetOrCreateID(ctx, importer.Row{entities.ClientName: name}, nil, "")
		if err != nil {
			return err
		}
		clientID = id
	}

	attrs := importer.Row{entities.ProjectIsBillable: false}
	if raw := rec.Get("Rate"); raw != "" {
		rate, err := importer.ParseMoney(raw)
		if err != nil {
			return err
		}
		attrs[entities.ProjectIsBillable] = true
		attrs[entities.ProjectBillableRate] = rate
	}
	if raw := rec.Get("Budget"); raw != "" {
		seconds, err := importer.ParseDecimalHours(raw)
		if err != nil {
			return err
		}
		attrs[entities.ProjectEstimatedTime] = seconds
	}

	_, err := ic.Projects.GetOrCreateID(ctx,
		importer.Row{
			entities.ProjectName:     rec.Get("Project"),
			entities.ProjectClientID: clientID,
		},
		attrs,
		"",
	)
	return err
}
