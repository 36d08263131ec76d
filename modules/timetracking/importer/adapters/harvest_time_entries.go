package adapters

import (
	"context"
	"strings"
	"time"

	"github.com/tempora-uz/tempora/modules/timetracking/importer"
)

// harvestTimeEntries imports Harvest's detailed time report CSV. Harvest
// exports a date plus a decimal hours figure rather than clock times;
// entries start at midnight and run for the given duration. Hours accept
// either `.` or `,` as the decimal separator.
type harvestTimeEntries struct{}

var harvestBillable = map[string]bool{"Yes": true, "No": false}

var harvestTimeEntryColumns = []string{
	"Date", "Client", "Project", "Task", "Notes", "Hours",
	"Billable?", "First Name", "Last Name", "Email",
}

func (harvestTimeEntries) Keyword() string { return "harvest_time_entries" }

func (harvestTimeEntries) Import(ctx context.Context, ic *importer.Context, data []byte) error {
	return runCSV(ctx, ic, data, harvestTimeEntryColumns, reconcileHarvestTimeEntry)
}

func reconcileHarvestTimeEntry(ctx context.Context, ic *importer.Context, rec record) error {
	clientID, projectID, taskID, err := resolveProjectGraph(ctx, ic, rec.Get("Client"), rec.Get("Project"), rec.Get("Task"))
	if err != nil {
		return err
	}
	name := strings.TrimSpace(rec.Get("First Name") + " " + rec.Get("Last Name"))
	memberID, err := resolveMember(ctx, ic, rec.Get("Email"), name)
	if err != nil {
		return err
	}
	projectMemberID, err := resolveProjectMember(ctx, ic, projectID, memberID)
	if err != nil {
		return err
	}

	billable, err := importer.ParseBillableFlag(rec.Get("Billable?"), harvestBillable)
	if err != nil {
		return err
	}
	start, err := importer.ParseDatePair(rec.Get("Date"), "00:00", ic.Timezone)
	if err != nil {
		return err
	}
	seconds, err := importer.ParseDecimalHours(rec.Get("Hours"))
	if err != nil {
		return err
	}
	end := start.Add(time.Duration(seconds) * time.Second)

	return ic.CreateTimeEntry(ctx, importer.TimeEntryCandidate{
		MemberID:        memberID,
		ProjectID:       projectID,
		ProjectMemberID: projectMemberID,
		TaskID:          taskID,
		ClientID:        clientID,
		Start:           start,
		End:             &end,
		Description:     rec.Get("Notes"),
		Billable:        billable,
	})
}
