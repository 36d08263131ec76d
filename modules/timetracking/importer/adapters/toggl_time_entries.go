package adapters

import (
	"context"

	"github.com/tempora-uz/tempora/modules/timetracking/importer"
)

// togglTimeEntries imports the flat CSV produced by Toggl Track's
// detailed report export. Start/end are split into date and clock-time
// columns, the clock in either 12-hour or 24-hour form.
type togglTimeEntries struct{}

var togglBillable = map[string]bool{"Yes": true, "No": false}

var togglTimeEntryColumns = []string{
	"User", "Email", "Client", "Project", "Task", "Description",
	"Billable", "Start date", "Start time", "End date", "End time", "Tags",
}

func (togglTimeEntries) Keyword() string { return "toggl_time_entries" }

func (togglTimeEntries) Import(ctx context.Context, ic *importer.Context, data []byte) error {
	return runCSV(ctx, ic, data, togglTimeEntryColumns, reconcileTogglTimeEntry)
}

func reconcileTogglTimeEntry(ctx context.Context, ic *importer.Context, rec record) error {
	clientID, projectID, taskID, err := resolveProjectGraph(ctx, ic, rec.Get("Client"), rec.Get("Project"), rec.Get("Task"))
	if err != nil {
		return err
	}
	tagIDs, err := ic.ResolveTags(ctx, importer.SplitTags(rec.Get("Tags"), ","))
	if err != nil {
		return err
	}
	memberID, err := resolveMember(ctx, ic, rec.Get("Email"), rec.Get("User"))
	if err != nil {
		return err
	}
	projectMemberID, err := resolveProjectMember(ctx, ic, projectID, memberID)
	if err != nil {
		return err
	}

	billable, err := importer.ParseBillableFlag(rec.Get("Billable"), togglBillable)
	if err != nil {
		return err
	}
	start, err := importer.ParseDatePair(rec.Get("Start date"), rec.Get("Start time"), ic.Timezone)
	if err != nil {
		return err
	}
	end, err := importer.ParseDatePair(rec.Get("End date"), rec.Get("End time"), ic.Timezone)
	if err != nil {
		return err
	}

	return ic.CreateTimeEntry(ctx, importer.TimeEntryCandidate{
		MemberID:        memberID,
		ProjectID:       projectID,
		ProjectMemberID: projectMemberID,
		TaskID:          taskID,
		ClientID:        clientID,
		Start:           start,
		End:             &end,
		Description:     rec.Get("Description"),
		Billable:        billable,
		TagIDs:          tagIDs,
	})
}
