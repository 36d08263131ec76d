package adapters

import (
	"context"

	"github.com/tempora-uz/tempora/modules/timetracking/importer"
)

// timecampTimeEntries imports TimeCamp's time entries CSV: a date column
// plus 24-hour clock times, with the billable flag encoded as 1/0.
type timecampTimeEntries struct{}

var timecampBillable = map[string]bool{"1": true, "0": false}

var timecampTimeEntryColumns = []string{
	"Date", "Start time", "End time", "Description",
	"Project", "Task", "Tags", "Billable", "User email", "User name",
}

func (timecampTimeEntries) Keyword() string { return "timecamp_time_entries" }

func (timecampTimeEntries) Import(ctx context.Context, ic *importer.Context, data []byte) error {
	return runCSV(ctx, ic, data, timecampTimeEntryColumns, reconcileTimecampTimeEntry)
}

func reconcileTimecampTimeEntry(ctx context.Context, ic *importer.Context, rec record) error {
	// TimeCamp has no client concept; projects hang directly off the
	// organization.
	_, projectID, taskID, err := resolveProjectGraph(ctx, ic, "", rec.Get("Project"), rec.Get("Task"))
	if err != nil {
		return err
	}
	tagIDs, err := ic.ResolveTags(ctx, importer.SplitTags(rec.Get("Tags"), ","))
	if err != nil {
		return err
	}
	memberID, err := resolveMember(ctx, ic, rec.Get("User email"), rec.Get("User name"))
	if err != nil {
		return err
	}
	projectMemberID, err := resolveProjectMember(ctx, ic, projectID, memberID)
	if err != nil {
		return err
	}

	billable, err := importer.ParseBillableFlag(rec.Get("Billable"), timecampBillable)
	if err != nil {
		return err
	}
	start, err := importer.ParseDatePair(rec.Get("Date"), rec.Get("Start time"), ic.Timezone)
	if err != nil {
		return err
	}
	end, err := importer.ParseDatePair(rec.Get("Date"), rec.Get("End time"), ic.Timezone)
	if err != nil {
		return err
	}

	return ic.CreateTimeEntry(ctx, importer.TimeEntryCandidate{
		MemberID:        memberID,
		ProjectID:       projectID,
		ProjectMemberID: projectMemberID,
		TaskID:          taskID,
		Start:           start,
		End:             &end,
		Description:     rec.Get("Description"),
		Billable:        billable,
		TagIDs:          tagIDs,
	})
}
