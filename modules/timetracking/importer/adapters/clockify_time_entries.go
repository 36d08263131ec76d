package adapters

import (
	"context"

	"github.com/tempora-uz/tempora/modules/timetracking/importer"
)

// clockifyTimeEntries imports Clockify's detailed report CSV. Clockify
// emits 12-hour clock times by default but respects a workspace's
// 24-hour preference, so both shapes are accepted.
type clockifyTimeEntries struct{}

var clockifyBillable = map[string]bool{"Yes": true, "No": false}

var clockifyTimeEntryColumns = []string{
	"Project", "Client", "Description", "Task", "User", "Email",
	"Tags", "Billable", "Start Date", "Start Time", "End Date", "End Time",
}

func (clockifyTimeEntries) Keyword() string { return "clockify_time_entries" }

func (clockifyTimeEntries) Import(ctx context.Context, ic *importer.Context, data []byte) error {
	return runCSV(ctx, ic, data, clockifyTimeEntryColumns, reconcileClockifyTimeEntry)
}

func reconcileClockifyTimeEntry(ctx context.Context, ic *importer.Context, rec record) error {
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

	billable, err := importer.ParseBillableFlag(rec.Get("Billable"), clockifyBillable)
	if err != nil {
		return err
	}
	start, err := importer.ParseDatePair(rec.Get("Start Date"), rec.Get("Start Time"), ic.Timezone)
	if err != nil {
		return err
	}
	end, err := importer.ParseDatePair(rec.Get("End Date"), rec.Get("End Time"), ic.Timezone)
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
