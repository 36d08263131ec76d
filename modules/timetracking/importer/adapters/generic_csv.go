package adapters

import (
	"context"
	"time"

	"github.com/tempora-uz/tempora/modules/timetracking/importer"
)

// genericCSV imports the product's own documented CSV layout: ISO-8601
// timestamps, literal true/false billable flags, comma-joined tags. An
// empty End marks a still-running timer; this is the only flat format
// that allows one.
type genericCSV struct{}

var genericBillable = map[string]bool{"true": true, "false": false}

var genericCSVColumns = []string{
	"Email", "Name", "Client", "Project", "Task",
	"Description", "Billable", "Start", "End", "Tags",
}

func (genericCSV) Keyword() string { return "csv" }

func (genericCSV) Import(ctx context.Context, ic *importer.Context, data []byte) error {
	return runCSV(ctx, ic, data, genericCSVColumns, reconcileGenericCSV)
}

func reconcileGenericCSV(ctx context.Context, ic *importer.Context, rec record) error {
	clientID, projectID, taskID, err := resolveProjectGraph(ctx, ic, rec.Get("Client"), rec.Get("Project"), rec.Get("Task"))
	if err != nil {
		return err
	}
	tagIDs, err := ic.ResolveTags(ctx, importer.SplitTags(rec.Get("Tags"), ","))
	if err != nil {
		return err
	}
	memberID, err := resolveMember(ctx, ic, rec.Get("Email"), rec.Get("Name"))
	if err != nil {
		return err
	}
	projectMemberID, err := resolveProjectMember(ctx, ic, projectID, memberID)
	if err != nil {
		return err
	}

	billable, err := importer.ParseBillableFlag(rec.Get("Billable"), genericBillable)
	if err != nil {
		return err
	}
	start, err := importer.ParseISO(rec.Get("Start"))
	if err != nil {
		return err
	}
	var end *time.Time
	if raw := rec.Get("End"); raw != "" {
		t, err := importer.ParseISO(raw)
		if err != nil {
			return err
		}
		end = &t
	}

	return ic.CreateTimeEntry(ctx, importer.TimeEntryCandidate{
		MemberID:        memberID,
		ProjectID:       projectID,
		ProjectMemberID: projectMemberID,
		TaskID:          taskID,
		ClientID:        clientID,
		Start:           start,
		End:             end,
		Description:     rec.Get("Description"),
		Billable:        billable,
		TagIDs:          tagIDs,
	})
}
