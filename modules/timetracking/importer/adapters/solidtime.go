package adapters

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tempora-uz/tempora/modules/timetracking/domain/entities"
	"github.com/tempora-uz/tempora/modules/timetracking/importer"
)

// solidtime imports the product's own full-fidelity migration bundle: a
// ZIP whose meta.json declares a schema version and whose CSV data files
// carry the source system's ids in an `id` column. Cross-file references
// resolve strictly through those external identifiers — a dangling
// reference fails the run rather than silently creating an entity.
type solidtime struct{}

var solidtimeVersions = map[string]struct{}{"1.0": {}}

var solidtimeBool = map[string]bool{"true": true, "false": false}

func (solidtime) Keyword() string { return "solidtime" }

func (solidtime) Import(ctx context.Context, ic *importer.Context, data []byte) error {
	return importer.WithExtractedArchive(data, func(dir string) error {
		if err := checkBundleVersion(dir); err != nil {
			return err
		}
		return importSolidtimeBundle(ctx, ic, dir)
	})
}

func checkBundleVersion(dir string) error {
	raw, err := os.ReadFile(filepath.Join(dir, "meta.json"))
	if err != nil {
		return importer.FormatErrorf("missing file in archive: meta.json")
	}
	var meta struct {
		Version string `json:"version"`
	}
	if err := json.Unmarshal(raw, &meta); err != nil {
		return importer.ParseErrorf("meta.json: %v", err)
	}
	if _, ok := solidtimeVersions[meta.Version]; !ok {
		return importer.FormatErrorf("unsupported bundle version: %q", meta.Version)
	}
	return nil
}

func importSolidtimeBundle(ctx context.Context, ic *importer.Context, dir string) error {
	if err := forEachCSVFile(ctx, ic, dir, "clients.csv",
		[]string{"id", "name", "archived_at"},
		reconcileBundleClient); err != nil {
		return err
	}
	if err := forEachCSVFile(ctx, ic, dir, "tags.csv",
		[]string{"id", "name"},
		reconcileBundleTag); err != nil {
		return err
	}
	if err := forEachCSVFile(ctx, ic, dir, "members.csv",
		[]string{"id", "email", "name", "role", "billable_rate"},
		reconcileBundleMember); err != nil {
		return err
	}
	if err := forEachCSVFile(ctx, ic, dir, "organization_invitations.csv",
		[]string{"email", "role"},
		reconcileBundleInvitation); err != nil {
		return err
	}
	if err := forEachCSVFile(ctx, ic, dir, "projects.csv",
		[]string{"id", "name", "color", "client_id", "is_billable", "is_public", "billable_rate", "estimated_time", "archived_at"},
		reconcileBundleProject); err != nil {
		return err
	}
	if err := forEachCSVFile(ctx, ic, dir, "project_members.csv",
		[]string{"id", "project_id", "member_id", "billable_rate"},
		reconcileBundleProjectMember); err != nil {
		return err
	}
	if err := forEachCSVFile(ctx, ic, dir, "tasks.csv",
		[]string{"id", "name", "project_id", "estimated_time", "done_at"},
		reconcileBundleTask); err != nil {
		return err
	}
	return forEachCSVFile(ctx, ic, dir, "time_entries.csv",
		[]string{"member_id", "project_id", "task_id", "start", "end", "description", "billable", "tags"},
		reconcileBundleTimeEntry)
}

func reconcileBundleClient(ctx context.Context, ic *importer.Context, rec record) error {
	archivedAt, err := bundleTimestamp(rec.Get("archived_at"))
	if err != nil {
		return err
	}
	_, err = ic.Clients.GetOrCreateID(ctx,
		importer.Row{entities.ClientName: rec.Get("name")},
		importer.Row{entities.ClientArchivedAt: archivedAt},
		rec.Get("id"),
	)
	return err
}

func reconcileBundleTag(ctx context.Context, ic *importer.Context, rec record) error {
	_, err := ic.Tags.GetOrCreateID(ctx,
		importer.Row{entities.TagName: rec.Get("name")}, nil, rec.Get("id"))
	return err
}

func reconcileBundleMember(ctx context.Context, ic *importer.Context, rec record) error {
	userID, err := ic.Users.GetOrCreateID(ctx,
		importer.Row{entities.UserEmail: strings.ToLower(rec.Get("email"))},
		importer.Row{
			entities.UserName:     rec.Get("name"),
			entities.UserTimezone: ic.Timezone.String(),
		},
		"",
	)
	if err != nil {
		return err
	}
	rate, err := bundleInt(rec.Get("billable_rate"))
	if err != nil {
		return err
	}
	_, err = ic.Members.GetOrCreateID(ctx,
		importer.Row{entities.MemberUserID: userID},
		importer.Row{
			entities.MemberRoleColumn:   rec.Get("role"),
			entities.MemberBillableRate: rate,
		},
		rec.Get("id"),
	)
	return err
}

func reconcileBundleInvitation(ctx context.Context, ic *importer.Context, rec record) error {
	_, err := ic.Invitations.GetOrCreateID(ctx,
		importer.Row{entities.InvitationEmail: rec.Get("email")},
		importer.Row{entities.InvitationRole: rec.Get("role")},
		"",
	)
	return err
}

func reconcileBundleProject(ctx context.Context, ic *importer.Context, rec record) error {
	var clientID any
	if ext := rec.Get("client_id"); ext != "" {
		id, err := importer.RequireExternal(ic.Clients, "client", ext)
		if err != nil {
			return err
		}
		clientID = id
	}
	billable, err := importer.ParseBillableFlag(rec.Get("is_billable"), solidtimeBool)
	if err != nil {
		return err
	}
	public, err := importer.ParseBillableFlag(rec.Get("is_public"), solidtimeBool)
	if err != nil {
		return err
	}
	rate, err := bundleInt(rec.Get("billable_rate"))
	if err != nil {
		return err
	}
	estimated, err := bundleInt(rec.Get("estimated_time"))
	if err != nil {
		return err
	}
	archivedAt, err := bundleTimestamp(rec.Get("archived_at"))
	if err != nil {
		return err
	}

	attrs := importer.Row{
		entities.ProjectIsBillable:    billable,
		entities.ProjectIsPublic:      public,
		entities.ProjectBillableRate:  rate,
		entities.ProjectEstimatedTime: estimated,
		entities.ProjectArchivedAt:    archivedAt,
	}
	if color := rec.Get("color"); color != "" {
		attrs[entities.ProjectColor] = color
	}
	_, err = ic.Projects.GetOrCreateID(ctx,
		importer.Row{
			entities.ProjectName:     rec.Get("name"),
			entities.ProjectClientID: clientID,
		},
		attrs,
		rec.Get("id"),
	)
	return err
}

func reconcileBundleProjectMember(ctx context.Context, ic *importer.Context, rec record) error {
	projectID, err := importer.RequireExternal(ic.Projects, "project", rec.Get("project_id"))
	if err != nil {
		return err
	}
	memberID, err := importer.RequireExternal(ic.Members, "member", rec.Get("member_id"))
	if err != nil {
		return err
	}
	rate, err := bundleInt(rec.Get("billable_rate"))
	if err != nil {
		return err
	}
	_, err = ic.ProjectMembers.GetOrCreateID(ctx,
		importer.Row{
			entities.ProjectMemberProjectID: projectID,
			entities.ProjectMemberMemberID:  memberID,
		},
		importer.Row{entities.ProjectMemberBillableRate: rate},
		rec.Get("id"),
	)
	return err
}

func reconcileBundleTask(ctx context.Context, ic *importer.Context, rec record) error {
	projectID, err := importer.RequireExternal(ic.Projects, "project", rec.Get("project_id"))
	if err != nil {
		return err
	}
	estimated, err := bundleInt(rec.Get("estimated_time"))
	if err != nil {
		return err
	}
	doneAt, err := bundleTimestamp(rec.Get("done_at"))
	if err != nil {
		return err
	}
	_, err = ic.Tasks.GetOrCreateID(ctx,
		importer.Row{
			entities.TaskName:      rec.Get("name"),
			entities.TaskProjectID: projectID,
		},
		importer.Row{
			entities.TaskEstimatedTime: estimated,
			entities.TaskDoneAt:        doneAt,
		},
		rec.Get("id"),
	)
	return err
}

func reconcileBundleTimeEntry(ctx context.Context, ic *importer.Context, rec record) error {
	memberID, err := importer.RequireExternal(ic.Members, "member", rec.Get("member_id"))
	if err != nil {
		return err
	}
	var projectID *uuid.UUID
	if ext := rec.Get("project_id"); ext != "" {
		id, err := importer.RequireExternal(ic.Projects, "project", ext)
		if err != nil {
			return err
		}
		projectID = &id
	}
	var taskID *uuid.UUID
	if ext := rec.Get("task_id"); ext != "" {
		id, err := importer.RequireExternal(ic.Tasks, "task", ext)
		if err != nil {
			return err
		}
		taskID = &id
	}
	var tagIDs []uuid.UUID
	for _, ext := range importer.SplitTags(rec.Get("tags"), ",") {
		id, err := importer.RequireExternal(ic.Tags, "tag", ext)
		if err != nil {
			return err
		}
		tagIDs = append(tagIDs, id)
	}
	projectMemberID, err := resolveProjectMember(ctx, ic, projectID, memberID)
	if err != nil {
		return err
	}

	billable, err := importer.ParseBillableFlag(rec.Get("billable"), solidtimeBool)
	if err != nil {
		return err
	}
	start, err := importer.ParseISO(rec.Get("start"))
	if err != nil {
		return err
	}
	// an empty end is a timer that was still running at export time
	var end *time.Time
	if raw := rec.Get("end"); raw != "" {
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
		Start:           start,
		End:             end,
		Description:     rec.Get("description"),
		Billable:        billable,
		TagIDs:          tagIDs,
	})
}

func bundleInt(raw string) (any, error) {
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, importer.ParseErrorf("could not parse number: %q", raw)
	}
	return n, nil
}

func bundleTimestamp(raw string) (any, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := importer.ParseISO(raw)
	if err != nil {
		return nil, err
	}
	return t, nil
}
