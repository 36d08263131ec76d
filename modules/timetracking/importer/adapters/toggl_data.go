package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/tempora-uz/tempora/modules/timetracking/domain/entities"
	"github.com/tempora-uz/tempora/modules/timetracking/importer"
)

// togglData imports Toggl's legacy workspace export: a ZIP of JSON
// arrays, one per entity type, plus per-project side files for project
// memberships and tasks. Records reference each other by Toggl's numeric
// ids, carried here as external identifiers.
type togglData struct{}

// extID tolerates Toggl emitting ids as either JSON numbers or strings.
type extID string

func (e *extID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if string(b) == "null" {
		*e = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*e = extID(s)
		return nil
	}
	*e = extID(string(b))
	return nil
}

type togglClient struct {
	ID   extID  `json:"id"`
	Name string `json:"name"`
}

type togglProject struct {
	ID       extID  `json:"id"`
	Name     string `json:"name"`
	CID      extID  `json:"cid"`
	HexColor string `json:"hex_color"`
	Billable bool   `json:"billable"`
}

type togglTag struct {
	ID   extID  `json:"id"`
	Name string `json:"name"`
}

type togglWorkspaceUser struct {
	UID   extID  `json:"uid"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type togglProjectUser struct {
	UID  extID   `json:"uid"`
	Rate float64 `json:"rate"`
}

type togglTask struct {
	ID               extID  `json:"id"`
	Name             string `json:"name"`
	EstimatedSeconds int64  `json:"estimated_seconds"`
}

func (togglData) Keyword() string { return "toggl_data" }

func (togglData) Import(ctx context.Context, ic *importer.Context, data []byte) error {
	return importer.WithExtractedArchive(data, func(dir string) error {
		return importTogglData(ctx, ic, dir)
	})
}

func importTogglData(ctx context.Context, ic *importer.Context, dir string) error {
	var clients []togglClient
	if err := readJSONFile(dir, "clients.json", &clients); err != nil {
		return err
	}
	for _, c := range clients {
		if _, err := ic.Clients.GetOrCreateID(ctx, importer.Row{entities.ClientName: c.Name}, nil, string(c.ID)); err != nil {
			return err
		}
	}

	var projects []togglProject
	if err := readJSONFile(dir, "projects.json", &projects); err != nil {
		return err
	}
	for _, p := range projects {
		var clientID any
		if p.CID != "" {
			id, err := importer.RequireExternal(ic.Clients, "client", string(p.CID))
			if err != nil {
				return err
			}
			clientID = id
		}
		attrs := importer.Row{entities.ProjectIsBillable: p.Billable}
		if p.HexColor != "" {
			attrs[entities.ProjectColor] = p.HexColor
		}
		if _, err := ic.Projects.GetOrCreateID(ctx, importer.Row{
			entities.ProjectName:     p.Name,
			entities.ProjectClientID: clientID,
		}, attrs, string(p.ID)); err != nil {
			return err
		}
	}

	var tags []togglTag
	if err := readJSONFile(dir, "tags.json", &tags); err != nil {
		return err
	}
	for _, t := range tags {
		if _, err := ic.Tags.GetOrCreateID(ctx, importer.Row{entities.TagName: t.Name}, nil, string(t.ID)); err != nil {
			return err
		}
	}

	var workspaceUsers []togglWorkspaceUser
	if err := readJSONFile(dir, "workspace_users.json", &workspaceUsers); err != nil {
		return err
	}
	for _, wu := range workspaceUsers {
		userID, err := ic.Users.GetOrCreateID(ctx,
			importer.Row{entities.UserEmail: strings.ToLower(wu.Email)},
			importer.Row{
				entities.UserName:     wu.Name,
				entities.UserTimezone: ic.Timezone.String(),
			},
			"",
		)
		if err != nil {
			return err
		}
		if _, err := ic.Members.GetOrCreateID(ctx,
			importer.Row{entities.MemberUserID: userID},
			importer.Row{entities.MemberRoleColumn: string(entities.MemberRolePlaceholder)},
			string(wu.UID),
		); err != nil {
			return err
		}
	}

	// side files are keyed by project external id; discover them through
	// the cache's registered identifiers
	for _, pid := range ic.Projects.ExternalIDs() {
		projectID, err := importer.RequireExternal(ic.Projects, "project", pid)
		if err != nil {
			return err
		}

		var projectUsers []togglProjectUser
		found, err := readOptionalJSONFile(dir, filepath.Join("projects_users", pid+".json"), &projectUsers)
		if err != nil {
			return err
		}
		if found {
			for _, pu := range projectUsers {
				memberID, err := importer.RequireExternal(ic.Members, "member", string(pu.UID))
				if err != nil {
					return err
				}
				var rate any
				if pu.Rate != 0 {
					rate = int64(math.Round(pu.Rate * 100))
				}
				if _, err := ic.ProjectMembers.GetOrCreateID(ctx, importer.Row{
					entities.ProjectMemberProjectID: projectID,
					entities.ProjectMemberMemberID:  memberID,
				}, importer.Row{entities.ProjectMemberBillableRate: rate}, ""); err != nil {
					return err
				}
			}
		}

		var projectTasks []togglTask
		found, err = readOptionalJSONFile(dir, filepath.Join("tasks", pid+".json"), &projectTasks)
		if err != nil {
			return err
		}
		if found {
			for _, t := range projectTasks {
				attrs := importer.Row{}
				if t.EstimatedSeconds > 0 {
					attrs[entities.TaskEstimatedTime] = t.EstimatedSeconds
				}
				if _, err := ic.Tasks.GetOrCreateID(ctx, importer.Row{
					entities.TaskName:      t.Name,
					entities.TaskProjectID: projectID,
				}, attrs, string(t.ID)); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

func readJSONFile(dir, name string, out any) error {
	found, err := readOptionalJSONFile(dir, name, out)
	if err != nil {
		return err
	}
	if !found {
		return importer.FormatErrorf("missing file in archive: %s", name)
	}
	return nil
}

func readOptionalJSONFile(dir, name string, out any) (bool, error) {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, importer.FormatErrorf("unreadable file in archive: %s", name)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, importer.ParseErrorf("%s: %v", name, err)
	}
	return true, nil
}
