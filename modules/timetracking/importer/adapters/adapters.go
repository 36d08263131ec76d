// Package adapters implements one import adapter per supported
// third-party time-tracking export format. Adapters are a closed set
// behind importer.Adapter; new formats register a factory here.
package adapters

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/tempora-uz/tempora/modules/timetracking/domain/entities"
	"github.com/tempora-uz/tempora/modules/timetracking/importer"
)

// DefaultRegistry returns the registry with every shipped format
// registered. Built at process start; the table is exhaustive by
// construction.
func DefaultRegistry() *importer.Registry {
	r := importer.NewRegistry()
	r.Register("toggl_time_entries", func() importer.Adapter { return togglTimeEntries{} })
	r.Register("toggl_data", func() importer.Adapter { return togglData{} })
	r.Register("clockify_time_entries", func() importer.Adapter { return clockifyTimeEntries{} })
	r.Register("clockify_projects", func() importer.Adapter { return clockifyProjects{} })
	r.Register("harvest_time_entries", func() importer.Adapter { return harvestTimeEntries{} })
	r.Register("harvest_projects", func() importer.Adapter { return harvestProjects{} })
	r.Register("timecamp_time_entries", func() importer.Adapter { return timecampTimeEntries{} })
	r.Register("csv", func() importer.Adapter { return genericCSV{} })
	r.Register("solidtime", func() importer.Adapter { return solidtime{} })
	return r
}

// record is one decoded CSV row addressed by column name.
type record struct {
	line int
	idx  map[string]int
	rec  []string
}

func (r record) Get(column string) string {
	i, ok := r.idx[column]
	if !ok || i >= len(r.rec) {
		return ""
	}
	return strings.TrimSpace(r.rec[i])
}

func (r record) empty() bool {
	for _, v := range r.rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// runCSV validates the header against the adapter's required columns and
// streams records through reconcile. Record errors abort the run,
// annotated with the input line.
func runCSV(
	ctx context.Context,
	ic *importer.Context,
	data []byte,
	required []string,
	reconcile func(ctx context.Context, ic *importer.Context, rec record) error,
) error {
	r := importer.NewCSVReader(data)
	header, err := importer.ReadHeader(r)
	if err != nil {
		return err
	}
	if err := importer.RequireColumns(header, required); err != nil {
		return err
	}
	idx := importer.HeaderIndex(header)

	line := 1
	for {
		line++
		raw, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return importer.ParseErrorf("line %d: %v", line, err)
		}
		rec := record{line: line, idx: idx, rec: raw}
		if rec.empty() {
			continue
		}
		if err := reconcile(ctx, ic, rec); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
	}
	return nil
}

// forEachCSVFile streams one CSV data file inside an extracted bundle.
// A missing file is a format error.
func forEachCSVFile(
	ctx context.Context,
	ic *importer.Context,
	dir, name string,
	required []string,
	reconcile func(ctx context.Context, ic *importer.Context, rec record) error,
) error {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return importer.FormatErrorf("missing file in archive: %s", name)
	}
	if err := runCSV(ctx, ic, data, required, reconcile); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// resolveMember get-or-creates the placeholder user for an email and its
// membership in the current organization.
func resolveMember(ctx context.Context, ic *importer.Context, email, name string) (uuid.UUID, error) {
	userID, err := ic.Users.GetOrCreateID(ctx,
		importer.Row{entities.UserEmail: strings.ToLower(email)},
		importer.Row{
			entities.UserName:     name,
			entities.UserTimezone: ic.Timezone.String(),
		},
		"",
	)
	if err != nil {
		return uuid.Nil, err
	}
	return ic.Members.GetOrCreateID(ctx,
		importer.Row{entities.MemberUserID: userID},
		importer.Row{entities.MemberRoleColumn: string(entities.MemberRolePlaceholder)},
		"",
	)
}

// resolveProjectGraph resolves client, project, and task names in their
// fixed dependency order. Empty names resolve to nil without error.
func resolveProjectGraph(ctx context.Context, ic *importer.Context, clientName, projectName, taskName string) (clientID, projectID, taskID *uuid.UUID, err error) {
	if clientName != "" {
		id, cerr := ic.Clients.GetOrCreateID(ctx, importer.Row{entities.ClientName: clientName}, nil, "")
		if cerr != nil {
			return nil, nil, nil, cerr
		}
		clientID = &id
	}
	if projectName != "" {
		key := importer.Row{
			entities.ProjectName:     projectName,
			entities.ProjectClientID: uuidValue(clientID),
		}
		id, perr := ic.Projects.GetOrCreateID(ctx, key, importer.Row{entities.ProjectIsBillable: false}, "")
		if perr != nil {
			return nil, nil, nil, perr
		}
		projectID = &id
	}
	if taskName != "" && projectID != nil {
		id, terr := ic.Tasks.GetOrCreateID(ctx, importer.Row{
			entities.TaskName:      taskName,
			entities.TaskProjectID: *projectID,
		}, nil, "")
		if terr != nil {
			return nil, nil, nil, terr
		}
		taskID = &id
	}
	return clientID, projectID, taskID, nil
}

// resolveProjectMember links a member to a project, keeping any existing
// rate override.
func resolveProjectMember(ctx context.Context, ic *importer.Context, projectID *uuid.UUID, memberID uuid.UUID) (*uuid.UUID, error) {
	if projectID == nil {
		return nil, nil
	}
	id, err := ic.ProjectMembers.GetOrCreateID(ctx, importer.Row{
		entities.ProjectMemberProjectID: *projectID,
		entities.ProjectMemberMemberID:  memberID,
	}, nil, "")
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func uuidValue(id *uuid.UUID) any {
	if id == nil {
		return nil
	}
	return *id
}
