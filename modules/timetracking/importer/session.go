package importer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/tempora-uz/tempora/modules/timetracking/domain/entities"
)

type CountReport struct {
	Created int `json:"created"`
}

// Report summarizes one import run.
type Report struct {
	Clients     CountReport `json:"clients"`
	Projects    CountReport `json:"projects"`
	Tasks       CountReport `json:"tasks"`
	TimeEntries CountReport `json:"time_entries"`
	Tags        CountReport `json:"tags"`
	Users       CountReport `json:"users"`
}

// Session binds one adapter to one organization for the duration of a
// single import run. Each session owns a fresh set of caches; sessions
// for different organizations share nothing.
type Session struct {
	ic      *Context
	adapter Adapter
}

func NewSession(
	store RowStore,
	adapter Adapter,
	organizationID uuid.UUID,
	organizationRate *int64,
	timezone *time.Location,
	logger *logrus.Entry,
) *Session {
	ic := &Context{
		OrganizationID:   organizationID,
		OrganizationRate: organizationRate,
		Timezone:         timezone,
		Logger:           logger,

		Clients: NewCache(store, CacheConfig{
			Table: entities.ClientsTable,
			Scope: Row{entities.ClientOrganizationID: organizationID},
		}),
		Projects: NewCache(store, CacheConfig{
			Table: entities.ProjectsTable,
			Scope: Row{entities.ProjectOrganizationID: organizationID},
			Rules: map[string]string{
				entities.ProjectColor: "omitempty,hexcolor",
			},
			BeforeSave: zeroRateToNil(entities.ProjectBillableRate),
		}),
		Tasks: NewCache(store, CacheConfig{
			Table: entities.TasksTable,
			Scope: Row{entities.TaskOrganizationID: organizationID},
		}),
		Tags: NewCache(store, CacheConfig{
			Table: entities.TagsTable,
			Scope: Row{entities.TagOrganizationID: organizationID},
		}),
		// Lookups only ever match placeholder identities; an import must
		// not attach data to a real account that happens to share an
		// email.
		Users: NewCache(store, CacheConfig{
			Table: entities.UsersTable,
			Scope: Row{entities.UserIsPlaceholder: true},
			Rules: map[string]string{
				entities.UserEmail: "required,email",
			},
		}),
		Members: NewCache(store, CacheConfig{
			Table: entities.MembersTable,
			Scope: Row{entities.MemberOrganizationID: organizationID},
			Rules: map[string]string{
				entities.MemberRoleColumn: "required,oneof=owner admin manager employee placeholder",
			},
			BeforeSave: zeroRateToNil(entities.MemberBillableRate),
		}),
		ProjectMembers: NewCache(store, CacheConfig{
			Table:      entities.ProjectMembersTable,
			BeforeSave: zeroRateToNil(entities.ProjectMemberBillableRate),
		}),
		Invitations: NewCache(store, CacheConfig{
			Table: entities.OrganizationInvitationsTable,
			Scope: Row{entities.InvitationOrganizationID: organizationID},
			Rules: map[string]string{
				entities.InvitationEmail: "required,email",
			},
		}),
		TimeEntries: NewCache(store, CacheConfig{
			Table: entities.TimeEntriesTable,
			Scope: Row{entities.TimeEntryOrganizationID: organizationID},
			Rules: map[string]string{
				entities.TimeEntryDescription: fmt.Sprintf("omitempty,max=%d", entities.DescriptionMaxLength),
			},
			BeforeSave: zeroRateToNil(entities.TimeEntryBillableRate),
		}),
	}

	return &Session{ic: ic, adapter: adapter}
}

// Context exposes the run's caches; used by tests and the service layer.
func (s *Session) Context() *Context {
	return s.ic
}

// Run drives the adapter over the input and collects creation counters.
// Any error aborts the run; no partial report is produced.
func (s *Session) Run(ctx context.Context, data []byte) (*Report, error) {
	if err := s.adapter.Import(ctx, s.ic, data); err != nil {
		return nil, err
	}
	return &Report{
		Clients:     CountReport{Created: s.ic.Clients.CreatedCount()},
		Projects:    CountReport{Created: s.ic.Projects.CreatedCount()},
		Tasks:       CountReport{Created: s.ic.Tasks.CreatedCount()},
		TimeEntries: CountReport{Created: s.ic.TimeEntries.CreatedCount()},
		Tags:        CountReport{Created: s.ic.Tags.CreatedCount()},
		Users:       CountReport{Created: s.ic.Users.CreatedCount()},
	}, nil
}

func zeroRateToNil(column string) func(Row) {
	return func(row Row) {
		switch v := row[column].(type) {
		case int64:
			if v == 0 {
				row[column] = nil
			}
		case *int64:
			if v == nil || *v == 0 {
				row[column] = nil
			}
		}
	}
}
