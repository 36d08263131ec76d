package importer

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/tempora-uz/tempora/modules/timetracking/domain/entities"
)

// Context carries the per-run state an adapter works against: one
// reconciliation cache per entity type, all scoped to a single
// organization. It is built fresh for every run; adapters hold no state
// of their own.
type Context struct {
	OrganizationID   uuid.UUID
	OrganizationRate *int64
	Timezone         *time.Location
	Logger           *logrus.Entry

	Clients        *Cache
	Projects       *Cache
	Tasks          *Cache
	Tags           *Cache
	Users          *Cache
	Members        *Cache
	ProjectMembers *Cache
	Invitations    *Cache
	TimeEntries    *Cache
}

// TimeEntryCandidate is a decoded record ready for rate resolution and
// persistence.
type TimeEntryCandidate struct {
	MemberID        uuid.UUID
	ProjectID       *uuid.UUID
	ProjectMemberID *uuid.UUID
	TaskID          *uuid.UUID
	ClientID        *uuid.UUID
	Start           time.Time
	End             *time.Time
	Description     string
	Billable        bool
	TagIDs          []uuid.UUID
}

// CreateTimeEntry resolves the candidate's billable rate through the rate
// cascade and persists it. Called exactly once per decoded record.
func (ic *Context) CreateTimeEntry(ctx context.Context, candidate TimeEntryCandidate) error {
	sources := RateSources{
		EntryBillable:    candidate.Billable,
		OrganizationRate: ic.OrganizationRate,
	}

	if candidate.ProjectID != nil {
		project, err := ic.Projects.GetEntityByID(ctx, *candidate.ProjectID)
		if err != nil {
			return err
		}
		sources.ProjectBillable = BoolColumn(project, entities.ProjectIsBillable)
		sources.ProjectRate = Int64Column(project, entities.ProjectBillableRate)
	}
	if candidate.ProjectMemberID != nil {
		projectMember, err := ic.ProjectMembers.GetEntityByID(ctx, *candidate.ProjectMemberID)
		if err != nil {
			return err
		}
		sources.ProjectMemberRate = Int64Column(projectMember, entities.ProjectMemberBillableRate)
	}
	member, err := ic.Members.GetEntityByID(ctx, candidate.MemberID)
	if err != nil {
		return err
	}
	sources.MemberRate = Int64Column(member, entities.MemberBillableRate)

	row := Row{
		entities.TimeEntryMemberID:     candidate.MemberID,
		entities.TimeEntryProjectID:    uuidOrNil(candidate.ProjectID),
		entities.TimeEntryTaskID:       uuidOrNil(candidate.TaskID),
		entities.TimeEntryClientID:     uuidOrNil(candidate.ClientID),
		entities.TimeEntryStart:        candidate.Start,
		entities.TimeEntryEnd:          timeOrNil(candidate.End),
		entities.TimeEntryDescription:  candidate.Description,
		entities.TimeEntryBillable:     candidate.Billable,
		entities.TimeEntryBillableRate: rateOrNil(ResolveBillableRate(sources)),
		entities.TimeEntryTags:         candidate.TagIDs,
		entities.TimeEntryIsImported:   true,
	}
	_, err = ic.TimeEntries.Create(ctx, row)
	return err
}

// ResolveTags resolves each tag name independently, preserving input
// order.
func (ic *Context) ResolveTags(ctx context.Context, names []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(names))
	for _, name := range names {
		id, err := ic.Tags.GetOrCreateID(ctx, Row{entities.TagName: name}, nil, "")
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// RequireExternal maps an external identifier to the internal id
// registered earlier in the run; an unregistered id is a referential
// error, never a silent nil.
func RequireExternal(cache *Cache, entity, externalID string) (uuid.UUID, error) {
	id, ok := cache.GetIDByExternalID(externalID)
	if !ok {
		return uuid.Nil, ReferentialErrorf("%s does not exist: %s", entity, externalID)
	}
	return id, nil
}

// ParseBillableFlag maps a format's accepted billable literals onto a
// boolean; any other literal is rejected.
func ParseBillableFlag(raw string, accepted map[string]bool) (bool, error) {
	if v, ok := accepted[strings.TrimSpace(raw)]; ok {
		return v, nil
	}
	return false, ValidationErrorf("invalid billable value: %q", raw)
}

func uuidOrNil(id *uuid.UUID) any {
	if id == nil {
		return nil
	}
	return *id
}

func timeOrNil(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

func rateOrNil(rate *int64) any {
	if rate == nil {
		return nil
	}
	return *rate
}
