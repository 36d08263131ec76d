package entities

import "github.com/google/uuid"

// TimeEntriesImportedEvent is published after an import run commits so that
// downstream jobs can recompute spent time for the touched entities.
type TimeEntriesImportedEvent struct {
	OrganizationID     uuid.UUID
	TimeEntriesCreated int
	ProjectsCreated    int
	TasksCreated       int
}
