package adapters

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/tempora-uz/tempora/modules/timetracking/domain/entities"
	"github.com/tempora-uz/tempora/modules/timetracking/importer"
	"github.com/tempora-uz/tempora/modules/timetracking/infrastructure/persistence"
)

func TestGenericCSV_ISOTimestamps(t *testing.T) {
	store := persistence.NewMemoryRowStore()
	session := newTestSession(genericCSV{}, store, uuid.New(), nil)

	data := []byte(`Email,Name,Client,Project,Task,Description,Billable,Start,End,Tags
jane@example.com,Jane Doe,Acme,Website,Design,Meeting,true,2024-03-15T14:30:00Z,2024-03-15T15:30:00+01:00,"dev"
`)
	report, err := session.Run(testContext(), data)
	require.NoError(t, err)
	require.Equal(t, 1, report.TimeEntries.Created)

	rows := store.Rows(entities.TimeEntriesTable)
	require.Len(t, rows, 1)
	require.Equal(t, time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC), rows[0][entities.TimeEntryStart])
	require.Equal(t, time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC), rows[0][entities.TimeEntryEnd])
}

func TestGenericCSV_RunningTimer(t *testing.T) {
	store := persistence.NewMemoryRowStore()
	session := newTestSession(genericCSV{}, store, uuid.New(), nil)

	data := []byte(`Email,Name,Client,Project,Task,Description,Billable,Start,End,Tags
jane@example.com,Jane Doe,,,,Still working,false,2024-03-15T14:30:00Z,,
`)
	_, err := session.Run(testContext(), data)
	require.NoError(t, err)

	rows := store.Rows(entities.TimeEntriesTable)
	require.Len(t, rows, 1)
	require.Nil(t, rows[0][entities.TimeEntryEnd])
}

func TestGenericCSV_RejectsYesNo(t *testing.T) {
	store := persistence.NewMemoryRowStore()
	session := newTestSession(genericCSV{}, store, uuid.New(), nil)

	data := []byte(`Email,Name,Client,Project,Task,Description,Billable,Start,End,Tags
jane@example.com,Jane Doe,,,,Meeting,Yes,2024-03-15T14:30:00Z,2024-03-15T15:00:00Z,
`)
	_, err := session.Run(testContext(), data)
	require.Error(t, err)
	require.Equal(t, importer.KindValidation, importer.KindOf(err))
	require.Contains(t, err.Error(), `invalid billable value: "Yes"`)
}
