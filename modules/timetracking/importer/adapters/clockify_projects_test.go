package adapters

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/tempora-uz/tempora/modules/timetracking/domain/entities"
	"github.com/tempora-uz/tempora/modules/timetracking/importer"
	"github.com/tempora-uz/tempora/modules/timetracking/infrastructure/persistence"
)

func TestClockifyProjects_CreatesClientProjectTasks(t *testing.T) {
	store := persistence.NewMemoryRowStore()
	session := newTestSession(clockifyProjects{}, store, uuid.New(), nil)

	data := []byte(`Name,Client,Status,Visibility,Billability,Tasks
Website,Acme,Active,Public,Billable,"Design, Build"
`)
	report, err := session.Run(testContext(), data)
	require.NoError(t, err)

	require.Equal(t, 1, report.Clients.Created)
	require.Equal(t, 1, report.Projects.Created)
	require.Equal(t, 2, report.Tasks.Created)
	require.Equal(t, 0, report.TimeEntries.Created)
	require.Equal(t, 0, report.Users.Created)

	projects := store.Rows(entities.ProjectsTable)
	require.Len(t, projects, 1)
	require.Equal(t, "Website", projects[0][entities.ProjectName])
	require.Equal(t, true, projects[0][entities.ProjectIsBillable])
	require.Equal(t, true, projects[0][entities.ProjectIsPublic])
	require.Nil(t, projects[0][entities.ProjectArchivedAt])

	tasks := store.Rows(entities.TasksTable)
	require.Len(t, tasks, 2)
	require.Equal(t, "Design", tasks[0][entities.TaskName])
	require.Equal(t, "Build", tasks[1][entities.TaskName])
}

func TestClockifyProjects_SharedClientReconciled(t *testing.T) {
	store := persistence.NewMemoryRowStore()
	session := newTestSession(clockifyProjects{}, store, uuid.New(), nil)

	data := []byte(`Name,Client,Status,Visibility,Billability,Tasks
Website,Acme,Active,Private,Billable,
App,Acme,Active,Private,Non-billable,
`)
	report, err := session.Run(testContext(), data)
	require.NoError(t, err)

	require.Equal(t, 1, report.Clients.Created)
	require.Equal(t, 2, report.Projects.Created)
}

func TestClockifyProjects_ArchivedStatus(t *testing.T) {
	store := persistence.NewMemoryRowStore()
	session := newTestSession(clockifyProjects{}, store, uuid.New(), nil)

	data := []byte(`Name,Client,Status,Visibility,Billability,Tasks
Old site,Acme,Archived,Private,Non-billable,
`)
	_, err := session.Run(testContext(), data)
	require.NoError(t, err)

	projects := store.Rows(entities.ProjectsTable)
	require.Len(t, projects, 1)
	require.NotNil(t, projects[0][entities.ProjectArchivedAt])
}

func TestClockifyProjects_InvalidBillability(t *testing.T) {
	store := persistence.NewMemoryRowStore()
	session := newTestSession(clockifyProjects{}, store, uuid.New(), nil)

	data := []byte(`Name,Client,Status,Visibility,Billability,Tasks
Website,Acme,Active,Public,Sometimes,
`)
	_, err := session.Run(testContext(), data)
	require.Error(t, err)
	require.Equal(t, importer.KindValidation, importer.KindOf(err))
	require.Contains(t, err.Error(), "line 2")
	require.Contains(t, err.Error(), `invalid billability value: "Sometimes"`)
}

func TestClockifyProjects_MissingColumns(t *testing.T) {
	store := persistence.NewMemoryRowStore()
	session := newTestSession(clockifyProjects{}, store, uuid.New(), nil)

	data := []byte(`Name,Client
Website,Acme
`)
	_, err := session.Run(testContext(), data)
	require.Error(t, err)
	require.Equal(t, importer.KindFormat, importer.KindOf(err))
	require.Contains(t, err.Error(), "Status, Visibility, Billability, Tasks")
	require.Equal(t, 0, store.Count(entities.ClientsTable))
	require.Equal(t, 0, store.Count(entities.ProjectsTable))
}
