package entities

const TasksTable = "tasks"

const (
	TaskName           = "name"
	TaskProjectID      = "project_id"
	TaskOrganizationID = "organization_id"
	TaskDoneAt         = "done_at"
	TaskEstimatedTime  = "estimated_time"
)
