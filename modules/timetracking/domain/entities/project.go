package entities

const ProjectsTable = "projects"

const (
	ProjectName           = "name"
	ProjectColor          = "color"
	ProjectClientID       = "client_id"
	ProjectOrganizationID = "organization_id"
	ProjectIsBillable     = "is_billable"
	ProjectBillableRate   = "billable_rate"
	ProjectIsPublic       = "is_public"
	ProjectEstimatedTime  = "estimated_time"
	ProjectArchivedAt     = "archived_at"
)
