package entities

const ClientsTable = "clients"

const (
	ClientName           = "name"
	ClientOrganizationID = "organization_id"
	ClientArchivedAt     = "archived_at"
)
