package entities

const OrganizationsTable = "organizations"

const (
	OrganizationName         = "name"
	OrganizationBillableRate = "billable_rate"
)
