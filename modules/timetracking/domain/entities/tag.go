package entities

const TagsTable = "tags"

const (
	TagName           = "name"
	TagOrganizationID = "organization_id"
)
