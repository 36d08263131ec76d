package entities

// DescriptionMaxLength caps a time entry description.
const DescriptionMaxLength = 500

const TimeEntriesTable = "time_entries"

const (
	TimeEntryOrganizationID = "organization_id"
	TimeEntryMemberID       = "member_id"
	TimeEntryProjectID      = "project_id"
	TimeEntryTaskID         = "task_id"
	TimeEntryClientID       = "client_id"
	TimeEntryStart          = "start"
	TimeEntryEnd            = "end"
	TimeEntryDescription    = "description"
	TimeEntryBillable       = "billable"
	TimeEntryBillableRate   = "billable_rate"
	TimeEntryTags           = "tags"
	TimeEntryIsImported     = "is_imported"
)
