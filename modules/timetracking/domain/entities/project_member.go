package entities

const ProjectMembersTable = "project_members"

const (
	ProjectMemberProjectID    = "project_id"
	ProjectMemberMemberID     = "member_id"
	ProjectMemberBillableRate = "billable_rate"
)
