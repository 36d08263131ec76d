package entities

const MembersTable = "members"

const (
	MemberUserID         = "user_id"
	MemberOrganizationID = "organization_id"
	MemberRoleColumn     = "role"
	MemberBillableRate   = "billable_rate"
)

type MemberRole string

const (
	MemberRoleOwner       MemberRole = "owner"
	MemberRoleAdmin       MemberRole = "admin"
	MemberRoleManager     MemberRole = "manager"
	MemberRoleEmployee    MemberRole = "employee"
	MemberRolePlaceholder MemberRole = "placeholder"
)

func (r MemberRole) Valid() bool {
	switch r {
	case MemberRoleOwner, MemberRoleAdmin, MemberRoleManager, MemberRoleEmployee, MemberRolePlaceholder:
		return true
	}
	return false
}
