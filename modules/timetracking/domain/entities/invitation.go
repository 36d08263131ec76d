package entities

const OrganizationInvitationsTable = "organization_invitations"

const (
	InvitationEmail          = "email"
	InvitationOrganizationID = "organization_id"
	InvitationRole           = "role"
)
