package entities

const UsersTable = "users"

const (
	UserEmail         = "email"
	UserName          = "name"
	UserTimezone      = "timezone"
	UserIsPlaceholder = "is_placeholder"
)
