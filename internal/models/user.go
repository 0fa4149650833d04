package models

// Role is issued by the host system's auth service and carried in the JWT
type Role string

const (
	RoleUser      Role = "user"
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
)
