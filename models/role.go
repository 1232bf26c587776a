package models

// Role is the closed set of account roles.
type Role string

const (
	RoleClient   Role = "CLIENT"
	RoleEngineer Role = "ENGINEER"
	RoleAdmin    Role = "ADMIN"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleEngineer, RoleAdmin:
		return true
	}
	return false
}
