// Package identity carries the trusted actor tuple supplied by the auth
// collaborator. The engine never re-derives it.
package identity

import "github.com/bwmarrin/snowflake"

// Role is the closed set of actor roles.
type Role string

const (
	RoleUser      Role = "user"
	RoleNKO       Role = "nko"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleNKO, RoleModerator, RoleAdmin:
		return true
	default:
		return false
	}
}

// Actor identifies the caller of every engine operation.
type Actor struct {
	UserID         snowflake.ID
	Role           Role
	OrganizationID *snowflake.ID
}

// IsStaff reports whether the actor may moderate content.
func (a Actor) IsStaff() bool {
	return a.Role == RoleAdmin || a.Role == RoleModerator
}

// OwnsOrganization reports whether the actor is linked to orgID.
func (a Actor) OwnsOrganization(orgID snowflake.ID) bool {
	return a.OrganizationID != nil && *a.OrganizationID == orgID
}
