package domain

import "time"

// Role is a named permission group. Roles are records, not constants,
// so new roles can be introduced without a redeploy.
type Role struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// RoutePolicy grants one role access to one route template. The set of
// policies forms the live authorization table consulted on every
// authenticated request; a route with no entry for a role is denied.
type RoutePolicy struct {
	ID      string
	Method  string
	Pattern string
	RoleID  string
}
