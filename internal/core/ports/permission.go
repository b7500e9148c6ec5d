package ports

import "context"

// PermissionResolver decides whether a role may reach a concrete
// request path. Deny-by-default: no matching policy entry means false.
type PermissionResolver interface {
	IsAllowed(ctx context.Context, roleID, method, path string) (bool, error)
}
