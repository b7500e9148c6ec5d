package ports

import (
	"context"

	"github.com/shoplane/auth-api/internal/core/domain"
)

// RoleRepository resolves role records referenced by users.
type RoleRepository interface {
	FindByName(ctx context.Context, name string) (*domain.Role, error)
}

// RoutePolicyRepository reads the live role→route authorization table.
// The table is externally mutable; this core never writes it.
type RoutePolicyRepository interface {
	ListPolicies(ctx context.Context) ([]domain.RoutePolicy, error)
}
