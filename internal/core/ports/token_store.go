package ports

import (
	"context"

	"github.com/shoplane/auth-api/internal/core/domain"
)

// TokenStore records issued token identifiers so sessions can be ended
// by revocation rather than waiting for expiry.
type TokenStore interface {
	// Persist marks a freshly minted token identifier as live until its
	// expiry.
	Persist(ctx context.Context, claims domain.TokenClaims) error
	// Revoke invalidates a token identifier. Idempotent: revoking an
	// unknown or already-revoked identifier is a no-op.
	Revoke(ctx context.Context, tokenID string) error
	// IsRevoked reports whether a token identifier is no longer live.
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
