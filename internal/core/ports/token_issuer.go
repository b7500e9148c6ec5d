package ports

import (
	"github.com/shoplane/auth-api/internal/core/domain"
)

// TokenIssuer mints and verifies signed session tokens. Each platform
// has its own signing secret and TTL.
type TokenIssuer interface {
	Mint(user *domain.User, platform domain.Platform) (string, domain.TokenClaims, error)
	// Validate verifies signature, platform binding, and expiry.
	// Returns domain.ErrInvalidToken or domain.ErrTokenExpired.
	Validate(raw string, platform domain.Platform) (domain.TokenClaims, error)
	// Decode verifies the signature and platform binding but tolerates
	// an elapsed expiry. Used by logout, which must be able to revoke
	// an expired token.
	Decode(raw string, platform domain.Platform) (domain.TokenClaims, error)
}
