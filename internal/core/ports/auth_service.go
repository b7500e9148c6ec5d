package ports

import (
	"context"

	"github.com/shoplane/auth-api/internal/core/domain"
)

// LoginResult is the successful outcome of a login.
type LoginResult struct {
	Token string            `json:"token"`
	User  domain.PublicUser `json:"user"`
}

type AuthService interface {
	Register(ctx context.Context, username, password, email string, platform domain.Platform) (*domain.PublicUser, error)
	Login(ctx context.Context, username, password string, platform domain.Platform) (*LoginResult, error)
	Logout(ctx context.Context, rawToken string, platform domain.Platform) error
}
