package ports

import (
	"context"
	"time"

	"github.com/shoplane/auth-api/internal/core/domain"
)

// UserRepository defines the persistence interface for user accounts.
//
// IncrementLoginRetry must be an atomic increment on the backing store,
// returning the post-increment value, so two concurrent failed logins
// for the same user cannot lose an update.
type UserRepository interface {
	FindActiveByUsername(ctx context.Context, username string, platform domain.Platform) (*domain.User, error)
	FindActiveByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	IncrementLoginRetry(ctx context.Context, id string) (int, error)
	LockUser(ctx context.Context, id string, at time.Time) error
	ResetLoginRetry(ctx context.Context, id string) error
}
