package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/shoplane/auth-api/internal/core/domain"
	"github.com/shoplane/auth-api/internal/core/ports"
)

const (
	defaultLockoutThreshold = 5
	defaultLockoutDuration  = 15 * time.Minute
)

// LoginThrottle tracks consecutive failed logins per user and enforces
// the lockout policy. State lives on the user record itself; the
// counter update is a single atomic increment on the backing store, so
// concurrent failures for the same user cannot lose an update and
// unrelated users never contend.
type LoginThrottle struct {
	users     ports.UserRepository
	threshold int
	// duration of a lockout before it self-heals back to open.
	// Zero means locked until an operator intervenes.
	lockDuration time.Duration
	log          zerolog.Logger
	now          func() time.Time

	// OnLock, when set, is invoked each time an account transitions
	// into the locked state.
	OnLock func()
}

func NewLoginThrottle(users ports.UserRepository, threshold int, lockDuration time.Duration, log zerolog.Logger) *LoginThrottle {
	if threshold <= 0 {
		threshold = defaultLockoutThreshold
	}
	return &LoginThrottle{
		users:        users,
		threshold:    threshold,
		lockDuration: lockDuration,
		log:          log,
		now:          time.Now,
	}
}

// CheckLocked reports whether the user is currently locked out. When a
// lockout duration is configured and has elapsed, the lock self-heals:
// the counter resets and the attempt proceeds as open.
func (t *LoginThrottle) CheckLocked(ctx context.Context, user *domain.User) (bool, error) {
	if user.LockedAt == nil {
		return false, nil
	}
	if t.lockDuration > 0 && t.now().Sub(*user.LockedAt) >= t.lockDuration {
		if err := t.users.ResetLoginRetry(ctx, user.ID); err != nil {
			return true, err
		}
		user.LoginRetryLimit = 0
		user.LockedAt = nil
		t.log.Info().Str("user_id", user.ID).Msg("lockout expired, account reopened")
		return false, nil
	}
	return true, nil
}

// RecordFailure bumps the failure counter and stamps the lockout once
// the threshold is reached. Returns the post-increment count.
func (t *LoginThrottle) RecordFailure(ctx context.Context, user *domain.User) (int, error) {
	count, err := t.users.IncrementLoginRetry(ctx, user.ID)
	if err != nil {
		return 0, err
	}
	user.LoginRetryLimit = count
	if count >= t.threshold && user.LockedAt == nil {
		at := t.now().UTC()
		if err := t.users.LockUser(ctx, user.ID, at); err != nil {
			return count, err
		}
		user.LockedAt = &at
		t.log.Warn().Str("user_id", user.ID).Int("failures", count).Msg("account locked")
		if t.OnLock != nil {
			t.OnLock()
		}
	}
	return count, nil
}

// RecordSuccess resets the counter and clears any lockout stamp in one
// store operation, so a crash cannot leave a stale lockout behind a
// successful verification.
func (t *LoginThrottle) RecordSuccess(ctx context.Context, user *domain.User) error {
	if err := t.users.ResetLoginRetry(ctx, user.ID); err != nil {
		return err
	}
	user.LoginRetryLimit = 0
	user.LockedAt = nil
	return nil
}

