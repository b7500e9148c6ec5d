package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/shoplane/auth-api/internal/core/domain"
)

func seedThrottleUser(t *testing.T, repo *stubUserRepo) *domain.User {
	t.Helper()
	u, err := repo.Create(context.Background(), &domain.User{
		Username: "alice",
		Platform: domain.PlatformAdmin,
		IsActive: true,
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return u
}

func TestLoginThrottle_ConcurrentFailuresDoNotLoseUpdates(t *testing.T) {
	repo := newStubUserRepo()
	u := seedThrottleUser(t, repo)
	throttle := NewLoginThrottle(repo, 100, 0, zerolog.Nop())

	const attempts = 20
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			user := cloneUser(u)
			if _, err := throttle.RecordFailure(context.Background(), user); err != nil {
				t.Errorf("record failure: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := repo.get(u.ID).LoginRetryLimit; got != attempts {
		t.Fatalf("counter = %d after %d concurrent failures, want %d", got, attempts, attempts)
	}
}

func TestLoginThrottle_IndefiniteLockWithoutDuration(t *testing.T) {
	repo := newStubUserRepo()
	u := seedThrottleUser(t, repo)
	throttle := NewLoginThrottle(repo, 1, 0, zerolog.Nop())

	user := cloneUser(u)
	if _, err := throttle.RecordFailure(context.Background(), user); err != nil {
		t.Fatalf("record failure: %v", err)
	}
	if user.LockedAt == nil {
		t.Fatalf("expected lockout at threshold 1")
	}

	// No lockout duration configured: the lock never self-heals.
	throttle.now = func() time.Time { return time.Now().Add(24 * time.Hour) }
	locked, err := throttle.CheckLocked(context.Background(), user)
	if err != nil {
		t.Fatalf("check locked: %v", err)
	}
	if !locked {
		t.Fatalf("expected indefinite lock to hold")
	}
}

func TestLoginThrottle_UnrelatedUsersIsolated(t *testing.T) {
	repo := newStubUserRepo()
	a := seedThrottleUser(t, repo)
	b, err := repo.Create(context.Background(), &domain.User{
		Username: "bob",
		Platform: domain.PlatformAdmin,
		IsActive: true,
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	throttle := NewLoginThrottle(repo, 2, 0, zerolog.Nop())
	ua := cloneUser(a)
	for i := 0; i < 2; i++ {
		if _, err := throttle.RecordFailure(context.Background(), ua); err != nil {
			t.Fatalf("record failure: %v", err)
		}
	}

	if got := repo.get(b.ID).LoginRetryLimit; got != 0 {
		t.Fatalf("unrelated user's counter = %d, want 0", got)
	}
	locked, err := throttle.CheckLocked(context.Background(), cloneUser(b))
	if err != nil || locked {
		t.Fatalf("unrelated user locked out: %v %v", locked, err)
	}
}
