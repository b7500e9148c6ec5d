package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/shoplane/auth-api/internal/core/domain"
)

func newTestStore(t *testing.T) (*TokenStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewTokenStore(client), mr
}

func testClaims(ttl time.Duration) domain.TokenClaims {
	now := time.Now().UTC()
	return domain.TokenClaims{
		TokenID:   "tok-1",
		UserID:    "u1",
		Platform:  domain.PlatformAdmin,
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
	}
}

func TestTokenStore_PersistAndRevoke(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	claims := testClaims(time.Hour)
	if err := store.Persist(ctx, claims); err != nil {
		t.Fatalf("persist: %v", err)
	}

	revoked, err := store.IsRevoked(ctx, claims.TokenID)
	if err != nil {
		t.Fatalf("isRevoked: %v", err)
	}
	if revoked {
		t.Fatalf("fresh token reported revoked")
	}

	if err := store.Revoke(ctx, claims.TokenID); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	revoked, err = store.IsRevoked(ctx, claims.TokenID)
	if err != nil {
		t.Fatalf("isRevoked after revoke: %v", err)
	}
	if !revoked {
		t.Fatalf("expected token revoked")
	}
}

func TestTokenStore_RevokeIdempotent(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	// Unknown identifier: no error.
	if err := store.Revoke(ctx, "never-issued"); err != nil {
		t.Fatalf("revoke unknown: %v", err)
	}

	claims := testClaims(time.Hour)
	if err := store.Persist(ctx, claims); err != nil {
		t.Fatalf("persist: %v", err)
	}
	if err := store.Revoke(ctx, claims.TokenID); err != nil {
		t.Fatalf("first revoke: %v", err)
	}
	if err := store.Revoke(ctx, claims.TokenID); err != nil {
		t.Fatalf("second revoke: %v", err)
	}
}

func TestTokenStore_UnknownTokenIsNotLive(t *testing.T) {
	store, _ := newTestStore(t)

	revoked, err := store.IsRevoked(context.Background(), "never-issued")
	if err != nil {
		t.Fatalf("isRevoked: %v", err)
	}
	if !revoked {
		t.Fatalf("a never-persisted identifier must not count as live")
	}
}

func TestTokenStore_ExpiryBoundsLifetime(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	claims := testClaims(time.Minute)
	if err := store.Persist(ctx, claims); err != nil {
		t.Fatalf("persist: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	revoked, err := store.IsRevoked(ctx, claims.TokenID)
	if err != nil {
		t.Fatalf("isRevoked: %v", err)
	}
	if !revoked {
		t.Fatalf("expected identifier to lapse with the token's expiry")
	}
}

func TestTokenStore_ExpiredClaimsNotStored(t *testing.T) {
	store, _ := newTestStore(t)

	claims := testClaims(-time.Minute)
	if err := store.Persist(context.Background(), claims); err != nil {
		t.Fatalf("persist expired claims: %v", err)
	}
	revoked, err := store.IsRevoked(context.Background(), claims.TokenID)
	if err != nil {
		t.Fatalf("isRevoked: %v", err)
	}
	if !revoked {
		t.Fatalf("expired claims must never become live")
	}
}
