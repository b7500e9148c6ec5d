package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shoplane/auth-api/internal/core/domain"
)

const (
	sessionKeyPrefix = "session:"
	opTimeout        = 5 * time.Second
)

// TokenStore is a Redis-backed session allowlist. A minted token's
// identifier is stored with a TTL matching the token's own expiry;
// revocation deletes the key. A token whose identifier is absent is
// treated as revoked, so losing the store fails closed, never open.
type TokenStore struct {
	client *redis.Client
}

func NewTokenStore(client *redis.Client) *TokenStore {
	return &TokenStore{client: client}
}

// Persist records a freshly minted token identifier as live until the
// token's expiry. Already-expired claims are not stored.
func (s *TokenStore) Persist(ctx context.Context, claims domain.TokenClaims) error {
	ttl := time.Until(claims.ExpiresAt)
	if ttl <= 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := s.client.Set(ctx, s.key(claims.TokenID), "1", ttl).Err(); err != nil {
		return s.infraErr("persist token", err)
	}
	return nil
}

// Revoke deletes the identifier's key. Deleting an unknown or already
// revoked identifier is a no-op, which makes logout idempotent.
func (s *TokenStore) Revoke(ctx context.Context, tokenID string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := s.client.Del(ctx, s.key(tokenID)).Err(); err != nil {
		return s.infraErr("revoke token", err)
	}
	return nil
}

// IsRevoked reports whether a token identifier is no longer live.
func (s *TokenStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	n, err := s.client.Exists(ctx, s.key(tokenID)).Result()
	if err != nil {
		return false, s.infraErr("check token revocation", err)
	}
	return n == 0, nil
}

func (s *TokenStore) key(tokenID string) string {
	return sessionKeyPrefix + tokenID
}

func (s *TokenStore) infraErr(op string, err error) error {
	return fmt.Errorf("%s: %w", op, errors.Join(domain.ErrInfrastructureUnavailable, err))
}
