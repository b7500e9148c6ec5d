package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/shoplane/auth-api/internal/core/domain"
)

const defaultTokenTTL = 24 * time.Hour

// PlatformKey is the signing material for one platform surface.
type PlatformKey struct {
	Secret []byte
	TTL    time.Duration
}

// JWTIssuer mints and verifies HS256 session tokens. Keys are loaded
// once at construction and never mutated.
type JWTIssuer struct {
	keys map[domain.Platform]PlatformKey
	now  func() time.Time
}

type sessionClaims struct {
	Platform string `json:"platform"`
	jwt.RegisteredClaims
}

func NewJWTIssuer(keys map[domain.Platform]PlatformKey) *JWTIssuer {
	ks := make(map[domain.Platform]PlatformKey, len(keys))
	for p, k := range keys {
		if k.TTL <= 0 {
			k.TTL = defaultTokenTTL
		}
		ks[p] = k
	}
	return &JWTIssuer{keys: ks, now: time.Now}
}

// Mint signs a session token for the user under the platform's secret.
// Every call produces a fresh token identifier.
func (i *JWTIssuer) Mint(user *domain.User, platform domain.Platform) (string, domain.TokenClaims, error) {
	key, ok := i.keys[platform]
	if !ok {
		return "", domain.TokenClaims{}, fmt.Errorf("no signing key for platform %q: %w", platform, domain.ErrInvalidToken)
	}

	now := i.now().UTC()
	claims := domain.TokenClaims{
		TokenID:   uuid.NewString(),
		UserID:    user.ID,
		Platform:  platform,
		IssuedAt:  now,
		ExpiresAt: now.Add(key.TTL),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		Platform: string(platform),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ID:        claims.TokenID,
			IssuedAt:  jwt.NewNumericDate(claims.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt),
		},
	})

	raw, err := t.SignedString(key.Secret)
	if err != nil {
		return "", domain.TokenClaims{}, fmt.Errorf("sign token: %w", err)
	}
	return raw, claims, nil
}

// Validate verifies signature, platform binding, and expiry against the
// platform's secret. A token minted for another platform fails here even
// when its payload is intact.
func (i *JWTIssuer) Validate(raw string, platform domain.Platform) (domain.TokenClaims, error) {
	return i.parse(raw, platform, true)
}

// Decode verifies signature and platform binding but tolerates expiry.
// Logout uses it so an expired session can still be revoked.
func (i *JWTIssuer) Decode(raw string, platform domain.Platform) (domain.TokenClaims, error) {
	return i.parse(raw, platform, false)
}

func (i *JWTIssuer) parse(raw string, platform domain.Platform, checkExpiry bool) (domain.TokenClaims, error) {
	key, ok := i.keys[platform]
	if !ok {
		return domain.TokenClaims{}, domain.ErrInvalidToken
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if !checkExpiry {
		opts = append(opts, jwt.WithoutClaimsValidation())
	}

	var sc sessionClaims
	token, err := jwt.ParseWithClaims(raw, &sc, func(t *jwt.Token) (interface{}, error) {
		return key.Secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.TokenClaims{}, domain.ErrTokenExpired
		}
		return domain.TokenClaims{}, domain.ErrInvalidToken
	}
	if !token.Valid || sc.Platform != string(platform) || sc.ID == "" || sc.Subject == "" {
		return domain.TokenClaims{}, domain.ErrInvalidToken
	}

	claims := domain.TokenClaims{
		TokenID:  sc.ID,
		UserID:   sc.Subject,
		Platform: platform,
	}
	if sc.IssuedAt != nil {
		claims.IssuedAt = sc.IssuedAt.Time
	}
	if sc.ExpiresAt != nil {
		claims.ExpiresAt = sc.ExpiresAt.Time
	}
	return claims, nil
}
