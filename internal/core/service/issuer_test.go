package service

import (
	"testing"
	"time"

	"github.com/shoplane/auth-api/internal/core/domain"
)

func testIssuer() *JWTIssuer {
	return NewJWTIssuer(map[domain.Platform]PlatformKey{
		domain.PlatformAdmin:  {Secret: []byte("admin-secret"), TTL: time.Hour},
		domain.PlatformDevice: {Secret: []byte("device-secret"), TTL: time.Hour},
	})
}

func TestJWTIssuer_MintAndValidate(t *testing.T) {
	issuer := testIssuer()
	user := &domain.User{ID: "u1", Username: "alice"}

	raw, claims, err := issuer.Mint(user, domain.PlatformAdmin)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if raw == "" || claims.TokenID == "" {
		t.Fatalf("empty token or identifier")
	}

	got, err := issuer.Validate(raw, domain.PlatformAdmin)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if got.UserID != "u1" || got.Platform != domain.PlatformAdmin || got.TokenID != claims.TokenID {
		t.Fatalf("unexpected claims: %+v", got)
	}
}

func TestJWTIssuer_CrossPlatformRejected(t *testing.T) {
	issuer := testIssuer()
	user := &domain.User{ID: "u1"}

	adminTok, _, err := issuer.Mint(user, domain.PlatformAdmin)
	if err != nil {
		t.Fatalf("mint admin: %v", err)
	}
	deviceTok, _, err := issuer.Mint(user, domain.PlatformDevice)
	if err != nil {
		t.Fatalf("mint device: %v", err)
	}

	if _, err := issuer.Validate(adminTok, domain.PlatformDevice); err != domain.ErrInvalidToken {
		t.Fatalf("admin token under device secret: expected ErrInvalidToken, got %v", err)
	}
	if _, err := issuer.Validate(deviceTok, domain.PlatformAdmin); err != domain.ErrInvalidToken {
		t.Fatalf("device token under admin secret: expected ErrInvalidToken, got %v", err)
	}
}

func TestJWTIssuer_ExpiredToken(t *testing.T) {
	issuer := testIssuer()
	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	raw, _, err := issuer.Mint(&domain.User{ID: "u1"}, domain.PlatformAdmin)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	if _, err := issuer.Validate(raw, domain.PlatformAdmin); err != domain.ErrTokenExpired {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}

	// Decode tolerates expiry so logout can still revoke the session.
	claims, err := issuer.Decode(raw, domain.PlatformAdmin)
	if err != nil {
		t.Fatalf("decode expired: %v", err)
	}
	if claims.TokenID == "" {
		t.Fatalf("expected token identifier from expired token")
	}
}

func TestJWTIssuer_MalformedToken(t *testing.T) {
	issuer := testIssuer()

	if _, err := issuer.Validate("not-a-token", domain.PlatformAdmin); err != domain.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if _, err := issuer.Decode("not-a-token", domain.PlatformAdmin); err != domain.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken from decode, got %v", err)
	}
}

func TestJWTIssuer_UniqueTokenIDs(t *testing.T) {
	issuer := testIssuer()
	user := &domain.User{ID: "u1"}

	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		_, claims, err := issuer.Mint(user, domain.PlatformAdmin)
		if err != nil {
			t.Fatalf("mint: %v", err)
		}
		if _, dup := seen[claims.TokenID]; dup {
			t.Fatalf("duplicate token identifier %q", claims.TokenID)
		}
		seen[claims.TokenID] = struct{}{}
	}
}

func TestJWTIssuer_UnknownPlatform(t *testing.T) {
	issuer := testIssuer()

	if _, _, err := issuer.Mint(&domain.User{ID: "u1"}, domain.PlatformClient); err == nil {
		t.Fatalf("expected error minting for unconfigured platform")
	}
}
