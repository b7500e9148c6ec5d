package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/shoplane/auth-api/internal/core/domain"
	"github.com/shoplane/auth-api/internal/core/service"
)

type stubUsers struct {
	users map[string]*domain.User
}

func (s *stubUsers) FindActiveByUsername(_ context.Context, username string, platform domain.Platform) (*domain.User, error) {
	for _, u := range s.users {
		if u.Username == username && u.Platform == platform {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotExists
}

func (s *stubUsers) FindActiveByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := s.users[id]
	if !ok || !u.IsActive || u.IsDeleted {
		return nil, domain.ErrUserNotExists
	}
	return u, nil
}

func (s *stubUsers) Create(_ context.Context, u *domain.User) (*domain.User, error) { return u, nil }
func (s *stubUsers) IncrementLoginRetry(_ context.Context, _ string) (int, error)   { return 0, nil }
func (s *stubUsers) LockUser(_ context.Context, _ string, _ time.Time) error        { return nil }
func (s *stubUsers) ResetLoginRetry(_ context.Context, _ string) error              { return nil }

type stubTokens struct {
	revoked map[string]bool
}

func (s *stubTokens) Persist(_ context.Context, _ domain.TokenClaims) error { return nil }
func (s *stubTokens) Revoke(_ context.Context, id string) error {
	s.revoked[id] = true
	return nil
}
func (s *stubTokens) IsRevoked(_ context.Context, id string) (bool, error) {
	return s.revoked[id], nil
}

type gatewayFixture struct {
	issuer *service.JWTIssuer
	tokens *stubTokens
	users  *stubUsers
	user   *domain.User
}

func newGatewayFixture() *gatewayFixture {
	user := &domain.User{
		ID:       "u1",
		Username: "alice",
		RoleID:   "r-admin",
		Platform: domain.PlatformAdmin,
		IsActive: true,
	}
	return &gatewayFixture{
		issuer: service.NewJWTIssuer(map[domain.Platform]service.PlatformKey{
			domain.PlatformAdmin:  {Secret: []byte("admin-secret"), TTL: time.Hour},
			domain.PlatformDevice: {Secret: []byte("device-secret"), TTL: time.Hour},
		}),
		tokens: &stubTokens{revoked: make(map[string]bool)},
		users:  &stubUsers{users: map[string]*domain.User{"u1": user}},
		user:   user,
	}
}

// run sends one request through the gateway and reports the context, the
// middleware's error, and whether the next handler ran.
func (f *gatewayFixture) run(t *testing.T, authHeader string) (echo.Context, bool, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/admin/users/me", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	mw := Gateway(f.issuer, f.tokens, f.users, domain.PlatformAdmin)
	err := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})(c)
	return c, called, err
}

func TestGateway_ValidToken(t *testing.T) {
	f := newGatewayFixture()
	raw, claims, err := f.issuer.Mint(f.user, domain.PlatformAdmin)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	c, called, err := f.run(t, "Bearer "+raw)
	if err != nil {
		t.Fatalf("gateway error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if got, _ := c.Get(CtxUserID).(string); got != "u1" {
		t.Fatalf("user_id = %q, want u1", got)
	}
	if got, _ := c.Get(CtxRoleID).(string); got != "r-admin" {
		t.Fatalf("role_id = %q, want r-admin", got)
	}
	if got, _ := c.Get(CtxTokenID).(string); got != claims.TokenID {
		t.Fatalf("token_id = %q, want %q", got, claims.TokenID)
	}
}

func TestGateway_MissingHeader(t *testing.T) {
	f := newGatewayFixture()
	_, called, err := f.run(t, "")
	if called {
		t.Fatalf("next should not run without a token")
	}
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestGateway_MalformedHeader(t *testing.T) {
	f := newGatewayFixture()
	_, called, err := f.run(t, "Token abc")
	if called {
		t.Fatalf("next should not run with a malformed header")
	}
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestGateway_WrongPlatformToken(t *testing.T) {
	f := newGatewayFixture()
	raw, _, err := f.issuer.Mint(f.user, domain.PlatformDevice)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	_, called, err := f.run(t, "Bearer "+raw)
	if called {
		t.Fatalf("device token must not pass the admin gateway")
	}
	if !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestGateway_RevokedToken(t *testing.T) {
	f := newGatewayFixture()
	raw, claims, err := f.issuer.Mint(f.user, domain.PlatformAdmin)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	f.tokens.revoked[claims.TokenID] = true

	_, called, err := f.run(t, "Bearer "+raw)
	if called {
		t.Fatalf("revoked token must not pass")
	}
	if !errors.Is(err, domain.ErrTokenRevoked) {
		t.Fatalf("expected ErrTokenRevoked, got %v", err)
	}
}

func TestGateway_InactiveUser(t *testing.T) {
	f := newGatewayFixture()
	raw, _, err := f.issuer.Mint(f.user, domain.PlatformAdmin)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	f.user.IsActive = false

	_, called, err := f.run(t, "Bearer "+raw)
	if called {
		t.Fatalf("inactive user must not pass")
	}
	if !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
