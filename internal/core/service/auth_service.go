package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/shoplane/auth-api/internal/core/domain"
	"github.com/shoplane/auth-api/internal/core/ports"
)

// AuthService composes credential lookup, throttling, token issuance,
// and revocation into the login/logout operations.
type AuthService struct {
	users    ports.UserRepository
	roles    ports.RoleRepository
	tokens   ports.TokenStore
	issuer   ports.TokenIssuer
	throttle *LoginThrottle
	audit    ports.AuditSink

	// defaultRoles names the role assigned to new registrations per
	// platform surface.
	defaultRoles map[domain.Platform]string
	log          zerolog.Logger
}

type AuthServiceDeps struct {
	Users        ports.UserRepository
	Roles        ports.RoleRepository
	Tokens       ports.TokenStore
	Issuer       ports.TokenIssuer
	Throttle     *LoginThrottle
	Audit        ports.AuditSink
	DefaultRoles map[domain.Platform]string
	Logger       zerolog.Logger
}

func NewAuthService(deps AuthServiceDeps) *AuthService {
	return &AuthService{
		users:        deps.Users,
		roles:        deps.Roles,
		tokens:       deps.Tokens,
		issuer:       deps.Issuer,
		throttle:     deps.Throttle,
		audit:        deps.Audit,
		defaultRoles: deps.DefaultRoles,
		log:          deps.Logger,
	}
}

// Register creates a new account on the given platform with that
// platform's default role.
func (s *AuthService) Register(ctx context.Context, username, password, email string, platform domain.Platform) (*domain.PublicUser, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidInput
	}

	roleName, ok := s.defaultRoles[platform]
	if !ok {
		return nil, domain.ErrInvalidInput
	}
	role, err := s.roles.FindByName(ctx, roleName)
	if err != nil {
		return nil, err
	}

	hash, err := domain.HashPassword(password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		RoleID:       role.ID,
		Platform:     platform,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("username", username).Str("platform", string(platform)).Msg("user registered")
	pub := domain.PublicView(created)
	return &pub, nil
}

// Login verifies credentials under the lockout policy and, on success,
// mints a session token and records it for later revocation.
//
// The lockout check runs before password verification so a locked
// account leaks nothing about whether the password would have matched.
func (s *AuthService) Login(ctx context.Context, username, password string, platform domain.Platform) (*ports.LoginResult, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidInput
	}

	user, err := s.users.FindActiveByUsername(ctx, username, platform)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotExists) {
			s.record(username, platform, domain.OutcomeUserNotExists, 0)
		}
		return nil, err
	}

	locked, err := s.throttle.CheckLocked(ctx, user)
	if err != nil {
		return nil, err
	}
	if locked {
		s.record(username, platform, domain.OutcomeAccountLocked, user.LoginRetryLimit)
		return nil, domain.ErrAccountLocked
	}

	if !domain.VerifyPassword(user, password) {
		count, ferr := s.throttle.RecordFailure(ctx, user)
		if ferr != nil {
			return nil, ferr
		}
		s.record(username, platform, domain.OutcomeIncorrectPassword, count)
		return nil, domain.ErrIncorrectPassword
	}

	if err := s.throttle.RecordSuccess(ctx, user); err != nil {
		return nil, err
	}

	raw, claims, err := s.issuer.Mint(user, platform)
	if err != nil {
		return nil, err
	}
	if err := s.tokens.Persist(ctx, claims); err != nil {
		return nil, err
	}

	s.record(username, platform, domain.OutcomeSuccess, 0)
	s.log.Info().Str("username", username).Str("platform", string(platform)).Msg("login succeeded")

	return &ports.LoginResult{Token: raw, User: domain.PublicView(user)}, nil
}

// Logout revokes the presented token's identifier. Idempotent: an
// already-revoked or expired token logs out cleanly, so the only
// failure mode is a token that does not parse at all.
func (s *AuthService) Logout(ctx context.Context, rawToken string, platform domain.Platform) error {
	claims, err := s.issuer.Decode(rawToken, platform)
	if err != nil {
		return err
	}
	if err := s.tokens.Revoke(ctx, claims.TokenID); err != nil {
		return err
	}
	s.record(claims.UserID, platform, domain.OutcomeLogout, 0)
	return nil
}

func (s *AuthService) record(username string, platform domain.Platform, outcome domain.LoginOutcome, retries int) {
	if s.audit == nil {
		return
	}
	s.audit.Record(domain.LoginAudit{
		Username:   username,
		Platform:   platform,
		Outcome:    outcome,
		RetryCount: retries,
		At:         time.Now().UTC(),
	})
}
