package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/shoplane/auth-api/internal/api/metrics"
	"github.com/shoplane/auth-api/internal/core/domain"
	"github.com/shoplane/auth-api/internal/core/ports"
)

// Context keys set by the Gateway middleware for downstream handlers.
const (
	CtxUserID   = "user_id"
	CtxRoleID   = "role_id"
	CtxPlatform = "platform"
	CtxTokenID  = "token_id"
	CtxUser     = "user"
)

// Gateway authenticates the bearer token for one platform surface:
// signature and expiry via the issuer, revocation via the token store,
// then a live-user load. On success the resolved identity is injected
// into the echo context; every failure maps to 401 through the central
// error handler, with the specific error kind preserved.
func Gateway(issuer ports.TokenIssuer, tokens ports.TokenStore, users ports.UserRepository, platform domain.Platform) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, err := BearerToken(c)
			if err != nil {
				return err
			}

			claims, err := issuer.Validate(raw, platform)
			if err != nil {
				if errors.Is(err, domain.ErrTokenExpired) {
					metrics.TokenValidationsTotal.WithLabelValues(string(platform), "expired").Inc()
				} else {
					metrics.TokenValidationsTotal.WithLabelValues(string(platform), "invalid").Inc()
				}
				return err
			}

			revoked, err := tokens.IsRevoked(c.Request().Context(), claims.TokenID)
			if err != nil {
				return err
			}
			if revoked {
				metrics.TokenValidationsTotal.WithLabelValues(string(platform), "revoked").Inc()
				return domain.ErrTokenRevoked
			}

			user, err := users.FindActiveByID(c.Request().Context(), claims.UserID)
			if err != nil {
				if errors.Is(err, domain.ErrUserNotExists) {
					metrics.TokenValidationsTotal.WithLabelValues(string(platform), "user_gone").Inc()
					return domain.ErrInvalidToken
				}
				return err
			}

			metrics.TokenValidationsTotal.WithLabelValues(string(platform), "ok").Inc()

			c.Set(CtxUserID, user.ID)
			c.Set(CtxRoleID, user.RoleID)
			c.Set(CtxPlatform, string(platform))
			c.Set(CtxTokenID, claims.TokenID)
			c.Set(CtxUser, user)

			return next(c)
		}
	}
}

// BearerToken extracts the raw token from the Authorization header.
func BearerToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
	}
	return parts[1], nil
}
