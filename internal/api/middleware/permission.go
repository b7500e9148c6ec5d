package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/shoplane/auth-api/internal/api/metrics"
	"github.com/shoplane/auth-api/internal/core/domain"
	"github.com/shoplane/auth-api/internal/core/ports"
)

// Permission enforces the DB-driven role→route policy for requests that
// already passed the Gateway. The concrete request path is matched
// structurally against stored route templates; no entry for the
// caller's role means deny.
func Permission(resolver ports.PermissionResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			roleID, _ := c.Get(CtxRoleID).(string)
			if roleID == "" {
				return domain.ErrForbidden
			}

			allowed, err := resolver.IsAllowed(
				c.Request().Context(),
				roleID,
				c.Request().Method,
				c.Request().URL.Path,
			)
			if err != nil {
				metrics.PermissionChecksTotal.WithLabelValues("error").Inc()
				return err
			}
			if !allowed {
				metrics.PermissionChecksTotal.WithLabelValues("denied").Inc()
				return domain.ErrForbidden
			}

			metrics.PermissionChecksTotal.WithLabelValues("allowed").Inc()
			return next(c)
		}
	}
}
