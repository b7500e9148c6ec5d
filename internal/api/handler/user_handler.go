package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shoplane/auth-api/internal/api/middleware"
	"github.com/shoplane/auth-api/internal/core/domain"
)

// UserHandler serves profile endpoints behind the gateway.
type UserHandler struct{}

func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// Me returns the authenticated caller's public profile as resolved by
// the gateway middleware.
//
// @Summary      Current user profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.PublicUser
// @Failure      401  {object}  map[string]string
// @Router       /admin/users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	user, ok := c.Get(middleware.CtxUser).(*domain.User)
	if !ok || user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return c.JSON(http.StatusOK, domain.PublicView(user))
}
