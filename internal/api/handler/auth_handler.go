package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/shoplane/auth-api/internal/api/metrics"
	"github.com/shoplane/auth-api/internal/api/middleware"
	"github.com/shoplane/auth-api/internal/core/domain"
	"github.com/shoplane/auth-api/internal/core/ports"
)

// AuthHandler serves the auth endpoints for one platform surface. Each
// surface gets its own instance so tokens are always minted and checked
// under that platform's secret.
type AuthHandler struct {
	authService ports.AuthService
	platform    domain.Platform
}

func NewAuthHandler(authService ports.AuthService, platform domain.Platform) *AuthHandler {
	return &AuthHandler{authService: authService, platform: platform}
}

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=8"`
	Email    string `json:"email" validate:"omitempty,email"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type registerResponse struct {
	User domain.PublicUser `json:"user"`
}

type statusResponse struct {
	Status string `json:"status"`
}

// Register creates a new user account on this platform.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /admin/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.authService.Register(c.Request().Context(), req.Username, req.Password, req.Email, h.platform)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, registerResponse{User: *user})
}

// Login authenticates a user and returns a session token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  ports.LoginResult
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /admin/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	start := time.Now()
	defer func() {
		metrics.LoginDuration.WithLabelValues(string(h.platform)).Observe(time.Since(start).Seconds())
	}()

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.authService.Login(c.Request().Context(), req.Username, req.Password, h.platform)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(string(h.platform), loginResultLabel(err)).Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues(string(h.platform), "success").Inc()
	return c.JSON(http.StatusOK, result)
}

// Logout revokes the presented bearer token. Revoking an expired or
// already-revoked token still answers success.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  statusResponse
// @Failure      401  {object}  map[string]string
// @Router       /admin/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	raw, err := middleware.BearerToken(c)
	if err != nil {
		return err
	}
	if err := h.authService.Logout(c.Request().Context(), raw, h.platform); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, statusResponse{Status: "SUCCESS"})
}

func loginResultLabel(err error) string {
	switch {
	case errors.Is(err, domain.ErrUserNotExists):
		return "user_not_exists"
	case errors.Is(err, domain.ErrIncorrectPassword):
		return "incorrect_password"
	case errors.Is(err, domain.ErrAccountLocked):
		return "account_locked"
	}
	return "error"
}
