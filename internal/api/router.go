package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shoplane/auth-api/internal/api/handler"
	"github.com/shoplane/auth-api/internal/api/metrics"
	"github.com/shoplane/auth-api/internal/api/middleware"
	"github.com/shoplane/auth-api/internal/core/domain"
	"github.com/shoplane/auth-api/internal/core/ports"
	"github.com/shoplane/auth-api/internal/core/service"
	"github.com/shoplane/auth-api/internal/infrastructure/config"
	mongodb "github.com/shoplane/auth-api/internal/infrastructure/db/mongo"
	redisdb "github.com/shoplane/auth-api/internal/infrastructure/db/redis"
)

// Deps carries the externally constructed resources the router needs.
type Deps struct {
	Config *config.Config
	Mongo  *mongo.Database
	Redis  *redis.Client
	Audit  ports.AuditSink
	Logger zerolog.Logger
}

// platformPrefixes maps each URL surface to its platform tag.
var platformPrefixes = map[string]domain.Platform{
	"/admin":  domain.PlatformAdmin,
	"/device": domain.PlatformDevice,
	"/client": domain.PlatformClient,
}

// defaultRoles assigned to new registrations per surface.
var defaultRoles = map[domain.Platform]string{
	domain.PlatformAdmin:  "Admin",
	domain.PlatformDevice: "User",
	domain.PlatformClient: "User",
}

// NewRouter builds the Echo instance with all routes registered and
// returns it together with the permission resolver, so callers can
// force an initial policy load before serving.
func NewRouter(deps Deps) (*echo.Echo, *service.PermissionResolver) {
	cfg := deps.Config

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger, cfg.Env)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("authapi"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(deps.Mongo)
	roleRepo := mongodb.NewRoleRepository(deps.Mongo)
	tokenStore := redisdb.NewTokenStore(deps.Redis)

	issuer := service.NewJWTIssuer(map[domain.Platform]service.PlatformKey{
		domain.PlatformAdmin:  {Secret: []byte(cfg.Auth.AdminSecret), TTL: cfg.Auth.TokenTTL},
		domain.PlatformDevice: {Secret: []byte(cfg.Auth.DeviceSecret), TTL: cfg.Auth.TokenTTL},
		domain.PlatformClient: {Secret: []byte(cfg.Auth.ClientSecret), TTL: cfg.Auth.TokenTTL},
	})
	throttle := service.NewLoginThrottle(userRepo, cfg.Auth.LockoutThreshold, cfg.Auth.LockoutDuration, deps.Logger)
	throttle.OnLock = metrics.AccountLockoutsTotal.Inc
	resolver := service.NewPermissionResolver(roleRepo, cfg.Auth.PolicyCacheTTL, deps.Logger)

	authService := service.NewAuthService(service.AuthServiceDeps{
		Users:        userRepo,
		Roles:        roleRepo,
		Tokens:       tokenStore,
		Issuer:       issuer,
		Throttle:     throttle,
		Audit:        deps.Audit,
		DefaultRoles: defaultRoles,
		Logger:       deps.Logger,
	})

	userHandler := handler.NewUserHandler()

	// --- Per-platform surfaces ---
	for prefix, platform := range platformPrefixes {
		authHandler := handler.NewAuthHandler(authService, platform)
		g := e.Group(prefix)

		g.POST("/auth/register", authHandler.Register)
		g.POST("/auth/login", authHandler.Login)
		// Logout sits outside the gateway so an expired or revoked
		// token can still end its session.
		g.POST("/auth/logout", authHandler.Logout)

		protected := g.Group("",
			middleware.Gateway(issuer, tokenStore, userRepo, platform),
			middleware.Permission(resolver),
		)
		protected.GET("/users/me", userHandler.Me)
	}

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e, resolver
}
