package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/shoplane/auth-api/internal/api"
	"github.com/shoplane/auth-api/internal/infrastructure/config"
	mongodb "github.com/shoplane/auth-api/internal/infrastructure/db/mongo"
	redisdb "github.com/shoplane/auth-api/internal/infrastructure/db/redis"
	"github.com/shoplane/auth-api/internal/infrastructure/queue"
	"github.com/shoplane/auth-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	auditRepo := mongodb.NewAuditRepository(db)
	dispatcher := queue.NewAuditDispatcher(0, auditRepo, logger.With("audit"))
	dispatcher.Start(ctx)

	e, resolver := api.NewRouter(api.Deps{
		Config: cfg,
		Mongo:  db,
		Redis:  rdb,
		Audit:  dispatcher,
		Logger: log,
	})

	// Load and validate the route policy table before taking traffic;
	// an ambiguous table is a deployment error, not a per-request one.
	if err := resolver.Refresh(ctx); err != nil {
		log.Fatal().Err(err).Msg("route policy validation failed")
	}

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("auth api started")

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
