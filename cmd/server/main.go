package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/assignhub/assignment-portal/internal/api"
	"github.com/assignhub/assignment-portal/internal/core/ports"
	"github.com/assignhub/assignment-portal/internal/infrastructure/config"
	mongodb "github.com/assignhub/assignment-portal/internal/infrastructure/db/mongo"
	redisdb "github.com/assignhub/assignment-portal/internal/infrastructure/db/redis"
	"github.com/assignhub/assignment-portal/internal/infrastructure/session"
	"github.com/assignhub/assignment-portal/pkg/logger"
)

// @title        Assignment Portal API
// @version      1.0
// @description  Role-based assignment submission portal with dual-principal authentication.
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg := config.Load(slog.Default())

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connect failed")
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	if err := mongodb.NewPrincipalRepository(db).EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("principal index creation failed")
	}
	if err := mongodb.NewAssignmentRepository(db).EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("assignment index creation failed")
	}

	var rdb *redis.Client
	var store ports.SessionStore
	switch cfg.Session.Backend {
	case "redis":
		rdb, err = redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			log.Fatal().Err(err).Msg("redis connect failed")
		}
		defer func() { _ = rdb.Close() }()
		store = redisdb.NewSessionStore(rdb, cfg.Session.TTL)
	default:
		fileStore, err := session.NewFileStore(cfg.Session.Path, cfg.Session.TTL)
		if err != nil {
			log.Fatal().Err(err).Msg("session store init failed")
		}
		session.NewJanitor(fileStore, 0, log).Start(ctx)
		store = fileStore
	}

	e := api.NewRouter(cfg, db, rdb, store, log)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("assignment portal listening")

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
