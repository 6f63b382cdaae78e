// @title                       Task Manager API
// @version                     1.0.0
// @description                 Task management REST API with ownership based access control.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	goredis "github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/taskboard/task-api/internal/api"
	"github.com/taskboard/task-api/internal/api/handler"
	"github.com/taskboard/task-api/internal/core/ports"
	"github.com/taskboard/task-api/internal/core/service"
	"github.com/taskboard/task-api/internal/infrastructure/db/mongo"
	"github.com/taskboard/task-api/internal/infrastructure/db/redis"
	"github.com/taskboard/task-api/internal/pkg/config"
	"github.com/taskboard/task-api/pkg/logger"
)

var version = "1.0.0"

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "task-api",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  "task-api",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("mongodb index creation failed")
	}

	checks := map[string]handler.HealthCheck{
		"mongodb": func(ctx context.Context) error { return client.Ping(ctx, readpref.Primary()) },
	}

	var (
		rdb     *goredis.Client
		limiter ports.RateLimiter
	)
	if cfg.RateLimit.Enabled {
		rdb, err = redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("redis connection failed")
		}
		limiter = redis.NewRateLimiter(rdb, cfg.RateLimit.Requests, cfg.RateLimit.Window)
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	taskRepo := mongo.NewTaskRepository(db)
	userRepo := mongo.NewUserRepository(db)
	activityRepo := mongo.NewActivityRepository(db)

	e := api.NewRouter(api.Deps{
		Tasks:          service.NewTaskService(taskRepo, userRepo, activityRepo, log),
		Users:          service.NewUserService(userRepo),
		Authenticator:  service.NewTokenAuthenticator(userRepo, cfg.JWTSecret, log),
		RateLimiter:    limiter,
		HealthChecks:   checks,
		Logger:         log,
		Version:        version,
		AllowedOrigins: cfg.AllowedOrigins(),
		ExposeErrors:   !cfg.IsProduction(),
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server started")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server crashed")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown error")
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("redis close error")
		}
	}
	if err := client.Disconnect(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("mongodb disconnect error")
	}
	log.Info().Msg("shutdown complete")
}
