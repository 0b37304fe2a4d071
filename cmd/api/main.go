package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/lord-einar/megasys/internal/cache"
	"github.com/lord-einar/megasys/internal/config"
	"github.com/lord-einar/megasys/internal/database"
	"github.com/lord-einar/megasys/internal/handlers"
	"github.com/lord-einar/megasys/internal/jobs"
	"github.com/lord-einar/megasys/internal/log"
	"github.com/lord-einar/megasys/internal/permissions"
	"github.com/lord-einar/megasys/internal/repository"
	"github.com/lord-einar/megasys/internal/server"
	"github.com/lord-einar/megasys/internal/service"
	"github.com/lord-einar/megasys/internal/storage"
	"github.com/lord-einar/megasys/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment)
	permissions.SetLogger(logger)

	ctx := context.Background()

	dbPool, err := database.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect postgres")
	}

	if applied, err := database.Migrate(ctx, dbPool, migrations.FS); err != nil {
		logger.Fatal().Err(err).Msg("database migration failed")
	} else if applied > 0 {
		logger.Info().Int("applied", applied).Msg("database migrations applied")
	}

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect redis")
	}

	photoStore, err := storage.NewPhotoStore(cfg.Storage)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init photo store")
	}
	if err := photoStore.EnsureBucket(ctx); err != nil {
		logger.Warn().Err(err).Msg("ensure photo bucket failed")
	}

	handlerSet := handlers.NewHandlerSet(logger, dbPool, redisClient, photoStore, cfg)
	httpServer := server.NewHTTPServer(cfg, logger, handlerSet)

	scheduler := jobs.NewScheduler(
		repository.NewSessionRepository(dbPool),
		repository.NewRemitoRepository(dbPool),
		repository.NewVisitaRepository(dbPool),
		service.NewAvisoPublisher(redisClient, logger),
		logger,
	)
	if err := scheduler.Start(); err != nil {
		logger.Error().Err(err).Msg("scheduler start failed")
	}

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	waitForShutdown(logger, httpServer, scheduler, dbPool, redisClient)
}

func waitForShutdown(logger zerolog.Logger, srv *server.HTTPServer, scheduler *jobs.Scheduler, db *pgxpool.Pool, redisClient *redis.Client) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	if scheduler != nil {
		cancel := scheduler.Stop()
		cancel()
	}

	db.Close()
	if err := redisClient.Close(); err != nil {
		logger.Error().Err(err).Msg("redis close error")
	}

	logger.Info().Msg("server exited cleanly")
}
