// Copyright (c) 2026 Tagraph. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Tagraph HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool) and run migrations (idempotent).
//  4. Connect to Redis when configured (reindex retry ledger).
//  5. Open the search index and start the reindex workers.
//  6. Wire domain services and HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
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

	goredis "github.com/redis/go-redis/v9"

	"github.com/taibuivan/tagraph/internal/api"
	"github.com/taibuivan/tagraph/internal/core/image"
	"github.com/taibuivan/tagraph/internal/core/tag"
	"github.com/taibuivan/tagraph/internal/platform/config"
	"github.com/taibuivan/tagraph/internal/platform/constants"
	"github.com/taibuivan/tagraph/internal/platform/migration"
	pgstore "github.com/taibuivan/tagraph/internal/platform/postgres"
	redisstore "github.com/taibuivan/tagraph/internal/platform/redis"
	"github.com/taibuivan/tagraph/internal/reindex"
	"github.com/taibuivan/tagraph/internal/search"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	log := rawLog.With(slog.String("app", constants.AppName), slog.String("version", constants.AppVersion))
	slog.SetDefault(log)

	log.Info("[Tagraph] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName), slog.String("version", constants.AppVersion))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// Lifetime context for background loops (rate limiter cleanup, sweeper).
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	_, err = migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log)
	must(log, err, "run migrations")

	// ── 4. Redis (optional) ───────────────────────────────────────────────
	var (
		rdb    *goredis.Client
		ledger reindex.Ledger
	)
	if cfg.RedisURL != "" {
		rdb, err = redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing redis client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis close error", slog.Any("error", cerr))
			}
		}()
		ledger = reindex.NewRedisLedger(rdb)
	} else {
		log.Warn("reindex_ledger_disabled", slog.String("reason", "REDIS_URL not set"))
	}

	// ── 5. Search Index & Reindex Workers ─────────────────────────────────
	index, err := search.NewIndex(search.Options{DataPath: cfg.SearchIndexPath, Logger: log})
	must(log, err, "open search index")
	defer func() {
		log.Info("closing search index")
		if cerr := index.Close(); cerr != nil {
			log.Error("search index close error", slog.Any("error", cerr))
		}
	}()

	tagRepository := tag.NewPostgresRepository(pool, func(q pgstore.Querier) tag.ImageRelinker {
		return image.NewTaggingStore(q)
	})
	imageRepository := image.NewPostgresRepository(pool)

	scheduler := reindex.NewScheduler(cfg.Reindex, index, map[search.DocType]reindex.DocumentLoader{
		search.DocTypeTag:   tagRepository,
		search.DocTypeImage: imageRepository,
	}, ledger, log)
	scheduler.Start()

	if ledger != nil {
		sweeper := reindex.NewSweeper(ledger, scheduler, cfg.Reindex.SweepInterval, cfg.Reindex.SweepRate, log)
		go sweeper.Run(appCtx)
	}

	// ── 6. Health handlers (wired with real dependency checkers) ──────────
	checks := []api.HealthCheck{
		{Name: "postgres", Check: func(context context.Context) error {
			return pgstore.Ping(context, pool)
		}},
		{Name: "search", Check: func(context.Context) error {
			_, err := index.DocumentCount()
			return err
		}},
	}
	if rdb != nil {
		checks = append(checks, api.HealthCheck{Name: "redis", Check: func(context context.Context) error {
			return redisstore.Ping(context, rdb)
		}})
	}
	liveness, readiness := api.NewHealthHandlers(checks, api.HealthStatus{PendingReindexJobs: scheduler.Pending}, log)

	// ── 7. Domain Wiring ──────────────────────────────────────────────────
	tagService := tag.NewService(tagRepository, scheduler, log)
	imageService := image.NewService(imageRepository, tagService.Resolver(), scheduler, log)

	// ── 8. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Tag:       tag.NewHandler(tagService),
		Image:     image.NewHandler(imageService),
		Index:     search.NewHandler(index),
	}

	server := api.NewServer(appCtx, cfg, log, handlers)

	// ── 9. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
	}

	// Requests are drained. Stop cancels in-flight jobs and parks queued ones
	// in the ledger for the next process to sweep. Without REDIS_URL they are
	// only logged and their documents stay stale until touched again.
	appCancel()
	scheduler.Stop()

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
