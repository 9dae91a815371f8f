package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/config"
	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/database"
	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/logging"
	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/repositories"
	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/server"
	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/services"
	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/session"
	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func runServe() error {
	cfg, db, stdout, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			slog.Error("database close error", "error", err)
		}
	}()

	// Database log sink (ERROR+ async batch)
	dbLogHandler := logging.NewDBHandler(db)
	slog.SetDefault(slog.New(logging.NewMultiHandler(stdout, dbLogHandler)))

	cleanupDone := make(chan struct{})
	logging.StartCleanup(db, cfg.LogRetentionDays, cleanupDone)

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		}
	}

	var sessionStorage, limiterStorage fiber.Storage
	var closers []func() error
	if cfg.RedisURL != "" {
		sessions, err := session.NewRedisStorage(cfg.RedisURL, "session:")
		if err != nil {
			return fail("redis connection failed", err)
		}
		limits, err := session.NewRedisStorage(cfg.RedisURL, "limiter:")
		if err != nil {
			_ = sessions.Close()
			return fail("redis connection failed", err)
		}
		sessionStorage, limiterStorage = sessions, limits
		closers = append(closers, sessions.Close, limits.Close)
		slog.Info("redis storage enabled")
	}

	app := server.New(server.Deps{
		Config:         cfg,
		Users:          repositories.NewUserRepository(db),
		Blogs:          repositories.NewBlogRepository(db),
		Comments:       repositories.NewCommentRepository(db),
		Provider:       services.NewGoogleProvider(cfg),
		Ping:           func(ctx context.Context) error { return database.Ping(ctx, db) },
		Metrics:        metrics.New(),
		SessionStorage: sessionStorage,
		LimiterStorage: limiterStorage,
		AccessLog:      true,
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	listenErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.Port, "environment", cfg.Environment)
		listenErr <- app.Listen(":" + cfg.Port)
	}()

	select {
	case <-quit:
		slog.Info("shutting down server...")
	case err := <-listenErr:
		if err != nil {
			return fail("server failed to start", err)
		}
	}

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	close(cleanupDone)
	dbLogHandler.Stop()
	sentry.Flush(2 * time.Second)
	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			slog.Error("redis close error", "error", err)
		}
	}

	slog.Info("server stopped")
	return nil
}

func runMigrate() error {
	_, db, _, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = database.Close(db) }()

	slog.Info("schema up to date")
	return nil
}

// bootstrap loads configuration, connects to MySQL and makes sure the schema
// exists. The stdout handler is returned so the caller can fan it out.
func bootstrap() (*config.Config, *gorm.DB, slog.Handler, error) {
	cfg := config.Load()
	stdout := logging.Setup(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, fail("invalid configuration", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, nil, fail("database connection failed", err)
	}
	if err := database.EnsureSchema(db); err != nil {
		_ = database.Close(db)
		return nil, nil, nil, fail("schema setup failed", err)
	}
	return cfg, db, stdout, nil
}
