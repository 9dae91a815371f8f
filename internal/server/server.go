// Package server assembles the fiber application from its dependencies.
package server

import (
	"errors"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/config"
	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/dto"
	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/identity"
	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/repositories"
	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/routes"
	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/services"
	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/session"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/encryptcookie"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

const bodyLimit = 10 * 1024 * 1024

type Deps struct {
	Config   *config.Config
	Users    repositories.UserRepository
	Blogs    repositories.BlogRepository
	Comments repositories.CommentRepository
	Provider services.OAuthProvider
	Ping     handlers.PingFunc
	Metrics  *metrics.Metrics

	// Optional shared storage; nil keeps state in process memory.
	SessionStorage fiber.Storage
	LimiterStorage fiber.Storage

	// AccessLog enables the fiber request logger.
	AccessLog bool
}

func New(d Deps) *fiber.App {
	cfg := d.Config
	if d.Metrics == nil {
		d.Metrics = metrics.New()
	}

	filter := services.NewContentFilter(cfg.ContentFilter)
	authService := services.NewAuthService(d.Users, cfg)
	blogService := services.NewBlogService(d.Blogs, filter)
	commentService := services.NewCommentService(d.Comments, blogService, filter)
	userService := services.NewUserService(d.Users)

	sessions := session.NewStore(cfg, d.SessionStorage)
	resolver := identity.NewResolver(authService,
		identity.NewTokenStrategy(authService),
		identity.NewSessionStrategy(sessions),
	)

	app := fiber.New(fiber.Config{
		BodyLimit:             bodyLimit,
		ErrorHandler:          customErrorHandler,
		DisableStartupMessage: true,
	})

	if cfg.SentryDSN != "" {
		app.Use(sentryfiber.New(sentryfiber.Options{
			Repanic:         true,
			WaitForDelivery: false,
		}))
	}

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	if d.AccessLog {
		app.Use(fiberlogger.New(fiberlogger.Config{
			Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${locals:requestid}\n",
		}))
	}
	app.Use(middleware.Metrics(d.Metrics))
	app.Use(middleware.SecurityHeaders())
	app.Use(middleware.CORS(cfg))
	app.Use(encryptcookie.New(encryptcookie.Config{
		Key: session.CookieKey(cfg.SessionSecret),
	}))

	app.Get("/metrics", adaptor.HTTPHandler(d.Metrics.Handler()))

	routes.Setup(app, routes.Handlers{
		Health:  handlers.NewHealthHandler(cfg, d.Ping),
		Auth:    handlers.NewAuthHandler(authService, d.Provider, sessions, cfg, d.Metrics),
		Blog:    handlers.NewBlogHandler(blogService),
		Comment: handlers.NewCommentHandler(commentService),
		Admin:   handlers.NewAdminHandler(userService, blogService),
	}, routes.Guards{
		BearerToken:      middleware.BearerToken(cfg),
		RequireIdentity:  middleware.RequireIdentity(resolver),
		OptionalIdentity: middleware.OptionalIdentity(resolver),
		APILimit:         middleware.RateLimit("api", cfg.RateLimitPerMinute, time.Minute, d.LimiterStorage),
		LoginLimit:       middleware.RateLimit("login", 10, time.Minute, d.LimiterStorage),
	})

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Route not found",
		})
	})

	return app
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error",
			"method", c.Method(),
			"path", c.Path(),
			"request_id", handlers.RequestID(c),
			"error", err.Error(),
		)
		message = "Internal server error"
	}

	return c.Status(code).JSON(dto.ErrorResponse{
		Error:   true,
		Message: message,
	})
}
