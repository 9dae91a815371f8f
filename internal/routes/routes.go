package routes

import (
	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/models"
	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Health  *handlers.HealthHandler
	Auth    *handlers.AuthHandler
	Blog    *handlers.BlogHandler
	Comment *handlers.CommentHandler
	Admin   *handlers.AdminHandler
}

// Guards are the per-route middleware built by the server.
type Guards struct {
	BearerToken      fiber.Handler
	RequireIdentity  fiber.Handler
	OptionalIdentity fiber.Handler
	APILimit         fiber.Handler
	LoginLimit       fiber.Handler
}

func Setup(app *fiber.App, h Handlers, g Guards) {
	// Health sits ahead of the /api limiter and token check.
	app.Get("/api/health", h.Health.Check)
	app.Get("/api/health/ready", h.Health.Ready)

	api := app.Group("/api")
	api.Use(g.APILimit, g.BearerToken)

	// Auth: login endpoints get the stricter limiter
	auth := api.Group("/auth")
	auth.Get("/google", g.LoginLimit, h.Auth.GoogleLogin)
	auth.Get("/google/callback", g.LoginLimit, h.Auth.GoogleCallback)
	auth.Post("/logout", h.Auth.Logout)
	auth.Get("/me", g.RequireIdentity, h.Auth.Me)
	auth.Post("/token", g.RequireIdentity, h.Auth.Token)

	// Blogs: reads are public with optional identity, writes need one
	blogs := api.Group("/blogs")
	blogs.Get("/", g.OptionalIdentity, h.Blog.List)
	blogs.Get("/:id", g.OptionalIdentity, h.Blog.Get)
	blogs.Post("/", g.RequireIdentity, h.Blog.Create)
	blogs.Put("/:id", g.RequireIdentity, h.Blog.Update)
	blogs.Delete("/:id", g.RequireIdentity, h.Blog.Delete)
	blogs.Post("/:id/like", g.RequireIdentity, h.Blog.Like)

	// Comments
	blogs.Get("/:id/comments", g.OptionalIdentity, h.Comment.List)
	blogs.Post("/:id/comments", g.RequireIdentity, h.Comment.Create)
	api.Put("/comments/:id", g.RequireIdentity, h.Comment.Update)
	api.Delete("/comments/:id", g.RequireIdentity, h.Comment.Delete)

	// Admin
	admin := api.Group("/admin", g.RequireIdentity, middleware.RequireRole(models.RoleAdmin))
	admin.Get("/users", h.Admin.ListUsers)
	admin.Put("/users/:id/role", h.Admin.UpdateRole)
	admin.Delete("/users/:id", h.Admin.DeleteUser)
	admin.Post("/blogs/recount", h.Admin.RecountComments)
}
