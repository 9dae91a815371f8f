package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/config"
	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/dto"
	"github.com/gofiber/fiber/v2"
)

// PingFunc checks that the store is reachable.
type PingFunc func(ctx context.Context) error

type HealthHandler struct {
	cfg  *config.Config
	ping PingFunc
}

func NewHealthHandler(cfg *config.Config, ping PingFunc) *HealthHandler {
	return &HealthHandler{cfg: cfg, ping: ping}
}

// Check reports liveness only and never touches the database.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	return c.JSON(dto.HealthResponse{
		Status:      "OK",
		TimeStamp:   time.Now().UTC().Format(time.RFC3339),
		Environment: h.cfg.Environment,
	})
}

// Ready pings the database with a short timeout.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	if h.ping == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ReadinessResponse{Status: "unavailable", DB: "not configured"})
	}
	if err := h.ping(ctx); err != nil {
		slog.Error("readiness check failed", "request_id", RequestID(c), "error", err.Error())
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ReadinessResponse{
			Status: "unavailable",
			DB:     "unhealthy",
		})
	}
	return c.JSON(dto.ReadinessResponse{Status: "ready", DB: "ok"})
}
