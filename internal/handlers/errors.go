package handlers

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/dto"
	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/identity"
	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// respondError maps service errors onto status codes. Internal errors are
// logged with request context and answered with a generic message.
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "Internal server error"

	switch {
	case errors.Is(err, services.ErrValidation):
		status, message = fiber.StatusBadRequest, err.Error()
	case errors.Is(err, services.ErrUnauthenticated):
		status, message = fiber.StatusUnauthorized, "Authentication required"
	case errors.Is(err, services.ErrForbidden):
		status, message = fiber.StatusForbidden, err.Error()
	case errors.Is(err, services.ErrNotFound):
		status, message = fiber.StatusNotFound, err.Error()
	case errors.Is(err, services.ErrConflict):
		status, message = fiber.StatusConflict, err.Error()
	default:
		attrs := []any{
			"method", c.Method(),
			"path", c.Path(),
			"request_id", RequestID(c),
			"error", err.Error(),
		}
		if user := identity.User(c); user != nil {
			attrs = append(attrs, "user_id", user.ID.String())
		}
		slog.Error("request failed", attrs...)
	}

	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: message})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: true, Message: message,
	})
}

func paramID(c *fiber.Ctx, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params(name))
	return id, err == nil
}

// RequestID returns the id assigned by the requestid middleware.
func RequestID(c *fiber.Ctx) string {
	id, _ := c.Locals("requestid").(string)
	return id
}
