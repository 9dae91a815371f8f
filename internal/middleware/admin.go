package middleware

import (
	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/dto"
	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/identity"
	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/models"
	"github.com/gofiber/fiber/v2"
)

// RequireRole admits only callers holding one of roles. It must run after
// RequireIdentity.
func RequireRole(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := identity.User(c)
		if user == nil {
			return unauthorized(c, "Authentication required")
		}

		for _, role := range roles {
			if user.Role == role {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Insufficient role for this operation",
		})
	}
}
