package middleware

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/config"
	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/dto"
	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/identity"
	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/services"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
)

// BearerToken verifies an Authorization: Bearer token when one is sent and
// stores it for the identity resolver. Requests without one pass through.
func BearerToken(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{JWTAlg: jwtware.HS256, Key: []byte(cfg.JWTSecret)},
		ContextKey: identity.TokenLocal,
		Filter: func(c *fiber.Ctx) bool {
			return identity.BearerToken(c) == ""
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return unauthorized(c, "Unauthorized: invalid or expired token")
		},
	})
}

// RequireIdentity rejects anonymous requests before the handler runs.
func RequireIdentity(resolver *identity.Resolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := resolver.Resolve(c)
		if err != nil {
			if errors.Is(err, services.ErrUnauthenticated) {
				return unauthorized(c, "Unauthorized: invalid or expired credentials")
			}
			return err
		}
		if user == nil {
			return unauthorized(c, "Authentication required")
		}
		return c.Next()
	}
}

// OptionalIdentity resolves the caller when credentials are present. A bad
// token is still rejected; a stale session is treated as anonymous.
func OptionalIdentity(resolver *identity.Resolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, err := resolver.Resolve(c)
		if err != nil {
			if !errors.Is(err, services.ErrUnauthenticated) {
				return err
			}
			if identity.MethodOf(c) == identity.MethodToken {
				return unauthorized(c, "Unauthorized: invalid or expired token")
			}
		}
		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error:   true,
		Message: message,
	})
}
