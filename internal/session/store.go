// Package session wires the fiber session store used by the OAuth login flow.
package session

import (
	"crypto/sha256"
	"encoding/base64"

	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/config"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

const (
	CookieName = "editor_session"

	UserIDKey = "user_id"
	StateKey  = "oauth_state"
)

// NewStore builds the session store. A nil storage keeps sessions in memory.
func NewStore(cfg *config.Config, storage fiber.Storage) *session.Store {
	return session.New(session.Config{
		Expiration:     cfg.SessionExpiry,
		Storage:        storage,
		KeyLookup:      "cookie:" + CookieName,
		CookieHTTPOnly: true,
		CookieSecure:   cfg.IsProduction(),
		CookieSameSite: fiber.CookieSameSiteLaxMode,
	})
}

// CookieKey derives the encryptcookie AES-256 key from SESSION_SECRET.
func CookieKey(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return base64.StdEncoding.EncodeToString(sum[:])
}
