package handlers

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log/slog"
	"net/url"
	"strings"

	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/config"
	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/dto"
	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/identity"
	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/services"
	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/session"
	"github.com/gofiber/fiber/v2"
	fibersession "github.com/gofiber/fiber/v2/middleware/session"
)

type AuthHandler struct {
	authService *services.AuthService
	provider    services.OAuthProvider
	sessions    *fibersession.Store
	cfg         *config.Config
	metrics     *metrics.Metrics
}

func NewAuthHandler(
	authService *services.AuthService,
	provider services.OAuthProvider,
	sessions *fibersession.Store,
	cfg *config.Config,
	m *metrics.Metrics,
) *AuthHandler {
	return &AuthHandler{authService: authService, provider: provider, sessions: sessions, cfg: cfg, metrics: m}
}

// GoogleLogin stores a fresh state in the session and redirects to Google.
func (h *AuthHandler) GoogleLogin(c *fiber.Ctx) error {
	state, err := randomState()
	if err != nil {
		return respondError(c, err)
	}

	sess, err := h.sessions.Get(c)
	if err != nil {
		return respondError(c, err)
	}
	sess.Set(session.StateKey, state)
	if err := sess.Save(); err != nil {
		return respondError(c, err)
	}

	return c.Redirect(h.provider.AuthCodeURL(state), fiber.StatusFound)
}

// GoogleCallback completes the OAuth flow, binds the user to the session and
// hands a token to the frontend.
func (h *AuthHandler) GoogleCallback(c *fiber.Ctx) error {
	if reason := c.Query("error"); reason != "" {
		h.recordLogin("denied")
		return c.Redirect(h.frontendURL("/login", "error", reason), fiber.StatusFound)
	}

	sess, err := h.sessions.Get(c)
	if err != nil {
		return respondError(c, err)
	}
	expected, _ := sess.Get(session.StateKey).(string)
	if expected == "" || c.Query("state") != expected {
		h.recordLogin("state_mismatch")
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid OAuth state",
		})
	}
	sess.Delete(session.StateKey)

	code := c.Query("code")
	if code == "" {
		h.recordLogin("missing_code")
		return badRequest(c, "Missing authorization code")
	}

	profile, err := h.provider.Exchange(c.UserContext(), code)
	if err != nil {
		h.recordLogin("exchange_failed")
		slog.Warn("google exchange failed", "request_id", RequestID(c), "error", err)
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Google login failed",
		})
	}

	user, err := h.authService.LoginWithGoogle(c.UserContext(), profile)
	if err != nil {
		h.recordLogin("rejected")
		return respondError(c, err)
	}

	// New session id on privilege change.
	if err := sess.Regenerate(); err != nil {
		return respondError(c, err)
	}
	sess.Set(session.UserIDKey, user.ID.String())
	if err := sess.Save(); err != nil {
		return respondError(c, err)
	}

	issued, err := h.authService.IssueToken(user)
	if err != nil {
		return respondError(c, err)
	}

	h.recordLogin("success")
	slog.Info("user logged in", "user_id", user.ID, "request_id", RequestID(c))
	return c.Redirect(h.frontendURL("/auth/callback", "token", issued.Token), fiber.StatusFound)
}

// Logout destroys the session. It succeeds with or without one.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sess, err := h.sessions.Get(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := sess.Destroy(); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Logged out successfully"})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user := identity.User(c)
	if user == nil {
		return respondError(c, services.ErrUnauthenticated)
	}
	return c.JSON(user)
}

// Token issues a signed token for the current identity, typically right
// after a session login.
func (h *AuthHandler) Token(c *fiber.Ctx) error {
	user := identity.User(c)
	if user == nil {
		return respondError(c, services.ErrUnauthenticated)
	}
	issued, err := h.authService.IssueToken(user)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(issued)
}

func (h *AuthHandler) recordLogin(result string) {
	if h.metrics != nil {
		h.metrics.RecordLogin(result)
	}
}

func (h *AuthHandler) frontendURL(path, key, value string) string {
	return strings.TrimRight(h.cfg.FrontendURL, "/") + path + "?" + url.Values{key: {value}}.Encode()
}

func randomState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", errors.New("failed to generate oauth state")
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
