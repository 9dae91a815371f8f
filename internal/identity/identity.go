// Package identity resolves who is making a request. A bearer token is tried
// first, then the session cookie; requests with neither are anonymous.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/models"
	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/services"
	sessionkeys "github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/session"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenLocal is where the bearer token middleware stores the verified *jwt.Token.
const TokenLocal = "token"

const (
	userLocal   = "identity.user"
	methodLocal = "identity.method"
)

type Method string

const (
	MethodNone    Method = ""
	MethodToken   Method = "token"
	MethodSession Method = "session"
)

// Strategy extracts a user id from one kind of credential.
type Strategy interface {
	Method() Method
	Applies(c *fiber.Ctx) bool
	// UserID returns uuid.Nil when the credential carries no identity.
	UserID(c *fiber.Ctx) (uuid.UUID, error)
}

type UserLoader interface {
	CurrentUser(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type TokenParser interface {
	ParseToken(raw string) (*services.Claims, error)
}

type Resolver struct {
	users      UserLoader
	strategies []Strategy
}

func NewResolver(users UserLoader, strategies ...Strategy) *Resolver {
	return &Resolver{users: users, strategies: strategies}
}

// Resolve returns the caller, or nil for an anonymous request. The first
// applicable strategy decides; a failing strategy does not fall through.
func (r *Resolver) Resolve(c *fiber.Ctx) (*models.User, error) {
	if user, ok := c.Locals(userLocal).(*models.User); ok {
		return user, nil
	}

	for _, s := range r.strategies {
		if !s.Applies(c) {
			continue
		}
		c.Locals(methodLocal, s.Method())

		id, err := s.UserID(c)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", services.ErrUnauthenticated, err)
		}
		if id == uuid.Nil {
			return nil, nil
		}

		user, err := r.users.CurrentUser(c.UserContext(), id)
		if err != nil {
			return nil, err
		}
		c.Locals(userLocal, user)
		return user, nil
	}
	return nil, nil
}

// User returns the resolved caller or nil.
func User(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userLocal).(*models.User)
	return user
}

// MethodOf reports which strategy identified the request.
func MethodOf(c *fiber.Ctx) Method {
	m, _ := c.Locals(methodLocal).(Method)
	return m
}

// TokenStrategy reads identity from an Authorization: Bearer header.
type TokenStrategy struct {
	parser TokenParser
}

func NewTokenStrategy(parser TokenParser) *TokenStrategy {
	return &TokenStrategy{parser: parser}
}

func (s *TokenStrategy) Method() Method { return MethodToken }

func (s *TokenStrategy) Applies(c *fiber.Ctx) bool {
	return BearerToken(c) != ""
}

func (s *TokenStrategy) UserID(c *fiber.Ctx) (uuid.UUID, error) {
	var (
		claims *services.Claims
		err    error
	)
	if token, ok := c.Locals(TokenLocal).(*jwt.Token); ok {
		claims, err = services.ClaimsFromToken(token)
	} else {
		claims, err = s.parser.ParseToken(BearerToken(c))
	}
	if err != nil {
		return uuid.Nil, err
	}
	return claims.UserID, nil
}

// SessionStrategy reads identity from the server-side session.
type SessionStrategy struct {
	store *session.Store
}

func NewSessionStrategy(store *session.Store) *SessionStrategy {
	return &SessionStrategy{store: store}
}

func (s *SessionStrategy) Method() Method { return MethodSession }

func (s *SessionStrategy) Applies(c *fiber.Ctx) bool {
	return c.Cookies(sessionkeys.CookieName) != ""
}

func (s *SessionStrategy) UserID(c *fiber.Ctx) (uuid.UUID, error) {
	sess, err := s.store.Get(c)
	if err != nil {
		return uuid.Nil, err
	}
	raw, ok := sess.Get(sessionkeys.UserIDKey).(string)
	if !ok || raw == "" {
		return uuid.Nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errors.New("malformed session user id")
	}
	return id, nil
}

// BearerToken returns the raw token of an Authorization: Bearer header.
func BearerToken(c *fiber.Ctx) string {
	auth := c.Get(fiber.HeaderAuthorization)
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
}
