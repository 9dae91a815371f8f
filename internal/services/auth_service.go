package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/config"
	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/dto"
	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/models"
	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/repositories"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the identity carried by a signed token.
type Claims struct {
	UserID uuid.UUID
	Email  string
	Role   models.Role
}

type AuthService struct {
	users       repositories.UserRepository
	cfg         *config.Config
	adminEmails []string
	now         func() time.Time
}

func NewAuthService(users repositories.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		users:       users,
		cfg:         cfg,
		adminEmails: parseCSV(cfg.AdminEmails),
		now:         time.Now,
	}
}

// LoginWithGoogle creates the user on first login and refreshes email, name
// and avatar on later ones. Users whose email is in ADMIN_EMAILS start as admin.
func (s *AuthService) LoginWithGoogle(ctx context.Context, profile *GoogleProfile) (*models.User, error) {
	if profile == nil || profile.ID == "" || strings.TrimSpace(profile.Email) == "" {
		return nil, invalid("google profile is missing id or email")
	}

	name := strings.TrimSpace(profile.Name)
	if name == "" {
		name = strings.Split(profile.Email, "@")[0]
	}
	var avatar *string
	if profile.Picture != "" {
		avatar = &profile.Picture
	}

	user, err := s.users.FindByGoogleID(ctx, profile.ID)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		role := models.RoleGeneral
		if contains(s.adminEmails, profile.Email) {
			role = models.RoleAdmin
		}
		user = &models.User{
			ID:        uuid.New(),
			Email:     profile.Email,
			Name:      name,
			AvatarURL: avatar,
			Role:      role,
			GoogleID:  profile.ID,
		}
		if err := s.users.Create(ctx, user); err != nil {
			if errors.Is(err, repositories.ErrDuplicate) {
				return nil, fmt.Errorf("%w: email %s is linked to another account", ErrConflict, profile.Email)
			}
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		slog.Info("user created", "user_id", user.ID, "role", user.Role)
	case err != nil:
		return nil, fmt.Errorf("failed to look up user: %w", err)
	default:
		user.Email = profile.Email
		user.Name = name
		user.AvatarURL = avatar
		if err := s.users.UpdateProfile(ctx, user); err != nil {
			if errors.Is(err, repositories.ErrDuplicate) {
				return nil, fmt.Errorf("%w: email %s is linked to another account", ErrConflict, profile.Email)
			}
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
	}

	return s.users.FindByID(ctx, user.ID)
}

// CurrentUser loads the user behind a resolved identity.
func (s *AuthService) CurrentUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// IssueToken signs an HS256 token carrying the user's id, email and role.
func (s *AuthService) IssueToken(user *models.User) (*dto.TokenResponse, error) {
	now := s.now()
	expiresAt := now.Add(s.cfg.JWTExpiry)
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"role":  string(user.Role),
		"iat":   now.Unix(),
		"exp":   expiresAt.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &dto.TokenResponse{Token: signed, ExpiresAt: expiresAt.UTC(), User: user}, nil
}

// ParseToken verifies signature and expiry and extracts the claims.
func (s *AuthService) ParseToken(raw string) (*Claims, error) {
	token, err := jwt.Parse(raw, s.Keyfunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return ClaimsFromToken(token)
}

// Keyfunc returns the HMAC signing key; shared with the bearer token middleware.
func (s *AuthService) Keyfunc(*jwt.Token) (any, error) {
	return []byte(s.cfg.JWTSecret), nil
}

// ClaimsFromToken reads sub, email and role from an already verified token.
func ClaimsFromToken(token *jwt.Token) (*Claims, error) {
	if token == nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	sub, _ := mapClaims["sub"].(string)
	id, err := uuid.Parse(sub)
	if err != nil {
		return nil, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	email, _ := mapClaims["email"].(string)
	role, _ := mapClaims["role"].(string)
	return &Claims{UserID: id, Email: email, Role: models.Role(role)}, nil
}

func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, strings.ToLower(trimmed))
		}
	}
	return result
}

func contains(list []string, email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, v := range list {
		if v == email {
			return true
		}
	}
	return false
}
