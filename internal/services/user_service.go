package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/dto"
	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/models"
	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/repositories"
	"github.com/google/uuid"
)

// UserService backs the admin user-management routes.
type UserService struct {
	users repositories.UserRepository
}

func NewUserService(users repositories.UserRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) List(ctx context.Context, limit, offset int) (*dto.UserListResponse, error) {
	limit, offset = Page(limit, offset)
	users, total, err := s.users.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	if users == nil {
		users = []models.User{}
	}
	return &dto.UserListResponse{Users: users, Total: total, Limit: limit, Offset: offset}, nil
}

func (s *UserService) UpdateRole(ctx context.Context, actor *models.User, id uuid.UUID, req *dto.UpdateRoleRequest) (*models.User, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}
	if actor != nil && actor.ID == id {
		return nil, invalid("cannot change your own role")
	}

	role := models.Role(req.Role)
	if err := s.users.UpdateRole(ctx, id, role); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFound("user")
		}
		return nil, fmt.Errorf("failed to update role: %w", err)
	}
	slog.Info("user role changed", "user_id", id, "role", role, "by", actorID(actor))

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload user: %w", err)
	}
	return user, nil
}

// Delete removes a user together with their blogs and comments.
func (s *UserService) Delete(ctx context.Context, actor *models.User, id uuid.UUID) error {
	if actor != nil && actor.ID == id {
		return invalid("cannot delete your own account")
	}
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return notFound("user")
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}
	slog.Info("user deleted", "user_id", id, "by", actorID(actor))
	return nil
}

func actorID(actor *models.User) string {
	if actor == nil {
		return ""
	}
	return actor.ID.String()
}
