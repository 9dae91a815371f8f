package dto

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/models"
)

type TokenResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin editor general"`
}

type UserListResponse struct {
	Users  []models.User `json:"users"`
	Total  int64         `json:"total"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	Status      string `json:"status"`
	TimeStamp   string `json:"timeStamp"`
	Environment string `json:"environment"`
}

type ReadinessResponse struct {
	Status string `json:"status"`
	DB     string `json:"db"`
}
