package dto

import "github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/models"

type CommentRequest struct {
	Content string `json:"content" validate:"required,max=5000"`
}

type CommentListResponse struct {
	Comments []models.Comment `json:"comments"`
	Total    int              `json:"total"`
}
