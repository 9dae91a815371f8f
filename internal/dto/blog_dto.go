package dto

import "github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/models"

type CreateBlogRequest struct {
	Title   string `json:"title" validate:"required,max=500"`
	Content string `json:"content" validate:"required"`
	Excerpt string `json:"excerpt" validate:"max=2000"`
	Status  string `json:"status" validate:"omitempty,oneof=draft published archived"`
}

type UpdateBlogRequest struct {
	Title   *string `json:"title" validate:"omitempty,min=1,max=500"`
	Content *string `json:"content" validate:"omitempty,min=1"`
	Excerpt *string `json:"excerpt" validate:"omitempty,max=2000"`
	Status  *string `json:"status" validate:"omitempty,oneof=draft published archived"`
}

type BlogListResponse struct {
	Blogs  []models.Blog `json:"blogs"`
	Total  int64         `json:"total"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}

type LikeResponse struct {
	ID         string `json:"id"`
	LikesCount int    `json:"likes_count"`
}

type RecountResponse struct {
	Updated int64 `json:"updated"`
}

// BlogListQuery is parsed from the query string of GET /api/blogs.
type BlogListQuery struct {
	Status   string `query:"status"`
	AuthorID string `query:"author_id"`
	Limit    int    `query:"limit"`
	Offset   int    `query:"offset"`
}
