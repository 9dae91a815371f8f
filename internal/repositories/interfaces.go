package repositories

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/models"
	"github.com/google/uuid"
)

type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByGoogleID(ctx context.Context, googleID string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	// UpdateProfile writes email, name and avatar_url.
	UpdateProfile(ctx context.Context, user *models.User) error
	UpdateRole(ctx context.Context, id uuid.UUID, role models.Role) error
	List(ctx context.Context, limit, offset int) ([]models.User, int64, error)
	// Delete removes the user; blogs and comments go with it.
	Delete(ctx context.Context, id uuid.UUID) error
}

// BlogFilter narrows a blog listing. Unless AllStatuses is set, only
// published blogs are returned, plus any non-published ones owned by ViewerID.
type BlogFilter struct {
	Status      models.BlogStatus
	AuthorID    *uuid.UUID
	ViewerID    *uuid.UUID
	AllStatuses bool
	Limit       int
	Offset      int
}

type BlogRepository interface {
	Create(ctx context.Context, blog *models.Blog) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Blog, error)
	List(ctx context.Context, filter BlogFilter) ([]models.Blog, int64, error)
	// Update writes title, content, excerpt and status.
	Update(ctx context.Context, blog *models.Blog) error
	Delete(ctx context.Context, id uuid.UUID) error
	// IncrementLikes bumps likes_count in a single statement and returns the new value.
	IncrementLikes(ctx context.Context, id uuid.UUID) (int, error)
	// RecountComments recomputes comments_count from the comments table.
	RecountComments(ctx context.Context) (int64, error)
}

type CommentRepository interface {
	// Create inserts the comment and bumps the parent's comments_count atomically.
	Create(ctx context.Context, comment *models.Comment) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	ListByBlog(ctx context.Context, blogID uuid.UUID) ([]models.Comment, error)
	UpdateContent(ctx context.Context, comment *models.Comment) error
	// Delete removes the comment and decrements the parent's comments_count atomically.
	Delete(ctx context.Context, comment *models.Comment) error
}

var (
	_ UserRepository    = (*GormUserRepository)(nil)
	_ BlogRepository    = (*GormBlogRepository)(nil)
	_ CommentRepository = (*GormCommentRepository)(nil)
)
