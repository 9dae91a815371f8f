package repositories

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GormBlogRepository struct {
	db *gorm.DB
}

func NewBlogRepository(db *gorm.DB) *GormBlogRepository {
	return &GormBlogRepository{db: db}
}

func (r *GormBlogRepository) Create(ctx context.Context, blog *models.Blog) error {
	return translate(r.db.WithContext(ctx).Omit("Author").Create(blog).Error)
}

func (r *GormBlogRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Blog, error) {
	var blog models.Blog
	if err := r.db.WithContext(ctx).Preload("Author").First(&blog, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &blog, nil
}

func (r *GormBlogRepository) List(ctx context.Context, filter BlogFilter) ([]models.Blog, int64, error) {
	var blogs []models.Blog
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Blog{}).Scopes(filter.scope).Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	err := r.db.WithContext(ctx).
		Scopes(filter.scope).
		Preload("Author").
		Order("created_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&blogs).Error
	return blogs, total, translate(err)
}

func (f BlogFilter) scope(db *gorm.DB) *gorm.DB {
	if f.Status != "" {
		db = db.Where("status = ?", f.Status)
	}
	if f.AuthorID != nil {
		db = db.Where("author_id = ?", *f.AuthorID)
	}
	if !f.AllStatuses {
		if f.ViewerID != nil {
			db = db.Where("(status = ? OR author_id = ?)", models.StatusPublished, *f.ViewerID)
		} else {
			db = db.Where("status = ?", models.StatusPublished)
		}
	}
	return db
}

func (r *GormBlogRepository) Update(ctx context.Context, blog *models.Blog) error {
	result := r.db.WithContext(ctx).Model(blog).
		Select("title", "content", "excerpt", "status").
		Updates(blog)
	return translate(result.Error)
}

func (r *GormBlogRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Blog{})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormBlogRepository) IncrementLikes(ctx context.Context, id uuid.UUID) (int, error) {
	result := r.db.WithContext(ctx).Model(&models.Blog{}).
		Where("id = ?", id).
		UpdateColumn("likes_count", gorm.Expr("likes_count + ?", 1))
	if result.Error != nil {
		return 0, translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return 0, ErrNotFound
	}

	var likes int
	err := r.db.WithContext(ctx).Model(&models.Blog{}).
		Select("likes_count").
		Where("id = ?", id).
		Scan(&likes).Error
	return likes, translate(err)
}

func (r *GormBlogRepository) RecountComments(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).Exec(
		"UPDATE blogs SET comments_count = (SELECT COUNT(*) FROM comments WHERE comments.blog_id = blogs.id)",
	)
	return result.RowsAffected, translate(result.Error)
}
