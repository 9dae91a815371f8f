package repositories

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GormCommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *GormCommentRepository {
	return &GormCommentRepository{db: db}
}

func (r *GormCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Author", "Blog").Create(comment).Error; err != nil {
			return err
		}
		result := tx.Model(&models.Blog{}).
			Where("id = ?", comment.BlogID).
			UpdateColumn("comments_count", gorm.Expr("comments_count + ?", 1))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	return translate(err)
}

func (r *GormCommentRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Preload("Author").First(&comment, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &comment, nil
}

func (r *GormCommentRepository) ListByBlog(ctx context.Context, blogID uuid.UUID) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("blog_id = ?", blogID).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, translate(err)
}

func (r *GormCommentRepository) UpdateContent(ctx context.Context, comment *models.Comment) error {
	result := r.db.WithContext(ctx).Model(comment).Select("content").Updates(comment)
	return translate(result.Error)
}

func (r *GormCommentRepository) Delete(ctx context.Context, comment *models.Comment) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ?", comment.ID).Delete(&models.Comment{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Model(&models.Blog{}).
			Where("id = ? AND comments_count > 0", comment.BlogID).
			UpdateColumn("comments_count", gorm.Expr("comments_count - ?", 1)).Error
	})
	return translate(err)
}
