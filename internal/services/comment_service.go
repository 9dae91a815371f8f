package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/dto"
	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/models"
	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/repositories"
	"github.com/google/uuid"
)

type CommentService struct {
	comments repositories.CommentRepository
	blogs    *BlogService
	filter   *ContentFilter
}

func NewCommentService(comments repositories.CommentRepository, blogs *BlogService, filter *ContentFilter) *CommentService {
	return &CommentService{comments: comments, blogs: blogs, filter: filter}
}

// List returns a blog's comments oldest first. The blog must be visible to viewer.
func (s *CommentService) List(ctx context.Context, viewer *models.User, blogID uuid.UUID) (*dto.CommentListResponse, error) {
	if _, err := s.blogs.Get(ctx, viewer, blogID); err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByBlog(ctx, blogID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	return &dto.CommentListResponse{Comments: comments, Total: len(comments)}, nil
}

func (s *CommentService) Create(ctx context.Context, actor *models.User, blogID uuid.UUID, req *dto.CommentRequest) (*models.Comment, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}
	content, err := s.content(req)
	if err != nil {
		return nil, err
	}
	if _, err := s.blogs.Get(ctx, actor, blogID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ID:       uuid.New(),
		Content:  content,
		BlogID:   blogID,
		AuthorID: actor.ID,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		if errors.Is(err, repositories.ErrNotFound) || errors.Is(err, repositories.ErrReference) {
			return nil, notFound("blog")
		}
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	comment.Author = actor
	return comment, nil
}

// Update edits the content of a comment; only its author may do so.
func (s *CommentService) Update(ctx context.Context, actor *models.User, id uuid.UUID, req *dto.CommentRequest) (*models.Comment, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}
	content, err := s.content(req)
	if err != nil {
		return nil, err
	}

	comment, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment.AuthorID != actor.ID {
		return nil, fmt.Errorf("%w: not the author of this comment", ErrForbidden)
	}

	comment.Content = content
	if err := s.comments.UpdateContent(ctx, comment); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFound("comment")
		}
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}
	return s.find(ctx, id)
}

// Delete removes a comment. Its author, editors and admins may do so.
func (s *CommentService) Delete(ctx context.Context, actor *models.User, id uuid.UUID) error {
	if actor == nil {
		return ErrUnauthenticated
	}
	comment, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if !actor.CanModify(comment.AuthorID) {
		return fmt.Errorf("%w: not the author of this comment", ErrForbidden)
	}
	if err := s.comments.Delete(ctx, comment); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return notFound("comment")
		}
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}

func (s *CommentService) find(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	comment, err := s.comments.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, notFound("comment")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load comment: %w", err)
	}
	return comment, nil
}

func (s *CommentService) content(req *dto.CommentRequest) (string, error) {
	if err := Validate(req); err != nil {
		return "", err
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return "", invalid("content is required")
	}
	if err := s.filter.Check(content); err != nil {
		return "", err
	}
	return content, nil
}
