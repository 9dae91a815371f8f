package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/dto"
	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/models"
	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/repositories"
	"github.com/google/uuid"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	excerptLength   = 200
)

type BlogService struct {
	blogs  repositories.BlogRepository
	filter *ContentFilter
}

func NewBlogService(blogs repositories.BlogRepository, filter *ContentFilter) *BlogService {
	return &BlogService{blogs: blogs, filter: filter}
}

// List returns published blogs to everyone, the viewer's own blogs in any
// status, and every blog to admins and editors.
func (s *BlogService) List(ctx context.Context, viewer *models.User, q dto.BlogListQuery) (*dto.BlogListResponse, error) {
	limit, offset := Page(q.Limit, q.Offset)
	filter := repositories.BlogFilter{Limit: limit, Offset: offset}

	if q.Status != "" {
		status := models.BlogStatus(q.Status)
		if !status.Valid() {
			return nil, invalid("status must be one of: draft, published, archived")
		}
		filter.Status = status
	}
	if q.AuthorID != "" {
		authorID, err := uuid.Parse(q.AuthorID)
		if err != nil {
			return nil, invalid("author_id must be a UUID")
		}
		filter.AuthorID = &authorID
	}
	if viewer != nil {
		filter.ViewerID = &viewer.ID
		filter.AllStatuses = viewer.Role.Elevated()
	}

	blogs, total, err := s.blogs.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list blogs: %w", err)
	}
	if blogs == nil {
		blogs = []models.Blog{}
	}
	return &dto.BlogListResponse{Blogs: blogs, Total: total, Limit: limit, Offset: offset}, nil
}

// Get returns the blog if viewer may see it. Hidden blogs are reported as
// missing so their existence is not leaked.
func (s *BlogService) Get(ctx context.Context, viewer *models.User, id uuid.UUID) (*models.Blog, error) {
	blog, err := s.blogs.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, notFound("blog")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load blog: %w", err)
	}
	if !blog.VisibleTo(viewer) {
		return nil, notFound("blog")
	}
	return blog, nil
}

func (s *BlogService) Create(ctx context.Context, actor *models.User, req *dto.CreateBlogRequest) (*models.Blog, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}
	if err := Validate(req); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	content := strings.TrimSpace(req.Content)
	if title == "" {
		return nil, invalid("title is required")
	}
	if content == "" {
		return nil, invalid("content is required")
	}
	if err := s.filter.Check(title, content, req.Excerpt); err != nil {
		return nil, err
	}

	status := models.StatusDraft
	if req.Status != "" {
		status = models.BlogStatus(req.Status)
	}
	if status == models.StatusPublished && !actor.Role.Elevated() {
		return nil, fmt.Errorf("%w: only editors and admins can publish", ErrForbidden)
	}

	excerpt := strings.TrimSpace(req.Excerpt)
	if excerpt == "" {
		excerpt = Excerpt(content)
	}

	blog := &models.Blog{
		ID:       uuid.New(),
		Title:    title,
		Content:  content,
		Excerpt:  excerpt,
		AuthorID: actor.ID,
		Status:   status,
	}
	if err := s.blogs.Create(ctx, blog); err != nil {
		if errors.Is(err, repositories.ErrReference) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("failed to create blog: %w", err)
	}
	return s.blogs.FindByID(ctx, blog.ID)
}

// Update applies the provided fields. The caller must own the blog or be an
// editor or admin; status changes must follow the transition table.
func (s *BlogService) Update(ctx context.Context, actor *models.User, id uuid.UUID, req *dto.UpdateBlogRequest) (*models.Blog, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}
	if err := Validate(req); err != nil {
		return nil, err
	}

	blog, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanModify(blog.AuthorID) {
		return nil, fmt.Errorf("%w: not the author of this blog", ErrForbidden)
	}

	derived := blog.Excerpt == Excerpt(blog.Content)

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, invalid("title must not be empty")
		}
		blog.Title = title
	}
	if req.Content != nil {
		content := strings.TrimSpace(*req.Content)
		if content == "" {
			return nil, invalid("content must not be empty")
		}
		blog.Content = content
		if req.Excerpt == nil && derived {
			blog.Excerpt = Excerpt(content)
		}
	}
	if req.Excerpt != nil {
		blog.Excerpt = strings.TrimSpace(*req.Excerpt)
		if blog.Excerpt == "" {
			blog.Excerpt = Excerpt(blog.Content)
		}
	}
	if req.Status != nil {
		to := models.BlogStatus(*req.Status)
		if !to.Valid() {
			return nil, invalid("status must be one of: draft, published, archived")
		}
		if !blog.CanTransition(actor, to) {
			return nil, fmt.Errorf("%w: cannot move blog from %s to %s", ErrForbidden, blog.Status, to)
		}
		blog.Status = to
	}

	if err := s.filter.Check(blog.Title, blog.Content, blog.Excerpt); err != nil {
		return nil, err
	}

	if err := s.blogs.Update(ctx, blog); err != nil {
		return nil, fmt.Errorf("failed to update blog: %w", err)
	}
	return s.blogs.FindByID(ctx, blog.ID)
}

func (s *BlogService) Delete(ctx context.Context, actor *models.User, id uuid.UUID) error {
	if actor == nil {
		return ErrUnauthenticated
	}
	blog, err := s.Get(ctx, actor, id)
	if err != nil {
		return err
	}
	if !actor.CanModify(blog.AuthorID) {
		return fmt.Errorf("%w: not the author of this blog", ErrForbidden)
	}
	if err := s.blogs.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return notFound("blog")
		}
		return fmt.Errorf("failed to delete blog: %w", err)
	}
	return nil
}

// Like increments likes_count on a blog the actor can see.
func (s *BlogService) Like(ctx context.Context, actor *models.User, id uuid.UUID) (*dto.LikeResponse, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}
	if _, err := s.Get(ctx, actor, id); err != nil {
		return nil, err
	}
	likes, err := s.blogs.IncrementLikes(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, notFound("blog")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to like blog: %w", err)
	}
	return &dto.LikeResponse{ID: id.String(), LikesCount: likes}, nil
}

// RecountComments rebuilds comments_count for every blog from the comments table.
func (s *BlogService) RecountComments(ctx context.Context) (*dto.RecountResponse, error) {
	updated, err := s.blogs.RecountComments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to recount comments: %w", err)
	}
	return &dto.RecountResponse{Updated: updated}, nil
}

// Excerpt returns the first 200 characters of content.
func Excerpt(content string) string {
	content = strings.TrimSpace(content)
	if utf8.RuneCountInString(content) <= excerptLength {
		return content
	}
	runes := []rune(content)
	return strings.TrimSpace(string(runes[:excerptLength]))
}

// Page clamps limit and offset to sane bounds.
func Page(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
