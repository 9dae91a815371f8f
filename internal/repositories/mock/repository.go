// Package mock provides in-memory repositories that honour the same
// uniqueness, foreign key and cascade rules as the MySQL schema.
package mock

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/models"
	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/repositories"
	"github.com/google/uuid"
)

// Store holds all three tables behind one lock so cascades stay consistent.
type Store struct {
	mu       sync.RWMutex
	users    map[uuid.UUID]models.User
	blogs    map[uuid.UUID]models.Blog
	comments map[uuid.UUID]models.Comment
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:    make(map[uuid.UUID]models.User),
		blogs:    make(map[uuid.UUID]models.Blog),
		comments: make(map[uuid.UUID]models.Comment),
		now:      time.Now,
	}
}

func (s *Store) Users() *UserRepository       { return &UserRepository{s: s} }
func (s *Store) Blogs() *BlogRepository       { return &BlogRepository{s: s} }
func (s *Store) Comments() *CommentRepository { return &CommentRepository{s: s} }

// Counts returns the number of rows in each table.
func (s *Store) Counts() (users, blogs, comments int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users), len(s.blogs), len(s.comments)
}

func (s *Store) userRef(id uuid.UUID) *models.User {
	u, ok := s.users[id]
	if !ok {
		return nil
	}
	return &u
}

// UserRepository

type UserRepository struct{ s *Store }

func (r *UserRepository) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepository) FindByGoogleID(_ context.Context, googleID string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.GoogleID == googleID {
			return &u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *UserRepository) Create(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if _, ok := r.s.users[user.ID]; ok {
		return repositories.ErrDuplicate
	}
	if r.conflicts(user) {
		return repositories.ErrDuplicate
	}
	if user.Role == "" {
		user.Role = models.RoleGeneral
	}
	now := r.s.now()
	user.CreatedAt, user.UpdatedAt = now, now
	r.s.users[user.ID] = *user
	return nil
}

func (r *UserRepository) conflicts(user *models.User) bool {
	for id, u := range r.s.users {
		if id == user.ID {
			continue
		}
		if u.Email == user.Email || u.GoogleID == user.GoogleID {
			return true
		}
	}
	return false
}

func (r *UserRepository) UpdateProfile(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.users[user.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	if r.conflicts(user) {
		return repositories.ErrDuplicate
	}
	existing.Email = user.Email
	existing.Name = user.Name
	existing.AvatarURL = user.AvatarURL
	existing.UpdatedAt = r.s.now()
	r.s.users[user.ID] = existing
	*user = existing
	return nil
}

func (r *UserRepository) UpdateRole(_ context.Context, id uuid.UUID, role models.Role) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	u.Role = role
	u.UpdatedAt = r.s.now()
	r.s.users[id] = u
	return nil
}

func (r *UserRepository) List(_ context.Context, limit, offset int) ([]models.User, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	users := make([]models.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.After(users[j].CreatedAt) })
	return page(users, limit, offset), int64(len(users)), nil
}

func (r *UserRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.s.users, id)
	for blogID, b := range r.s.blogs {
		if b.AuthorID == id {
			r.s.deleteBlogLocked(blogID)
		}
	}
	for commentID, c := range r.s.comments {
		if c.AuthorID == id {
			r.s.deleteCommentLocked(commentID)
		}
	}
	return nil
}

// BlogRepository

type BlogRepository struct{ s *Store }

func (r *BlogRepository) Create(_ context.Context, blog *models.Blog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[blog.AuthorID]; !ok {
		return repositories.ErrReference
	}
	if blog.ID == uuid.Nil {
		blog.ID = uuid.New()
	}
	if blog.Status == "" {
		blog.Status = models.StatusDraft
	}
	now := r.s.now()
	blog.CreatedAt, blog.UpdatedAt = now, now
	stored := *blog
	stored.Author = nil
	r.s.blogs[blog.ID] = stored
	return nil
}

func (r *BlogRepository) FindByID(_ context.Context, id uuid.UUID) (*models.Blog, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	b, ok := r.s.blogs[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	b.Author = r.s.userRef(b.AuthorID)
	return &b, nil
}

func (r *BlogRepository) List(_ context.Context, f repositories.BlogFilter) ([]models.Blog, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var blogs []models.Blog
	for _, b := range r.s.blogs {
		if f.Status != "" && b.Status != f.Status {
			continue
		}
		if f.AuthorID != nil && b.AuthorID != *f.AuthorID {
			continue
		}
		if !f.AllStatuses && b.Status != models.StatusPublished {
			if f.ViewerID == nil || b.AuthorID != *f.ViewerID {
				continue
			}
		}
		b.Author = r.s.userRef(b.AuthorID)
		blogs = append(blogs, b)
	}
	sort.Slice(blogs, func(i, j int) bool { return blogs[i].CreatedAt.After(blogs[j].CreatedAt) })
	return page(blogs, f.Limit, f.Offset), int64(len(blogs)), nil
}

func (r *BlogRepository) Update(_ context.Context, blog *models.Blog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.blogs[blog.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	existing.Title = blog.Title
	existing.Content = blog.Content
	existing.Excerpt = blog.Excerpt
	existing.Status = blog.Status
	existing.UpdatedAt = r.s.now()
	r.s.blogs[blog.ID] = existing
	blog.UpdatedAt = existing.UpdatedAt
	return nil
}

func (r *BlogRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.blogs[id]; !ok {
		return repositories.ErrNotFound
	}
	r.s.deleteBlogLocked(id)
	return nil
}

func (s *Store) deleteBlogLocked(id uuid.UUID) {
	delete(s.blogs, id)
	for commentID, c := range s.comments {
		if c.BlogID == id {
			delete(s.comments, commentID)
		}
	}
}

func (s *Store) deleteCommentLocked(id uuid.UUID) {
	c, ok := s.comments[id]
	if !ok {
		return
	}
	delete(s.comments, id)
	if b, ok := s.blogs[c.BlogID]; ok && b.CommentsCount > 0 {
		b.CommentsCount--
		s.blogs[c.BlogID] = b
	}
}

func (r *BlogRepository) IncrementLikes(_ context.Context, id uuid.UUID) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.blogs[id]
	if !ok {
		return 0, repositories.ErrNotFound
	}
	b.LikesCount++
	r.s.blogs[id] = b
	return b.LikesCount, nil
}

func (r *BlogRepository) RecountComments(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	counts := make(map[uuid.UUID]int)
	for _, c := range r.s.comments {
		counts[c.BlogID]++
	}
	var updated int64
	for id, b := range r.s.blogs {
		if b.CommentsCount != counts[id] {
			b.CommentsCount = counts[id]
			r.s.blogs[id] = b
			updated++
		}
	}
	return updated, nil
}

// CommentRepository

type CommentRepository struct{ s *Store }

func (r *CommentRepository) Create(_ context.Context, comment *models.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.blogs[comment.BlogID]
	if !ok {
		return repositories.ErrReference
	}
	if _, ok := r.s.users[comment.AuthorID]; !ok {
		return repositories.ErrReference
	}
	if comment.ID == uuid.Nil {
		comment.ID = uuid.New()
	}
	now := r.s.now()
	comment.CreatedAt, comment.UpdatedAt = now, now
	stored := *comment
	stored.Author, stored.Blog = nil, nil
	r.s.comments[comment.ID] = stored
	b.CommentsCount++
	r.s.blogs[b.ID] = b
	return nil
}

func (r *CommentRepository) FindByID(_ context.Context, id uuid.UUID) (*models.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.comments[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	c.Author = r.s.userRef(c.AuthorID)
	return &c, nil
}

func (r *CommentRepository) ListByBlog(_ context.Context, blogID uuid.UUID) ([]models.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var comments []models.Comment
	for _, c := range r.s.comments {
		if c.BlogID == blogID {
			c.Author = r.s.userRef(c.AuthorID)
			comments = append(comments, c)
		}
	}
	sort.Slice(comments, func(i, j int) bool { return comments[i].CreatedAt.Before(comments[j].CreatedAt) })
	return comments, nil
}

func (r *CommentRepository) UpdateContent(_ context.Context, comment *models.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.comments[comment.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	existing.Content = comment.Content
	existing.UpdatedAt = r.s.now()
	r.s.comments[comment.ID] = existing
	comment.UpdatedAt = existing.UpdatedAt
	return nil
}

func (r *CommentRepository) Delete(_ context.Context, comment *models.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.comments[comment.ID]; !ok {
		return repositories.ErrNotFound
	}
	r.s.deleteCommentLocked(comment.ID)
	return nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

var (
	_ repositories.UserRepository    = (*UserRepository)(nil)
	_ repositories.BlogRepository    = (*BlogRepository)(nil)
	_ repositories.CommentRepository = (*CommentRepository)(nil)
)
