package services

import (
	"context"
	"testing"

	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/dto"
	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserServiceUpdateRole(t *testing.T) {
	f := newFixture(t)
	svc := NewUserService(f.store.Users())
	admin := f.user(t, "admin", models.RoleAdmin)
	ctx := context.Background()

	user, err := svc.UpdateRole(ctx, admin, f.owner.ID, &dto.UpdateRoleRequest{Role: "editor"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleEditor, user.Role)

	_, err = svc.UpdateRole(ctx, admin, f.owner.ID, &dto.UpdateRoleRequest{Role: "owner"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.UpdateRole(ctx, admin, admin.ID, &dto.UpdateRoleRequest{Role: "general"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.UpdateRole(ctx, admin, uuid.New(), &dto.UpdateRoleRequest{Role: "general"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserServiceDeleteCascades(t *testing.T) {
	f := newFixture(t)
	svc := NewUserService(f.store.Users())
	admin := f.user(t, "admin", models.RoleAdmin)
	ctx := context.Background()

	own := f.blog(t, f.owner, models.StatusPublished)
	other := f.blog(t, f.stranger, models.StatusPublished)
	_, err := f.comments.Create(ctx, f.stranger, own.ID, &dto.CommentRequest{Content: "on owner's blog"})
	require.NoError(t, err)
	_, err = f.comments.Create(ctx, f.owner, other.ID, &dto.CommentRequest{Content: "by owner elsewhere"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, admin, f.owner.ID))

	users, blogs, comments := f.store.Counts()
	assert.Equal(t, 3, users)
	assert.Equal(t, 1, blogs)
	assert.Zero(t, comments)

	survivor, err := f.blogs.Get(ctx, nil, other.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, survivor.CommentsCount)

	assert.ErrorIs(t, svc.Delete(ctx, admin, admin.ID), ErrValidation)
	assert.ErrorIs(t, svc.Delete(ctx, admin, f.owner.ID), ErrNotFound)
}

func TestUserServiceList(t *testing.T) {
	f := newFixture(t)
	svc := NewUserService(f.store.Users())

	resp, err := svc.List(context.Background(), 2, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 3, resp.Total)
	assert.Len(t, resp.Users, 2)
}
