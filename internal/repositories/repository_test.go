package repositories

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/database"
	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/models"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := database.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}))
	require.NoError(t, err)
	return db, mock
}

func TestTranslate(t *testing.T) {
	assert.Nil(t, translate(nil))
	assert.ErrorIs(t, translate(gorm.ErrRecordNotFound), ErrNotFound)
	assert.ErrorIs(t, translate(gorm.ErrDuplicatedKey), ErrDuplicate)
	assert.ErrorIs(t, translate(gorm.ErrForeignKeyViolated), ErrReference)

	dup := &mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry 'a@b.c' for key 'email'"}
	assert.ErrorIs(t, translate(fmt.Errorf("insert: %w", dup)), ErrDuplicate)

	fk := &mysqldriver.MySQLError{Number: 1452, Message: "Cannot add or update a child row"}
	assert.ErrorIs(t, translate(fk), ErrReference)

	other := errors.New("connection refused")
	assert.Equal(t, other, translate(other))
}

func TestIncrementLikesIsSingleStatement(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBlogRepository(db)
	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE `blogs` SET `likes_count`=likes_count + ?")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT .*likes_count.* FROM `blogs`").
		WillReturnRows(sqlmock.NewRows([]string{"likes_count"}).AddRow(7))

	likes, err := repo.IncrementLikes(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 7, likes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIncrementLikesMissingBlog(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBlogRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE `blogs` SET `likes_count`=likes_count + ?")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := repo.IncrementLikes(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteBlogMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBlogRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `blogs` WHERE id = ?")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateCommentBumpsCounterInTransaction(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCommentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `comments`")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `blogs` SET `comments_count`=comments_count + ?")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	comment := &models.Comment{ID: uuid.New(), Content: "nice", BlogID: uuid.New(), AuthorID: uuid.New()}
	require.NoError(t, repo.Create(context.Background(), comment))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateCommentRollsBackWhenBlogVanished(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCommentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `comments`")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `blogs` SET `comments_count`=comments_count + ?")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	comment := &models.Comment{ID: uuid.New(), Content: "nice", BlogID: uuid.New(), AuthorID: uuid.New()}
	err := repo.Create(context.Background(), comment)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteCommentDecrementsCounter(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCommentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `comments` WHERE id = ?")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `blogs` SET `comments_count`=comments_count - ?")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	comment := &models.Comment{ID: uuid.New(), BlogID: uuid.New()}
	require.NoError(t, repo.Delete(context.Background(), comment))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteUserSettlesCountersFirst(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE blogs\nJOIN (SELECT blog_id, COUNT(*) AS n FROM comments WHERE author_id = ?")).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `users` WHERE id = ?")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), uuid.New()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
