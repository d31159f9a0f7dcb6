// internal/posts/repository_test.go
package posts

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepository(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(sqlx.NewDb(db, "postgres")), mock
}

func expectPostExists(mock sqlmock.Sqlmock, postID int64) {
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(postID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
}

func TestToggleLikeUnlikeDecrementsCounter(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectBegin()
	expectPostExists(mock, 42)
	mock.ExpectExec("INSERT INTO post_likes").
		WithArgs(int64(42), int64(7), "like").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM post_likes").
		WithArgs(int64(42), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE posts SET like_count").
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	liked, err := repo.ToggleLike(context.Background(), 42, 7, "like")
	require.NoError(t, err)
	assert.False(t, liked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// When a concurrent request already removed the like row, the counter must
// not be decremented a second time. The ordered expectations here end at the
// commit: any UPDATE issued after the zero-row DELETE fails the test.
func TestToggleLikeSkipsDecrementWhenRowAlreadyGone(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectBegin()
	expectPostExists(mock, 42)
	mock.ExpectExec("INSERT INTO post_likes").
		WithArgs(int64(42), int64(7), "like").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM post_likes").
		WithArgs(int64(42), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	liked, err := repo.ToggleLike(context.Background(), 42, 7, "like")
	require.NoError(t, err)
	assert.False(t, liked)
	assert.NoError(t, mock.ExpectationsWereMet())
}
