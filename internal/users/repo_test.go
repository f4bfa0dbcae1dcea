package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userCols = []string{"id", "name", "email", "created_at", "updated_at"}

func newMockRepo(t *testing.T) (*Repo, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewRepo(mock), mock
}

func TestRepo_Insert(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`INSERT INTO users\(name, email\) VALUES \(\$1, \$2\) RETURNING id`).
		WithArgs("A", "a@x.com").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(1)))

	id, err := repo.Insert(context.Background(), "A", "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepo_List(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()
	mock.ExpectQuery(`SELECT id, name, email, created_at, updated_at FROM users ORDER BY id`).
		WillReturnRows(pgxmock.NewRows(userCols).
			AddRow(int64(1), "A", "a@x.com", now, now).
			AddRow(int64(2), "B", "b@x.com", now, now))

	us, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, us, 2)
	assert.Equal(t, "B", us[1].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepo_FindByID_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`FROM users WHERE id=\$1`).
		WithArgs(int64(42)).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.FindByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepo_UpdateTx_Success(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM users WHERE id=\$1 FOR UPDATE`).
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectQuery(`UPDATE users SET name=\$2, email=\$3`).
		WithArgs(int64(1), "B", "b@x.com").
		WillReturnRows(pgxmock.NewRows(userCols).AddRow(int64(1), "B", "b@x.com", now, now))
	mock.ExpectCommit()

	u, err := repo.UpdateTx(context.Background(), 1, "B", "b@x.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)
	assert.Equal(t, "B", u.Name)
	assert.Equal(t, "b@x.com", u.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepo_UpdateTx_MissingRollsBack(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM users WHERE id=\$1 FOR UPDATE`).
		WithArgs(int64(9)).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.UpdateTx(context.Background(), 9, "B", "b@x.com")
	assert.ErrorIs(t, err, ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepo_DeleteTx(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM users WHERE id=\$1`).
		WithArgs(int64(1)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()

	require.NoError(t, repo.DeleteTx(context.Background(), 1))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepo_DeleteTx_Missing(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM users WHERE id=\$1`).
		WithArgs(int64(5)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectRollback()

	err := repo.DeleteTx(context.Background(), 5)
	assert.ErrorIs(t, err, ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsConflict(t *testing.T) {
	assert.True(t, IsConflict(&pgconn.PgError{Code: "23505"}))
	assert.True(t, IsConflict(errors.Join(errors.New("ctx"), &pgconn.PgError{Code: "40001"})))
	assert.False(t, IsConflict(&pgconn.PgError{Code: "42P01"}))
	assert.False(t, IsConflict(errors.New("plain")))
}
