package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNoRows is returned by the repository when no user matches the id.
var ErrNoRows = errors.New("user not found")

// DBTX is the subset of *pgxpool.Pool the repository needs.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

type Repo struct{ DB DBTX }

func NewRepo(db DBTX) *Repo { return &Repo{DB: db} }

func (r *Repo) Insert(ctx context.Context, name, email string) (int64, error) {
	var id int64
	err := r.DB.QueryRow(ctx,
		`INSERT INTO users(name, email) VALUES ($1, $2) RETURNING id`,
		name, email,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert user: %w", err)
	}
	return id, nil
}

func (r *Repo) List(ctx context.Context) ([]User, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, name, email, created_at, updated_at FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	out := []User{}
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *Repo) FindByID(ctx context.Context, id int64) (User, error) {
	var u User
	err := r.DB.QueryRow(ctx,
		`SELECT id, name, email, created_at, updated_at FROM users WHERE id=$1`, id,
	).Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNoRows
	}
	if err != nil {
		return User{}, fmt.Errorf("find user %d: %w", id, err)
	}
	return u, nil
}

// UpdateTx locks the row, overwrites name and email and returns the stored user.
func (r *Repo) UpdateTx(ctx context.Context, id int64, name, email string) (User, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return User{}, fmt.Errorf("begin: %w", err)
	}

	var u User
	err = tx.QueryRow(ctx, `SELECT id FROM users WHERE id=$1 FOR UPDATE`, id).Scan(&u.ID)
	if err != nil {
		_ = tx.Rollback(ctx)
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrNoRows
		}
		return User{}, fmt.Errorf("lock user %d: %w", id, err)
	}

	err = tx.QueryRow(ctx, `
		UPDATE users SET name=$2, email=$3, updated_at=now()
		WHERE id=$1
		RETURNING id, name, email, created_at, updated_at`,
		id, name, email,
	).Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		_ = tx.Rollback(ctx)
		return User{}, fmt.Errorf("update user %d: %w", id, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return User{}, fmt.Errorf("commit: %w", err)
	}
	return u, nil
}

func (r *Repo) DeleteTx(ctx context.Context, id int64) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	ct, err := tx.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		_ = tx.Rollback(ctx)
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	if ct.RowsAffected() == 0 {
		_ = tx.Rollback(ctx)
		return ErrNoRows
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// IsConflict reports unique violations and serialization failures.
func IsConflict(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case "23505", "40001", "40P01":
		return true
	}
	return false
}
