package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jrsteele09/go-library-server/users"
)

var _ users.Repo = (*Repo)(nil)

// Repo is the Postgres-backed user store over the USERS table.
type Repo struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const userColumns = "user_id, username, user_password, full_name, email, user_role, is_active"

func scanUser(row pgx.Row) (*users.User, error) {
	u := &users.User{}
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.FullName, &u.Email, &u.Role, &u.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, users.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

func (r *Repo) GetByUsername(ctx context.Context, username string) (*users.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return scanUser(r.pool.QueryRow(ctx, query, username))
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*users.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1`
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *Repo) Upsert(ctx context.Context, user *users.User) error {
	if user.ID == 0 {
		query := `INSERT INTO users (username, user_password, full_name, email, user_role, is_active)
		          VALUES ($1, $2, $3, $4, $5, $6)
		          RETURNING user_id`
		err := r.pool.QueryRow(ctx, query,
			user.Username, user.PasswordHash, user.FullName, user.Email, user.Role, user.Status).Scan(&user.ID)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		return nil
	}

	query := `UPDATE users
	          SET username = $2, user_password = $3, full_name = $4, email = $5, user_role = $6, is_active = $7
	          WHERE user_id = $1`
	tag, err := r.pool.Exec(ctx, query,
		user.ID, user.Username, user.PasswordHash, user.FullName, user.Email, user.Role, user.Status)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return users.ErrNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, username string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE username = $1`, username)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return users.ErrNotFound
	}
	return nil
}

func (r *Repo) List(ctx context.Context, offset, limit int) ([]*users.User, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	query := `SELECT ` + userColumns + ` FROM users ORDER BY user_id LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := make([]*users.User, 0)
	for rows.Next() {
		u := &users.User{}
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.FullName, &u.Email, &u.Role, &u.Status); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *Repo) SetStatus(ctx context.Context, username string, status users.StatusType) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET is_active = $1 WHERE username = $2`, status, username)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return users.ErrNotFound
	}
	return nil
}
