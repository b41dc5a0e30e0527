package users

import (
	"context"
	"errors"
)

// ErrNotFound is returned by repositories when no user matches the lookup.
var ErrNotFound = errors.New("user not found")

// Repo is the user store contract. GetByUsername is the only call the
// session authenticator makes; the remaining operations exist for the
// management surface that owns the records.
type Repo interface {
	// GetByUsername resolves a username to its user record.
	GetByUsername(ctx context.Context, username string) (*User, error)

	// GetByID resolves a numeric user id to its user record.
	GetByID(ctx context.Context, id int64) (*User, error)

	// Upsert creates or updates a user. A zero ID means create; the
	// assigned ID is written back to the passed user.
	Upsert(ctx context.Context, user *User) error

	// Delete removes a user by username.
	Delete(ctx context.Context, username string) error

	// List returns users ordered by id.
	List(ctx context.Context, offset, limit int) ([]*User, error)

	// SetStatus flips the active/inactive flag on an account.
	SetStatus(ctx context.Context, username string, status StatusType) error
}
