package sessions

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a token has no tracked session.
	ErrNotFound = errors.New("session not found")

	// ErrExpired is returned by Touch after it has evicted an entry whose
	// last activity fell past the cutoff.
	ErrExpired = errors.New("session expired")
)

// Repo is the session table contract.
//
// Touch is deliberately a single composite operation: the expiry decision,
// the eviction and the last-activity refresh race against concurrent
// verifications and logouts, so implementations must perform the whole
// check-then-refresh-or-evict inside one critical section.
type Repo interface {
	// Insert adds a session under the given token.
	Insert(ctx context.Context, token string, session Session) error

	// Get retrieves a session without refreshing it and without any
	// expiry check.
	Get(ctx context.Context, token string) (Session, error)

	// Delete removes a session. ErrNotFound if the token is untracked.
	Delete(ctx context.Context, token string) error

	// Touch refreshes LastActivity to now if the session's last activity
	// is not older than cutoff, and returns the refreshed session.
	// If the last activity predates cutoff the entry is evicted and
	// ErrExpired is returned. ErrNotFound if the token is untracked.
	Touch(ctx context.Context, token string, now, cutoff time.Time) (Session, error)

	// DeleteExpired evicts every session whose last activity predates
	// cutoff and reports how many were removed.
	DeleteExpired(ctx context.Context, cutoff time.Time) (int, error)
}
