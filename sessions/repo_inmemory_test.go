package sessions_test

import (
	"context"
	"testing"
	"time"

	"github.com/jrsteele09/go-library-server/sessions"
	"github.com/jrsteele09/go-library-server/users"
	"github.com/stretchr/testify/require"
)

func newSession(lastActivity time.Time) sessions.Session {
	return sessions.Session{
		UserID:       3,
		Username:     "reader",
		Role:         users.RoleMember,
		LoginTime:    lastActivity,
		LastActivity: lastActivity,
	}
}

func TestInMemoryRepoLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := sessions.NewInMemoryRepo()
	now := time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Insert(ctx, "tok-1", newSession(now)))

	got, err := repo.Get(ctx, "tok-1")
	require.NoError(t, err)
	require.Equal(t, int64(3), got.UserID)
	require.Equal(t, users.RoleMember, got.Role)

	require.NoError(t, repo.Delete(ctx, "tok-1"))
	_, err = repo.Get(ctx, "tok-1")
	require.ErrorIs(t, err, sessions.ErrNotFound)
	require.ErrorIs(t, repo.Delete(ctx, "tok-1"), sessions.ErrNotFound)
}

func TestInMemoryRepoTouch(t *testing.T) {
	ctx := context.Background()
	repo := sessions.NewInMemoryRepo()
	start := time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Insert(ctx, "tok-1", newSession(start)))

	// Fresh entry gets refreshed.
	later := start.Add(10 * time.Minute)
	got, err := repo.Touch(ctx, "tok-1", later, later.Add(-30*time.Minute))
	require.NoError(t, err)
	require.Equal(t, later, got.LastActivity)

	// Stored entry carries the refreshed timestamp.
	stored, err := repo.Get(ctx, "tok-1")
	require.NoError(t, err)
	require.Equal(t, later, stored.LastActivity)

	// Get does not refresh anything.
	_, err = repo.Get(ctx, "tok-1")
	require.NoError(t, err)
	stored, err = repo.Get(ctx, "tok-1")
	require.NoError(t, err)
	require.Equal(t, later, stored.LastActivity)

	// Past the cutoff the entry is evicted in the same call.
	farFuture := later.Add(2 * time.Hour)
	_, err = repo.Touch(ctx, "tok-1", farFuture, farFuture.Add(-30*time.Minute))
	require.ErrorIs(t, err, sessions.ErrExpired)
	_, err = repo.Touch(ctx, "tok-1", farFuture, farFuture.Add(-30*time.Minute))
	require.ErrorIs(t, err, sessions.ErrNotFound)
}

func TestInMemoryRepoDeleteExpired(t *testing.T) {
	ctx := context.Background()
	repo := sessions.NewInMemoryRepo()
	base := time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Insert(ctx, "stale-1", newSession(base)))
	require.NoError(t, repo.Insert(ctx, "stale-2", newSession(base.Add(5*time.Minute))))
	require.NoError(t, repo.Insert(ctx, "fresh", newSession(base.Add(1*time.Hour))))

	removed, err := repo.DeleteExpired(ctx, base.Add(30*time.Minute))
	require.NoError(t, err)
	require.Equal(t, 2, removed)
	require.Equal(t, 1, repo.Len())

	_, err = repo.Get(ctx, "fresh")
	require.NoError(t, err)
}

func TestSweeperEvictsIdleSessions(t *testing.T) {
	ctx := context.Background()
	repo := sessions.NewInMemoryRepo()
	base := time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Insert(ctx, "stale", newSession(base)))
	require.NoError(t, repo.Insert(ctx, "fresh", newSession(base.Add(50*time.Minute))))

	now := base.Add(1 * time.Hour)
	sweeper := sessions.NewSweeper(repo, 30*time.Minute, time.Minute,
		sessions.WithSweeperNowTime(func() time.Time { return now }))

	require.Equal(t, 1, sweeper.Sweep(ctx))
	require.Equal(t, 1, repo.Len())
	require.Equal(t, 0, sweeper.Sweep(ctx))
}
