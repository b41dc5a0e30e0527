package redisrepo_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jrsteele09/go-library-server/sessions"
	"github.com/jrsteele09/go-library-server/sessions/redisrepo"
	"github.com/jrsteele09/go-library-server/users"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

const idleWindow = 30 * time.Minute

func setupRepo(t *testing.T) *redisrepo.Repo {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return redisrepo.NewWithClient(client, idleWindow)
}

func testSession(lastActivity time.Time) sessions.Session {
	return sessions.Session{
		UserID:       7,
		Username:     "front.desk",
		Role:         users.RoleMember,
		LoginTime:    lastActivity,
		LastActivity: lastActivity,
	}
}

func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := setupRepo(t)
	loginTime := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Insert(ctx, "tok-1", testSession(loginTime)))

	got, err := repo.Get(ctx, "tok-1")
	require.NoError(t, err)
	require.Equal(t, "front.desk", got.Username)
	require.True(t, got.LastActivity.Equal(loginTime))

	require.NoError(t, repo.Delete(ctx, "tok-1"))
	_, err = repo.Get(ctx, "tok-1")
	require.ErrorIs(t, err, sessions.ErrNotFound)
	require.ErrorIs(t, repo.Delete(ctx, "tok-1"), sessions.ErrNotFound)
}

func TestTouchSlidesActivity(t *testing.T) {
	ctx := context.Background()
	repo := setupRepo(t)
	loginTime := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	now := loginTime.Add(10 * time.Minute)

	require.NoError(t, repo.Insert(ctx, "tok-1", testSession(loginTime)))

	touched, err := repo.Touch(ctx, "tok-1", now, now.Add(-idleWindow))
	require.NoError(t, err)
	require.True(t, touched.LastActivity.Equal(now))

	got, err := repo.Get(ctx, "tok-1")
	require.NoError(t, err)
	require.True(t, got.LastActivity.Equal(now))
}

func TestTouchEvictsIdleSession(t *testing.T) {
	ctx := context.Background()
	repo := setupRepo(t)
	loginTime := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	now := loginTime.Add(idleWindow + time.Minute)

	require.NoError(t, repo.Insert(ctx, "tok-1", testSession(loginTime)))

	_, err := repo.Touch(ctx, "tok-1", now, now.Add(-idleWindow))
	require.ErrorIs(t, err, sessions.ErrExpired)

	_, err = repo.Get(ctx, "tok-1")
	require.ErrorIs(t, err, sessions.ErrNotFound)
}

func TestTouchAfterDeleteStaysGone(t *testing.T) {
	ctx := context.Background()
	repo := setupRepo(t)
	loginTime := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	now := loginTime.Add(time.Minute)

	require.NoError(t, repo.Insert(ctx, "tok-1", testSession(loginTime)))
	require.NoError(t, repo.Delete(ctx, "tok-1"))

	// A revoked token must not be written back by a racing refresh.
	_, err := repo.Touch(ctx, "tok-1", now, now.Add(-idleWindow))
	require.ErrorIs(t, err, sessions.ErrNotFound)

	_, err = repo.Get(ctx, "tok-1")
	require.ErrorIs(t, err, sessions.ErrNotFound)
}
