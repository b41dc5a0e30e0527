package redisrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jrsteele09/go-library-server/sessions"
	"github.com/redis/go-redis/v9"
)

var _ sessions.Repo = (*Repo)(nil)

const keyPrefix = "session_"

// Repo stores sessions in Redis with a TTL equal to the idle window, so a
// never-revisited token disappears on its own. Touch resets the TTL, which
// gives the same sliding window as the in-memory table.
type Repo struct {
	client *redis.Client
	ttl    time.Duration
}

// Config mirrors the connection settings the server reads from the
// environment.
type Config struct {
	Addr     string
	Password string
	DB       int
}

// New connects a session repo to Redis. ttl must equal the authenticator's
// idle timeout or server-side expiry and key expiry will disagree.
func New(ctx context.Context, cfg Config, ttl time.Duration) (*Repo, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Repo{client: client, ttl: ttl}, nil
}

// NewWithClient wraps an existing client (tests, shared pools).
func NewWithClient(client *redis.Client, ttl time.Duration) *Repo {
	return &Repo{client: client, ttl: ttl}
}

func sessionKey(token string) string {
	return keyPrefix + token
}

func (r *Repo) Insert(ctx context.Context, token string, session sessions.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := r.client.Set(ctx, sessionKey(token), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, token string) (sessions.Session, error) {
	res, err := r.client.Get(ctx, sessionKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return sessions.Session{}, sessions.ErrNotFound
		}
		return sessions.Session{}, fmt.Errorf("redis get: %w", err)
	}
	var session sessions.Session
	if err := json.Unmarshal([]byte(res), &session); err != nil {
		return sessions.Session{}, fmt.Errorf("unmarshal session: %w", err)
	}
	return session, nil
}

func (r *Repo) Delete(ctx context.Context, token string) error {
	removed, err := r.client.Del(ctx, sessionKey(token)).Result()
	if err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	if removed == 0 {
		return sessions.ErrNotFound
	}
	return nil
}

// touchRetries bounds the optimistic-transaction retry loop in Touch.
const touchRetries = 3

// Touch refreshes the entry and its TTL inside a WATCH/MULTI transaction,
// so a Delete landing between the read and the write aborts the write
// instead of resurrecting the session. On conflict the read is retried.
func (r *Repo) Touch(ctx context.Context, token string, now, cutoff time.Time) (sessions.Session, error) {
	key := sessionKey(token)
	var session sessions.Session

	txn := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return sessions.ErrNotFound
			}
			return fmt.Errorf("redis get: %w", err)
		}
		if err := json.Unmarshal([]byte(raw), &session); err != nil {
			return fmt.Errorf("unmarshal session: %w", err)
		}

		if session.LastActivity.Before(cutoff) {
			if _, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Del(ctx, key)
				return nil
			}); err != nil {
				return fmt.Errorf("redis del: %w", err)
			}
			return sessions.ErrExpired
		}

		session.LastActivity = now
		data, err := json.Marshal(session)
		if err != nil {
			return fmt.Errorf("marshal session: %w", err)
		}
		if _, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, r.ttl)
			return nil
		}); err != nil {
			return fmt.Errorf("redis set: %w", err)
		}
		return nil
	}

	for attempt := 0; attempt < touchRetries; attempt++ {
		err := r.client.Watch(ctx, txn, key)
		if err == nil {
			return session, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			// The key changed under the watch; re-read.
			continue
		}
		return sessions.Session{}, err
	}
	return sessions.Session{}, errors.New("redis touch: transaction retries exhausted")
}

// DeleteExpired is a no-op: Redis evicts keys on TTL expiry by itself.
func (r *Repo) DeleteExpired(_ context.Context, _ time.Time) (int, error) {
	return 0, nil
}

func (r *Repo) Close() error {
	return r.client.Close()
}
