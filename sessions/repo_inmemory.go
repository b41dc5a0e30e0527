package sessions

import (
	"context"
	"sync"
	"time"
)

var _ Repo = (*InMemoryRepo)(nil)

// InMemoryRepo is the process-local session table. Entries do not survive a
// restart; teardown is process exit.
type InMemoryRepo struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		sessions: make(map[string]Session),
	}
}

func (r *InMemoryRepo) Insert(_ context.Context, token string, session Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[token] = session
	return nil
}

func (r *InMemoryRepo) Get(_ context.Context, token string) (Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[token]
	if !ok {
		return Session{}, ErrNotFound
	}
	return session, nil
}

func (r *InMemoryRepo) Delete(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[token]; !ok {
		return ErrNotFound
	}
	delete(r.sessions, token)
	return nil
}

func (r *InMemoryRepo) Touch(_ context.Context, token string, now, cutoff time.Time) (Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[token]
	if !ok {
		return Session{}, ErrNotFound
	}
	if session.LastActivity.Before(cutoff) {
		delete(r.sessions, token)
		return Session{}, ErrExpired
	}
	session.LastActivity = now
	r.sessions[token] = session
	return session, nil
}

func (r *InMemoryRepo) DeleteExpired(_ context.Context, cutoff time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for token, session := range r.sessions {
		if session.LastActivity.Before(cutoff) {
			delete(r.sessions, token)
			removed++
		}
	}
	return removed, nil
}

// Len reports the number of tracked sessions, expired or not.
func (r *InMemoryRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
