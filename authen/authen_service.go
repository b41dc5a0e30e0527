// Package authen is the session authentication gate in front of the
// library back end. It validates credentials against the user store,
// issues opaque session tokens and tracks per-token session state with a
// sliding idle timeout.
package authen

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/jrsteele09/go-library-server/sessions"
	"github.com/jrsteele09/go-library-server/users"
	"github.com/rs/zerolog"
)

// DefaultIdleTimeout is the sliding inactivity window after which a session
// is considered expired.
const DefaultIdleTimeout = 30 * time.Minute

// Repos holds the collaborator dependencies of the Authenticator.
//
// Sessions is owned infrastructure and must be supplied. Users may be nil
// until the store is wired up; login reports that condition to the caller
// instead of failing construction, because the store is an external
// collaborator configured separately.
type Repos struct {
	Users    users.Repo    // User-lookup collaborator (read-only here)
	Sessions sessions.Repo // Session table, exclusively owned by this service
}

// Authenticator validates credentials, issues session tokens and answers
// "is this token currently valid, and for whom".
type Authenticator struct {
	repos       Repos
	idleTimeout time.Duration
	nowTime     func() time.Time // nowTime function (injectable for testing)
	tokenSeq    atomic.Uint64
	logger      zerolog.Logger
}

// Option defines a function type to modify the Authenticator instance.
type Option func(*Authenticator)

// WithNowTime sets the now time function (primarily for testing).
func WithNowTime(nowFunc func() time.Time) Option {
	return func(a *Authenticator) {
		a.nowTime = nowFunc
	}
}

// WithIdleTimeout overrides the default 30-minute idle window.
func WithIdleTimeout(d time.Duration) Option {
	return func(a *Authenticator) {
		a.idleTimeout = d
	}
}

// WithLogger sets the logger for authentication events.
func WithLogger(logger zerolog.Logger) Option {
	return func(a *Authenticator) {
		a.logger = logger
	}
}

// New initializes an Authenticator with its dependencies.
func New(repos Repos, options ...Option) (*Authenticator, error) {
	if repos.Sessions == nil {
		return nil, errors.New("[authen.New] Sessions repo is required")
	}

	a := &Authenticator{
		repos:       repos,
		idleTimeout: DefaultIdleTimeout,
		nowTime:     time.Now,
		logger:      zerolog.Nop(),
	}

	for _, opt := range options {
		opt(a)
	}

	return a, nil
}

// IdleTimeout returns the configured sliding inactivity window.
func (a *Authenticator) IdleTimeout() time.Duration {
	return a.idleTimeout
}

// Login validates the credentials and, on success, inserts a new session
// and returns its token.
//
// Expected failures come back inside the LoginResult; the error return is
// reserved for store faults. A user record deactivated after login keeps
// its live sessions; only the next login is refused.
func (a *Authenticator) Login(ctx context.Context, username, password string) (LoginResult, error) {
	if username == "" || password == "" {
		return loginFailure(KindInvalidInput, msgCredentialsRequired), nil
	}

	if a.repos.Users == nil {
		return loginFailure(KindNotConfigured, msgStoreNotConfigured), nil
	}

	user, err := a.repos.Users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			// Same message as a wrong password: no username enumeration.
			return loginFailure(KindInvalidCredentials, msgInvalidCredentials), nil
		}
		return LoginResult{}, fmt.Errorf("[Authenticator.Login] user lookup: %w", err)
	}

	if !users.CheckPasswordHash(password, user.PasswordHash) {
		a.logger.Debug().Str("username", username).Msg("login rejected: bad credentials")
		return loginFailure(KindInvalidCredentials, msgInvalidCredentials), nil
	}

	if !user.Active() {
		a.logger.Debug().Str("username", username).Msg("login rejected: inactive account")
		return loginFailure(KindAccountInactive, msgAccountInactive), nil
	}

	token := a.generateToken(user.ID)
	now := a.nowTime()
	session := sessions.Session{
		UserID:       user.ID,
		Username:     user.Username,
		Role:         user.Role,
		LoginTime:    now,
		LastActivity: now,
	}
	if err := a.repos.Sessions.Insert(ctx, token, session); err != nil {
		return LoginResult{}, fmt.Errorf("[Authenticator.Login] session insert: %w", err)
	}

	a.logger.Info().Str("username", user.Username).Int64("user_id", user.ID).Msg("login successful")

	return LoginResult{
		Success: true,
		Message: fmt.Sprintf("Login successful for %s", user.Role),
		UserID:  user.ID,
		Role:    user.Role,
		Token:   token,
	}, nil
}

// Logout removes the session behind the token.
func (a *Authenticator) Logout(ctx context.Context, token string) (LogoutResult, error) {
	err := a.repos.Sessions.Delete(ctx, token)
	if err != nil {
		if errors.Is(err, sessions.ErrNotFound) {
			return LogoutResult{Success: false, Kind: KindInvalidSession, Message: msgInvalidSessionToken}, nil
		}
		return LogoutResult{}, fmt.Errorf("[Authenticator.Logout] session delete: %w", err)
	}
	return LogoutResult{Success: true, Message: msgLogoutSuccessful}, nil
}

// VerifySession checks whether the token identifies a live session.
//
// A valid verification refreshes the session's last activity, so the idle
// window slides: repeated verification keeps a session alive indefinitely.
// Expired entries are evicted here, lazily, on access.
func (a *Authenticator) VerifySession(ctx context.Context, token string) (VerifyResult, error) {
	now := a.nowTime()
	cutoff := now.Add(-a.idleTimeout)

	session, err := a.repos.Sessions.Touch(ctx, token, now, cutoff)
	if err != nil {
		switch {
		case errors.Is(err, sessions.ErrNotFound):
			return VerifyResult{Valid: false, Kind: KindInvalidOrExpired, Message: msgInvalidOrExpired}, nil
		case errors.Is(err, sessions.ErrExpired):
			a.logger.Debug().Msg("session evicted: idle timeout")
			return VerifyResult{Valid: false, Kind: KindExpired, Message: msgSessionExpired}, nil
		default:
			return VerifyResult{}, fmt.Errorf("[Authenticator.VerifySession] session touch: %w", err)
		}
	}

	return VerifyResult{
		Valid:   true,
		Message: msgSessionValid,
		UserID:  session.UserID,
		Role:    session.Role,
	}, nil
}

// SessionOwner returns the stored owner of a token without refreshing the
// session and without any expiry check. Callers that need freshness must
// call VerifySession first.
func (a *Authenticator) SessionOwner(ctx context.Context, token string) (Owner, bool, error) {
	session, err := a.repos.Sessions.Get(ctx, token)
	if err != nil {
		if errors.Is(err, sessions.ErrNotFound) {
			return Owner{}, false, nil
		}
		return Owner{}, false, fmt.Errorf("[Authenticator.SessionOwner] session get: %w", err)
	}
	return Owner{
		UserID:   session.UserID,
		Username: session.Username,
		Role:     session.Role,
	}, true, nil
}

// generateToken derives an opaque token from the user id, a high-resolution
// timestamp and a process-local sequence number, passed through SHA-256.
//
// Known limitation: this is unpredictable enough under normal operation but
// is not a cryptographically audited generator. The sequence number rules
// out collisions between logins that land on the same nanosecond.
func (a *Authenticator) generateToken(userID int64) string {
	seed := fmt.Sprintf("%d_%d_%d", userID, time.Now().UnixNano(), a.tokenSeq.Add(1))
	sum := sha256.Sum256([]byte(seed))
	return hex.EncodeToString(sum[:])
}
