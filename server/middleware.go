package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-library-server/authen"
)

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	ownerKey     contextKey = "session_owner"
)

// SessionTokenHeader carries the opaque session token on API calls.
const SessionTokenHeader = "X-Session-Token"

func ChainMiddleware(routeFunction http.HandlerFunc, mw ...func(http.HandlerFunc) http.HandlerFunc) http.HandlerFunc {
	chainedHandler := routeFunction
	// Apply middleware in reverse order
	for i := len(mw) - 1; i >= 0; i-- {
		chainedHandler = mw[i](chainedHandler)
	}
	return chainedHandler
}

func (s *Server) APIMiddleware() []func(http.HandlerFunc) http.HandlerFunc {
	return []func(http.HandlerFunc) http.HandlerFunc{
		s.RequestIDMiddleware,
		s.LoggingMiddleware,
		s.RecoverMiddleware,
	}
}

func (s *Server) RequestIDMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.New().String()
		w.Header().Set("X-Request-Id", requestID)
		next(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, requestID)))
	}
}

func (s *Server) LoggingMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next(w, r)
		requestID, _ := r.Context().Value(requestIDKey).(string)
		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("request_id", requestID).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	}
}

func (s *Server) RecoverMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error().Interface("panic", rec).Str("path", r.URL.Path).Msg("handler panic")
				writeError(w, http.StatusInternalServerError, "internal error")
			}
		}()
		next(w, r)
	}
}

// RequireSession verifies the session token and stores the owner in the
// request context. Verification refreshes the session's last activity, so
// authenticated traffic keeps the session alive.
func (s *Server) RequireSession() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			token := sessionToken(r)
			if token == "" {
				writeError(w, http.StatusUnauthorized, "session token required")
				return
			}

			result, err := s.authen.VerifySession(r.Context(), token)
			if err != nil {
				s.logger.Error().Err(err).Msg("session verification failed")
				writeError(w, http.StatusInternalServerError, "internal error")
				return
			}
			if !result.Valid {
				writeError(w, http.StatusUnauthorized, result.Message)
				return
			}

			owner := authen.Owner{UserID: result.UserID, Role: result.Role}
			next(w, r.WithContext(context.WithValue(r.Context(), ownerKey, owner)))
		}
	}
}

// sessionToken pulls the token from the X-Session-Token header or a Bearer
// authorization header.
func sessionToken(r *http.Request) string {
	if token := r.Header.Get(SessionTokenHeader); token != "" {
		return token
	}
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// OwnerFromContext returns the verified session owner set by RequireSession.
func OwnerFromContext(ctx context.Context) (authen.Owner, bool) {
	owner, ok := ctx.Value(ownerKey).(authen.Owner)
	return owner, ok
}
