package server

import (
	"net/http"

	"github.com/jrsteele09/go-library-server/authen"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginHandler exchanges credentials for a session token. Expected
// authentication failures pass the authenticator's result through with a
// client-error status; the body shape is identical either way.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if !readJSON(w, r, &req) {
			return
		}

		result, err := s.authen.Login(r.Context(), req.Username, req.Password)
		if err != nil {
			s.logger.Error().Err(err).Msg("login failed")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, loginStatus(result), result)
	}
}

func loginStatus(result authen.LoginResult) int {
	if result.Success {
		return http.StatusOK
	}
	switch result.Kind {
	case authen.KindInvalidInput:
		return http.StatusBadRequest
	case authen.KindNotConfigured:
		return http.StatusServiceUnavailable
	case authen.KindInvalidCredentials, authen.KindAccountInactive:
		return http.StatusUnauthorized
	default:
		return http.StatusUnauthorized
	}
}

// LogoutHandler removes the session behind the presented token.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := sessionToken(r)
		result, err := s.authen.Logout(r.Context(), token)
		if err != nil {
			s.logger.Error().Err(err).Msg("logout failed")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		status := http.StatusOK
		if !result.Success {
			status = http.StatusUnauthorized
		}
		writeJSON(w, status, result)
	}
}

// SessionHandler verifies the presented token. Verification slides the
// idle window.
func (s *Server) SessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := sessionToken(r)
		result, err := s.authen.VerifySession(r.Context(), token)
		if err != nil {
			s.logger.Error().Err(err).Msg("session verification failed")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		status := http.StatusOK
		if !result.Valid {
			status = http.StatusUnauthorized
		}
		writeJSON(w, status, result)
	}
}
