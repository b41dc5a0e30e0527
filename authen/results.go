package authen

import "github.com/jrsteele09/go-library-server/users"

// Kind classifies an expected authentication failure. Every kind is a
// recoverable, caller-facing condition; none of them is an error in the Go
// sense.
type Kind string

const (
	KindNone               Kind = ""
	KindInvalidInput       Kind = "invalid_input"
	KindNotConfigured      Kind = "not_configured"
	KindInvalidCredentials Kind = "invalid_credentials"
	KindAccountInactive    Kind = "account_inactive"
	KindInvalidSession     Kind = "invalid_session"
	KindExpired            Kind = "expired"
	KindInvalidOrExpired   Kind = "invalid_or_expired"
)

// Caller-facing messages. Unknown username and wrong password share
// msgInvalidCredentials so callers cannot probe which usernames exist.
const (
	msgCredentialsRequired = "Username and password are required"
	msgStoreNotConfigured  = "User database not configured"
	msgInvalidCredentials  = "Invalid username or password"
	msgAccountInactive     = "User account is inactive"
	msgInvalidSessionToken = "Invalid session token"
	msgInvalidOrExpired    = "Invalid or expired session"
	msgSessionExpired      = "Session expired"
	msgSessionValid        = "Session is valid"
	msgLogoutSuccessful    = "Logout successful"
)

// LoginResult reports the outcome of a login attempt.
type LoginResult struct {
	Success bool           `json:"success"`
	Kind    Kind           `json:"kind,omitempty"`
	Message string         `json:"message"`
	UserID  int64          `json:"user_id,omitempty"`
	Role    users.RoleType `json:"user_type,omitempty"`
	Token   string         `json:"session_token,omitempty"`
}

// LogoutResult reports the outcome of a logout.
type LogoutResult struct {
	Success bool   `json:"success"`
	Kind    Kind   `json:"kind,omitempty"`
	Message string `json:"message"`
}

// VerifyResult reports whether a token currently identifies a live session
// and, when it does, for whom.
type VerifyResult struct {
	Valid   bool           `json:"is_valid"`
	Kind    Kind           `json:"kind,omitempty"`
	Message string         `json:"message"`
	UserID  int64          `json:"user_id,omitempty"`
	Role    users.RoleType `json:"user_type,omitempty"`
}

// Owner is the stored identity behind a token, as captured at login time.
type Owner struct {
	UserID   int64          `json:"user_id"`
	Username string         `json:"username"`
	Role     users.RoleType `json:"user_type"`
}

func loginFailure(kind Kind, message string) LoginResult {
	return LoginResult{Success: false, Kind: kind, Message: message}
}
