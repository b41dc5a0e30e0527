package sessions

import (
	"time"

	"github.com/jrsteele09/go-library-server/users"
)

// Session is one live entry in the session table, keyed externally by its
// opaque token. An entry exists only between a successful login and either
// an explicit logout or the detection of idle-timeout expiry.
type Session struct {
	UserID       int64          `json:"user_id"`       // Owning user id, fixed at login
	Username     string         `json:"username"`      // Owning username, fixed at login
	Role         users.RoleType `json:"user_type"`     // Role label captured at login
	LoginTime    time.Time      `json:"login_time"`    // When the session was created
	LastActivity time.Time      `json:"last_activity"` // Refreshed on every successful verification
}
