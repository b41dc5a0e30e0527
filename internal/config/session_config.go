package config

import "time"

type SessionConfig interface {
	GetSessionIdleTimeout() time.Duration
	GetSessionSweepInterval() time.Duration
}

type Sessions struct{}

var _ SessionConfig = Sessions{}

// GetSessionIdleTimeout is the sliding inactivity window. The 30-minute
// default is the documented policy; SESSION_IDLE_TIMEOUT overrides it for
// testing environments.
func (Sessions) GetSessionIdleTimeout() time.Duration {
	return getDuration("SESSION_IDLE_TIMEOUT", 30*time.Minute)
}

// GetSessionSweepInterval controls the optional background sweep of idle
// sessions. Zero disables the sweep; lazy eviction on verification still
// applies either way.
func (Sessions) GetSessionSweepInterval() time.Duration {
	return getDuration("SESSION_SWEEP_INTERVAL", 0)
}

func getDuration(envVar string, defaultValue time.Duration) time.Duration {
	raw := GetEnv(envVar, "")
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return defaultValue
	}
	return d
}
