package sessions

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Sweeper periodically evicts sessions that idled past the timeout but were
// never re-verified. Lazy eviction on verification remains the primary
// expiry path; the sweep only stops tokens that are never re-checked from
// lingering until process restart.
type Sweeper struct {
	repo        Repo
	idleTimeout time.Duration
	interval    time.Duration
	nowTime     func() time.Time
	logger      zerolog.Logger
}

type SweeperOption func(*Sweeper)

// WithSweeperNowTime sets the now time function (primarily for testing).
func WithSweeperNowTime(nowFunc func() time.Time) SweeperOption {
	return func(s *Sweeper) {
		s.nowTime = nowFunc
	}
}

// WithSweeperLogger sets the logger used for sweep reporting.
func WithSweeperLogger(logger zerolog.Logger) SweeperOption {
	return func(s *Sweeper) {
		s.logger = logger
	}
}

func NewSweeper(repo Repo, idleTimeout, interval time.Duration, options ...SweeperOption) *Sweeper {
	s := &Sweeper{
		repo:        repo,
		idleTimeout: idleTimeout,
		interval:    interval,
		nowTime:     time.Now,
		logger:      zerolog.Nop(),
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Run sweeps on every tick until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep performs a single eviction pass and returns the number of sessions
// removed.
func (s *Sweeper) Sweep(ctx context.Context) int {
	cutoff := s.nowTime().Add(-s.idleTimeout)
	removed, err := s.repo.DeleteExpired(ctx, cutoff)
	if err != nil {
		s.logger.Error().Err(err).Msg("session sweep failed")
		return 0
	}
	if removed > 0 {
		s.logger.Debug().Int("removed", removed).Msg("swept expired sessions")
	}
	return removed
}
