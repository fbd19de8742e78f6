package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/whispee/internal/logger"
	"github.com/MKhiriev/whispee/internal/metrics"
	"github.com/MKhiriev/whispee/internal/store"
)

const defaultCleanupInterval = time.Minute

// SessionJanitor purges expired sessions from a [store.SessionStore] on a
// ticker.
type SessionJanitor struct {
	sessions store.SessionStore
	interval time.Duration
	now      func() time.Time

	logger *logger.Logger
}

// NewSessionJanitor returns a janitor running every interval. A zero or
// negative interval defaults to one minute.
func NewSessionJanitor(sessions store.SessionStore, interval time.Duration, log *logger.Logger) *SessionJanitor {
	if interval <= 0 {
		interval = defaultCleanupInterval
	}
	return &SessionJanitor{
		sessions: sessions,
		interval: interval,
		now:      time.Now,
		logger:   log,
	}
}

// Run implements Worker. Store errors are logged and the next tick retries.
func (j *SessionJanitor) Run(ctx context.Context) error {
	t := time.NewTicker(j.interval)
	defer t.Stop()

	j.logger.Info().Dur("interval", j.interval).Msg("session janitor started")

	for {
		select {
		case <-ctx.Done():
			j.logger.Info().Msg("session janitor stopped")
			return nil
		case <-t.C:
			j.purge(ctx)
		}
	}
}

func (j *SessionJanitor) purge(ctx context.Context) {
	n, err := j.sessions.DeleteExpired(ctx, j.now())
	if err != nil {
		if ctx.Err() == nil {
			j.logger.Err(err).Msg("expired sessions purge failed")
		}
		return
	}

	metrics.RecordSessionsPurged(n)
	if n > 0 {
		j.logger.Debug().Int("purged", n).Msg("expired sessions purged")
	}
}
