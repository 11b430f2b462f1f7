package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Expirer drops sessions that have been idle for longer than a limit.
type Expirer interface {
	Expire(now time.Time, idle time.Duration) []uuid.UUID
}

// SessionReaper closes in-progress games nobody has touched for a while,
// together with their pending drafts.
type SessionReaper struct {
	sessions Expirer
	drafts   *Drafts
	idle     time.Duration
	logger   *zap.Logger
}

func NewSessionReaper(sessions Expirer, drafts *Drafts, idle time.Duration, logger *zap.Logger) *SessionReaper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionReaper{sessions: sessions, drafts: drafts, idle: idle, logger: logger}
}

// Reap runs one expiry pass and returns the number of sessions closed.
func (r *SessionReaper) Reap(now time.Time) int {
	ids := r.sessions.Expire(now, r.idle)
	for _, id := range ids {
		r.drafts.Forget(id)
		r.logger.Info("idle game session closed", zap.Stringer("game_id", id))
	}
	return len(ids)
}

// Run reaps every interval until ctx is done.
func (r *SessionReaper) Run(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			r.Reap(now)
		}
	}
}
