package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/randomtoy/chess-scoresheet/internal/debounce"
	"github.com/randomtoy/chess-scoresheet/internal/domain/game"
	"github.com/randomtoy/chess-scoresheet/internal/ports"
)

// Drafts keeps one debouncer per game for move text that is still being
// typed. A draft is submitted once the text has been quiet for the interval;
// an explicit submit, an undo or finishing the game cancels it.
type Drafts struct {
	sessions ports.SessionStore
	interval time.Duration
	logger   *zap.Logger
	now      func() time.Time

	mu   sync.Mutex
	byID map[uuid.UUID]*debounce.Debouncer
}

func NewDrafts(sessions ports.SessionStore, interval time.Duration, logger *zap.Logger) *Drafts {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Drafts{
		sessions: sessions,
		interval: interval,
		logger:   logger,
		now:      time.Now,
		byID:     make(map[uuid.UUID]*debounce.Debouncer),
	}
}

// Schedule replaces the pending draft for the game. It reports whether an
// attempt was armed (blank text only cancels).
func (d *Drafts) Schedule(ctx context.Context, id uuid.UUID, text string) (bool, error) {
	db, err := d.debouncer(ctx, id)
	if err != nil {
		return false, err
	}
	return db.Schedule(text), nil
}

// Cancel drops the pending draft for the game, if any.
func (d *Drafts) Cancel(id uuid.UUID) bool {
	d.mu.Lock()
	db, ok := d.byID[id]
	d.mu.Unlock()
	return ok && db.Cancel()
}

// Pending reports whether the game has an armed draft.
func (d *Drafts) Pending(id uuid.UUID) bool {
	d.mu.Lock()
	db, ok := d.byID[id]
	d.mu.Unlock()
	return ok && db.Pending()
}

// Forget stops and removes the game's debouncer.
func (d *Drafts) Forget(id uuid.UUID) {
	d.mu.Lock()
	db, ok := d.byID[id]
	delete(d.byID, id)
	d.mu.Unlock()
	if ok {
		db.Stop()
	}
}

// debouncer looks the session up under d.mu, so it cannot interleave with
// Forget: callers close a session by deleting it first and forgetting its
// drafts second.
func (d *Drafts) debouncer(ctx context.Context, id uuid.UUID) (*debounce.Debouncer, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, err := d.sessions.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if db, ok := d.byID[id]; ok {
		return db, nil
	}
	db := debounce.New(d.interval, func(text string) { d.fire(id, text) })
	d.byID[id] = db
	return db, nil
}

// fire runs on the timer goroutine after the request that scheduled it has
// returned, so it uses its own context.
func (d *Drafts) fire(id uuid.UUID, text string) {
	ctx := context.Background()
	g, err := d.sessions.GetByID(ctx, id)
	if err != nil {
		d.logger.Debug("draft for missing game", zap.Stringer("game_id", id))
		return
	}
	res, err := g.AppendMove(text, d.now())
	log := d.logger.With(
		zap.Stringer("game_id", id),
		zap.String("input", text),
		zap.String("candidate", res.Candidate),
	)
	switch {
	case err == nil:
		log.Info("draft move recorded", zap.String("move", res.Move.Short), zap.Int("ply", res.Ply))
	case isFatal(err):
		log.Error("draft move broke the game session", zap.Error(err))
		dropSession(ctx, d.sessions, d, id, log)
	default:
		log.Info("draft move rejected", zap.Error(err))
	}
}

// isFatal reports whether err ends the game session.
func isFatal(err error) bool {
	return errors.Is(err, game.ErrOracleInconsistency)
}

func dropSession(ctx context.Context, sessions ports.SessionStore, drafts *Drafts, id uuid.UUID, log *zap.Logger) {
	if err := sessions.Delete(ctx, id); err != nil {
		log.Warn("failed to drop game session", zap.Error(err))
	}
	if drafts != nil {
		drafts.Forget(id)
	}
}
