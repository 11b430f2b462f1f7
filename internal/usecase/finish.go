package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/randomtoy/chess-scoresheet/internal/domain/game"
	"github.com/randomtoy/chess-scoresheet/internal/ports"
)

// GameFinisher confirms a result, stores the record and closes the session.
type GameFinisher struct {
	sessions ports.SessionStore
	records  ports.RecordStore
	drafts   *Drafts
	logger   *zap.Logger
}

func NewGameFinisher(sessions ports.SessionStore, records ports.RecordStore, drafts *Drafts, logger *zap.Logger) *GameFinisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GameFinisher{sessions: sessions, records: records, drafts: drafts, logger: logger}
}

// Finish finalizes the game and saves its record. If a previous call
// finalized the game but failed to save, the same record is saved again.
func (f *GameFinisher) Finish(ctx context.Context, gameID uuid.UUID, result game.Result, termination string) (game.Record, error) {
	g, err := f.sessions.GetByID(ctx, gameID)
	if err != nil {
		return game.Record{}, err
	}
	f.drafts.Cancel(gameID)

	rec, err := g.Finalize(result, termination, time.Now())
	if errors.Is(err, game.ErrFinished) {
		var ok bool
		if rec, ok = g.Record(); !ok {
			return game.Record{}, err
		}
	} else if err != nil {
		return game.Record{}, err
	}

	log := f.logger.With(zap.Stringer("game_id", gameID), zap.Stringer("record_id", rec.ID))
	if err := f.records.Save(ctx, rec); err != nil && !errors.Is(err, ports.ErrAlreadyExists) {
		log.Error("failed to save game record", zap.Error(err))
		return game.Record{}, err
	}

	if err := f.sessions.Delete(ctx, gameID); err != nil && !errors.Is(err, ports.ErrNotFound) {
		log.Warn("failed to close game session", zap.Error(err))
	}
	f.drafts.Forget(gameID)
	log.Info("game finished", zap.String("result", string(rec.Result)), zap.Int("moves", len(rec.Moves)))
	return rec, nil
}
