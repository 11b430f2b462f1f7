package usecase

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/randomtoy/chess-scoresheet/internal/domain/game"
	"github.com/randomtoy/chess-scoresheet/internal/ports"
)

// UndoResult is the output of a successful Undo.
type UndoResult struct {
	Removed string
	Game    game.Snapshot
}

// MoveUndoer takes back the last recorded move.
type MoveUndoer struct {
	sessions ports.SessionStore
	drafts   *Drafts
	logger   *zap.Logger
}

func NewMoveUndoer(sessions ports.SessionStore, drafts *Drafts, logger *zap.Logger) *MoveUndoer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MoveUndoer{sessions: sessions, drafts: drafts, logger: logger}
}

// Undo returns game.ErrEmptyHistory when nothing has been played. A pending
// draft is cancelled so it cannot land on the rewound position.
func (u *MoveUndoer) Undo(ctx context.Context, gameID uuid.UUID) (UndoResult, error) {
	g, err := u.sessions.GetByID(ctx, gameID)
	if err != nil {
		return UndoResult{}, err
	}
	u.drafts.Cancel(gameID)

	removed, err := g.Undo()
	log := u.logger.With(zap.Stringer("game_id", gameID))
	if err != nil {
		if isFatal(err) {
			log.Error("undo broke the game session", zap.Error(err))
			dropSession(ctx, u.sessions, u.drafts, gameID, log)
		}
		return UndoResult{}, err
	}
	log.Info("move undone", zap.String("move", removed))
	return UndoResult{Removed: removed, Game: g.Snapshot()}, nil
}
