package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/randomtoy/chess-scoresheet/internal/domain/game"
	"github.com/randomtoy/chess-scoresheet/internal/ports"
)

// SubmitMoveResult is the output of a successful SubmitMove.
type SubmitMoveResult struct {
	Move game.Appended
	Game game.Snapshot
	// CancelledDraft is set when a pending draft was dropped in favour of
	// this submission.
	CancelledDraft bool
}

// MoveSubmitter handles explicit move submission.
type MoveSubmitter struct {
	sessions ports.SessionStore
	drafts   *Drafts
	logger   *zap.Logger
}

func NewMoveSubmitter(sessions ports.SessionStore, drafts *Drafts, logger *zap.Logger) *MoveSubmitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MoveSubmitter{sessions: sessions, drafts: drafts, logger: logger}
}

// SubmitMove cancels any pending draft for the game and resolves text right
// away. game.ErrInvalidInput, game.ErrNoMatch and game.ErrAmbiguous leave
// the game unchanged; game.ErrOracleInconsistency drops the session.
func (m *MoveSubmitter) SubmitMove(ctx context.Context, gameID uuid.UUID, text string) (SubmitMoveResult, error) {
	g, err := m.sessions.GetByID(ctx, gameID)
	if err != nil {
		return SubmitMoveResult{}, err
	}
	cancelled := m.drafts.Cancel(gameID)

	res, err := g.AppendMove(text, time.Now())
	log := m.logger.With(
		zap.Stringer("game_id", gameID),
		zap.String("input", text),
		zap.String("candidate", res.Candidate),
	)
	if err != nil {
		if isFatal(err) {
			log.Error("move broke the game session", zap.Error(err))
			dropSession(ctx, m.sessions, m.drafts, gameID, log)
		} else {
			log.Debug("move rejected", zap.Error(err))
		}
		return SubmitMoveResult{}, err
	}

	log.Info("move recorded", zap.String("move", res.Move.Short), zap.Int("ply", res.Ply), zap.Bool("repeated", res.Repeated))
	return SubmitMoveResult{Move: res, Game: g.Snapshot(), CancelledDraft: cancelled}, nil
}

// Draft schedules text for submission once typing has paused.
func (m *MoveSubmitter) Draft(ctx context.Context, gameID uuid.UUID, text string) (bool, error) {
	return m.drafts.Schedule(ctx, gameID, text)
}
