package usecase

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/randomtoy/chess-scoresheet/internal/domain/game"
	"github.com/randomtoy/chess-scoresheet/internal/ports"
)

// RecordLibrary reads and deletes finished game records.
type RecordLibrary struct {
	records ports.RecordStore
	logger  *zap.Logger
}

func NewRecordLibrary(records ports.RecordStore, logger *zap.Logger) *RecordLibrary {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordLibrary{records: records, logger: logger}
}

func (l *RecordLibrary) Get(ctx context.Context, id uuid.UUID) (game.Record, error) {
	return l.records.GetByID(ctx, id)
}

// List returns the participant's records, newest first.
func (l *RecordLibrary) List(ctx context.Context, participant string) ([]game.Record, error) {
	return l.records.ListByParticipant(ctx, participant)
}

func (l *RecordLibrary) Delete(ctx context.Context, id uuid.UUID) error {
	if err := l.records.Delete(ctx, id); err != nil {
		return err
	}
	l.logger.Info("game record deleted", zap.Stringer("record_id", id))
	return nil
}
