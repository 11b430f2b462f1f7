package ports

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/randomtoy/chess-scoresheet/internal/domain/game"
)

// Sentinel store errors.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

// SessionStore holds in-progress games. A session lives from start until it
// is finalized or dropped.
type SessionStore interface {
	Create(ctx context.Context, g *game.Game) error
	GetByID(ctx context.Context, id uuid.UUID) (*game.Game, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// RecordStore persists finished game records. Records are immutable: Save
// rejects an id that is already stored with ErrAlreadyExists.
type RecordStore interface {
	Save(ctx context.Context, rec game.Record) error
	GetByID(ctx context.Context, id uuid.UUID) (game.Record, error)
	// ListByParticipant returns the records where name played either side,
	// most recently finished first.
	ListByParticipant(ctx context.Context, name string) ([]game.Record, error)
	// Delete removes the whole record. Returns ErrNotFound if it is missing.
	Delete(ctx context.Context, id uuid.UUID) error
}
