package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/randomtoy/chess-scoresheet/internal/domain/game"
	"github.com/randomtoy/chess-scoresheet/internal/ports"
)

const recordColumns = `
id, game_id, white, black, event, site, round, result, termination,
moves, pgn, started_at, finished_at`

const queryInsert = `
INSERT INTO game_records (` + recordColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

const queryGetByID = `
SELECT ` + recordColumns + `
FROM game_records
WHERE id = $1`

const queryListByParticipant = `
SELECT ` + recordColumns + `
FROM game_records
WHERE white = $1 OR black = $1
ORDER BY finished_at DESC`

const queryDelete = `DELETE FROM game_records WHERE id = $1`

// uniqueViolation is the SQLSTATE for a duplicate primary key.
const uniqueViolation = "23505"

// Store is a PostgreSQL-backed RecordStore.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a Store backed by the given connection pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Save(ctx context.Context, rec game.Record) error {
	moves := rec.Moves
	if moves == nil {
		moves = []string{}
	}
	_, err := s.pool.Exec(ctx, queryInsert,
		rec.ID,
		rec.GameID,
		rec.Headers.White,
		rec.Headers.Black,
		rec.Headers.Event,
		rec.Headers.Site,
		rec.Headers.Round,
		string(rec.Result),
		rec.Termination,
		moves,
		rec.PGN,
		rec.StartedAt,
		rec.FinishedAt,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ports.ErrAlreadyExists
	}
	return err
}

func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (game.Record, error) {
	row := s.pool.QueryRow(ctx, queryGetByID, id)
	rec, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return game.Record{}, ports.ErrNotFound
	}
	return rec, err
}

func (s *Store) ListByParticipant(ctx context.Context, name string) ([]game.Record, error) {
	rows, err := s.pool.Query(ctx, queryListByParticipant, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []game.Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, queryDelete, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// scanRecord reads a record row from either a pgx.Row or pgx.Rows.
func scanRecord(s interface {
	Scan(dest ...any) error
}) (game.Record, error) {
	var (
		rec        game.Record
		result     string
		startedAt  time.Time
		finishedAt time.Time
	)
	err := s.Scan(
		&rec.ID, &rec.GameID,
		&rec.Headers.White, &rec.Headers.Black, &rec.Headers.Event, &rec.Headers.Site, &rec.Headers.Round,
		&result, &rec.Termination, &rec.Moves, &rec.PGN, &startedAt, &finishedAt,
	)
	if err != nil {
		return game.Record{}, err
	}
	rec.Result = game.Result(result)
	rec.StartedAt = startedAt
	rec.FinishedAt = finishedAt
	return rec, nil
}
