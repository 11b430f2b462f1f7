//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	pgstore "github.com/randomtoy/chess-scoresheet/internal/adapters/postgres"
	"github.com/randomtoy/chess-scoresheet/internal/db"
	"github.com/randomtoy/chess-scoresheet/internal/domain/game"
	"github.com/randomtoy/chess-scoresheet/internal/ports"
)

func setupStore(t *testing.T) *pgstore.Store {
	t.Helper()
	ctx := context.Background()

	ctr, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}
	t.Cleanup(func() { _ = ctr.Terminate(ctx) })

	connStr, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("connection string: %v", err)
	}

	sqlDB, err := sql.Open("pgx", connStr)
	if err != nil {
		t.Fatalf("open sql.DB: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.Migrate(ctx, sqlDB, "up"); err != nil {
		t.Fatalf("goose up: %v", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("pgxpool.New: %v", err)
	}
	t.Cleanup(pool.Close)

	return pgstore.New(pool)
}

func newTestRecord(white, black string, finishedAt time.Time) game.Record {
	return game.Record{
		ID:          uuid.New(),
		GameID:      uuid.New(),
		Headers:     game.Headers{White: white, Black: black, Event: "Club Night"},
		Result:      game.ResultDraw,
		Termination: "agreement",
		Moves:       []string{"e4", "e5"},
		PGN:         "1. e4 e5 1/2-1/2",
		StartedAt:   finishedAt.Add(-time.Hour),
		FinishedAt:  finishedAt,
	}
}

func TestGetByID_NotFound(t *testing.T) {
	s := setupStore(t)

	_, err := s.GetByID(context.Background(), uuid.New())
	if !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestSaveAndGetByID(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	rec := newTestRecord("Alice", "Bob", time.Now().UTC().Truncate(time.Millisecond))

	if err := s.Save(ctx, rec); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.GetByID(ctx, rec.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.GameID != rec.GameID || got.Headers != rec.Headers || got.Result != rec.Result {
		t.Fatalf("record mismatch: got %+v want %+v", got, rec)
	}
	if len(got.Moves) != 2 || got.Moves[1] != "e5" {
		t.Fatalf("moves mismatch: %v", got.Moves)
	}
	if !got.FinishedAt.Equal(rec.FinishedAt) {
		t.Fatalf("finished_at mismatch: %v vs %v", got.FinishedAt, rec.FinishedAt)
	}
}

func TestSave_Duplicate(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	rec := newTestRecord("Alice", "Bob", time.Now().UTC())

	if err := s.Save(ctx, rec); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Save(ctx, rec); !errors.Is(err, ports.ErrAlreadyExists) {
		t.Fatalf("want ErrAlreadyExists, got %v", err)
	}
}

func TestListByParticipant(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	older := newTestRecord("Alice", "Bob", now.Add(-time.Hour))
	newer := newTestRecord("Carol", "Alice", now)
	other := newTestRecord("Carol", "Dave", now)
	for _, r := range []game.Record{older, newer, other} {
		if err := s.Save(ctx, r); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	got, err := s.ListByParticipant(ctx, "Alice")
	if err != nil {
		t.Fatalf("ListByParticipant: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 records, got %d", len(got))
	}
	if got[0].ID != newer.ID || got[1].ID != older.ID {
		t.Fatalf("want newest first, got %v then %v", got[0].ID, got[1].ID)
	}
}

func TestDelete(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	rec := newTestRecord("Alice", "Bob", time.Now().UTC())

	if err := s.Save(ctx, rec); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Delete(ctx, rec.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.GetByID(ctx, rec.ID); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("want ErrNotFound after delete, got %v", err)
	}
	if err := s.Delete(ctx, rec.ID); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("want ErrNotFound on second delete, got %v", err)
	}
}
