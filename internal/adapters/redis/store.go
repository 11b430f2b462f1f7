// Package redis stores finished game records in Redis: one JSON value per
// record plus a sorted set per participant scored by finish time.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/randomtoy/chess-scoresheet/internal/domain/game"
	"github.com/randomtoy/chess-scoresheet/internal/ports"
)

const keyPrefix = "scoresheet"

func recordKey(id uuid.UUID) string { return fmt.Sprintf("%s:record:%s", keyPrefix, id) }

func participantKey(name string) string { return fmt.Sprintf("%s:participant:%s", keyPrefix, name) }

// recordJSON is the stored representation of game.Record.
type recordJSON struct {
	ID          uuid.UUID `json:"id"`
	GameID      uuid.UUID `json:"game_id"`
	White       string    `json:"white"`
	Black       string    `json:"black"`
	Event       string    `json:"event"`
	Site        string    `json:"site"`
	Round       string    `json:"round"`
	Result      string    `json:"result"`
	Termination string    `json:"termination"`
	Moves       []string  `json:"moves"`
	PGN         string    `json:"pgn"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
}

func toJSON(r game.Record) recordJSON {
	return recordJSON{
		ID: r.ID, GameID: r.GameID,
		White: r.Headers.White, Black: r.Headers.Black,
		Event: r.Headers.Event, Site: r.Headers.Site, Round: r.Headers.Round,
		Result: string(r.Result), Termination: r.Termination,
		Moves: r.Moves, PGN: r.PGN,
		StartedAt: r.StartedAt, FinishedAt: r.FinishedAt,
	}
}

func (j recordJSON) record() game.Record {
	return game.Record{
		ID:     j.ID,
		GameID: j.GameID,
		Headers: game.Headers{
			White: j.White, Black: j.Black, Event: j.Event, Site: j.Site, Round: j.Round,
		},
		Result:      game.Result(j.Result),
		Termination: j.Termination,
		Moves:       j.Moves,
		PGN:         j.PGN,
		StartedAt:   j.StartedAt,
		FinishedAt:  j.FinishedAt,
	}
}

// Store is a Redis-backed RecordStore.
type Store struct {
	rdb *goredis.Client
}

// New creates a Store on an existing client.
func New(rdb *goredis.Client) *Store {
	return &Store{rdb: rdb}
}

// Dial parses a redis:// URL, connects and pings.
func Dial(ctx context.Context, rawURL string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := goredis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

// Save writes the record once. The participant index is written on every
// call, so a retry after a failed index write repairs it; the retry still
// reports ports.ErrAlreadyExists.
func (s *Store) Save(ctx context.Context, rec game.Record) error {
	raw, err := json.Marshal(toJSON(rec))
	if err != nil {
		return err
	}
	created, err := s.rdb.SetNX(ctx, recordKey(rec.ID), raw, 0).Result()
	if err != nil {
		return err
	}
	if err := s.index(ctx, rec); err != nil {
		return fmt.Errorf("index record %s: %w", rec.ID, err)
	}
	if !created {
		return ports.ErrAlreadyExists
	}
	return nil
}

// index adds the record to both players' sets, scored by finish time in
// milliseconds so scores stay exact in a float64.
func (s *Store) index(ctx context.Context, rec game.Record) error {
	member := goredis.Z{Score: float64(rec.FinishedAt.UnixMilli()), Member: rec.ID.String()}
	_, err := s.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.ZAdd(ctx, participantKey(rec.Headers.White), member)
		pipe.ZAdd(ctx, participantKey(rec.Headers.Black), member)
		return nil
	})
	return err
}

func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (game.Record, error) {
	raw, err := s.rdb.Get(ctx, recordKey(id)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return game.Record{}, ports.ErrNotFound
	}
	if err != nil {
		return game.Record{}, err
	}
	var j recordJSON
	if err := json.Unmarshal(raw, &j); err != nil {
		return game.Record{}, fmt.Errorf("decode record %s: %w", id, err)
	}
	return j.record(), nil
}

// ListByParticipant skips index entries whose record has been deleted in
// the meantime.
func (s *Store) ListByParticipant(ctx context.Context, name string) ([]game.Record, error) {
	ids, err := s.rdb.ZRevRange(ctx, participantKey(name), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	out := []game.Record{}
	for _, raw := range ids {
		id, err := uuid.Parse(raw)
		if err != nil {
			continue
		}
		rec, err := s.GetByID(ctx, id)
		if errors.Is(err, ports.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	rec, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	_, err = s.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Del(ctx, recordKey(id))
		pipe.ZRem(ctx, participantKey(rec.Headers.White), id.String())
		pipe.ZRem(ctx, participantKey(rec.Headers.Black), id.String())
		return nil
	})
	return err
}
