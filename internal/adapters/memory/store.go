package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/randomtoy/chess-scoresheet/internal/domain/game"
	"github.com/randomtoy/chess-scoresheet/internal/ports"
)

// Sessions is a thread-safe in-memory SessionStore. Every lookup counts as
// activity; Expire drops sessions idle for too long.
type Sessions struct {
	mu      sync.Mutex
	games   map[uuid.UUID]*game.Game
	touched map[uuid.UUID]time.Time
}

// NewSessions creates an empty session registry.
func NewSessions() *Sessions {
	return &Sessions{
		games:   make(map[uuid.UUID]*game.Game),
		touched: make(map[uuid.UUID]time.Time),
	}
}

func (s *Sessions) Create(_ context.Context, g *game.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[g.ID]; ok {
		return ports.ErrAlreadyExists
	}
	s.games[g.ID] = g
	s.touched[g.ID] = time.Now()
	return nil
}

func (s *Sessions) GetByID(_ context.Context, id uuid.UUID) (*game.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.games[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	s.touched[id] = time.Now()
	return g, nil
}

func (s *Sessions) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[id]; !ok {
		return ports.ErrNotFound
	}
	delete(s.games, id)
	delete(s.touched, id)
	return nil
}

// Expire removes every session not looked up since now-idle and returns
// their ids.
func (s *Sessions) Expire(now time.Time, idle time.Duration) []uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	var expired []uuid.UUID
	for id, at := range s.touched {
		if now.Sub(at) > idle {
			delete(s.games, id)
			delete(s.touched, id)
			expired = append(expired, id)
		}
	}
	return expired
}

// Records is a thread-safe in-memory RecordStore.
type Records struct {
	mu      sync.Mutex
	records map[uuid.UUID]game.Record
}

// NewRecords creates an empty record store.
func NewRecords() *Records {
	return &Records{records: make(map[uuid.UUID]game.Record)}
}

func (s *Records) Save(_ context.Context, rec game.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[rec.ID]; ok {
		return ports.ErrAlreadyExists
	}
	s.records[rec.ID] = rec.Clone()
	return nil
}

func (s *Records) GetByID(_ context.Context, id uuid.UUID) (game.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return game.Record{}, ports.ErrNotFound
	}
	return rec.Clone(), nil
}

func (s *Records) ListByParticipant(_ context.Context, name string) ([]game.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []game.Record{}
	for _, rec := range s.records {
		if rec.Headers.White == name || rec.Headers.Black == name {
			out = append(out, rec.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].FinishedAt.After(out[j].FinishedAt)
	})
	return out, nil
}

func (s *Records) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return ports.ErrNotFound
	}
	delete(s.records, id)
	return nil
}
