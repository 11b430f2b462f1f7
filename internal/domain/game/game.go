package game

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/randomtoy/chess-scoresheet/internal/domain/history"
	"github.com/randomtoy/chess-scoresheet/internal/domain/notation"
	"github.com/randomtoy/chess-scoresheet/internal/domain/oracle"
)

// Sentinel errors returned by Game; transport layer maps these to HTTP codes.
var (
	ErrInvalidInput        = errors.New("invalid_input")
	ErrNoMatch             = notation.ErrNoMatch
	ErrAmbiguous           = notation.ErrAmbiguous
	ErrEmptyHistory        = errors.New("empty_history")
	ErrOracleInconsistency = errors.New("oracle_inconsistency")
	ErrFinished            = errors.New("game_finished")
)

// Appended describes an accepted move.
type Appended struct {
	Input     string
	Candidate string
	Move      oracle.LegalMove
	Ply       int
	Repeated  bool
}

// Attempt is the outcome of the most recent input, kept so that debounced
// submissions can be inspected after the fact.
type Attempt struct {
	Input     string
	Candidate string
	Move      string
	Err       string
	At        time.Time
}

// Game is one in-progress scoresheet. It owns the authoritative oracle, the
// move list and everything derived from it. All methods are safe for
// concurrent use; append, undo and finalize never interleave.
type Game struct {
	ID        uuid.UUID
	Headers   Headers
	StartedAt time.Time

	mu        sync.Mutex
	newOracle oracle.Factory
	oracle    oracle.Oracle
	moves     []string
	positions []oracle.Position
	repeated  bool
	cursor    int
	last      *Attempt
	finished  bool
	record    Record
}

// NewGame starts a scoresheet at the initial position after validating h.
func NewGame(id uuid.UUID, h Headers, newOracle oracle.Factory, now time.Time) (*Game, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}
	o := newOracle()
	o.Reset()
	return &Game{
		ID:        id,
		Headers:   h,
		StartedAt: now,
		newOracle: newOracle,
		oracle:    o,
		positions: []oracle.Position{o.Position()},
	}, nil
}

// AppendMove normalizes raw, resolves it against the current legal moves and
// plays it. ErrInvalidInput, ErrNoMatch and ErrAmbiguous leave the game
// untouched.
func (g *Game) AppendMove(raw string, now time.Time) (Appended, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	res, err := g.appendLocked(raw)
	g.last = &Attempt{Input: raw, Candidate: res.Candidate, Move: res.Move.Short, At: now}
	if err != nil {
		g.last.Err = err.Error()
	}
	return res, err
}

func (g *Game) appendLocked(raw string) (Appended, error) {
	res := Appended{Input: raw, Candidate: notation.Normalize(raw)}
	if g.finished {
		return res, ErrFinished
	}
	if res.Candidate == "" {
		return res, ErrInvalidInput
	}

	mv, err := notation.Resolve(res.Candidate, g.oracle.LegalMoves())
	if err != nil {
		return res, err
	}

	next := make([]string, len(g.moves), len(g.moves)+1)
	copy(next, g.moves)
	next = append(next, mv.Short)

	h, err := history.Derive(g.newOracle, next)
	if err != nil {
		return res, fmt.Errorf("%w: %v", ErrOracleInconsistency, err)
	}
	if err := g.oracle.ApplyMove(mv.Short); err != nil {
		// The authoritative oracle disagrees with the scratch replay; rebuild
		// it from the last good list before reporting.
		if rerr := g.rewind(g.moves); rerr != nil {
			return res, fmt.Errorf("%w: apply %s: %v; rebuild: %v", ErrOracleInconsistency, mv.Short, err, rerr)
		}
		return res, fmt.Errorf("%w: apply %s: %v", ErrOracleInconsistency, mv.Short, err)
	}

	g.commit(next, h)
	res.Move = mv
	res.Ply = len(next)
	res.Repeated = h.Repeated
	return res, nil
}

// Undo removes the last move and rebuilds the oracle by replaying the rest
// from the initial position. It returns the removed move.
func (g *Game) Undo() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.finished {
		return "", ErrFinished
	}
	if len(g.moves) == 0 {
		return "", ErrEmptyHistory
	}

	removed := g.moves[len(g.moves)-1]
	next := make([]string, len(g.moves)-1)
	copy(next, g.moves)

	h, err := history.Derive(g.newOracle, next)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrOracleInconsistency, err)
	}
	if err := g.rewind(next); err != nil {
		return "", fmt.Errorf("%w: %v", ErrOracleInconsistency, err)
	}

	g.commit(next, h)
	return removed, nil
}

// rewind replays moves into a fresh authoritative oracle and swaps it in
// only when the whole replay succeeds.
func (g *Game) rewind(moves []string) error {
	o := g.newOracle()
	if err := history.Replay(o, moves); err != nil {
		return err
	}
	g.oracle = o
	return nil
}

func (g *Game) commit(moves []string, h history.History) {
	g.moves = moves
	g.positions = h.Positions
	g.repeated = h.Repeated
	g.cursor = len(h.Positions) - 1
}

// Moves returns a copy of the move list in play order.
func (g *Game) Moves() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]string, len(g.moves))
	copy(out, g.moves)
	return out
}

// Snapshot is a consistent copy of a game's state.
type Snapshot struct {
	ID          uuid.UUID
	Headers     Headers
	StartedAt   time.Time
	Moves       []string
	Positions   []oracle.Position
	Repeated    bool
	Cursor      int
	MoveNumber  int
	Position    oracle.Position
	LegalMoves  []oracle.LegalMove
	Outcome     string
	Finished    bool
	LastAttempt *Attempt
}

// Snapshot returns the whole state under one lock.
func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	s := Snapshot{
		ID:         g.ID,
		Headers:    g.Headers,
		StartedAt:  g.StartedAt,
		Moves:      append([]string(nil), g.moves...),
		Positions:  append([]oracle.Position(nil), g.positions...),
		Repeated:   g.repeated,
		Cursor:     g.cursor,
		MoveNumber: moveNumber(g.cursor),
		Position:   g.positions[g.cursor],
		LegalMoves: g.oracle.LegalMoves(),
		Outcome:    g.oracle.Outcome(),
		Finished:   g.finished,
	}
	if g.last != nil {
		a := *g.last
		s.LastAttempt = &a
	}
	return s
}
