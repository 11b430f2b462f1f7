// Package history derives the position sequence of a game and detects
// repeated positions.
package history

import (
	"fmt"
	"strings"

	"github.com/randomtoy/chess-scoresheet/internal/domain/oracle"
)

// RepetitionThreshold is the number of occurrences of one reduced position
// that sets the repetition flag.
const RepetitionThreshold = 3

// signatureFields are the FEN fields that identify a position for repetition:
// placement, side to move, castling rights and en-passant target.
const signatureFields = 4

// History is the position sequence derived from a move list. Positions[0] is
// the starting position, so len(Positions) == len(moves)+1.
type History struct {
	Positions []oracle.Position
	Repeated  bool
}

// ReplayError reports the move a replay could not re-apply.
type ReplayError struct {
	Ply  int
	Move string
	Err  error
}

func (e *ReplayError) Error() string {
	return fmt.Sprintf("replay ply %d (%s): %v", e.Ply, e.Move, e.Err)
}

func (e *ReplayError) Unwrap() error { return e.Err }

// Replay resets o and applies moves in order.
func Replay(o oracle.Oracle, moves []string) error {
	o.Reset()
	for i, mv := range moves {
		if err := o.ApplyMove(mv); err != nil {
			return &ReplayError{Ply: i + 1, Move: mv, Err: err}
		}
	}
	return nil
}

// Derive replays moves on a fresh oracle from newOracle and collects every
// position along the way. It never touches any other oracle instance.
func Derive(newOracle oracle.Factory, moves []string) (History, error) {
	scratch := newOracle()
	scratch.Reset()

	positions := make([]oracle.Position, 0, len(moves)+1)
	positions = append(positions, scratch.Position())
	for i, mv := range moves {
		if err := scratch.ApplyMove(mv); err != nil {
			return History{}, &ReplayError{Ply: i + 1, Move: mv, Err: err}
		}
		positions = append(positions, scratch.Position())
	}
	return History{Positions: positions, Repeated: Repeated(positions)}, nil
}

// Signature reduces a position to the part compared for repetition.
func Signature(p oracle.Position) string {
	fields := p.Fields()
	if len(fields) > signatureFields {
		fields = fields[:signatureFields]
	}
	return strings.Join(fields, " ")
}

// Repeated reports whether any reduced position occurs at least
// RepetitionThreshold times.
func Repeated(positions []oracle.Position) bool {
	counts := make(map[string]int, len(positions))
	for _, p := range positions {
		sig := Signature(p)
		counts[sig]++
		if counts[sig] >= RepetitionThreshold {
			return true
		}
	}
	return false
}
