package game

import (
	"errors"
	"fmt"

	"github.com/randomtoy/chess-scoresheet/internal/domain/oracle"
)

// Step moves the playback cursor.
type Step string

const (
	StepFirst Step = "first"
	StepPrev  Step = "prev"
	StepNext  Step = "next"
	StepLast  Step = "last"
)

// ErrUnknownStep is returned by Navigate for an unrecognised step.
var ErrUnknownStep = errors.New("unknown_step")

// Navigate moves the playback cursor through the derived positions. The
// cursor never leaves [0, len(moves)] and never changes the move list.
func (g *Game) Navigate(step Step) (int, oracle.Position, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	last := len(g.positions) - 1
	switch step {
	case StepFirst:
		g.cursor = 0
	case StepPrev:
		g.cursor = max(0, g.cursor-1)
	case StepNext:
		g.cursor = min(last, g.cursor+1)
	case StepLast:
		g.cursor = last
	default:
		return g.cursor, g.positions[g.cursor], fmt.Errorf("%w: %q", ErrUnknownStep, step)
	}
	return g.cursor, g.positions[g.cursor], nil
}

// Seek puts the cursor on position index i, clamped to the valid range.
func (g *Game) Seek(i int) (int, oracle.Position) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.cursor = min(max(i, 0), len(g.positions)-1)
	return g.cursor, g.positions[g.cursor]
}

// moveNumber is the full-move number shown for a cursor index: position 1
// (after white's first move) and 2 (after black's reply) are both move 1.
func moveNumber(cursor int) int {
	return (cursor + 1) / 2
}
