// Package oracle defines the rules collaborator the scoresheet relies on for
// legal-move enumeration, move application and PGN export.
package oracle

import (
	"errors"
	"strings"
)

// ErrIllegalMove is returned by ApplyMove when the move is not legal in the
// current position.
var ErrIllegalMove = errors.New("illegal_move")

// Position is a FEN string. Only the first four fields (placement, side to
// move, castling rights, en-passant target) matter for repetition.
type Position string

// Fields splits the FEN into its space-separated fields.
func (p Position) Fields() []string {
	return strings.Fields(string(p))
}

// LegalMove is one legal move in two textual forms.
type LegalMove struct {
	// Short is standard algebraic notation, e.g. "Nf3", "exd5", "O-O".
	Short string
	// Long is the from-square/to-square form, e.g. "g1f3", "e7e8q".
	Long string
}

// Tag is one PGN tag pair.
type Tag struct {
	Key   string
	Value string
}

// Oracle holds one mutable position. It only moves forward: going back means
// Reset followed by replay.
type Oracle interface {
	// Reset returns to the standard starting position with no moves.
	Reset()
	// LegalMoves enumerates every legal move from the current position.
	LegalMoves() []LegalMove
	// ApplyMove plays a move given in short form. Fails with ErrIllegalMove.
	ApplyMove(short string) error
	// Position returns the current position.
	Position() Position
	// Outcome is the result decided on the board ("1-0", "0-1", "1/2-1/2")
	// or "*" while undecided.
	Outcome() string
	// ExportRecord renders the moves played so far as PGN with the given tags
	// and declared result.
	ExportRecord(tags []Tag, result string) (string, error)
}

// Factory builds a fresh Oracle at the starting position.
type Factory func() Oracle
