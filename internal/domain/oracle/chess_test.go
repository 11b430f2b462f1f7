package oracle_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randomtoy/chess-scoresheet/internal/domain/oracle"
)

const startFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

func play(t *testing.T, moves ...string) *oracle.Chess {
	t.Helper()
	o := oracle.NewChess()
	for _, mv := range moves {
		require.NoError(t, o.ApplyMove(mv), "move %s", mv)
	}
	return o
}

func TestChess_InitialPosition(t *testing.T) {
	o := oracle.NewChess()
	assert.Equal(t, oracle.Position(startFEN), o.Position())
	assert.Equal(t, oracle.ResultUndecided, o.Outcome())

	legal := o.LegalMoves()
	assert.Len(t, legal, 20)
	assert.Contains(t, legal, oracle.LegalMove{Short: "e4", Long: "e2e4"})
	assert.Contains(t, legal, oracle.LegalMove{Short: "Nf3", Long: "g1f3"})
}

func TestChess_ApplyMove(t *testing.T) {
	o := play(t, "e4")
	fields := o.Position().Fields()
	require.Len(t, fields, 6)
	assert.Equal(t, "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR", fields[0])
	assert.Equal(t, "b", fields[1])
}

func TestChess_ApplyIllegal(t *testing.T) {
	o := oracle.NewChess()
	before := o.Position()

	err := o.ApplyMove("e5")
	assert.ErrorIs(t, err, oracle.ErrIllegalMove)
	assert.Equal(t, before, o.Position())
}

func TestChess_Reset(t *testing.T) {
	o := play(t, "e4", "e5")
	o.Reset()
	assert.Equal(t, oracle.Position(startFEN), o.Position())
	assert.Len(t, o.LegalMoves(), 20)
}

func TestChess_DecidedGameHasNoLegalMoves(t *testing.T) {
	o := play(t, "f3", "e5", "g4", "Qh4#")
	assert.Equal(t, oracle.ResultBlack, o.Outcome())
	assert.Empty(t, o.LegalMoves())
	assert.ErrorIs(t, o.ApplyMove("a3"), oracle.ErrIllegalMove)
}

func TestChess_ExportRecord(t *testing.T) {
	o := play(t, "e4", "e5", "Nf3")
	tags := []oracle.Tag{
		{Key: "Event", Value: "Club Night"},
		{Key: "White", Value: "Alice"},
		{Key: "Black", Value: "Bob"},
		{Key: "Result", Value: oracle.ResultDraw},
	}

	text, err := o.ExportRecord(tags, oracle.ResultDraw)
	require.NoError(t, err)
	assert.Contains(t, text, `[Event "Club Night"]`)
	assert.Contains(t, text, `[White "Alice"]`)
	assert.Contains(t, text, `[Result "1/2-1/2"]`)
	assert.Contains(t, text, "Nf3")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(text), "1/2-1/2"))

	// Exporting never changes the live game.
	assert.Equal(t, oracle.ResultUndecided, o.Outcome())
	assert.NoError(t, o.ApplyMove("Nc6"))
}

func TestChess_ExportRecordResultMismatch(t *testing.T) {
	o := play(t, "f3", "e5", "g4", "Qh4#")

	_, err := o.ExportRecord(nil, oracle.ResultWhite)
	assert.ErrorIs(t, err, oracle.ErrResultMismatch)

	text, err := o.ExportRecord(nil, oracle.ResultBlack)
	require.NoError(t, err)
	assert.Contains(t, text, "Qh4#")
}
