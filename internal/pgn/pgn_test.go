package pgn_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randomtoy/chess-scoresheet/internal/domain/oracle"
	"github.com/randomtoy/chess-scoresheet/internal/pgn"
)

const italian = `[Event "Casual"]
[Site "?"]
[White "Carol"]
[Black "Dave"]
[Result "*"]

1. e4 e5 2. Nf3 Nc6 3. Bc4 Bc5 4. O-O Nf6 *
`

func TestParse(t *testing.T) {
	g, err := pgn.Parse(italian)
	require.NoError(t, err)

	assert.Equal(t, []string{"e4", "e5", "Nf3", "Nc6", "Bc4", "Bc5", "O-O", "Nf6"}, g.Moves)
	assert.Equal(t, "Carol", g.Tags["White"])
	assert.Equal(t, "Dave", g.Tags["Black"])
	assert.Equal(t, "*", g.Outcome)
}

func TestParse_MovetextOnly(t *testing.T) {
	g, err := pgn.Parse("1. e4 e5 2. Nf3 *")
	require.NoError(t, err)

	assert.Equal(t, []string{"e4", "e5", "Nf3"}, g.Moves)
	assert.Equal(t, "*", g.Outcome)
	assert.Empty(t, g.Tags["White"])
}

func TestParse_Empty(t *testing.T) {
	_, err := pgn.Parse("  \n ")
	assert.ErrorIs(t, err, pgn.ErrEmpty)
}

func TestMoves_RoundTripsOracleExport(t *testing.T) {
	moves := []string{"d4", "Nf6", "c4", "e6", "Nc3", "Bb4", "Qc2", "O-O", "a3", "Bxc3+", "Qxc3"}
	o := oracle.NewChess()
	for _, mv := range moves {
		require.NoError(t, o.ApplyMove(mv))
	}
	text, err := o.ExportRecord([]oracle.Tag{{Key: "White", Value: "Alice"}, {Key: "Black", Value: "Bob"}}, oracle.ResultUndecided)
	require.NoError(t, err)

	got, err := pgn.Moves(text)
	require.NoError(t, err)
	assert.Equal(t, moves, got)
}
