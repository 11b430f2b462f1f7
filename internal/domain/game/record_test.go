package game_test

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randomtoy/chess-scoresheet/internal/domain/game"
	"github.com/randomtoy/chess-scoresheet/internal/domain/oracle"
	"github.com/randomtoy/chess-scoresheet/internal/pgn"
)

func TestHeaders_Validate(t *testing.T) {
	assert.NoError(t, game.Headers{White: "Alice", Black: "Bob"}.Validate())

	err := game.Headers{White: " ", Black: "", Event: "Say \"hi\""}.Validate()
	require.ErrorIs(t, err, game.ErrInvalidHeaders)
	assert.Contains(t, err.Error(), "white player is required")
	assert.Contains(t, err.Error(), "black player is required")
	assert.Contains(t, err.Error(), "event contains")

	err = game.Headers{White: "Alice", Black: "Bob", Site: "line\nbreak"}.Validate()
	assert.ErrorIs(t, err, game.ErrInvalidHeaders)
}

func TestFinalize_Record(t *testing.T) {
	g, err := game.NewGame(uuid.New(), game.Headers{White: "Alice", Black: "Bob", Event: "Club Night", Round: "4"}, oracle.ChessFactory, testStart)
	require.NoError(t, err)
	playAll(t, g, "e4", "e5", "Nf3", "Nc6")

	finishedAt := testStart.Add(90 * time.Minute)
	rec, err := g.Finalize(game.ResultWhite, "", finishedAt)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, rec.ID)
	assert.Equal(t, g.ID, rec.GameID)
	assert.Equal(t, game.ResultWhite, rec.Result)
	assert.Empty(t, rec.Termination)
	assert.Equal(t, []string{"e4", "e5", "Nf3", "Nc6"}, rec.Moves)
	assert.Equal(t, finishedAt, rec.FinishedAt)

	for _, tag := range []string{
		`[Event "Club Night"]`,
		`[Site "?"]`,
		`[Date "2024.03.09"]`,
		`[Round "4"]`,
		`[White "Alice"]`,
		`[Black "Bob"]`,
		`[Result "1-0"]`,
	} {
		assert.Contains(t, rec.PGN, tag)
	}
	assert.NotContains(t, rec.PGN, "Termination")
	assert.Less(t, strings.Index(rec.PGN, "[Event"), strings.Index(rec.PGN, "[Result"))

	stored, ok := g.Record()
	require.True(t, ok)
	assert.Equal(t, rec, stored)
}

func TestFinalize_PGNRoundTrip(t *testing.T) {
	g := newGame(t)
	moves := []string{"e4", "c5", "Nf3", "d6", "d4", "cxd4", "Nxd4", "Nf6", "Nc3", "a6", "Be2", "e5", "Nb3", "Be7", "O-O", "O-O"}
	playAll(t, g, moves...)

	rec, err := g.Finalize(game.ResultDraw, "agreement", testStart)
	require.NoError(t, err)
	assert.Contains(t, rec.PGN, `[Termination "agreement"]`)

	parsed, err := pgn.Parse(rec.PGN)
	require.NoError(t, err)
	assert.Equal(t, moves, parsed.Moves)
	assert.Equal(t, "Alice", parsed.Tags["White"])
	assert.Equal(t, "1/2-1/2", parsed.Tags["Result"])
}

func TestFinalize_Abandoned(t *testing.T) {
	g := newGame(t)
	playAll(t, g, "d4")

	rec, err := g.Finalize(game.ResultAbandoned, "", testStart)
	require.NoError(t, err)
	assert.Equal(t, game.TerminationAbandoned, rec.Termination)
	assert.Contains(t, rec.PGN, `[Result "*"]`)
	assert.Contains(t, rec.PGN, `[Termination "abandoned"]`)
}

func TestFinalize_Errors(t *testing.T) {
	t.Run("invalid result", func(t *testing.T) {
		g := newGame(t)
		_, err := g.Finalize("2-0", "", testStart)
		assert.ErrorIs(t, err, game.ErrInvalidResult)
		_, ok := g.Record()
		assert.False(t, ok)
	})

	t.Run("result contradicts checkmate", func(t *testing.T) {
		g := newGame(t)
		playAll(t, g, "f3", "e5", "g4", "Qh4#")
		_, err := g.Finalize(game.ResultWhite, "", testStart)
		assert.ErrorIs(t, err, game.ErrResultMismatch)

		rec, err := g.Finalize(game.ResultBlack, "checkmate", testStart)
		require.NoError(t, err)
		assert.Equal(t, game.ResultBlack, rec.Result)
	})

	t.Run("finalized twice", func(t *testing.T) {
		g := newGame(t)
		_, err := g.Finalize(game.ResultDraw, "", testStart)
		require.NoError(t, err)
		_, err = g.Finalize(game.ResultDraw, "", testStart)
		assert.ErrorIs(t, err, game.ErrFinished)
	})
}

func TestRecord_Links(t *testing.T) {
	rec := game.Record{
		Headers:   game.Headers{White: "Alice", Black: "Bob"},
		PGN:       "[White \"Alice\"]\n\n1. e4 *",
		StartedAt: testStart,
	}
	assert.Equal(t, "Alice-vs-Bob-2024-03-09.pgn", rec.Filename())
	assert.True(t, strings.HasPrefix(rec.LichessURL(), "https://lichess.org/analysis/pgn/"))
	assert.NotContains(t, rec.LichessURL(), " ")
	assert.NotContains(t, rec.ChessComURL(), "\n")
	assert.Contains(t, rec.ChessComURL(), "pgn=%5BWhite")
}

func TestRecord_Clone(t *testing.T) {
	rec := game.Record{Moves: []string{"e4"}}
	c := rec.Clone()
	c.Moves[0] = "d4"
	assert.Equal(t, "e4", rec.Moves[0])
}
