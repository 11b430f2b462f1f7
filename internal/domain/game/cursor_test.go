package game_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randomtoy/chess-scoresheet/internal/domain/game"
)

func TestNavigate(t *testing.T) {
	g := newGame(t)
	playAll(t, g, "e4", "e5", "Nf3")
	positions := g.Snapshot().Positions

	steps := []struct {
		step game.Step
		want int
	}{
		{game.StepFirst, 0},
		{game.StepPrev, 0},
		{game.StepNext, 1},
		{game.StepNext, 2},
		{game.StepLast, 3},
		{game.StepNext, 3},
		{game.StepPrev, 2},
	}
	for _, s := range steps {
		cursor, pos, err := g.Navigate(s.step)
		require.NoError(t, err)
		assert.Equal(t, s.want, cursor, "after %s", s.step)
		assert.Equal(t, positions[s.want], pos)
	}
	assert.Equal(t, []string{"e4", "e5", "Nf3"}, g.Moves())
}

func TestNavigate_UnknownStep(t *testing.T) {
	g := newGame(t)
	playAll(t, g, "e4")

	cursor, _, err := g.Navigate("sideways")
	assert.ErrorIs(t, err, game.ErrUnknownStep)
	assert.Equal(t, 1, cursor)
}

func TestSeek(t *testing.T) {
	g := newGame(t)
	playAll(t, g, "d4", "d5", "c4")

	cursor, pos := g.Seek(2)
	assert.Equal(t, 2, cursor)
	assert.Equal(t, g.Snapshot().Positions[2], pos)

	cursor, _ = g.Seek(-5)
	assert.Equal(t, 0, cursor)
	cursor, _ = g.Seek(99)
	assert.Equal(t, 3, cursor)
}

func TestSnapshot_MoveNumber(t *testing.T) {
	g := newGame(t)
	playAll(t, g, "e4", "e5", "Nf3", "Nc6")

	want := []int{0, 1, 1, 2, 2}
	for i, n := range want {
		g.Seek(i)
		s := g.Snapshot()
		assert.Equal(t, n, s.MoveNumber, "cursor %d", i)
		assert.Equal(t, s.Positions[i], s.Position)
	}
}

func TestAppendMove_ResetsCursorToEnd(t *testing.T) {
	g := newGame(t)
	playAll(t, g, "e4", "e5")
	g.Seek(0)

	playAll(t, g, "Nf3")
	assert.Equal(t, 3, g.Snapshot().Cursor)

	g.Seek(1)
	_, err := g.Undo()
	require.NoError(t, err)
	assert.Equal(t, 2, g.Snapshot().Cursor)
}
