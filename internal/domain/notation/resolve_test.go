package notation_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randomtoy/chess-scoresheet/internal/domain/notation"
	"github.com/randomtoy/chess-scoresheet/internal/domain/oracle"
)

var (
	bishopTakes = oracle.LegalMove{Short: "Bxc3", Long: "d2c3"}
	pawnTakes   = oracle.LegalMove{Short: "bxc3", Long: "b2c3"}
	knightF3    = oracle.LegalMove{Short: "Nf3", Long: "g1f3"}
	checkingQ   = oracle.LegalMove{Short: "Qh5+", Long: "d1h5"}
	promotion   = oracle.LegalMove{Short: "e8=Q", Long: "e7e8q"}
)

func legal() []oracle.LegalMove {
	return []oracle.LegalMove{bishopTakes, pawnTakes, knightF3, checkingQ, promotion}
}

func TestResolve_Matches(t *testing.T) {
	cases := []struct {
		name      string
		candidate string
		want      oracle.LegalMove
	}{
		{"exact short form", "Nf3", knightF3},
		{"exact wins over case fold", "Bxc3", bishopTakes},
		{"exact lower case pawn", "bxc3", pawnTakes},
		{"case insensitive", "nF3", knightF3},
		{"long form", "G1F3", knightF3},
		{"long form pawn", "b2c3", pawnTakes},
		{"missing check mark", "Qh5", checkingQ},
		{"extra annotation", "Nf3!?", knightF3},
		{"promotion piece in lower case", "e8=q", promotion},
		{"promotion long form", "e7e8q", promotion},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := notation.Resolve(tc.candidate, legal())
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestResolve_NoMatch(t *testing.T) {
	for _, c := range []string{"z9", "", "Ke2", "+"} {
		_, err := notation.Resolve(c, legal())
		assert.ErrorIs(t, err, notation.ErrNoMatch, "candidate %q", c)
		assert.False(t, errors.Is(err, notation.ErrAmbiguous), "candidate %q", c)
	}
}

func TestResolve_NoLegalMoves(t *testing.T) {
	_, err := notation.Resolve("e4", nil)
	assert.ErrorIs(t, err, notation.ErrNoMatch)
}

func TestResolve_Ambiguous(t *testing.T) {
	moves := []oracle.LegalMove{bishopTakes, pawnTakes}

	_, err := notation.Resolve("BXC3", moves)
	require.ErrorIs(t, err, notation.ErrAmbiguous)
	assert.ErrorIs(t, err, notation.ErrNoMatch)
	assert.Contains(t, err.Error(), "Bxc3")
	assert.Contains(t, err.Error(), "bxc3")
}

func TestResolve_DuplicateLegalEntries(t *testing.T) {
	got, err := notation.Resolve("nf3", []oracle.LegalMove{knightF3, knightF3})
	require.NoError(t, err)
	assert.Equal(t, knightF3, got)
}
