package oracle

import (
	"github.com/notnil/chess"
	"github.com/pkg/errors"
)

// Results accepted by ExportRecord.
const (
	ResultWhite     = "1-0"
	ResultBlack     = "0-1"
	ResultDraw      = "1/2-1/2"
	ResultUndecided = "*"
)

// ErrResultMismatch is returned by ExportRecord when the declared result
// contradicts an outcome already decided on the board.
var ErrResultMismatch = errors.New("result_mismatch")

// Chess is an Oracle backed by github.com/notnil/chess.
type Chess struct {
	game  *chess.Game
	moves []string
}

var _ Oracle = (*Chess)(nil)

// NewChess returns an Oracle at the standard starting position.
func NewChess() *Chess {
	return &Chess{game: chess.NewGame()}
}

// ChessFactory is a Factory producing *Chess oracles.
func ChessFactory() Oracle {
	return NewChess()
}

func (c *Chess) Reset() {
	c.game = chess.NewGame()
	c.moves = nil
}

// LegalMoves is empty once the board has decided the game, including the
// automatic draws notnil/chess applies (fivefold, seventy-five moves,
// insufficient material).
func (c *Chess) LegalMoves() []LegalMove {
	if c.game.Outcome() != chess.NoOutcome {
		return nil
	}
	pos := c.game.Position()
	valid := c.game.ValidMoves()
	out := make([]LegalMove, 0, len(valid))
	for _, m := range valid {
		out = append(out, LegalMove{
			Short: chess.AlgebraicNotation{}.Encode(pos, m),
			Long:  chess.UCINotation{}.Encode(pos, m),
		})
	}
	return out
}

func (c *Chess) ApplyMove(short string) error {
	if c.game.Outcome() != chess.NoOutcome {
		return errors.Wrapf(ErrIllegalMove, "apply %q: game already decided (%s)", short, c.game.Outcome())
	}
	if err := c.game.MoveStr(short); err != nil {
		return errors.Wrapf(ErrIllegalMove, "apply %q: %v", short, err)
	}
	c.moves = append(c.moves, short)
	return nil
}

func (c *Chess) Position() Position {
	return Position(c.game.Position().String())
}

func (c *Chess) Outcome() string {
	return string(c.game.Outcome())
}

// ExportRecord replays the moves into a scratch game so that tagging and
// resigning never touch the live one.
func (c *Chess) ExportRecord(tags []Tag, result string) (string, error) {
	g := chess.NewGame()
	for _, mv := range c.moves {
		if err := g.MoveStr(mv); err != nil {
			return "", errors.Wrapf(ErrIllegalMove, "export replay %q: %v", mv, err)
		}
	}

	decided := g.Outcome()
	if decided != chess.NoOutcome && string(decided) != result {
		return "", errors.Wrapf(ErrResultMismatch, "board says %s (%s), declared %s", decided, g.Method(), result)
	}

	if decided == chess.NoOutcome {
		switch result {
		case ResultWhite:
			g.Resign(chess.Black)
		case ResultBlack:
			g.Resign(chess.White)
		case ResultDraw:
			if err := g.Draw(chess.DrawOffer); err != nil {
				return "", errors.Wrap(err, "record draw")
			}
		case ResultUndecided:
		default:
			return "", errors.Errorf("unknown result %q", result)
		}
	}

	for _, t := range tags {
		g.AddTagPair(t.Key, t.Value)
	}
	g.AddTagPair("Result", result)
	return g.String(), nil
}
