// Package pgn reads PGN movetext with github.com/corentings/chess/v2, a reader
// independent of the rules oracle that writes it.
package pgn

import (
	"errors"
	"fmt"
	"strings"

	"github.com/corentings/chess/v2"
)

var (
	// ErrEmpty is returned when the text holds no game.
	ErrEmpty = errors.New("pgn: no game found")
	// ErrInvalid wraps reader failures on malformed text.
	ErrInvalid = errors.New("pgn: invalid")
)

// rosterKeys are the tags Parse reads back.
var rosterKeys = []string{"Event", "Site", "Date", "Round", "White", "Black", "Result", "Termination"}

// bareHeader makes tagless movetext readable; the reader only starts a game
// at a tag section.
const bareHeader = "[Event \"?\"]\n\n"

// Game is the part of a parsed PGN game the scoresheet uses.
type Game struct {
	Tags    map[string]string
	Moves   []string
	Outcome string
}

// Parse reads the first game in text and returns its main line as SAN.
func Parse(text string) (Game, error) {
	if strings.TrimSpace(text) == "" {
		return Game{}, ErrEmpty
	}
	if !strings.HasPrefix(strings.TrimSpace(text), "[") {
		text = bareHeader + text
	}
	opt, err := chess.PGN(strings.NewReader(text))
	if err != nil {
		return Game{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	g := chess.NewGame(opt)

	moves := g.Moves()
	positions := g.Positions()
	if len(positions) < len(moves)+1 {
		return Game{}, fmt.Errorf("%w: %d positions for %d moves", ErrInvalid, len(positions), len(moves))
	}
	sans := make([]string, len(moves))
	for i, m := range moves {
		sans[i] = chess.AlgebraicNotation{}.Encode(positions[i], m)
	}

	tags := make(map[string]string, len(rosterKeys))
	for _, k := range rosterKeys {
		if v := g.GetTagPair(k); v != "" {
			tags[k] = v
		}
	}
	outcome := string(g.Outcome())
	if outcome == "" {
		outcome = string(chess.NoOutcome)
	}
	return Game{Tags: tags, Moves: sans, Outcome: outcome}, nil
}

// Moves is Parse reduced to the move list.
func Moves(text string) ([]string, error) {
	g, err := Parse(text)
	if err != nil {
		return nil, err
	}
	return g.Moves, nil
}
