package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/randomtoy/chess-scoresheet/internal/domain/game"
	"github.com/randomtoy/chess-scoresheet/internal/domain/oracle"
	"github.com/randomtoy/chess-scoresheet/internal/pgn"
	"github.com/randomtoy/chess-scoresheet/internal/ports"
)

// ImportError reports the PGN move that the scoresheet could not accept.
type ImportError struct {
	Ply  int
	Move string
	Err  error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("import ply %d (%s): %v", e.Ply, e.Move, e.Err)
}

func (e *ImportError) Unwrap() error { return e.Err }

// GameStarter opens new scoresheet sessions.
type GameStarter struct {
	sessions  ports.SessionStore
	newOracle oracle.Factory
	logger    *zap.Logger
}

func NewGameStarter(sessions ports.SessionStore, newOracle oracle.Factory, logger *zap.Logger) *GameStarter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GameStarter{sessions: sessions, newOracle: newOracle, logger: logger}
}

// Start creates an empty game at the initial position.
func (s *GameStarter) Start(ctx context.Context, h game.Headers) (*game.Game, error) {
	g, err := game.NewGame(uuid.New(), h, s.newOracle, time.Now())
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Create(ctx, g); err != nil {
		return nil, err
	}
	s.logger.Info("game started",
		zap.Stringer("game_id", g.ID),
		zap.String("white", h.White),
		zap.String("black", h.Black),
	)
	return g, nil
}

// Import creates a game and plays the main line of a PGN through the normal
// append path, so every move is validated again. Empty headers are taken
// from the PGN tags.
func (s *GameStarter) Import(ctx context.Context, h game.Headers, text string) (*game.Game, error) {
	parsed, err := pgn.Parse(text)
	if err != nil {
		return nil, err
	}
	h = mergeTags(h, parsed.Tags)

	g, err := game.NewGame(uuid.New(), h, s.newOracle, time.Now())
	if err != nil {
		return nil, err
	}
	now := time.Now()
	for i, mv := range parsed.Moves {
		if _, err := g.AppendMove(mv, now); err != nil {
			return nil, &ImportError{Ply: i + 1, Move: mv, Err: err}
		}
	}
	if err := s.sessions.Create(ctx, g); err != nil {
		return nil, err
	}
	s.logger.Info("game imported",
		zap.Stringer("game_id", g.ID),
		zap.Int("moves", len(parsed.Moves)),
	)
	return g, nil
}

func mergeTags(h game.Headers, tags map[string]string) game.Headers {
	fill := func(dst *string, key string) {
		if *dst == "" {
			if v := tags[key]; v != "?" {
				*dst = v
			}
		}
	}
	fill(&h.White, "White")
	fill(&h.Black, "Black")
	fill(&h.Event, "Event")
	fill(&h.Site, "Site")
	fill(&h.Round, "Round")
	return h
}
