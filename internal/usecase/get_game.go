package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/randomtoy/chess-scoresheet/internal/domain/game"
	"github.com/randomtoy/chess-scoresheet/internal/ports"
)

// GameGetter handles single-game retrieval and board navigation.
type GameGetter struct {
	sessions ports.SessionStore
	drafts   *Drafts
}

func NewGameGetter(sessions ports.SessionStore, drafts *Drafts) *GameGetter {
	return &GameGetter{sessions: sessions, drafts: drafts}
}

// GameView is a game snapshot plus session-level state.
type GameView struct {
	game.Snapshot
	DraftPending bool
}

func (g *GameGetter) GetGame(ctx context.Context, id uuid.UUID) (GameView, error) {
	gm, err := g.sessions.GetByID(ctx, id)
	if err != nil {
		return GameView{}, err
	}
	return GameView{Snapshot: gm.Snapshot(), DraftPending: g.drafts.Pending(id)}, nil
}

// Navigate moves the playback cursor. A non-nil index seeks directly and
// takes precedence over step.
func (g *GameGetter) Navigate(ctx context.Context, id uuid.UUID, step game.Step, index *int) (GameView, error) {
	gm, err := g.sessions.GetByID(ctx, id)
	if err != nil {
		return GameView{}, err
	}
	if index != nil {
		gm.Seek(*index)
	} else if _, _, err := gm.Navigate(step); err != nil {
		return GameView{}, err
	}
	return GameView{Snapshot: gm.Snapshot(), DraftPending: g.drafts.Pending(id)}, nil
}
