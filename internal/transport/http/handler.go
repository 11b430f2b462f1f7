package http

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/randomtoy/chess-scoresheet/internal/domain/game"
	"github.com/randomtoy/chess-scoresheet/internal/ports"
	"github.com/randomtoy/chess-scoresheet/internal/usecase"
)

// legalMoveJSON is the wire representation of one legal move.
type legalMoveJSON struct {
	SAN string `json:"san"`
	UCI string `json:"uci"`
}

type attemptJSON struct {
	Input     string    `json:"input"`
	Candidate string    `json:"candidate"`
	Move      string    `json:"move,omitempty"`
	Error     string    `json:"error,omitempty"`
	At        time.Time `json:"at"`
}

type headersJSON struct {
	White string `json:"white"`
	Black string `json:"black"`
	Event string `json:"event"`
	Site  string `json:"site"`
	Round string `json:"round"`
}

func (h headersJSON) headers() game.Headers {
	return game.Headers{White: h.White, Black: h.Black, Event: h.Event, Site: h.Site, Round: h.Round}
}

func toHeadersJSON(h game.Headers) headersJSON {
	return headersJSON{White: h.White, Black: h.Black, Event: h.Event, Site: h.Site, Round: h.Round}
}

// gameJSON is the wire representation of an in-progress game.
type gameJSON struct {
	GameID       string          `json:"game_id"`
	Headers      headersJSON     `json:"headers"`
	StartedAt    time.Time       `json:"started_at"`
	Moves        []string        `json:"moves"`
	Positions    []string        `json:"positions"`
	Repetition   bool            `json:"threefold_repetition"`
	Cursor       int             `json:"cursor"`
	MoveNumber   int             `json:"move_number"`
	FEN          string          `json:"fen"`
	Outcome      string          `json:"outcome"`
	LegalMoves   []legalMoveJSON `json:"legal_moves"`
	DraftPending bool            `json:"draft_pending"`
	LastAttempt  *attemptJSON    `json:"last_attempt"`
}

func toGameJSON(s game.Snapshot, draftPending bool) *gameJSON {
	positions := make([]string, len(s.Positions))
	for i, p := range s.Positions {
		positions[i] = string(p)
	}
	legal := make([]legalMoveJSON, len(s.LegalMoves))
	for i, m := range s.LegalMoves {
		legal[i] = legalMoveJSON{SAN: m.Short, UCI: m.Long}
	}
	var last *attemptJSON
	if s.LastAttempt != nil {
		last = &attemptJSON{
			Input:     s.LastAttempt.Input,
			Candidate: s.LastAttempt.Candidate,
			Move:      s.LastAttempt.Move,
			Error:     s.LastAttempt.Err,
			At:        s.LastAttempt.At,
		}
	}
	return &gameJSON{
		GameID:       s.ID.String(),
		Headers:      toHeadersJSON(s.Headers),
		StartedAt:    s.StartedAt,
		Moves:        s.Moves,
		Positions:    positions,
		Repetition:   s.Repeated,
		Cursor:       s.Cursor,
		MoveNumber:   s.MoveNumber,
		FEN:          string(s.Position),
		Outcome:      s.Outcome,
		LegalMoves:   legal,
		DraftPending: draftPending,
		LastAttempt:  last,
	}
}

// recordJSON is the wire representation of domain/game.Record.
type recordJSON struct {
	RecordID    string      `json:"record_id"`
	GameID      string      `json:"game_id"`
	Headers     headersJSON `json:"headers"`
	Result      string      `json:"result"`
	Termination string      `json:"termination,omitempty"`
	Moves       []string    `json:"moves"`
	PGN         string      `json:"pgn"`
	StartedAt   time.Time   `json:"started_at"`
	FinishedAt  time.Time   `json:"finished_at"`
	Links       linksJSON   `json:"links"`
}

type linksJSON struct {
	Lichess  string `json:"lichess"`
	ChessCom string `json:"chess_com"`
	Download string `json:"download"`
}

func toRecordJSON(r game.Record) recordJSON {
	moves := r.Moves
	if moves == nil {
		moves = []string{}
	}
	return recordJSON{
		RecordID:    r.ID.String(),
		GameID:      r.GameID.String(),
		Headers:     toHeadersJSON(r.Headers),
		Result:      string(r.Result),
		Termination: r.Termination,
		Moves:       moves,
		PGN:         r.PGN,
		StartedAt:   r.StartedAt,
		FinishedAt:  r.FinishedAt,
		Links: linksJSON{
			Lichess:  r.LichessURL(),
			ChessCom: r.ChessComURL(),
			Download: "/api/v1/records/" + r.ID.String() + "/pgn",
		},
	}
}

// Handlers holds all usecase dependencies.
type Handlers struct {
	starter   *usecase.GameStarter
	getter    *usecase.GameGetter
	submitter *usecase.MoveSubmitter
	undoer    *usecase.MoveUndoer
	finisher  *usecase.GameFinisher
	library   *usecase.RecordLibrary
}

func NewHandlers(
	starter *usecase.GameStarter,
	getter *usecase.GameGetter,
	submitter *usecase.MoveSubmitter,
	undoer *usecase.MoveUndoer,
	finisher *usecase.GameFinisher,
	library *usecase.RecordLibrary,
) *Handlers {
	return &Handlers{
		starter:   starter,
		getter:    getter,
		submitter: submitter,
		undoer:    undoer,
		finisher:  finisher,
		library:   library,
	}
}

func parseID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, ports.ErrNotFound
	}
	return id, nil
}

func (h *Handlers) handleHealthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handlers) handleStartGame(c echo.Context) error {
	var body headersJSON
	if err := c.Bind(&body); err != nil {
		return writeErr(c, err)
	}
	g, err := h.starter.Start(c.Request().Context(), body.headers())
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusCreated, toGameJSON(g.Snapshot(), false))
}

func (h *Handlers) handleImportGame(c echo.Context) error {
	var body struct {
		headersJSON
		PGN string `json:"pgn"`
	}
	if err := c.Bind(&body); err != nil {
		return writeErr(c, err)
	}
	g, err := h.starter.Import(c.Request().Context(), body.headers(), body.PGN)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusCreated, toGameJSON(g.Snapshot(), false))
}

func (h *Handlers) handleGetGame(c echo.Context) error {
	id, err := parseID(c, "game_id")
	if err != nil {
		return writeErr(c, err)
	}
	v, err := h.getter.GetGame(c.Request().Context(), id)
	if err != nil {
		return writeErr(c, err)
	}
	c.Response().Header().Set("Cache-Control", "no-store")
	return c.JSON(http.StatusOK, toGameJSON(v.Snapshot, v.DraftPending))
}

func (h *Handlers) handleSubmitMove(c echo.Context) error {
	id, err := parseID(c, "game_id")
	if err != nil {
		return writeErr(c, err)
	}
	var body struct {
		Move string `json:"move"`
	}
	if err := c.Bind(&body); err != nil {
		return writeErr(c, err)
	}

	res, err := h.submitter.SubmitMove(c.Request().Context(), id, body.Move)
	if err != nil {
		return writeErr(c, err)
	}

	c.Response().Header().Set("Cache-Control", "no-store")
	return c.JSON(http.StatusOK, map[string]any{
		"accepted": true,
		"move": map[string]any{
			"input":     res.Move.Input,
			"candidate": res.Move.Candidate,
			"san":       res.Move.Move.Short,
			"uci":       res.Move.Move.Long,
			"ply":       res.Move.Ply,
		},
		"draft_cancelled": res.CancelledDraft,
		"game":            toGameJSON(res.Game, false),
	})
}

func (h *Handlers) handleDraft(c echo.Context) error {
	id, err := parseID(c, "game_id")
	if err != nil {
		return writeErr(c, err)
	}
	var body struct {
		Text string `json:"text"`
	}
	if err := c.Bind(&body); err != nil {
		return writeErr(c, err)
	}
	scheduled, err := h.submitter.Draft(c.Request().Context(), id, body.Text)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusAccepted, map[string]bool{"scheduled": scheduled})
}

func (h *Handlers) handleUndo(c echo.Context) error {
	id, err := parseID(c, "game_id")
	if err != nil {
		return writeErr(c, err)
	}
	res, err := h.undoer.Undo(c.Request().Context(), id)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"removed": res.Removed,
		"game":    toGameJSON(res.Game, false),
	})
}

func (h *Handlers) handleCursor(c echo.Context) error {
	id, err := parseID(c, "game_id")
	if err != nil {
		return writeErr(c, err)
	}
	var body struct {
		Step  string `json:"step"`
		Index *int   `json:"index"`
	}
	if err := c.Bind(&body); err != nil {
		return writeErr(c, err)
	}
	v, err := h.getter.Navigate(c.Request().Context(), id, game.Step(body.Step), body.Index)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, toGameJSON(v.Snapshot, v.DraftPending))
}

func (h *Handlers) handleFinish(c echo.Context) error {
	id, err := parseID(c, "game_id")
	if err != nil {
		return writeErr(c, err)
	}
	var body struct {
		Result      string `json:"result"`
		Termination string `json:"termination"`
	}
	if err := c.Bind(&body); err != nil {
		return writeErr(c, err)
	}
	rec, err := h.finisher.Finish(c.Request().Context(), id, game.Result(body.Result), body.Termination)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusCreated, toRecordJSON(rec))
}

func (h *Handlers) handleListRecords(c echo.Context) error {
	participant := c.QueryParam("participant")
	if participant == "" {
		return c.JSON(http.StatusBadRequest, Problem{
			Type:   errBase + "/missing-participant",
			Title:  "Bad Request",
			Status: http.StatusBadRequest,
			Detail: "participant query parameter is required.",
		})
	}
	recs, err := h.library.List(c.Request().Context(), participant)
	if err != nil {
		return writeErr(c, err)
	}
	out := make([]recordJSON, len(recs))
	for i, r := range recs {
		out[i] = toRecordJSON(r)
	}
	return c.JSON(http.StatusOK, map[string]any{"records": out})
}

func (h *Handlers) handleGetRecord(c echo.Context) error {
	id, err := parseID(c, "record_id")
	if err != nil {
		return writeErr(c, err)
	}
	rec, err := h.library.Get(c.Request().Context(), id)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, toRecordJSON(rec))
}

func (h *Handlers) handleDownloadPGN(c echo.Context) error {
	id, err := parseID(c, "record_id")
	if err != nil {
		return writeErr(c, err)
	}
	rec, err := h.library.Get(c.Request().Context(), id)
	if err != nil {
		return writeErr(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+rec.Filename()+`"`)
	return c.Blob(http.StatusOK, "application/x-chess-pgn", []byte(rec.PGN))
}

func (h *Handlers) handleDeleteRecord(c echo.Context) error {
	id, err := parseID(c, "record_id")
	if err != nil {
		return writeErr(c, err)
	}
	if err := h.library.Delete(c.Request().Context(), id); err != nil {
		return writeErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
