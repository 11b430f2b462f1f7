package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/randomtoy/chess-scoresheet/internal/domain/game"
	"github.com/randomtoy/chess-scoresheet/internal/pgn"
	"github.com/randomtoy/chess-scoresheet/internal/ports"
)

const errBase = "https://errors.chess-scoresheet.local"

// Problem is an RFC 7807 problem document.
type Problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

// MoveProblem adds a machine-readable code to move and result failures.
type MoveProblem struct {
	Problem
	Code  string `json:"code"`
	Input string `json:"input,omitempty"`
}

func unprocessable(c echo.Context, code, detail string, err error) error {
	return c.JSON(http.StatusUnprocessableEntity, MoveProblem{
		Problem: Problem{
			Type:   errBase + "/" + code,
			Title:  "Unprocessable Entity",
			Status: http.StatusUnprocessableEntity,
			Detail: detail + " " + err.Error(),
		},
		Code: code,
	})
}

// writeErr maps a domain/usecase error to the correct HTTP response.
func writeErr(c echo.Context, err error) error {
	switch {
	case errors.Is(err, ports.ErrNotFound):
		return c.JSON(http.StatusNotFound, Problem{
			Type:   errBase + "/not-found",
			Title:  "Not Found",
			Status: http.StatusNotFound,
			Detail: "Resource not found.",
		})
	case errors.Is(err, game.ErrInvalidInput):
		// Nothing to resolve: a no-op, not a failure.
		return c.NoContent(http.StatusNoContent)
	case errors.Is(err, game.ErrAmbiguous):
		return unprocessable(c, "ambiguous_move", "Move matches more than one legal move.", err)
	case errors.Is(err, game.ErrNoMatch):
		return unprocessable(c, "no_match", "Move does not match any legal move.", err)
	case errors.Is(err, game.ErrInvalidResult):
		return unprocessable(c, "invalid_result", "Result must be 1-0, 0-1, 1/2-1/2 or *.", err)
	case errors.Is(err, game.ErrResultMismatch):
		return unprocessable(c, "result_mismatch", "Result contradicts the position on the board.", err)
	case errors.Is(err, game.ErrInvalidHeaders):
		return unprocessable(c, "invalid_headers", "Game headers are invalid.", err)
	case errors.Is(err, game.ErrUnknownStep):
		return unprocessable(c, "unknown_step", "Step must be first, prev, next or last.", err)
	case errors.Is(err, pgn.ErrEmpty), errors.Is(err, pgn.ErrInvalid):
		return unprocessable(c, "invalid_pgn", "PGN text could not be read.", err)
	case errors.Is(err, game.ErrEmptyHistory):
		return c.JSON(http.StatusConflict, MoveProblem{
			Problem: Problem{
				Type:   errBase + "/empty-history",
				Title:  "Conflict",
				Status: http.StatusConflict,
				Detail: "No moves to undo.",
			},
			Code: "empty_history",
		})
	case errors.Is(err, game.ErrFinished), errors.Is(err, ports.ErrAlreadyExists):
		return c.JSON(http.StatusConflict, Problem{
			Type:   errBase + "/conflict",
			Title:  "Conflict",
			Status: http.StatusConflict,
			Detail: "Game is already finished.",
		})
	case errors.Is(err, game.ErrOracleInconsistency):
		return c.JSON(http.StatusInternalServerError, Problem{
			Type:   errBase + "/oracle-inconsistency",
			Title:  "Internal Server Error",
			Status: http.StatusInternalServerError,
			Detail: "Game state could not be replayed; the game session was closed.",
		})
	default:
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return c.JSON(he.Code, Problem{
				Type:   errBase + "/bad-request",
				Title:  http.StatusText(he.Code),
				Status: he.Code,
				Detail: "Request could not be decoded.",
			})
		}
		return c.JSON(http.StatusInternalServerError, Problem{
			Type:   errBase + "/internal",
			Title:  "Internal Server Error",
			Status: http.StatusInternalServerError,
			Detail: "Unexpected error.",
		})
	}
}
