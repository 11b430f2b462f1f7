package game

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"

	"github.com/randomtoy/chess-scoresheet/internal/domain/oracle"
)

// Result values match the PGN result tokens.
type Result string

const (
	ResultWhite     Result = "1-0"
	ResultBlack     Result = "0-1"
	ResultDraw      Result = "1/2-1/2"
	ResultAbandoned Result = "*"
)

// Valid reports whether r is one of the four known results.
func (r Result) Valid() bool {
	switch r {
	case ResultWhite, ResultBlack, ResultDraw, ResultAbandoned:
		return true
	}
	return false
}

// TerminationAbandoned is the Termination tag written for abandoned games
// when the caller gives none.
const TerminationAbandoned = "abandoned"

var (
	ErrInvalidResult  = errors.New("invalid_result")
	ErrResultMismatch = oracle.ErrResultMismatch
	ErrInvalidHeaders = errors.New("invalid_headers")
)

// Headers is the game metadata written to the PGN tag roster.
type Headers struct {
	White string
	Black string
	Event string
	Site  string
	Round string
}

// Validate reports every problem with h at once.
func (h Headers) Validate() error {
	var errs *multierror.Error
	if strings.TrimSpace(h.White) == "" {
		errs = multierror.Append(errs, fmt.Errorf("%w: white player is required", ErrInvalidHeaders))
	}
	if strings.TrimSpace(h.Black) == "" {
		errs = multierror.Append(errs, fmt.Errorf("%w: black player is required", ErrInvalidHeaders))
	}
	fields := []struct{ name, value string }{
		{"white", h.White}, {"black", h.Black}, {"event", h.Event}, {"site", h.Site}, {"round", h.Round},
	}
	for _, f := range fields {
		if strings.ContainsAny(f.value, "\"\\\n") {
			errs = multierror.Append(errs, fmt.Errorf("%w: %s contains a quote, backslash or newline", ErrInvalidHeaders, f.name))
		}
	}
	return errs.ErrorOrNil()
}

// Record is a finished game. It is built once by Finalize and never changed
// afterwards; stores hand out copies.
type Record struct {
	ID          uuid.UUID
	GameID      uuid.UUID
	Headers     Headers
	Result      Result
	Termination string
	Moves       []string
	PGN         string
	StartedAt   time.Time
	FinishedAt  time.Time
}

// Clone returns a deep copy of r.
func (r Record) Clone() Record {
	r.Moves = append([]string(nil), r.Moves...)
	return r
}

// Filename is the download name for the record's PGN.
func (r Record) Filename() string {
	return fmt.Sprintf("%s-vs-%s-%s.pgn", r.Headers.White, r.Headers.Black, r.StartedAt.Format("2006-01-02"))
}

// LichessURL opens the record in the Lichess analysis board.
func (r Record) LichessURL() string {
	return "https://lichess.org/analysis/pgn/" + url.PathEscape(r.PGN)
}

// ChessComURL opens the record in the Chess.com analysis board.
func (r Record) ChessComURL() string {
	return "https://chess.com/analysis?pgn=" + url.QueryEscape(r.PGN)
}

// Finalize confirms the result, exports the PGN and closes the game. It can
// succeed only once; every later mutation returns ErrFinished.
func (g *Game) Finalize(result Result, termination string, now time.Time) (Record, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.finished {
		return Record{}, ErrFinished
	}
	if !result.Valid() {
		return Record{}, fmt.Errorf("%w: %q", ErrInvalidResult, result)
	}
	if result == ResultAbandoned && termination == "" {
		termination = TerminationAbandoned
	}

	text, err := g.oracle.ExportRecord(g.tags(result, termination), string(result))
	if err != nil {
		return Record{}, err
	}

	g.finished = true
	g.record = Record{
		ID:          uuid.New(),
		GameID:      g.ID,
		Headers:     g.Headers,
		Result:      result,
		Termination: termination,
		Moves:       append([]string(nil), g.moves...),
		PGN:         text,
		StartedAt:   g.StartedAt,
		FinishedAt:  now,
	}
	return g.record.Clone(), nil
}

// Record returns the record produced by a successful Finalize.
func (g *Game) Record() (Record, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.finished {
		return Record{}, false
	}
	return g.record.Clone(), true
}

// tags is the Seven Tag Roster followed by Termination when set.
func (g *Game) tags(result Result, termination string) []oracle.Tag {
	tags := []oracle.Tag{
		{Key: "Event", Value: orUnknown(g.Headers.Event)},
		{Key: "Site", Value: orUnknown(g.Headers.Site)},
		{Key: "Date", Value: g.StartedAt.Format("2006.01.02")},
		{Key: "Round", Value: orUnknown(g.Headers.Round)},
		{Key: "White", Value: g.Headers.White},
		{Key: "Black", Value: g.Headers.Black},
		{Key: "Result", Value: string(result)},
	}
	if termination != "" {
		tags = append(tags, oracle.Tag{Key: "Termination", Value: termination})
	}
	return tags
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "?"
	}
	return s
}
