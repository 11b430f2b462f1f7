package notation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/randomtoy/chess-scoresheet/internal/domain/oracle"
)

// Resolution errors. ErrAmbiguous wraps ErrNoMatch so callers that only care
// about "not playable" can check for the latter.
var (
	ErrNoMatch   = errors.New("no_match")
	ErrAmbiguous = fmt.Errorf("ambiguous: %w", ErrNoMatch)
)

// Resolve finds the legal move the candidate names. An exact match on the
// short form wins; otherwise the candidate is compared case-insensitively
// against both forms, and failing that with trailing check and annotation
// marks ignored. More than one distinct move at the deciding step is
// ErrAmbiguous. Resolve does no chess reasoning of its own.
func Resolve(candidate string, legal []oracle.LegalMove) (oracle.LegalMove, error) {
	if candidate == "" {
		return oracle.LegalMove{}, ErrNoMatch
	}
	for _, m := range legal {
		if m.Short == candidate {
			return m, nil
		}
	}

	steps := []func(string) string{
		strings.ToLower,
		func(s string) string { return stripMarks(strings.ToLower(s)) },
	}
	for _, key := range steps {
		want := key(candidate)
		if want == "" {
			continue
		}
		var found []oracle.LegalMove
		for _, m := range legal {
			if key(m.Short) == want || key(m.Long) == want {
				found = appendDistinct(found, m)
			}
		}
		switch len(found) {
		case 0:
			continue
		case 1:
			return found[0], nil
		default:
			return oracle.LegalMove{}, fmt.Errorf("%w: %q matches %s", ErrAmbiguous, candidate, shortForms(found))
		}
	}
	return oracle.LegalMove{}, ErrNoMatch
}

func stripMarks(s string) string {
	return strings.TrimRight(s, "+#!?")
}

func appendDistinct(ms []oracle.LegalMove, m oracle.LegalMove) []oracle.LegalMove {
	for _, have := range ms {
		if have == m {
			return ms
		}
	}
	return append(ms, m)
}

func shortForms(ms []oracle.LegalMove) string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.Short
	}
	return strings.Join(out, ", ")
}
