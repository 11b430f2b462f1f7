// Package notation turns free-form move text into canonical candidates and
// matches them against a legal move list.
package notation

import (
	"regexp"
	"strings"
)

var (
	moveNumberPrefix = regexp.MustCompile(`^\d+\.+`)
	castlingPattern  = regexp.MustCompile(`^[oO0]-?[oO0](-[oO0])?$`)
)

// Normalize rewrites user-typed move text into the conventional mixed-case
// form: "12. nf3" becomes "Nf3", "0-0-0" becomes "O-O-O". It never fails; an
// empty result means there was nothing to resolve.
func Normalize(raw string) string {
	// Pasted movetext may stack numbers, e.g. "3. 3... e5", and separate
	// them with any Unicode space.
	s := strings.TrimSpace(raw)
	for moveNumberPrefix.MatchString(s) {
		s = strings.TrimSpace(moveNumberPrefix.ReplaceAllString(s, ""))
	}

	if castlingPattern.MatchString(s) {
		return strings.NewReplacer("o", "O", "0", "O").Replace(s)
	}

	s = strings.ToLower(s)
	if s != "" && isPieceLetter(s[0]) {
		s = strings.ToUpper(s[:1]) + s[1:]
	}
	return s
}

// isPieceLetter reports whether b names a piece other than a pawn.
func isPieceLetter(b byte) bool {
	switch b {
	case 'n', 'b', 'r', 'q', 'k':
		return true
	}
	return false
}
