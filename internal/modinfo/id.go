package modinfo

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var lower = cases.Lower(language.Und)

// CreateIDFromName derives the identifier used to join and address
// creators, categories and tags. The name is lowercased with full Unicode
// case mapping, each run of spaces becomes one "-", "/" becomes "and", "\"
// becomes "-", and any remaining whitespace is dropped.
//
// Distinct names may still map to the same id; no disambiguation is applied.
func CreateIDFromName(name string) string {
	s := lower.String(name)

	var b strings.Builder
	b.Grow(len(s))
	inSpaces := false
	for _, r := range s {
		if r == ' ' {
			if !inSpaces {
				b.WriteByte('-')
			}
			inSpaces = true
			continue
		}
		inSpaces = false
		switch {
		case r == '/':
			b.WriteString("and")
		case r == '\\':
			b.WriteByte('-')
		case isIDSpace(r):
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// isIDSpace matches unicode whitespace plus the ASCII information separators.
func isIDSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}
