package modinfo

import (
	"strings"
	"unicode/utf8"
)

// LineHandler receives the classified lines of a dialect document.
type LineHandler interface {
	Header(text string)
	Item(text string)
	Text(text string)
}

// Parse splits content into lines and feeds them to h. Empty lines are
// skipped. Nil content is a no-op so an absent file leaves h untouched.
func Parse(content []byte, h LineHandler) {
	if len(content) == 0 {
		return
	}
	for _, line := range splitLines(string(content)) {
		switch {
		case line == "":
		case strings.HasPrefix(line, "# "):
			h.Header(line[2:])
		case strings.HasPrefix(line, "* "):
			h.Item(line[2:])
		default:
			h.Text(line)
		}
	}
}

// splitLines breaks on every line boundary recognized by Unicode-aware
// editors: \n, \r\n, \r, vertical tab, form feed, the ASCII file/group/record
// separators, NEL, LINE SEPARATOR and PARAGRAPH SEPARATOR.
func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if isLineBreak(r) {
			lines = append(lines, s[start:i])
			i += size
			if r == '\r' && i < len(s) && s[i] == '\n' {
				i++
			}
			start = i
			continue
		}
		i += size
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}

func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', 0x1c, 0x1d, 0x1e, 0x85, 0x2028, 0x2029:
		return true
	}
	return false
}
