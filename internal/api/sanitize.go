package api

import (
	"strings"
	"unicode/utf8"
)

const maxLogValueLen = 256

// sanitizeLog makes a caller-supplied value safe to put in a log field:
// newlines, carriage returns and tabs become visible escapes, other control
// characters are dropped, and the result is capped at 256 bytes.
func sanitizeLog(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r < 0x20 || r == 0x7F:
		default:
			b.WriteRune(r)
		}
	}
	s = b.String()

	if len(s) <= maxLogValueLen {
		return s
	}
	cut := maxLogValueLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
