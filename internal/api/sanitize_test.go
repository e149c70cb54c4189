package api

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeLog(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"clean string", "Alice", "Alice"},
		{"newline injection", "bob\nlevel=error forged", "bob\\nlevel=error forged"},
		{"carriage return", "eve\rEVIL", "eve\\rEVIL"},
		{"tab", "a\tb", "a\\tb"},
		{"null byte", "zero\x00byte", "zerobyte"},
		{"delete char", "del\x7fete", "delete"},
		{"unicode kept", "名前", "名前"},
		{"empty", "", ""},
		{"truncation", strings.Repeat("a", 300), strings.Repeat("a", 256) + "..."},
		{"exactly 256", strings.Repeat("b", 256), strings.Repeat("b", 256)},
		// 3-byte runes: 85 of them fill 255 bytes, the 86th would split at 256.
		{"truncation on rune boundary", strings.Repeat("あ", 100), strings.Repeat("あ", 85) + "..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeLog(tt.input))
		})
	}
}
