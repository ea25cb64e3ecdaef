package utils

import (
	"strings"
	"unicode/utf8"
)

const ellipsis = "..."

// TruncateForLog trims s and keeps at most limit runes of it for a log preview.
func TruncateForLog(s string, limit int) string {
	if limit <= 0 {
		return ""
	}

	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= limit {
		return s
	}

	var b strings.Builder
	for i, r := range []rune(s) {
		if i == limit {
			break
		}
		b.WriteRune(r)
	}
	b.WriteString(ellipsis)

	return b.String()
}
