package util

import (
	"strings"
	"unicode/utf8"
)

// TruncateRunes cuts s to at most n runes without splitting a character.
func TruncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	rs := []rune(s)
	return string(rs[:n])
}

// Preview collapses whitespace and truncates, for debug logs.
func Preview(s string, n int) string {
	flat := strings.Join(strings.Fields(s), " ")
	out := TruncateRunes(flat, n)
	if len(out) < len(flat) {
		out += "…"
	}
	return out
}
