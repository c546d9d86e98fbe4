package tgui

import "unicode/utf8"

// TruncRunes shortens s to at most n runes, marking a cut with an ellipsis.
// Used for display names embedded into bot replies.
func TruncRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "…"
}
