package cmd

import "strings"

// sanitize replaces unsafe runes with '?' in user-supplied text (paths,
// element refs, issue messages) before it reaches human-readable output.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if isUnsafeRune(r) {
			return '?'
		}
		return r
	}, s)
}

// isUnsafeRune reports C0 controls, DEL, C1 controls (some terminals read
// 0x9B as CSI) and the bidi embedding, override and isolate marks.
func isUnsafeRune(r rune) bool {
	switch {
	case r < 0x20, r == 0x7F:
		return true
	case r >= 0x80 && r <= 0x9F:
		return true
	case r >= 0x202A && r <= 0x202E, r >= 0x2066 && r <= 0x2069:
		return true
	default:
		return false
	}
}
