package tasks

import (
	"strings"
	"unicode"
)

// CleanOneLine makes user text safe to print in a terminal row: newlines and
// tabs become spaces, other control runes (ESC in particular, so no escape
// sequence can reach the terminal) are dropped, and runs of spaces collapse.
// If maxLen > 0 the result is cut to maxLen runes with a trailing "…".
// It also reports whether anything was removed and whether it was truncated.
func CleanOneLine(s string, maxLen int) (string, bool, bool) {
	orig := s
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\n' || r == '\r' || r == '\t':
			b.WriteRune(' ')
		case unicode.IsControl(r) || r == unicode.ReplacementChar:
			// drop
		default:
			b.WriteRune(r)
		}
	}
	s = strings.Join(strings.Fields(b.String()), " ")

	truncated := false
	if maxLen > 0 {
		rs := []rune(s)
		if len(rs) > maxLen {
			s = string(rs[:maxLen]) + "…"
			truncated = true
		}
	}
	return s, s != orig, truncated
}

// DisplayText is CleanOneLine without the flags.
func DisplayText(s string, maxLen int) string {
	out, _, _ := CleanOneLine(s, maxLen)
	return out
}

// EscapeHTML escapes text for HTML-ish sinks (markdown details blocks).
func EscapeHTML(s string) string {
	r := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		"\"", "&quot;",
		"'", "&#39;",
	)
	return r.Replace(s)
}

// EscapeMarkdown backslash-escapes markdown punctuation so task text renders
// literally inside a markdown document.
func EscapeMarkdown(s string) string {
	var b strings.Builder
	for _, r := range DisplayText(s, 0) {
		if strings.ContainsRune("\\`*_{}[]()#+-.!|>~<&", r) {
			b.WriteRune('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
