package validation

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	// A tag opens with a letter, '/', '!' or '?'; "rank < 5000" is text.
	tagPattern = regexp.MustCompile(`(?s)<[a-zA-Z/!?][^>]*>`)

	spaceRun = regexp.MustCompile(` {2,}`)

	angleStripper = strings.NewReplacer("<", "", ">", "")

	htmlEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#x27;",
		"/", "&#x2F;",
	)
)

// SanitizeText strips markup from free text before it is stored: tags are
// removed, stray angle brackets dropped (collapsing the spaces left around
// them), control characters other than newlines and tabs discarded, and
// surrounding whitespace trimmed.
func SanitizeText(s string) string {
	s = tagPattern.ReplaceAllString(s, "")
	if strings.ContainsAny(s, "<>") {
		s = spaceRun.ReplaceAllString(angleStripper.Replace(s), " ")
	}
	s = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}

// EscapeHTML escapes &, <, >, quotes and slashes for interpolation into HTML
// built outside html/template.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}
