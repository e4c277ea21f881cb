package core

import (
	"regexp"
	"strings"
)

// Ellipsis is appended to text cut at the length cap.
const Ellipsis = "…"

var (
	markupTag  = regexp.MustCompile(`<[^>]+>`)
	lineBreaks = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")
)

// Sanitize strips markup, folds line breaks into spaces, trims, and caps the
// result at maxLen runes. A non-positive maxLen disables the cap.
// Markup stripping is best effort and not a security boundary.
func Sanitize(raw string, maxLen int) string {
	text := markupTag.ReplaceAllString(raw, "")
	text = lineBreaks.Replace(text)
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	if maxLen > 0 {
		runes := []rune(text)
		if len(runes) > maxLen {
			text = string(runes[:maxLen]) + Ellipsis
		}
	}
	return text
}
