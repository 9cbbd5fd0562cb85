// Package itemcount counts the distinct items a user names while speaking or
// typing a list ("a dog, the sky, a tree").
//
// Two signals are combined: separators in the recognizer's formatted text,
// and silence gaps between the recognized words. An Engine fuses them per
// recording attempt into a count that never decreases and does not repeat
// itself within a short debounce window.
package itemcount

import (
	"regexp"
	"strings"
)

// separatorPattern matches list separators: a comma, a period or semicolon
// followed by whitespace, a newline, or the standalone word "and". Unicode
// spaces such as NBSP count as whitespace.
var separatorPattern = regexp.MustCompile(`,|\.[\s\p{Z}]|;[\s\p{Z}]|\n|\band\b`)

// CountSeparatedItems returns the number of non-empty pieces of text between
// list separators. Any non-blank text counts as at least one item.
func CountSeparatedItems(text string) int {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0
	}

	count := 0
	for _, piece := range separatorPattern.Split(trimmed, -1) {
		if strings.TrimSpace(piece) != "" {
			count++
		}
	}
	return max(count, 1)
}
