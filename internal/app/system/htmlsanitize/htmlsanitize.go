// Package htmlsanitize cleans user-supplied text before it is placed into
// HTML email bodies.
package htmlsanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strict = bluemonday.StrictPolicy()
	ugc    = bluemonday.UGCPolicy()
)

// Strip removes every tag and escapes the remaining text. Use it for
// single-line fields such as names, emails and listing titles.
func Strip(s string) string {
	if s == "" {
		return ""
	}
	return strict.Sanitize(s)
}

// Sanitize keeps basic formatting markup and drops anything that can
// execute (scripts, event handlers, javascript: links).
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return ugc.Sanitize(s)
}

// Paragraphs strips markup from a multi-line message and turns its line
// breaks into <br> so it reads the same in an HTML email.
func Paragraphs(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	for i, l := range lines {
		lines[i] = Strip(l)
	}
	return strings.Join(lines, "<br>")
}

// Text turns sanitized HTML back into plain text for the text/plain part
// of an email.
func Text(s string) string {
	return html.UnescapeString(strings.ReplaceAll(s, "<br>", "\n"))
}
