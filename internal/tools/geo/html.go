package geo

import (
	"html"
	"regexp"
	"strings"
)

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// stripHTML removes markup from upstream step instructions, which arrive as
// HTML fragments like "Turn <b>left</b> onto <div>Main St</div>".
func stripHTML(s string) string {
	if s == "" {
		return ""
	}
	// Block-level tags separate clauses; keep a space where they were.
	stripped := tagPattern.ReplaceAllString(s, " ")
	stripped = html.UnescapeString(stripped)
	return strings.Join(strings.Fields(stripped), " ")
}
