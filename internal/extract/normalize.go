package extract

import (
	"regexp"
	"strings"
)

var (
	quoteReplacer = strings.NewReplacer(
		"“", `"`, // left double quotation mark
		"”", `"`, // right double quotation mark
		"‘", "'", // left single quotation mark
		"’", "'", // right single quotation mark
	)
	whitespaceRun = regexp.MustCompile(`\s+`)
)

// Normalize canonicalizes raw recognized text: curly quotes become their
// straight equivalents, runs of whitespace (including newlines) collapse to
// a single space, and leading/trailing whitespace is trimmed. It is total
// and idempotent; the empty string maps to itself.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	s = quoteReplacer.Replace(s)
	s = whitespaceRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
