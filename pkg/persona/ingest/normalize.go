package ingest

import (
	"regexp"
	"strings"
)

var (
	urlPattern     = regexp.MustCompile(`https?://(?:[a-zA-Z0-9$-_@.&+!*(),]|%[0-9a-fA-F]{2})+`)
	mentionPattern = regexp.MustCompile(`/[ur]/\w+`)
	boldPattern    = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicPattern  = regexp.MustCompile(`\*(.*?)\*`)
	strikePattern  = regexp.MustCompile(`~~(.*?)~~`)

	entityReplacer = strings.NewReplacer("&gt;", ">", "&lt;", "<", "&amp;", "&")
)

// Normalize strips URLs, mentions and emphasis markup, decodes the common
// HTML entities and collapses whitespace. It is idempotent: the clean pass is
// repeated until the text stops changing. Every rewrite in a pass strictly
// shortens the text and the whitespace collapse never lengthens it, so the
// loop ends after at most len(text)+1 passes.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	out := cleanPass(text)
	for {
		next := cleanPass(out)
		if next == out {
			return out
		}
		out = next
	}
}

// cleanPass applies each rewrite exactly once. Emphasis unwrapping is a single
// non-recursive replacement so unterminated markers cannot loop.
func cleanPass(text string) string {
	text = urlPattern.ReplaceAllString(text, "")
	text = mentionPattern.ReplaceAllString(text, "")
	text = boldPattern.ReplaceAllString(text, "$1")
	text = italicPattern.ReplaceAllString(text, "$1")
	text = strikePattern.ReplaceAllString(text, "$1")
	text = entityReplacer.Replace(text)
	return strings.Join(strings.Fields(text), " ")
}

// TruncateRunes returns at most n leading characters of s.
func TruncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
