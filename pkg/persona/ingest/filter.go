package ingest

import (
	"strings"
	"unicode/utf8"
)

// DefaultMinLength is the minimum body length, in characters, for an item
// to be analyzable.
const DefaultMinLength = 10

// minWords rejects one- and two-word replies.
const minWords = 3

var removalSentinels = map[string]struct{}{
	"[deleted]": {},
	"[removed]": {},
	"deleted":   {},
	"removed":   {},
}

// Filter decides whether normalized text is worth analyzing.
type Filter struct {
	MinLength int
}

// NewFilter creates a filter; a non-positive minLength uses DefaultMinLength.
func NewFilter(minLength int) Filter {
	if minLength <= 0 {
		minLength = DefaultMinLength
	}
	return Filter{MinLength: minLength}
}

// IsAnalyzable rejects empty, short, deleted and near-empty text.
func (f Filter) IsAnalyzable(text string) bool {
	if text == "" {
		return false
	}
	if utf8.RuneCountInString(text) < f.MinLength {
		return false
	}
	if _, ok := removalSentinels[strings.ToLower(text)]; ok {
		return false
	}
	if len(strings.Fields(text)) < minWords {
		return false
	}
	return true
}
