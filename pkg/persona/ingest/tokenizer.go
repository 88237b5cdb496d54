package ingest

import (
	"strings"
	"unicode"
)

// DefaultStopwords is a small English stoplist used when no stoplist file
// is configured.
var DefaultStopwords = []string{
	"a", "about", "after", "all", "also", "am", "an", "and", "any", "are", "as", "at",
	"be", "because", "been", "but", "by", "can", "could", "did", "do", "does", "for",
	"from", "had", "has", "have", "he", "her", "him", "his", "how", "i", "if", "in",
	"into", "is", "it", "its", "just", "me", "more", "most", "my", "no", "not", "of",
	"on", "or", "our", "out", "she", "so", "some", "such", "than", "that", "the",
	"their", "them", "then", "there", "these", "they", "this", "to", "too", "up",
	"us", "very", "was", "we", "were", "what", "when", "which", "who", "will", "with",
	"would", "you", "your",
}

// Tokenizer splits text into lowercase word tokens, dropping stopwords.
type Tokenizer struct {
	stopwords map[string]struct{}
}

// NewTokenizer creates a new tokenizer with the given stopword list
func NewTokenizer(stopwords []string) *Tokenizer {
	stops := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		stops[strings.ToLower(w)] = struct{}{}
	}
	return &Tokenizer{stopwords: stops}
}

// Tokenize splits text on anything that is not a letter, digit, hyphen or
// apostrophe.
func (t *Tokenizer) Tokenize(text string) []string {
	var tokens []string
	var current strings.Builder

	flush := func() {
		if current.Len() == 0 {
			return
		}
		if word := t.processToken(current.String()); word != "" {
			tokens = append(tokens, word)
		}
		current.Reset()
	}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == '-' || r == '\'' {
			current.WriteRune(unicode.ToLower(r))
			continue
		}
		flush()
	}
	flush()

	return tokens
}

func (t *Tokenizer) processToken(token string) string {
	word := strings.Trim(token, "-'")
	if len(word) <= 1 || isNumericOnly(word) {
		return ""
	}
	if _, stop := t.stopwords[word]; stop {
		return ""
	}
	return word
}

// isNumericOnly returns true if the token contains only digits and hyphens.
func isNumericOnly(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) && r != '-' {
			return false
		}
	}
	return true
}

// Grams returns the distinct unigrams and bigrams of a token sequence.
// Bigrams are joined with a single space.
func Grams(tokens []string) map[string]struct{} {
	grams := make(map[string]struct{}, len(tokens)*2)
	for i, tok := range tokens {
		grams[tok] = struct{}{}
		if i+1 < len(tokens) {
			grams[tok+" "+tokens[i+1]] = struct{}{}
		}
	}
	return grams
}
