package ingest

import "strings"

// Sentiment labels.
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// Sentiment is a word-list tagger. It counts lexicon hits by substring and
// is a rough placeholder, not a model.
type Sentiment struct {
	positive []string
	negative []string
}

// NewSentiment creates a tagger from positive and negative word lists.
func NewSentiment(positive, negative []string) *Sentiment {
	return &Sentiment{positive: lowerAll(positive), negative: lowerAll(negative)}
}

// DefaultSentiment returns the built-in word lists.
func DefaultSentiment() *Sentiment {
	return NewSentiment(
		[]string{"good", "great", "amazing", "awesome", "love", "like", "happy", "excellent"},
		[]string{"bad", "terrible", "awful", "hate", "dislike", "sad", "angry", "frustrated"},
	)
}

// Label classifies text as positive, negative or neutral.
func (s *Sentiment) Label(text string) string {
	lower := strings.ToLower(text)
	pos, neg := 0, 0
	for _, w := range s.positive {
		if strings.Contains(lower, w) {
			pos++
		}
	}
	for _, w := range s.negative {
		if strings.Contains(lower, w) {
			neg++
		}
	}
	switch {
	case pos > neg:
		return SentimentPositive
	case neg > pos:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

func lowerAll(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			out = append(out, w)
		}
	}
	return out
}
