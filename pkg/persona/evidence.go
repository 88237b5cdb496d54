package persona

import (
	"strings"
	"unicode/utf8"

	"github.com/cognicore/persona/pkg/persona/corpus"
	"github.com/cognicore/persona/pkg/persona/ingest"
)

// DefaultPromptBudget caps the evidence text, in characters.
const DefaultPromptBudget = 3000

// BuildEvidence flattens the corpus into the labelled text every facet
// prompt receives. Bodies must be longer than minContent characters to be
// included; the result is cut at budget characters.
func BuildEvidence(c *corpus.Corpus, minContent, budget int) string {
	if c.Empty() {
		return ""
	}
	var parts []string
	for _, p := range c.Posts {
		if p.Title != "" {
			parts = append(parts, "POST TITLE: "+p.Title)
		}
		if utf8.RuneCountInString(p.Body) > minContent {
			parts = append(parts, "POST CONTENT: "+p.Body)
		}
	}
	for _, cm := range c.Comments {
		if utf8.RuneCountInString(cm.Body) > minContent {
			parts = append(parts, "COMMENT: "+cm.Body)
		}
	}
	return ingest.TruncateRunes(strings.Join(parts, "\n\n"), budget)
}
