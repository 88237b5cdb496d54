package persona

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cognicore/persona/pkg/persona/cite"
	"github.com/cognicore/persona/pkg/persona/ingest"
)

func sampleDocument() *Document {
	facets := make([]FacetResult, len(Facets))
	for i, f := range Facets {
		facets[i] = FacetResult{Name: f.Name, Heading: f.Heading, Analysis: "text for " + f.Name}
	}
	facets[0].Citations = []cite.Citation{
		{Kind: ingest.KindPost, Title: "Side project", URL: "https://reddit.com/p1", Tag: "Python"},
		{Kind: ingest.KindComment, Title: "This is a great community honestly"},
	}
	return &Document{
		Subject:          "kojied",
		GeneratedAt:      time.Date(2024, 3, 1, 12, 30, 5, 0, time.UTC),
		Posts:            1,
		Comments:         1,
		AccountAgeDays:   365.6,
		PostKarma:        10,
		CommentKarma:     20,
		ActiveTags:       []string{"AskReddit", "Python"},
		Facets:           facets,
		IncludeCitations: true,
	}
}

func TestRender(t *testing.T) {
	out := sampleDocument().Render()

	assert.True(t, strings.HasPrefix(out, rule+"\nUSER PERSONA: kojied\n"+rule+"\n\n"))
	assert.Contains(t, out, "Generated on: 2024-03-01 12:30:05\n")
	assert.Contains(t, out, "Analysis based on 1 posts and 1 comments\n")
	assert.Contains(t, out, "Account Age: 366 days\n")
	assert.Contains(t, out, "Active Subreddits: AskReddit, Python\n")
	assert.Contains(t, out, "1. POST: Side project...\n   URL: https://reddit.com/p1\n   Subreddit: r/Python\n")
	assert.Contains(t, out, "2. COMMENT: This is a great community honestly...\n   URL: N/A\n   Subreddit: r/N/A\n")
	assert.True(t, strings.HasSuffix(out, "Generation completed at: 2024-03-01 12:30:05\n"))

	last := -1
	for _, f := range Facets {
		idx := strings.Index(out, f.Heading)
		assert.Greater(t, idx, last, f.Heading)
		last = idx
	}
	assert.Less(t, last, strings.Index(out, "CITATIONS & SOURCES"))
	assert.Less(t, strings.Index(out, "CITATIONS & SOURCES"), strings.Index(out, "DISCLAIMER"))
}

func TestRenderWithoutCitations(t *testing.T) {
	doc := sampleDocument()
	doc.IncludeCitations = false

	out := doc.Render()

	assert.NotContains(t, out, "CITATIONS & SOURCES")
	assert.Contains(t, out, "DISCLAIMER")
}

func TestRenderLimitsCitations(t *testing.T) {
	doc := sampleDocument()
	doc.Facets[0].Citations = nil
	for i := 0; i < 8; i++ {
		doc.Facets[0].Citations = append(doc.Facets[0].Citations, cite.Citation{Kind: ingest.KindPost, Title: "t"})
	}

	out := doc.Render()

	assert.Contains(t, out, "5. POST: t...")
	assert.NotContains(t, out, "6. POST")
}
