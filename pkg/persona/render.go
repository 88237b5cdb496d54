package persona

import (
	"fmt"
	"strings"

	"github.com/cognicore/persona/pkg/persona/ingest"
)

const (
	timeLayout       = "2006-01-02 15:04:05"
	renderCitations  = 5
	citationTitleLen = 100
)

var rule = strings.Repeat("=", 80)

const disclaimer = `This persona is generated based on publicly available Reddit activity and should be
used for research and educational purposes only. The analysis represents patterns
observed in the user's online behavior and may not reflect their complete personality
or circumstances.`

// Render formats the document as plain text.
func (d *Document) Render() string {
	var b strings.Builder
	stamp := d.GeneratedAt.Format(timeLayout)

	section(&b, "USER PERSONA: "+d.Subject)
	fmt.Fprintf(&b, "Generated on: %s\n", stamp)
	fmt.Fprintf(&b, "Analysis based on %d posts and %d comments\n\n", d.Posts, d.Comments)

	tags := "None"
	if len(d.ActiveTags) > 0 {
		tags = strings.Join(d.ActiveTags, ", ")
	}
	section(&b, "BASIC INFORMATION")
	fmt.Fprintf(&b, "Username: %s\n", d.Subject)
	fmt.Fprintf(&b, "Account Age: %.0f days\n", d.AccountAgeDays)
	fmt.Fprintf(&b, "Total Posts: %d\n", d.Posts)
	fmt.Fprintf(&b, "Total Comments: %d\n", d.Comments)
	fmt.Fprintf(&b, "Post Karma: %d\n", d.PostKarma)
	fmt.Fprintf(&b, "Comment Karma: %d\n", d.CommentKarma)
	fmt.Fprintf(&b, "Active Subreddits: %s\n\n", tags)

	for _, f := range d.Facets {
		section(&b, f.Heading)
		b.WriteString(f.Analysis)
		b.WriteString("\n\n")
	}

	if d.IncludeCitations {
		section(&b, "CITATIONS & SOURCES")
		b.WriteString("The following sources were used to generate this persona:\n\n")
		if demo, ok := d.Facet("demographics"); ok {
			for i, c := range demo.Citations {
				if i == renderCitations {
					break
				}
				fmt.Fprintf(&b, "%d. %s: %s...\n", i+1, strings.ToUpper(string(c.Kind)), ingest.TruncateRunes(c.Title, citationTitleLen))
				fmt.Fprintf(&b, "   URL: %s\n", orNA(c.URL))
				fmt.Fprintf(&b, "   Subreddit: r/%s\n\n", orNA(c.Tag))
			}
		}
	}

	section(&b, "DISCLAIMER")
	b.WriteString(disclaimer)
	fmt.Fprintf(&b, "\n\nGeneration completed at: %s\n", stamp)
	return b.String()
}

func section(b *strings.Builder, heading string) {
	fmt.Fprintf(b, "%s\n%s\n%s\n\n", rule, heading, rule)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
