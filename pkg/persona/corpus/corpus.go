package corpus

import (
	"github.com/cognicore/persona/pkg/persona/ingest"
)

// Tag is a distinct topical tag annotated with its taxonomy category.
type Tag struct {
	Name     string
	Category string
}

// Counts is the ingestion accounting for one kind of item.
type Counts struct {
	Fetched  int
	Accepted int
	Rejected int // failed the content filter
	Faulted  int // malformed, could not be cleaned
}

// Report holds per-kind ingestion accounting.
type Report struct {
	Posts    Counts
	Comments Counts
}

// Total sums both kinds.
func (r Report) Total() Counts {
	return Counts{
		Fetched:  r.Posts.Fetched + r.Comments.Fetched,
		Accepted: r.Posts.Accepted + r.Comments.Accepted,
		Rejected: r.Posts.Rejected + r.Comments.Rejected,
		Faulted:  r.Posts.Faulted + r.Comments.Faulted,
	}
}

// Corpus is the cleaned, filtered and ordered activity of one subject.
// It is not modified after Aggregate returns.
type Corpus struct {
	Subject        string
	AccountAgeDays float64
	PostKarma      int
	CommentKarma   int

	Posts    []ingest.Item // newest first
	Comments []ingest.Item // newest first
	Tags     []Tag         // sorted by name
	Report   Report
}

// Empty reports whether no item survived filtering.
func (c *Corpus) Empty() bool {
	return c == nil || len(c.Posts)+len(c.Comments) == 0
}

// Items returns posts followed by comments, in corpus order.
func (c *Corpus) Items() []ingest.Item {
	if c == nil {
		return nil
	}
	out := make([]ingest.Item, 0, len(c.Posts)+len(c.Comments))
	out = append(out, c.Posts...)
	return append(out, c.Comments...)
}

// TagNames returns the distinct tag names in sorted order.
func (c *Corpus) TagNames() []string {
	if c == nil {
		return nil
	}
	names := make([]string, len(c.Tags))
	for i, t := range c.Tags {
		names[i] = t.Name
	}
	return names
}

// Category returns the category recorded for a tag, or ingest.CategoryOther.
func (c *Corpus) Category(tag string) string {
	for _, t := range c.Tags {
		if t.Name == tag {
			return t.Category
		}
	}
	return ingest.CategoryOther
}
