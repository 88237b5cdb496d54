package analytics

import (
	"sort"
	"unicode/utf8"

	"github.com/cognicore/persona/pkg/persona/ingest"
)

// TopTagLimit bounds Statistics.TopTags.
const TopTagLimit = 10

// Analyzer accumulates activity statistics one item at a time. Items must
// be processed posts first, then comments, so tag ties break by first
// appearance in that order.
type Analyzer struct {
	posts, comments         int
	postScore, commentScore int64
	contentRunes            int64

	tagCounts  map[string]int
	tagOrder   map[string]int // first-encounter position
	sentiment  map[string]int
	categories map[string]int
}

// NewAnalyzer creates an empty analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		tagCounts:  make(map[string]int),
		tagOrder:   make(map[string]int),
		sentiment:  make(map[string]int),
		categories: make(map[string]int),
	}
}

// Process consumes one cleaned item. category is the item's tag category;
// it is ignored together with the tag when the tag is empty.
func (a *Analyzer) Process(item ingest.Item, category string) {
	switch item.Kind {
	case ingest.KindPost:
		a.posts++
		a.postScore += int64(item.Score)
	case ingest.KindComment:
		a.comments++
		a.commentScore += int64(item.Score)
	default:
		return
	}

	a.contentRunes += int64(utf8.RuneCountInString(item.Body))

	if item.Sentiment != "" {
		a.sentiment[item.Sentiment]++
	}

	if item.Tag == "" {
		return
	}
	if _, ok := a.tagOrder[item.Tag]; !ok {
		a.tagOrder[item.Tag] = len(a.tagOrder)
	}
	a.tagCounts[item.Tag]++
	if category != "" {
		a.categories[category]++
	}
}

// TagCount is one entry of the tag histogram.
type TagCount struct {
	Tag   string
	Count int
}

// Statistics summarizes a corpus. It is a value; maps are owned copies.
type Statistics struct {
	TotalPosts       int
	TotalComments    int
	AvgPostScore     float64
	AvgCommentScore  float64
	TagActivity      map[string]int
	TopTags          []TagCount
	MostActiveTag    string
	TagDiversity     int
	AvgContentLength float64
	Sentiment        map[string]int
	CategoryActivity map[string]int
}

// Snapshot returns the statistics accumulated so far.
func (a *Analyzer) Snapshot() Statistics {
	st := Statistics{
		TotalPosts:       a.posts,
		TotalComments:    a.comments,
		AvgPostScore:     mean(a.postScore, a.posts),
		AvgCommentScore:  mean(a.commentScore, a.comments),
		TagActivity:      copyCounts(a.tagCounts),
		TagDiversity:     len(a.tagCounts),
		AvgContentLength: mean(a.contentRunes, a.posts+a.comments),
		Sentiment:        copyCounts(a.sentiment),
		CategoryActivity: copyCounts(a.categories),
	}

	st.TopTags = a.topTags(TopTagLimit)
	if len(st.TopTags) > 0 {
		st.MostActiveTag = st.TopTags[0].Tag
	}
	return st
}

func (a *Analyzer) topTags(limit int) []TagCount {
	out := make([]TagCount, 0, len(a.tagCounts))
	for tag, count := range a.tagCounts {
		out = append(out, TagCount{Tag: tag, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return a.tagOrder[out[i].Tag] < a.tagOrder[out[j].Tag]
		}
		return out[i].Count > out[j].Count
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// TagNames returns the TopTags names in rank order.
func (s Statistics) TagNames() []string {
	names := make([]string, len(s.TopTags))
	for i, tc := range s.TopTags {
		names[i] = tc.Tag
	}
	return names
}

func mean(sum int64, n int) float64 {
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func copyCounts(in map[string]int) map[string]int {
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
