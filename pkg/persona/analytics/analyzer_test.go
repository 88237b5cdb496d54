package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/persona/pkg/persona/ingest"
)

func TestAnalyzerEmpty(t *testing.T) {
	st := NewAnalyzer().Snapshot()

	assert.Zero(t, st.TotalPosts)
	assert.Zero(t, st.TotalComments)
	assert.Zero(t, st.AvgPostScore)
	assert.Zero(t, st.AvgCommentScore)
	assert.Zero(t, st.AvgContentLength)
	assert.Zero(t, st.TagDiversity)
	assert.Empty(t, st.MostActiveTag)
	assert.Empty(t, st.TopTags)
	assert.NotNil(t, st.TagActivity)
	assert.NotNil(t, st.Sentiment)
}

func TestAnalyzerCounts(t *testing.T) {
	a := NewAnalyzer()
	a.Process(ingest.Item{Kind: ingest.KindPost, Tag: "golang", Score: 10, Body: "abcd", Sentiment: ingest.SentimentPositive}, "technology")
	a.Process(ingest.Item{Kind: ingest.KindPost, Tag: "gaming", Score: 4, Body: "ab"}, "gaming")
	a.Process(ingest.Item{Kind: ingest.KindComment, Tag: "golang", Score: -3, Body: "日本語", Sentiment: ingest.SentimentNegative}, "technology")
	a.Process(ingest.Item{Kind: ingest.KindComment, Tag: "", Score: 1, Body: "x"}, "")

	st := a.Snapshot()

	assert.Equal(t, 2, st.TotalPosts)
	assert.Equal(t, 2, st.TotalComments)
	assert.InDelta(t, 7.0, st.AvgPostScore, 1e-9)
	assert.InDelta(t, -1.0, st.AvgCommentScore, 1e-9)
	assert.InDelta(t, 10.0/4.0, st.AvgContentLength, 1e-9)
	assert.Equal(t, map[string]int{"golang": 2, "gaming": 1}, st.TagActivity)
	assert.Equal(t, 2, st.TagDiversity)
	assert.Equal(t, "golang", st.MostActiveTag)
	assert.Equal(t, map[string]int{"technology": 2, "gaming": 1}, st.CategoryActivity)
	assert.Equal(t, map[string]int{ingest.SentimentPositive: 1, ingest.SentimentNegative: 1}, st.Sentiment)
}

func TestAnalyzerTopTagsTieBreak(t *testing.T) {
	a := NewAnalyzer()
	for _, tag := range []string{"zeta", "alpha", "mid", "alpha", "zeta"} {
		a.Process(ingest.Item{Kind: ingest.KindPost, Tag: tag}, "")
	}
	a.Process(ingest.Item{Kind: ingest.KindComment, Tag: "mid"}, "")

	st := a.Snapshot()

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, st.TagNames())
	assert.Equal(t, "zeta", st.MostActiveTag)
}

func TestAnalyzerTopTagsLimit(t *testing.T) {
	a := NewAnalyzer()
	for i := 0; i < 15; i++ {
		a.Process(ingest.Item{Kind: ingest.KindComment, Tag: string(rune('a' + i))}, "")
	}

	st := a.Snapshot()

	require.Len(t, st.TopTags, TopTagLimit)
	assert.Equal(t, "a", st.TopTags[0].Tag)
	assert.Equal(t, "j", st.TopTags[9].Tag)
	assert.Equal(t, 15, st.TagDiversity)
}

func TestSnapshotIsCopy(t *testing.T) {
	a := NewAnalyzer()
	a.Process(ingest.Item{Kind: ingest.KindPost, Tag: "golang"}, "")
	st := a.Snapshot()

	st.TagActivity["golang"] = 99

	assert.Equal(t, 1, a.Snapshot().TagActivity["golang"])
}
