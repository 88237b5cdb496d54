package corpus

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/persona/pkg/persona/ingest"
)

func scenarioSnapshot() ingest.Snapshot {
	return ingest.Snapshot{
		Subject: "spez",
		Posts: []ingest.RawItem{
			{ID: "p1", Kind: ingest.KindPost, Title: "Side project", Body: "I love programming in python and building cool apps", Tag: "Python", CreatedUTC: 200, Permalink: "https://reddit.com/p1"},
			{ID: "p2", Kind: ingest.KindPost, Title: "Gone", Body: "[deleted]", Tag: "Python", CreatedUTC: 100},
		},
		Comments: []ingest.RawItem{
			{ID: "c1", Kind: ingest.KindComment, Body: "This is a great community honestly", Tag: "Python", CreatedUTC: 150},
		},
	}
}

func TestAggregateScenario(t *testing.T) {
	agg := NewAggregator(nil, nil)

	c, st, err := agg.Aggregate(context.Background(), scenarioSnapshot())
	require.NoError(t, err)

	require.Len(t, c.Posts, 1)
	require.Len(t, c.Comments, 1)
	assert.Equal(t, 200.0, c.Posts[0].CreatedUTC)
	assert.Equal(t, 150.0, c.Comments[0].CreatedUTC)

	assert.Equal(t, 1, st.TotalPosts)
	assert.Equal(t, 1, st.TotalComments)
	assert.Equal(t, "Python", st.MostActiveTag)
	assert.Equal(t, []Tag{{Name: "Python", Category: "technology"}}, c.Tags)

	assert.Equal(t, Counts{Fetched: 2, Accepted: 1, Rejected: 1}, c.Report.Posts)
	assert.Equal(t, Counts{Fetched: 1, Accepted: 1}, c.Report.Comments)
}

func TestAggregateMostActiveFallsBackToPostTag(t *testing.T) {
	snap := scenarioSnapshot()
	snap.Comments[0].Tag = "AskReddit"

	_, st, err := NewAggregator(nil, nil).Aggregate(context.Background(), snap)
	require.NoError(t, err)

	assert.Equal(t, "Python", st.MostActiveTag)
}

func TestAggregateStableSort(t *testing.T) {
	body := "a perfectly ordinary comment body"
	snap := ingest.Snapshot{
		Comments: []ingest.RawItem{
			{ID: "a", Kind: ingest.KindComment, Body: body, CreatedUTC: 10},
			{ID: "b", Kind: ingest.KindComment, Body: body, CreatedUTC: 30},
			{ID: "c", Kind: ingest.KindComment, Body: body, CreatedUTC: 10},
			{ID: "d", Kind: ingest.KindComment, Body: body, CreatedUTC: 30},
			{ID: "e", Kind: ingest.KindComment, Body: body, CreatedUTC: 20.5},
		},
	}
	agg := NewAggregator(nil, nil)

	for i := 0; i < 5; i++ {
		c, _, err := agg.Aggregate(context.Background(), snap)
		require.NoError(t, err)

		ids := make([]string, len(c.Comments))
		for j, it := range c.Comments {
			ids[j] = it.ID
		}
		assert.Equal(t, []string{"b", "d", "e", "a", "c"}, ids)
	}
}

func TestAggregateSkipsMalformed(t *testing.T) {
	snap := ingest.Snapshot{
		Posts: []ingest.RawItem{
			{ID: "", Kind: ingest.KindPost, Body: "no identifier on this post"},
			{ID: "ok", Kind: ingest.KindPost, Title: "Fine", Body: "this post body is long enough", CreatedUTC: 5},
			{ID: "bad", Kind: ingest.KindPost, Body: "broken \xff encoding here"},
		},
		Comments: []ingest.RawItem{
			{ID: "wrong", Kind: ingest.KindPost, Body: "a post in the comment list"},
			{ID: "implicit", Body: "kind is taken from the list", CreatedUTC: 1},
		},
	}

	c, st, err := NewAggregator(nil, nil).Aggregate(context.Background(), snap)
	require.NoError(t, err)

	assert.Equal(t, Counts{Fetched: 3, Accepted: 1, Faulted: 2}, c.Report.Posts)
	assert.Equal(t, Counts{Fetched: 2, Accepted: 1, Faulted: 1}, c.Report.Comments)
	assert.Equal(t, 1, st.TotalPosts)
	assert.Equal(t, ingest.KindComment, c.Comments[0].Kind)
}

func TestAggregateEmpty(t *testing.T) {
	c, st, err := NewAggregator(nil, nil).Aggregate(context.Background(), ingest.Snapshot{Subject: "nobody"})
	require.NoError(t, err)

	assert.True(t, c.Empty())
	assert.Empty(t, c.Tags)
	assert.Zero(t, st.TotalPosts)
	assert.Zero(t, st.AvgContentLength)
	assert.Empty(t, st.MostActiveTag)
}

func TestAggregateAccountMetadata(t *testing.T) {
	fetched := time.Unix(1700000000, 0)
	snap := ingest.Snapshot{
		Subject:           "someone",
		AccountCreatedUTC: float64(fetched.Unix() - 30*86400),
		PostKarma:         12,
		CommentKarma:      340,
		FetchedAt:         fetched,
	}

	c, _, err := NewAggregator(nil, nil).Aggregate(context.Background(), snap)
	require.NoError(t, err)

	assert.InDelta(t, 30.0, c.AccountAgeDays, 1e-9)
	assert.Equal(t, 12, c.PostKarma)
	assert.Equal(t, 340, c.CommentKarma)
}

func TestAggregateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := NewAggregator(nil, nil).Aggregate(ctx, scenarioSnapshot())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCorpusHelpers(t *testing.T) {
	c := &Corpus{
		Posts:    []ingest.Item{{ID: "p"}},
		Comments: []ingest.Item{{ID: "c"}},
		Tags:     []Tag{{Name: "a", Category: "hobby"}, {Name: "b", Category: "news"}},
	}

	assert.Len(t, c.Items(), 2)
	assert.Equal(t, "p", c.Items()[0].ID)
	assert.Equal(t, []string{"a", "b"}, c.TagNames())
	assert.Equal(t, "news", c.Category("b"))
	assert.Equal(t, ingest.CategoryOther, c.Category("zzz"))
	assert.True(t, (*Corpus)(nil).Empty())
}
