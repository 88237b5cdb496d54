package cite

import (
	"strings"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/persona/pkg/persona/corpus"
	"github.com/cognicore/persona/pkg/persona/ingest"
)

func sampleCorpus() *corpus.Corpus {
	return &corpus.Corpus{
		Posts: []ingest.Item{
			{Kind: ingest.KindPost, ID: "p1", Title: "Weekend hiking trip", Body: "Climbed three peaks in the alps", Tag: "hiking", CreatedUTC: 300, Permalink: "https://reddit.com/p1"},
			{Kind: ingest.KindPost, ID: "p2", Title: "", Body: "Python generators explained for beginners", Tag: "Python", CreatedUTC: 200, Permalink: "https://reddit.com/p2"},
		},
		Comments: []ingest.Item{
			{Kind: ingest.KindComment, ID: "c1", Body: strings.Repeat("long comment about python generators ", 10), Tag: "Python", CreatedUTC: 250, Permalink: "https://reddit.com/c1"},
			{Kind: ingest.KindComment, ID: "c2", Body: "Nice photo of the lake", Tag: "pics", CreatedUTC: 100, Permalink: "https://reddit.com/c2"},
		},
	}
}

func TestGroundFirstPolicy(t *testing.T) {
	g := NewGrounder(Options{Policy: PolicyFirst, Max: 3})

	got := g.Ground("anything at all", sampleCorpus())

	require.Len(t, got, 3)
	assert.Equal(t, "Weekend hiking trip", got[0].Title)
	assert.Equal(t, ingest.KindPost, got[0].Kind)
	assert.Equal(t, "https://reddit.com/p1", got[0].URL)
	assert.Equal(t, "hiking", got[0].Tag)
	assert.Equal(t, "Python generators explained for beginners", got[1].Title)
	assert.Equal(t, ingest.KindComment, got[2].Kind)
	assert.Len(t, []rune(got[2].Title), 100)
}

func TestGroundOverlapPolicy(t *testing.T) {
	g := NewGrounder(DefaultOptions())

	got := g.Ground("The user enjoys python generators and writes tutorials", sampleCorpus())

	require.Len(t, got, 4)
	urls := []string{got[0].URL, got[1].URL, got[2].URL, got[3].URL}
	// c1 and p2 both share "python", "generators" and the bigram; c1 is newer.
	assert.Equal(t, []string{
		"https://reddit.com/c1",
		"https://reddit.com/p2",
		"https://reddit.com/p1",
		"https://reddit.com/c2",
	}, urls)
}

func TestGroundBounds(t *testing.T) {
	c := sampleCorpus()

	tests := []struct {
		name string
		max  int
		c    *corpus.Corpus
		want int
	}{
		{name: "zero max", max: 0, c: c, want: 0},
		{name: "negative max", max: -1, c: c, want: 0},
		{name: "nil corpus", max: 5, c: nil, want: 0},
		{name: "empty corpus", max: 5, c: &corpus.Corpus{}, want: 0},
		{name: "fewer items than max", max: 10, c: c, want: 4},
		{name: "capped", max: 2, c: c, want: 2},
	}

	for _, tt := range tests {
		for _, p := range []Policy{PolicyFirst, PolicyOverlap} {
			t.Run(tt.name+"/"+string(p), func(t *testing.T) {
				got := NewGrounder(Options{Policy: p, Max: tt.max}).Ground("python", tt.c)
				require.NotNil(t, got)
				assert.Len(t, got, tt.want)
			})
		}
	}
}

func TestGroundIDsAreUniqueULIDs(t *testing.T) {
	g := NewGrounder(Options{Policy: PolicyFirst, Max: 4})

	seen := make(map[string]struct{})
	for i := 0; i < 3; i++ {
		for _, c := range g.Ground("", sampleCorpus()) {
			_, err := ulid.ParseStrict(c.ID)
			require.NoError(t, err)
			seen[c.ID] = struct{}{}
		}
	}
	assert.Len(t, seen, 12)
}

func TestGroundDoesNotAliasCorpus(t *testing.T) {
	c := sampleCorpus()
	got := NewGrounder(Options{Policy: PolicyFirst, Max: 1}).Ground("", c)

	got[0].Title = "changed"

	assert.Equal(t, "Weekend hiking trip", c.Posts[0].Title)
}

func TestNewGrounderUnknownPolicy(t *testing.T) {
	assert.Equal(t, PolicyOverlap, NewGrounder(Options{Policy: "bogus"}).Policy())
}
