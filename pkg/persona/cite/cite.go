package cite

import (
	"crypto/rand"
	"sort"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/persona/pkg/persona/corpus"
	"github.com/cognicore/persona/pkg/persona/ingest"
)

// Policy selects how citations are matched to an analysis.
type Policy string

const (
	// PolicyFirst cites the first items in corpus order.
	PolicyFirst Policy = "first"
	// PolicyOverlap ranks items by shared unigrams and bigrams with the
	// analysis text.
	PolicyOverlap Policy = "overlap"
)

// DefaultMax is the number of citations attached to a facet.
const DefaultMax = 5

// titleRunes bounds the title derived from a body.
const titleRunes = 100

// Citation references one source item. It is a copy; nothing points back
// into the corpus.
type Citation struct {
	ID    string
	Kind  ingest.Kind
	Title string
	URL   string
	Tag   string
}

// Options configures a Grounder.
type Options struct {
	Policy    Policy
	Max       int
	Tokenizer *ingest.Tokenizer
}

// DefaultOptions returns the overlap policy with DefaultMax citations.
func DefaultOptions() Options {
	return Options{Policy: PolicyOverlap, Max: DefaultMax}
}

// Grounder attaches source citations to analysis text. It is safe for
// concurrent use.
type Grounder struct {
	policy    Policy
	max       int
	tokenizer *ingest.Tokenizer

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// NewGrounder creates a grounder. An unknown policy falls back to overlap; a
// nil tokenizer uses the default stoplist.
func NewGrounder(opts Options) *Grounder {
	if opts.Policy != PolicyFirst {
		opts.Policy = PolicyOverlap
	}
	if opts.Tokenizer == nil {
		opts.Tokenizer = ingest.NewTokenizer(ingest.DefaultStopwords)
	}
	return &Grounder{
		policy:    opts.Policy,
		max:       opts.Max,
		tokenizer: opts.Tokenizer,
		entropy:   ulid.Monotonic(rand.Reader, 0),
	}
}

// Policy returns the active matching policy.
func (g *Grounder) Policy() Policy { return g.policy }

// Ground returns at most Max citations for the analysis. The result is never
// nil.
func (g *Grounder) Ground(analysis string, c *corpus.Corpus) []Citation {
	if g.max <= 0 || c.Empty() {
		return []Citation{}
	}

	items := c.Items()
	if g.policy == PolicyOverlap {
		items = g.rank(analysis, items)
	}
	if len(items) > g.max {
		items = items[:g.max]
	}

	out := make([]Citation, 0, len(items))
	for _, it := range items {
		out = append(out, Citation{
			ID:    g.newID(),
			Kind:  it.Kind,
			Title: citationTitle(it),
			URL:   it.Permalink,
			Tag:   it.Tag,
		})
	}
	return out
}

type scored struct {
	item  ingest.Item
	score int
}

// rank orders items by overlap score, then recency. The sort is stable so
// remaining ties keep corpus order.
func (g *Grounder) rank(analysis string, items []ingest.Item) []ingest.Item {
	query := ingest.Grams(g.tokenizer.Tokenize(analysis))

	candidates := make([]scored, len(items))
	for i, it := range items {
		candidates[i] = scored{item: it, score: overlap(query, ingest.Grams(g.tokenizer.Tokenize(it.Text())))}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].item.CreatedUTC > candidates[j].item.CreatedUTC
	})

	out := make([]ingest.Item, len(candidates))
	for i, cand := range candidates {
		out[i] = cand.item
	}
	return out
}

func overlap(query, doc map[string]struct{}) int {
	if len(doc) < len(query) {
		query, doc = doc, query
	}
	n := 0
	for g := range query {
		if _, ok := doc[g]; ok {
			n++
		}
	}
	return n
}

func (g *Grounder) newID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Now(), g.entropy).String()
}

func citationTitle(it ingest.Item) string {
	if it.Kind == ingest.KindPost && it.Title != "" {
		return it.Title
	}
	return ingest.TruncateRunes(it.Body, titleRunes)
}
