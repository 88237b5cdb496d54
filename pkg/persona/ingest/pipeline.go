package ingest

// Pipeline turns raw fetched records into cleaned items:
// validate → normalize → (optional) sentiment tagging.
// Filtering is left to the caller so rejected and faulted items can be
// counted separately.
type Pipeline struct {
	filter    Filter
	taxonomy  *Taxonomy
	sentiment *Sentiment
}

// NewPipeline creates a pipeline. A nil taxonomy uses DefaultTaxonomy; a nil
// sentiment tagger disables sentiment labels.
func NewPipeline(filter Filter, taxonomy *Taxonomy, sentiment *Sentiment) *Pipeline {
	if taxonomy == nil {
		taxonomy = DefaultTaxonomy()
	}
	return &Pipeline{filter: filter, taxonomy: taxonomy, sentiment: sentiment}
}

// Taxonomy returns the tag classifier in use.
func (p *Pipeline) Taxonomy() *Taxonomy { return p.taxonomy }

// Clean validates and normalizes one raw record. It returns an error for
// malformed records; the item is then unusable.
func (p *Pipeline) Clean(raw RawItem) (Item, error) {
	if err := raw.Validate(); err != nil {
		return Item{}, err
	}

	item := Item{
		Kind:        raw.Kind,
		ID:          raw.ID,
		Body:        Normalize(raw.Body),
		Tag:         raw.Tag,
		CreatedUTC:  raw.CreatedUTC,
		Score:       raw.Score,
		Permalink:   raw.Permalink,
		ParentTitle: Normalize(raw.ParentTitle),
	}
	if raw.Kind == KindPost {
		item.Title = Normalize(raw.Title)
		item.UpvoteRatio = raw.UpvoteRatio
		item.NumComments = raw.NumComments
		item.ParentTitle = ""
	}

	if p.sentiment != nil {
		item.Sentiment = p.sentiment.Label(item.Text())
	}
	return item, nil
}

// Accept reports whether a cleaned item's body passes the content filter.
// Post titles are never filtered.
func (p *Pipeline) Accept(item Item) bool {
	return p.filter.IsAnalyzable(item.Body)
}
