package corpus

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/cognicore/persona/pkg/persona/analytics"
	"github.com/cognicore/persona/pkg/persona/ingest"
	"github.com/cognicore/persona/pkg/persona/internalerr"
)

// Aggregator builds a Corpus and its Statistics from a fetched snapshot.
type Aggregator struct {
	pipeline *ingest.Pipeline
	logger   *zap.Logger
	now      func() time.Time
}

// NewAggregator creates an aggregator. A nil pipeline uses the default
// filter and taxonomy without sentiment; a nil logger discards output.
func NewAggregator(pipeline *ingest.Pipeline, logger *zap.Logger) *Aggregator {
	if pipeline == nil {
		pipeline = ingest.NewPipeline(ingest.NewFilter(0), nil, nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{pipeline: pipeline, logger: logger, now: time.Now}
}

// Aggregate cleans, filters, sorts and summarizes the snapshot. Malformed
// items are skipped with a warning. The only error returned is ctx.Err().
func (a *Aggregator) Aggregate(ctx context.Context, snap ingest.Snapshot) (*Corpus, analytics.Statistics, error) {
	c := &Corpus{
		Subject:      snap.Subject,
		PostKarma:    snap.PostKarma,
		CommentKarma: snap.CommentKarma,
	}
	ref := snap.FetchedAt
	if ref.IsZero() {
		ref = a.now()
	}
	c.AccountAgeDays = snap.AccountAgeDays(ref)

	var err error
	if c.Posts, c.Report.Posts, err = a.collect(ctx, snap.Posts, ingest.KindPost); err != nil {
		return nil, analytics.Statistics{}, err
	}
	if c.Comments, c.Report.Comments, err = a.collect(ctx, snap.Comments, ingest.KindComment); err != nil {
		return nil, analytics.Statistics{}, err
	}

	sortNewestFirst(c.Posts)
	sortNewestFirst(c.Comments)
	c.Tags = a.buildTags(c)

	analyzer := analytics.NewAnalyzer()
	for _, item := range c.Items() {
		analyzer.Process(item, c.Category(item.Tag))
	}
	st := analyzer.Snapshot()

	total := c.Report.Total()
	a.logger.Info("corpus aggregated",
		zap.String("subject", c.Subject),
		zap.Int("fetched", total.Fetched),
		zap.Int("accepted", total.Accepted),
		zap.Int("rejected", total.Rejected),
		zap.Int("faulted", total.Faulted),
		zap.Int("tags", len(c.Tags)),
	)
	return c, st, nil
}

func (a *Aggregator) collect(ctx context.Context, raws []ingest.RawItem, want ingest.Kind) ([]ingest.Item, Counts, error) {
	counts := Counts{Fetched: len(raws)}
	items := make([]ingest.Item, 0, len(raws))
	for i, raw := range raws {
		if err := ctx.Err(); err != nil {
			return nil, counts, err
		}
		if raw.Kind == "" {
			raw.Kind = want
		}
		item, err := a.pipeline.Clean(raw)
		if err == nil && item.Kind != want {
			err = fmt.Errorf("%w: item %s is a %s in the %s list", internalerr.ErrInvalidInput, raw.ID, item.Kind, want)
		}
		if err != nil {
			counts.Faulted++
			a.logger.Warn("skipping malformed item",
				zap.Int("index", i),
				zap.String("kind", string(want)),
				zap.Error(err),
			)
			continue
		}
		if !a.pipeline.Accept(item) {
			counts.Rejected++
			a.logger.Debug("item filtered", zap.String("id", item.ID), zap.String("kind", string(want)))
			continue
		}
		counts.Accepted++
		items = append(items, item)
	}
	return items, counts, nil
}

func (a *Aggregator) buildTags(c *Corpus) []Tag {
	seen := make(map[string]struct{})
	var tags []Tag
	for _, item := range c.Items() {
		if item.Tag == "" {
			continue
		}
		if _, ok := seen[item.Tag]; ok {
			continue
		}
		seen[item.Tag] = struct{}{}
		tags = append(tags, Tag{Name: item.Tag, Category: a.pipeline.Taxonomy().Categorize(item.Tag)})
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].Name < tags[j].Name })
	return tags
}

// sortNewestFirst orders by creation time descending; ties keep fetch order.
func sortNewestFirst(items []ingest.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedUTC > items[j].CreatedUTC
	})
}
