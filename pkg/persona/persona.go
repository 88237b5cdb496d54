package persona

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cognicore/persona/pkg/persona/analytics"
	"github.com/cognicore/persona/pkg/persona/cite"
	"github.com/cognicore/persona/pkg/persona/corpus"
	"github.com/cognicore/persona/pkg/persona/ingest"
	"github.com/cognicore/persona/pkg/persona/internalerr"
)

// Defaults for Options fields left at zero.
const (
	DefaultMaxTokens   = 1000
	DefaultConcurrency = 1
	maxActiveTags      = 10
)

// Options configures an Assembler.
type Options struct {
	Backend          Backend
	Grounder         *cite.Grounder // nil disables citations
	Logger           *zap.Logger
	IncludeCitations bool
	PromptBudget     int
	MinContentLength int
	MaxTokens        int
	Temperature      float64
	Concurrency      int // facets generated in parallel
	Now              func() time.Time
}

// Assembler produces a persona Document from a corpus by asking the
// backend for one analysis per facet.
type Assembler struct {
	backend          Backend
	grounder         *cite.Grounder
	logger           *zap.Logger
	includeCitations bool
	promptBudget     int
	minContent       int
	maxTokens        int
	temperature      float64
	concurrency      int
	now              func() time.Time
}

// New creates an Assembler with the given dependencies.
func New(opts Options) *Assembler {
	a := &Assembler{
		backend:          opts.Backend,
		grounder:         opts.Grounder,
		logger:           opts.Logger,
		includeCitations: opts.IncludeCitations && opts.Grounder != nil,
		promptBudget:     opts.PromptBudget,
		minContent:       opts.MinContentLength,
		maxTokens:        opts.MaxTokens,
		temperature:      opts.Temperature,
		concurrency:      opts.Concurrency,
		now:              opts.Now,
	}
	if a.logger == nil {
		a.logger = zap.NewNop()
	}
	if a.promptBudget <= 0 {
		a.promptBudget = DefaultPromptBudget
	}
	if a.minContent <= 0 {
		a.minContent = ingest.DefaultMinLength
	}
	if a.maxTokens <= 0 {
		a.maxTokens = DefaultMaxTokens
	}
	if a.concurrency <= 0 {
		a.concurrency = DefaultConcurrency
	}
	if a.now == nil {
		a.now = time.Now
	}
	return a
}

// Assemble generates every facet and returns the document. Backend
// failures are recorded per facet and never abort assembly; only a missing
// backend or a cancelled context does.
func (a *Assembler) Assemble(ctx context.Context, c *corpus.Corpus, st analytics.Statistics) (*Document, error) {
	if a.backend == nil {
		return nil, fmt.Errorf("%w: no text-generation backend configured", internalerr.ErrInvalidConfig)
	}
	if c == nil {
		c = &corpus.Corpus{}
	}

	evidence := BuildEvidence(c, a.minContent, a.promptBudget)
	tags := "None"
	if names := c.TagNames(); len(names) > 0 {
		tags = strings.Join(names, ", ")
	}

	results := make([]FacetResult, len(Facets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)
	for i, f := range Facets {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = a.generate(gctx, f, evidence, tags, c)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	activeTags := c.TagNames()
	if len(activeTags) > maxActiveTags {
		activeTags = activeTags[:maxActiveTags]
	}

	doc := &Document{
		Subject:          c.Subject,
		GeneratedAt:      a.now(),
		Posts:            st.TotalPosts,
		Comments:         st.TotalComments,
		AccountAgeDays:   c.AccountAgeDays,
		PostKarma:        c.PostKarma,
		CommentKarma:     c.CommentKarma,
		ActiveTags:       activeTags,
		Stats:            st,
		Facets:           results,
		IncludeCitations: a.includeCitations,
	}
	a.logger.Info("persona assembled",
		zap.String("subject", doc.Subject),
		zap.Int("facets_succeeded", doc.Succeeded()),
		zap.Int("facets", len(doc.Facets)),
	)
	return doc, nil
}

func (a *Assembler) generate(ctx context.Context, f Facet, evidence, tags string, c *corpus.Corpus) FacetResult {
	res := FacetResult{Name: f.Name, Heading: f.Heading}

	if evidence == "" {
		res.Analysis = FallbackText(f.Name)
		res.Err = fmt.Errorf("%w: no evidence for %s", internalerr.ErrNoContent, f.Name)
		a.logger.Warn("no content to analyze", zap.String("facet", f.Name))
		return res
	}

	start := time.Now()
	out, err := a.backend.Generate(ctx, GenerateRequest{
		System:      f.System,
		Prompt:      f.render(evidence, tags),
		MaxTokens:   a.maxTokens,
		Temperature: a.temperature,
	})
	if err == nil && strings.TrimSpace(out) == "" {
		err = fmt.Errorf("%w: empty response", internalerr.ErrNoContent)
	}
	if err != nil {
		res.Analysis = FallbackText(f.Name)
		res.Err = fmt.Errorf("facet %s: %w", f.Name, err)
		a.logger.Error("facet analysis failed", zap.String("facet", f.Name), zap.Error(err))
		return res
	}

	res.Analysis = strings.TrimSpace(out)
	if a.includeCitations {
		res.Citations = a.grounder.Ground(res.Analysis, c)
	}
	a.logger.Debug("facet generated",
		zap.String("facet", f.Name),
		zap.Duration("took", time.Since(start)),
		zap.Int("citations", len(res.Citations)),
	)
	return res
}

// FacetResult is the outcome of one facet. Err is nil when the backend
// produced the analysis.
type FacetResult struct {
	Name      string
	Heading   string
	Analysis  string
	Citations []cite.Citation
	Err       error
}

// Document is an assembled persona.
type Document struct {
	Subject          string
	GeneratedAt      time.Time
	Posts            int
	Comments         int
	AccountAgeDays   float64
	PostKarma        int
	CommentKarma     int
	ActiveTags       []string
	Stats            analytics.Statistics
	Facets           []FacetResult
	IncludeCitations bool
}

// Succeeded reports how many facets hold backend output.
func (d *Document) Succeeded() int {
	n := 0
	for _, f := range d.Facets {
		if f.Err == nil {
			n++
		}
	}
	return n
}

// Err joins the facet errors; nil when every facet succeeded.
func (d *Document) Err() error {
	var errs []error
	for _, f := range d.Facets {
		if f.Err != nil {
			errs = append(errs, f.Err)
		}
	}
	return errors.Join(errs...)
}

// Facet returns the result for the named facet.
func (d *Document) Facet(name string) (FacetResult, bool) {
	for _, f := range d.Facets {
		if f.Name == name {
			return f, true
		}
	}
	return FacetResult{}, false
}
