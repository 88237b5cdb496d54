package config

import (
	"fmt"

	"github.com/cognicore/persona/pkg/persona/ingest"
	"github.com/cognicore/persona/pkg/persona/internalerr"
)

// Loader loads the optional data files and constructs components
type Loader struct {
	StoplistPath     string
	TaxonomyPath     string
	LexiconPath      string
	AnalyzeSentiment bool
}

// NewLoader builds a loader from the application configuration.
func NewLoader(cfg *Config) *Loader {
	return &Loader{
		StoplistPath:     cfg.Paths.Stoplist,
		TaxonomyPath:     cfg.Paths.Taxonomy,
		LexiconPath:      cfg.Paths.Lexicon,
		AnalyzeSentiment: cfg.Persona.AnalyzeSentiment,
	}
}

// Components holds all loaded configuration components
type Components struct {
	Tokenizer *ingest.Tokenizer
	Taxonomy  *ingest.Taxonomy
	Sentiment *ingest.Sentiment // nil when sentiment is disabled
}

// Load reads the configured files; missing paths fall back to built-ins.
func (l *Loader) Load() (*Components, error) {
	comp := &Components{}

	if l.StoplistPath != "" {
		stoplist, err := LoadStoplist(l.StoplistPath)
		if err != nil {
			return nil, fmt.Errorf("load stoplist: %w", err)
		}
		comp.Tokenizer = ingest.NewTokenizer(stoplist.Terms)
	} else {
		comp.Tokenizer = ingest.NewTokenizer(ingest.DefaultStopwords)
	}

	if l.TaxonomyPath != "" {
		taxConfig, err := LoadTaxonomy(l.TaxonomyPath)
		if err != nil {
			return nil, fmt.Errorf("load taxonomy: %w", err)
		}
		if taxConfig.Replace {
			comp.Taxonomy = ingest.NewTaxonomy()
		} else {
			comp.Taxonomy = ingest.DefaultTaxonomy()
		}
		for _, cat := range taxConfig.Categories {
			if cat.Name == "" {
				return nil, fmt.Errorf("load taxonomy: %w: category without a name", internalerr.ErrInvalidConfig)
			}
			comp.Taxonomy.AddCategory(cat.Name, cat.Keywords)
		}
	} else {
		comp.Taxonomy = ingest.DefaultTaxonomy()
	}

	if l.AnalyzeSentiment {
		if l.LexiconPath != "" {
			lx, err := LoadLexicon(l.LexiconPath)
			if err != nil {
				return nil, fmt.Errorf("load lexicon: %w", err)
			}
			comp.Sentiment = ingest.NewSentiment(lx.Positive, lx.Negative)
		} else {
			comp.Sentiment = ingest.DefaultSentiment()
		}
	}

	return comp, nil
}

// Pipeline builds the ingest pipeline from the loaded components.
func (c *Components) Pipeline(minLength int) *ingest.Pipeline {
	return ingest.NewPipeline(ingest.NewFilter(minLength), c.Taxonomy, c.Sentiment)
}
