package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cognicore/persona/internal/llm"
	"github.com/cognicore/persona/internal/output"
	"github.com/cognicore/persona/internal/reddit"
	"github.com/cognicore/persona/pkg/persona"
	"github.com/cognicore/persona/pkg/persona/cite"
	"github.com/cognicore/persona/pkg/persona/config"
	"github.com/cognicore/persona/pkg/persona/corpus"
	"github.com/cognicore/persona/pkg/persona/internalerr"
	"github.com/cognicore/persona/pkg/persona/store"
)

func newGenerateCmd(a *app) *cobra.Command {
	var (
		src         sourceFlags
		outputDir   string
		out         string
		noCitations bool
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Fetch activity and write a persona document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			src.apply(cmd, cfg)
			if cmd.Flags().Changed("output-dir") {
				cfg.Paths.OutputDir = outputDir
			}
			if noCitations {
				cfg.Persona.IncludeCitations = false
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := cfg.RequireCredentials(); err != nil {
				return err
			}
			ctx := cmd.Context()
			start := time.Now()

			st, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			if st != nil {
				defer st.Close()
			}

			snap, err := a.snapshot(ctx, src, st)
			if err != nil {
				return err
			}

			comp, err := config.NewLoader(cfg).Load()
			if err != nil {
				return err
			}
			agg := corpus.NewAggregator(comp.Pipeline(cfg.Persona.MinContentLength), a.logger)
			c, stats, err := agg.Aggregate(ctx, snap)
			if err != nil {
				return err
			}
			if c.Empty() {
				a.logger.Warn("no analyzable content, every facet will use its fallback", zap.String("subject", snap.Subject))
			}

			backend, err := newBackend(ctx, llm.OptionsFromConfig(cfg.LLM, a.logger))
			if err != nil {
				return err
			}
			var grounder *cite.Grounder
			if cfg.Persona.IncludeCitations {
				grounder = cite.NewGrounder(cite.Options{
					Policy:    cite.Policy(cfg.Persona.CitationPolicy),
					Max:       cfg.Persona.MaxCitations,
					Tokenizer: comp.Tokenizer,
				})
			}
			asm := persona.New(persona.Options{
				Backend:          backend,
				Grounder:         grounder,
				Logger:           a.logger,
				IncludeCitations: cfg.Persona.IncludeCitations,
				PromptBudget:     cfg.Persona.PromptBudget,
				MinContentLength: cfg.Persona.MinContentLength,
				MaxTokens:        cfg.LLM.MaxTokens,
				Temperature:      cfg.LLM.Temperature,
				Concurrency:      cfg.Persona.Concurrency,
			})

			doc, err := asm.Assemble(ctx, c, stats)
			if err != nil {
				return err
			}
			// Fallback text is fine for a flaky facet, not for a bad key.
			if err := doc.Err(); internalerr.Fatal(err) {
				return fmt.Errorf("text generation failed: %w", err)
			}

			body := doc.Render()
			dest := out
			if dest == "" {
				dest = filepath.Join(cfg.Paths.OutputDir, reddit.SanitizeFilename(doc.Subject)+"_persona.txt")
			}
			if err := output.Write(ctx, dest, body); err != nil {
				return err
			}

			if st != nil {
				rec, err := st.SaveDocument(ctx, store.DocumentRecord{
					Subject:         doc.Subject,
					GeneratedAt:     doc.GeneratedAt,
					Posts:           doc.Posts,
					Comments:        doc.Comments,
					FacetsSucceeded: doc.Succeeded(),
					MostActiveTag:   stats.MostActiveTag,
					OutputPath:      dest,
					Body:            body,
				})
				if err != nil {
					a.logger.Warn("failed to archive persona", zap.Error(err))
				} else {
					a.logger.Info("persona archived", zap.String("id", rec.ID))
				}
			}

			printSummary(a.out, summary{
				Subject:   doc.Subject,
				Posts:     doc.Posts,
				Comments:  doc.Comments,
				Items:     c.Report.Total(),
				TopTags:   topTags(stats, summaryTopTags),
				Succeeded: doc.Succeeded(),
				Facets:    len(doc.Facets),
				Dest:      dest,
				Body:      body,
				Elapsed:   time.Since(start),
				Preview:   a.flags.verbose,
			})
			return nil
		},
	}

	src.register(cmd)
	fs := cmd.Flags()
	fs.StringVarP(&outputDir, "output-dir", "o", config.Default().Paths.OutputDir, "Directory for the persona file")
	fs.StringVar(&out, "out", "", "Exact destination: a file path or s3://bucket/key")
	fs.BoolVar(&noCitations, "no-citations", false, "Omit the citations section")
	return cmd
}
