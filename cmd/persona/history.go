package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/cognicore/persona/internal/reddit"
	"github.com/cognicore/persona/pkg/persona"
	"github.com/cognicore/persona/pkg/persona/internalerr"
	"github.com/cognicore/persona/pkg/persona/store"
)

func newHistoryCmd(a *app) *cobra.Command {
	var (
		url   string
		limit int
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List personas archived in --db",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if a.flags.dbPath == "" {
				return fmt.Errorf("%w: history needs --db", internalerr.ErrInvalidConfig)
			}

			subject := ""
			if url != "" {
				var err error
				if subject, err = reddit.ExtractUsername(url); err != nil {
					return fmt.Errorf("invalid Reddit URL: %w", err)
				}
			}

			st, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			recs, err := st.ListDocuments(ctx, subject, limit)
			if err != nil {
				return err
			}
			if len(recs) == 0 {
				fmt.Fprintln(a.out, "No personas archived yet.")
				return nil
			}
			for _, rec := range recs {
				fmt.Fprintf(a.out, "%s  %-20s  %s  %d posts, %d comments  %d/%d facets  %s  %s\n",
					rec.ID,
					rec.Subject,
					humanize.Time(rec.GeneratedAt),
					rec.Posts,
					rec.Comments,
					rec.FacetsSucceeded,
					len(persona.Facets),
					humanize.Bytes(uint64(len(rec.Body))),
					rec.OutputPath,
				)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&url, "url", "u", "", "Only show personas for this profile URL or username")
	cmd.Flags().IntVar(&limit, "limit", store.DefaultListLimit, "Maximum entries to list")
	return cmd
}
