package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/cognicore/persona/pkg/persona/analytics"
	"github.com/cognicore/persona/pkg/persona/config"
	"github.com/cognicore/persona/pkg/persona/corpus"
	"github.com/cognicore/persona/pkg/persona/ingest"
)

func newStatsCmd(a *app) *cobra.Command {
	var src sourceFlags
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print activity statistics without calling a language model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src.apply(cmd, a.cfg)
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			ctx := cmd.Context()

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
			comp, err := config.NewLoader(a.cfg).Load()
			if err != nil {
				return err
			}
			c, stats, err := corpus.NewAggregator(comp.Pipeline(a.cfg.Persona.MinContentLength), a.logger).Aggregate(ctx, snap)
			if err != nil {
				return err
			}

			top := make([]string, 0, len(stats.TopTags))
			for _, tc := range stats.TopTags {
				top = append(top, fmt.Sprintf("r/%s (%d)", tc.Tag, tc.Count))
			}
			total := c.Report.Total()

			fields := []field{
				{"User", c.Subject},
				{"Account age", fmt.Sprintf("%.0f days", c.AccountAgeDays)},
				{"Karma", fmt.Sprintf("%s post / %s comment", humanize.Comma(int64(c.PostKarma)), humanize.Comma(int64(c.CommentKarma)))},
				{"Posts", fmt.Sprintf("%d (avg score %.1f)", stats.TotalPosts, stats.AvgPostScore)},
				{"Comments", fmt.Sprintf("%d (avg score %.1f)", stats.TotalComments, stats.AvgCommentScore)},
				{"Rejected", fmt.Sprintf("%d of %d fetched", total.Rejected+total.Faulted, total.Fetched)},
				{"Most active", orNone(stats.MostActiveTag)},
				{"Top subreddits", orNone(strings.Join(top, ", "))},
				{"Tag diversity", fmt.Sprintf("%d", stats.TagDiversity)},
				{"Avg length", fmt.Sprintf("%.0f chars", stats.AvgContentLength)},
			}
			if latest, ok := latestActivity(c); ok {
				fields = append(fields, field{"Latest activity", fmt.Sprintf("%s (%s)", latest.Format("2006-01-02"), humanize.Time(latest))})
			}
			if len(stats.CategoryActivity) > 0 {
				fields = append(fields, field{"Categories", countList(stats.CategoryActivity)})
			}
			if len(stats.Sentiment) > 0 {
				fields = append(fields, field{"Sentiment", countList(stats.Sentiment)})
			}
			printLines(a.out, "Activity statistics", fields...)
			return nil
		},
	}
	src.register(cmd)
	return cmd
}

// topTags returns at most n of the most active tags, in rank order.
func topTags(st analytics.Statistics, n int) []string {
	names := st.TagNames()
	if len(names) > n {
		names = names[:n]
	}
	return names
}

// latestActivity is the creation time of the newest accepted item.
func latestActivity(c *corpus.Corpus) (time.Time, bool) {
	var latest time.Time
	found := false
	for _, list := range [][]ingest.Item{c.Posts, c.Comments} {
		if len(list) == 0 {
			continue
		}
		// Lists are newest first.
		if t := list[0].CreatedAt(); !found || t.After(latest) {
			latest, found = t, true
		}
	}
	return latest, found
}

// countList renders a histogram as "a=3, b=1", largest first.
func countList(m map[string]int) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if m[keys[i]] != m[keys[j]] {
			return m[keys[i]] > m[keys[j]]
		}
		return keys[i] < keys[j]
	})
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%d", k, m[k])
	}
	return strings.Join(parts, ", ")
}

func orNone(s string) string {
	if s == "" {
		return "None"
	}
	return s
}
