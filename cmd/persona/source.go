package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cognicore/persona/internal/reddit"
	"github.com/cognicore/persona/pkg/persona/config"
	"github.com/cognicore/persona/pkg/persona/ingest"
	"github.com/cognicore/persona/pkg/persona/internalerr"
	"github.com/cognicore/persona/pkg/persona/store"
	"github.com/cognicore/persona/pkg/persona/store/sqlite"
)

// sourceFlags select where a snapshot comes from: the live site, the
// snapshot cache (--offline) or a JSONL dump.
type sourceFlags struct {
	url         string
	maxPosts    int
	maxComments int
	fromJSONL   string
	offline     bool
}

func (s *sourceFlags) register(cmd *cobra.Command) {
	def := config.Default()
	fs := cmd.Flags()
	fs.StringVarP(&s.url, "url", "u", "", "Reddit user profile URL (e.g. https://www.reddit.com/user/username/)")
	fs.IntVar(&s.maxPosts, "max-posts", def.Reddit.MaxPosts, "Maximum number of posts to fetch (also caps --from-jsonl and --offline snapshots)")
	fs.IntVar(&s.maxComments, "max-comments", def.Reddit.MaxComments, "Maximum number of comments to fetch (also caps --from-jsonl and --offline snapshots)")
	fs.StringVar(&s.fromJSONL, "from-jsonl", "", "Read the snapshot from a JSONL dump instead of fetching")
	fs.BoolVar(&s.offline, "offline", false, "Use the snapshot cached in --db instead of fetching")
}

// apply copies explicitly set flags over the loaded configuration.
func (s *sourceFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("max-posts") {
		cfg.Reddit.MaxPosts = s.maxPosts
	}
	if cmd.Flags().Changed("max-comments") {
		cfg.Reddit.MaxComments = s.maxComments
	}
}

// openStore opens the database named by --db, or returns nil when none is
// configured.
func (a *app) openStore(ctx context.Context) (store.Store, error) {
	if a.flags.dbPath == "" {
		return nil, nil
	}
	st, err := sqlite.OpenSQLite(ctx, a.flags.dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return st, nil
}

func (a *app) snapshot(ctx context.Context, src sourceFlags, st store.Store) (ingest.Snapshot, error) {
	if src.fromJSONL != "" {
		snap, err := reddit.LoadJSONL(src.fromJSONL, a.logger)
		if err != nil {
			return ingest.Snapshot{}, err
		}
		return a.limit(snap), nil
	}
	if src.url == "" {
		return ingest.Snapshot{}, fmt.Errorf("%w: --url or --from-jsonl is required", internalerr.ErrInvalidInput)
	}
	// Bare usernames skip URL validation.
	if strings.Contains(src.url, "/") && !strings.HasPrefix(src.url, "u/") {
		if err := reddit.ValidateProfileURL(src.url); err != nil {
			return ingest.Snapshot{}, fmt.Errorf("invalid Reddit URL: %w", err)
		}
	}
	subject, err := reddit.ExtractUsername(src.url)
	if err != nil {
		return ingest.Snapshot{}, fmt.Errorf("invalid Reddit URL: %w", err)
	}

	if src.offline {
		if st == nil {
			return ingest.Snapshot{}, fmt.Errorf("%w: --offline needs --db", internalerr.ErrInvalidConfig)
		}
		snap, ok, err := st.LoadSnapshot(ctx, subject)
		if err != nil {
			return ingest.Snapshot{}, err
		}
		if !ok {
			return ingest.Snapshot{}, fmt.Errorf("%w: no cached snapshot for %s", internalerr.ErrNotFound, subject)
		}
		return a.limit(snap), nil
	}

	client := reddit.NewClient(reddit.Options{
		BaseURL:           a.cfg.Reddit.BaseURL,
		UserAgent:         a.cfg.Reddit.UserAgent,
		RequestsPerSecond: a.cfg.Reddit.RequestsPerSecond,
		Timeout:           time.Duration(a.cfg.Reddit.TimeoutSeconds) * time.Second,
		Logger:            a.logger,
	})
	snap, err := client.FetchSubject(ctx, subject, reddit.Limits{
		MaxPosts:    a.cfg.Reddit.MaxPosts,
		MaxComments: a.cfg.Reddit.MaxComments,
	})
	if err != nil {
		return ingest.Snapshot{}, describeFetchError(subject, err)
	}

	if st != nil {
		if err := st.SaveSnapshot(ctx, snap); err != nil {
			a.logger.Warn("failed to cache snapshot", zap.String("subject", subject), zap.Error(err))
		}
	}
	return snap, nil
}

// limit applies the configured item caps to a snapshot that was not fetched
// live. Stored items are newest first, so the newest survive.
func (a *app) limit(snap ingest.Snapshot) ingest.Snapshot {
	snap.Posts = capItems(snap.Posts, a.cfg.Reddit.MaxPosts)
	snap.Comments = capItems(snap.Comments, a.cfg.Reddit.MaxComments)
	return snap
}

func capItems(items []ingest.RawItem, n int) []ingest.RawItem {
	if n < 0 {
		n = 0
	}
	if len(items) > n {
		return items[:n]
	}
	return items
}

func describeFetchError(subject string, err error) error {
	switch {
	case errors.Is(err, internalerr.ErrNotFound):
		return fmt.Errorf("user %s does not exist: %w", subject, err)
	case errors.Is(err, internalerr.ErrForbidden):
		return fmt.Errorf("user %s is suspended or private: %w", subject, err)
	default:
		return err
	}
}
