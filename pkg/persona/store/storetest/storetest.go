// Package storetest holds behaviour checks shared by the store
// implementations.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/persona/pkg/persona/ingest"
	"github.com/cognicore/persona/pkg/persona/store"
)

// Run exercises a Store created fresh by open for each subtest.
func Run(t *testing.T, open func(t *testing.T) store.Store) {
	t.Run("snapshot round trip", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		fetched := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
		snap := ingest.Snapshot{
			Subject:           "alice",
			AccountCreatedUTC: 1600000000,
			PostKarma:         5,
			CommentKarma:      50,
			FetchedAt:         fetched,
			Posts: []ingest.RawItem{
				{ID: "p2", Kind: ingest.KindPost, Title: "Second", Body: "b", CreatedUTC: 20},
				{ID: "p1", Kind: ingest.KindPost, Title: "First", Body: "a", CreatedUTC: 10, UpvoteRatio: 0.5},
			},
			Comments: []ingest.RawItem{
				{ID: "c1", Kind: ingest.KindComment, Body: "c", Tag: "golang", ParentTitle: "Q"},
			},
		}

		require.NoError(t, s.SaveSnapshot(ctx, snap))
		got, ok, err := s.LoadSnapshot(ctx, "alice")
		require.NoError(t, err)
		require.True(t, ok)

		assert.Equal(t, snap.Posts, got.Posts)
		assert.Equal(t, snap.Comments, got.Comments)
		assert.Equal(t, 50, got.CommentKarma)
		assert.Equal(t, 1600000000.0, got.AccountCreatedUTC)
		assert.True(t, fetched.Equal(got.FetchedAt))
	})

	t.Run("snapshot replaced", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		first := ingest.Snapshot{Subject: "bob", Posts: []ingest.RawItem{{ID: "old", Kind: ingest.KindPost}}}
		second := ingest.Snapshot{Subject: "bob", Comments: []ingest.RawItem{{ID: "new", Kind: ingest.KindComment}}}

		require.NoError(t, s.SaveSnapshot(ctx, first))
		require.NoError(t, s.SaveSnapshot(ctx, second))
		got, ok, err := s.LoadSnapshot(ctx, "bob")
		require.NoError(t, err)
		require.True(t, ok)

		assert.Empty(t, got.Posts)
		require.Len(t, got.Comments, 1)
		assert.Equal(t, "new", got.Comments[0].ID)
	})

	t.Run("snapshot missing", func(t *testing.T) {
		s := open(t)
		_, ok, err := s.LoadSnapshot(context.Background(), "nobody")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Error(t, s.SaveSnapshot(context.Background(), ingest.Snapshot{}))
	})

	t.Run("documents", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

		var saved []store.DocumentRecord
		for i, subject := range []string{"alice", "bob", "alice"} {
			rec, err := s.SaveDocument(ctx, store.DocumentRecord{
				Subject:         subject,
				GeneratedAt:     base.Add(time.Duration(i) * time.Hour),
				Posts:           i,
				FacetsSucceeded: 6,
				MostActiveTag:   "golang",
				Body:            "persona body",
			})
			require.NoError(t, err)
			require.NotEmpty(t, rec.ID)
			saved = append(saved, rec)
		}

		all, err := s.ListDocuments(ctx, "", 0)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, saved[2].ID, all[0].ID)
		assert.Equal(t, saved[0].ID, all[2].ID)

		alice, err := s.ListDocuments(ctx, "alice", 1)
		require.NoError(t, err)
		require.Len(t, alice, 1)
		assert.Equal(t, saved[2].ID, alice[0].ID)
		assert.Equal(t, 2, alice[0].Posts)
		assert.Equal(t, "persona body", alice[0].Body)
		assert.True(t, saved[2].GeneratedAt.Equal(alice[0].GeneratedAt))
	})
}
