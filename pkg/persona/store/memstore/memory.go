package memstore

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/cognicore/persona/pkg/persona/ingest"
	"github.com/cognicore/persona/pkg/persona/store"
)

// Store is an in-memory implementation of store.Store for tests and
// --offline runs without a database.
type Store struct {
	mu        sync.RWMutex
	snapshots map[string]ingest.Snapshot
	docs      map[string]store.DocumentRecord
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		snapshots: make(map[string]ingest.Snapshot),
		docs:      make(map[string]store.DocumentRecord),
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// SaveSnapshot stores a copy of the snapshot.
func (s *Store) SaveSnapshot(ctx context.Context, snap ingest.Snapshot) error {
	if snap.Subject == "" {
		return errors.New("snapshot subject is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[snap.Subject] = copySnapshot(snap)
	return nil
}

// LoadSnapshot returns a copy of the stored snapshot.
func (s *Store) LoadSnapshot(ctx context.Context, subject string) (ingest.Snapshot, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snapshots[subject]
	if !ok {
		return ingest.Snapshot{}, false, nil
	}
	return copySnapshot(snap), true, nil
}

// SaveDocument archives a persona record.
func (s *Store) SaveDocument(ctx context.Context, rec store.DocumentRecord) (store.DocumentRecord, error) {
	rec = store.AssignID(rec)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[rec.ID] = rec
	return rec, nil
}

// ListDocuments returns records newest first.
func (s *Store) ListDocuments(ctx context.Context, subject string, limit int) ([]store.DocumentRecord, error) {
	if limit <= 0 {
		limit = store.DefaultListLimit
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []store.DocumentRecord
	for _, rec := range s.docs {
		if subject == "" || rec.Subject == subject {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func copySnapshot(snap ingest.Snapshot) ingest.Snapshot {
	snap.Posts = append([]ingest.RawItem(nil), snap.Posts...)
	snap.Comments = append([]ingest.RawItem(nil), snap.Comments...)
	return snap
}
