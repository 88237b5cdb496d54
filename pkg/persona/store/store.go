package store

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/persona/pkg/persona/ingest"
)

// Store persists fetched snapshots and generated personas.
type Store interface {
	Close() error

	// Snapshots, one per subject; saving replaces the previous one.
	SaveSnapshot(ctx context.Context, snap ingest.Snapshot) error
	LoadSnapshot(ctx context.Context, subject string) (ingest.Snapshot, bool, error)

	// Persona archive
	SaveDocument(ctx context.Context, rec DocumentRecord) (DocumentRecord, error)
	ListDocuments(ctx context.Context, subject string, limit int) ([]DocumentRecord, error)
}

// DocumentRecord is one archived persona.
type DocumentRecord struct {
	ID              string // ULID, assigned on save when empty
	Subject         string
	GeneratedAt     time.Time
	Posts           int
	Comments        int
	FacetsSucceeded int
	MostActiveTag   string
	OutputPath      string
	Body            string
}

// DefaultListLimit is used when ListDocuments is given a non-positive limit.
const DefaultListLimit = 20

// AssignID fills in a ULID when the record has none.
func AssignID(rec DocumentRecord) DocumentRecord {
	if rec.ID == "" {
		t := rec.GeneratedAt
		if t.IsZero() {
			t = time.Now()
		}
		rec.ID = ulid.MustNew(ulid.Timestamp(t), ulid.DefaultEntropy()).String()
	}
	return rec
}
