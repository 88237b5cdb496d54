package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/persona/pkg/persona/ingest"
	"github.com/cognicore/persona/pkg/persona/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS snapshots (
	subject TEXT PRIMARY KEY,
	account_created_utc REAL,
	post_karma INTEGER DEFAULT 0,
	comment_karma INTEGER DEFAULT 0,
	fetched_at TEXT
);

CREATE TABLE IF NOT EXISTS snapshot_items (
	subject TEXT NOT NULL,
	seq INTEGER NOT NULL,
	kind TEXT NOT NULL,
	data TEXT NOT NULL,
	PRIMARY KEY(subject, seq),
	FOREIGN KEY(subject) REFERENCES snapshots(subject) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS personas (
	id TEXT PRIMARY KEY,
	subject TEXT NOT NULL,
	generated_at TEXT NOT NULL,
	posts INTEGER DEFAULT 0,
	comments INTEGER DEFAULT 0,
	facets_succeeded INTEGER DEFAULT 0,
	most_active_tag TEXT,
	output_path TEXT,
	body TEXT
);

CREATE INDEX IF NOT EXISTS idx_personas_subject ON personas(subject, id);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveSnapshot replaces the stored snapshot for the subject.
func (s *sqliteStore) SaveSnapshot(ctx context.Context, snap ingest.Snapshot) error {
	if snap.Subject == "" {
		return errors.New("snapshot subject is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM snapshot_items WHERE subject = ?`, snap.Subject); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM snapshots WHERE subject = ?`, snap.Subject); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `
INSERT INTO snapshots (subject, account_created_utc, post_karma, comment_karma, fetched_at)
VALUES (?, ?, ?, ?, ?);
`, snap.Subject, snap.AccountCreatedUTC, snap.PostKarma, snap.CommentKarma, snap.FetchedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO snapshot_items (subject, seq, kind, data) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	seq := 0
	for _, list := range [][]ingest.RawItem{snap.Posts, snap.Comments} {
		for _, item := range list {
			data, err := json.Marshal(item)
			if err != nil {
				return err
			}
			if _, err := stmt.ExecContext(ctx, snap.Subject, seq, string(item.Kind), string(data)); err != nil {
				return err
			}
			seq++
		}
	}

	return tx.Commit()
}

// LoadSnapshot returns the stored snapshot, preserving fetch order.
func (s *sqliteStore) LoadSnapshot(ctx context.Context, subject string) (ingest.Snapshot, bool, error) {
	snap := ingest.Snapshot{Subject: subject}
	var fetchedAt string
	err := s.db.QueryRowContext(ctx, `
SELECT account_created_utc, post_karma, comment_karma, fetched_at
FROM snapshots WHERE subject = ?;
`, subject).Scan(&snap.AccountCreatedUTC, &snap.PostKarma, &snap.CommentKarma, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ingest.Snapshot{}, false, nil
	}
	if err != nil {
		return ingest.Snapshot{}, false, err
	}
	if snap.FetchedAt, err = time.Parse(time.RFC3339Nano, fetchedAt); err != nil {
		return ingest.Snapshot{}, false, fmt.Errorf("parse fetched_at: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT kind, data FROM snapshot_items WHERE subject = ? ORDER BY seq`, subject)
	if err != nil {
		return ingest.Snapshot{}, false, err
	}
	defer rows.Close()

	for rows.Next() {
		var kind, data string
		if err := rows.Scan(&kind, &data); err != nil {
			return ingest.Snapshot{}, false, err
		}
		var item ingest.RawItem
		if err := json.Unmarshal([]byte(data), &item); err != nil {
			return ingest.Snapshot{}, false, err
		}
		if ingest.Kind(kind) == ingest.KindPost {
			snap.Posts = append(snap.Posts, item)
		} else {
			snap.Comments = append(snap.Comments, item)
		}
	}
	return snap, true, rows.Err()
}

// SaveDocument archives a generated persona.
func (s *sqliteStore) SaveDocument(ctx context.Context, rec store.DocumentRecord) (store.DocumentRecord, error) {
	rec = store.AssignID(rec)
	_, err := s.db.ExecContext(ctx, `
INSERT INTO personas (id, subject, generated_at, posts, comments, facets_succeeded, most_active_tag, output_path, body)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	output_path=excluded.output_path,
	body=excluded.body;
`, rec.ID, rec.Subject, rec.GeneratedAt.UTC().Format(time.RFC3339Nano), rec.Posts, rec.Comments,
		rec.FacetsSucceeded, rec.MostActiveTag, rec.OutputPath, rec.Body)
	if err != nil {
		return store.DocumentRecord{}, err
	}
	return rec, nil
}

// ListDocuments returns archived personas newest first. An empty subject
// lists every subject.
func (s *sqliteStore) ListDocuments(ctx context.Context, subject string, limit int) ([]store.DocumentRecord, error) {
	if limit <= 0 {
		limit = store.DefaultListLimit
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT id, subject, generated_at, posts, comments, facets_succeeded, most_active_tag, output_path, body
FROM personas
WHERE ? = '' OR subject = ?
ORDER BY id DESC
LIMIT ?;
`, subject, subject, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.DocumentRecord
	for rows.Next() {
		var rec store.DocumentRecord
		var generatedAt string
		if err := rows.Scan(&rec.ID, &rec.Subject, &generatedAt, &rec.Posts, &rec.Comments,
			&rec.FacetsSucceeded, &rec.MostActiveTag, &rec.OutputPath, &rec.Body); err != nil {
			return nil, err
		}
		if rec.GeneratedAt, err = time.Parse(time.RFC3339Nano, generatedAt); err != nil {
			return nil, fmt.Errorf("parse generated_at: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
