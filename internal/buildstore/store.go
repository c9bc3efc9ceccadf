// Package buildstore keeps a history of builds in SQLite.
package buildstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"git.home.luguber.info/inful/knowledgelib/internal/foundation/errors"
)

// Status is the final state of a build.
type Status string

const (
	StatusSuccess Status = "success"
	StatusWarning Status = "warning"
	StatusFailed  Status = "failed"
)

// BuildRecord summarizes one build.
type BuildRecord struct {
	ID        string
	StartedAt time.Time
	Duration  time.Duration
	Revision  string // git HEAD of the library root, empty outside a repository
	Documents int
	Failed    int
	Errors    int
	Warnings  int
	Status    Status
	Results   []DocumentResult // only set when recording
}

// DocumentResult is the outcome of a single document in a build.
type DocumentResult struct {
	Document string
	Cached   bool
	Errors   int
	Warnings int
	Messages []string
	Failure  string // processing error, empty when the page was written
}

// NewID returns a fresh build id.
func NewID() string { return uuid.NewString() }

// Store persists build records.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open opens or creates the database at path. Use ":memory:" for a transient store.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, errors.WrapError(err, errors.CategoryFileSystem, "create state directory").WithContext("path", path).Build()
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryState, "open build store").WithContext("path", path).Build()
	}
	// a single connection keeps ":memory:" databases shared
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		_ = db.Close()
		return nil, errors.WrapError(err, errors.CategoryState, "initialize build store schema").WithContext("path", path).Build()
	}
	return s, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS builds (
		id TEXT PRIMARY KEY,
		started_at INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		revision TEXT NOT NULL DEFAULT '',
		documents INTEGER NOT NULL,
		failed INTEGER NOT NULL,
		errors INTEGER NOT NULL,
		warnings INTEGER NOT NULL,
		status TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_builds_started ON builds(started_at);
	CREATE TABLE IF NOT EXISTS document_results (
		build_id TEXT NOT NULL REFERENCES builds(id),
		document TEXT NOT NULL,
		cached INTEGER NOT NULL,
		errors INTEGER NOT NULL,
		warnings INTEGER NOT NULL,
		messages TEXT NOT NULL,
		failure TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (build_id, document)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// RecordBuild stores rec and its document results in one transaction.
func (s *Store) RecordBuild(ctx context.Context, rec BuildRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == "" {
		return errors.NewError(errors.CategoryValidation, "build record without id").Build()
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO builds (id, started_at, duration_ms, revision, documents, failed, errors, warnings, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.StartedAt.UnixNano(), rec.Duration.Milliseconds(), rec.Revision,
		rec.Documents, rec.Failed, rec.Errors, rec.Warnings, string(rec.Status),
	)
	if err != nil {
		return errors.WrapError(err, errors.CategoryState, "insert build").WithContext("build_id", rec.ID).Build()
	}

	for _, r := range rec.Results {
		msgs, err := json.Marshal(nonNil(r.Messages))
		if err != nil {
			return fmt.Errorf("marshal messages: %w", err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO document_results (build_id, document, cached, errors, warnings, messages, failure)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			rec.ID, r.Document, r.Cached, r.Errors, r.Warnings, string(msgs), r.Failure,
		)
		if err != nil {
			return errors.WrapError(err, errors.CategoryState, "insert document result").
				WithContext("build_id", rec.ID).WithContext("document", r.Document).Build()
		}
	}
	return tx.Commit()
}

// RecentBuilds returns up to n builds, newest first.
func (s *Store) RecentBuilds(ctx context.Context, n int) ([]BuildRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n <= 0 {
		n = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, duration_ms, revision, documents, failed, errors, warnings, status
		 FROM builds ORDER BY started_at DESC, id LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query builds: %w", err)
	}
	defer rows.Close()

	var out []BuildRecord
	for rows.Next() {
		var (
			rec     BuildRecord
			started int64
			durMS   int64
			status  string
		)
		if err := rows.Scan(&rec.ID, &started, &durMS, &rec.Revision, &rec.Documents, &rec.Failed, &rec.Errors, &rec.Warnings, &status); err != nil {
			return nil, fmt.Errorf("scan build: %w", err)
		}
		rec.StartedAt = time.Unix(0, started)
		rec.Duration = time.Duration(durMS) * time.Millisecond
		rec.Status = Status(status)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}

// DocumentResults returns the per-document results of a build ordered by document id.
func (s *Store) DocumentResults(ctx context.Context, buildID string) ([]DocumentResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT document, cached, errors, warnings, messages, failure
		 FROM document_results WHERE build_id = ? ORDER BY document`, buildID)
	if err != nil {
		return nil, fmt.Errorf("query document results: %w", err)
	}
	defer rows.Close()

	var out []DocumentResult
	for rows.Next() {
		var (
			r    DocumentResult
			msgs string
		)
		if err := rows.Scan(&r.Document, &r.Cached, &r.Errors, &r.Warnings, &msgs, &r.Failure); err != nil {
			return nil, fmt.Errorf("scan document result: %w", err)
		}
		if err := json.Unmarshal([]byte(msgs), &r.Messages); err != nil {
			return nil, fmt.Errorf("unmarshal messages: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
