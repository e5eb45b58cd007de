// Package history persists one record per acquisition run in a SQLite
// database so past runs can be listed from the CLI.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// RunRecord is one completed (or failed) acquisition run.
type RunRecord struct {
	RunID     string
	MediaID   string
	Title     string
	Year      int
	Regions   int
	Fetched   int
	NotFound  int
	Transient int
	Fatal     int
	Files     int
	Duration  time.Duration
	CreatedAt time.Time
}

// Store manages run-history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL UNIQUE,
    media_id TEXT NOT NULL,
    title TEXT NOT NULL DEFAULT '',
    year INTEGER NOT NULL DEFAULT 0,
    regions INTEGER NOT NULL DEFAULT 0,
    fetched INTEGER NOT NULL DEFAULT 0,
    not_found INTEGER NOT NULL DEFAULT 0,
    transient INTEGER NOT NULL DEFAULT 0,
    fatal INTEGER NOT NULL DEFAULT 0,
    files INTEGER NOT NULL DEFAULT 0,
    duration_ms INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
`

// Open initializes or connects to the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure history directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize history schema: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// RecordRun inserts one run record.
func (s *Store) RecordRun(record RunRecord) error {
	if record.RunID == "" {
		return errors.New("run id required")
	}
	createdAt := record.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(context.Background(), `
INSERT INTO runs (run_id, media_id, title, year, regions, fetched, not_found, transient, fatal, files, duration_ms, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.RunID,
		record.MediaID,
		record.Title,
		record.Year,
		record.Regions,
		record.Fetched,
		record.NotFound,
		record.Transient,
		record.Fatal,
		record.Files,
		record.Duration.Milliseconds(),
		createdAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first, up to limit.
func (s *Store) ListRuns(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(context.Background(), `
SELECT run_id, media_id, title, year, regions, fetched, not_found, transient, fatal, files, duration_ms, created_at
FROM runs ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var (
			record     RunRecord
			durationMS int64
			createdAt  string
		)
		if err := rows.Scan(
			&record.RunID,
			&record.MediaID,
			&record.Title,
			&record.Year,
			&record.Regions,
			&record.Fetched,
			&record.NotFound,
			&record.Transient,
			&record.Fatal,
			&record.Files,
			&durationMS,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		record.Duration = time.Duration(durationMS) * time.Millisecond
		if parsed, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			record.CreatedAt = parsed
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return records, nil
}
