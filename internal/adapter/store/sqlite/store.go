package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"mrpost/internal/store"
)

// Store implements the store.Store interface using SQLite.
type Store struct {
	db *sql.DB
}

// NewStore creates a new SQLite store at the given path.
// Use ":memory:" for in-memory database (useful for testing).
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}

	if err := s.createSchema(); err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return s, nil
}

// createSchema creates all tables and indexes if they don't exist.
func (s *Store) createSchema() error {
	schema := `
	-- Stores metadata about each publishing run
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		timestamp INTEGER NOT NULL,
		project TEXT NOT NULL,
		mr_iid INTEGER NOT NULL,
		posted INTEGER NOT NULL DEFAULT 0,
		failed INTEGER NOT NULL DEFAULT 0,
		skipped INTEGER NOT NULL DEFAULT 0
	);

	-- Inline comments that were successfully posted
	CREATE TABLE IF NOT EXISTS posted_comments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		project TEXT NOT NULL,
		mr_iid INTEGER NOT NULL,
		fingerprint TEXT NOT NULL,
		file TEXT NOT NULL,
		line INTEGER NOT NULL,
		severity TEXT NOT NULL,
		posted_at INTEGER NOT NULL,
		UNIQUE(project, mr_iid, fingerprint)
	);

	-- Indexes for performance
	CREATE INDEX IF NOT EXISTS idx_posted_lookup ON posted_comments(project, mr_iid, fingerprint);
	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// CreateRun stores a completed run record.
func (s *Store) CreateRun(ctx context.Context, run store.Run) error {
	query := `
		INSERT INTO runs (run_id, timestamp, project, mr_iid, posted, failed, skipped)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		run.RunID,
		run.Timestamp.Unix(),
		run.Project,
		run.MRIID,
		run.Posted,
		run.Failed,
		run.Skipped,
	)

	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}

	return nil
}

// RecordPosted stores a posted comment. Duplicate fingerprints for the same
// project and MR are ignored.
func (s *Store) RecordPosted(ctx context.Context, comment store.PostedComment) error {
	query := `
		INSERT OR IGNORE INTO posted_comments (project, mr_iid, fingerprint, file, line, severity, posted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		comment.Project,
		comment.MRIID,
		comment.Fingerprint,
		comment.File,
		comment.Line,
		comment.Severity,
		comment.PostedAt.Unix(),
	)

	if err != nil {
		return fmt.Errorf("failed to record posted comment: %w", err)
	}

	return nil
}

// HasPosted reports whether a comment with the given fingerprint was already
// posted against the MR.
func (s *Store) HasPosted(ctx context.Context, project string, mrIID int, fingerprint string) (bool, error) {
	query := `
		SELECT 1 FROM posted_comments
		WHERE project = ? AND mr_iid = ? AND fingerprint = ?
		LIMIT 1
	`

	var one int
	err := s.db.QueryRowContext(ctx, query, project, mrIID, fingerprint).Scan(&one)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("failed to query posted comments: %w", err)
	}

	return true, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
