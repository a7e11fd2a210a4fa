// Package store defines the posted-comment ledger used to skip comments
// that were already published against an MR in a previous run.
package store

import (
	"context"
	"time"
)

// Run records one publishing invocation against an MR.
type Run struct {
	RunID     string
	Timestamp time.Time
	Project   string
	MRIID     int
	Posted    int
	Failed    int
	Skipped   int
}

// PostedComment records one successfully posted inline comment.
type PostedComment struct {
	Project     string
	MRIID       int
	Fingerprint string
	File        string
	Line        int
	Severity    string
	PostedAt    time.Time
}

// Store persists runs and posted comments.
type Store interface {
	// CreateRun stores a completed run record.
	CreateRun(ctx context.Context, run Run) error

	// RecordPosted stores a posted comment. Recording the same
	// (project, mr, fingerprint) twice is not an error.
	RecordPosted(ctx context.Context, comment PostedComment) error

	// HasPosted reports whether a comment with the given fingerprint was
	// already posted against the MR.
	HasPosted(ctx context.Context, project string, mrIID int, fingerprint string) (bool, error)

	// Close releases underlying resources.
	Close() error
}
