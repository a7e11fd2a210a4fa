package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Severity classifies an inline review comment.
type Severity string

const (
	SeverityCritical   Severity = "critical"
	SeverityWarning    Severity = "warning"
	SeveritySuggestion Severity = "suggestion"
)

// Valid reports whether the severity is one of the known values.
func (s Severity) Valid() bool {
	switch s {
	case SeverityCritical, SeverityWarning, SeveritySuggestion:
		return true
	}
	return false
}

// Label returns the uppercase marker used in posted comment bodies.
func (s Severity) Label() string {
	return strings.ToUpper(string(s))
}

// Emoji returns the marker prefixed to posted comment bodies.
func (s Severity) Emoji() string {
	switch s {
	case SeverityCritical:
		return "❗"
	case SeverityWarning:
		return "⚠️"
	case SeveritySuggestion:
		return "💡"
	}
	return ""
}

// ParseSeverity normalizes a raw severity string. Absent values default to
// suggestion. Unrecognized values also fall back to suggestion, but ok is
// false so callers can surface a warning instead of silently absorbing them.
func ParseSeverity(raw string) (severity Severity, ok bool) {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if trimmed == "" {
		return SeveritySuggestion, true
	}
	s := Severity(trimmed)
	if s.Valid() {
		return s, true
	}
	return SeveritySuggestion, false
}

// Comment is one inline remark anchored to a file and line of an MR diff.
type Comment struct {
	File     string   `json:"file"`
	Line     int      `json:"line"`
	Severity Severity `json:"severity"`
	Body     string   `json:"body"`
}

// Review is the payload produced by the AI review step.
type Review struct {
	Summary  string    `json:"summary"`
	Comments []Comment `json:"comments"`
}

// DiffVersion holds the commit identifiers that anchor positioned comments
// to one revision of an MR diff. Fetched once per run and reused for every
// comment in that run.
type DiffVersion struct {
	BaseSHA  string `json:"base_commit_sha"`
	StartSHA string `json:"start_commit_sha"`
	HeadSHA  string `json:"head_commit_sha"`
}

// Tally counts comments by severity.
type Tally struct {
	Critical   int
	Warning    int
	Suggestion int
}

// Add increments the bucket for the given severity. Severities outside the
// closed enum count as suggestions, matching the ParseSeverity fallback.
func (t *Tally) Add(s Severity) {
	switch s {
	case SeverityCritical:
		t.Critical++
	case SeverityWarning:
		t.Warning++
	default:
		t.Suggestion++
	}
}

// Total returns the number of tallied comments.
func (t Tally) Total() int {
	return t.Critical + t.Warning + t.Suggestion
}

// String renders the tally as a stat line, e.g. "1 critical, 2 warnings, 3 suggestions".
func (t Tally) String() string {
	return fmt.Sprintf("%d critical, %d warnings, %d suggestions", t.Critical, t.Warning, t.Suggestion)
}

// CommentFingerprint returns a deterministic hash identifying a comment.
// Comments with the same fingerprint are considered duplicates across runs.
// The body is normalized (lowercase, trimmed, whitespace collapsed) so
// incidental formatting differences do not defeat matching.
func CommentFingerprint(c Comment) string {
	normalized := strings.ToLower(strings.TrimSpace(c.Body))
	normalized = strings.Join(strings.Fields(normalized), " ")

	input := fmt.Sprintf("%s:%d:%s:%s", c.File, c.Line, c.Severity, normalized)
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])
}
