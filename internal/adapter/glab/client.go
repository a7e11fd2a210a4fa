// Package glab wraps the glab CLI, which handles GitLab authentication,
// retries, and REST details on our behalf.
package glab

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"mrpost/internal/domain"
)

// ErrNoDiffVersions indicates the MR has no diff versions to anchor
// positioned comments to. Callers must treat this as fatal.
var ErrNoDiffVersions = errors.New("no diff versions found for merge request")

// Position anchors a discussion to a line of the MR diff, per the GitLab
// discussions API. Old and new path are always identical: renames are not
// supported.
type Position struct {
	BaseSHA      string `json:"base_sha"`
	StartSHA     string `json:"start_sha"`
	HeadSHA      string `json:"head_sha"`
	PositionType string `json:"position_type"`
	NewPath      string `json:"new_path"`
	OldPath      string `json:"old_path"`
	NewLine      int    `json:"new_line"`
}

// NewTextPosition builds the position descriptor for an inline comment from
// the diff version fetched at the start of the run.
func NewTextPosition(version domain.DiffVersion, file string, line int) Position {
	return Position{
		BaseSHA:      version.BaseSHA,
		StartSHA:     version.StartSHA,
		HeadSHA:      version.HeadSHA,
		PositionType: "text",
		NewPath:      file,
		OldPath:      file,
		NewLine:      line,
	}
}

// Client calls glab as a subprocess via an injected Runner.
type Client struct {
	runner Runner
	repo   string
}

// NewClient creates a client. repo is the optional project path override
// passed to glab via -R; when empty, glab detects the project from the
// working directory.
func NewClient(runner Runner, repo string) *Client {
	return &Client{runner: runner, repo: repo}
}

// LatestDiffVersion fetches the most recent diff version for the MR.
// The API returns versions newest first.
func (c *Client) LatestDiffVersion(ctx context.Context, mrIID int) (domain.DiffVersion, error) {
	endpoint := fmt.Sprintf("projects/:id/merge_requests/%d/versions", mrIID)

	out, err := c.runner.Run(ctx, "", c.withRepo("api", endpoint)...)
	if err != nil {
		return domain.DiffVersion{}, fmt.Errorf("fetch diff versions: %w", err)
	}

	var versions []domain.DiffVersion
	if err := json.Unmarshal(out, &versions); err != nil {
		return domain.DiffVersion{}, fmt.Errorf("decode diff versions: %w", err)
	}
	if len(versions) == 0 {
		return domain.DiffVersion{}, ErrNoDiffVersions
	}

	return versions[0], nil
}

// CreateDiscussion posts an inline comment as a new discussion anchored to
// the given position.
func (c *Client) CreateDiscussion(ctx context.Context, mrIID int, body string, position Position) error {
	payload, err := json.Marshal(struct {
		Body     string   `json:"body"`
		Position Position `json:"position"`
	}{Body: body, Position: position})
	if err != nil {
		return fmt.Errorf("marshal discussion payload: %w", err)
	}

	endpoint := fmt.Sprintf("projects/:id/merge_requests/%d/discussions", mrIID)

	_, err = c.runner.Run(ctx, string(payload), c.withRepo("api", endpoint, "-X", "POST", "--input", "-")...)
	if err != nil {
		return fmt.Errorf("create discussion: %w", err)
	}
	return nil
}

// CreateNote posts a plain (non-positioned) note on the MR.
func (c *Client) CreateNote(ctx context.Context, mrIID int, body string) error {
	_, err := c.runner.Run(ctx, "", c.withRepo("mr", "note", strconv.Itoa(mrIID), "-m", body)...)
	if err != nil {
		return fmt.Errorf("create note: %w", err)
	}
	return nil
}

func (c *Client) withRepo(args ...string) []string {
	if c.repo == "" {
		return args
	}
	return append(args, "-R", c.repo)
}
