// Package publish orchestrates posting an extracted review to a GitLab
// merge request: one discussion per inline comment, then one summary note.
package publish

import (
	"context"
	"fmt"
	"io"
	"time"

	"mrpost/internal/adapter/glab"
	"mrpost/internal/domain"
	"mrpost/internal/store"
)

// Client defines the glab capabilities the publisher needs.
// This interface allows for faking in tests.
type Client interface {
	LatestDiffVersion(ctx context.Context, mrIID int) (domain.DiffVersion, error)
	CreateDiscussion(ctx context.Context, mrIID int, body string, position glab.Position) error
	CreateNote(ctx context.Context, mrIID int, body string) error
}

// Logger receives diagnostics for recovered failures.
type Logger interface {
	LogInfo(ctx context.Context, message string, fields map[string]interface{})
	LogWarning(ctx context.Context, message string, fields map[string]interface{})
}

// Ledger remembers comments posted in previous runs so they are not
// duplicated. Optional; without it a re-run posts everything again.
type Ledger interface {
	HasPosted(ctx context.Context, project string, mrIID int, fingerprint string) (bool, error)
	RecordPosted(ctx context.Context, comment store.PostedComment) error
	CreateRun(ctx context.Context, run store.Run) error
}

// Deps captures the publisher's collaborators. Client is required; the rest
// are optional.
type Deps struct {
	Client Client
	Ledger Ledger
	Logger Logger
	Out    io.Writer
	Now    func() time.Time
}

// Publisher posts reviews sequentially, in input order, tolerating
// individual comment failures.
type Publisher struct {
	client Client
	ledger Ledger
	logger Logger
	out    io.Writer
	now    func() time.Time
}

// New creates a Publisher from its dependencies.
func New(deps Deps) *Publisher {
	out := deps.Out
	if out == nil {
		out = io.Discard
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Publisher{
		client: deps.Client,
		ledger: deps.Ledger,
		logger: deps.Logger,
		out:    out,
		now:    now,
	}
}

// Request identifies the target MR and carries the review to post.
type Request struct {
	MRIID   int
	Project string
	Review  domain.Review
}

// Result reports what happened to each comment plus the severity tally.
// The tally covers every comment in the input, including failed and
// ledger-skipped ones.
type Result struct {
	Posted  int
	Failed  int
	Skipped int
	Tally   domain.Tally
}

// Publish posts the review to the MR.
//
// With zero comments, exactly one summary note is posted. Otherwise the diff
// version is fetched once (failure is fatal), each comment is posted in
// order (individual failures are logged and counted, never aborting the
// batch), and the summary note is posted last (its failure propagates).
func (p *Publisher) Publish(ctx context.Context, req Request) (Result, error) {
	var result Result
	for _, c := range req.Review.Comments {
		result.Tally.Add(c.Severity)
	}

	if len(req.Review.Comments) == 0 {
		fmt.Fprintln(p.out, "No inline comments to post.")
		if err := p.client.CreateNote(ctx, req.MRIID, SummaryBody(req.Review.Summary, result.Tally)); err != nil {
			return result, fmt.Errorf("post summary note: %w", err)
		}
		fmt.Fprintf(p.out, "Summary posted to MR !%d\n", req.MRIID)
		p.recordRun(ctx, req, result)
		return result, nil
	}

	fmt.Fprintf(p.out, "Fetching MR !%d diff metadata ...\n", req.MRIID)
	version, err := p.client.LatestDiffVersion(ctx, req.MRIID)
	if err != nil {
		return result, err
	}

	for _, comment := range req.Review.Comments {
		if p.alreadyPosted(ctx, req, comment) {
			fmt.Fprintf(p.out, "  Skipping [%s] %s:%d (already posted)\n", comment.Severity, comment.File, comment.Line)
			result.Skipped++
			continue
		}

		fmt.Fprintf(p.out, "  Posting [%s] %s:%d ... ", comment.Severity, comment.File, comment.Line)
		position := glab.NewTextPosition(version, comment.File, comment.Line)
		if err := p.client.CreateDiscussion(ctx, req.MRIID, CommentBody(comment), position); err != nil {
			fmt.Fprintln(p.out, "FAILED")
			p.warn(ctx, "failed to post inline comment", map[string]interface{}{
				"file":  comment.File,
				"line":  comment.Line,
				"error": err.Error(),
			})
			result.Failed++
			continue
		}
		fmt.Fprintln(p.out, "OK")
		result.Posted++
		p.recordPosted(ctx, req, comment)
	}

	if err := p.client.CreateNote(ctx, req.MRIID, SummaryBody(req.Review.Summary, result.Tally)); err != nil {
		return result, fmt.Errorf("post summary note: %w", err)
	}

	fmt.Fprintf(p.out, "\nDone: %d/%d inline comments + summary posted to MR !%d\n",
		result.Posted, len(req.Review.Comments), req.MRIID)
	p.recordRun(ctx, req, result)
	return result, nil
}

// CommentBody builds the discussion body with the severity marker and label.
func CommentBody(c domain.Comment) string {
	if emoji := c.Severity.Emoji(); emoji != "" {
		return fmt.Sprintf("%s **[%s]** %s", emoji, c.Severity.Label(), c.Body)
	}
	return fmt.Sprintf("**[%s]** %s", c.Severity.Label(), c.Body)
}

// SummaryBody builds the summary note body with the severity stat line.
func SummaryBody(summary string, tally domain.Tally) string {
	return fmt.Sprintf("## AI Code Review\n\n%s\n\n**Inline comments:** %s", summary, tally)
}

func (p *Publisher) alreadyPosted(ctx context.Context, req Request, comment domain.Comment) bool {
	if p.ledger == nil {
		return false
	}
	seen, err := p.ledger.HasPosted(ctx, req.Project, req.MRIID, domain.CommentFingerprint(comment))
	if err != nil {
		// Ledger trouble must not block posting.
		p.warn(ctx, "ledger lookup failed", map[string]interface{}{"error": err.Error()})
		return false
	}
	return seen
}

func (p *Publisher) recordPosted(ctx context.Context, req Request, comment domain.Comment) {
	if p.ledger == nil {
		return
	}
	err := p.ledger.RecordPosted(ctx, store.PostedComment{
		Project:     req.Project,
		MRIID:       req.MRIID,
		Fingerprint: domain.CommentFingerprint(comment),
		File:        comment.File,
		Line:        comment.Line,
		Severity:    string(comment.Severity),
		PostedAt:    p.now(),
	})
	if err != nil {
		p.warn(ctx, "ledger record failed", map[string]interface{}{"error": err.Error()})
	}
}

func (p *Publisher) recordRun(ctx context.Context, req Request, result Result) {
	if p.ledger == nil {
		return
	}
	now := p.now()
	err := p.ledger.CreateRun(ctx, store.Run{
		RunID:     store.GenerateRunID(now, req.Project, req.MRIID),
		Timestamp: now,
		Project:   req.Project,
		MRIID:     req.MRIID,
		Posted:    result.Posted,
		Failed:    result.Failed,
		Skipped:   result.Skipped,
	})
	if err != nil {
		p.warn(ctx, "ledger run record failed", map[string]interface{}{"error": err.Error()})
	}
}

func (p *Publisher) warn(ctx context.Context, message string, fields map[string]interface{}) {
	if p.logger == nil {
		return
	}
	p.logger.LogWarning(ctx, message, fields)
}
