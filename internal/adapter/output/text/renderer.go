// Package text renders reviews for dry runs, where nothing is posted and
// the user inspects what would have gone out.
package text

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"mrpost/internal/domain"
)

const rule = 60

// Renderer writes a human-readable rendering of a review.
type Renderer struct {
	out io.Writer
}

// NewRenderer constructs a renderer targeting the given writer.
func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

// Render prints the summary, every comment with severity, file, line and
// body verbatim, and the severity totals. It performs no network calls.
func (r *Renderer) Render(review domain.Review) error {
	var builder strings.Builder
	caser := cases.Title(language.English)

	builder.WriteString(strings.Repeat("=", rule) + "\n")
	builder.WriteString("SUMMARY\n")
	builder.WriteString(strings.Repeat("=", rule) + "\n")
	builder.WriteString(review.Summary + "\n\n")

	if len(review.Comments) == 0 {
		builder.WriteString("No inline comments.\n")
		_, err := io.WriteString(r.out, builder.String())
		return err
	}

	builder.WriteString(strings.Repeat("=", rule) + "\n")
	builder.WriteString(fmt.Sprintf("INLINE COMMENTS (%d)\n", len(review.Comments)))
	builder.WriteString(strings.Repeat("=", rule) + "\n")

	var tally domain.Tally
	for _, c := range review.Comments {
		tally.Add(c.Severity)
		if emoji := c.Severity.Emoji(); emoji != "" {
			builder.WriteString(fmt.Sprintf("\n%s [%s] %s:%d\n", emoji, c.Severity.Label(), c.File, c.Line))
		} else {
			builder.WriteString(fmt.Sprintf("\n[%s] %s:%d\n", c.Severity.Label(), c.File, c.Line))
		}
		builder.WriteString(fmt.Sprintf("  %s\n", c.Body))
	}

	builder.WriteString("\n" + strings.Repeat("-", rule) + "\n")
	builder.WriteString(fmt.Sprintf("Total: %s: %d, %s: %d, %s: %d\n",
		caser.String(string(domain.SeverityCritical)), tally.Critical,
		caser.String(string(domain.SeverityWarning)), tally.Warning,
		caser.String(string(domain.SeveritySuggestion)), tally.Suggestion,
	))
	builder.WriteString("(dry run — nothing was posted)\n")

	_, err := io.WriteString(r.out, builder.String())
	return err
}
