// Package extract locates and decodes a review object embedded in free-form
// text. AI review steps often emit reasoning prose before or after the JSON
// payload, and frequently wrap it in markdown code fences; this package
// tolerates both.
package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"mrpost/internal/domain"
)

// ErrNoReview indicates the input contained no JSON object with a "summary"
// key. Callers must treat this as a fatal input error.
var ErrNoReview = errors.New("no review object found in input")

// Compile regex once and reuse (thread-safe).
var fenceRegex = regexp.MustCompile("```(?:json)?\\s*\\n?")

// Object returns the first well-formed JSON object in text, scanning left to
// right, that decodes to a key-value mapping containing a "summary" key.
// Markdown code-fence markers are stripped before scanning.
//
// Candidates are found by balancing raw '{' and '}' characters. A literal
// brace inside a string value therefore breaks nesting for that candidate;
// the scan simply moves on to the next balanced block. This is a known sharp
// edge inherited from the producing side's output contract, kept as is.
func Object(text string) (string, error) {
	text = fenceRegex.ReplaceAllString(text, "")

	depth := 0
	start := -1
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			depth--
			if depth == 0 && start >= 0 {
				candidate := text[start : i+1]
				if isReviewObject(candidate) {
					return candidate, nil
				}
			}
		}
	}
	return "", ErrNoReview
}

func isReviewObject(candidate string) bool {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(candidate), &obj); err != nil {
		return false
	}
	_, ok := obj["summary"]
	return ok
}

// ParseReview extracts the review object from text and decodes it into the
// domain model. Comments with a missing file or non-positive line are input
// errors. Unrecognized severities fall back to suggestion and are returned
// as warnings rather than silently absorbed.
func ParseReview(text string) (domain.Review, []string, error) {
	obj, err := Object(text)
	if err != nil {
		return domain.Review{}, nil, err
	}

	var raw struct {
		Summary  string `json:"summary"`
		Comments []struct {
			File     string `json:"file"`
			Line     int    `json:"line"`
			Severity string `json:"severity"`
			Body     string `json:"body"`
		} `json:"comments"`
	}
	if err := json.Unmarshal([]byte(obj), &raw); err != nil {
		return domain.Review{}, nil, fmt.Errorf("decode review: %w", err)
	}

	review := domain.Review{Summary: raw.Summary}
	if review.Summary == "" {
		review.Summary = "No summary provided."
	}

	var warnings []string
	for i, c := range raw.Comments {
		if c.File == "" {
			return domain.Review{}, nil, fmt.Errorf("comment %d: missing file", i+1)
		}
		if c.Line < 1 {
			return domain.Review{}, nil, fmt.Errorf("comment %d (%s): line must be a positive integer, got %d", i+1, c.File, c.Line)
		}

		severity, ok := domain.ParseSeverity(c.Severity)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("comment %d (%s:%d): unrecognized severity %q, treating as %s", i+1, c.File, c.Line, c.Severity, severity))
		}

		review.Comments = append(review.Comments, domain.Comment{
			File:     c.File,
			Line:     c.Line,
			Severity: severity,
			Body:     c.Body,
		})
	}

	return review, warnings, nil
}
