package extract_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mrpost/internal/domain"
	"mrpost/internal/extract"
)

func TestObject_PlainJSON(t *testing.T) {
	input := `{"summary": "ok", "comments": []}`

	obj, err := extract.Object(input)

	require.NoError(t, err)
	assert.Equal(t, input, obj)
}

func TestObject_SurroundedByProse(t *testing.T) {
	input := "Let me think about this change.\n" +
		"The main concern is the error path.\n\n" +
		`{"summary": "looks fine", "comments": []}` +
		"\n\nThat's my assessment."

	obj, err := extract.Object(input)

	require.NoError(t, err)
	assert.Equal(t, `{"summary": "looks fine", "comments": []}`, obj)
}

func TestObject_MarkdownFences(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "json fence", input: "```json\n{\"summary\": \"ok\"}\n```"},
		{name: "bare fence", input: "```\n{\"summary\": \"ok\"}\n```"},
		{name: "fence with leading prose", input: "Here is the review:\n```json\n{\"summary\": \"ok\"}\n```\ndone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj, err := extract.Object(tt.input)
			require.NoError(t, err)
			assert.Equal(t, `{"summary": "ok"}`, obj)
		})
	}
}

func TestObject_FirstQualifyingCandidateWins(t *testing.T) {
	input := `{"not": "a review"} {"summary": "first"} {"summary": "second"}`

	obj, err := extract.Object(input)

	require.NoError(t, err)
	assert.Equal(t, `{"summary": "first"}`, obj)
}

func TestObject_SkipsInvalidCandidates(t *testing.T) {
	// The first balanced block is not valid JSON; the scan must move on.
	input := `{oops} and then {"summary": "ok"}`

	obj, err := extract.Object(input)

	require.NoError(t, err)
	assert.Equal(t, `{"summary": "ok"}`, obj)
}

func TestObject_NestedObjects(t *testing.T) {
	input := `prose {"summary": "s", "comments": [{"file": "a.c", "line": 1, "body": "b"}]} trailing`

	obj, err := extract.Object(input)

	require.NoError(t, err)
	assert.Equal(t, `{"summary": "s", "comments": [{"file": "a.c", "line": 1, "body": "b"}]}`, obj)
}

func TestObject_NoReview(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "prose only", input: "no json here at all"},
		{name: "object without summary", input: `{"comments": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := extract.Object(tt.input)
			assert.ErrorIs(t, err, extract.ErrNoReview)
		})
	}
}

// A literal brace inside a string value breaks raw-character balancing. The
// scan is expected to miss such objects rather than repair them.
func TestObject_BraceInsideStringIsNotRepaired(t *testing.T) {
	input := `{"summary": "unbalanced } here"`

	_, err := extract.Object(input)

	assert.ErrorIs(t, err, extract.ErrNoReview)
}

func TestParseReview(t *testing.T) {
	input := "Reasoning first.\n" +
		`{"summary": "ok", "comments": [` +
		`{"file": "a.c", "line": 3, "severity": "critical", "body": "null deref"},` +
		`{"file": "b.c", "line": 7, "body": "style nit"}` +
		`]}`

	review, warnings, err := extract.ParseReview(input)

	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, "ok", review.Summary)
	require.Len(t, review.Comments, 2)
	assert.Equal(t, domain.Comment{File: "a.c", Line: 3, Severity: domain.SeverityCritical, Body: "null deref"}, review.Comments[0])
	// Absent severity defaults to suggestion.
	assert.Equal(t, domain.SeveritySuggestion, review.Comments[1].Severity)
}

func TestParseReview_UnrecognizedSeverityWarns(t *testing.T) {
	input := `{"summary": "ok", "comments": [{"file": "a.c", "line": 3, "severity": "blocker", "body": "x"}]}`

	review, warnings, err := extract.ParseReview(input)

	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], `"blocker"`)
	assert.Contains(t, warnings[0], "a.c:3")
	require.Len(t, review.Comments, 1)
	assert.Equal(t, domain.SeveritySuggestion, review.Comments[0].Severity)
}

func TestParseReview_EmptySummaryGetsPlaceholder(t *testing.T) {
	review, _, err := extract.ParseReview(`{"summary": "", "comments": []}`)

	require.NoError(t, err)
	assert.Equal(t, "No summary provided.", review.Summary)
}

func TestParseReview_InvalidComments(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		errText string
	}{
		{
			name:    "missing file",
			input:   `{"summary": "ok", "comments": [{"line": 3, "body": "x"}]}`,
			errText: "missing file",
		},
		{
			name:    "zero line",
			input:   `{"summary": "ok", "comments": [{"file": "a.c", "line": 0, "body": "x"}]}`,
			errText: "positive integer",
		},
		{
			name:    "negative line",
			input:   `{"summary": "ok", "comments": [{"file": "a.c", "line": -2, "body": "x"}]}`,
			errText: "positive integer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := extract.ParseReview(tt.input)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errText)
		})
	}
}

func TestParseReview_NoReview(t *testing.T) {
	_, _, err := extract.ParseReview("just thinking out loud")

	assert.ErrorIs(t, err, extract.ErrNoReview)
}
