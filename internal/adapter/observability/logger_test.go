package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{input: "debug", expected: LevelDebug},
		{input: "info", expected: LevelInfo},
		{input: "warn", expected: LevelWarn},
		{input: "warning", expected: LevelWarn},
		{input: "error", expected: LevelError},
		{input: "ERROR", expected: LevelError},
		{input: "", expected: LevelInfo},
		{input: "verbose", expected: LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.input))
		})
	}
}

func TestParseFormat(t *testing.T) {
	assert.Equal(t, FormatJSON, ParseFormat("json"))
	assert.Equal(t, FormatJSON, ParseFormat("JSON"))
	assert.Equal(t, FormatHuman, ParseFormat("human"))
	assert.Equal(t, FormatHuman, ParseFormat(""))
}

func TestLoggerHumanFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LevelInfo, FormatHuman, &buf)

	logger.LogWarning(context.Background(), "post failed", map[string]interface{}{
		"file": "a.c",
		"line": 3,
	})

	assert.Equal(t, "[WARN] post failed (file=a.c, line=3)\n", buf.String())
}

func TestLoggerHumanFormatNoFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LevelInfo, FormatHuman, &buf)

	logger.LogInfo(context.Background(), "summary posted", nil)

	assert.Equal(t, "[INFO] summary posted\n", buf.String())
}

func TestLoggerJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LevelInfo, FormatJSON, &buf)

	logger.LogError(context.Background(), "no diff versions", map[string]interface{}{"mr": 42})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "no diff versions", entry["message"])
	assert.Equal(t, float64(42), entry["mr"])
	assert.NotEmpty(t, entry["timestamp"])
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LevelError, FormatHuman, &buf)

	logger.LogDebug(context.Background(), "ignored", nil)
	logger.LogInfo(context.Background(), "ignored", nil)
	logger.LogWarning(context.Background(), "ignored", nil)

	assert.Empty(t, buf.String())

	logger.LogError(context.Background(), "kept", nil)
	assert.Equal(t, "[ERROR] kept\n", buf.String())
}

func TestNilLoggerIsSafe(t *testing.T) {
	var logger *Logger

	assert.NotPanics(t, func() {
		logger.LogInfo(context.Background(), "noop", nil)
	})
}
