// Package observability provides structured diagnostic logging.
package observability

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"
)

// Level defines the logging verbosity level.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel maps a config string to a Level, defaulting to info.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Format defines the output format for logs.
type Format int

const (
	FormatHuman Format = iota
	FormatJSON
)

// ParseFormat maps a config string to a Format, defaulting to human.
func ParseFormat(s string) Format {
	if strings.EqualFold(s, "json") {
		return FormatJSON
	}
	return FormatHuman
}

// Logger writes leveled, structured log lines to a single writer.
type Logger struct {
	level  Level
	format Format
	out    io.Writer
	now    func() time.Time
}

// NewLogger creates a logger with the specified config.
func NewLogger(level Level, format Format, out io.Writer) *Logger {
	return &Logger{
		level:  level,
		format: format,
		out:    out,
		now:    time.Now,
	}
}

// LogDebug logs a debug message with structured fields.
func (l *Logger) LogDebug(ctx context.Context, message string, fields map[string]interface{}) {
	l.write(LevelDebug, "debug", message, fields)
}

// LogInfo logs an informational message with structured fields.
func (l *Logger) LogInfo(ctx context.Context, message string, fields map[string]interface{}) {
	l.write(LevelInfo, "info", message, fields)
}

// LogWarning logs a warning message with structured fields.
func (l *Logger) LogWarning(ctx context.Context, message string, fields map[string]interface{}) {
	l.write(LevelWarn, "warn", message, fields)
}

// LogError logs an error message with structured fields.
func (l *Logger) LogError(ctx context.Context, message string, fields map[string]interface{}) {
	l.write(LevelError, "error", message, fields)
}

func (l *Logger) write(level Level, name, message string, fields map[string]interface{}) {
	if l == nil || level < l.level {
		return
	}

	if l.format == FormatJSON {
		entry := map[string]interface{}{
			"level":     name,
			"timestamp": l.now().UTC().Format(time.RFC3339),
			"message":   message,
		}
		for k, v := range fields {
			entry[k] = v
		}
		data, err := json.Marshal(entry)
		if err != nil {
			fmt.Fprintf(l.out, `{"level":"error","message":"marshal log entry: %v"}`+"\n", err)
			return
		}
		fmt.Fprintln(l.out, string(data))
		return
	}

	if len(fields) == 0 {
		fmt.Fprintf(l.out, "[%s] %s\n", strings.ToUpper(name), message)
		return
	}
	fmt.Fprintf(l.out, "[%s] %s (%s)\n", strings.ToUpper(name), message, formatFields(fields))
}

// formatFields renders fields as "k=v, k=v" with deterministic key order.
func formatFields(fields map[string]interface{}) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, fields[k]))
	}
	return strings.Join(parts, ", ")
}
