package glab

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Runner executes one glab invocation and returns its stdout. Implementations
// must return a non-nil error when the subprocess exits non-zero.
type Runner interface {
	Run(ctx context.Context, stdin string, args ...string) ([]byte, error)
}

// ExecRunner runs the configured binary via os/exec.
type ExecRunner struct {
	Binary string
}

// Run executes the binary with the given arguments, feeding stdin when
// non-empty. Stderr is folded into the returned error.
func (r ExecRunner) Run(ctx context.Context, stdin string, args ...string) ([]byte, error) {
	binary := r.Binary
	if binary == "" {
		binary = "glab"
	}

	cmd := exec.CommandContext(ctx, binary, args...)
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s %s: %w: %s", binary, strings.Join(args, " "), err, msg)
		}
		return nil, fmt.Errorf("%s %s: %w", binary, strings.Join(args, " "), err)
	}

	return stdout.Bytes(), nil
}
