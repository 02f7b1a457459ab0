// Package player talks to music players and turns what they report into
// events for the display loop.
package player

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Runner executes an external program and returns its standard output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ExecRunner runs programs with os/exec.
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return out, fmt.Errorf("%s %s: %w: %s", name, strings.Join(args, " "), err, msg)
		}
		return out, fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return out, nil
}

// SourceOption configures a command-line backed source.
type SourceOption func(*sourceConfig)

type sourceConfig struct {
	run Runner
}

// WithRunner replaces the program runner, mostly for tests.
func WithRunner(r Runner) SourceOption {
	return func(c *sourceConfig) {
		c.run = r
	}
}

func newSourceConfig(opts []SourceOption) sourceConfig {
	c := sourceConfig{run: ExecRunner}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// splitFields splits a "||"-joined record into exactly n fields.
func splitFields(raw string, n int) []string {
	parts := strings.SplitN(strings.TrimSpace(raw), "||", n)
	for len(parts) < n {
		parts = append(parts, "")
	}
	return parts
}
