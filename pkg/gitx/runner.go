// Copyright (C) 2026 Harborline Systems (eng@harborline.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package gitx runs git against the working repository and derives the
// outgoing change set the release checks operate on.
//
// Every invocation produces a discriminated Result: callers decide per
// call site whether a failure is fatal (a diff command erroring out) or
// merely informative (a ref that does not exist, which is a normal
// fallback trigger for the outgoing-change detector).
package gitx

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// DefaultTimeout bounds each git invocation. Release checks run against
// local history only, so commands finishing slower than this indicate a
// wedged repository rather than a big one.
const DefaultTimeout = 30 * time.Second

// Result is the outcome of a single git invocation.
//
// Output and Stderr are captured and trimmed regardless of success, so a
// failing command still carries its diagnostic text.
type Result struct {
	Output string
	Stderr string
	Err    error
}

// OK reports whether the command exited zero.
func (r Result) OK() bool { return r.Err == nil }

// Runner executes git commands in a fixed repository.
//
// All methods are safe for concurrent use, though the release checks run
// strictly sequentially.
type Runner struct {
	repoPath string
	timeout  time.Duration
}

// NewRunner creates a runner rooted at repoPath.
func NewRunner(repoPath string, timeout time.Duration) (*Runner, error) {
	if !filepath.IsAbs(repoPath) {
		return nil, fmt.Errorf("repoPath must be absolute: %s", repoPath)
	}

	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Runner{repoPath: repoPath, timeout: timeout}, nil
}

// Discover resolves the repository containing dir (the working directory
// when dir is empty) via `git rev-parse --show-toplevel` and returns a
// runner rooted at that toplevel.
func Discover(ctx context.Context, dir string) (*Runner, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolving working directory: %w", err)
		}
		dir = wd
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", dir, err)
	}

	probe, err := NewRunner(abs, 0)
	if err != nil {
		return nil, err
	}

	res := probe.Run(ctx, "rev-parse", "--show-toplevel")
	if !res.OK() {
		return nil, fmt.Errorf("%s is not inside a git repository: %w", abs, res.Err)
	}

	return NewRunner(filepath.Clean(res.Output), 0)
}

// Root returns the absolute repository path the runner operates in.
func (g *Runner) Root() string { return g.repoPath }

// Run executes a git command and captures both output streams.
func (g *Runner) Run(ctx context.Context, args ...string) Result {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	command := "git"
	if len(args) > 0 {
		command = args[0]
	}

	ctx, span := startRunSpan(ctx, command, g.repoPath)
	defer span.End()

	start := time.Now()

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = g.repoPath

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	result := Result{
		Output: strings.TrimSpace(stdout.String()),
		Stderr: strings.TrimSpace(stderr.String()),
	}

	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			result.Err = fmt.Errorf("git %s: timeout after %v", command, g.timeout)
		} else {
			result.Err = fmt.Errorf("git %s: %w: %s", command, err, result.Stderr)
		}
	}

	recordRunMetrics(ctx, command, time.Since(start), result.OK())
	setRunSpanResult(span, result.OK())

	return result
}

// Probe executes a git command and reports only whether it succeeded.
// Used to test for refs whose absence is expected and non-fatal.
func (g *Runner) Probe(ctx context.Context, args ...string) bool {
	return g.Run(ctx, args...).OK()
}

// splitLines turns git's newline-separated file listings into a slice,
// dropping empty lines.
func splitLines(output string) []string {
	if output == "" {
		return nil
	}

	var lines []string
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
