// Copyright (C) 2026 Harborline Systems (eng@harborline.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package gitx

import (
	"context"
	"fmt"
)

// Tier identifies which baseline strategy produced the outgoing set.
type Tier int

const (
	// TierUpstream diffs against the configured upstream tracking ref.
	TierUpstream Tier = iota + 1
	// TierMainline diffs against the merge-base with origin/main or
	// origin/master.
	TierMainline
	// TierLastCommit falls back to the most recent commit's file list.
	TierLastCommit
)

// String returns the tier name used in logs and metrics.
func (t Tier) String() string {
	switch t {
	case TierUpstream:
		return "upstream"
	case TierMainline:
		return "mainline"
	case TierLastCommit:
		return "last_commit"
	default:
		return "unknown"
	}
}

// Changes is the detector output: the ordered outgoing file list plus a
// description of the baseline it was computed against.
type Changes struct {
	// Files are repository-relative, forward-slash paths in git's diff
	// order.
	Files []string

	// Baseline is the human-readable description of the comparison point,
	// e.g. "upstream origin/feature" or "last commit only".
	Baseline string

	// Tier records which fallback strategy was used.
	Tier Tier

	// DiffRange is the range argument the file list was derived from,
	// reusable for DiffStats. Empty for a root commit.
	DiffRange string
}

// mainlineRefs are probed in order when no upstream is configured.
var mainlineRefs = []string{"origin/main", "origin/master"}

// Outgoing determines the files changed in outgoing commits using an
// ordered fallback, first success wins:
//
//  1. Diff against the branch's upstream tracking ref (upstream...HEAD).
//  2. Diff against the merge-base of HEAD and origin/main or
//     origin/master.
//  3. Diff HEAD against its parent (or, for a root commit, HEAD's own
//     file list).
//
// Nonexistent refs trigger the next tier; any other git failure is fatal
// and returned with the captured diagnostic text.
func (g *Runner) Outgoing(ctx context.Context) (*Changes, error) {
	// Tier 1: configured upstream tracking ref.
	upstream := g.Run(ctx, "rev-parse", "--abbrev-ref", "--symbolic-full-name", "@{u}")
	if upstream.OK() && upstream.Output != "" {
		diffRange := upstream.Output + "...HEAD"
		res := g.Run(ctx, "diff", "--name-only", diffRange)
		if !res.OK() {
			return nil, fmt.Errorf("diffing against upstream %s: %w", upstream.Output, res.Err)
		}

		recordBaselineTier(ctx, TierUpstream)
		return &Changes{
			Files:     splitLines(res.Output),
			Baseline:  "upstream " + upstream.Output,
			Tier:      TierUpstream,
			DiffRange: diffRange,
		}, nil
	}

	// Tier 2: merge-base with a remote mainline ref.
	for _, ref := range mainlineRefs {
		if !g.Probe(ctx, "rev-parse", "--verify", "--quiet", ref+"^{commit}") {
			continue
		}

		mergeBase := g.Run(ctx, "merge-base", "HEAD", ref)
		if !mergeBase.OK() {
			return nil, fmt.Errorf("computing merge-base with %s: %w", ref, mergeBase.Err)
		}

		diffRange := mergeBase.Output + "..HEAD"
		res := g.Run(ctx, "diff", "--name-only", diffRange)
		if !res.OK() {
			return nil, fmt.Errorf("diffing against merge-base with %s: %w", ref, res.Err)
		}

		recordBaselineTier(ctx, TierMainline)
		return &Changes{
			Files:     splitLines(res.Output),
			Baseline:  fmt.Sprintf("merge-base with %s (%.12s)", ref, mergeBase.Output),
			Tier:      TierMainline,
			DiffRange: diffRange,
		}, nil
	}

	// Tier 3: most recent commit only.
	if g.Probe(ctx, "rev-parse", "--verify", "--quiet", "HEAD~1") {
		diffRange := "HEAD~1..HEAD"
		res := g.Run(ctx, "diff", "--name-only", diffRange)
		if !res.OK() {
			return nil, fmt.Errorf("diffing last commit: %w", res.Err)
		}

		recordBaselineTier(ctx, TierLastCommit)
		return &Changes{
			Files:     splitLines(res.Output),
			Baseline:  "last commit only",
			Tier:      TierLastCommit,
			DiffRange: diffRange,
		}, nil
	}

	// Root commit: no parent to diff against, so the whole commit is
	// outgoing.
	res := g.Run(ctx, "show", "--name-only", "--format=", "HEAD")
	if !res.OK() {
		return nil, fmt.Errorf("listing root commit files: %w", res.Err)
	}

	recordBaselineTier(ctx, TierLastCommit)
	return &Changes{
		Files:    splitLines(res.Output),
		Baseline: "last commit only (root commit)",
		Tier:     TierLastCommit,
	}, nil
}
