// Copyright (C) 2026 Harborline Systems (eng@harborline.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package relgate implements the release-intent check: if any outgoing
// change touches a versioned component, the compatibility manifest must be
// part of the same outgoing change set, otherwise the release fails.
//
// The check mutates nothing. Its only outputs are verdict lines on stdout
// and the process exit code the caller derives from Run's error.
package relgate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/HarborlineHQ/harborline/pkg/component"
	"github.com/HarborlineHQ/harborline/pkg/gitx"
	"github.com/HarborlineHQ/harborline/pkg/logging"
	"github.com/HarborlineHQ/harborline/pkg/manifest"
	"github.com/HarborlineHQ/harborline/pkg/report"
)

// SkipEnvVar is the escape hatch. When set to exactly "1" the gate is
// skipped entirely and the check succeeds, for emergency releases where a
// human has taken responsibility for compatibility review.
const SkipEnvVar = "HARBOR_RELEASE_GATE_SKIP"

const skipSentinel = "1"

// Detector abstracts the outgoing-change lookup so the gate can be tested
// without a live repository.
type Detector interface {
	Outgoing(ctx context.Context) (*gitx.Changes, error)
}

// StatsSource optionally enriches debug logs with per-file line counts
// for the detected range. *gitx.Runner implements it.
type StatsSource interface {
	DiffStats(ctx context.Context, changes *gitx.Changes) ([]gitx.FileStat, error)
}

// Gate is one configured release-intent check.
type Gate struct {
	// RepoRoot is the absolute repository root the manifest path is
	// resolved against.
	RepoRoot string

	// ManifestPath is repository-relative; defaults to manifest.Path.
	ManifestPath string

	// Detector produces the outgoing change set.
	Detector Detector

	// Stats, when set, feeds per-file line counts into debug logs.
	// The verdict never depends on it.
	Stats StatsSource

	Reporter *report.Reporter
	Log      *logging.Logger

	// LookupEnv defaults to os.LookupEnv; tests inject a stub.
	LookupEnv func(string) (string, bool)
}

// New returns a Gate with defaults filled in.
func New(repoRoot string, detector Detector, rep *report.Reporter, log *logging.Logger) *Gate {
	return &Gate{
		RepoRoot:     repoRoot,
		ManifestPath: manifest.Path,
		Detector:     detector,
		Reporter:     rep,
		Log:          log,
		LookupEnv:    os.LookupEnv,
	}
}

// Run executes the check. A nil return means the release may proceed;
// any error means the gate failed and has already reported why.
func (g *Gate) Run(ctx context.Context) error {
	if g.skipRequested() {
		g.Reporter.Warn("release gate skipped: %s=%s is set", SkipEnvVar, skipSentinel)
		return nil
	}

	manifestAbs := filepath.Join(g.RepoRoot, filepath.FromSlash(g.ManifestPath))
	if _, err := os.Stat(manifestAbs); err != nil {
		g.Reporter.Error("compatibility manifest %s not found in %s", g.ManifestPath, g.RepoRoot)
		return fmt.Errorf("missing compatibility manifest: %w", err)
	}

	changes, err := g.Detector.Outgoing(ctx)
	if err != nil {
		g.Reporter.Error("determining outgoing changes: %v", err)
		return err
	}

	g.Reporter.Info("comparing against %s: %d outgoing file(s)", changes.Baseline, len(changes.Files))
	g.Log.Debug("outgoing change set resolved",
		"tier", changes.Tier.String(),
		"baseline", changes.Baseline,
		"files", len(changes.Files),
	)
	g.logDiffStats(ctx, changes)

	touched := component.Touched(changes.Files)
	if len(touched) == 0 {
		g.Reporter.OK("no versioned component touched; manifest update not required")
		return nil
	}

	if g.manifestChanged(changes.Files) {
		g.Reporter.OK("components %s touched and %s updated in the same change set",
			strings.Join(touched, ", "), g.ManifestPath)
		return nil
	}

	g.Reporter.Error("components changed without a %s update", g.ManifestPath)
	g.Reporter.Error("touched components: %s", strings.Join(touched, ", "))
	g.Reporter.Info("to proceed, update %s in this change set:", g.ManifestPath)
	g.Reporter.Info("  1. bump the version of each touched component under \"components\"")
	g.Reporter.Info("  2. review the \"compatibility\" matrix majors against the new versions")
	g.Reporter.Info("  3. commit %s together with the component changes", g.ManifestPath)

	return errors.New("release gate failed: component change without manifest update")
}

// logDiffStats emits per-file added/deleted counts at debug level.
// Failures are logged and otherwise ignored.
func (g *Gate) logDiffStats(ctx context.Context, changes *gitx.Changes) {
	if g.Stats == nil || !g.Log.Slog().Enabled(ctx, slog.LevelDebug) {
		return
	}

	stats, err := g.Stats.DiffStats(ctx, changes)
	if err != nil {
		g.Log.Debug("diff stats unavailable", "error", err.Error())
		return
	}
	for _, s := range stats {
		g.Log.Debug("outgoing file", "path", s.Path, "added", s.Added, "deleted", s.Deleted)
	}
}

func (g *Gate) skipRequested() bool {
	lookup := g.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}

	value, set := lookup(SkipEnvVar)
	if !set {
		return false
	}
	if value != skipSentinel {
		g.Reporter.Warn("%s=%q ignored (must be exactly %q to skip)", SkipEnvVar, value, skipSentinel)
		return false
	}
	return true
}

// manifestChanged reports whether the manifest's own path appears in the
// outgoing file list.
func (g *Gate) manifestChanged(files []string) bool {
	want := component.Normalize(g.ManifestPath)
	for _, f := range files {
		if component.Normalize(f) == want {
			return true
		}
	}
	return false
}
