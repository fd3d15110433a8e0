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
	"strings"

	"github.com/sourcegraph/go-diff/diff"
)

// FileStat summarizes one changed file in the outgoing range.
type FileStat struct {
	Path    string
	Added   int
	Deleted int
}

// DiffStats parses the unified diff of the detected range and returns
// per-file line counts. Used for debug output only; the verdict never
// depends on it.
//
// Returns nil for a root commit, which has no range to diff.
func (g *Runner) DiffStats(ctx context.Context, changes *Changes) ([]FileStat, error) {
	if changes == nil || changes.DiffRange == "" {
		return nil, nil
	}

	res := g.Run(ctx, "diff", changes.DiffRange)
	if !res.OK() {
		return nil, fmt.Errorf("diffing %s: %w", changes.DiffRange, res.Err)
	}
	if res.Output == "" {
		return nil, nil
	}

	fileDiffs, err := diff.ParseMultiFileDiff([]byte(res.Output + "\n"))
	if err != nil {
		return nil, fmt.Errorf("parsing diff of %s: %w", changes.DiffRange, err)
	}

	stats := make([]FileStat, 0, len(fileDiffs))
	for _, fd := range fileDiffs {
		s := fd.Stat()
		stats = append(stats, FileStat{
			Path:    diffPath(fd),
			Added:   int(s.Added + s.Changed),
			Deleted: int(s.Deleted + s.Changed),
		})
	}
	return stats, nil
}

// diffPath extracts the repository-relative path from a file diff,
// preferring the post-image name so renames and additions report the
// surviving path.
func diffPath(fd *diff.FileDiff) string {
	name := fd.NewName
	if name == "" || name == "/dev/null" {
		name = fd.OrigName
	}
	name = strings.TrimPrefix(name, "a/")
	return strings.TrimPrefix(name, "b/")
}
