// Copyright (C) 2026 Harborline Systems (eng@harborline.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"github.com/spf13/cobra"
)

var (
	verbose bool
	repoDir string

	rootCmd = &cobra.Command{
		Use:   "semverlint",
		Short: "Cross-check every recorded Harborline version and the compatibility matrix",
		Long: `semverlint validates compatibility.json: every required component must be
present with a valid SemVer version, every secondary file restating a
version must agree with the manifest, and every major-version expectation
in the compatibility matrix must match the referenced component's actual
major. All problems are reported in one run.

Exit code 0 means every version is consistent; 1 means at least one is not.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runLint,
	}
)

func init() {
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging on stderr")
	rootCmd.Flags().StringVar(&repoDir, "repo", "", "repository to check (default: discovered from the working directory)")
}
