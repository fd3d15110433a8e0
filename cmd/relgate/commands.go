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
		Use:   "relgate",
		Short: "Fail the release when versioned components change without a compatibility.json update",
		Long: `relgate inspects the outgoing commits of the current branch. If any
changed file belongs to a versioned Harborline component, compatibility.json
must be part of the same outgoing change set, otherwise the check fails.

Exit code 0 means the release may proceed; 1 means it may not.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runGate,
	}
)

func init() {
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging on stderr")
	rootCmd.Flags().StringVar(&repoDir, "repo", "", "repository to check (default: discovered from the working directory)")
}
