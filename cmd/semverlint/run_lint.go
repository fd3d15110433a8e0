// Copyright (C) 2026 Harborline Systems (eng@harborline.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/HarborlineHQ/harborline/pkg/gitx"
	"github.com/HarborlineHQ/harborline/pkg/logging"
	"github.com/HarborlineHQ/harborline/pkg/report"
	"github.com/HarborlineHQ/harborline/pkg/verlint"
)

func runLint(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	log := logging.NewRun("semverlint", verbose)
	rep := report.New()

	root := repoDir
	if runner, err := gitx.Discover(ctx, repoDir); err == nil {
		root = runner.Root()
	} else if root == "" {
		// The validator only reads files, so running outside a git
		// checkout (an exported tarball, say) still works from the
		// current directory.
		wd, wdErr := os.Getwd()
		if wdErr != nil {
			rep.Error("resolving working directory: %v", wdErr)
			return wdErr
		}
		root = wd
		log.Warn("not inside a git repository; checking from working directory", "root", root)
	}
	log.Debug("repository resolved", "root", root)

	return verlint.New(root, rep, log).Run(ctx)
}
