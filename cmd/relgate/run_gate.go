// Copyright (C) 2026 Harborline Systems (eng@harborline.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"github.com/spf13/cobra"

	"github.com/HarborlineHQ/harborline/pkg/gitx"
	"github.com/HarborlineHQ/harborline/pkg/logging"
	"github.com/HarborlineHQ/harborline/pkg/relgate"
	"github.com/HarborlineHQ/harborline/pkg/report"
)

func runGate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	log := logging.NewRun("relgate", verbose)
	rep := report.New()

	runner, err := gitx.Discover(ctx, repoDir)
	if err != nil {
		rep.Error("%v", err)
		return err
	}
	log.Debug("repository resolved", "root", runner.Root())

	gate := relgate.New(runner.Root(), runner, rep, log)
	gate.Stats = runner
	return gate.Run(ctx)
}
