// Copyright (C) 2026 Harborline Systems (eng@harborline.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package verlint cross-checks every recorded Harborline version.
//
// One run validates the compatibility manifest's structure, each
// component's SemVer syntax, every secondary file that restates a version,
// and the major-version compatibility matrix. Problems accumulate into a
// single ordered list so a release engineer sees the complete remediation
// set after one run; the only hard stop is a missing or unparsable
// manifest.
package verlint

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/HarborlineHQ/harborline/pkg/component"
	"github.com/HarborlineHQ/harborline/pkg/logging"
	"github.com/HarborlineHQ/harborline/pkg/manifest"
	"github.com/HarborlineHQ/harborline/pkg/report"
	"github.com/HarborlineHQ/harborline/pkg/semverx"
)

// Validator is one configured SemVer consistency check.
type Validator struct {
	// RepoRoot is the absolute repository root all fixed paths resolve
	// against.
	RepoRoot string

	// ManifestPath is repository-relative; defaults to manifest.Path.
	ManifestPath string

	Reporter *report.Reporter
	Log      *logging.Logger
}

// New returns a Validator with defaults filled in.
func New(repoRoot string, rep *report.Reporter, log *logging.Logger) *Validator {
	return &Validator{
		RepoRoot:     repoRoot,
		ManifestPath: manifest.Path,
		Reporter:     rep,
		Log:          log,
	}
}

// Run executes every check step and reports the numbered error list.
// A nil return means all versions are consistent.
func (v *Validator) Run(ctx context.Context) error {
	manifestAbs := filepath.Join(v.RepoRoot, filepath.FromSlash(v.ManifestPath))
	if _, err := os.Stat(manifestAbs); err != nil {
		v.Reporter.Error("compatibility manifest %s not found in %s", v.ManifestPath, v.RepoRoot)
		return fmt.Errorf("missing compatibility manifest: %w", err)
	}

	m, err := manifest.Load(manifestAbs)
	if err != nil {
		v.Reporter.Error("loading %s: %v", v.ManifestPath, err)
		return err
	}
	v.Log.Debug("manifest loaded",
		"path", v.ManifestPath,
		"components", len(m.Components),
		"compatibility_records", len(m.Compatibility),
	)

	var errs []string
	errs = v.checkRequiredComponents(m, errs)
	errs = v.checkComponentSyntax(m, errs)
	errs = v.checkRestatements(m, errs)
	errs = v.checkToolingManifest(errs)
	errs = v.checkCompatibilityMatrix(m, errs)

	if len(errs) > 0 {
		for i, e := range errs {
			v.Reporter.Error("%d. %s", i+1, e)
		}
		v.Reporter.Error("semver validation failed with %d error(s)", len(errs))
		return fmt.Errorf("semver validation failed with %d error(s)", len(errs))
	}

	v.Reporter.OK("all component versions and compatibility majors are consistent")
	return nil
}

// checkRequiredComponents flags required components absent from the
// manifest. One error lists all of them so the count stays stable.
func (v *Validator) checkRequiredComponents(m *manifest.Manifest, errs []string) []string {
	if missing := m.Missing(); len(missing) > 0 {
		errs = append(errs, fmt.Sprintf("missing component versions: %s", strings.Join(missing, ", ")))
	}
	return errs
}

// checkComponentSyntax validates each recorded version's SemVer syntax.
func (v *Validator) checkComponentSyntax(m *manifest.Manifest, errs []string) []string {
	for _, name := range component.Required() {
		version, ok := m.Version(name)
		if !ok {
			continue // already reported as missing
		}
		if !semverx.IsValid(version) {
			errs = append(errs, fmt.Sprintf("components.%s: %q is not valid semver", name, version))
		}
	}
	return errs
}

// checkRestatements verifies every secondary file against the manifest.
// Syntax errors and value mismatches are flagged independently so both
// surface when both occur.
func (v *Validator) checkRestatements(m *manifest.Manifest, errs []string) []string {
	for _, r := range restatements {
		got, err := r.extract(v.RepoRoot)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", r.relPath, err))
			continue
		}

		if got.sentinel {
			v.Reporter.Info("%s delegates to packaging metadata (%s); not re-checked", r.relPath, sentinelToken)
			continue
		}

		if !semverx.IsValid(got.value) {
			errs = append(errs, fmt.Sprintf("%s: %q is not valid semver", r.relPath, got.value))
		}

		want, ok := m.Version(r.owner)
		if !ok {
			continue // owning component already reported as missing
		}
		if got.value != want {
			errs = append(errs, fmt.Sprintf("%s: version %q does not match compatibility.json %s version %q",
				r.relPath, got.value, r.owner, want))
		}
	}
	return errs
}

// checkToolingManifest validates the root tooling manifest's version for
// SemVer syntax only; it versions the toolchain workspace and is not
// required to match any component.
func (v *Validator) checkToolingManifest(errs []string) []string {
	r := restatement{relPath: toolingManifestPath, kind: kindJSON, field: "version"}
	got, err := r.extract(v.RepoRoot)
	if err != nil {
		errs = append(errs, fmt.Sprintf("%s: %v", toolingManifestPath, err))
		return errs
	}
	if !semverx.IsValid(got.value) {
		errs = append(errs, fmt.Sprintf("%s: version %q is not valid semver", toolingManifestPath, got.value))
	}
	return errs
}

// checkCompatibilityMatrix validates every recorded major-version
// expectation against the referenced component's actual major.
func (v *Validator) checkCompatibilityMatrix(m *manifest.Manifest, errs []string) []string {
	platform, ok := m.Compatibility[component.Platform]
	if !ok {
		errs = append(errs, fmt.Sprintf("compatibility.%s: record missing", component.Platform))
	} else {
		errs = v.checkMajor(m, errs, component.Platform, "core_major", platform.CoreMajor, component.Core)
		errs = v.checkMajor(m, errs, component.Platform, "contracts_v1_major", platform.ContractsV1Major, component.ContractsV1)
	}

	for _, client := range []string{component.CLI, component.Dashboard} {
		record, ok := m.Compatibility[client]
		if !ok {
			errs = append(errs, fmt.Sprintf("compatibility.%s: record missing", client))
			continue
		}
		errs = v.checkMajor(m, errs, client, "platform_major", record.PlatformMajor, component.Platform)
	}
	return errs
}

// checkMajor compares one declared major-version expectation against the
// actual major of the referenced component. An unparsable or absent
// referenced version skips the comparison; its own error is already
// recorded by the earlier steps.
func (v *Validator) checkMajor(m *manifest.Manifest, errs []string, dependent, field string, declared *int, target string) []string {
	if declared == nil {
		errs = append(errs, fmt.Sprintf("compatibility.%s.%s: not set", dependent, field))
		return errs
	}

	version, ok := m.Version(target)
	if !ok {
		return errs
	}
	actual, err := semverx.Major(version)
	if err != nil {
		return errs
	}

	if *declared != actual {
		errs = append(errs, fmt.Sprintf("compatibility.%s.%s is %d but components.%s is %q (major %d)",
			dependent, field, *declared, target, version, actual))
	}
	return errs
}
