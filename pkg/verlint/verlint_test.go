// Copyright (C) 2026 Harborline Systems (eng@harborline.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package verlint

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HarborlineHQ/harborline/pkg/logging"
	"github.com/HarborlineHQ/harborline/pkg/report"
)

// =============================================================================
// Fixture tree
// =============================================================================

// fixture is a fully consistent monorepo checkout. Tests mutate single
// files from here to provoke specific errors.
type fixture struct {
	root string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{root: t.TempDir()}

	f.write(t, "compatibility.json", `{
  "components": {
    "core": "2.4.1",
    "contracts_v1": "1.3.0",
    "platform": "3.1.2",
    "cli": "0.9.4",
    "dashboard": "1.1.0"
  },
  "compatibility": {
    "platform":  { "core_major": 2, "contracts_v1_major": 1 },
    "cli":       { "platform_major": 3 },
    "dashboard": { "platform_major": 3 }
  }
}`)

	f.write(t, "core/pyproject.toml", pyproject("harborline-core", "2.4.1"))
	f.write(t, "core/harborline_core/__init__.py", "__version__ = _DIST_VERSION\n")
	f.write(t, "platform/pyproject.toml", pyproject("harborline-platform", "3.1.2"))
	f.write(t, "platform/harborline_platform/__init__.py", `__version__ = "3.1.2"`+"\n")
	f.write(t, "cli/pyproject.toml", pyproject("harborline-cli", "0.9.4"))
	f.write(t, "contracts/v1/package.json", packageJSON("@harborline/contracts-v1", "1.3.0"))
	f.write(t, "dashboard/package.json", packageJSON("@harborline/dashboard", "1.1.0"))
	f.write(t, "deploy/chart/Chart.yaml", "apiVersion: v2\nname: harborline\nappVersion: \"3.1.2\"\nversion: 0.4.0\n")
	f.write(t, "package.json", packageJSON("harborline-workspace", "0.7.2"))

	return f
}

func (f *fixture) write(t *testing.T, relPath, content string) {
	t.Helper()
	abs := filepath.Join(f.root, filepath.FromSlash(relPath))
	require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0o755))
	require.NoError(t, os.WriteFile(abs, []byte(content), 0o644))
}

func (f *fixture) remove(t *testing.T, relPath string) {
	t.Helper()
	require.NoError(t, os.Remove(filepath.Join(f.root, filepath.FromSlash(relPath))))
}

// editManifest unmarshals compatibility.json, applies mutate, writes back.
func (f *fixture) editManifest(t *testing.T, mutate func(map[string]any)) {
	t.Helper()
	path := filepath.Join(f.root, "compatibility.json")
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	mutate(doc)

	out, err := json.MarshalIndent(doc, "", "  ")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, out, 0o644))
}

func (f *fixture) run(t *testing.T) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	v := New(f.root, report.NewWriter(&buf, false), logging.New(logging.Config{
		Level:  logging.LevelError,
		Writer: io.Discard,
	}))
	err := v.Run(context.Background())
	return buf.String(), err
}

func pyproject(name, version string) string {
	return fmt.Sprintf("[project]\nname = %q\nversion = %q\nrequires-python = \">=3.11\"\n", name, version)
}

func packageJSON(name, version string) string {
	return fmt.Sprintf("{\n  \"name\": %q,\n  \"version\": %q,\n  \"private\": true\n}\n", name, version)
}

// errorLines returns the numbered [ERROR] report lines from the output.
func errorLines(out string) []string {
	var errs []string
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "[ERROR] ") && !strings.Contains(line, "failed with") {
			errs = append(errs, line)
		}
	}
	return errs
}

// =============================================================================
// Validator
// =============================================================================

func TestConsistentTreePasses(t *testing.T) {
	f := newFixture(t)

	out, err := f.run(t)
	require.NoError(t, err)
	assert.Contains(t, out, "[OK] all component versions and compatibility majors are consistent")
	// The core __init__.py delegates to packaging metadata.
	assert.Contains(t, out, "[INFO] core/harborline_core/__init__.py delegates to packaging metadata")
}

func TestMissingManifestIsFatal(t *testing.T) {
	f := newFixture(t)
	f.remove(t, "compatibility.json")

	out, err := f.run(t)
	require.Error(t, err)
	assert.Contains(t, out, "[ERROR] compatibility manifest")
}

func TestMalformedManifestIsFatal(t *testing.T) {
	f := newFixture(t)
	f.write(t, "compatibility.json", `{"components": `)

	_, err := f.run(t)
	require.Error(t, err)
}

func TestMissingComponentReportedOnce(t *testing.T) {
	f := newFixture(t)
	f.editManifest(t, func(doc map[string]any) {
		delete(doc["components"].(map[string]any), "cli")
	})
	// The cli restatement comparison is skipped when the owning
	// component is absent; only the missing-component error remains.
	out, err := f.run(t)
	require.Error(t, err)

	errs := errorLines(out)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "missing component versions: cli")
}

func TestInvalidComponentSemver(t *testing.T) {
	f := newFixture(t)
	f.editManifest(t, func(doc map[string]any) {
		doc["components"].(map[string]any)["cli"] = "0.9"
	})

	out, err := f.run(t)
	require.Error(t, err)
	assert.Contains(t, out, `components.cli: "0.9" is not valid semver`)
	// The restatement still compares against the recorded value and now
	// disagrees; both errors surface.
	assert.Contains(t, out, "cli/pyproject.toml")
}

func TestRestatementMismatchNamesFileAndValues(t *testing.T) {
	f := newFixture(t)
	f.write(t, "cli/pyproject.toml", pyproject("harborline-cli", "0.9.5"))

	out, err := f.run(t)
	require.Error(t, err)

	errs := errorLines(out)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "cli/pyproject.toml")
	assert.Contains(t, errs[0], `"0.9.5"`)
	assert.Contains(t, errs[0], `"0.9.4"`)
}

func TestMismatchDoesNotSuppressIndependentErrors(t *testing.T) {
	f := newFixture(t)
	f.write(t, "cli/pyproject.toml", pyproject("harborline-cli", "0.9.5"))
	f.editManifest(t, func(doc map[string]any) {
		doc["compatibility"].(map[string]any)["dashboard"].(map[string]any)["platform_major"] = 2
	})

	out, err := f.run(t)
	require.Error(t, err)

	errs := errorLines(out)
	assert.Len(t, errs, 2)
	assert.Contains(t, out, "cli/pyproject.toml")
	assert.Contains(t, out, "compatibility.dashboard.platform_major")
}

func TestSyntaxAndMismatchFlaggedIndependently(t *testing.T) {
	// A restatement that is both invalid semver and different from the
	// manifest produces two errors, not one.
	f := newFixture(t)
	f.write(t, "dashboard/package.json", packageJSON("@harborline/dashboard", "1.1"))

	out, err := f.run(t)
	require.Error(t, err)

	errs := errorLines(out)
	require.Len(t, errs, 2)
	assert.Contains(t, out, `dashboard/package.json: "1.1" is not valid semver`)
	assert.Contains(t, out, `does not match compatibility.json dashboard version "1.1.0"`)
}

func TestSentinelBindingTrusted(t *testing.T) {
	f := newFixture(t)
	// Both initializers delegate; neither may produce an error.
	f.write(t, "platform/harborline_platform/__init__.py", "__version__ = _DIST_VERSION\n")

	out, err := f.run(t)
	require.NoError(t, err)
	assert.Contains(t, out, "platform/harborline_platform/__init__.py delegates to packaging metadata")
}

func TestUnrecognizedBindingRejected(t *testing.T) {
	f := newFixture(t)
	f.write(t, "platform/harborline_platform/__init__.py", "__version__ = SOME_OTHER_CONSTANT\n")

	out, err := f.run(t)
	require.Error(t, err)
	assert.Contains(t, out, `unrecognized version binding "SOME_OTHER_CONSTANT"`)
}

func TestMissingRestatementFile(t *testing.T) {
	f := newFixture(t)
	f.remove(t, "deploy/chart/Chart.yaml")

	out, err := f.run(t)
	require.Error(t, err)
	assert.Contains(t, out, "deploy/chart/Chart.yaml: cannot read version source")
}

func TestPatternNotFound(t *testing.T) {
	f := newFixture(t)
	f.write(t, "cli/pyproject.toml", "[project]\nname = \"harborline-cli\"\n")

	out, err := f.run(t)
	require.Error(t, err)
	assert.Contains(t, out, "cli/pyproject.toml: version pattern not found")
}

func TestMalformedSecondaryJSONIsAccumulated(t *testing.T) {
	// Unlike the manifest, a broken secondary file is an error entry,
	// not a hard stop.
	f := newFixture(t)
	f.write(t, "dashboard/package.json", "{not json")

	out, err := f.run(t)
	require.Error(t, err)
	assert.Contains(t, out, "dashboard/package.json: malformed document")
	assert.Contains(t, out, "failed with 1 error(s)")
}

func TestToolingManifestSyntaxOnly(t *testing.T) {
	// The root package.json version never has to match a component.
	f := newFixture(t)
	f.write(t, "package.json", packageJSON("harborline-workspace", "9.9.9"))

	_, err := f.run(t)
	require.NoError(t, err)

	f.write(t, "package.json", packageJSON("harborline-workspace", "nine"))
	out, err := f.run(t)
	require.Error(t, err)
	assert.Contains(t, out, `package.json: version "nine" is not valid semver`)
}

func TestPlatformMajorMismatch(t *testing.T) {
	f := newFixture(t)
	f.editManifest(t, func(doc map[string]any) {
		doc["compatibility"].(map[string]any)["cli"].(map[string]any)["platform_major"] = 2
	})

	out, err := f.run(t)
	require.Error(t, err)

	errs := errorLines(out)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "compatibility.cli.platform_major is 2")
	assert.Contains(t, errs[0], `components.platform is "3.1.2" (major 3)`)
}

func TestCoreMajorAndContractsMajorChecked(t *testing.T) {
	f := newFixture(t)
	f.editManifest(t, func(doc map[string]any) {
		platform := doc["compatibility"].(map[string]any)["platform"].(map[string]any)
		platform["core_major"] = 1
		platform["contracts_v1_major"] = 9
	})

	out, err := f.run(t)
	require.Error(t, err)

	errs := errorLines(out)
	assert.Len(t, errs, 2)
	assert.Contains(t, out, "compatibility.platform.core_major is 1")
	assert.Contains(t, out, "compatibility.platform.contracts_v1_major is 9")
}

func TestMissingCompatibilityRecord(t *testing.T) {
	f := newFixture(t)
	f.editManifest(t, func(doc map[string]any) {
		delete(doc["compatibility"].(map[string]any), "cli")
	})

	out, err := f.run(t)
	require.Error(t, err)
	assert.Contains(t, out, "compatibility.cli: record missing")
}

func TestUnsetExpectationReported(t *testing.T) {
	f := newFixture(t)
	f.editManifest(t, func(doc map[string]any) {
		delete(doc["compatibility"].(map[string]any)["platform"].(map[string]any), "core_major")
	})

	out, err := f.run(t)
	require.Error(t, err)
	assert.Contains(t, out, "compatibility.platform.core_major: not set")
}

func TestErrorsAreNumbered(t *testing.T) {
	f := newFixture(t)
	f.write(t, "cli/pyproject.toml", pyproject("harborline-cli", "0.9.5"))
	f.editManifest(t, func(doc map[string]any) {
		doc["compatibility"].(map[string]any)["cli"].(map[string]any)["platform_major"] = 2
	})

	out, err := f.run(t)
	require.Error(t, err)
	assert.Contains(t, out, "[ERROR] 1. ")
	assert.Contains(t, out, "[ERROR] 2. ")
	assert.Contains(t, out, "failed with 2 error(s)")
}
