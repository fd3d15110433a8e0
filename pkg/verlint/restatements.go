// Copyright (C) 2026 Harborline Systems (eng@harborline.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package verlint

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/HarborlineHQ/harborline/pkg/component"
)

// sentinelToken is the symbolic binding accepted in the two Python module
// initializers: `__version__ = _DIST_VERSION` delegates to the packaging
// metadata generated from the component's pyproject.toml at build time.
// The binding is trusted without textual re-verification.
const sentinelToken = "_DIST_VERSION"

type sourceKind int

const (
	kindRegex sourceKind = iota
	kindJSON
	kindYAML
)

// restatement is one secondary file that textually duplicates a
// component's version.
type restatement struct {
	relPath string
	owner   string
	kind    sourceKind

	// pattern extracts the version for kindRegex sources. The first
	// non-empty capture group is the value; a bare identifier capture is
	// matched against sentinelToken.
	pattern *regexp.Regexp

	// field names the version key for kindJSON and kindYAML sources.
	field string

	// allowSentinel permits the symbolic binding instead of a literal.
	allowSentinel bool
}

var (
	pyprojectVersionPattern = regexp.MustCompile(`(?m)^version\s*=\s*"([^"]+)"`)
	initVersionPattern      = regexp.MustCompile(`(?m)^__version__\s*=\s*(?:"([^"]+)"|([A-Za-z_][A-Za-z0-9_.]*))`)
)

// restatements is the fixed check list, in report order.
var restatements = []restatement{
	{relPath: "core/pyproject.toml", owner: component.Core, kind: kindRegex, pattern: pyprojectVersionPattern},
	{relPath: "core/harborline_core/__init__.py", owner: component.Core, kind: kindRegex, pattern: initVersionPattern, allowSentinel: true},
	{relPath: "platform/pyproject.toml", owner: component.Platform, kind: kindRegex, pattern: pyprojectVersionPattern},
	{relPath: "platform/harborline_platform/__init__.py", owner: component.Platform, kind: kindRegex, pattern: initVersionPattern, allowSentinel: true},
	{relPath: "cli/pyproject.toml", owner: component.CLI, kind: kindRegex, pattern: pyprojectVersionPattern},
	{relPath: "contracts/v1/package.json", owner: component.ContractsV1, kind: kindJSON, field: "version"},
	{relPath: "dashboard/package.json", owner: component.Dashboard, kind: kindJSON, field: "version"},
	{relPath: "deploy/chart/Chart.yaml", owner: component.Platform, kind: kindYAML, field: "appVersion"},
}

// toolingManifestPath is the root tooling manifest whose version field is
// checked for SemVer syntax only. It versions the monorepo's JS toolchain
// workspace, not any release component.
const toolingManifestPath = "package.json"

// extracted is the outcome of reading one restatement source.
type extracted struct {
	value    string
	sentinel bool
}

// extract reads the restatement's file under repoRoot and pulls out the
// version value. All failures are returned as errors for the caller to
// record; nothing here is fatal.
func (r restatement) extract(repoRoot string) (extracted, error) {
	abs := filepath.Join(repoRoot, filepath.FromSlash(r.relPath))
	data, err := os.ReadFile(abs)
	if err != nil {
		return extracted{}, fmt.Errorf("cannot read version source: %v", err)
	}

	switch r.kind {
	case kindJSON:
		return extractField(data, r.field, json.Unmarshal)
	case kindYAML:
		return extractField(data, r.field, yaml.Unmarshal)
	default:
		return r.extractPattern(data)
	}
}

func (r restatement) extractPattern(data []byte) (extracted, error) {
	m := r.pattern.FindSubmatch(data)
	if m == nil {
		return extracted{}, fmt.Errorf("version pattern not found")
	}

	// Group 1 is a quoted literal; group 2 (when present) is a bare
	// identifier binding.
	if len(m) > 1 && len(m[1]) > 0 {
		return extracted{value: string(m[1])}, nil
	}
	if len(m) > 2 && len(m[2]) > 0 {
		binding := string(m[2])
		if r.allowSentinel && binding == sentinelToken {
			return extracted{sentinel: true}, nil
		}
		return extracted{}, fmt.Errorf("unrecognized version binding %q", binding)
	}
	return extracted{}, fmt.Errorf("version pattern not found")
}

func extractField(data []byte, field string, unmarshal func([]byte, any) error) (extracted, error) {
	var doc map[string]any
	if err := unmarshal(data, &doc); err != nil {
		return extracted{}, fmt.Errorf("malformed document: %v", err)
	}

	raw, ok := doc[field]
	if !ok {
		return extracted{}, fmt.Errorf("field %q not found", field)
	}

	value, ok := raw.(string)
	if !ok {
		return extracted{}, fmt.Errorf("field %q is not a string", field)
	}
	return extracted{value: value}, nil
}
