// Copyright (C) 2026 Harborline Systems (eng@harborline.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package component maps repository paths to the versioned Harborline
// components they belong to.
//
// The five components (core, contracts_v1, platform, cli, dashboard) each
// own a fixed set of path prefixes in the monorepo. Matching is a literal
// string-prefix or exact-path test on forward-slash-normalized paths; there
// is no globbing and no regex. The table is static and compiled in, so
// every run classifies from the same rules.
package component

import "strings"

// Component names. These are the keys used in compatibility.json and the
// values returned by Classify.
const (
	Core        = "core"
	ContractsV1 = "contracts_v1"
	Platform    = "platform"
	CLI         = "cli"
	Dashboard   = "dashboard"
)

// prefixTable maps each component to its owned path prefixes, in fixed
// order. First matching component wins; the prefixes are chosen so they
// cannot overlap.
var prefixTable = []struct {
	name     string
	prefixes []string
}{
	{Core, []string{"core/"}},
	{ContractsV1, []string{"contracts/v1/"}},
	{Platform, []string{"platform/"}},
	{CLI, []string{"cli/"}},
	{Dashboard, []string{"dashboard/"}},
}

// Required returns the fixed set of component names that must appear in
// the compatibility manifest, in table order.
func Required() []string {
	names := make([]string, 0, len(prefixTable))
	for _, entry := range prefixTable {
		names = append(names, entry.name)
	}
	return names
}

// Normalize converts a repository path to forward-slash separators.
// Git emits forward slashes already; this guards paths that arrive from
// the local filesystem on Windows.
func Normalize(path string) string {
	return strings.ReplaceAll(path, "\\", "/")
}

// Classify returns the component owning the given repository-relative
// path, or ok=false if the path belongs to no versioned component.
func Classify(path string) (name string, ok bool) {
	p := Normalize(path)
	for _, entry := range prefixTable {
		for _, prefix := range entry.prefixes {
			if strings.HasPrefix(p, prefix) || p == prefix {
				return entry.name, true
			}
		}
	}
	return "", false
}

// Touched classifies every path and returns the distinct set of touched
// components, in table order. Paths matching no component are ignored.
func Touched(paths []string) []string {
	seen := make(map[string]bool, len(prefixTable))
	for _, path := range paths {
		if name, ok := Classify(path); ok {
			seen[name] = true
		}
	}

	var touched []string
	for _, entry := range prefixTable {
		if seen[entry.name] {
			touched = append(touched, entry.name)
		}
	}
	return touched
}
