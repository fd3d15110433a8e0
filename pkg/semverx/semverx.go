// Copyright (C) 2026 Harborline Systems (eng@harborline.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package semverx validates the bare SemVer strings used across the
// Harborline release manifests.
//
// Component versions are recorded without the "v" prefix ("2.4.1", not
// "v2.4.1"), while golang.org/x/mod/semver requires it. This package owns
// that canonicalization so callers never deal with the prefix mismatch.
package semverx

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
)

// canonical prepends the "v" prefix x/mod/semver expects.
func canonical(version string) string {
	if strings.HasPrefix(version, "v") {
		return version
	}
	return "v" + version
}

// IsValid reports whether version is a full major.minor.patch SemVer
// string, with optional pre-release and build metadata suffixes.
//
// x/mod/semver accepts shorthand forms like "2" or "2.4"; release
// manifests require all three numeric parts, so those are rejected here.
func IsValid(version string) bool {
	cv := canonical(version)
	if !semver.IsValid(cv) {
		return false
	}

	core := cv
	if i := strings.IndexAny(core, "-+"); i >= 0 {
		core = core[:i]
	}
	return strings.Count(core, ".") == 2
}

// Major returns the major version of a valid SemVer string as an integer.
//
// Returns an error for anything IsValid rejects, so callers can compare
// majors without re-checking syntax first.
func Major(version string) (int, error) {
	if !IsValid(version) {
		return 0, fmt.Errorf("not a valid semver version: %q", version)
	}

	major := strings.TrimPrefix(semver.Major(canonical(version)), "v")
	n, err := strconv.Atoi(major)
	if err != nil {
		return 0, fmt.Errorf("parsing major of %q: %w", version, err)
	}
	return n, nil
}
