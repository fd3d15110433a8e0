// Copyright (C) 2026 Harborline Systems (eng@harborline.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package manifest loads the Harborline compatibility manifest.
//
// compatibility.json is the single source of truth for every component's
// current version and for the expected major-version relationships between
// dependent components. Developers edit it between releases; the release
// checks read it fresh on every run and never write it.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/HarborlineHQ/harborline/pkg/component"
)

// Path is the fixed repository-relative location of the manifest.
const Path = "compatibility.json"

// Manifest is the parsed compatibility manifest.
type Manifest struct {
	// Components maps component name to its current SemVer string.
	Components map[string]string `json:"components" validate:"required,min=1"`

	// Compatibility maps a dependent component to the major versions it
	// expects of the components it depends on.
	Compatibility map[string]CompatRecord `json:"compatibility" validate:"required"`
}

// CompatRecord holds one dependent component's major-version expectations.
// Fields are pointers so an absent expectation is distinguishable from an
// explicit zero.
type CompatRecord struct {
	CoreMajor        *int `json:"core_major,omitempty"`
	ContractsV1Major *int `json:"contracts_v1_major,omitempty"`
	PlatformMajor    *int `json:"platform_major,omitempty"`
}

var validate = validator.New()

// Load reads and parses the manifest at path.
//
// Structural problems (unreadable file, malformed JSON, missing top-level
// mappings) are returned as errors; content-level problems such as missing
// components or invalid versions are left to the validator packages, which
// accumulate them instead of failing fast.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}

	if err := validate.Struct(&m); err != nil {
		return nil, fmt.Errorf("manifest %s is structurally invalid: %w", path, err)
	}

	return &m, nil
}

// Missing returns the required component names absent from the components
// mapping, in the fixed required order.
func (m *Manifest) Missing() []string {
	var missing []string
	for _, name := range component.Required() {
		if _, ok := m.Components[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// Version returns the recorded version for a component, with ok=false if
// the component is absent from the manifest.
func (m *Manifest) Version(name string) (string, bool) {
	v, ok := m.Components[name]
	return v, ok
}
