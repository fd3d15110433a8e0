// Copyright (C) 2026 Harborline Systems (eng@harborline.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package component

import (
	"reflect"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
		ok   bool
	}{
		{"core file", "core/engine/scheduler.py", Core, true},
		{"contracts file", "contracts/v1/events.json", ContractsV1, true},
		{"platform file", "platform/api/routes.py", Platform, true},
		{"cli file", "cli/foo.py", CLI, true},
		{"dashboard file", "dashboard/src/App.tsx", Dashboard, true},

		{"repo root file", "README.md", "", false},
		{"manifest itself", "compatibility.json", "", false},
		{"contracts v2 is unowned", "contracts/v2/events.json", "", false},
		{"prefix is not substring", "corelib/util.py", "", false},
		{"nested lookalike", "docs/cli/usage.md", "", false},
		{"backslash path", `cli\foo.py`, CLI, true},
		{"empty path", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Classify(tt.path)
			if got != tt.want || ok != tt.ok {
				t.Errorf("Classify(%q) = (%q, %v), want (%q, %v)", tt.path, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestTouched(t *testing.T) {
	tests := []struct {
		name  string
		paths []string
		want  []string
	}{
		{
			name:  "distinct components in table order",
			paths: []string{"cli/foo.py", "core/a.py", "cli/bar.py", "README.md"},
			want:  []string{Core, CLI},
		},
		{
			name:  "no component touched",
			paths: []string{"README.md", "docs/guide.md"},
			want:  nil,
		},
		{
			name:  "empty input",
			paths: nil,
			want:  nil,
		},
		{
			name:  "all components",
			paths: []string{"dashboard/x", "cli/x", "platform/x", "contracts/v1/x", "core/x"},
			want:  []string{Core, ContractsV1, Platform, CLI, Dashboard},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Touched(tt.paths)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Touched(%v) = %v, want %v", tt.paths, got, tt.want)
			}
		})
	}
}

func TestRequired(t *testing.T) {
	want := []string{Core, ContractsV1, Platform, CLI, Dashboard}
	if got := Required(); !reflect.DeepEqual(got, want) {
		t.Errorf("Required() = %v, want %v", got, want)
	}
}
