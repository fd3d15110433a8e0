// Copyright (C) 2026 Harborline Systems (eng@harborline.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package report

import (
	"bytes"
	"strings"
	"testing"
)

func TestSeverityTags(t *testing.T) {
	var buf bytes.Buffer
	r := NewWriter(&buf, false)

	r.OK("versions consistent")
	r.Warn("gate skipped")
	r.Error("mismatch in %s", "cli/pyproject.toml")
	r.Info("comparing against %s", "upstream origin/main")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	want := []string{
		"[OK] versions consistent",
		"[WARN] gate skipped",
		"[ERROR] mismatch in cli/pyproject.toml",
		"[INFO] comparing against upstream origin/main",
	}

	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d: %q", len(lines), len(want), buf.String())
	}
	for i, w := range want {
		if lines[i] != w {
			t.Errorf("line %d = %q, want %q", i, lines[i], w)
		}
	}
}

func TestColoredTagsStillContainText(t *testing.T) {
	// With color enabled the tag gains ANSI sequences but the message
	// text must survive verbatim for log scrapers.
	var buf bytes.Buffer
	r := NewWriter(&buf, true)

	r.Error("broken")

	if !strings.Contains(buf.String(), "broken") {
		t.Errorf("colored output lost the message: %q", buf.String())
	}
	if !strings.HasSuffix(buf.String(), "\n") {
		t.Errorf("output is not line-oriented: %q", buf.String())
	}
}
