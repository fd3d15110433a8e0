// Copyright (C) 2026 Harborline Systems (eng@harborline.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package report prints the verdict lines of the release checks.
//
// Every line goes to stdout with a severity tag:
//
//	[OK] all component versions and compatibility majors are consistent
//	[ERROR] 1. components.cli: "0.9" is not valid semver
//
// When stdout is a terminal the tags are colored with the Harborline
// palette; in CI (no TTY) the output is plain text so log scrapers can
// match the tags literally.
package report

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Harborline palette - harbor greens and signal colors.
var (
	colorSuccess = lipgloss.Color("#27C485")
	colorWarning = lipgloss.Color("#F4D03F")
	colorError   = lipgloss.Color("#E74C3C")
	colorMuted   = lipgloss.Color("#4A6A72")
)

var (
	styleOK    = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	styleWarn  = lipgloss.NewStyle().Foreground(colorWarning).Bold(true)
	styleError = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	styleInfo  = lipgloss.NewStyle().Foreground(colorMuted)
)

// Reporter writes severity-tagged verdict lines to a single writer.
type Reporter struct {
	w     io.Writer
	color bool
}

// New returns a Reporter on stdout, colored only when stdout is a TTY.
func New() *Reporter {
	fd := os.Stdout.Fd()
	color := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	return &Reporter{w: os.Stdout, color: color}
}

// NewWriter returns a Reporter on an arbitrary writer. Tests pass a
// buffer with color disabled to assert on the literal tags.
func NewWriter(w io.Writer, color bool) *Reporter {
	return &Reporter{w: w, color: color}
}

// OK prints a passing verdict line.
func (r *Reporter) OK(format string, args ...any) {
	r.line("[OK]", styleOK, format, args...)
}

// Warn prints a warning line.
func (r *Reporter) Warn(format string, args ...any) {
	r.line("[WARN]", styleWarn, format, args...)
}

// Error prints a failing verdict line.
func (r *Reporter) Error(format string, args ...any) {
	r.line("[ERROR]", styleError, format, args...)
}

// Info prints a neutral status line.
func (r *Reporter) Info(format string, args ...any) {
	r.line("[INFO]", styleInfo, format, args...)
}

func (r *Reporter) line(tag string, style lipgloss.Style, format string, args ...any) {
	if r.color {
		tag = style.Render(tag)
	}
	fmt.Fprintf(r.w, "%s %s\n", tag, fmt.Sprintf(format, args...))
}
