// Copyright (C) 2026 Harborline Systems (eng@harborline.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package logging provides structured diagnostic logging for the release
// checks.
//
// Diagnostics go to stderr so they never mix with the verdict lines the
// checks print to stdout (CI systems capture both streams separately).
// The package wraps log/slog with a small Level/Config surface:
//
//	log := logging.NewRun("relgate", verbose)
//	log.Debug("baseline selected", "tier", tier.String())
//
// Every run-scoped logger carries a run_id attribute so one CI job's
// interleaved output can be grouped per invocation.
package logging

import (
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
)

// Level represents log severity, ordered Debug < Info < Warn < Error.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the level name: "DEBUG", "INFO", "WARN" or "ERROR".
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l Level) toSlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Config configures a Logger. The zero value logs Info+ as text to stderr.
type Config struct {
	// Level is the minimum severity written; lower entries are discarded.
	Level Level

	// Service identifies the check generating logs ("relgate",
	// "semverlint") and is attached to every entry.
	Service string

	// JSON switches output from human-readable text to JSON objects.
	JSON bool

	// Writer overrides the destination. Defaults to os.Stderr.
	// Tests inject a buffer here.
	Writer io.Writer
}

// Logger wraps slog.Logger with the repo's Level and Config conventions.
type Logger struct {
	slog *slog.Logger
}

// New creates a Logger from config.
func New(config Config) *Logger {
	w := config.Writer
	if w == nil {
		w = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: config.Level.toSlogLevel()}

	var handler slog.Handler
	if config.JSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	if config.Service != "" {
		handler = handler.WithAttrs([]slog.Attr{slog.String("service", config.Service)})
	}

	return &Logger{slog: slog.New(handler)}
}

// Default returns an Info-level text logger writing to stderr.
func Default() *Logger {
	return New(Config{Level: LevelInfo})
}

// NewRun returns the logger for one check invocation: Warn-level by
// default so CI output stays quiet, Debug-level when verbose, and tagged
// with a fresh run_id.
func NewRun(service string, verbose bool) *Logger {
	level := LevelWarn
	if verbose {
		level = LevelDebug
	}
	l := New(Config{Level: level, Service: service})
	return l.With("run_id", uuid.NewString())
}

// Debug logs at Debug level with key-value attributes.
func (l *Logger) Debug(msg string, args ...any) { l.slog.Debug(msg, args...) }

// Info logs at Info level with key-value attributes.
func (l *Logger) Info(msg string, args ...any) { l.slog.Info(msg, args...) }

// Warn logs at Warn level with key-value attributes.
func (l *Logger) Warn(msg string, args ...any) { l.slog.Warn(msg, args...) }

// Error logs at Error level with key-value attributes.
func (l *Logger) Error(msg string, args ...any) { l.slog.Error(msg, args...) }

// With returns a child logger carrying additional attributes.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{slog: l.slog.With(args...)}
}

// Slog exposes the underlying slog.Logger for features not wrapped here.
func (l *Logger) Slog() *slog.Logger {
	return l.slog
}
