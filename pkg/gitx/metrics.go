// Copyright (C) 2026 Harborline Systems (eng@harborline.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package gitx

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Package-level tracer and meter for git operations. No exporter is ever
// configured by the release checks themselves; with the global no-op
// provider these calls cost nothing and stay offline. CI wrappers that do
// install a provider get git latency and fallback-tier counts for free.
var (
	tracer = otel.Tracer("harborline.gitx")
	meter  = otel.Meter("harborline.gitx")
)

var (
	runLatency    metric.Float64Histogram
	runTotal      metric.Int64Counter
	baselineTotal metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the instruments. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		runLatency, err = meter.Float64Histogram(
			"git_run_duration_seconds",
			metric.WithDescription("Duration of git command execution"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		runTotal, err = meter.Int64Counter(
			"git_run_total",
			metric.WithDescription("Total number of git commands executed"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		baselineTotal, err = meter.Int64Counter(
			"outgoing_baseline_total",
			metric.WithDescription("Outgoing-change detections by baseline tier"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// startRunSpan creates a span for one git invocation.
func startRunSpan(ctx context.Context, command string, workDir string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "Runner.Run",
		trace.WithAttributes(
			attribute.String("git.command", command),
			attribute.String("git.work_dir", workDir),
		),
	)
}

// setRunSpanResult records the command outcome on the span.
func setRunSpanResult(span trace.Span, success bool) {
	span.SetAttributes(attribute.Bool("git.success", success))
}

// recordRunMetrics records latency and count for one git invocation.
func recordRunMetrics(ctx context.Context, command string, duration time.Duration, success bool) {
	if err := initMetrics(); err != nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("command", command),
		attribute.Bool("success", success),
	)

	runLatency.Record(ctx, duration.Seconds(), attrs)
	runTotal.Add(ctx, 1, attrs)
}

// recordBaselineTier counts which fallback tier produced the outgoing set.
func recordBaselineTier(ctx context.Context, tier Tier) {
	if err := initMetrics(); err != nil {
		return
	}

	baselineTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("tier", tier.String()),
	))
}
