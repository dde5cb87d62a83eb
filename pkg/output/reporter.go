// Copyright 2026 Release CI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package output

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/release-ci-toolkit/release-runner/pkg/observability"
	"github.com/release-ci-toolkit/release-runner/pkg/pipeline"
)

// Reporter writes colored run summaries to a terminal.
type Reporter struct {
	out io.Writer

	passed *color.Color
	failed *color.Color
	dim    *color.Color
}

// NewReporter creates a new reporter writing to out.
func NewReporter(out io.Writer) *Reporter {
	return &Reporter{
		out:    out,
		passed: color.New(color.FgGreen, color.Bold),
		failed: color.New(color.FgRed, color.Bold),
		dim:    color.New(color.Faint),
	}
}

// Report writes a summary for one run result.
func (r *Reporter) Report(result *pipeline.RunResult) {
	if result.Success() {
		r.passed.Fprintf(r.out, "PASSED")
	} else {
		r.failed.Fprintf(r.out, "FAILED")
	}
	fmt.Fprintf(r.out, " %s", result.Platform)
	r.dim.Fprintf(r.out, " run=%s channel=%s %s\n", result.RunID, result.Channel, result.Duration.Round(10e6))

	for _, outcome := range result.Outcomes {
		switch outcome.Status {
		case pipeline.StepSkipped:
			r.dim.Fprintf(r.out, "  %-24s skipped\n", outcome.Name)
		case pipeline.StepFailed:
			fmt.Fprintf(r.out, "  %-24s ", outcome.Name)
			r.failed.Fprintf(r.out, "failed")
			fmt.Fprintf(r.out, ": %v\n", outcome.Err)
		default:
			fmt.Fprintf(r.out, "  %-24s ok\n", outcome.Name)
		}
	}

	for _, a := range result.Artifacts {
		r.dim.Fprintf(r.out, "  artifact %s\n", a.Path)
	}
	if result.FailedStep != "" {
		fmt.Fprintf(r.out, "  aborted at step: %s\n", result.FailedStep)
	}
}

// ReportAll writes summaries for a whole matrix run.
func (r *Reporter) ReportAll(results []*pipeline.RunResult) {
	for _, result := range results {
		if result != nil {
			r.Report(result)
		}
	}
}

// ReportTotals writes matrix-wide aggregates: accumulated per-step
// duration across all platforms and the upload counters.
func (r *Reporter) ReportTotals(results []*pipeline.RunResult, metrics *observability.Metrics) {
	if metrics == nil {
		return
	}

	r.dim.Fprintf(r.out, "totals across %d platform run(s)\n", len(results))
	seen := make(map[string]bool)
	for _, result := range results {
		if result == nil {
			continue
		}
		for _, outcome := range result.Outcomes {
			if seen[outcome.Name] {
				continue
			}
			seen[outcome.Name] = true
			if d := metrics.StepDuration(outcome.Name); d > 0 {
				r.dim.Fprintf(r.out, "  %-24s %s\n", outcome.Name, d.Round(10e6))
			}
		}
	}

	completed, skipped := metrics.Uploads()
	r.dim.Fprintf(r.out, "  uploads: %d completed, %d duplicate-skipped\n", completed, skipped)
}
