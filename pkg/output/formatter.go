// Copyright 2026 Release CI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package output provides run result formatting and reporting.
package output

import (
	"fmt"
	"os"
	"strings"

	"github.com/release-ci-toolkit/release-runner/pkg/pipeline"
)

// Formatter renders run results for humans and CI job summaries.
type Formatter struct {
	format string
}

// NewFormatter creates a new formatter. Format is "text" or "markdown".
func NewFormatter(format string) *Formatter {
	if format == "" {
		format = "text"
	}
	return &Formatter{format: format}
}

// Format renders a single run result.
func (f *Formatter) Format(result *pipeline.RunResult) string {
	if f.format == "markdown" {
		return f.markdown(result)
	}
	return f.text(result)
}

// WriteSummary renders the matrix outcome to a file. CI jobs point this
// at their job summary file (GITHUB_STEP_SUMMARY and the like) with the
// markdown format.
func WriteSummary(path, format string, results []*pipeline.RunResult) error {
	content := NewFormatter(format).FormatAll(results)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing job summary %s: %w", path, err)
	}
	return nil
}

// FormatAll renders the whole matrix outcome.
func (f *Formatter) FormatAll(results []*pipeline.RunResult) string {
	var b strings.Builder
	for _, result := range results {
		if result == nil {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(f.Format(result))
	}
	return b.String()
}

func (f *Formatter) text(result *pipeline.RunResult) string {
	var b strings.Builder

	status := "PASSED"
	if !result.Success() {
		status = "FAILED"
	}
	fmt.Fprintf(&b, "%s [%s] %s (%s)\n", status, result.Platform, result.RunID, result.Duration.Round(10e6))
	fmt.Fprintf(&b, "  channel: %s\n", result.Channel)

	for _, outcome := range result.Outcomes {
		switch outcome.Status {
		case pipeline.StepSkipped:
			fmt.Fprintf(&b, "  - %-24s skipped\n", outcome.Name)
		case pipeline.StepFailed:
			fmt.Fprintf(&b, "  - %-24s FAILED: %v\n", outcome.Name, outcome.Err)
		default:
			fmt.Fprintf(&b, "  - %-24s ok (%s)\n", outcome.Name, outcome.Duration.Round(10e6))
		}
	}

	if len(result.Artifacts) > 0 {
		b.WriteString("  artifacts:\n")
		for _, a := range result.Artifacts {
			fmt.Fprintf(&b, "    %s\n", a)
		}
	}

	return b.String()
}

func (f *Formatter) markdown(result *pipeline.RunResult) string {
	var b strings.Builder

	status := ":white_check_mark: passed"
	if !result.Success() {
		status = ":x: failed"
	}
	fmt.Fprintf(&b, "### Release run `%s` — %s\n\n", result.Platform, status)
	fmt.Fprintf(&b, "Channel: `%s`\n\n", result.Channel)

	b.WriteString("| Step | Status | Duration |\n|---|---|---|\n")
	for _, outcome := range result.Outcomes {
		statusCell := string(outcome.Status)
		if outcome.Status == pipeline.StepFailed {
			statusCell = fmt.Sprintf("failed: %v", outcome.Err)
		}
		fmt.Fprintf(&b, "| %s | %s | %s |\n", outcome.Name, statusCell, outcome.Duration.Round(10e6))
	}

	if len(result.Artifacts) > 0 {
		b.WriteString("\nArtifacts:\n")
		for _, a := range result.Artifacts {
			fmt.Fprintf(&b, "- `%s`\n", a.Path)
		}
	}

	return b.String()
}
