// Copyright 2026 Release CI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package pipeline

import (
	"context"
	"time"

	"github.com/release-ci-toolkit/release-runner/pkg/errors"
	"github.com/release-ci-toolkit/release-runner/pkg/hooks"
	"github.com/release-ci-toolkit/release-runner/pkg/observability"
	"github.com/release-ci-toolkit/release-runner/pkg/release"
)

// StepStatus is the outcome of a single step.
type StepStatus string

const (
	StepOK      StepStatus = "ok"
	StepFailed  StepStatus = "failed"
	StepSkipped StepStatus = "skipped"
)

// StepOutcome records how one step ended.
type StepOutcome struct {
	Name     string
	Status   StepStatus
	Err      error
	Duration time.Duration
}

// RunResult is the outcome of one platform run. Pipeline run status is
// the externally observable signal; there is no partial-success
// granularity below it.
type RunResult struct {
	RunID     string
	Platform  release.Platform
	Channel   release.Channel
	Outcomes  []StepOutcome
	Artifacts []release.Artifact
	// FailedStep names the step that aborted the run, if any.
	FailedStep string
	Err        error
	Duration   time.Duration
}

// Success reports whether the run passed.
func (r *RunResult) Success() bool {
	return r.Err == nil
}

// Executor runs a step plan for a single platform run.
type Executor struct {
	hooks       *hooks.Registry
	logger      observability.Logger
	auditor     *observability.Auditor
	metrics     *observability.Metrics
	stepTimeout time.Duration
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithStepTimeout bounds each individual step.
func WithStepTimeout(timeout time.Duration) ExecutorOption {
	return func(e *Executor) {
		e.stepTimeout = timeout
	}
}

// WithAuditor records step outcomes to an audit trail.
func WithAuditor(a *observability.Auditor) ExecutorOption {
	return func(e *Executor) {
		e.auditor = a
	}
}

// WithMetrics records step timings.
func WithMetrics(m *observability.Metrics) ExecutorOption {
	return func(e *Executor) {
		e.metrics = m
	}
}

// NewExecutor creates a new executor.
func NewExecutor(hookReg *hooks.Registry, logger observability.Logger, opts ...ExecutorOption) *Executor {
	e := &Executor{
		hooks:  hookReg,
		logger: logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs the plan against the run state. Regular steps run strictly
// in order and the first fatal failure aborts the rest; cleanup steps run
// afterwards on every exit path, shielded from the caller's cancellation.
func (e *Executor) Execute(ctx context.Context, plan []Step, run *Run) *RunResult {
	start := time.Now()
	result := &RunResult{
		RunID:    run.ID,
		Platform: run.Platform,
		Channel:  run.Channel,
	}

	var regular, cleanup []Step
	for _, step := range plan {
		if step.Cleanup {
			cleanup = append(cleanup, step)
		} else {
			regular = append(regular, step)
		}
	}

	defer func() {
		// Cleanup must run even when the run context is already dead.
		cleanupCtx := context.WithoutCancel(ctx)
		if e.stepTimeout > 0 {
			var cancel context.CancelFunc
			cleanupCtx, cancel = context.WithTimeout(cleanupCtx, e.stepTimeout)
			defer cancel()
		}
		for _, step := range cleanup {
			outcome := e.runStep(cleanupCtx, step, run)
			result.Outcomes = append(result.Outcomes, outcome)
			if outcome.Status == StepFailed && result.Err == nil {
				result.FailedStep = step.Name
				result.Err = outcome.Err
			}
		}

		result.Artifacts = run.Artifacts()
		result.Duration = time.Since(start)
	}()

	for _, step := range regular {
		if !step.AppliesTo(run) {
			result.Outcomes = append(result.Outcomes, StepOutcome{Name: step.Name, Status: StepSkipped})
			e.audit(run, step.Name, true, true, "not applicable")
			continue
		}

		outcome := e.runStep(ctx, step, run)
		result.Outcomes = append(result.Outcomes, outcome)

		if outcome.Status == StepFailed {
			result.FailedStep = step.Name
			result.Err = outcome.Err
			e.hooks.Fire(ctx, hooks.EventOnFailure, run.hookEnv())
			return result
		}
	}

	e.hooks.Fire(ctx, hooks.EventOnSuccess, run.hookEnv())
	return result
}

// runStep executes one step with hooks, timeout, audit and metrics.
func (e *Executor) runStep(ctx context.Context, step Step, run *Run) StepOutcome {
	stepCtx := ctx
	if e.stepTimeout > 0 && !step.Cleanup {
		var cancel context.CancelFunc
		stepCtx, cancel = context.WithTimeout(ctx, e.stepTimeout)
		defer cancel()
	}

	if step.PreEvent != "" {
		e.hooks.Fire(stepCtx, step.PreEvent, run.hookEnv())
	}

	e.logger.Info("step starting",
		observability.String("step", step.Name),
		observability.String("platform", run.Platform.String()),
	)

	start := time.Now()
	err := step.Execute(stepCtx, run)
	duration := time.Since(start)

	if e.metrics != nil {
		e.metrics.RecordStep(step.Name, duration, err == nil)
	}

	if err != nil && !errors.IsFatal(err) {
		// Suppressed category (an existing registry session). The step
		// did not complete, but the run continues.
		e.logger.Warn("step reported a non-fatal error",
			observability.String("step", step.Name),
			observability.Err(err),
		)
		err = nil
	}

	if err != nil {
		e.logger.Error("step failed",
			observability.String("step", step.Name),
			observability.String("platform", run.Platform.String()),
			observability.Err(err),
		)
		e.audit(run, step.Name, false, false, err.Error())
		return StepOutcome{Name: step.Name, Status: StepFailed, Err: err, Duration: duration}
	}

	if step.PostEvent != "" {
		e.hooks.Fire(stepCtx, step.PostEvent, run.hookEnv())
	}

	e.logger.Info("step completed",
		observability.String("step", step.Name),
		observability.String("platform", run.Platform.String()),
	)
	e.audit(run, step.Name, true, false, "")

	return StepOutcome{Name: step.Name, Status: StepOK, Duration: duration}
}

func (e *Executor) audit(run *Run, step string, success, skipped bool, detail string) {
	if e.auditor == nil {
		return
	}
	e.auditor.Record(observability.AuditEvent{
		RunID:    run.ID,
		Platform: run.Platform.String(),
		Step:     step,
		Success:  success,
		Skipped:  skipped,
		Detail:   detail,
	})
}

// hookEnv exposes run facts to hook commands.
func (r *Run) hookEnv() []string {
	return []string{
		"RELEASE_RUN_ID=" + r.ID,
		"RELEASE_PLATFORM=" + r.Platform.String(),
		"RELEASE_TAG=" + r.Event.Tag,
		"RELEASE_CHANNEL=" + string(r.Channel),
	}
}
