// Copyright 2026 Release CI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package pipeline orchestrates release publishing runs.
//
// A run is a declarative list of steps tagged with applicability
// predicates, evaluated once per run. Steps execute strictly in order;
// the first fatal failure aborts the remaining regular steps, while
// cleanup-class steps run on every exit path.
package pipeline

import (
	"context"
	"fmt"

	"github.com/release-ci-toolkit/release-runner/pkg/buildenv"
	"github.com/release-ci-toolkit/release-runner/pkg/hooks"
	"github.com/release-ci-toolkit/release-runner/pkg/release"
)

// Run carries the state of one platform's pipeline run. Each run owns its
// state exclusively; nothing is shared between platform runs.
type Run struct {
	ID       string
	Platform release.Platform
	Event    release.Event
	Channel  release.Channel

	// Env is set by the environment acquisition step and consumed by
	// the steps that execute inside it.
	Env *buildenv.Env

	built    map[release.Format][]release.Artifact
	uploaded map[release.Format]bool
}

// NewRun creates the state for one platform run. The channel is derived
// here, once, from the event.
func NewRun(id string, platform release.Platform, event release.Event) *Run {
	return &Run{
		ID:       id,
		Platform: platform,
		Event:    event,
		Channel:  release.ChannelFor(event),
		built:    make(map[release.Format][]release.Artifact),
		uploaded: make(map[release.Format]bool),
	}
}

// RecordArtifacts registers the build output for a format. Exactly one
// build per format per run is allowed.
func (r *Run) RecordArtifacts(format release.Format, artifacts []release.Artifact) error {
	if _, ok := r.built[format]; ok {
		return fmt.Errorf("%s artifacts already built for this run", format)
	}
	r.built[format] = artifacts
	return nil
}

// TakeArtifacts hands the built artifacts of a format to its upload step
// and marks them consumed. A second take for the same format is an
// invariant violation: no artifact is uploaded twice.
func (r *Run) TakeArtifacts(format release.Format) ([]release.Artifact, error) {
	artifacts, ok := r.built[format]
	if !ok {
		return nil, fmt.Errorf("no %s artifacts built for this run", format)
	}
	if r.uploaded[format] {
		return nil, fmt.Errorf("%s artifacts already uploaded for this run", format)
	}
	r.uploaded[format] = true
	return artifacts, nil
}

// Artifacts returns all artifacts built so far.
func (r *Run) Artifacts() []release.Artifact {
	var out []release.Artifact
	for _, format := range []release.Format{release.FormatWheel, release.FormatCondaPackage} {
		out = append(out, r.built[format]...)
	}
	return out
}

// Predicate decides whether a step applies to a run. Predicates are
// evaluated once, when the plan is resolved.
type Predicate func(*Run) bool

// Always applies the step to every run.
func Always(*Run) bool { return true }

// WheelPlatformsOnly applies the step to platforms on the wheel path.
func WheelPlatformsOnly(r *Run) bool { return r.Platform.SupportsWheel() }

// StepFunc is the work of a single step.
type StepFunc func(ctx context.Context, run *Run) error

// Step is one unit of the pipeline plan.
type Step struct {
	Name      string
	AppliesTo Predicate
	Execute   StepFunc
	// Cleanup marks steps that run unconditionally after the regular
	// steps, whatever their outcome. Cleanup failures are reported but
	// never abort anything.
	Cleanup bool
	// PreEvent and PostEvent fire hooks around the step.
	PreEvent  hooks.EventType
	PostEvent hooks.EventType
}
