// Copyright 2026 Release CI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/release-ci-toolkit/release-runner/pkg/buildenv"
	"github.com/release-ci-toolkit/release-runner/pkg/config"
	"github.com/release-ci-toolkit/release-runner/pkg/errors"
	"github.com/release-ci-toolkit/release-runner/pkg/hooks"
	"github.com/release-ci-toolkit/release-runner/pkg/registry"
	"github.com/release-ci-toolkit/release-runner/pkg/release"
	"github.com/release-ci-toolkit/release-runner/pkg/runner"
)

// Planner assembles the step plan for a platform run.
type Planner struct {
	cfg      *config.Config
	cmd      runner.CommandRunner
	envs     *buildenv.Manager
	wheels   *registry.WheelIndex
	packages *registry.CondaRegistry
}

// NewPlanner creates a planner over the pipeline's collaborators.
func NewPlanner(cfg *config.Config, cmd runner.CommandRunner, envs *buildenv.Manager, wheels *registry.WheelIndex, packages *registry.CondaRegistry) *Planner {
	return &Planner{
		cfg:      cfg,
		cmd:      cmd,
		envs:     envs,
		wheels:   wheels,
		packages: packages,
	}
}

// Plan returns the ordered step list for one platform run. Step order and
// short-circuit semantics are fixed: environment, dependencies, tests,
// wheel build/upload (wheel platforms only), package build, login,
// package upload, then the cleanup steps (logout, environment removal).
func (p *Planner) Plan() []Step {
	return []Step{
		{
			Name:      "acquire-environment",
			AppliesTo: Always,
			Execute:   p.acquireEnvironment,
		},
		{
			Name:      "install-dependencies",
			AppliesTo: Always,
			Execute:   p.installDependencies,
		},
		{
			Name:      "run-tests",
			AppliesTo: Always,
			Execute:   p.runTests,
			PreEvent:  hooks.EventPreTest,
			PostEvent: hooks.EventPostTest,
		},
		{
			Name:      "build-wheel",
			AppliesTo: WheelPlatformsOnly,
			Execute:   p.buildWheel,
			PreEvent:  hooks.EventPreBuild,
			PostEvent: hooks.EventPostBuild,
		},
		{
			Name:      "upload-wheel",
			AppliesTo: WheelPlatformsOnly,
			Execute:   p.uploadWheel,
			PreEvent:  hooks.EventPrePublish,
			PostEvent: hooks.EventPostPublish,
		},
		{
			Name:      "build-conda-package",
			AppliesTo: Always,
			Execute:   p.buildCondaPackage,
			PreEvent:  hooks.EventPreBuild,
			PostEvent: hooks.EventPostBuild,
		},
		{
			Name:      "registry-login",
			AppliesTo: Always,
			Execute:   p.registryLogin,
		},
		{
			Name:      "upload-conda-package",
			AppliesTo: Always,
			Execute:   p.uploadCondaPackage,
			PreEvent:  hooks.EventPrePublish,
			PostEvent: hooks.EventPostPublish,
		},
		{
			Name:      "registry-logout",
			AppliesTo: Always,
			Execute:   p.registryLogout,
			Cleanup:   true,
		},
		{
			Name:      "remove-environment",
			AppliesTo: Always,
			Execute:   p.removeEnvironment,
			Cleanup:   true,
		},
	}
}

func (p *Planner) acquireEnvironment(ctx context.Context, run *Run) error {
	env, err := p.envs.Acquire(ctx, run.Platform, run.ID)
	if err != nil {
		return err
	}
	run.Env = env
	return nil
}

func (p *Planner) installDependencies(ctx context.Context, run *Run) error {
	spec := p.envSpec(run, p.cfg.Commands.Install)
	if _, err := p.cmd.Run(ctx, spec); err != nil {
		return errors.EnvError("dependency install failed", err)
	}
	return nil
}

func (p *Planner) runTests(ctx context.Context, run *Run) error {
	spec := p.envSpec(run, p.cfg.Commands.Test)
	if _, err := p.cmd.Run(ctx, spec); err != nil {
		return errors.TestError("test suite reported failure", err)
	}
	return nil
}

func (p *Planner) buildWheel(ctx context.Context, run *Run) error {
	spec := p.envSpec(run, p.cfg.Commands.BuildWheel)
	if _, err := p.cmd.Run(ctx, spec); err != nil {
		return errors.BuildError("wheel build failed", err)
	}

	artifacts, err := release.DiscoverWheels(p.cfg.Output.DistDir, run.Platform)
	if err != nil {
		return errors.BuildError("wheel build produced no artifacts", err)
	}
	return run.RecordArtifacts(release.FormatWheel, artifacts)
}

func (p *Planner) uploadWheel(ctx context.Context, run *Run) error {
	artifacts, err := run.TakeArtifacts(release.FormatWheel)
	if err != nil {
		return errors.UploadError("wheel upload has nothing to do", err)
	}
	return p.wheels.Upload(ctx, artifacts)
}

func (p *Planner) buildCondaPackage(ctx context.Context, run *Run) error {
	// The build writes into a platform-named subdirectory so matrix runs
	// never write into each other's output.
	outDir := filepath.Join(p.cfg.Output.BuildDir, run.Platform.Subdir())
	argv := append(append([]string{}, p.cfg.Commands.BuildConda...), "--output-folder", outDir)

	spec := p.envSpec(run, argv)
	if _, err := p.cmd.Run(ctx, spec); err != nil {
		return errors.BuildError("conda package build failed", err)
	}

	artifacts, err := release.DiscoverCondaPackages(p.cfg.Output.BuildDir, run.Platform)
	if err != nil {
		return errors.BuildError("conda package build produced no artifacts", err)
	}
	return run.RecordArtifacts(release.FormatCondaPackage, artifacts)
}

func (p *Planner) registryLogin(ctx context.Context, run *Run) error {
	return p.packages.Login(ctx)
}

func (p *Planner) uploadCondaPackage(ctx context.Context, run *Run) error {
	artifacts, err := run.TakeArtifacts(release.FormatCondaPackage)
	if err != nil {
		return errors.UploadError("package upload has nothing to do", err)
	}
	return p.packages.Upload(ctx, artifacts, run.Channel)
}

func (p *Planner) registryLogout(ctx context.Context, run *Run) error {
	return p.packages.Logout(ctx)
}

func (p *Planner) removeEnvironment(ctx context.Context, run *Run) error {
	if run.Env == nil {
		return nil
	}
	return run.Env.Close(ctx)
}

// envSpec builds a command spec that executes inside the run's build
// environment once one exists.
func (p *Planner) envSpec(run *Run, argv []string) runner.Spec {
	spec := runner.Spec{Name: argv[0], Args: argv[1:]}
	if run.Env != nil {
		spec = run.Env.Wrap(spec)
	}
	return spec
}

// Describe returns a human-readable summary of the plan for a run,
// marking inapplicable steps. Used by dry runs.
func Describe(plan []Step, run *Run) []string {
	out := make([]string, 0, len(plan))
	for _, step := range plan {
		switch {
		case step.Cleanup:
			out = append(out, fmt.Sprintf("%s (cleanup)", step.Name))
		case !step.AppliesTo(run):
			out = append(out, fmt.Sprintf("%s (skipped: not applicable to %s)", step.Name, run.Platform))
		default:
			out = append(out, step.Name)
		}
	}
	return out
}
