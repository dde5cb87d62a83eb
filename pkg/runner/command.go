// Copyright 2026 Release CI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package runner

import (
	"context"
	"time"
)

// Spec describes one external command invocation.
type Spec struct {
	// Name is the binary to run.
	Name string
	// Args are the command arguments.
	Args []string
	// Dir is the working directory; empty means the current directory.
	Dir string
	// Env holds extra environment variables (KEY=VALUE) appended to the
	// inherited environment. Credentials travel here, never in Args.
	Env []string
	// Stdin is piped to the command and then closed.
	Stdin string
}

// Result holds the outcome of a command invocation.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// CommandRunner executes external commands. The pipeline, build
// environment and registry clients all go through this interface so
// tests can substitute a recording fake.
type CommandRunner interface {
	Run(ctx context.Context, spec Spec) (*Result, error)
}

// ExecRunner is the production CommandRunner backed by Process.
type ExecRunner struct{}

// NewExecRunner creates a new ExecRunner.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes the command and waits for completion. The returned Result
// carries captured output even when the command fails, so callers can
// classify failures from the tool's own messages.
func (r *ExecRunner) Run(ctx context.Context, spec Spec) (*Result, error) {
	if spec.Name == "" {
		return nil, ErrEmptyCommand
	}

	start := time.Now()

	process := NewProcess(spec.Name, spec.Args).WithDir(spec.Dir).WithEnv(spec.Env)
	if err := process.Start(ctx); err != nil {
		return nil, err
	}
	defer func() { _ = process.Stop() }()

	if err := process.WriteInput(spec.Stdin); err != nil {
		return nil, err
	}

	stdout, err := process.Wait(ctx)
	result := &Result{
		Stdout:   stdout,
		Stderr:   process.Stderr(),
		ExitCode: process.ExitCode(),
		Duration: time.Since(start),
	}
	return result, err
}
