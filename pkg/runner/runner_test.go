// Copyright 2026 Release CI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package runner_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/release-ci-toolkit/release-runner/pkg/runner"
)

func TestExecRunnerCapturesOutput(t *testing.T) {
	r := runner.NewExecRunner()

	result, err := r.Run(context.Background(), runner.Spec{
		Name: "sh",
		Args: []string{"-c", "echo out; echo err >&2"},
	})
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if !strings.Contains(result.Stdout, "out") {
		t.Errorf("stdout = %q", result.Stdout)
	}
	if !strings.Contains(result.Stderr, "err") {
		t.Errorf("stderr = %q", result.Stderr)
	}
	if result.ExitCode != 0 {
		t.Errorf("exit code = %d", result.ExitCode)
	}
	if result.Duration <= 0 {
		t.Error("duration should be recorded")
	}
}

func TestExecRunnerFailureKeepsOutput(t *testing.T) {
	r := runner.NewExecRunner()

	result, err := r.Run(context.Background(), runner.Spec{
		Name: "sh",
		Args: []string{"-c", "echo 'version already exists' >&2; exit 1"},
	})
	if err == nil {
		t.Fatal("expected error for non-zero exit")
	}
	// Callers classify failures from tool output; it must survive the error.
	if result == nil {
		t.Fatal("result must be returned even on failure")
	}
	if !strings.Contains(result.Stderr, "already exists") {
		t.Errorf("stderr lost on failure: %q", result.Stderr)
	}
	if result.ExitCode != 1 {
		t.Errorf("exit code = %d, want 1", result.ExitCode)
	}
}

func TestExecRunnerStdin(t *testing.T) {
	r := runner.NewExecRunner()

	result, err := r.Run(context.Background(), runner.Spec{
		Name:  "cat",
		Stdin: "piped secret\n",
	})
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if !strings.Contains(result.Stdout, "piped secret") {
		t.Errorf("stdin not piped through: %q", result.Stdout)
	}
}

func TestExecRunnerEnv(t *testing.T) {
	r := runner.NewExecRunner()

	result, err := r.Run(context.Background(), runner.Spec{
		Name: "sh",
		Args: []string{"-c", "echo $RELEASE_TEST_VAR"},
		Env:  []string{"RELEASE_TEST_VAR=from-spec"},
	})
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if !strings.Contains(result.Stdout, "from-spec") {
		t.Errorf("env var not passed: %q", result.Stdout)
	}
}

func TestExecRunnerDir(t *testing.T) {
	dir := t.TempDir()
	r := runner.NewExecRunner()

	result, err := r.Run(context.Background(), runner.Spec{Name: "pwd", Dir: dir})
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if !strings.Contains(result.Stdout, dir) {
		t.Errorf("working directory not applied: %q", result.Stdout)
	}
}

func TestExecRunnerEmptyCommand(t *testing.T) {
	r := runner.NewExecRunner()
	if _, err := r.Run(context.Background(), runner.Spec{}); !errors.Is(err, runner.ErrEmptyCommand) {
		t.Errorf("expected ErrEmptyCommand, got %v", err)
	}
}

func TestExecRunnerMissingBinary(t *testing.T) {
	r := runner.NewExecRunner()
	_, err := r.Run(context.Background(), runner.Spec{Name: "definitely-not-a-binary-xyz"})
	if !errors.Is(err, runner.ErrBinaryNotFound) {
		t.Errorf("expected ErrBinaryNotFound, got %v", err)
	}
}

func TestExecRunnerTimeout(t *testing.T) {
	r := runner.NewExecRunner()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := r.Run(ctx, runner.Spec{Name: "sleep", Args: []string{"10"}})
	if !errors.Is(err, runner.ErrTimeout) {
		t.Errorf("expected ErrTimeout, got %v", err)
	}
}

func TestProcessDoubleStart(t *testing.T) {
	p := runner.NewProcess("sh", []string{"-c", "true"})
	if err := p.Start(context.Background()); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	defer func() { _ = p.Kill() }()

	if err := p.Start(context.Background()); !errors.Is(err, runner.ErrProcessAlreadyRun) {
		t.Errorf("expected ErrProcessAlreadyRun, got %v", err)
	}
	if err := p.WriteInput(""); err != nil {
		t.Fatalf("WriteInput() failed: %v", err)
	}
	if _, err := p.Wait(context.Background()); err != nil {
		t.Fatalf("Wait() failed: %v", err)
	}
}

func TestProcessWriteInputBeforeStart(t *testing.T) {
	p := runner.NewProcess("cat", nil)
	if err := p.WriteInput("x"); !errors.Is(err, runner.ErrProcessNotRunning) {
		t.Errorf("expected ErrProcessNotRunning, got %v", err)
	}
}

func TestProcessIsRunning(t *testing.T) {
	p := runner.NewProcess("sleep", []string{"5"})
	if p.IsRunning() {
		t.Error("process should not be running before start")
	}
	if err := p.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !p.IsRunning() {
		t.Error("process should be running after start")
	}

	if err := p.Kill(); err != nil {
		t.Fatalf("Kill() failed: %v", err)
	}
	_, _ = p.Wait(context.Background())
	if p.IsRunning() {
		t.Error("process should not be running after kill")
	}
}
