// Copyright 2026 Release CI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package registry_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/release-ci-toolkit/release-runner/pkg/config"
	"github.com/release-ci-toolkit/release-runner/pkg/errors"
	"github.com/release-ci-toolkit/release-runner/pkg/observability"
	"github.com/release-ci-toolkit/release-runner/pkg/registry"
	"github.com/release-ci-toolkit/release-runner/pkg/release"
	"github.com/release-ci-toolkit/release-runner/pkg/runner"
	"github.com/release-ci-toolkit/release-runner/pkg/secrets"
)

// fakeRunner records specs and replays scripted results.
type fakeRunner struct {
	calls  []runner.Spec
	result *runner.Result
	err    error
}

func (f *fakeRunner) Run(_ context.Context, spec runner.Spec) (*runner.Result, error) {
	f.calls = append(f.calls, spec)
	if f.result != nil || f.err != nil {
		return f.result, f.err
	}
	return &runner.Result{ExitCode: 0}, nil
}

func testStore() *secrets.Store {
	return secrets.NewStoreFromMap(map[string]string{
		"PYPI_TOKEN":        "tok-abc",
		"ANACONDA_LOGIN":    "ci-bot",
		"ANACONDA_PASSWORD": "hunter2",
	})
}

func wheelArtifacts() []release.Artifact {
	return []release.Artifact{
		{Platform: release.PlatformLinux, Format: release.FormatWheel, Path: "dist/pkg-1.0.0-py3-none-any.whl"},
	}
}

func condaArtifacts() []release.Artifact {
	return []release.Artifact{
		{Platform: release.PlatformLinux, Format: release.FormatCondaPackage, Path: "build/linux-64/pkg-1.0.0.tar.bz2"},
	}
}

func TestClassifyDuplicateVersion(t *testing.T) {
	tests := []struct {
		output string
		want   bool
	}{
		{"ERROR: file already exists on the server", true},
		{"Distribution already exists", true},
		{"HTTPError: 409 Conflict", true},
		{"File already uploaded", true},
		{"connection refused", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := registry.IsDuplicateVersion(tt.output); got != tt.want {
			t.Errorf("IsDuplicateVersion(%q) = %v, want %v", tt.output, got, tt.want)
		}
	}
}

func TestClassifyAlreadyAuthenticated(t *testing.T) {
	tests := []struct {
		output string
		want   bool
	}{
		{"You are already logged in as ci-bot", true},
		{"already authenticated", true},
		{"Using token from environment", true},
		{"invalid credentials", false},
	}

	for _, tt := range tests {
		if got := registry.IsAlreadyAuthenticated(tt.output); got != tt.want {
			t.Errorf("IsAlreadyAuthenticated(%q) = %v, want %v", tt.output, got, tt.want)
		}
	}
}

func TestWheelUploadArgs(t *testing.T) {
	fake := &fakeRunner{}
	idx := registry.NewWheelIndex(config.WheelIndexConfig{
		Tool:          "twine",
		RepositoryURL: "https://pypi.internal.example/simple",
		TokenEnv:      "PYPI_TOKEN",
	}, fake, testStore(), observability.NewNopLogger())

	if err := idx.Upload(context.Background(), wheelArtifacts()); err != nil {
		t.Fatalf("Upload() failed: %v", err)
	}

	if len(fake.calls) != 1 {
		t.Fatalf("expected 1 invocation, got %d", len(fake.calls))
	}
	spec := fake.calls[0]
	if spec.Name != "twine" {
		t.Errorf("tool = %q, want twine", spec.Name)
	}

	argv := strings.Join(spec.Args, " ")
	for _, want := range []string{
		"upload",
		"--non-interactive",
		"--skip-existing",
		"--disable-progress-bar",
		"--repository-url https://pypi.internal.example/simple",
		"dist/pkg-1.0.0-py3-none-any.whl",
	} {
		if !strings.Contains(argv, want) {
			t.Errorf("argv missing %q: %s", want, argv)
		}
	}

	// The token must travel in the environment, never on the argv.
	if strings.Contains(argv, "tok-abc") {
		t.Errorf("token leaked onto argv: %s", argv)
	}
	env := strings.Join(spec.Env, " ")
	if !strings.Contains(env, "TWINE_USERNAME=__token__") {
		t.Errorf("missing token username, env = %s", env)
	}
	if !strings.Contains(env, "TWINE_PASSWORD=tok-abc") {
		t.Errorf("missing token password, env = %s", env)
	}
}

func TestWheelUploadMissingToken(t *testing.T) {
	fake := &fakeRunner{}
	idx := registry.NewWheelIndex(config.WheelIndexConfig{Tool: "twine", TokenEnv: "MISSING_TOKEN"},
		fake, testStore(), observability.NewNopLogger())

	err := idx.Upload(context.Background(), wheelArtifacts())
	if !errors.IsType(err, errors.ErrUpload) {
		t.Fatalf("expected upload error, got %v", err)
	}
	if len(fake.calls) != 0 {
		t.Error("no command should run without a token")
	}
}

func TestWheelUploadDuplicateTolerated(t *testing.T) {
	fake := &fakeRunner{
		result: &runner.Result{Stderr: "HTTPError: 409 Conflict: file already exists", ExitCode: 1},
		err:    fmt.Errorf("exit status 1"),
	}
	idx := registry.NewWheelIndex(config.WheelIndexConfig{Tool: "twine", TokenEnv: "PYPI_TOKEN"},
		fake, testStore(), observability.NewNopLogger())

	if err := idx.Upload(context.Background(), wheelArtifacts()); err != nil {
		t.Errorf("duplicate version should be tolerated, got %v", err)
	}
}

func TestWheelUploadNoArtifacts(t *testing.T) {
	idx := registry.NewWheelIndex(config.WheelIndexConfig{Tool: "twine", TokenEnv: "PYPI_TOKEN"},
		&fakeRunner{}, testStore(), observability.NewNopLogger())
	if err := idx.Upload(context.Background(), nil); err == nil {
		t.Error("expected error for empty artifact list")
	}
}

func condaClient(fake *fakeRunner) *registry.CondaRegistry {
	return registry.NewCondaRegistry(config.CondaRegistryConfig{
		Tool:        "anaconda",
		UserEnv:     "ANACONDA_LOGIN",
		PasswordEnv: "ANACONDA_PASSWORD",
	}, fake, testStore(), observability.NewNopLogger())
}

func TestCondaLogin(t *testing.T) {
	fake := &fakeRunner{}
	if err := condaClient(fake).Login(context.Background()); err != nil {
		t.Fatalf("Login() failed: %v", err)
	}

	spec := fake.calls[0]
	argv := strings.Join(spec.Args, " ")
	if !strings.Contains(argv, "login") || !strings.Contains(argv, "--username ci-bot") {
		t.Errorf("unexpected login argv: %s", argv)
	}
	// Password travels on stdin, never on the argv.
	if strings.Contains(argv, "hunter2") {
		t.Errorf("password leaked onto argv: %s", argv)
	}
	if !strings.Contains(spec.Stdin, "hunter2") {
		t.Errorf("password not piped to stdin")
	}
}

func TestCondaLoginIdempotent(t *testing.T) {
	fake := &fakeRunner{
		result: &runner.Result{Stderr: "you are already logged in as ci-bot", ExitCode: 1},
		err:    fmt.Errorf("exit status 1"),
	}
	if err := condaClient(fake).Login(context.Background()); err != nil {
		t.Errorf("existing session should be success, got %v", err)
	}
}

func TestCondaLoginFailureIsAuthError(t *testing.T) {
	fake := &fakeRunner{
		result: &runner.Result{Stderr: "invalid credentials", ExitCode: 1},
		err:    fmt.Errorf("exit status 1"),
	}
	err := condaClient(fake).Login(context.Background())
	if !errors.IsType(err, errors.ErrAuth) {
		t.Errorf("expected auth error, got %v", err)
	}
	if errors.IsFatal(err) {
		t.Error("auth errors must be non-fatal")
	}
}

func TestCondaUploadLabels(t *testing.T) {
	tests := []struct {
		name      string
		channel   release.Channel
		wantLabel bool
	}{
		{"main channel is unlabeled", release.ChannelMain, false},
		{"dev channel adds --label dev", release.ChannelDev, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeRunner{}
			if err := condaClient(fake).Upload(context.Background(), condaArtifacts(), tt.channel); err != nil {
				t.Fatalf("Upload() failed: %v", err)
			}

			argv := strings.Join(fake.calls[0].Args, " ")
			hasLabel := strings.Contains(argv, "--label dev")
			if hasLabel != tt.wantLabel {
				t.Errorf("argv label presence = %v, want %v: %s", hasLabel, tt.wantLabel, argv)
			}
			if !strings.Contains(argv, "build/linux-64/pkg-1.0.0.tar.bz2") {
				t.Errorf("argv missing artifact path: %s", argv)
			}
		})
	}
}

func TestCondaUploadDuplicateTolerated(t *testing.T) {
	fake := &fakeRunner{
		result: &runner.Result{Stderr: "Distribution already exists", ExitCode: 1},
		err:    fmt.Errorf("exit status 1"),
	}
	if err := condaClient(fake).Upload(context.Background(), condaArtifacts(), release.ChannelMain); err != nil {
		t.Errorf("duplicate version should be tolerated, got %v", err)
	}
}

func TestUploadMetrics(t *testing.T) {
	metrics := observability.NewMetrics()

	fake := &fakeRunner{}
	client := condaClient(fake).WithMetrics(metrics)
	if err := client.Upload(context.Background(), condaArtifacts(), release.ChannelMain); err != nil {
		t.Fatal(err)
	}

	dup := &fakeRunner{
		result: &runner.Result{Stderr: "Distribution already exists", ExitCode: 1},
		err:    fmt.Errorf("exit status 1"),
	}
	if err := condaClient(dup).WithMetrics(metrics).Upload(context.Background(), condaArtifacts(), release.ChannelMain); err != nil {
		t.Fatal(err)
	}

	completed, skipped := metrics.Uploads()
	if completed != 1 || skipped != 1 {
		t.Errorf("Uploads() = (%d, %d), want (1, 1)", completed, skipped)
	}
}

func TestCondaLogout(t *testing.T) {
	fake := &fakeRunner{}
	if err := condaClient(fake).Logout(context.Background()); err != nil {
		t.Fatalf("Logout() failed: %v", err)
	}
	if got := strings.Join(fake.calls[0].Args, " "); got != "logout" {
		t.Errorf("logout argv = %q", got)
	}
}

func TestCondaLogoutFailure(t *testing.T) {
	fake := &fakeRunner{err: fmt.Errorf("exit status 1")}
	err := condaClient(fake).Logout(context.Background())
	if !errors.IsType(err, errors.ErrAuth) {
		t.Errorf("expected auth error, got %v", err)
	}
}
