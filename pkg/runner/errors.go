// Copyright 2026 Release CI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package runner

import "errors"

// Exit codes reported by the release-runner binary.
const (
	ExitSuccess     = 0   // Run completed, artifacts published
	ExitConfigError = 1   // Configuration or validation error
	ExitEnvError    = 2   // Build environment setup failed
	ExitTestFailure = 3   // Test suite reported failure
	ExitBuildError  = 4   // Artifact build failed
	ExitUploadError = 5   // Registry upload failed
	ExitTimeout     = 101 // Execution timed out
)

// Errors
var (
	ErrBinaryNotFound    = errors.New("command binary not found in PATH")
	ErrProcessNotRunning = errors.New("process is not running")
	ErrProcessAlreadyRun = errors.New("process has already been started")
	ErrTimeout           = errors.New("execution timed out")
	ErrShutdownTimeout   = errors.New("graceful shutdown timed out")
	ErrNotInitialized    = errors.New("publisher not initialized")
	ErrEmptyCommand      = errors.New("command spec has no binary name")
)
