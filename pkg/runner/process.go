// Copyright 2026 Release CI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package runner

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
	"syscall"
)

// Process manages a single external command invocation. Output is
// captured fully; the pipeline parses registry tool output to detect
// duplicate-version uploads, so line-based scanning is not enough.
type Process struct {
	mu sync.RWMutex

	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout io.ReadCloser
	stderr io.ReadCloser

	binary  string
	args    []string
	dir     string
	env     []string
	started bool
	exited  bool

	// Output buffers
	stdoutBuf bytes.Buffer
	stderrBuf bytes.Buffer

	// Wait channel
	waitCh   chan error
	exitCode int
}

// NewProcess creates a new process for the given binary and arguments.
func NewProcess(binary string, args []string) *Process {
	return &Process{
		binary: binary,
		args:   args,
		waitCh: make(chan error, 1),
	}
}

// WithDir sets the working directory.
func (p *Process) WithDir(dir string) *Process {
	p.dir = dir
	return p
}

// WithEnv appends environment variables (KEY=VALUE) to the inherited
// process environment.
func (p *Process) WithEnv(env []string) *Process {
	p.env = env
	return p
}

// Start starts the process.
func (p *Process) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return ErrProcessAlreadyRun
	}

	if _, err := exec.LookPath(p.binary); err != nil {
		return fmt.Errorf("%w: %s", ErrBinaryNotFound, p.binary)
	}

	p.cmd = exec.CommandContext(ctx, p.binary, p.args...)
	if p.dir != "" {
		p.cmd.Dir = p.dir
	}
	if len(p.env) > 0 {
		p.cmd.Env = append(p.cmd.Environ(), p.env...)
	}

	var err error
	p.stdin, err = p.cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("failed to create stdin pipe: %w", err)
	}

	p.stdout, err = p.cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to create stdout pipe: %w", err)
	}

	p.stderr, err = p.cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("failed to create stderr pipe: %w", err)
	}

	if err := p.cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", p.binary, err)
	}

	p.started = true

	go p.captureOutput(p.stdout, &p.stdoutBuf)
	go p.captureOutput(p.stderr, &p.stderrBuf)

	go func() {
		err := p.cmd.Wait()
		p.mu.Lock()
		p.exited = true
		if p.cmd.ProcessState != nil {
			p.exitCode = p.cmd.ProcessState.ExitCode()
		}
		p.mu.Unlock()
		p.waitCh <- err
	}()

	return nil
}

// captureOutput captures output from a reader into a buffer.
// Uses incremental reads instead of bufio.Scanner to avoid line length limits.
func (p *Process) captureOutput(r io.Reader, buf *bytes.Buffer) {
	copyBuf := make([]byte, 32*1024)
	for {
		n, err := r.Read(copyBuf)
		if n > 0 {
			p.mu.Lock()
			buf.Write(copyBuf[:n])
			p.mu.Unlock()
		}
		if err != nil {
			break
		}
	}
}

// WriteInput writes input to the process stdin and closes it. Commands
// that take no input still need the close so they see EOF.
func (p *Process) WriteInput(input string) error {
	p.mu.RLock()
	if !p.started {
		p.mu.RUnlock()
		return ErrProcessNotRunning
	}
	stdin := p.stdin
	p.mu.RUnlock()

	if input != "" {
		if _, err := io.WriteString(stdin, input); err != nil {
			return fmt.Errorf("failed to write input: %w", err)
		}
	}

	if err := stdin.Close(); err != nil {
		return fmt.Errorf("failed to close stdin: %w", err)
	}

	return nil
}

// Wait waits for the process to complete and returns the captured stdout.
func (p *Process) Wait(ctx context.Context) (string, error) {
	select {
	case err := <-p.waitCh:
		p.mu.RLock()
		output := p.stdoutBuf.String()
		stderr := p.stderrBuf.String()
		exitCode := p.exitCode
		p.mu.RUnlock()

		if err != nil {
			if ctx.Err() != nil {
				return "", ErrTimeout
			}
			if stderr != "" {
				return output, fmt.Errorf("%s failed (exit code %d): %s", p.binary, exitCode, strings.TrimSpace(stderr))
			}
			return output, fmt.Errorf("%s failed (exit code %d): %w", p.binary, exitCode, err)
		}
		return output, nil

	case <-ctx.Done():
		_ = p.Kill()
		return "", ErrTimeout
	}
}

// Stop gracefully stops the process.
func (p *Process) Stop() error {
	p.mu.RLock()
	if !p.started || p.exited {
		p.mu.RUnlock()
		return nil
	}
	cmd := p.cmd
	p.mu.RUnlock()

	if cmd.Process == nil {
		return nil
	}

	if err := cmd.Process.Signal(syscall.SIGTERM); err != nil {
		// Process might have already exited
		if !strings.Contains(err.Error(), "process already finished") {
			return fmt.Errorf("failed to send SIGTERM: %w", err)
		}
	}

	return nil
}

// Kill forcefully kills the process.
func (p *Process) Kill() error {
	p.mu.RLock()
	if !p.started || p.exited {
		p.mu.RUnlock()
		return nil
	}
	cmd := p.cmd
	p.mu.RUnlock()

	if cmd.Process == nil {
		return nil
	}

	if err := cmd.Process.Kill(); err != nil {
		if !strings.Contains(err.Error(), "process already finished") {
			return fmt.Errorf("failed to kill process: %w", err)
		}
	}

	return nil
}

// IsRunning checks if the process is running.
func (p *Process) IsRunning() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.started && !p.exited
}

// ExitCode returns the process exit code.
func (p *Process) ExitCode() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.exitCode
}

// Stdout returns the captured stdout.
func (p *Process) Stdout() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.stdoutBuf.String()
}

// Stderr returns the captured stderr.
func (p *Process) Stderr() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.stderrBuf.String()
}
