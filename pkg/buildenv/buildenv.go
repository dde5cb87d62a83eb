// Package buildenv manages isolated, reproducible build environments.
//
// Each platform run acquires its own environment and must tear it down on
// every exit path, including failures. The manager is conda-compatible:
// environments are created by name, commands run inside them via
// "<manager> run", and removal is idempotent.
package buildenv

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/release-ci-toolkit/release-runner/pkg/config"
	"github.com/release-ci-toolkit/release-runner/pkg/errors"
	"github.com/release-ci-toolkit/release-runner/pkg/observability"
	"github.com/release-ci-toolkit/release-runner/pkg/release"
	"github.com/release-ci-toolkit/release-runner/pkg/runner"
)

// Manager creates and removes build environments.
type Manager struct {
	cfg    config.BuildEnvConfig
	cmd    runner.CommandRunner
	logger observability.Logger
}

// NewManager creates a new environment manager.
func NewManager(cfg config.BuildEnvConfig, cmd runner.CommandRunner, logger observability.Logger) *Manager {
	return &Manager{cfg: cfg, cmd: cmd, logger: logger}
}

// Acquire creates a fresh environment for the given platform run. The
// run ID keeps concurrent matrix runs from colliding on a name.
func (m *Manager) Acquire(ctx context.Context, platform release.Platform, runID string) (*Env, error) {
	name := envName(m.cfg.NamePrefix, platform, runID)

	args := []string{"create", "--yes", "--name", name}
	if m.cfg.PythonVersion != "" {
		args = append(args, "python="+m.cfg.PythonVersion)
	}

	m.logger.Info("creating build environment",
		observability.String("env", name),
		observability.String("platform", platform.String()),
	)

	if _, err := m.cmd.Run(ctx, runner.Spec{Name: m.cfg.Manager, Args: args}); err != nil {
		return nil, errors.EnvError(fmt.Sprintf("failed to create environment %s", name), err)
	}

	return &Env{
		name:    name,
		manager: m.cfg.Manager,
		cmd:     m.cmd,
		logger:  m.logger,
	}, nil
}

// envName derives a collision-free environment name. The run ID suffix is
// shortened; it only needs to separate concurrent runs on one host.
func envName(prefix string, platform release.Platform, runID string) string {
	id := runID
	if len(id) > 8 {
		id = id[:8]
	}
	return fmt.Sprintf("%s-%s-%s", prefix, platform.Subdir(), id)
}

// Env is a live build environment. Close removes it; Close is safe to
// call more than once.
type Env struct {
	name    string
	manager string
	cmd     runner.CommandRunner
	logger  observability.Logger

	mu      sync.Mutex
	removed bool
}

// Name returns the environment name.
func (e *Env) Name() string {
	return e.name
}

// Wrap rewrites a command spec so it executes inside the environment.
func (e *Env) Wrap(spec runner.Spec) runner.Spec {
	args := []string{"run", "--name", e.name, spec.Name}
	args = append(args, spec.Args...)
	return runner.Spec{
		Name:  e.manager,
		Args:  args,
		Dir:   spec.Dir,
		Env:   spec.Env,
		Stdin: spec.Stdin,
	}
}

// Close removes the environment. Removal failures surface as ErrEnv but a
// missing environment is not an error; teardown runs on every exit path
// and may race a partially created environment.
func (e *Env) Close(ctx context.Context) error {
	e.mu.Lock()
	if e.removed {
		e.mu.Unlock()
		return nil
	}
	e.removed = true
	e.mu.Unlock()

	e.logger.Info("removing build environment", observability.String("env", e.name))

	result, err := e.cmd.Run(ctx, runner.Spec{
		Name: e.manager,
		Args: []string{"env", "remove", "--yes", "--name", e.name},
	})
	if err != nil {
		if result != nil && environmentMissing(result.Stderr) {
			return nil
		}
		return errors.EnvError(fmt.Sprintf("failed to remove environment %s", e.name), err)
	}
	return nil
}

func environmentMissing(stderr string) bool {
	s := strings.ToLower(stderr)
	return strings.Contains(s, "could not find environment") ||
		strings.Contains(s, "environmentlocationnotfound")
}
