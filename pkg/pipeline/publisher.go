// Copyright 2026 Release CI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package pipeline

import (
	"context"
	goerrors "errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/release-ci-toolkit/release-runner/pkg/buildenv"
	"github.com/release-ci-toolkit/release-runner/pkg/config"
	"github.com/release-ci-toolkit/release-runner/pkg/hooks"
	"github.com/release-ci-toolkit/release-runner/pkg/observability"
	"github.com/release-ci-toolkit/release-runner/pkg/perf"
	"github.com/release-ci-toolkit/release-runner/pkg/registry"
	"github.com/release-ci-toolkit/release-runner/pkg/release"
	"github.com/release-ci-toolkit/release-runner/pkg/runner"
	"github.com/release-ci-toolkit/release-runner/pkg/secrets"
)

// State represents the publisher lifecycle state.
type State int

const (
	StateUninitialized State = iota
	StateInitializing
	StateReady
	StateRunning
	StateShuttingDown
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateRunning:
		return "running"
	case StateShuttingDown:
		return "shutting_down"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Publisher drives release publishing runs across the platform matrix.
// Each platform run is an independently executed pipeline with its own
// run state; the publisher only owns shared wiring (config, logging,
// registry clients) that is read-only during runs.
type Publisher struct {
	mu sync.RWMutex

	// Core components
	cfg      *config.Config
	cmd      runner.CommandRunner
	envs     *buildenv.Manager
	wheels   *registry.WheelIndex
	packages *registry.CondaRegistry
	planner  *Planner
	executor *Executor
	hooks    *hooks.Registry

	// Observability
	logger  observability.Logger
	auditor *observability.Auditor
	metrics *observability.Metrics

	// State
	state State

	// Options
	opts *Options

	// Signal handling
	signalChan chan os.Signal
	shutdownCh chan struct{}
	cancelRuns context.CancelFunc
}

// Options holds publisher configuration options.
type Options struct {
	// ConfigPath is the path to the config file; empty means the default
	// search order.
	ConfigPath string
	// Verbose lowers the log level to debug.
	Verbose bool
	// LogJSON switches log output to JSON.
	LogJSON bool
	// GracefulTimeout is the timeout for graceful shutdown.
	GracefulTimeout time.Duration
	// CommandRunner overrides the subprocess runner; tests use this.
	CommandRunner runner.CommandRunner
	// Secrets overrides the credential store; tests use this.
	Secrets *secrets.Store
	// Logger overrides the logger built from config.
	Logger observability.Logger
}

// DefaultOptions returns the default publisher options.
func DefaultOptions() *Options {
	return &Options{
		GracefulTimeout: 5 * time.Second,
	}
}

// New creates a new Publisher with default options.
func New() *Publisher {
	return NewWithOptions(DefaultOptions())
}

// NewWithOptions creates a new Publisher with the given options.
func NewWithOptions(opts *Options) *Publisher {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &Publisher{
		opts:       opts,
		state:      StateUninitialized,
		shutdownCh: make(chan struct{}),
		signalChan: make(chan os.Signal, 1),
	}
}

// Bootstrap loads configuration and wires the pipeline collaborators.
func (p *Publisher) Bootstrap(ctx context.Context) error {
	p.mu.Lock()
	if p.state != StateUninitialized && p.state != StateStopped {
		p.mu.Unlock()
		return fmt.Errorf("cannot bootstrap: publisher is in state %s", p.state)
	}
	p.state = StateInitializing
	p.mu.Unlock()

	fail := func(err error) error {
		p.mu.Lock()
		p.state = StateUninitialized
		p.mu.Unlock()
		return err
	}

	var cfg *config.Config
	var err error
	if p.opts.ConfigPath != "" {
		cfg, err = config.LoadWithOverrides(p.opts.ConfigPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return fail(fmt.Errorf("config load failed: %w", err))
	}
	p.cfg = cfg

	logLevel := cfg.Global.LogLevel
	if p.opts.Verbose {
		logLevel = "debug"
	}
	p.logger = p.opts.Logger
	if p.logger == nil {
		p.logger = observability.NewLogger(logLevel, p.opts.LogJSON || cfg.Global.LogJSON)
	}

	p.cmd = p.opts.CommandRunner
	if p.cmd == nil {
		p.cmd = runner.NewExecRunner()
	}

	store := p.opts.Secrets
	if store == nil {
		store = secrets.NewStore()
	}

	p.auditor = observability.NewAuditor()
	p.metrics = observability.NewMetrics()

	p.envs = buildenv.NewManager(cfg.Env, p.cmd, p.logger)
	p.wheels = registry.NewWheelIndex(cfg.Registries.WheelIndex, p.cmd, store, p.logger).WithMetrics(p.metrics)
	p.packages = registry.NewCondaRegistry(cfg.Registries.CondaRegistry, p.cmd, store, p.logger).WithMetrics(p.metrics)

	p.hooks = hooks.NewRegistry(p.cmd, p.logger)
	if err := p.hooks.LoadConfig(cfg.Hooks); err != nil {
		return fail(fmt.Errorf("hook config invalid: %w", err))
	}

	p.planner = NewPlanner(cfg, p.cmd, p.envs, p.wheels, p.packages)
	p.executor = NewExecutor(p.hooks, p.logger,
		WithStepTimeout(cfg.Global.StepTimeout),
		WithAuditor(p.auditor),
		WithMetrics(p.metrics),
	)

	p.setupSignalHandler()

	p.mu.Lock()
	p.state = StateReady
	p.mu.Unlock()

	return nil
}

// setupSignalHandler sets up signal handling for graceful shutdown.
func (p *Publisher) setupSignalHandler() {
	signal.Notify(p.signalChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-p.signalChan:
			p.logger.Warn("received signal, shutting down", observability.String("signal", sig.String()))
			ctx, cancel := context.WithTimeout(context.Background(), p.opts.GracefulTimeout)
			defer cancel()
			_ = p.Shutdown(ctx)
		case <-p.shutdownCh:
			return
		}
	}()
}

// PublishPlatform runs the full pipeline for one platform.
func (p *Publisher) PublishPlatform(ctx context.Context, platform release.Platform, event release.Event) (*RunResult, error) {
	p.mu.RLock()
	if p.state != StateReady && p.state != StateRunning {
		p.mu.RUnlock()
		return nil, fmt.Errorf("%w: publisher is in state %s", runner.ErrNotInitialized, p.state)
	}
	p.mu.RUnlock()

	run := NewRun(observability.NewRunID(), platform, event)

	p.logger.Info("starting platform run",
		observability.String("run_id", run.ID),
		observability.String("platform", platform.String()),
		observability.String("tag", event.Tag),
		observability.Bool("prerelease", event.Prerelease),
		observability.String("channel", string(run.Channel)),
	)

	result := p.executor.Execute(ctx, p.planner.Plan(), run)
	if result.Err != nil {
		return result, result.Err
	}
	return result, nil
}

// PublishMatrix runs the pipeline for every platform. Platform runs are
// independent: one platform's failure does not stop another's run, and
// the returned error joins the per-platform failures.
func (p *Publisher) PublishMatrix(ctx context.Context, platforms []release.Platform, event release.Event) ([]*RunResult, error) {
	p.mu.Lock()
	if p.state != StateReady {
		p.mu.Unlock()
		return nil, fmt.Errorf("%w: publisher is in state %s", runner.ErrNotInitialized, p.state)
	}
	p.state = StateRunning
	runCtx, cancel := context.WithCancel(ctx)
	p.cancelRuns = cancel
	p.mu.Unlock()

	defer func() {
		cancel()
		p.mu.Lock()
		if p.state == StateRunning {
			p.state = StateReady
		}
		p.cancelRuns = nil
		p.mu.Unlock()
	}()

	results := make([]*RunResult, len(platforms))

	if p.cfg.Global.Parallel && len(platforms) > 1 {
		pool, err := perf.NewWorkerPool(len(platforms))
		if err != nil {
			return nil, err
		}
		pool.Start()
		defer pool.Stop()

		tasks := make([]func(), len(platforms))
		for i, platform := range platforms {
			i, platform := i, platform
			tasks[i] = func() {
				results[i], _ = p.PublishPlatform(runCtx, platform, event)
			}
		}
		if err := pool.Batch(tasks); err != nil {
			return nil, err
		}
	} else {
		for i, platform := range platforms {
			results[i], _ = p.PublishPlatform(runCtx, platform, event)
		}
	}

	var errs []error
	for _, result := range results {
		if result != nil && result.Err != nil {
			errs = append(errs, fmt.Errorf("platform %s: %w", result.Platform, result.Err))
		}
	}
	return results, goerrors.Join(errs...)
}

// DescribePlan returns the resolved plan for a platform without running
// it. Used by dry runs.
func (p *Publisher) DescribePlan(platform release.Platform, event release.Event) ([]string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.state != StateReady {
		return nil, fmt.Errorf("%w: publisher is in state %s", runner.ErrNotInitialized, p.state)
	}

	run := NewRun("dry-run", platform, event)
	return Describe(p.planner.Plan(), run), nil
}

// Shutdown gracefully stops the publisher, cancelling in-flight runs.
// Cleanup steps still run: the executor shields them from cancellation.
func (p *Publisher) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if p.state == StateStopped || p.state == StateShuttingDown {
		p.mu.Unlock()
		return nil
	}
	p.state = StateShuttingDown
	cancel := p.cancelRuns
	p.mu.Unlock()

	close(p.shutdownCh)
	signal.Stop(p.signalChan)

	if cancel != nil {
		cancel()
	}

	p.mu.Lock()
	p.state = StateStopped
	p.mu.Unlock()

	return nil
}

// State returns the current publisher state.
func (p *Publisher) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// Config returns the loaded configuration.
func (p *Publisher) Config() *config.Config {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cfg
}

// Audit returns the audit trail of completed runs.
func (p *Publisher) Audit() []observability.AuditEvent {
	return p.auditor.Events()
}

// Metrics returns the run metrics collector.
func (p *Publisher) Metrics() *observability.Metrics {
	return p.metrics
}
