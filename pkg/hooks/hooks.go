// Copyright 2026 Release CI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package hooks runs user-supplied commands at pipeline step boundaries.
package hooks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/release-ci-toolkit/release-runner/pkg/config"
	"github.com/release-ci-toolkit/release-runner/pkg/observability"
	"github.com/release-ci-toolkit/release-runner/pkg/runner"
)

// EventType represents the pipeline boundary that triggers a hook.
type EventType string

const (
	EventPreTest     EventType = "pre_test"
	EventPostTest    EventType = "post_test"
	EventPreBuild    EventType = "pre_build"
	EventPostBuild   EventType = "post_build"
	EventPrePublish  EventType = "pre_publish"
	EventPostPublish EventType = "post_publish"
	EventOnFailure   EventType = "on_failure"
	EventOnSuccess   EventType = "on_success"
)

// knownEvents lists the valid hook event names for config validation.
var knownEvents = map[EventType]bool{
	EventPreTest:     true,
	EventPostTest:    true,
	EventPreBuild:    true,
	EventPostBuild:   true,
	EventPrePublish:  true,
	EventPostPublish: true,
	EventOnFailure:   true,
	EventOnSuccess:   true,
}

// Hook represents one command hook.
type Hook struct {
	ID      string
	Event   EventType
	Command []string
	Timeout time.Duration
}

// Result represents the result of a hook execution.
type Result struct {
	HookID   string
	Success  bool
	Error    string
	Duration time.Duration
	Output   string
}

// Registry holds registered hooks and fires them at step boundaries.
// Hook failures never abort the pipeline; they are reported and logged.
type Registry struct {
	mu     sync.RWMutex
	hooks  map[EventType][]*Hook
	cmd    runner.CommandRunner
	logger observability.Logger
}

// NewRegistry creates a new hook registry.
func NewRegistry(cmd runner.CommandRunner, logger observability.Logger) *Registry {
	return &Registry{
		hooks:  make(map[EventType][]*Hook),
		cmd:    cmd,
		logger: logger,
	}
}

// LoadConfig registers hooks from configuration. Unknown event names and
// empty commands are rejected.
func (r *Registry) LoadConfig(cfg config.HooksConfig) error {
	for eventName, commands := range cfg {
		event := EventType(eventName)
		if !knownEvents[event] {
			return fmt.Errorf("unknown hook event: %q", eventName)
		}
		for _, argv := range commands {
			if len(argv) == 0 {
				return fmt.Errorf("hook for %s has an empty command", eventName)
			}
			if err := r.Register(&Hook{Event: event, Command: argv}); err != nil {
				return err
			}
		}
	}
	return nil
}

// Register registers a new hook.
func (r *Registry) Register(hook *Hook) error {
	if len(hook.Command) == 0 {
		return fmt.Errorf("hook command is required")
	}
	if hook.ID == "" {
		hook.ID = uuid.NewString()
	}
	if hook.Timeout == 0 {
		hook.Timeout = 30 * time.Second
	}

	r.mu.Lock()
	r.hooks[hook.Event] = append(r.hooks[hook.Event], hook)
	r.mu.Unlock()

	return nil
}

// Fire runs all hooks for an event type in registration order.
func (r *Registry) Fire(ctx context.Context, event EventType, env []string) []*Result {
	r.mu.RLock()
	hooks := r.hooks[event]
	r.mu.RUnlock()

	results := make([]*Result, 0, len(hooks))
	for _, hook := range hooks {
		results = append(results, r.execute(ctx, hook, env))
	}
	return results
}

func (r *Registry) execute(ctx context.Context, hook *Hook, env []string) *Result {
	hookCtx, cancel := context.WithTimeout(ctx, hook.Timeout)
	defer cancel()

	start := time.Now()
	result := &Result{HookID: hook.ID}

	out, err := r.cmd.Run(hookCtx, runner.Spec{
		Name: hook.Command[0],
		Args: hook.Command[1:],
		Env:  env,
	})
	result.Duration = time.Since(start)
	if out != nil {
		result.Output = out.Stdout
	}
	if err != nil {
		result.Error = err.Error()
		r.logger.Warn("hook failed",
			observability.String("event", string(hook.Event)),
			observability.Err(err),
		)
		return result
	}

	result.Success = true
	return result
}

// Count returns the number of hooks registered for an event.
func (r *Registry) Count(event EventType) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.hooks[event])
}
