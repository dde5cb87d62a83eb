// Copyright 2026 Release CI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package registry

import (
	"context"
	"fmt"

	"github.com/release-ci-toolkit/release-runner/pkg/config"
	"github.com/release-ci-toolkit/release-runner/pkg/errors"
	"github.com/release-ci-toolkit/release-runner/pkg/observability"
	"github.com/release-ci-toolkit/release-runner/pkg/release"
	"github.com/release-ci-toolkit/release-runner/pkg/runner"
	"github.com/release-ci-toolkit/release-runner/pkg/secrets"
)

// CondaRegistry publishes conda-style packages to the package hosting
// service via an anaconda-compatible client. Login is idempotent, upload
// selects the channel label from the release event, and logout must run
// on every exit path of the pipeline.
type CondaRegistry struct {
	cfg     config.CondaRegistryConfig
	cmd     runner.CommandRunner
	secrets *secrets.Store
	logger  observability.Logger
	metrics *observability.Metrics
}

// NewCondaRegistry creates a new package registry client.
func NewCondaRegistry(cfg config.CondaRegistryConfig, cmd runner.CommandRunner, store *secrets.Store, logger observability.Logger) *CondaRegistry {
	return &CondaRegistry{cfg: cfg, cmd: cmd, secrets: store, logger: logger}
}

// WithMetrics attaches an upload counter.
func (c *CondaRegistry) WithMetrics(m *observability.Metrics) *CondaRegistry {
	c.metrics = m
	return c
}

// Login authenticates to the registry. An already-existing session is
// success: the login step is allowed to fail silently in that case.
func (c *CondaRegistry) Login(ctx context.Context) error {
	user, err := c.secrets.Get(c.cfg.UserEnv)
	if err != nil {
		return errors.AuthError("registry username unavailable", err)
	}
	password, err := c.secrets.Get(c.cfg.PasswordEnv)
	if err != nil {
		return errors.AuthError("registry password unavailable", err)
	}

	c.logger.Info("logging in to package registry", observability.String("tool", c.cfg.Tool))

	spec := runner.Spec{
		Name: c.cfg.Tool,
		Args: []string{"login", "--username", user.Value(), "--hostname", "release-runner"},
		// The client reads the password from stdin when not given on the
		// command line; keep it off the argv.
		Stdin: password.Value() + "\n",
	}

	result, err := c.cmd.Run(ctx, spec)
	if err != nil {
		if result != nil && IsAlreadyAuthenticated(result.Stdout+result.Stderr) {
			c.logger.Debug("registry session already exists")
			return nil
		}
		return errors.AuthError("registry login failed", err)
	}

	return nil
}

// Upload publishes the given package artifacts on the channel. The main
// channel is unlabeled; the dev channel adds --label dev. A duplicate
// version means another run already published it: no remaining work.
func (c *CondaRegistry) Upload(ctx context.Context, artifacts []release.Artifact, channel release.Channel) error {
	if len(artifacts) == 0 {
		return errors.UploadError("no package artifacts to upload", nil)
	}

	args := []string{"upload"}
	if label := channel.Label(); label != "" {
		args = append(args, "--label", label)
	}
	for _, a := range artifacts {
		args = append(args, a.Path)
	}

	c.logger.Info("uploading package artifacts",
		observability.Int("count", len(artifacts)),
		observability.String("channel", string(channel)),
	)

	result, err := c.cmd.Run(ctx, runner.Spec{Name: c.cfg.Tool, Args: args})
	if err != nil {
		if result != nil && IsDuplicateVersion(result.Stdout+result.Stderr) {
			c.logger.Warn("package version already present, treating as success")
			c.recordUploads(len(artifacts), true)
			return nil
		}
		return errors.UploadError(fmt.Sprintf("package upload failed (%d artifacts)", len(artifacts)), err)
	}

	c.recordUploads(len(artifacts), false)
	return nil
}

func (c *CondaRegistry) recordUploads(count int, skipped bool) {
	if c.metrics == nil {
		return
	}
	for i := 0; i < count; i++ {
		c.metrics.RecordUpload(skipped)
	}
}

// Logout releases the authenticated session. Callers run it
// unconditionally at the end of a run, whatever happened before.
func (c *CondaRegistry) Logout(ctx context.Context) error {
	c.logger.Info("logging out of package registry", observability.String("tool", c.cfg.Tool))

	if _, err := c.cmd.Run(ctx, runner.Spec{Name: c.cfg.Tool, Args: []string{"logout"}}); err != nil {
		return errors.AuthError("registry logout failed", err)
	}
	return nil
}
