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

// WheelIndex uploads wheel artifacts to the language-ecosystem package
// index via a twine-compatible tool. Uploads are non-interactive, skip
// existing versions and disable the progress bar, so a re-run of an
// already-published version completes without error.
type WheelIndex struct {
	cfg     config.WheelIndexConfig
	cmd     runner.CommandRunner
	secrets *secrets.Store
	logger  observability.Logger
	metrics *observability.Metrics
}

// NewWheelIndex creates a new wheel index client.
func NewWheelIndex(cfg config.WheelIndexConfig, cmd runner.CommandRunner, store *secrets.Store, logger observability.Logger) *WheelIndex {
	return &WheelIndex{cfg: cfg, cmd: cmd, secrets: store, logger: logger}
}

// WithMetrics attaches an upload counter.
func (w *WheelIndex) WithMetrics(m *observability.Metrics) *WheelIndex {
	w.metrics = m
	return w
}

// Upload publishes the given wheel artifacts.
func (w *WheelIndex) Upload(ctx context.Context, artifacts []release.Artifact) error {
	if len(artifacts) == 0 {
		return errors.UploadError("no wheel artifacts to upload", nil)
	}

	token, err := w.secrets.Get(w.cfg.TokenEnv)
	if err != nil {
		return errors.UploadError("wheel index token unavailable", err)
	}

	args := []string{"upload", "--non-interactive", "--skip-existing", "--disable-progress-bar"}
	if w.cfg.RepositoryURL != "" {
		args = append(args, "--repository-url", w.cfg.RepositoryURL)
	}
	for _, a := range artifacts {
		args = append(args, a.Path)
	}

	w.logger.Info("uploading wheel artifacts",
		observability.Int("count", len(artifacts)),
		observability.String("tool", w.cfg.Tool),
	)

	// Token auth rides in the environment, never on the argv.
	spec := runner.Spec{
		Name: w.cfg.Tool,
		Args: args,
		Env: []string{
			"TWINE_USERNAME=__token__",
			"TWINE_PASSWORD=" + token.Value(),
		},
	}

	result, err := w.cmd.Run(ctx, spec)
	if err != nil {
		if result != nil && IsDuplicateVersion(result.Stdout+result.Stderr) {
			// skip-existing should already have handled this; trust the
			// contract either way.
			w.logger.Warn("wheel version already present, treating as success")
			w.recordUploads(len(artifacts), true)
			return nil
		}
		return errors.UploadError(fmt.Sprintf("wheel upload failed (%d artifacts)", len(artifacts)), err)
	}

	w.recordUploads(len(artifacts), false)
	return nil
}

func (w *WheelIndex) recordUploads(count int, skipped bool) {
	if w.metrics == nil {
		return
	}
	for i := 0; i < count; i++ {
		w.metrics.RecordUpload(skipped)
	}
}
