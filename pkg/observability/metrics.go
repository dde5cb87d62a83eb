// Copyright 2026 Release CI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package observability

import (
	"sync"
	"time"
)

// Metrics collects per-run timing and outcome counters.
type Metrics struct {
	mu sync.Mutex

	stepDurations  map[string]time.Duration
	stepFailures   map[string]int
	uploads        int
	uploadsSkipped int
}

// NewMetrics creates a new metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{
		stepDurations: make(map[string]time.Duration),
		stepFailures:  make(map[string]int),
	}
}

// RecordStep records a step execution.
func (m *Metrics) RecordStep(step string, duration time.Duration, success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stepDurations[step] += duration
	if !success {
		m.stepFailures[step]++
	}
}

// RecordUpload records an artifact upload; skipped marks a
// duplicate-version upload treated as success.
func (m *Metrics) RecordUpload(skipped bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if skipped {
		m.uploadsSkipped++
		return
	}
	m.uploads++
}

// StepDuration returns the accumulated duration for a step.
func (m *Metrics) StepDuration(step string) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stepDurations[step]
}

// Uploads returns the counts of completed and duplicate-skipped uploads.
func (m *Metrics) Uploads() (completed, skipped int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.uploads, m.uploadsSkipped
}
