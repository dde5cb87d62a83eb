// Copyright 2026 Release CI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package observability

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Auditor records per-run audit events: which steps ran for which
// platform and how they ended. Events are kept in memory and drained by
// the reporter at the end of a run.
type Auditor struct {
	mu     sync.Mutex
	events []AuditEvent
}

// AuditEvent records one pipeline step outcome.
type AuditEvent struct {
	ID        string
	RunID     string
	Timestamp time.Time
	Platform  string
	Step      string
	Success   bool
	Skipped   bool
	Detail    string
}

// NewAuditor creates a new auditor.
func NewAuditor() *Auditor {
	return &Auditor{}
}

// NewRunID generates a unique identifier for a pipeline run.
func NewRunID() string {
	return uuid.NewString()
}

// Record appends an audit event, assigning an ID and timestamp.
func (a *Auditor) Record(ev AuditEvent) {
	ev.ID = uuid.NewString()
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}

	a.mu.Lock()
	a.events = append(a.events, ev)
	a.mu.Unlock()
}

// Events returns a copy of all recorded events.
func (a *Auditor) Events() []AuditEvent {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]AuditEvent, len(a.events))
	copy(out, a.events)
	return out
}
