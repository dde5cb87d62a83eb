// Copyright 2026 Release CI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package observability provides logging and run auditing.
package observability

import (
	"log/slog"
	"os"

	"github.com/m-mizutani/clog"
	"github.com/m-mizutani/masq"
	"github.com/release-ci-toolkit/release-runner/pkg/secrets"
)

// Logger is the structured logger interface used across the runner.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	With(fields ...Field) Logger
}

// Field represents a log field.
type Field struct {
	Key   string
	Value any
}

// logger wraps slog with a console (clog) or JSON handler. Credential
// values are redacted by masq before they reach the handler.
type logger struct {
	sl *slog.Logger
}

// NewLogger creates a new logger. Level is one of debug, info, warn,
// error; jsonOutput switches from the colored console handler to JSON.
func NewLogger(level string, jsonOutput bool) Logger {
	slogLevel := parseLevel(level)

	redact := masq.New(
		masq.WithType[secrets.Secret](),
		masq.WithContain("password"),
		masq.WithContain("token"),
	)

	var handler slog.Handler
	if jsonOutput {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level:       slogLevel,
			ReplaceAttr: redact,
		})
	} else {
		handler = clog.New(
			clog.WithWriter(os.Stderr),
			clog.WithLevel(slogLevel),
			clog.WithReplaceAttr(redact),
		)
	}

	return &logger{sl: slog.New(handler)}
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *logger) Debug(msg string, fields ...Field) {
	l.sl.Debug(msg, args(fields)...)
}

func (l *logger) Info(msg string, fields ...Field) {
	l.sl.Info(msg, args(fields)...)
}

func (l *logger) Warn(msg string, fields ...Field) {
	l.sl.Warn(msg, args(fields)...)
}

func (l *logger) Error(msg string, fields ...Field) {
	l.sl.Error(msg, args(fields)...)
}

func (l *logger) With(fields ...Field) Logger {
	return &logger{sl: l.sl.With(args(fields)...)}
}

func args(fields []Field) []any {
	out := make([]any, 0, len(fields)*2)
	for _, f := range fields {
		out = append(out, f.Key, f.Value)
	}
	return out
}

// NewNopLogger returns a logger that discards everything, for tests.
func NewNopLogger() Logger {
	return &logger{sl: slog.New(slog.DiscardHandler)}
}

// String creates a string field.
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

// Int creates an int field.
func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

// Bool creates a bool field.
func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

// Err creates an error field.
func Err(err error) Field {
	return Field{Key: "error", Value: err}
}
