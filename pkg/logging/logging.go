// Copyright (C) 2026 Jan Rybar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at <https://mozilla.org/MPL/2.0/>.

// Package logging provides a structured logging interface compatible with slog
// levels and common logging utilities for the FieldTrial library.
package logging

import (
	"context"
	"log/slog"
)

// Common logging levels for structured logging.
const (
	LevelTrace = slog.Level(-8) // most verbose
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError // least verbose
)

// Logger defines a generic logging interface following slog style with log levels.
// It provides structured logging capabilities for both regular messages and error handling.
type Logger interface {
	// Message logs a message at the specified level with optional format arguments.
	Message(ctx context.Context, level slog.Level, msg string, args ...any)

	// Error logs an error at the specified level with optional format arguments.
	Error(ctx context.Context, level slog.Level, err error, msg string, args ...any)

	// WithContext returns a new Logger that appends the specified context to the existing prefix.
	// This allows for hierarchical logging where components can add their context
	// without affecting the original logger instance. Each call extends the prefix chain.
	WithContext(context string) Logger
}

// NoopLogger is a Logger that discards all messages.
// It is the default when a caller does not supply a logger.
type NoopLogger struct{}

// Message discards the message.
func (NoopLogger) Message(ctx context.Context, level slog.Level, msg string, args ...any) {}

// Error discards the error message.
func (NoopLogger) Error(ctx context.Context, level slog.Level, err error, msg string, args ...any) {
}

// WithContext returns the logger unchanged.
func (n NoopLogger) WithContext(context string) Logger {
	return n
}
