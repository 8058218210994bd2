// Copyright (c) 2026 Nodeflow Labs
// Licensed under the Apache License, Version 2.0.

// Package telemetry provides the structured logging, tracing, and
// metrics used across the louvain engine. Logging is a thin layer over
// log/slog: a Level type and Config struct pick the minimum level and
// attach a "service" attribute to every record, mirroring the layered
// logging design used elsewhere in this codebase's lineage (stderr by
// default, JSON optional, a package default logger replaceable through
// SetDefault).
package telemetry

import (
	"context"
	"log/slog"
	"os"
)

// Level is the minimum severity a Logger will emit, ordered
// Debug < Info < Warn < Error.
type Level int

const (
	LevelDebug Level = iota - 1
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) slogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Config configures a Logger. A zero-value Config logs Info+ to stderr
// in text form with no service attribute.
type Config struct {
	// Level is the minimum level emitted. Default: LevelInfo.
	Level Level

	// Service is attached to every record as "service". Default: "".
	Service string

	// JSON selects JSON output instead of text. Default: false.
	JSON bool
}

// Logger wraps *slog.Logger with the engine's Level type.
type Logger struct {
	*slog.Logger
}

// New builds a Logger writing to stderr per cfg.
func New(cfg Config) *Logger {
	opts := &slog.HandlerOptions{Level: cfg.Level.slogLevel()}
	var handler slog.Handler
	if cfg.JSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	logger := slog.New(handler)
	if cfg.Service != "" {
		logger = logger.With(slog.String("service", cfg.Service))
	}
	return &Logger{Logger: logger}
}

var defaultLogger = New(Config{Level: LevelInfo, Service: "louvainctl"})

// Default returns the package's default Logger (Info level, text,
// service "louvainctl"). cmd/louvainctl replaces it via SetDefault once
// flags are parsed.
func Default() *Logger { return defaultLogger }

// SetDefault replaces the package default logger, used once the CLI has
// parsed --log-level/--log-json.
func SetDefault(l *Logger) { defaultLogger = l }

// WithRunID returns a Logger tagged with run_id, used to correlate every
// log line from one louvainctl invocation when metrics/logs from
// concurrent runs share a destination.
func (l *Logger) WithRunID(ctx context.Context, runID string) *Logger {
	return &Logger{Logger: l.Logger.With(slog.String("run_id", runID))}
}
