// Copyright (c) 2026 Nodeflow Labs
// Licensed under the Apache License, Version 2.0.

package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// InitTracing installs a TracerProvider backed by a stdout exporter and
// registers it as the global provider, so every package-level
// otel.Tracer(...) call in internal/louvain picks it up without being
// threaded through explicitly. It returns a shutdown func the caller
// must invoke before process exit to flush buffered spans.
func InitTracing(ctx context.Context) (shutdown func(context.Context) error, err error) {
	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}

// Tracer is a convenience wrapper so callers don't need to import
// go.opentelemetry.io/otel directly just to get a named tracer.
func Tracer(name string) trace.Tracer { return otel.Tracer(name) }
