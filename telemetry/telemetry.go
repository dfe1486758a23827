// Package telemetry constructs the logger, tracer, and meter the rest of
// delaygraph is instrumented with (spec.md carries no observability
// requirements of its own; this is the ambient stack every package in this
// project shares, grounded on jinterlante1206-AleutianLocal's
// services/trace/dag/executor.go NewExecutor(dag, logger) pattern of a
// package-level tracer/meter pair plus an slog.Logger passed down the call
// chain).
package telemetry

import (
	"context"
	"io"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// NewLogger builds an slog.Logger writing structured JSON to w at level.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// Shutdown flushes and releases the providers EnableStdoutExporters
// installed. Calling it when telemetry was never enabled is a no-op.
type Shutdown func(context.Context) error

// EnableStdoutExporters installs stdout trace and metric exporters as the
// global OpenTelemetry providers, for the CLI's --telemetry flag. Without
// calling this, otel.Tracer/otel.Meter return the default no-op providers,
// so every span and instrument call elsewhere in this project stays a cheap
// no-op until a caller opts in.
func EnableStdoutExporters(w io.Writer) (Shutdown, error) {
	if w == nil {
		w = os.Stdout
	}

	traceExporter, err := stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(traceExporter))
	otel.SetTracerProvider(tp)

	metricExporter, err := stdoutmetric.New(stdoutmetric.WithWriter(w))
	if err != nil {
		return nil, err
	}
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)))
	otel.SetMeterProvider(mp)

	return func(ctx context.Context) error {
		if err := tp.Shutdown(ctx); err != nil {
			return err
		}
		return mp.Shutdown(ctx)
	}, nil
}
