// Package tracing installs an OpenTelemetry tracer provider that exports
// spans with the stdout exporter, to stdout or to a file.
package tracing

import (
	"context"
	"io"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Config enables span export.
type Config struct {
	Enabled bool `json:"enabled"`
	// Output is the file receiving spans. Empty means stdout.
	Output string `json:"output"`
}

// Shutdown flushes pending spans and releases the exporter.
type Shutdown func(context.Context) error

func noop(context.Context) error { return nil }

// Init configures the global tracer provider according to cfg. When tracing
// is disabled the global no-op provider stays in place.
func Init(cfg Config, serviceName, serviceVersion string) (Shutdown, error) {
	if !cfg.Enabled {
		return noop, nil
	}
	var (
		w      io.Writer = os.Stdout
		closer io.Closer
	)
	if cfg.Output != "" {
		f, err := os.Create(cfg.Output)
		if err != nil {
			return noop, err
		}
		w, closer = f, f
	}
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
	if err != nil {
		return noop, err
	}
	tp, err := InitWithExporter(exporter, serviceName, serviceVersion)
	if err != nil {
		return noop, err
	}
	return func(ctx context.Context) error {
		err := tp.Shutdown(ctx)
		if closer != nil {
			if cerr := closer.Close(); err == nil {
				err = cerr
			}
		}
		return err
	}, nil
}

// InitWithExporter registers a provider exporting to exporter as the global
// tracer provider and returns it.
func InitWithExporter(exporter sdktrace.SpanExporter, serviceName, serviceVersion string) (*sdktrace.TracerProvider, error) {
	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			attribute.String("service.name", serviceName),
			attribute.String("service.version", serviceVersion),
		),
	)
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(sdktrace.NewSimpleSpanProcessor(exporter)),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	return tp, nil
}
