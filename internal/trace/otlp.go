// Package trace sets up OpenTelemetry tracing for chain operations and
// diagnostic loads. Without an endpoint every tracer is a no-op.
package trace

import (
	"context"

	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"mintdeck/internal/config"
)

// Exporter owns the tracer provider that ships spans to an OTLP endpoint.
type Exporter struct {
	provider *sdktrace.TracerProvider
}

// Setup creates an OTLP/HTTP exporter when cfg.Endpoint is set.
// Returns nil (disabled) when the endpoint is not configured.
func Setup(ctx context.Context, cfg config.TraceConfig) (*Exporter, error) {
	if cfg.Endpoint == "" {
		return nil, nil
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(cfg.Endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "mintdeck"
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(serviceName),
	)

	return NewExporter(sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)), nil
}

// NewExporter wraps an existing provider (tests use an in-memory recorder).
func NewExporter(provider *sdktrace.TracerProvider) *Exporter {
	return &Exporter{provider: provider}
}

// Tracer returns a named tracer, or a no-op tracer when e is nil.
func (e *Exporter) Tracer(name string) oteltrace.Tracer {
	if e == nil || e.provider == nil {
		return noop.NewTracerProvider().Tracer(name)
	}
	return e.provider.Tracer(name)
}

// Shutdown flushes and closes the exporter.
func (e *Exporter) Shutdown(ctx context.Context) error {
	if e == nil || e.provider == nil {
		return nil
	}
	return e.provider.Shutdown(ctx)
}

// OrNoop returns t, or a no-op tracer when t is nil.
func OrNoop(t oteltrace.Tracer) oteltrace.Tracer {
	if t == nil {
		return noop.NewTracerProvider().Tracer("mintdeck")
	}
	return t
}
