/*
Package tracing installs the process-wide OpenTelemetry tracer provider.

Units of work and the HTTP layer obtain tracers through otel.Tracer, so they record
spans once Init has run and stay no-ops otherwise.
*/
package tracing

import (
	"context"
	"fmt"
	"io"
	"os"

	"ddd-course/config"
	"ddd-course/pkg/logger"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

const (
	ExporterStdout = "stdout"
	ExporterNone   = "none"
)

// ShutdownFunc flushes and stops the provider
type ShutdownFunc func(context.Context) error

func noopShutdown(context.Context) error { return nil }

// Init configures the global tracer provider from cfg.
// With tracing disabled the global no-op provider is left in place.
func Init(ctx context.Context, cfg *config.Config) (ShutdownFunc, error) {
	if !cfg.Tracing.Enabled {
		return noopShutdown, nil
	}

	var exporter sdktrace.SpanExporter
	switch cfg.Tracing.Exporter {
	case ExporterStdout, "":
		exp, err := stdouttrace.New(stdouttrace.WithWriter(os.Stdout))
		if err != nil {
			return nil, fmt.Errorf("create stdout exporter: %w", err)
		}
		exporter = exp
	case ExporterNone:
	default:
		return nil, fmt.Errorf("unsupported tracing exporter %q", cfg.Tracing.Exporter)
	}

	tp, err := NewProvider(ctx, cfg.App, cfg.Tracing.SampleRatio, exporter)
	if err != nil {
		return nil, err
	}
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logger.Info("Tracing initialized",
		zap.String("exporter", cfg.Tracing.Exporter),
		zap.Float64("sample_ratio", cfg.Tracing.SampleRatio))
	return tp.Shutdown, nil
}

// NewProvider builds a provider for the application; exporter may be nil
func NewProvider(ctx context.Context, app config.AppConfig, ratio float64, exporter sdktrace.SpanExporter) (*sdktrace.TracerProvider, error) {
	res, err := resource.New(ctx, resource.WithAttributes(
		attribute.String("service.name", app.Name),
		attribute.String("service.version", app.Version),
		attribute.String("deployment.environment", app.Env),
	))
	if err != nil {
		return nil, fmt.Errorf("build tracing resource: %w", err)
	}

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))),
	}
	if exporter != nil {
		opts = append(opts, sdktrace.WithBatcher(exporter))
	}
	return sdktrace.NewTracerProvider(opts...), nil
}

// NewWriterExporter stdout-format exporter writing to w, used by tests and the CLI
func NewWriterExporter(w io.Writer) (sdktrace.SpanExporter, error) {
	return stdouttrace.New(stdouttrace.WithWriter(w))
}
