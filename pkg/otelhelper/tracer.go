// Package otelhelper wires OpenTelemetry tracing for the engine binaries.
package otelhelper

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	otlptracehttp "go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Span attribute keys shared by the engine and the binaries.
const (
	WorkflowIDKey  = "leadflow.workflow.id"
	SiteIDKey      = "leadflow.site.id"
	TriggerTypeKey = "leadflow.trigger.type"
	ActionTypeKey  = "leadflow.action.type"
	ExecutionIDKey = "leadflow.execution.id"
)

// Init installs a global tracer provider exporting over OTLP HTTP. The
// exporter endpoint comes from the standard OTEL_EXPORTER_OTLP_* environment
// variables. The returned shutdown flushes pending spans.
func Init(ctx context.Context, serviceName string) (func(context.Context) error, error) {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return nil, err
	}

	exporter, err := otlptracehttp.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return provider.Shutdown, nil
}
