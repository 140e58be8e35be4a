// internal/common/observability/tracing.go
package observability

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// EnableTracing batches spans to the Jaeger collector at endpoint
// (e.g. http://jaeger:14268/api/traces) and makes the provider global.
func (o *Observability) EnableTracing(endpoint, version string) error {
	exporter, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(endpoint)))
	if err != nil {
		return fmt.Errorf("create jaeger exporter: %w", err)
	}
	return o.useSpanExporter(exporter, version)
}

func (o *Observability) useSpanExporter(exporter sdktrace.SpanExporter, version string) error {
	res := resource.NewSchemaless(
		attribute.String("service.name", o.serviceName),
		attribute.String("service.version", version),
	)

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(provider)

	o.tracer = provider.Tracer(o.serviceName)
	o.shutdownTracer = provider.Shutdown
	return nil
}
