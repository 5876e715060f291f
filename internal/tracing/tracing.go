package tracing

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws-observability/aws-otel-go/exporters/xrayudp"
	"go.opentelemetry.io/contrib/propagators/aws/xray"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
)

// Exporter names accepted by InitTracer.
const (
	ExporterNone   = "none"
	ExporterStdout = "stdout"
	ExporterXRay   = "xray"
)

// InitTracer installs a global tracer provider exporting spans to exporter.
// With "none" spans are still created, so trace IDs propagate, but nothing
// is exported.
func InitTracer(ctx context.Context, logger *slog.Logger, serviceName, exporter string) (*trace.TracerProvider, error) {
	res, err := resource.New(ctx, resource.WithAttributes(attribute.String("service.name", serviceName)))
	if err != nil {
		return nil, fmt.Errorf("could not build tracing resource: %w", err)
	}

	opts := []trace.TracerProviderOption{trace.WithResource(res)}

	switch exporter {
	case ExporterNone, "":
	case ExporterStdout:
		stdoutExporter, err := stdouttrace.New()
		if err != nil {
			return nil, fmt.Errorf("could not initialize stdout exporter: %w", err)
		}
		opts = append(opts, trace.WithBatcher(stdoutExporter))
	case ExporterXRay:
		udpExporter, err := xrayudp.NewSpanExporter(ctx)
		if err != nil {
			return nil, fmt.Errorf("could not initialize xray exporter: %w", err)
		}
		opts = append(opts, trace.WithSpanProcessor(trace.NewSimpleSpanProcessor(udpExporter)))
		opts = append(opts, trace.WithIDGenerator(xray.NewIDGenerator()))
	default:
		return nil, fmt.Errorf("unknown tracing exporter %q", exporter)
	}

	tp := trace.NewTracerProvider(opts...)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		xray.Propagator{},
		propagation.TraceContext{},
	))

	logger.Debug("tracing initialized", "exporter", exporter)

	return tp, nil
}
