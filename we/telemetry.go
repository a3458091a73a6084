package we

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.7.0"
	"google.golang.org/grpc/credentials"
)

func ConsoleExporter() (trace.SpanExporter, error) {
	return stdouttrace.New(stdouttrace.WithPrettyPrint())
}

func HoneycombExporter(ctx context.Context, team string, dataset string) (*otlptrace.Exporter, error) {
	opts := []otlptracegrpc.Option{
		otlptracegrpc.WithEndpoint("api.honeycomb.io:443"),
		otlptracegrpc.WithHeaders(map[string]string{
			"x-honeycomb-team":    team,
			"x-honeycomb-dataset": dataset,
		}),
		otlptracegrpc.WithTLSCredentials(credentials.NewClientTLSFromCert(nil, "")),
	}

	client := otlptracegrpc.NewClient(opts...)
	return otlptrace.New(ctx, client)
}

func JaegerExporter(endpoint string) (*jaeger.Exporter, error) {
	if endpoint == "" {
		endpoint = "http://localhost:14268/api/traces"
	}

	return jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(endpoint)))
}

type TelemetryOptions struct {
	Exporter         string
	HoneycombTeam    string
	HoneycombDataset string
	JaegerEndpoint   string
}

// InstallTracing registers a global tracer provider for the named exporter.
// An empty exporter leaves the no-op provider in place. The returned function
// flushes pending spans.
func InstallTracing(ctx context.Context, service string, options TelemetryOptions) (func(context.Context) error, error) {
	var exporter trace.SpanExporter
	var err error

	switch options.Exporter {
	case "":
		return func(context.Context) error { return nil }, nil
	case "console":
		exporter, err = ConsoleExporter()
	case "honeycomb":
		exporter, err = HoneycombExporter(ctx, options.HoneycombTeam, options.HoneycombDataset)
	case "jaeger":
		exporter, err = JaegerExporter(options.JaegerEndpoint)
	default:
		return nil, fmt.Errorf("unknown trace exporter %q", options.Exporter)
	}

	if err != nil {
		return nil, err
	}

	provider := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(service),
		)),
	)
	otel.SetTracerProvider(provider)

	return provider.Shutdown, nil
}
