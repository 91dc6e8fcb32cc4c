// Package telemetry configures OpenTelemetry tracing for paradis processes.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.12.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"

	"github.com/openfga/paradis/internal/build"
)

type TracerOption func(d *tracerConfig)

func WithOTLPEndpoint(endpoint string) TracerOption {
	return func(d *tracerConfig) {
		d.endpoint = endpoint
	}
}

func WithServiceName(serviceName string) TracerOption {
	return func(d *tracerConfig) {
		d.serviceName = serviceName
	}
}

// WithSamplingRatio sets the fraction of root spans sampled, in [0, 1].
func WithSamplingRatio(samplingRatio float64) TracerOption {
	return func(d *tracerConfig) {
		d.samplingRatio = samplingRatio
	}
}

type tracerConfig struct {
	endpoint      string
	serviceName   string
	samplingRatio float64
}

// MustNewTracerProvider builds a provider exporting over OTLP/gRPC and
// installs it, together with the W3C propagators, as the global default.
// It panics if the resource or the exporter cannot be created.
func MustNewTracerProvider(opts ...TracerOption) *sdktrace.TracerProvider {
	cfg := &tracerConfig{
		serviceName: build.ProjectName,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(
			semconv.ServiceNameKey.String(cfg.serviceName),
			semconv.ServiceVersionKey.String(build.Version),
		))
	if err != nil {
		panic(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	exp, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithInsecure(),
		otlptracegrpc.WithEndpoint(cfg.endpoint),
		otlptracegrpc.WithDialOption(grpc.WithUserAgent(build.ProjectName+"/"+build.Version)),
	)
	if err != nil {
		panic(fmt.Sprintf("failed to create the otlp exporter: %v", err))
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.samplingRatio))),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(sdktrace.NewBatchSpanProcessor(exp)),
	)

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))
	otel.SetTracerProvider(tp)

	return tp
}

// TraceError records err on span and marks the span as failed.
func TraceError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
