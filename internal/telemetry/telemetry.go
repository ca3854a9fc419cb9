// Package telemetry wires OpenTelemetry tracing for the engine, session and servers.
//
// Spans are exported over OTLP HTTP. With Honeycomb credentials the exporter
// targets api.honeycomb.io directly; otherwise the standard OTEL_EXPORTER_OTLP_*
// environment variables apply.
package telemetry

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const (
	serviceName      = "ashardalon"
	honeycombHost    = "api.honeycomb.io"
	defaultDataset   = "ashardalon"
	instrumentPrefix = "ashardalon/"
)

// Version is reported as service.version on every span.
var Version = "0.1.0"

type settings struct {
	apiKey      string
	dataset     string
	sampleRatio float64
}

// Option configures Setup.
type Option func(*settings)

// WithHoneycomb sends spans to Honeycomb with the given team key and dataset.
// An empty key leaves the exporter on the OTEL_* environment.
func WithHoneycomb(apiKey, dataset string) Option {
	return func(s *settings) {
		s.apiKey = apiKey
		if dataset != "" {
			s.dataset = dataset
		}
	}
}

// WithSampleRatio keeps the given fraction of root traces. Values outside
// (0, 1] are clamped.
func WithSampleRatio(r float64) Option {
	return func(s *settings) { s.sampleRatio = r }
}

func newSettings(opts []Option) settings {
	s := settings{dataset: defaultDataset, sampleRatio: 1}
	for _, opt := range opts {
		opt(&s)
	}
	if s.sampleRatio <= 0 || s.sampleRatio > 1 {
		s.sampleRatio = 1
	}
	return s
}

func (s settings) exporterOptions() []otlptracehttp.Option {
	if s.apiKey == "" {
		return nil
	}
	return []otlptracehttp.Option{
		otlptracehttp.WithEndpoint(honeycombHost),
		otlptracehttp.WithHeaders(map[string]string{
			"x-honeycomb-team":    s.apiKey,
			"x-honeycomb-dataset": s.dataset,
		}),
	}
}

func (s settings) sampler() sdktrace.Sampler {
	if s.sampleRatio >= 1 {
		return sdktrace.AlwaysSample()
	}
	return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(s.sampleRatio))
}

// Setup registers a global tracer provider and returns its shutdown function,
// which flushes buffered spans.
func Setup(ctx context.Context, opts ...Option) (shutdown func(context.Context) error, err error) {
	s := newSettings(opts)

	exporter, err := otlptracehttp.New(ctx, s.exporterOptions()...)
	if err != nil {
		return nil, fmt.Errorf("otlp exporter: %w", err)
	}

	// Not merged with resource.Default(): the schema URLs conflict.
	res, err := resource.New(ctx, resource.WithAttributes(resourceAttributes()...))
	if err != nil {
		return nil, fmt.Errorf("telemetry resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(s.sampler()),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	return tp.Shutdown, nil
}

func resourceAttributes() []attribute.KeyValue {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}
	return []attribute.KeyValue{
		attribute.String("service.name", serviceName),
		attribute.String("service.version", Version),
		attribute.String("host.name", host),
		attribute.String("os.type", runtime.GOOS),
		attribute.String("process.runtime.name", "go"),
		attribute.String("process.runtime.version", runtime.Version()),
	}
}

// Tracer returns the tracer for one component, e.g. "engine" or "server".
// Until Setup runs it is a no-op.
func Tracer(name string) trace.Tracer {
	return otel.GetTracerProvider().Tracer(instrumentPrefix + name)
}
