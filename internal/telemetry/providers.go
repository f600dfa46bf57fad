package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// DefaultMetricsInterval is the push interval for OTLP metrics
const DefaultMetricsInterval = 60 * time.Second

func newResource(ctx context.Context, cfg *Config) (*resource.Resource, error) {
	// resource.New avoids schema URL conflicts with resource.Default()
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.GetServiceName()),
			semconv.ServiceVersion(cfg.GetServiceVersion()),
		),
		resource.WithHost(),
		resource.WithTelemetrySDK(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}
	return res, nil
}

// NewTracerProvider returns an OTLP-backed tracer provider, or a no-op one when
// tracing is disabled. SDK providers are installed as the global provider.
func NewTracerProvider(ctx context.Context, cfg *Config) (trace.TracerProvider, error) {
	if cfg == nil || !cfg.Enabled || cfg.Tracing == nil || !cfg.Tracing.Enabled {
		slog.Info("Tracing disabled, using no-op tracer provider")
		return tracenoop.NewTracerProvider(), nil
	}

	res, err := newResource(ctx, cfg)
	if err != nil {
		return nil, err
	}

	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.GetEndpoint())}
	if cfg.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(exporter),
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(cfg.Tracing.GetSampling())),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	if cfg.Insecure {
		slog.Warn("Tracing configured with insecure connection, spans are sent over unencrypted HTTP")
	}
	slog.Info("Tracing initialized",
		"endpoint", cfg.GetEndpoint(),
		"sampling_ratio", cfg.Tracing.GetSampling(),
	)

	return tp, nil
}

// NewMeterProvider returns a meter provider for the configured exporter, or a
// no-op one when metrics are disabled. With the Prometheus exporter, the
// instruments are registered on registry.
func NewMeterProvider(ctx context.Context, cfg *Config, registry *prometheus.Registry) (metric.MeterProvider, error) {
	if cfg == nil || !cfg.Enabled || cfg.Metrics == nil || !cfg.Metrics.Enabled {
		slog.Info("Metrics disabled, using no-op meter provider")
		return metricnoop.NewMeterProvider(), nil
	}

	res, err := newResource(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var reader sdkmetric.Reader
	switch cfg.Metrics.GetExporter() {
	case ExporterPrometheus:
		if registry == nil {
			return nil, fmt.Errorf("prometheus exporter requires a registry")
		}
		exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
		if err != nil {
			return nil, fmt.Errorf("failed to create Prometheus exporter: %w", err)
		}
		reader = exporter
	case ExporterOTLP:
		opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.GetEndpoint())}
		if cfg.Insecure {
			opts = append(opts, otlpmetrichttp.WithInsecure())
		}
		exporter, err := otlpmetrichttp.New(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP metric exporter: %w", err)
		}
		reader = sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(DefaultMetricsInterval))
	default:
		return nil, fmt.Errorf("unsupported metrics exporter %q", cfg.Metrics.Exporter)
	}

	mp := sdkmetric.NewMeterProvider(sdkmetric.WithResource(res), sdkmetric.WithReader(reader))
	otel.SetMeterProvider(mp)

	slog.Info("Metrics initialized", "exporter", cfg.Metrics.GetExporter())
	return mp, nil
}
