// Package telemetry provides OpenTelemetry instrumentation for the gateway.
// Traces are exported over OTLP; metrics go to a Prometheus scrape endpoint
// or to an OTLP collector.
package telemetry

import (
	"errors"
	"fmt"
)

const (
	// DefaultServiceName identifies the gateway in exported telemetry
	DefaultServiceName = "sobject-gateway"

	// DefaultEndpoint is the default OTLP endpoint
	DefaultEndpoint = "localhost:4318"

	// DefaultSampling is the default trace sampling ratio
	DefaultSampling = 0.05
)

// MetricsExporter selects where metrics are sent
type MetricsExporter string

const (
	// ExporterPrometheus serves metrics on the gateway's /metrics endpoint
	ExporterPrometheus MetricsExporter = "prometheus"
	// ExporterOTLP pushes metrics to the OTLP endpoint
	ExporterOTLP MetricsExporter = "otlp"
)

// Config is the telemetry section of the gateway configuration
type Config struct {
	// Enabled turns on every configured provider
	Enabled bool `yaml:"enabled"`

	// ServiceName defaults to DefaultServiceName
	ServiceName string `yaml:"serviceName,omitempty"`

	// ServiceVersion defaults to "unknown"
	ServiceVersion string `yaml:"serviceVersion,omitempty"`

	// Endpoint is the OTLP collector address as "host:port"
	Endpoint string `yaml:"endpoint,omitempty"`

	// Insecure allows plain HTTP to the collector
	Insecure bool `yaml:"insecure,omitempty"`

	Tracing *TracingConfig `yaml:"tracing,omitempty"`
	Metrics *MetricsConfig `yaml:"metrics,omitempty"`
}

// TracingConfig configures span export
type TracingConfig struct {
	Enabled bool `yaml:"enabled"`

	// Sampling is a ratio between 0.0 and 1.0. Zero means DefaultSampling.
	Sampling float64 `yaml:"sampling,omitempty"`
}

// MetricsConfig configures metric export
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`

	// Exporter defaults to ExporterPrometheus
	Exporter MetricsExporter `yaml:"exporter,omitempty"`
}

// GetServiceName returns the service name or DefaultServiceName
func (c *Config) GetServiceName() string {
	if c == nil || c.ServiceName == "" {
		return DefaultServiceName
	}
	return c.ServiceName
}

// GetServiceVersion returns the service version or "unknown"
func (c *Config) GetServiceVersion() string {
	if c == nil || c.ServiceVersion == "" {
		return "unknown"
	}
	return c.ServiceVersion
}

// GetEndpoint returns the OTLP endpoint or DefaultEndpoint
func (c *Config) GetEndpoint() string {
	if c == nil || c.Endpoint == "" {
		return DefaultEndpoint
	}
	return c.Endpoint
}

// GetSampling returns the sampling ratio. An unset ratio yields DefaultSampling.
func (c *TracingConfig) GetSampling() float64 {
	if c == nil || c.Sampling == 0.0 {
		return DefaultSampling
	}
	return c.Sampling
}

// GetExporter returns the configured exporter or ExporterPrometheus
func (c *MetricsConfig) GetExporter() MetricsExporter {
	if c == nil || c.Exporter == "" {
		return ExporterPrometheus
	}
	return c.Exporter
}

// Validate checks the telemetry configuration. Disabled telemetry is always valid.
func (c *Config) Validate() error {
	if c == nil || !c.Enabled {
		return nil
	}

	var errs []error

	if c.Tracing != nil && c.Tracing.Enabled {
		if c.Tracing.Sampling < 0 || c.Tracing.Sampling > 1.0 {
			errs = append(errs, fmt.Errorf("tracing: sampling must be between 0.0 and 1.0, got %f", c.Tracing.Sampling))
		}
	}

	if c.Metrics != nil && c.Metrics.Enabled {
		switch c.Metrics.GetExporter() {
		case ExporterPrometheus, ExporterOTLP:
		default:
			errs = append(errs, fmt.Errorf("metrics: unsupported exporter %q", c.Metrics.Exporter))
		}
	}

	return errors.Join(errs...)
}
