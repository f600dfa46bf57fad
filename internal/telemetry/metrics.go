package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// GatewayMeterName is the meter name for gateway instruments
const GatewayMeterName = "github.com/stacklok/sobject-gateway/gateway"

// GatewayMetrics holds the instruments recorded by the metadata gateway
type GatewayMetrics struct {
	operationDuration metric.Float64Histogram
	hiddenClasses     metric.Int64Counter
	hiddenFields      metric.Int64Counter
	policyReloads     metric.Int64Counter
}

// NewGatewayMetrics creates the gateway instruments. A nil provider yields nil metrics.
func NewGatewayMetrics(provider metric.MeterProvider) (*GatewayMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	meter := provider.Meter(GatewayMeterName)

	operationDuration, err := meter.Float64Histogram(
		"sobject_gateway_operation_duration_seconds",
		metric.WithDescription("Duration of gateway operations in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30),
	)
	if err != nil {
		return nil, err
	}

	hiddenClasses, err := meter.Int64Counter(
		"sobject_gateway_hidden_classes_total",
		metric.WithDescription("Number of SObject classes removed from listings by the filter policy"),
		metric.WithUnit("{class}"),
	)
	if err != nil {
		return nil, err
	}

	hiddenFields, err := meter.Int64Counter(
		"sobject_gateway_hidden_fields_total",
		metric.WithDescription("Number of fields removed from descriptions by the filter policy"),
		metric.WithUnit("{field}"),
	)
	if err != nil {
		return nil, err
	}

	policyReloads, err := meter.Int64Counter(
		"sobject_gateway_policy_reloads_total",
		metric.WithDescription("Number of filter policy reloads"),
		metric.WithUnit("{reload}"),
	)
	if err != nil {
		return nil, err
	}

	return &GatewayMetrics{
		operationDuration: operationDuration,
		hiddenClasses:     hiddenClasses,
		hiddenFields:      hiddenFields,
		policyReloads:     policyReloads,
	}, nil
}

// RecordOperation records the duration and outcome of a gateway operation
func (m *GatewayMetrics) RecordOperation(ctx context.Context, operation string, duration time.Duration, success bool) {
	if m == nil || m.operationDuration == nil {
		return
	}

	m.operationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.Bool("success", success),
	))
}

// RecordHiddenClasses counts classes removed by the given policy kind
func (m *GatewayMetrics) RecordHiddenClasses(ctx context.Context, policy string, count int) {
	if m == nil || m.hiddenClasses == nil || count <= 0 {
		return
	}

	m.hiddenClasses.Add(ctx, int64(count), metric.WithAttributes(attribute.String("policy", policy)))
}

// RecordHiddenFields counts fields removed from a class by the given policy kind
func (m *GatewayMetrics) RecordHiddenFields(ctx context.Context, policy, className string, count int) {
	if m == nil || m.hiddenFields == nil || count <= 0 {
		return
	}

	m.hiddenFields.Add(ctx, int64(count), metric.WithAttributes(
		attribute.String("policy", policy),
		attribute.String("sobject", className),
	))
}

// RecordPolicyReload counts a filter policy replacement
func (m *GatewayMetrics) RecordPolicyReload(ctx context.Context, policy string) {
	if m == nil || m.policyReloads == nil {
		return
	}

	m.policyReloads.Add(ctx, 1, metric.WithAttributes(attribute.String("policy", policy)))
}
