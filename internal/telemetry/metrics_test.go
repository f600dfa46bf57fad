package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestNewGatewayMetrics(t *testing.T) {
	t.Parallel()

	t.Run("returns nil when provider is nil", func(t *testing.T) {
		t.Parallel()

		metrics, err := NewGatewayMetrics(nil)
		require.NoError(t, err)
		assert.Nil(t, metrics)
	})

	t.Run("creates instruments with SDK provider", func(t *testing.T) {
		t.Parallel()

		_, mp := newTestMeterProvider(t)
		metrics, err := NewGatewayMetrics(mp)
		require.NoError(t, err)
		require.NotNil(t, metrics)
		assert.NotNil(t, metrics.operationDuration)
		assert.NotNil(t, metrics.hiddenClasses)
		assert.NotNil(t, metrics.hiddenFields)
		assert.NotNil(t, metrics.policyReloads)
	})
}

func TestGatewayMetrics_NilSafe(t *testing.T) {
	t.Parallel()

	var metrics *GatewayMetrics
	ctx := context.Background()
	assert.NotPanics(t, func() {
		metrics.RecordOperation(ctx, "describe", time.Second, true)
		metrics.RecordHiddenClasses(ctx, "blacklist", 3)
		metrics.RecordHiddenFields(ctx, "blacklist", "Account", 2)
		metrics.RecordPolicyReload(ctx, "whitelist")
	})
}

func TestGatewayMetrics_Record(t *testing.T) {
	t.Parallel()

	reader, mp := newTestMeterProvider(t)
	metrics, err := NewGatewayMetrics(mp)
	require.NoError(t, err)

	ctx := context.Background()
	metrics.RecordOperation(ctx, "describe", 150*time.Millisecond, true)
	metrics.RecordOperation(ctx, "describe", 50*time.Millisecond, false)
	metrics.RecordHiddenClasses(ctx, "blacklist", 2)
	metrics.RecordHiddenClasses(ctx, "blacklist", 0)
	metrics.RecordHiddenFields(ctx, "whitelist", "Contact", 4)
	metrics.RecordPolicyReload(ctx, "chain")

	duration, ok := findMetric(t, reader, "sobject_gateway_operation_duration_seconds")
	require.True(t, ok)
	hist, ok := duration.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 2, "success and failure are separate series")

	classes, ok := findMetric(t, reader, "sobject_gateway_hidden_classes_total")
	require.True(t, ok)
	assert.Equal(t, int64(2), sumInt64(t, classes))

	fields, ok := findMetric(t, reader, "sobject_gateway_hidden_fields_total")
	require.True(t, ok)
	assert.Equal(t, int64(4), sumInt64(t, fields))

	reloads, ok := findMetric(t, reader, "sobject_gateway_policy_reloads_total")
	require.True(t, ok)
	assert.Equal(t, int64(1), sumInt64(t, reloads))
}
