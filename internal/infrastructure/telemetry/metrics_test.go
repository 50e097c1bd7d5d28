package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/ecommerce/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
)

// newTestMeter returns a meter backed by a manual reader
func newTestMeter(t *testing.T) (*sdkmetric.MeterProvider, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })
	return provider, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func TestNewMeterProvider_Disabled(t *testing.T) {
	mp, err := telemetry.NewMeterProvider(context.Background(), telemetry.MetricsConfig{}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, mp.IsEnabled())
	assert.NotNil(t, mp.Meter("test"))
	assert.NoError(t, mp.Shutdown(context.Background()))
}

func TestCounter(t *testing.T) {
	provider, reader := newTestMeter(t)
	ctx := context.Background()

	c, err := telemetry.NewCounter(provider.Meter("test"), "requests_total", "Total requests", "{request}")
	require.NoError(t, err)

	c.Inc(ctx, telemetry.AttrEntity.String("payment"))
	c.Add(ctx, 4, telemetry.AttrEntity.String("payment"))
	c.Inc(ctx, telemetry.AttrEntity.String("shipping"))

	m, ok := collect(t, reader)["requests_total"]
	require.True(t, ok)
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	assert.True(t, sum.IsMonotonic)

	totals := map[string]int64{}
	for _, dp := range sum.DataPoints {
		entity, _ := dp.Attributes.Value(telemetry.AttrEntity)
		totals[entity.AsString()] = dp.Value
	}
	assert.Equal(t, map[string]int64{"payment": 5, "shipping": 1}, totals)
}

func TestHistogram(t *testing.T) {
	provider, reader := newTestMeter(t)
	ctx := context.Background()

	h, err := telemetry.NewHistogram(provider.Meter("test"), telemetry.HistogramOpts{
		Name:        "request_duration_seconds",
		Description: "Request latency",
		Unit:        "s",
		Boundaries:  telemetry.HTTPDurationBuckets,
	})
	require.NoError(t, err)

	h.Record(ctx, 0.2)
	h.RecordDuration(ctx, 1500*time.Millisecond)

	m, ok := collect(t, reader)["request_duration_seconds"]
	require.True(t, ok)
	hist, ok := m.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)

	dp := hist.DataPoints[0]
	assert.Equal(t, uint64(2), dp.Count)
	assert.InDelta(t, 1.7, dp.Sum, 1e-9)
	assert.Equal(t, telemetry.HTTPDurationBuckets, dp.Bounds)
}
