package telemetry

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewProfiler_Disabled(t *testing.T) {
	p, err := NewProfiler(ProfilerConfig{}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, p.IsEnabled())
	assert.NoError(t, p.Stop())
	assert.NoError(t, p.Stop())
}

func TestNewProfiler_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ProfilerConfig
		wantErr string
	}{
		{
			name:    "missing server address",
			cfg:     ProfilerConfig{Enabled: true, ApplicationName: "user-service"},
			wantErr: "server address is required",
		},
		{
			name:    "missing application name",
			cfg:     ProfilerConfig{Enabled: true, ServerAddress: "http://localhost:4040"},
			wantErr: "application name is required",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProfiler(tt.cfg, zap.NewNop())
			require.Error(t, err)
			assert.Nil(t, p)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSanitizeLabels(t *testing.T) {
	long := strings.Repeat("x", MaxLabelValueLength+10)

	pairs := sanitizeLabels(map[string]string{
		"Remote-Service": "user-service",
		"request_id":     "b7a1",
		"empty":          "",
		"route":          long,
		"!!":             "dropped",
	})

	assert.Equal(t, []string{
		"remote_service", "user-service",
		"route", long[:MaxLabelValueLength],
	}, pairs)
}

func TestLabelBuilders(t *testing.T) {
	assert.Equal(t, map[string]string{
		"service": "order-service",
		"route":   "/api/orders/:orderId",
		"method":  "GET",
	}, HTTPRequestLabels("order-service", "/api/orders/:orderId", "GET"))

	assert.Equal(t, map[string]string{
		"region":         "remote_lookup",
		"remote_service": "product-service",
	}, RegionLabels("remote_lookup", map[string]string{"remote_service": "product-service"}))
}

func TestWithProfilingLabels_RunsFn(t *testing.T) {
	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "v")

	for _, labels := range []map[string]string{nil, {"region": "remote_lookup"}} {
		called := false
		WithProfilingLabels(ctx, labels, func(inner context.Context) {
			called = true
			assert.Equal(t, "v", inner.Value(key{}))
		})
		assert.True(t, called)
	}
}
