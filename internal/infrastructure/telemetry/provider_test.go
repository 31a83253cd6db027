package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/vikalp/backend/internal/infrastructure/config"
)

func TestSetup_Disabled(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	p, err := Setup(context.Background(), config.TelemetryConfig{Enabled: false, ServiceName: "test"}, zap.New(core))
	require.NoError(t, err)

	assert.False(t, p.Enabled())
	assert.NotNil(t, p.Tracer("x"))
	assert.NotNil(t, p.Meter("x"))
	assert.Equal(t, 1, logs.FilterMessage("Telemetry disabled, using no-op providers").Len())

	// propagation is installed regardless
	fields := otel.GetTextMapPropagator().Fields()
	assert.Contains(t, fields, "traceparent")
	assert.Contains(t, fields, "baggage")

	p.EnableSpanProfiles()
	assert.False(t, p.SpanProfilesEnabled())
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestSetup_NilLogger(t *testing.T) {
	p, err := Setup(context.Background(), config.TelemetryConfig{}, nil)
	require.NoError(t, err)
	assert.NotNil(t, p.logger)
}

func TestZapCore_DisabledIsNop(t *testing.T) {
	p, err := Setup(context.Background(), config.TelemetryConfig{}, zap.NewNop())
	require.NoError(t, err)

	core := p.ZapCore(zapcore.InfoLevel)
	assert.False(t, core.Enabled(zapcore.ErrorLevel))
}

func TestLevelFilterCore(t *testing.T) {
	inner, logs := observer.New(zapcore.DebugLevel)
	core := &levelFilterCore{Core: inner, minLevel: zapcore.WarnLevel}

	logger := zap.New(core).With(zap.String("component", "export"))
	logger.Info("dropped")
	logger.Warn("kept")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "kept", entry.Message)
	assert.Equal(t, "export", entry.ContextMap()["component"])
}

func TestSamplerFor(t *testing.T) {
	tests := []struct {
		ratio float64
		want  string
	}{
		{1, sdktrace.ParentBased(sdktrace.AlwaysSample()).Description()},
		{2, sdktrace.ParentBased(sdktrace.AlwaysSample()).Description()},
		{0, sdktrace.ParentBased(sdktrace.NeverSample()).Description()},
		{0.25, sdktrace.ParentBased(sdktrace.TraceIDRatioBased(0.25)).Description()},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, samplerFor(tt.ratio).Description())
	}
}

func TestNewResource(t *testing.T) {
	res, err := newResource("invoice-backend")
	require.NoError(t, err)

	var found bool
	for _, kv := range res.Attributes() {
		if kv.Key == "service.name" {
			found = true
			assert.Equal(t, "invoice-backend", kv.Value.AsString())
		}
	}
	assert.True(t, found)
}

