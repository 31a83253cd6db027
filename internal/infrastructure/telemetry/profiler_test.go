package telemetry

import (
	"testing"

	"github.com/grafana/pyroscope-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/vikalp/backend/internal/infrastructure/config"
)

func TestProfilerConfigFrom(t *testing.T) {
	cfg := ProfilerConfigFrom(config.TelemetryConfig{
		ProfilingEnabled: true,
		ProfilingServer:  "http://pyroscope:4040",
		ServiceName:      "invoice-backend",
	})
	assert.True(t, cfg.Enabled)
	assert.Equal(t, "http://pyroscope:4040", cfg.ServerAddress)
	assert.Equal(t, "invoice-backend", cfg.ApplicationName)
	assert.True(t, cfg.ProfileCPU)
	assert.False(t, cfg.ProfileMutex)
}

func TestNewProfiler_Disabled(t *testing.T) {
	p, err := NewProfiler(ProfilerConfig{Enabled: false}, nil)
	require.NoError(t, err)
	assert.False(t, p.IsEnabled())
	assert.NoError(t, p.Stop())
	assert.NoError(t, p.Stop())
}

func TestNewProfiler_Validation(t *testing.T) {
	_, err := NewProfiler(ProfilerConfig{Enabled: true, ApplicationName: "app"}, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server address")

	_, err = NewProfiler(ProfilerConfig{Enabled: true, ServerAddress: "http://localhost:4040"}, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "application name")
}

func TestProfiler_ProfileTypes(t *testing.T) {
	p := &Profiler{config: ProfilerConfig{ProfileCPU: true, ProfileAlloc: true, ProfileMutex: true}}
	assert.Equal(t, []pyroscope.ProfileType{
		pyroscope.ProfileCPU,
		pyroscope.ProfileAllocObjects,
		pyroscope.ProfileAllocSpace,
		pyroscope.ProfileMutexCount,
		pyroscope.ProfileMutexDuration,
	}, p.profileTypes())

	assert.Empty(t, (&Profiler{}).profileTypes())
}

func TestPyroscopeLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := newPyroscopeLogger(zap.New(core))

	l.Infof("uploaded %d profiles", 3)
	l.Errorf("upload failed: %s", "timeout")

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "uploaded 3 profiles", logs.All()[0].Message)
	assert.Equal(t, "pyroscope", logs.All()[0].LoggerName)
	assert.Equal(t, zapcore.ErrorLevel, logs.All()[1].Level)
}
