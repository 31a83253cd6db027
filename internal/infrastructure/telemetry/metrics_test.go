package telemetry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/vikalp/backend/internal/infrastructure/telemetry"
)

func newTestMetrics(t *testing.T) (*telemetry.ExportMetrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := telemetry.NewExportMetrics(mp.Meter("test"))
	require.NoError(t, err)
	return m, reader
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

func TestExportMetrics_RecordExport(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordExport(ctx, "card", "server", telemetry.OutcomeSuccess, 1500*time.Millisecond, 40_000)
	m.RecordExport(ctx, "card", "server", telemetry.OutcomeSuccess, time.Second, 50_000)
	m.RecordExport(ctx, "card", "client", telemetry.OutcomeFailure, time.Second, 0)

	got := collect(t, reader)

	sum, ok := got["invoice_exports_total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	counts := map[string]int64{}
	for _, dp := range sum.DataPoints {
		strategy, _ := dp.Attributes.Value(telemetry.AttrStrategy)
		counts[strategy.AsString()] += dp.Value
	}
	assert.Equal(t, int64(2), counts["server"])
	assert.Equal(t, int64(1), counts["client"])

	size, ok := got["invoice_export_pdf_bytes"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, size.DataPoints, 1, "failed export without bytes records no size")
	assert.Equal(t, uint64(2), size.DataPoints[0].Count)
	assert.Equal(t, telemetry.PDFSizeBuckets, size.DataPoints[0].Bounds)

	duration, ok := got["invoice_export_duration_seconds"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	var total float64
	for _, dp := range duration.DataPoints {
		total += dp.Sum
	}
	assert.InDelta(t, 3.5, total, 0.0001)
}

func TestExportMetrics_RecordFallback(t *testing.T) {
	m, reader := newTestMetrics(t)

	m.RecordFallback(context.Background(), "statutory", "unavailable")

	sum, ok := collect(t, reader)["invoice_export_fallbacks_total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(1), sum.DataPoints[0].Value)
	reason, _ := sum.DataPoints[0].Attributes.Value(telemetry.AttrReason)
	assert.Equal(t, "unavailable", reason.AsString())
}

func TestExportMetrics_RecordStage(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordStage(ctx, "rasterize", 200*time.Millisecond, nil)
	m.RecordStage(ctx, "rasterize", 100*time.Millisecond, errors.New("boom"))

	hist, ok := collect(t, reader)["invoice_export_stage_duration_seconds"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)

	outcomes := map[string]uint64{}
	for _, dp := range hist.DataPoints {
		v, _ := dp.Attributes.Value(telemetry.AttrOutcome)
		outcomes[v.AsString()] += dp.Count
	}
	assert.Equal(t, uint64(1), outcomes[telemetry.OutcomeSuccess])
	assert.Equal(t, uint64(1), outcomes[telemetry.OutcomeFailure])
}

func TestExportMetrics_NilIsNoop(t *testing.T) {
	var m *telemetry.ExportMetrics
	assert.NotPanics(t, func() {
		m.RecordExport(context.Background(), "card", "server", telemetry.OutcomeSuccess, time.Second, 1)
		m.RecordFallback(context.Background(), "card", "timeout")
		m.RecordStage(context.Background(), "assemble", time.Second, nil)
	})
}

func TestNewExportMetrics_GlobalMeter(t *testing.T) {
	m, err := telemetry.NewExportMetrics(nil)
	require.NoError(t, err)
	assert.NotNil(t, m)
}

func TestHistogram_NoBoundaries(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = mp.Shutdown(context.Background()) }()

	h, err := telemetry.NewHistogram(mp.Meter("test"), "plain", "plain histogram", "s", nil)
	require.NoError(t, err)
	h.Record(context.Background(), 0.5, attribute.String("k", "v"))

	hist, ok := collect(t, reader)["plain"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, 0.5, hist.DataPoints[0].Sum)
}
