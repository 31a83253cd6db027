package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MeterName names the meter used for application instruments
const MeterName = "invoice-backend"

// Bucket boundaries, in seconds and bytes
var (
	ExportDurationBuckets = []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 30, 60}
	StageDurationBuckets  = []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}
	PDFSizeBuckets        = []float64{16 << 10, 64 << 10, 256 << 10, 1 << 20, 4 << 20, 16 << 20}
	HTTPDurationBuckets   = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}
	HTTPSizeBuckets       = []float64{100, 1000, 10000, 100000, 1 << 20, 5 << 20}
)

// Export outcomes
const (
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeConflict = "conflict"
)

// Counter wraps an Int64Counter
type Counter struct {
	counter metric.Int64Counter
}

// NewCounter creates a counter
func NewCounter(meter metric.Meter, name, description, unit string) (*Counter, error) {
	c, err := meter.Int64Counter(name, metric.WithDescription(description), metric.WithUnit(unit))
	if err != nil {
		return nil, fmt.Errorf("failed to create counter %s: %w", name, err)
	}
	return &Counter{counter: c}, nil
}

// Inc adds one
func (c *Counter) Inc(ctx context.Context, attrs ...attribute.KeyValue) {
	c.counter.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// Histogram wraps a Float64Histogram
type Histogram struct {
	histogram metric.Float64Histogram
}

// NewHistogram creates a histogram with explicit bucket boundaries
func NewHistogram(meter metric.Meter, name, description, unit string, boundaries []float64) (*Histogram, error) {
	opts := []metric.Float64HistogramOption{
		metric.WithDescription(description),
		metric.WithUnit(unit),
	}
	if len(boundaries) > 0 {
		opts = append(opts, metric.WithExplicitBucketBoundaries(boundaries...))
	}
	h, err := meter.Float64Histogram(name, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create histogram %s: %w", name, err)
	}
	return &Histogram{histogram: h}, nil
}

// Record records value
func (h *Histogram) Record(ctx context.Context, value float64, attrs ...attribute.KeyValue) {
	h.histogram.Record(ctx, value, metric.WithAttributes(attrs...))
}

// RecordDuration records d in seconds
func (h *Histogram) RecordDuration(ctx context.Context, d time.Duration, attrs ...attribute.KeyValue) {
	h.Record(ctx, d.Seconds(), attrs...)
}

// ExportMetrics are the instruments of the PDF export pipeline
type ExportMetrics struct {
	exports   *Counter
	fallbacks *Counter
	duration  *Histogram
	stages    *Histogram
	size      *Histogram
}

// NewExportMetrics creates the export instruments on meter. A nil meter uses the global provider.
func NewExportMetrics(meter metric.Meter) (*ExportMetrics, error) {
	if meter == nil {
		meter = otel.GetMeterProvider().Meter(MeterName)
	}

	exports, err := NewCounter(meter, "invoice_exports_total", "PDF exports by strategy and outcome", "{export}")
	if err != nil {
		return nil, err
	}
	fallbacks, err := NewCounter(meter, "invoice_export_fallbacks_total", "Exports that fell back to client rasterization", "{export}")
	if err != nil {
		return nil, err
	}
	duration, err := NewHistogram(meter, "invoice_export_duration_seconds", "End-to-end export latency", "s", ExportDurationBuckets)
	if err != nil {
		return nil, err
	}
	stages, err := NewHistogram(meter, "invoice_export_stage_duration_seconds", "Latency of each export stage", "s", StageDurationBuckets)
	if err != nil {
		return nil, err
	}
	size, err := NewHistogram(meter, "invoice_export_pdf_bytes", "Size of produced PDFs", "By", PDFSizeBuckets)
	if err != nil {
		return nil, err
	}

	return &ExportMetrics{
		exports:   exports,
		fallbacks: fallbacks,
		duration:  duration,
		stages:    stages,
		size:      size,
	}, nil
}

// RecordExport records one finished export. size is ignored unless positive.
func (m *ExportMetrics) RecordExport(ctx context.Context, layout, strategy, outcome string, d time.Duration, size int) {
	if m == nil {
		return
	}
	attrs := []attribute.KeyValue{AttrLayout.String(layout), AttrStrategy.String(strategy), AttrOutcome.String(outcome)}
	m.exports.Inc(ctx, attrs...)
	m.duration.RecordDuration(ctx, d, attrs...)
	if size > 0 {
		m.size.Record(ctx, float64(size), AttrLayout.String(layout), AttrStrategy.String(strategy))
	}
}

// RecordFallback records a switch from server to client rendering
func (m *ExportMetrics) RecordFallback(ctx context.Context, layout, reason string) {
	if m == nil {
		return
	}
	m.fallbacks.Inc(ctx, AttrLayout.String(layout), AttrReason.String(reason))
}

// RecordStage records the latency of one stage
func (m *ExportMetrics) RecordStage(ctx context.Context, stage string, d time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	m.stages.RecordDuration(ctx, d, AttrStage.String(stage), AttrOutcome.String(outcome))
}
