package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName names the tracer used for application spans
const TracerName = "invoice-backend"

// Span attribute keys
var (
	AttrInvoiceID = attribute.Key("invoice.id")
	AttrLayout    = attribute.Key("invoice.layout")
	AttrStrategy  = attribute.Key("export.strategy")
	AttrStage     = attribute.Key("export.stage")
	AttrJobID     = attribute.Key("export.job_id")
	AttrOutcome   = attribute.Key("export.outcome")
	AttrReason    = attribute.Key("export.fallback_reason")
	AttrBytes     = attribute.Key("export.bytes")

	AttrHTTPMethod     = attribute.Key("http.method")
	AttrHTTPRoute      = attribute.Key("http.route")
	AttrHTTPStatusCode = attribute.Key("http.status_code")
)

// StartSpan starts an internal span named name
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(TracerName).Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

// StartServiceSpan starts a span named {service}.{method}
func StartServiceSpan(ctx context.Context, service, method string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return StartSpan(ctx, fmt.Sprintf("%s.%s", service, method), attrs...)
}

// RecordError marks the span failed. A nil error is ignored.
func RecordError(span trace.Span, err error) {
	if span == nil || err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// EndSpan records err, if any, and ends the span
func EndSpan(span trace.Span, err error) {
	if err != nil {
		RecordError(span, err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// StageTimer times one export stage under its own span
type StageTimer struct {
	ctx   context.Context
	span  trace.Span
	stage string
	start time.Time
}

// StartStage opens the span "export.<stage>"
func StartStage(ctx context.Context, stage string, attrs ...attribute.KeyValue) *StageTimer {
	attrs = append(attrs, AttrStage.String(stage))
	ctx, span := StartSpan(ctx, "export."+stage, attrs...)
	return &StageTimer{ctx: ctx, span: span, stage: stage, start: time.Now()}
}

// Context returns the context carrying the stage span
func (s *StageTimer) Context() context.Context {
	return s.ctx
}

// Span returns the stage span
func (s *StageTimer) Span() trace.Span {
	return s.span
}

// End closes the span and returns the elapsed time
func (s *StageTimer) End(err error) time.Duration {
	elapsed := time.Since(s.start)
	EndSpan(s.span, err)
	return elapsed
}

// TraceID returns the active trace ID, or empty
func TraceID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return ""
	}
	return sc.TraceID().String()
}
