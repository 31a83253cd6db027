package telemetry

import (
	"context"
	"sort"
	"strings"

	"github.com/grafana/pyroscope-go"
)

// MaxLabelValueLength caps profiling label values
const MaxLabelValueLength = 64

// highCardinalityLabels never become profiling labels
var highCardinalityLabels = map[string]bool{
	"invoice_id":     true,
	"invoice_number": true,
	"job_id":         true,
	"request_id":     true,
	"user_id":        true,
	"trace_id":       true,
}

// WithProfilingLabels runs fn with pprof labels attached, so CPU samples
// taken inside fn carry them. Labels are sanitized first.
func WithProfilingLabels(ctx context.Context, labels map[string]string, fn func(context.Context)) {
	pairs := sanitizeLabels(labels)
	if len(pairs) == 0 {
		fn(ctx)
		return
	}
	pyroscope.TagWrapper(ctx, pyroscope.Labels(pairs...), fn)
}

// WithStageLabels labels fn with the export stage, layout and strategy
func WithStageLabels(ctx context.Context, stage, layout, strategy string, fn func(context.Context)) {
	WithProfilingLabels(ctx, map[string]string{
		"stage":    stage,
		"layout":   layout,
		"strategy": strategy,
	}, fn)
}

// sanitizeLabels returns sorted key/value pairs without empty or
// high-cardinality entries
func sanitizeLabels(labels map[string]string) []string {
	if len(labels) == 0 {
		return nil
	}
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(labels)*2)
	for _, k := range keys {
		value := labels[k]
		key := sanitizeLabelKey(k)
		if key == "" || value == "" || highCardinalityLabels[key] {
			continue
		}
		if len(value) > MaxLabelValueLength {
			value = value[:MaxLabelValueLength]
		}
		pairs = append(pairs, key, value)
	}
	return pairs
}

// sanitizeLabelKey lowercases key and keeps only [a-z0-9_]
func sanitizeLabelKey(key string) string {
	key = strings.ToLower(key)
	key = strings.NewReplacer(" ", "_", "-", "_", ".", "_").Replace(key)

	var b strings.Builder
	for _, c := range key {
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '_' {
			b.WriteRune(c)
		}
	}
	return b.String()
}
