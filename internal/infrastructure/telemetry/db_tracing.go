package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/vikalp/backend/internal/infrastructure/config"
)

// DBTracingConfig controls database spans
type DBTracingConfig struct {
	Enabled       bool
	LogFullSQL    bool // include bound values in span statements
	SlowThreshold time.Duration
	DBSystem      string // postgresql or sqlite
}

// DBTracingConfigFrom derives the database tracing settings
func DBTracingConfigFrom(tel config.TelemetryConfig, db config.DatabaseConfig) DBTracingConfig {
	system := "sqlite"
	if db.Driver == "postgres" {
		system = "postgresql"
	}
	return DBTracingConfig{
		Enabled:       tel.Enabled && tel.DBTraceEnabled,
		LogFullSQL:    tel.DBLogFullSQL,
		SlowThreshold: 200 * time.Millisecond,
		DBSystem:      system,
	}
}

// DBTracingPlugin is a gorm.Plugin that installs otelgorm and marks slow statements.
// Register it with persistence.WithPlugin.
type DBTracingPlugin struct {
	cfg    DBTracingConfig
	logger *zap.Logger
}

// NewDBTracingPlugin returns the plugin, or nil when database tracing is disabled
func NewDBTracingPlugin(cfg DBTracingConfig, logger *zap.Logger) *DBTracingPlugin {
	if !cfg.Enabled {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SlowThreshold <= 0 {
		cfg.SlowThreshold = 200 * time.Millisecond
	}
	return &DBTracingPlugin{cfg: cfg, logger: logger}
}

// Name implements gorm.Plugin
func (p *DBTracingPlugin) Name() string {
	return "invoice:db_tracing"
}

// Initialize implements gorm.Plugin
func (p *DBTracingPlugin) Initialize(db *gorm.DB) error {
	opts := []otelgorm.Option{otelgorm.WithDBName(p.cfg.DBSystem)}
	if !p.cfg.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	// The after hooks run ahead of otelgorm's, which ends the span
	cb := db.Callback()
	registrations := []func() error{
		func() error { return cb.Create().Before("gorm:create").Register("invoice_timing:before_create", p.before) },
		func() error { return cb.Query().Before("gorm:query").Register("invoice_timing:before_query", p.before) },
		func() error { return cb.Update().Before("gorm:update").Register("invoice_timing:before_update", p.before) },
		func() error { return cb.Delete().Before("gorm:delete").Register("invoice_timing:before_delete", p.before) },
		func() error { return cb.Row().Before("gorm:row").Register("invoice_timing:before_row", p.before) },
		func() error { return cb.Raw().Before("gorm:raw").Register("invoice_timing:before_raw", p.before) },
		func() error {
			return cb.Create().After("gorm:create").Before("otel:after:create").Register("invoice_timing:after_create", p.after)
		},
		func() error {
			return cb.Query().After("gorm:query").Before("otel:after:query").Register("invoice_timing:after_query", p.after)
		},
		func() error {
			return cb.Update().After("gorm:update").Before("otel:after:update").Register("invoice_timing:after_update", p.after)
		},
		func() error {
			return cb.Delete().After("gorm:delete").Before("otel:after:delete").Register("invoice_timing:after_delete", p.after)
		},
		func() error {
			return cb.Row().After("gorm:row").Before("otel:after:row").Register("invoice_timing:after_row", p.after)
		},
		func() error {
			return cb.Raw().After("gorm:raw").Before("otel:after:raw").Register("invoice_timing:after_raw", p.after)
		},
	}
	for _, register := range registrations {
		if err := register(); err != nil {
			return err
		}
	}

	p.logger.Info("Database tracing enabled",
		zap.String("db_system", p.cfg.DBSystem),
		zap.Bool("log_full_sql", p.cfg.LogFullSQL),
		zap.Duration("slow_threshold", p.cfg.SlowThreshold))
	return nil
}

type queryStartKey struct{}

func (p *DBTracingPlugin) before(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartKey{}, time.Now())
	}
}

func (p *DBTracingPlugin) after(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}
	span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		RecordError(span, db.Error)
	}

	start, ok := ctx.Value(queryStartKey{}).(time.Time)
	if !ok {
		return
	}
	if elapsed := time.Since(start); elapsed > p.cfg.SlowThreshold {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
	}
}

var _ gorm.Plugin = (*DBTracingPlugin)(nil)
