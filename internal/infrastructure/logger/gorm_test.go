package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func sqlFunc(sql string, rows int64) func() (string, int64) {
	return func() (string, int64) { return sql, rows }
}

func TestNewGormLogger(t *testing.T) {
	gl := NewGormLogger(nil, gormlogger.Warn, WithSlowThreshold(time.Second), WithFullSQL(true))
	assert.Equal(t, gormlogger.Warn, gl.logLevel)
	assert.Equal(t, time.Second, gl.slowThreshold)
	assert.True(t, gl.fullSQL)
}

func TestGormLogger_LogMode(t *testing.T) {
	gl := NewGormLogger(zap.NewNop(), gormlogger.Info)
	changed := gl.LogMode(gormlogger.Silent)

	assert.Equal(t, gormlogger.Info, gl.logLevel)
	assert.Equal(t, gormlogger.Silent, changed.(*GormLogger).logLevel)
}

func TestGormLogger_Trace(t *testing.T) {
	ctx := context.Background()

	t.Run("errors are logged", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		gl := NewGormLogger(zap.New(core), gormlogger.Warn)

		gl.Trace(ctx, time.Now(), sqlFunc("INSERT INTO export_jobs", 0), errors.New("disk full"))
		entry := findEntry(t, recorded, "SQL error")
		assert.Equal(t, zapcore.ErrorLevel, entry.Level)
		assert.Equal(t, "disk full", entry.ContextMap()["error"])
	})

	t.Run("record not found is ignored", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		gl := NewGormLogger(zap.New(core), gormlogger.Info)

		gl.Trace(ctx, time.Now(), sqlFunc("SELECT", 0), gormlogger.ErrRecordNotFound)
		assert.Empty(t, recorded.FilterMessage("SQL error").All())
	})

	t.Run("slow statements warn", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		gl := NewGormLogger(zap.New(core), gormlogger.Warn, WithSlowThreshold(time.Millisecond))

		gl.Trace(ctx, time.Now().Add(-time.Second), sqlFunc("SELECT * FROM export_jobs", 3), nil)
		entry := findEntry(t, recorded, "Slow SQL")
		assert.Equal(t, zapcore.WarnLevel, entry.Level)
		assert.Equal(t, int64(3), entry.ContextMap()["rows"])
	})

	t.Run("info level logs every statement at debug", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		gl := NewGormLogger(zap.New(core), gormlogger.Info, WithSlowThreshold(0))

		gl.Trace(ctx, time.Now(), sqlFunc("SELECT 1", 1), nil)
		assert.Equal(t, zapcore.DebugLevel, findEntry(t, recorded, "SQL").Level)
	})

	t.Run("silent logs nothing", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		gl := NewGormLogger(zap.New(core), gormlogger.Silent)

		gl.Trace(ctx, time.Now(), func() (string, int64) {
			t.Fatal("sql must not be evaluated")
			return "", 0
		}, errors.New("ignored"))
		assert.Zero(t, recorded.Len())
	})

	t.Run("uses the request logger from the context", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		reqCtx, _ := WithRequestID(context.Background(), zap.New(core), "req-5")
		gl := NewGormLogger(zap.NewNop(), gormlogger.Error)

		gl.Trace(reqCtx, time.Now(), sqlFunc("UPDATE export_jobs", 1), errors.New("locked"))
		entry := findEntry(t, recorded, "SQL error")
		assert.Equal(t, "req-5", entry.ContextMap()["request_id"])
	})
}

func TestGormLogger_ParamsFilter(t *testing.T) {
	gl := NewGormLogger(zap.NewNop(), gormlogger.Info)
	sql, params := gl.ParamsFilter(context.Background(), "SELECT * FROM export_jobs WHERE invoice_id = ?", "inv1")
	assert.Contains(t, sql, "invoice_id = ?")
	assert.Nil(t, params)

	full := NewGormLogger(zap.NewNop(), gormlogger.Info, WithFullSQL(true))
	_, params = full.ParamsFilter(context.Background(), "SELECT ?", "inv1")
	require.Len(t, params, 1)
	assert.Equal(t, "inv1", params[0])
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, MapGormLogLevel("silent"))
	assert.Equal(t, gormlogger.Error, MapGormLogLevel("error"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("warn"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("unknown"))
}
