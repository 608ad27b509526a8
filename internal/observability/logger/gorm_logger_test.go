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

func TestGormLogger_Trace(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewGormLogger(zap.New(core), 50*time.Millisecond)
	query := func() (string, int64) { return `SELECT * FROM "kv_entries" WHERE slot = ?`, 0 }

	l.Trace(ctx, time.Now(), query, gormlogger.ErrRecordNotFound)
	l.Trace(ctx, time.Now(), query, nil)
	assert.Zero(t, logs.Len())

	l.Trace(ctx, time.Now(), query, errors.New("database is locked"))
	l.Trace(ctx, time.Now().Add(-time.Second), query, nil)
	entries := logs.TakeAll()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, "select", entries[0].ContextMap()["statement"])
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)

	l.LogMode(gormlogger.Info).Trace(ctx, time.Now(), query, nil)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zapcore.DebugLevel, logs.All()[0].Level)

	l.LogMode(gormlogger.Silent).Trace(ctx, time.Now(), query, errors.New("boom"))
	assert.Equal(t, 1, logs.Len())
}

func TestGormLogger_ParamsFilterDropsValues(t *testing.T) {
	sql, params := NewGormLogger(nil, 0).ParamsFilter(context.Background(), "UPDATE kv_entries SET value = ?", []byte("snapshot"))
	assert.Equal(t, "UPDATE kv_entries SET value = ?", sql)
	assert.Nil(t, params)
}
