package logger

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/smallbiznis/smh/pkg/log/ctxlogger"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

// DefaultSlowQuery is the duration above which a KV statement is logged at warn.
const DefaultSlowQuery = 200 * time.Millisecond

// GormLogger routes gorm output for the SQL KV backend through zap. A missing
// slot is a normal read miss and is never logged as an error. Bound values are
// snapshot blobs and are left out of the log.
type GormLogger struct {
	base  *zap.Logger
	level gormlogger.LogLevel
	slow  time.Duration
}

func NewGormLogger(base *zap.Logger, slow time.Duration) *GormLogger {
	if base == nil {
		base = zap.NewNop()
	}
	return &GormLogger{base: base.Named("gorm"), level: gormlogger.Warn, slow: slow}
}

func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	next := *l
	next.level = level
	return &next
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Info {
		ctxlogger.WithContext(ctx, l.base).Info(msg, zap.Any("data", data))
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Warn {
		ctxlogger.WithContext(ctx, l.base).Warn(msg, zap.Any("data", data))
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Error {
		ctxlogger.WithContext(ctx, l.base).Error(msg, zap.Any("data", data))
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	miss := errors.Is(err, gormlogger.ErrRecordNotFound)
	slow := l.slow > 0 && elapsed > l.slow

	if !(err != nil && !miss) && !slow && l.level < gormlogger.Info {
		return
	}

	sql, rows := fc()
	log := ctxlogger.WithContext(ctx, l.base).With(
		zap.String("statement", statementKind(sql)),
		zap.Int64("rows", rows),
		zap.Duration("elapsed", elapsed),
	)
	switch {
	case err != nil && !miss:
		log.Error("kv statement failed", zap.String("sql", sql), zap.Error(err))
	case slow:
		log.Warn("slow kv statement", zap.String("sql", sql))
	default:
		log.Debug("kv statement", zap.String("sql", sql))
	}
}

// ParamsFilter drops bound values so snapshots stay out of the SQL text.
func (l *GormLogger) ParamsFilter(_ context.Context, sql string, _ ...any) (string, []any) {
	return sql, nil
}

func statementKind(sql string) string {
	fields := strings.Fields(strings.TrimSpace(sql))
	if len(fields) == 0 {
		return "unknown"
	}
	return strings.ToLower(fields[0])
}

var _ gormlogger.Interface = (*GormLogger)(nil)
