/*
Package logger 提供 GORM 到 Zap 的日志适配。

SQL 语句、慢查询和数据库错误都写入名为 "gorm" 的 zap logger，
请求上下文中的 request_id 会一并输出。
*/
package logger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ddd-course/infrastructure/persistence"

	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

// GormLoggerConfig GORM 日志配置
type GormLoggerConfig struct {
	Level                     gormlogger.LogLevel
	SlowThreshold             time.Duration // 0 表示不记录慢查询
	IgnoreRecordNotFoundError bool
}

// GormConfigFor 由应用日志级别和 database.slow_threshold 构造配置。
// 仓储把 record not found 映射为领域的 not found，因此不再记录为错误。
func GormConfigFor(level string, slowThreshold time.Duration) GormLoggerConfig {
	return GormLoggerConfig{
		Level:                     ParseGormLevel(level),
		SlowThreshold:             slowThreshold,
		IgnoreRecordNotFoundError: true,
	}
}

// ParseGormLevel 把应用日志级别映射为 GORM 日志级别
func ParseGormLevel(level string) gormlogger.LogLevel {
	switch level {
	case "debug", "info":
		return gormlogger.Info
	case "warn":
		return gormlogger.Warn
	case "error":
		return gormlogger.Error
	case "silent":
		return gormlogger.Silent
	default:
		return gormlogger.Warn
	}
}

// GormLogger 实现 gormlogger.Interface
type GormLogger struct {
	base   *zap.Logger
	config GormLoggerConfig
}

// NewGormLogger base 为 nil 时使用全局 logger 的 "gorm" 子 logger
func NewGormLogger(base *zap.Logger, config GormLoggerConfig) *GormLogger {
	if base == nil {
		base = Named("gorm")
	}
	return &GormLogger{base: base, config: config}
}

// LogMode 返回新级别的副本，GORM 的 Debug() 会调用它
func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	config := l.config
	config.Level = level
	return &GormLogger{base: l.base, config: config}
}

func (l *GormLogger) forContext(ctx context.Context) *zap.Logger {
	if requestID := persistence.RequestIDFromContext(ctx); requestID != "" {
		return l.base.With(zap.String("request_id", requestID))
	}
	return l.base
}

func (l *GormLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	if l.config.Level >= gormlogger.Info {
		l.forContext(ctx).Info(fmt.Sprintf(msg, args...))
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	if l.config.Level >= gormlogger.Warn {
		l.forContext(ctx).Warn(fmt.Sprintf(msg, args...))
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	if l.config.Level >= gormlogger.Error {
		l.forContext(ctx).Error(fmt.Sprintf(msg, args...))
	}
}

// Trace 记录一条 SQL：错误优先，其次慢查询，最后普通语句
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.config.Level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	switch {
	case err != nil && l.config.Level >= gormlogger.Error:
		if l.config.IgnoreRecordNotFoundError && errors.Is(err, gormlogger.ErrRecordNotFound) {
			return
		}
		sql, rows := fc()
		l.forContext(ctx).Error("SQL failed", sqlFields(sql, rows, elapsed, zap.Error(err))...)
	case l.config.SlowThreshold > 0 && elapsed > l.config.SlowThreshold && l.config.Level >= gormlogger.Warn:
		sql, rows := fc()
		l.forContext(ctx).Warn("Slow SQL", sqlFields(sql, rows, elapsed, zap.Duration("threshold", l.config.SlowThreshold))...)
	case l.config.Level >= gormlogger.Info:
		sql, rows := fc()
		l.forContext(ctx).Info("SQL executed", sqlFields(sql, rows, elapsed)...)
	}
}

func sqlFields(sql string, rows int64, elapsed time.Duration, extra ...zap.Field) []zap.Field {
	return append([]zap.Field{
		zap.String("sql", sql),
		zap.Int64("rows", rows),
		zap.Duration("elapsed", elapsed),
	}, extra...)
}

var _ gormlogger.Interface = (*GormLogger)(nil)
