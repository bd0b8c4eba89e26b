package logging

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is this module's structured logging interface. It mirrors zap's SugaredLogger surface
// (unleveled, leveled-with-template, and leveled-with-keys-and-values variants for each
// severity) and adds two things zap does not have out of the box: a per-severity context-aware
// "C"-prefixed variant that also logs when the call's context has been put into debug mode via
// EnableDebugMode, and Sublogger, which derives a dotted child logger (e.g.
// "pipeline.rectify") that shares its parent's appenders but can have its own level.
type Logger interface {
	AsZap() *zap.SugaredLogger
	Desugar() *zap.Logger
	Level() zapcore.Level
	SetLevel(level Level)
	GetLevel() Level
	Sublogger(subname string) Logger
	Named(name string) *zap.SugaredLogger
	Sync() error
	With(args ...interface{}) *zap.SugaredLogger
	WithOptions(opts ...zap.Option) *zap.SugaredLogger

	Debug(args ...interface{})
	CDebug(ctx context.Context, args ...interface{})
	Debugf(template string, args ...interface{})
	CDebugf(ctx context.Context, template string, args ...interface{})
	Debugw(msg string, keysAndValues ...interface{})
	CDebugw(ctx context.Context, msg string, keysAndValues ...interface{})

	Info(args ...interface{})
	CInfo(ctx context.Context, args ...interface{})
	Infof(template string, args ...interface{})
	CInfof(ctx context.Context, template string, args ...interface{})
	Infow(msg string, keysAndValues ...interface{})
	CInfow(ctx context.Context, msg string, keysAndValues ...interface{})

	Warn(args ...interface{})
	CWarn(ctx context.Context, args ...interface{})
	Warnf(template string, args ...interface{})
	CWarnf(ctx context.Context, template string, args ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
	CWarnw(ctx context.Context, msg string, keysAndValues ...interface{})

	Error(args ...interface{})
	CError(ctx context.Context, args ...interface{})
	Errorf(template string, args ...interface{})
	CErrorf(ctx context.Context, template string, args ...interface{})
	Errorw(msg string, keysAndValues ...interface{})
	CErrorw(ctx context.Context, msg string, keysAndValues ...interface{})

	Fatal(args ...interface{})
	Fatalf(template string, args ...interface{})
	Fatalw(msg string, keysAndValues ...interface{})

	AddAppender(appender Appender)
}
