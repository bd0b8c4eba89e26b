package logging

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/atomic"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level represents the severity of a log line. DEBUG is the lowest severity, ERROR the highest.
type Level int8

const (
	// DEBUG level.
	DEBUG Level = iota - 1
	// INFO level.
	INFO
	// WARN level.
	WARN
	// ERROR level.
	ERROR
)

// String returns the lowercase name of the level.
func (level Level) String() string {
	switch level {
	case DEBUG:
		return "debug"
	case INFO:
		return "info"
	case WARN:
		return "warn"
	case ERROR:
		return "error"
	default:
		return fmt.Sprintf("level(%d)", int8(level))
	}
}

// AsZap converts a Level to its zapcore.Level equivalent.
func (level Level) AsZap() zapcore.Level {
	switch level {
	case DEBUG:
		return zapcore.DebugLevel
	case INFO:
		return zapcore.InfoLevel
	case WARN:
		return zapcore.WarnLevel
	case ERROR:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// LevelFromString parses a case-insensitive level name ("debug", "info", "warn"/"warning",
// "error") into a Level.
func LevelFromString(levelStr string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return DEBUG, nil
	case "info":
		return INFO, nil
	case "warn", "warning":
		return WARN, nil
	case "error":
		return ERROR, nil
	default:
		return INFO, fmt.Errorf("unknown log level %q", levelStr)
	}
}

// AtomicLevel is a Level that can be read and mutated concurrently without external locking.
type AtomicLevel struct {
	v atomic.Int32
}

// NewAtomicLevelAt constructs an AtomicLevel initialized to level.
func NewAtomicLevelAt(level Level) AtomicLevel {
	var al AtomicLevel
	al.v.Store(int32(level))
	return al
}

// Get returns the current level.
func (al *AtomicLevel) Get() Level {
	return Level(al.v.Load())
}

// Set updates the current level.
func (al *AtomicLevel) Set(level Level) {
	al.v.Store(int32(level))
}

// GlobalLogLevel is shared by every logger constructed via NewZapLoggerConfig so that flipping
// it (e.g. from a debug flag) affects all of them at once, independent of any individual
// logger's own AtomicLevel.
var GlobalLogLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)

// Appender is anything that can receive a formatted log entry, such as stdout, a test harness,
// or an in-memory observer used by tests.
type Appender interface {
	Write(zapcore.Entry, []zapcore.Field) error
	Sync() error
}

type writerAppender struct {
	encoder zapcore.Encoder
	ws      zapcore.WriteSyncer
}

// NewStdoutAppender returns an Appender that writes console-formatted lines to stdout in the
// same encoding NewZapLoggerConfig uses.
func NewStdoutAppender() Appender {
	return &writerAppender{
		encoder: zapcore.NewConsoleEncoder(consoleEncoderConfig()),
		ws:      zapcore.Lock(zapcore.AddSync(os.Stdout)),
	}
}

// NewStdoutTestAppender is like NewStdoutAppender but uses local time, which is friendlier when
// reading test output interactively.
func NewStdoutTestAppender() Appender {
	cfg := consoleEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout(DefaultTimeFormatStr)
	return &writerAppender{
		encoder: zapcore.NewConsoleEncoder(cfg),
		ws:      zapcore.Lock(zapcore.AddSync(os.Stdout)),
	}
}

func (wa *writerAppender) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	buf, err := wa.encoder.EncodeEntry(entry, fields)
	if err != nil {
		return err
	}
	_, err = wa.ws.Write(buf.Bytes())
	buf.Free()
	return err
}

func (wa *writerAppender) Sync() error {
	return wa.ws.Sync()
}

// DefaultTimeFormatStr is used by test appenders and by NewStdoutTestAppender so that log lines
// emitted during a test run use local time rather than UTC.
const DefaultTimeFormatStr = "2006-01-02T15:04:05.000-0700"

func callerToString(caller *zapcore.EntryCaller) string {
	if caller == nil || !caller.Defined {
		return ""
	}
	return caller.TrimmedPath()
}

func consoleEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalColorLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}
