package logging

import (
	"context"
	"io"
	"sort"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level represents log severity
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

// Fields represents structured log fields
type Fields map[string]interface{}

// Logger defines the interface for logging.
// The engine, the scanner and the CLI only depend on this interface.
type Logger interface {
	// Debug logs a debug message
	Debug(ctx context.Context, msg string, fields Fields)

	// Info logs an info message
	Info(ctx context.Context, msg string, fields Fields)

	// Warn logs a warning message
	Warn(ctx context.Context, msg string, fields Fields)

	// Error logs an error message
	Error(ctx context.Context, msg string, err error, fields Fields)

	// WithFields returns a logger with additional fields
	WithFields(fields Fields) Logger

	// Close flushes and closes the logger
	Close() error
}

// ZapLogger implements Logger on top of a zap.Logger
type ZapLogger struct {
	z      *zap.Logger
	closer io.Closer
}

// NewZapLogger wraps an existing zap logger
func NewZapLogger(z *zap.Logger) *ZapLogger {
	return &ZapLogger{z: z}
}

// NewNullLogger creates a logger that discards all output
func NewNullLogger() *ZapLogger {
	return &ZapLogger{z: zap.NewNop()}
}

// Debug logs a debug message
func (l *ZapLogger) Debug(ctx context.Context, msg string, fields Fields) {
	l.z.Debug(msg, toZapFields(fields)...)
}

// Info logs an info message
func (l *ZapLogger) Info(ctx context.Context, msg string, fields Fields) {
	l.z.Info(msg, toZapFields(fields)...)
}

// Warn logs a warning message
func (l *ZapLogger) Warn(ctx context.Context, msg string, fields Fields) {
	l.z.Warn(msg, toZapFields(fields)...)
}

// Error logs an error message
func (l *ZapLogger) Error(ctx context.Context, msg string, err error, fields Fields) {
	l.z.Error(msg, append(toZapFields(fields), zap.Error(err))...)
}

// WithFields returns a logger with additional fields
func (l *ZapLogger) WithFields(fields Fields) Logger {
	return &ZapLogger{
		z:      l.z.With(toZapFields(fields)...),
		closer: l.closer,
	}
}

// Close flushes buffered entries and releases the underlying writer
func (l *ZapLogger) Close() error {
	_ = l.z.Sync()
	if l.closer != nil {
		return l.closer.Close()
	}
	return nil
}

// toZapFields converts fields in key order so output is stable
func toZapFields(fields Fields) []zap.Field {
	if len(fields) == 0 {
		return nil
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]zap.Field, 0, len(keys))
	for _, k := range keys {
		out = append(out, zap.Any(k, fields[k]))
	}
	return out
}

func (l Level) zapLevel() zapcore.Level {
	switch l {
	case DebugLevel:
		return zapcore.DebugLevel
	case WarnLevel:
		return zapcore.WarnLevel
	case ErrorLevel:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// levelString returns the string representation of a log level
func levelString(level Level) string {
	switch level {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel parses a log level string
func ParseLevel(s string) Level {
	switch s {
	case "debug", "DEBUG":
		return DebugLevel
	case "info", "INFO":
		return InfoLevel
	case "warn", "WARN", "warning", "WARNING":
		return WarnLevel
	case "error", "ERROR":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// LevelString returns level as string (exported version)
func LevelString(level Level) string {
	return levelString(level)
}
