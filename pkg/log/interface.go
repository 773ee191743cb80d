// Package log provides the structured logging interface used across bartgo.
//
// The Logger interface mirrors log/slog's key/value calling convention so
// that call sites stay backend agnostic. The default backend is zerolog,
// configured through SetupLogger; tests use TestLogger to capture output.
//
// Example usage:
//
//	logger := log.GetLoggerWithName("bart").With(
//	    log.ModelNameKey, "BART",
//	    log.RandomSeedKey, 42,
//	)
//	logger.Info("sampling started",
//	    log.SamplesKey, 200,
//	    log.FeaturesKey, 3,
//	)
package log

import (
	"context"
)

// Logger is a structured, leveled logger. Fields are alternating key/value
// pairs. Error additionally accepts a lone error as its first field.
type Logger interface {
	Debug(msg string, fields ...any)
	Info(msg string, fields ...any)
	Warn(msg string, fields ...any)

	// Error logs at error level. If the first field is an error without a
	// key it is logged under "error" together with its stacktrace.
	//
	//	logger.Error("fit failed", err, log.OperationKey, log.OperationFit)
	Error(msg string, fields ...any)

	// With returns a Logger that adds fields to every record.
	With(fields ...any) Logger

	// Enabled reports whether records at level would be emitted, so callers
	// can skip building expensive fields such as per-tree summaries.
	Enabled(ctx context.Context, level Level) bool
}

// Level represents a logging level, compatible with slog.Level.
type Level int

// Standard logging levels, values are compatible with slog.Level.
const (
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// LoggerProvider creates loggers sharing one configuration.
type LoggerProvider interface {
	GetLogger() Logger
	GetLoggerWithName(name string) Logger
	SetLevel(level Level)
}
