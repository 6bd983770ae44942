// Package log provides structured logging for the proof engine, built on
// log/slog with a formatting layer that renders one line per record. The
// default logger emits JSON to stderr; NewText gives a human-readable form
// for local runs. Subsystems tag their lines with Module.
package log

import (
	"log/slog"
	"os"
	"sync"
)

// EnvLevel is the environment variable read at startup for the default
// logger's minimum level. Values are parsed by LevelFromString.
const EnvLevel = "SURETY_LOG_LEVEL"

// Logger wraps slog.Logger with module tagging.
type Logger struct {
	sl *slog.Logger
}

// New creates a Logger emitting JSON lines to stderr at the given minimum
// level.
func New(level slog.Level) *Logger {
	return NewWithHandler(NewFormatterHandler(os.Stderr, level, &JSONFormatter{}))
}

// NewWithHandler creates a Logger backed by an arbitrary slog handler.
func NewWithHandler(h slog.Handler) *Logger {
	return &Logger{sl: slog.New(h)}
}

// Module returns a child logger whose lines carry a module attribute.
func (l *Logger) Module(name string) *Logger {
	return &Logger{sl: l.sl.With("module", name)}
}

// With returns a child logger carrying the given attributes on every line.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{sl: l.sl.With(args...)}
}

// Debug logs at DEBUG level.
func (l *Logger) Debug(msg string, args ...any) { l.sl.Debug(msg, args...) }

// Info logs at INFO level.
func (l *Logger) Info(msg string, args ...any) { l.sl.Info(msg, args...) }

// Warn logs at WARN level.
func (l *Logger) Warn(msg string, args ...any) { l.sl.Warn(msg, args...) }

// Error logs at ERROR level.
func (l *Logger) Error(msg string, args ...any) { l.sl.Error(msg, args...) }

var (
	defaultMu     sync.RWMutex
	defaultLogger = New(LevelFromString(os.Getenv(EnvLevel)).Slog())
)

// Default returns the process-wide logger.
func Default() *Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetDefault replaces the process-wide logger.
func SetDefault(l *Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = l
}

// Debug logs at DEBUG level on the default logger.
func Debug(msg string, args ...any) { Default().Debug(msg, args...) }

// Info logs at INFO level on the default logger.
func Info(msg string, args ...any) { Default().Info(msg, args...) }

// Warn logs at WARN level on the default logger.
func Warn(msg string, args ...any) { Default().Warn(msg, args...) }

// Error logs at ERROR level on the default logger.
func Error(msg string, args ...any) { Default().Error(msg, args...) }
