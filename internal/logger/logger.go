// Package logger provides structured logging for the collector service.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger provides structured logging functionality.
type Logger struct {
	internal *slog.Logger
}

// New creates a logger writing to stderr at the given level.
func New(level string) *Logger {
	return NewWithWriter(level, os.Stderr)
}

// NewWithWriter creates a logger writing to the given writer, mainly for tests.
func NewWithWriter(level string, w io.Writer) *Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	return &Logger{internal: slog.New(slog.NewTextHandler(w, opts))}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Debug logs a debug level message.
func (l *Logger) Debug(msg string, args ...any) {
	l.internal.Debug(msg, args...)
}

// Info logs an info level message.
func (l *Logger) Info(msg string, args ...any) {
	l.internal.Info(msg, args...)
}

// Warn logs a warning level message.
func (l *Logger) Warn(msg string, args ...any) {
	l.internal.Warn(msg, args...)
}

// Error logs an error level message.
func (l *Logger) Error(msg string, args ...any) {
	l.internal.Error(msg, args...)
}

// With creates a child logger with the given attributes.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{internal: l.internal.With(args...)}
}
