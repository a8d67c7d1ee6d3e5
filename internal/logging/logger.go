// Package logging provides structured logging for arbor.
// It wraps log/slog to emit JSON-formatted log lines to a rotating file
// under the arbor data directory, or to stderr when no directory is set.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// LogFileName is the name of the log file inside the log directory.
const LogFileName = "arbor.log"

// Log levels accepted by NewLogger and ParseLevel.
const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

// Logger provides structured logging with contextual attributes.
// Child loggers created via WithWorktree, WithBranch, WithPhase, or With
// share the parent's output; only the parent (or root) logger owns the
// underlying file and should be closed. Safe for concurrent use.
type Logger struct {
	logger *slog.Logger
	closer io.Closer
}

// NewLogger creates a Logger writing JSON logs to {logDir}/arbor.log with
// the default rotation policy. If logDir is empty, logs go to stderr and
// Close is a no-op.
func NewLogger(logDir string, level string) (*Logger, error) {
	return NewLoggerWithRotation(logDir, level, DefaultRotationConfig())
}

// NewLoggerWithRotation is NewLogger with an explicit rotation policy.
func NewLoggerWithRotation(logDir string, level string, rotation RotationConfig) (*Logger, error) {
	var writer io.Writer
	var closer io.Closer

	if logDir != "" {
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}

		rw, err := NewRotatingWriter(filepath.Join(logDir, LogFileName), rotation)
		if err != nil {
			return nil, err
		}
		writer = rw
		closer = rw
	} else {
		writer = os.Stderr
	}

	handler := slog.NewJSONHandler(writer, &slog.HandlerOptions{
		Level: parseLevel(level),
	})

	return &Logger{
		logger: slog.New(handler),
		closer: closer,
	}, nil
}

// parseLevel converts a string log level to slog.Level.
// Unrecognized strings default to INFO.
func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithWorktree returns a child Logger tagging all entries with the
// worktree path they relate to.
func (l *Logger) WithWorktree(path string) *Logger {
	return l.With("worktree", path)
}

// WithBranch returns a child Logger tagging all entries with a branch name.
func (l *Logger) WithBranch(branch string) *Logger {
	return l.With("branch", branch)
}

// WithPhase returns a child Logger tagging all entries with a phase name,
// such as "scan", "probe", or "watch".
func (l *Logger) WithPhase(phase string) *Logger {
	return l.With("phase", phase)
}

// With returns a child Logger carrying arbitrary key-value attributes.
// Keys and values alternate, as in slog.
func (l *Logger) With(args ...any) *Logger {
	if len(args) == 0 {
		return l
	}
	return &Logger{
		logger: l.logger.With(args...),
		closer: l.closer,
	}
}

// Debug logs a message at DEBUG level with optional key-value pairs.
func (l *Logger) Debug(msg string, args ...any) {
	l.logger.Log(context.Background(), slog.LevelDebug, msg, args...)
}

// Info logs a message at INFO level with optional key-value pairs.
func (l *Logger) Info(msg string, args ...any) {
	l.logger.Log(context.Background(), slog.LevelInfo, msg, args...)
}

// Warn logs a message at WARN level with optional key-value pairs.
func (l *Logger) Warn(msg string, args ...any) {
	l.logger.Log(context.Background(), slog.LevelWarn, msg, args...)
}

// Error logs a message at ERROR level with optional key-value pairs.
func (l *Logger) Error(msg string, args ...any) {
	l.logger.Log(context.Background(), slog.LevelError, msg, args...)
}

// Close flushes and closes the log file. For stderr loggers and child
// loggers returned by the With helpers, Close is a no-op.
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	err := l.closer.Close()
	l.closer = nil
	return err
}

// NopLogger returns a Logger that discards all output.
// Useful for tests and for callers that have logging disabled.
func NopLogger() *Logger {
	return &Logger{
		logger: slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
}

// ParseLevel normalizes a string level to one of the level constants.
// Returns LevelInfo if the string is not recognized.
func ParseLevel(level string) string {
	switch strings.ToUpper(level) {
	case LevelDebug:
		return LevelDebug
	case LevelInfo:
		return LevelInfo
	case LevelWarn:
		return LevelWarn
	case LevelError:
		return LevelError
	default:
		return LevelInfo
	}
}

// ValidLevels returns the accepted log level strings.
func ValidLevels() []string {
	return []string{LevelDebug, LevelInfo, LevelWarn, LevelError}
}
