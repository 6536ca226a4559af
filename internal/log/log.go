// ABOUTME: Leveled logging facade over log/slog with a swappable destination
// ABOUTME: Defaults to stderr; hosts redirect to a file while a TUI owns the terminal

package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

// Level constants matching slog levels.
const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

var (
	level  = new(slog.LevelVar)
	mu     sync.RWMutex
	logger = newLogger(os.Stderr)
)

func newLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// SetLevel sets the global log level.
func SetLevel(l slog.Level) {
	level.Set(l)
}

// GetLevel returns the current log level.
func GetLevel() slog.Level {
	return level.Level()
}

// SetOutput redirects all subsequent log records to w.
func SetOutput(w io.Writer) {
	mu.Lock()
	logger = newLogger(w)
	mu.Unlock()
}

// OpenFile redirects logging to path, appending. The returned closer
// restores stderr output and closes the file.
func OpenFile(path string) (io.Closer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	SetOutput(f)
	return closerFunc(func() error {
		SetOutput(os.Stderr)
		return f.Close()
	}), nil
}

type closerFunc func() error

func (c closerFunc) Close() error { return c() }

func emit(l slog.Level, format string, args []any) {
	if level.Level() > l {
		return
	}
	mu.RLock()
	lg := logger
	mu.RUnlock()
	lg.Log(context.Background(), l, fmt.Sprintf(format, args...))
}

// Debug logs a debug message if the level allows it.
func Debug(format string, args ...any) { emit(LevelDebug, format, args) }

// Info logs an info message if the level allows it.
func Info(format string, args ...any) { emit(LevelInfo, format, args) }

// Warn logs a warning message if the level allows it.
func Warn(format string, args ...any) { emit(LevelWarn, format, args) }

// Error logs an error message.
func Error(format string, args ...any) { emit(LevelError, format, args) }
