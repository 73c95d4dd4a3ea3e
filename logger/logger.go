// Package logger provides a minimal slog-based logging wrapper.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Config describes logger settings.
type Config struct {
	Enabled bool
	Level   string
	Stdout  bool
	File    string
}

var (
	mu   sync.RWMutex
	base = slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg      Config
	logFile  *os.File
	captured io.Writer // non-nil while the TUI owns stdout
)

// Init initializes the logger with the provided config. Relative file
// paths resolve against baseDir.
func Init(c Config, baseDir string) error {
	mu.Lock()
	defer mu.Unlock()

	cfg = c
	if !c.Enabled {
		rebuild()
		return nil
	}

	var initErr error
	if c.File != "" {
		path := expandPath(c.File, baseDir)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("logger: create log dir: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			initErr = fmt.Errorf("logger: open log file: %w", err)
		} else {
			logFile = f
		}
	}

	rebuild()
	return initErr
}

// Intercept replaces stdout output with a custom writer (e.g. the TUI
// log panel). The file writer, if any, is preserved.
func Intercept(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	captured = w
	rebuild()
}

// Restore undoes Intercept and resumes stdout logging.
func Restore() {
	mu.Lock()
	defer mu.Unlock()
	captured = nil
	rebuild()
}

// rebuild reconstructs the slog handler from current state. Must be
// called with mu held.
func rebuild() {
	if !cfg.Enabled {
		base = slog.New(slog.NewTextHandler(io.Discard, nil))
		return
	}

	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var writers []io.Writer
	if captured != nil {
		writers = append(writers, captured)
	} else if cfg.Stdout {
		writers = append(writers, os.Stdout)
	}
	if logFile != nil {
		writers = append(writers, logFile)
	}
	if len(writers) == 0 {
		writers = append(writers, os.Stdout)
	}

	base = slog.New(slog.NewTextHandler(io.MultiWriter(writers...), opts))
}

// Debug logs a debug message.
func Debug(msg string, args ...any) { log(slog.LevelDebug, msg, args...) }

// Info logs an info message.
func Info(msg string, args ...any) { log(slog.LevelInfo, msg, args...) }

// Warn logs a warning message.
func Warn(msg string, args ...any) { log(slog.LevelWarn, msg, args...) }

// Error logs an error message.
func Error(msg string, args ...any) { log(slog.LevelError, msg, args...) }

func log(level slog.Level, msg string, args ...any) {
	mu.RLock()
	l := base
	mu.RUnlock()
	l.Log(nil, level, msg, args...)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func expandPath(path, baseDir string) string {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	if filepath.IsAbs(path) {
		return path
	}
	if baseDir != "" {
		return filepath.Join(baseDir, path)
	}
	return path
}
