package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// LevelSuccess sits between info and warn. Confirmed lifecycle transitions
// (alert raised, macro created) are logged at this level and shown in green.
const LevelSuccess = slog.Level(2)

var (
	// Log is the global structured logger
	Log *slog.Logger
	// logWriter is the rotating log file, nil when logging to console only
	logWriter *lumberjack.Logger
	mu        sync.Mutex
)

// Options configure InitLogger.
type Options struct {
	Level   string    // debug, info, warn, error
	File    string    // JSON log file; empty disables file logging
	Console io.Writer // defaults to os.Stderr
}

// ParseLevel maps a config string to a slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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

// InitLogger builds the global logger: a coloured console handler, plus a
// rotating JSON file when opts.File is set.
func InitLogger(opts Options) *slog.Logger {
	mu.Lock()
	defer mu.Unlock()

	level := ParseLevel(opts.Level)
	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	handlers := []slog.Handler{newConsoleHandler(console, level)}

	if logWriter != nil {
		logWriter.Close()
		logWriter = nil
	}
	if opts.File != "" {
		logWriter = &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10, // MB
			MaxBackups: 3,
			MaxAge:     7, // days
			Compress:   true,
		}
		handlers = append(handlers, slog.NewJSONHandler(logWriter, &slog.HandlerOptions{
			Level:       level,
			ReplaceAttr: replaceLevel,
		}))
	}

	if len(handlers) == 1 {
		Log = slog.New(handlers[0])
	} else {
		Log = slog.New(&fanoutHandler{handlers: handlers})
	}
	slog.SetDefault(Log)
	return Log
}

// Close closes the log file
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if logWriter != nil {
		logWriter.Close()
		logWriter = nil
	}
}

func replaceLevel(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.LevelKey {
		if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == LevelSuccess {
			a.Value = slog.StringValue("SUCCESS")
		}
	}
	return a
}

// getLogger returns the global logger, or the default slog logger if not initialized.
func getLogger() *slog.Logger {
	if Log != nil {
		return Log
	}
	return slog.Default()
}

// Debug logs a debug message
func Debug(msg string, args ...any) {
	getLogger().Debug(msg, args...)
}

// Info logs an info message
func Info(msg string, args ...any) {
	getLogger().Info(msg, args...)
}

// Success logs a confirmed state transition
func Success(msg string, args ...any) {
	getLogger().Log(context.Background(), LevelSuccess, msg, args...)
}

// Warn logs a warning message
func Warn(msg string, args ...any) {
	getLogger().Warn(msg, args...)
}

// Error logs an error message
func Error(msg string, err error, args ...any) {
	getLogger().Error(msg, append([]any{"error", err}, args...)...)
}

// With creates a new logger with additional attributes
func With(args ...any) *slog.Logger {
	return getLogger().With(args...)
}

// fanoutHandler sends every record to all handlers that accept its level.
type fanoutHandler struct {
	handlers []slog.Handler
}

func (h *fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, inner := range h.handlers {
		if inner.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *fanoutHandler) Handle(ctx context.Context, r slog.Record) error {
	var firstErr error
	for _, inner := range h.handlers {
		if !inner.Enabled(ctx, r.Level) {
			continue
		}
		if err := inner.Handle(ctx, r.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (h *fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, len(h.handlers))
	for i, inner := range h.handlers {
		next[i] = inner.WithAttrs(attrs)
	}
	return &fanoutHandler{handlers: next}
}

func (h *fanoutHandler) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, len(h.handlers))
	for i, inner := range h.handlers {
		next[i] = inner.WithGroup(name)
	}
	return &fanoutHandler{handlers: next}
}
