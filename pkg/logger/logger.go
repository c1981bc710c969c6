// Package logger provides a small structured logging interface over slog.
package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// Logger is the logging interface used across the service.
type Logger interface {
	Debug(ctx context.Context, msg string, fields ...Field)
	Info(ctx context.Context, msg string, fields ...Field)
	Warn(ctx context.Context, msg string, fields ...Field)
	Error(ctx context.Context, msg string, fields ...Field)

	Named(name string) Logger
}

// Field is a key-value pair for structured logging.
type Field struct {
	Key   string
	Value any
}

// Field constructors.
func String(key, val string) Field                 { return Field{Key: key, Value: val} }
func Int(key string, val int) Field                { return Field{Key: key, Value: val} }
func Float64(key string, val float64) Field        { return Field{Key: key, Value: val} }
func Duration(key string, val time.Duration) Field { return Field{Key: key, Value: val} }
func Any(key string, val any) Field                { return Field{Key: key, Value: val} }
func Error(err error) Field                        { return Field{Key: "error", Value: err} }

type slogLogger struct {
	l *slog.Logger
}

func (s *slogLogger) Named(name string) Logger {
	return &slogLogger{l: s.l.WithGroup(name)}
}

func (s *slogLogger) Debug(ctx context.Context, msg string, fields ...Field) {
	s.log(ctx, slog.LevelDebug, msg, fields)
}

func (s *slogLogger) Info(ctx context.Context, msg string, fields ...Field) {
	s.log(ctx, slog.LevelInfo, msg, fields)
}

func (s *slogLogger) Warn(ctx context.Context, msg string, fields ...Field) {
	s.log(ctx, slog.LevelWarn, msg, fields)
}

func (s *slogLogger) Error(ctx context.Context, msg string, fields ...Field) {
	s.log(ctx, slog.LevelError, msg, fields)
}

func (s *slogLogger) log(ctx context.Context, level slog.Level, msg string, fields []Field) {
	attrs := make([]slog.Attr, 0, len(fields)+1)
	for _, f := range fields {
		attrs = append(attrs, slog.Any(f.Key, f.Value))
	}
	attrs = append(attrs, slog.String("source", caller()))
	s.l.LogAttrs(ctx, level, msg, attrs...)
}

// caller returns the logging call site as relative/path/file.go:line.
func caller() string {
	// Skip: caller -> log -> level method -> call site.
	_, file, line, ok := runtime.Caller(3)
	if !ok {
		return "unknown:0"
	}
	if cwd, err := os.Getwd(); err == nil {
		if rel, err := filepath.Rel(cwd, file); err == nil {
			return fmt.Sprintf("%s:%d", rel, line)
		}
	}
	return fmt.Sprintf("%s:%d", filepath.Base(file), line)
}

var global Logger
var levelVar slog.LevelVar

// Init initializes the global logger writing text to stdout at info level.
func Init() error {
	levelVar.Set(slog.LevelInfo)
	h := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: &levelVar})
	global = &slogLogger{l: slog.New(h)}
	return nil
}

// Get returns the global logger. It panics when Init has not been called;
// implicit initialization would hide configuration mistakes.
func Get() Logger {
	if global == nil {
		panic("logger not initialized; call logger.Init first")
	}
	return global
}

// Named returns a named child of the global logger.
func Named(name string) Logger {
	return Get().Named(name)
}

// SetLevel updates the level of the global handler.
func SetLevel(level slog.Level) { levelVar.Set(level) }

// SetLevelString parses and applies a level name.
// Accepts: debug, info, warn/warning, error (case-insensitive).
func SetLevelString(level string) error {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		SetLevel(slog.LevelDebug)
	case "", "info":
		SetLevel(slog.LevelInfo)
	case "warn", "warning":
		SetLevel(slog.LevelWarn)
	case "error":
		SetLevel(slog.LevelError)
	default:
		return fmt.Errorf("unknown log level: %s", level)
	}
	return nil
}
