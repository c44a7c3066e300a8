package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"reflect"
	"strings"
)

// Logger takes printf-style messages at four levels. Handlers, the dev
// server and the CLI all log through it.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

type discard struct{}

func (discard) Debug(string, ...any) {}
func (discard) Info(string, ...any)  {}
func (discard) Warn(string, ...any)  {}
func (discard) Error(string, ...any) {}

// Nop is the Logger used when a component is built without one.
func Nop() Logger {
	return discard{}
}

// OrNop lets constructors accept an optional Logger: a nil interface or a
// typed nil pointer becomes Nop.
func OrNop(logger Logger) Logger {
	if isNil(logger) {
		return Nop()
	}
	return logger
}

func isNil(logger Logger) bool {
	if logger == nil {
		return true
	}
	v := reflect.ValueOf(logger)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// Config selects the slog handler behind a Logger.
type Config struct {
	Level  string
	Format string
	Output io.Writer
}

type slogLogger struct {
	base *slog.Logger
}

// New builds a Logger on top of log/slog.
func New(cfg Config) Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}
	return &slogLogger{base: slog.New(handler)}
}

// WithComponent scopes logger output with a component attribute. Loggers not
// created by New are returned unchanged.
func WithComponent(logger Logger, component string) Logger {
	if l, ok := logger.(*slogLogger); ok && l != nil {
		return &slogLogger{base: l.base.With("component", component)}
	}
	return OrNop(logger)
}

// ParseLevel maps a config string to a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

func (l *slogLogger) Debug(format string, args ...any) {
	l.base.Debug(fmt.Sprintf(format, args...))
}

func (l *slogLogger) Info(format string, args ...any) {
	l.base.Info(fmt.Sprintf(format, args...))
}

func (l *slogLogger) Warn(format string, args ...any) {
	l.base.Warn(fmt.Sprintf(format, args...))
}

func (l *slogLogger) Error(format string, args ...any) {
	l.base.Error(fmt.Sprintf(format, args...))
}
