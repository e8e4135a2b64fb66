// Package log provides the process-wide slog logger.
//
// Configuration comes from Options or the environment:
//   - LRCF_LOG_LEVEL=debug|info|warn|error
//   - LRCF_LOG_FORMAT=console|json
//   - LRCF_LOG_FILE=<path> (adds a rotating JSON file)
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls logger initialization
type Options struct {
	Level  string
	Format string // "console" or "json"
	File   string
	Output io.Writer // Console destination, os.Stderr when nil
}

var (
	mu      sync.RWMutex
	current *slog.Logger
	rotator *lumberjack.Logger
)

// L returns the process logger, initializing it from the environment on first use
func L() *slog.Logger {
	mu.RLock()
	l := current
	mu.RUnlock()
	if l != nil {
		return l
	}
	Init(FromEnv())
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Init replaces the process logger and slog.Default
func Init(opts Options) {
	lvl := parseLevel(opts.Level)
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	handlerOpts := &slog.HandlerOptions{Level: lvl}
	var console slog.Handler
	if strings.EqualFold(strings.TrimSpace(opts.Format), "json") {
		console = slog.NewJSONHandler(out, handlerOpts)
	} else {
		console = slog.NewTextHandler(out, handlerOpts)
	}

	handlers := []slog.Handler{console}

	var rot *lumberjack.Logger
	if path := strings.TrimSpace(opts.File); path != "" {
		rot = &lumberjack.Logger{Filename: path, MaxSize: 10, MaxBackups: 3, MaxAge: 28, Compress: true}
		handlers = append(handlers, slog.NewJSONHandler(rot, handlerOpts))
	}

	var h slog.Handler = handlers[0]
	if len(handlers) > 1 {
		h = fanout(handlers)
	}
	logger := slog.New(h).With(slog.String("app", "lrcframe"))

	mu.Lock()
	if rotator != nil {
		rotator.Close()
	}
	current, rotator = logger, rot
	mu.Unlock()
	slog.SetDefault(logger)
}

// Close flushes and closes the rotating file, if any
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if rotator == nil {
		return nil
	}
	err := rotator.Close()
	rotator = nil
	return err
}

// FromEnv builds Options from LRCF_LOG_* variables
func FromEnv() Options {
	return Options{
		Level:  getenv("LRCF_LOG_LEVEL", "info"),
		Format: getenv("LRCF_LOG_FORMAT", "console"),
		File:   os.Getenv("LRCF_LOG_FILE"),
	}
}

// WithComponent returns a logger with the component attribute set
func WithComponent(name string) *slog.Logger {
	return L().With(slog.String("component", name))
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var firstErr error
	for _, h := range f {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}
