package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	once      sync.Once
	root      *slog.Logger
	component string
)

// Options configures the global logger.
type Options struct {
	Component string
	// File is the rotating log file; empty logs to stdout only.
	File  string
	Level string
	// Output replaces stdout, mainly for tests.
	Output io.Writer
}

// Init configures the global logger exactly once and returns it tagged with
// opts.Component.
func Init(opts Options) *slog.Logger {
	once.Do(func() {
		root = newLogger(opts)
		component = opts.Component
		if component == "" {
			component = "plise"
		}
	})
	return root.With("component", component)
}

// newLogger builds the untagged root; every derived logger adds its own
// component.
func newLogger(opts Options) *slog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	if opts.File != "" {
		_ = os.MkdirAll(filepath.Dir(opts.File), 0o755)
		rot := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10, // MB
			MaxBackups: 3,
			MaxAge:     30, // days
		}
		out = io.MultiWriter(out, rot)
	}

	h := slog.NewJSONHandler(out, &slog.HandlerOptions{Level: ParseLevel(opts.Level)})
	return slog.New(h)
}

// Base returns the global logger (Init with defaults if not already called).
func Base() *slog.Logger {
	return Init(Options{})
}

// New returns a logger for component derived from the global root.
func New(component string) *slog.Logger {
	Init(Options{})
	return root.With("component", component)
}

// ParseLevel maps debug/info/warn/error to a slog level; anything else is info.
func ParseLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
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
