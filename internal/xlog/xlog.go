// Package xlog is the pipeline's layered logging wrapper over log/slog:
// stderr by default, an optional file sink, and a quiet mode that disables
// info and warn (errors still surface, since they're what a quiet batch
// invocation still needs to see).
package xlog

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Config configures a Logger. A zero-value Config logs Info+ to stderr as
// text.
type Config struct {
	// LogDir enables file logging to the given directory, named
	// "{Pass}_{YYYY-MM-DD}.log" in JSON, alongside whatever stderr output
	// Quiet allows. Supports "~" expansion.
	LogDir string

	// Pass identifies the running pipeline pass ("ground", "rc-model",
	// "decompress", "verify") and is attached to every record as "pass".
	Pass string

	// Quiet disables Info and Warn on stderr; Error still prints, and file
	// output (if LogDir is set) is unaffected by Quiet.
	Quiet bool
}

// Logger wraps slog.Logger with the stderr/file fan-out above and Close for
// releasing the file handle.
type Logger struct {
	slog *slog.Logger
	file *os.File
	mu   sync.Mutex
}

// New builds a Logger per cfg. File logging failures are not fatal: if the
// directory can't be created or the file can't be opened, New silently
// falls back to stderr-only, since a missing log file must never block the
// pipeline it's merely observing.
func New(cfg Config) *Logger {
	var handlers []slog.Handler

	stderrLevel := slog.LevelInfo
	if cfg.Quiet {
		stderrLevel = slog.LevelError
	}
	handlers = append(handlers, slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: stderrLevel}))

	l := &Logger{}
	if cfg.LogDir != "" {
		if f := openLogFile(cfg.LogDir, cfg.Pass); f != nil {
			l.file = f
			handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
		}
	}

	var handler slog.Handler = handlers[0]
	if len(handlers) > 1 {
		handler = &fanoutHandler{handlers: handlers}
	}
	if cfg.Pass != "" {
		handler = handler.WithAttrs([]slog.Attr{slog.String("pass", cfg.Pass)})
	}
	l.slog = slog.New(handler)
	return l
}

// Default returns a Logger with Info+ on stderr and no file sink.
func Default() *Logger { return New(Config{}) }

func openLogFile(dir, pass string) *os.File {
	dir = expandHome(dir)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil
	}
	name := pass
	if name == "" {
		name = "htnplan"
	}
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.log", name, time.Now().Format("2006-01-02")))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
	if err != nil {
		return nil
	}
	return f
}

func expandHome(path string) string {
	if len(path) > 0 && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

func (l *Logger) Debug(msg string, args ...any) { l.slog.Debug(msg, args...) }
func (l *Logger) Info(msg string, args ...any)  { l.slog.Info(msg, args...) }
func (l *Logger) Warn(msg string, args ...any)  { l.slog.Warn(msg, args...) }
func (l *Logger) Error(msg string, args ...any) { l.slog.Error(msg, args...) }

// With returns a child Logger carrying args on every subsequent record.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{slog: l.slog.With(args...), file: l.file}
}

// Slog exposes the underlying slog.Logger for callers that need LogAttrs or
// a custom handler.
func (l *Logger) Slog() *slog.Logger { return l.slog }

// Close syncs and closes the file sink, if any.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	if err := l.file.Sync(); err != nil {
		return err
	}
	return l.file.Close()
}

// fanoutHandler sends every record to all of its handlers, letting stderr
// stay text while the file sink stays JSON.
type fanoutHandler struct {
	handlers []slog.Handler
}

func (h *fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *fanoutHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, r.Level) {
			if err := handler.Handle(ctx, r); err != nil {
				return err
			}
		}
	}
	return nil
}

func (h *fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		out[i] = handler.WithAttrs(attrs)
	}
	return &fanoutHandler{handlers: out}
}

func (h *fanoutHandler) WithGroup(name string) slog.Handler {
	out := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		out[i] = handler.WithGroup(name)
	}
	return &fanoutHandler{handlers: out}
}
