// Package log builds the slog.Logger used by cpp2d.
//
// Without a log file, records below error go to stdout and errors go to
// stderr. When the generated D code is written to stdout every record goes
// to stderr instead, so the output stays clean.
package log

import (
	"context"
	"io"
	"log/slog"
	"math"
	"os"

	"golang.org/x/term"
)

// LevelTrace is below Debug and logs every declaration the translator visits.
const LevelTrace slog.Level = -8

const levelMax slog.Level = math.MaxInt

var levels = map[string]slog.Level{
	"trace":   LevelTrace,
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}

// ParseLevel maps a level name to its slog level. Unknown names mean info.
func ParseLevel(s string) slog.Level {
	if l, ok := levels[s]; ok {
		return l
	}
	return slog.LevelInfo
}

// MultiHandler fans out records to multiple handlers.
type MultiHandler struct{ hs []slog.Handler }

func NewMultiHandler(hs ...slog.Handler) MultiHandler { return MultiHandler{hs: hs} }

func (m MultiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.hs {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m MultiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range m.hs {
		if h.Enabled(ctx, r.Level) {
			_ = h.Handle(ctx, r.Clone())
		}
	}
	return nil
}

func (m MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return m.each(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

func (m MultiHandler) WithGroup(name string) slog.Handler {
	return m.each(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

func (m MultiHandler) each(fn func(slog.Handler) slog.Handler) MultiHandler {
	out := make([]slog.Handler, len(m.hs))
	for i, h := range m.hs {
		out[i] = fn(h)
	}
	return MultiHandler{hs: out}
}

// LevelFilter passes records with min <= level < max to h.
type LevelFilter struct {
	min, max slog.Level
	h        slog.Handler
}

func NewLevelFilter(min, max slog.Level, h slog.Handler) LevelFilter {
	return LevelFilter{min: min, max: max, h: h}
}

func (f LevelFilter) pass(l slog.Level) bool { return l >= f.min && l < f.max }

func (f LevelFilter) Enabled(ctx context.Context, level slog.Level) bool {
	return f.pass(level) && f.h.Enabled(ctx, level)
}

func (f LevelFilter) Handle(ctx context.Context, r slog.Record) error {
	if !f.pass(r.Level) {
		return nil
	}
	return f.h.Handle(ctx, r)
}

func (f LevelFilter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return LevelFilter{min: f.min, max: f.max, h: f.h.WithAttrs(attrs)}
}

func (f LevelFilter) WithGroup(name string) slog.Handler {
	return LevelFilter{min: f.min, max: f.max, h: f.h.WithGroup(name)}
}

// Options configure SetupLogger.
type Options struct {
	Level string
	File  string
	// StdoutBusy routes all console logging to stderr because stdout carries
	// the generated code.
	StdoutBusy bool
}

// SetupLogger builds the console handlers and, when opts.File is set, a text
// handler writing to that file. The returned closers must be closed on exit.
func SetupLogger(opts Options) (*slog.Logger, []io.Closer, error) {
	level := ParseLevel(opts.Level)
	var handlers []slog.Handler
	var closers []io.Closer

	switch {
	case opts.File != "" || opts.StdoutBusy:
		handlers = append(handlers, consoleHandler(os.Stderr, level))
	default:
		handlers = append(handlers,
			NewLevelFilter(LevelTrace, slog.LevelError, consoleHandler(os.Stdout, level)),
			NewLevelFilter(slog.LevelError, levelMax, consoleHandler(os.Stderr, level)))
	}

	if opts.File != "" {
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, f)
		handlers = append(handlers, slog.NewTextHandler(f, handlerOptions(level)))
	}
	return slog.New(NewMultiHandler(handlers...)), closers, nil
}

// consoleHandler writes text to terminals and JSON everywhere else.
func consoleHandler(f *os.File, level slog.Level) slog.Handler {
	if term.IsTerminal(int(f.Fd())) {
		return slog.NewTextHandler(f, handlerOptions(level))
	}
	return slog.NewJSONHandler(f, handlerOptions(level))
}

func handlerOptions(level slog.Level) *slog.HandlerOptions {
	return &slog.HandlerOptions{Level: level, ReplaceAttr: levelName}
}

// levelName prints LevelTrace as TRACE instead of DEBUG-4.
func levelName(groups []string, a slog.Attr) slog.Attr {
	if a.Key == slog.LevelKey && len(groups) == 0 {
		if l, ok := a.Value.Any().(slog.Level); ok && l == LevelTrace {
			a.Value = slog.StringValue("TRACE")
		}
	}
	return a
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
