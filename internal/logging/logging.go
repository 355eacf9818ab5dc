// Package logging is the tagged, level-filtered log sink shared by the
// platform and renderer packages. It is a thin layer over log/slog: every
// record carries a subsystem tag, tags can be muted individually, and the
// level scale is extended with trace and fatal.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"

	"golang.org/x/term"
)

// Extra levels around the slog defaults.
const (
	LevelTrace = slog.Level(-8)
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
	LevelFatal = slog.Level(12)
)

// ParseLevel accepts trace, debug, info, warn|warning, error, fatal.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "fatal":
		return LevelFatal, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// LevelName renders a level with the extended names.
func LevelName(l slog.Level) string {
	switch {
	case l < LevelDebug:
		return "TRACE"
	case l < LevelInfo:
		return "DEBUG"
	case l < LevelWarn:
		return "INFO"
	case l < LevelError:
		return "WARN"
	case l < LevelFatal:
		return "ERROR"
	}
	return "FATAL"
}

// Tag identifies the subsystem a record belongs to.
type Tag int

const (
	TagAll Tag = iota
	TagPlatform
	TagInput
	TagRenderer
	TagRendererDiagnostics
	tagSentinel
)

var tagNames = [...]string{
	TagAll:                 "all",
	TagPlatform:            "platform",
	TagInput:               "input",
	TagRenderer:            "renderer",
	TagRendererDiagnostics: "renderer-diagnostics",
}

func (t Tag) String() string {
	if t < TagAll || t >= tagSentinel {
		return fmt.Sprintf("tag(%d)", int(t))
	}
	return tagNames[t]
}

// ParseTag resolves a tag by name.
func ParseTag(s string) (Tag, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for t := TagAll; t < tagSentinel; t++ {
		if tagNames[t] == s {
			return t, nil
		}
	}
	return TagAll, fmt.Errorf("unknown log tag %q", s)
}

// ANSIMode controls colored output.
type ANSIMode string

const (
	ANSIAuto   ANSIMode = "auto"
	ANSIAlways ANSIMode = "always"
	ANSINever  ANSIMode = "never"
)

// Options configures a Logger.
type Options struct {
	Level slog.Level
	ANSI  ANSIMode
	Muted []Tag
}

// Logger is the sink. Writes are serialized by the handler and never block
// on anything but the underlying writer.
type Logger struct {
	level  *slog.LevelVar
	muted  [tagSentinel]atomic.Bool
	silent atomic.Bool
	tagged [tagSentinel]*slog.Logger
}

// New builds a Logger writing human readable lines to w.
func New(w io.Writer, opts Options) *Logger {
	l := &Logger{level: new(slog.LevelVar)}
	l.level.Set(opts.Level)
	h := newConsoleHandler(w, l.level, useANSI(w, opts.ANSI))
	l.init(h)
	for _, t := range opts.Muted {
		l.Mute(t, true)
	}
	return l
}

// NewWithHandler wraps an arbitrary slog handler; tag muting still applies.
func NewWithHandler(h slog.Handler) *Logger {
	l := &Logger{level: new(slog.LevelVar)}
	l.level.Set(LevelTrace)
	l.init(h)
	return l
}

func (l *Logger) init(h slog.Handler) {
	base := slog.New(h)
	for t := TagAll; t < tagSentinel; t++ {
		if t == TagAll {
			l.tagged[t] = base
			continue
		}
		l.tagged[t] = base.With(slog.String(tagKey, t.String()))
	}
}

// SetLevel changes the minimum level at runtime.
func (l *Logger) SetLevel(level slog.Level) { l.level.Set(level) }

// Level returns the current minimum level.
func (l *Logger) Level() slog.Level { return l.level.Level() }

// Mute silences one tag. Muting TagAll only silences untagged records.
func (l *Logger) Mute(t Tag, muted bool) {
	if t < TagAll || t >= tagSentinel {
		return
	}
	l.muted[t].Store(muted)
}

// Silence mutes every record regardless of tag.
func (l *Logger) Silence(silent bool) { l.silent.Store(silent) }

// Tagged returns the view of l for one subsystem.
func (l *Logger) Tagged(t Tag) *Tagged {
	if t < TagAll || t >= tagSentinel {
		t = TagAll
	}
	return &Tagged{root: l, tag: t}
}

// Slog exposes the tagged slog.Logger for code that wants structured calls.
func (l *Logger) Slog(t Tag) *slog.Logger {
	if t < TagAll || t >= tagSentinel {
		t = TagAll
	}
	return l.tagged[t]
}

// Tagged logs under a fixed tag. A Tagged with a nil root resolves the
// package default at call time.
type Tagged struct {
	root *Logger
	tag  Tag
}

func (t *Tagged) logger() *Logger {
	if t.root != nil {
		return t.root
	}
	return Default()
}

// Enabled reports whether a record at level would be written.
func (t *Tagged) Enabled(level slog.Level) bool {
	l := t.logger()
	if l.silent.Load() || l.muted[t.tag].Load() {
		return false
	}
	return l.tagged[t.tag].Enabled(context.Background(), level)
}

// Log writes msg with slog-style key/value args.
func (t *Tagged) Log(level slog.Level, msg string, args ...any) {
	if !t.Enabled(level) {
		return
	}
	t.logger().tagged[t.tag].Log(context.Background(), level, msg, args...)
}

func (t *Tagged) Trace(msg string, args ...any) { t.Log(LevelTrace, msg, args...) }
func (t *Tagged) Debug(msg string, args ...any) { t.Log(LevelDebug, msg, args...) }
func (t *Tagged) Info(msg string, args ...any)  { t.Log(LevelInfo, msg, args...) }
func (t *Tagged) Warn(msg string, args ...any)  { t.Log(LevelWarn, msg, args...) }
func (t *Tagged) Error(msg string, args ...any) { t.Log(LevelError, msg, args...) }

// Fatal only logs; terminating is the caller's decision.
func (t *Tagged) Fatal(msg string, args ...any) { t.Log(LevelFatal, msg, args...) }

var defaultLogger atomic.Pointer[Logger]

func init() {
	defaultLogger.Store(NewWithHandler(nopHandler{}))
}

// SetDefault installs l as the package default. Nil restores the silent
// default.
func SetDefault(l *Logger) {
	if l == nil {
		l = NewWithHandler(nopHandler{})
	}
	defaultLogger.Store(l)
}

// Default returns the package default logger. Until SetDefault is called it
// discards everything.
func Default() *Logger { return defaultLogger.Load() }

// For returns a Tagged bound lazily to whatever default is installed when it
// logs.
func For(t Tag) *Tagged {
	if t < TagAll || t >= tagSentinel {
		t = TagAll
	}
	return &Tagged{tag: t}
}

func useANSI(w io.Writer, mode ANSIMode) bool {
	switch mode {
	case ANSIAlways:
		return true
	case ANSINever:
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// nopHandler discards records; Enabled returning false skips formatting.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }
