package renderer

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/MartinNikolovMarinov/memviz/internal/logging"
)

// Severity of a diagnostics message.
type Severity int

const (
	SeverityVerbose Severity = iota
	SeverityInfo
	SeverityWarning
	SeverityError
)

var severityNames = [...]string{
	SeverityVerbose: "verbose",
	SeverityInfo:    "info",
	SeverityWarning: "warning",
	SeverityError:   "error",
}

func (s Severity) String() string {
	if s < SeverityVerbose || s > SeverityError {
		return fmt.Sprintf("severity(%d)", int(s))
	}
	return severityNames[s]
}

// ParseSeverity resolves verbose, info, warning or error.
func ParseSeverity(s string) (Severity, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range severityNames {
		if name == s {
			return Severity(i), nil
		}
	}
	return SeverityVerbose, fmt.Errorf("unknown diagnostics severity %q", s)
}

// level maps a severity onto the log scale.
func (s Severity) level() slog.Level {
	switch s {
	case SeverityError:
		return logging.LevelError
	case SeverityWarning:
		return logging.LevelWarn
	case SeverityInfo:
		return logging.LevelInfo
	}
	return logging.LevelDebug
}

// Category of a diagnostics message.
type Category int

const (
	CategoryGeneral Category = iota
	CategoryValidation
	CategoryPerformance
)

func (c Category) String() string {
	switch c {
	case CategoryGeneral:
		return "GENERAL"
	case CategoryValidation:
		return "VALIDATION"
	case CategoryPerformance:
		return "PERFORMANCE"
	}
	return fmt.Sprintf("CATEGORY(%d)", int(c))
}

// MaxDiagnosticLength bounds a formatted diagnostics message in bytes.
const MaxDiagnosticLength = 1024

// Sink receives diagnostics from a live instance. Report returns whether the
// native call that triggered the message should be aborted.
type Sink interface {
	Report(sev Severity, cat Category, msg string) bool
}

// LogSink forwards diagnostics to the renderer-diagnostics log tag.
type LogSink struct {
	log *logging.Tagged
}

// NewLogSink returns a sink bound to the default logger.
func NewLogSink() *LogSink {
	return &LogSink{log: logging.For(logging.TagRendererDiagnostics)}
}

// Report logs msg and never aborts the native call.
func (s *LogSink) Report(sev Severity, cat Category, msg string) bool {
	s.log.Log(sev.level(), FormatDiagnostic(cat, msg))
	return false
}

// FormatDiagnostic prefixes msg with its category and truncates the result
// to MaxDiagnosticLength bytes without splitting a rune.
func FormatDiagnostic(cat Category, msg string) string {
	out := "[" + cat.String() + "] " + msg
	if len(out) <= MaxDiagnosticLength {
		return out
	}
	cut := MaxDiagnosticLength
	for cut > 0 && !utf8.RuneStart(out[cut]) {
		cut--
	}
	return out[:cut]
}
