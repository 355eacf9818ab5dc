package config

import (
	"fmt"
	"strings"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Source.Kind == SourceEnv && e.Source.Name != "" {
		return fmt.Sprintf("%s (from $%s): %v", e.Path, e.Source.Name, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// BuildEffectiveConfig applies raw on top of DefaultConfig.
func BuildEffectiveConfig(raw RawConfig) *Config {
	cfg := DefaultConfig()

	if raw.Display != nil {
		cfg.Display = strings.TrimSpace(*raw.Display)
	}

	if w := raw.Window; w != nil {
		if w.Title != nil {
			cfg.Window.Title = *w.Title
		}
		if w.Width != nil {
			cfg.Window.Width = *w.Width
		}
		if w.Height != nil {
			cfg.Window.Height = *w.Height
		}
		if w.BlockingPoll != nil {
			cfg.Window.BlockingPoll = *w.BlockingPoll
		}
	}

	if l := raw.Log; l != nil {
		if l.Level != nil {
			cfg.Log.Level = strings.ToLower(strings.TrimSpace(*l.Level))
		}
		if l.ANSI != nil {
			cfg.Log.ANSI = strings.ToLower(strings.TrimSpace(*l.ANSI))
		}
		if l.MutedTags != nil {
			cfg.Log.MutedTags = append([]string(nil), l.MutedTags...)
		}
	}

	if r := raw.Renderer; r != nil {
		if r.Backend != nil {
			cfg.Renderer.Backend = strings.ToLower(strings.TrimSpace(*r.Backend))
		}
		if r.AppName != nil {
			cfg.Renderer.AppName = *r.AppName
		}
		if r.Diagnostics != nil {
			cfg.Renderer.Diagnostics = *r.Diagnostics
		}
		if r.Layers != nil {
			cfg.Renderer.Layers = append([]string(nil), r.Layers...)
		}
		if r.DiagnosticsSeverity != nil {
			sevs := make([]string, len(r.DiagnosticsSeverity))
			for i, s := range r.DiagnosticsSeverity {
				sevs[i] = strings.ToLower(strings.TrimSpace(s))
			}
			cfg.Renderer.DiagnosticsSeverity = sevs
		}
	}

	return cfg
}
