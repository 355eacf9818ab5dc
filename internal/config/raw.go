package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

// Raw types mirror the file schema with pointer fields so an absent key can
// be told apart from a zero value when files are merged.

type RawWindowConfig struct {
	Title        *string `yaml:"title"`
	Width        *int    `yaml:"width"`
	Height       *int    `yaml:"height"`
	BlockingPoll *bool   `yaml:"blocking_poll"`
}

type RawLogConfig struct {
	Level     *string  `yaml:"level"`
	ANSI      *string  `yaml:"ansi"`
	MutedTags []string `yaml:"muted_tags"`
}

type RawRendererConfig struct {
	Backend             *string  `yaml:"backend"`
	AppName             *string  `yaml:"app_name"`
	Diagnostics         *bool    `yaml:"diagnostics"`
	Layers              []string `yaml:"layers"`
	DiagnosticsSeverity []string `yaml:"diagnostics_severity"`
}

type RawConfig struct {
	Include  IncludeList        `yaml:"include"`
	Display  *string            `yaml:"display"`
	Window   *RawWindowConfig   `yaml:"window"`
	Log      *RawLogConfig      `yaml:"log"`
	Renderer *RawRendererConfig `yaml:"renderer"`
}

// merge returns r overlaid with other; set fields in other win.
func (r RawConfig) merge(other RawConfig) RawConfig {
	out := r
	if other.Display != nil {
		out.Display = other.Display
	}

	if other.Window != nil {
		w := RawWindowConfig{}
		if out.Window != nil {
			w = *out.Window
		}
		if other.Window.Title != nil {
			w.Title = other.Window.Title
		}
		if other.Window.Width != nil {
			w.Width = other.Window.Width
		}
		if other.Window.Height != nil {
			w.Height = other.Window.Height
		}
		if other.Window.BlockingPoll != nil {
			w.BlockingPoll = other.Window.BlockingPoll
		}
		out.Window = &w
	}

	if other.Log != nil {
		l := RawLogConfig{}
		if out.Log != nil {
			l = *out.Log
		}
		if other.Log.Level != nil {
			l.Level = other.Log.Level
		}
		if other.Log.ANSI != nil {
			l.ANSI = other.Log.ANSI
		}
		if other.Log.MutedTags != nil {
			l.MutedTags = other.Log.MutedTags
		}
		out.Log = &l
	}

	if other.Renderer != nil {
		rr := RawRendererConfig{}
		if out.Renderer != nil {
			rr = *out.Renderer
		}
		if other.Renderer.Backend != nil {
			rr.Backend = other.Renderer.Backend
		}
		if other.Renderer.AppName != nil {
			rr.AppName = other.Renderer.AppName
		}
		if other.Renderer.Diagnostics != nil {
			rr.Diagnostics = other.Renderer.Diagnostics
		}
		if other.Renderer.Layers != nil {
			rr.Layers = other.Renderer.Layers
		}
		if other.Renderer.DiagnosticsSeverity != nil {
			rr.DiagnosticsSeverity = other.Renderer.DiagnosticsSeverity
		}
		out.Renderer = &rr
	}
	return out
}
