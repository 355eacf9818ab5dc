package config

import (
	"fmt"
	"strings"
)

// Explain returns the effective value at a YAML path and where it came from.
//
// Supported paths:
//
//	display
//	window.title | window.width | window.height | window.blocking_poll
//	log.level | log.ansi | log.muted_tags
//	renderer.backend | renderer.app_name | renderer.diagnostics
//	renderer.layers | renderer.diagnostics_severity
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}
	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

func lookupValue(cfg *Config, path string) (any, error) {
	switch path {
	case "display":
		return cfg.Display, nil
	case "window.title":
		return cfg.Window.Title, nil
	case "window.width":
		return cfg.Window.Width, nil
	case "window.height":
		return cfg.Window.Height, nil
	case "window.blocking_poll":
		return cfg.Window.BlockingPoll, nil
	case "log.level":
		return cfg.Log.Level, nil
	case "log.ansi":
		return cfg.Log.ANSI, nil
	case "log.muted_tags":
		return cfg.Log.MutedTags, nil
	case "renderer.backend":
		return cfg.Renderer.Backend, nil
	case "renderer.app_name":
		return cfg.Renderer.AppName, nil
	case "renderer.diagnostics":
		return cfg.Renderer.Diagnostics, nil
	case "renderer.layers":
		return cfg.Renderer.Layers, nil
	case "renderer.diagnostics_severity":
		return cfg.Renderer.DiagnosticsSeverity, nil
	}
	return nil, fmt.Errorf("unknown path: %s", path)
}
