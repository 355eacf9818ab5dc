package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/MartinNikolovMarinov/memviz/internal/logging"
)

// Renderer backends.
const (
	BackendVulkan = "vulkan"
	BackendNone   = "none"
)

// EnvLogLevel overrides log.level when set.
const EnvLogLevel = "MEMVIZ_LOG_LEVEL"

const (
	DefaultTitle  = "memviz"
	DefaultWidth  = 800
	DefaultHeight = 600
)

// WindowConfig controls the application window.
type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	// BlockingPoll makes the event loop sleep until the next event.
	BlockingPoll bool `yaml:"blocking_poll"`
}

// LogConfig controls the console log sink.
type LogConfig struct {
	// Level is one of: trace, debug, info, warn, error, fatal
	Level string `yaml:"level"`
	// ANSI is one of: auto, always, never
	ANSI      string   `yaml:"ansi"`
	MutedTags []string `yaml:"muted_tags,omitempty"`
}

// RendererConfig controls the graphics backend.
type RendererConfig struct {
	Backend     string `yaml:"backend"`
	AppName     string `yaml:"app_name"`
	Diagnostics bool   `yaml:"diagnostics"`
	// Layers are enabled only when Diagnostics is true.
	Layers              []string `yaml:"layers"`
	DiagnosticsSeverity []string `yaml:"diagnostics_severity"`
}

// Config is the effective configuration.
type Config struct {
	// Display overrides $DISPLAY.
	Display  string         `yaml:"display,omitempty"`
	Window   WindowConfig   `yaml:"window"`
	Log      LogConfig      `yaml:"log"`
	Renderer RendererConfig `yaml:"renderer"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Window: WindowConfig{
			Title:        DefaultTitle,
			Width:        DefaultWidth,
			Height:       DefaultHeight,
			BlockingPoll: true,
		},
		Log: LogConfig{
			Level: "info",
			ANSI:  string(logging.ANSIAuto),
		},
		Renderer: RendererConfig{
			Backend:             BackendVulkan,
			AppName:             DefaultTitle,
			Layers:              []string{"VK_LAYER_KHRONOS_validation", "VK_LAYER_KHRONOS_profiles"},
			DiagnosticsSeverity: []string{"error", "warning"},
		},
	}
}

func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "memviz", "config.yaml"), nil
}

// Validate reports the first invalid field as a *ValidationError.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Window.Title) == "" {
		return &ValidationError{Path: "window.title", Err: fmt.Errorf("title must not be empty")}
	}
	if c.Window.Width <= 0 || c.Window.Width > 0xFFFF {
		return &ValidationError{Path: "window.width", Err: fmt.Errorf("width must be between 1 and 65535")}
	}
	if c.Window.Height <= 0 || c.Window.Height > 0xFFFF {
		return &ValidationError{Path: "window.height", Err: fmt.Errorf("height must be between 1 and 65535")}
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return &ValidationError{Path: "log.level", Err: fmt.Errorf("level must be one of: trace, debug, info, warn, error, fatal")}
	}
	switch logging.ANSIMode(c.Log.ANSI) {
	case logging.ANSIAuto, logging.ANSIAlways, logging.ANSINever:
	default:
		return &ValidationError{Path: "log.ansi", Err: fmt.Errorf("ansi must be one of: auto, always, never")}
	}
	for _, name := range c.Log.MutedTags {
		if _, err := logging.ParseTag(name); err != nil {
			return &ValidationError{Path: "log.muted_tags", Err: err}
		}
	}

	switch c.Renderer.Backend {
	case BackendVulkan, BackendNone:
	default:
		return &ValidationError{Path: "renderer.backend", Err: fmt.Errorf("backend must be one of: vulkan, none")}
	}
	if strings.TrimSpace(c.Renderer.AppName) == "" {
		return &ValidationError{Path: "renderer.app_name", Err: fmt.Errorf("app_name must not be empty")}
	}
	for _, layer := range c.Renderer.Layers {
		if strings.TrimSpace(layer) == "" {
			return &ValidationError{Path: "renderer.layers", Err: fmt.Errorf("layers contains an empty name")}
		}
	}
	for _, sev := range c.Renderer.DiagnosticsSeverity {
		switch sev {
		case "verbose", "info", "warning", "error":
		default:
			return &ValidationError{Path: "renderer.diagnostics_severity", Err: fmt.Errorf("unknown severity %q; must be one of: verbose, info, warning, error", sev)}
		}
	}
	return nil
}

// LoggingOptions converts the log section for logging.New. Call Validate
// first; invalid values fall back to defaults.
func (c *Config) LoggingOptions() logging.Options {
	level, _ := logging.ParseLevel(c.Log.Level)
	opts := logging.Options{Level: level, ANSI: logging.ANSIMode(c.Log.ANSI)}
	for _, name := range c.Log.MutedTags {
		if tag, err := logging.ParseTag(name); err == nil {
			opts.Muted = append(opts.Muted, tag)
		}
	}
	return opts
}

// Marshal renders the effective config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}
