package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/MartinNikolovMarinov/memviz/internal/config"
	"github.com/MartinNikolovMarinov/memviz/internal/input"
	"github.com/MartinNikolovMarinov/memviz/internal/logging"
	"github.com/MartinNikolovMarinov/memviz/internal/platform"
	"github.com/MartinNikolovMarinov/memviz/internal/renderer"
	"github.com/MartinNikolovMarinov/memviz/internal/renderer/vulkan"
)

// pollInterval paces the non-blocking event loop.
const pollInterval = time.Millisecond

type runFlags struct {
	path        string
	display     string
	title       string
	width       int
	height      int
	renderer    string
	diagnostics bool
	noBlock     bool
}

func runApp(args []string) int {
	var f runFlags
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.StringVar(&f.path, "config", "", "Config file path (default: ~/.config/memviz/config.yaml)")
	fs.StringVar(&f.display, "display", "", "X display to connect to (overrides config)")
	fs.StringVar(&f.title, "title", "", "Window title (overrides config)")
	fs.IntVar(&f.width, "width", 0, "Window width (overrides config)")
	fs.IntVar(&f.height, "height", 0, "Window height (overrides config)")
	fs.StringVar(&f.renderer, "renderer", "", "Renderer backend: vulkan or none (overrides config)")
	fs.BoolVar(&f.diagnostics, "diagnostics", false, "Enable validation layers and the diagnostics callback")
	fs.BoolVar(&f.noBlock, "no-block", false, "Poll events without blocking")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: memviz run [options]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Open the window, bootstrap the renderer and pump events until the")
		fmt.Fprintln(os.Stderr, "window is closed.")
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	res, err := loadConfig(f.path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	cfg := res.Config
	set := map[string]bool{}
	fs.Visit(func(fl *flag.Flag) { set[fl.Name] = true })
	applyRunFlags(cfg, f, set)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	if err := run(cfg); err != nil {
		return reportFailure(os.Stderr, err)
	}
	return 0
}

// applyRunFlags overrides cfg with the flags the user set explicitly.
func applyRunFlags(cfg *config.Config, f runFlags, set map[string]bool) {
	if set["display"] {
		cfg.Display = f.display
	}
	if set["title"] {
		cfg.Window.Title = f.title
	}
	if set["width"] {
		cfg.Window.Width = f.width
	}
	if set["height"] {
		cfg.Window.Height = f.height
	}
	if set["renderer"] {
		cfg.Renderer.Backend = f.renderer
	}
	if set["diagnostics"] {
		cfg.Renderer.Diagnostics = f.diagnostics
	}
	if set["no-block"] {
		cfg.Window.BlockingPoll = !f.noBlock
	}
}

// rendererOptions translates the renderer config into bootstrap options.
func rendererOptions(rc config.RendererConfig) (renderer.Options, error) {
	opts := renderer.Options{
		Diagnostics: rc.Diagnostics,
		Layers:      rc.Layers,
	}
	for _, name := range rc.DiagnosticsSeverity {
		sev, err := renderer.ParseSeverity(name)
		if err != nil {
			return renderer.Options{}, err
		}
		opts.Severities = append(opts.Severities, sev)
	}
	return opts, nil
}

// run owns the window and renderer lifecycle. Teardown is the reverse of
// initialization.
func run(cfg *config.Config) error {
	log := logging.For(logging.TagPlatform)

	win := platform.NewWindow(platform.X11{}, cfg.Display)
	defer win.Shutdown()

	if err := win.Init(cfg.Window.Title, cfg.Window.Width, cfg.Window.Height); err != nil {
		return err
	}

	closed := false
	registerCallbacks(win, &closed)

	var backend renderer.Backend = renderer.Disabled{}
	var boot *renderer.Bootstrap
	if cfg.Renderer.Backend == config.BackendVulkan {
		opts, err := rendererOptions(cfg.Renderer)
		if err != nil {
			return err
		}
		boot = renderer.NewBootstrap(vulkan.NewDriver(), win, opts)
		backend = boot
	}

	if err := backend.Init(cfg.Renderer.AppName); err != nil {
		backend.Shutdown()
		return err
	}
	defer backend.Shutdown()

	if boot != nil {
		surface, err := win.CreateSurface(boot)
		if err != nil {
			return err
		}
		defer surface.Destroy()
	}

	if w, h, ok := win.FramebufferSize(); ok {
		log.Info("window ready", "width", w, "height", h, "blocking", cfg.Window.BlockingPoll)
	}

	if err := pumpEvents(win, cfg.Window.BlockingPoll, func() bool { return closed }, idle); err != nil {
		return err
	}
	log.Info("window closed")
	return nil
}

type eventSource interface {
	PollEvent(block bool) (bool, error)
}

// pumpEvents polls src until done reports true. A non-blocking loop drains
// every queued event back to back and calls idle only once the queue is empty.
func pumpEvents(src eventSource, block bool, done func() bool, idle func()) error {
	for !done() {
		handled, err := src.PollEvent(block)
		if err != nil {
			return err
		}
		if !handled && !block {
			idle()
		}
	}
	return nil
}

func idle() { time.Sleep(pollInterval) }

func registerCallbacks(win *platform.Window, closed *bool) {
	plog := logging.For(logging.TagPlatform)
	ilog := logging.For(logging.TagInput)

	win.OnWindowClose(func() {
		plog.Info("close requested")
		*closed = true
	})
	win.OnWindowResize(func(width, height int) {
		plog.Debug("resize", "width", width, "height", height)
	})
	win.OnWindowFocus(func(gained bool) {
		plog.Debug("focus", "gained", gained)
	})
	win.OnKey(func(keysym, scancode uint32, pressed bool, mods input.Modifiers) {
		ilog.Trace("key", "keysym", fmt.Sprintf("0x%04x", keysym), "scancode", scancode, "pressed", pressed, "mods", mods)
	})
	win.OnMouseClick(func(button input.MouseButton, pressed bool, x, y int, mods input.Modifiers) {
		ilog.Trace("mouse click", "button", button, "pressed", pressed, "x", x, "y", y, "mods", mods)
	})
	win.OnMouseMove(func(x, y int) {
		ilog.Trace("mouse move", "x", x, "y", y)
	})
	win.OnMouseScroll(func(dir input.ScrollDirection, x, y int) {
		ilog.Trace("mouse scroll", "direction", dir, "x", x, "y", y)
	})
	win.OnMouseEnterLeave(func(entered bool) {
		ilog.Trace("mouse enter/leave", "entered", entered)
	})
}
