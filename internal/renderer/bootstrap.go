package renderer

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/MartinNikolovMarinov/memviz/internal/errcode"
	"github.com/MartinNikolovMarinov/memviz/internal/logging"
	"github.com/MartinNikolovMarinov/memviz/internal/platform"
)

const (
	EngineName = "memviz"

	SurfaceExtension     = "VK_KHR_surface"
	DebugReportExtension = "VK_EXT_debug_report"
)

var (
	AppVersion    = MakeVersion(0, 0, 1)
	EngineVersion = MakeVersion(0, 0, 1)
	APIVersion    = MakeVersion(1, 3, 0)
)

// DefaultLayers are enabled when diagnostics are on and nothing else is
// configured.
var DefaultLayers = []string{"VK_LAYER_KHRONOS_validation", "VK_LAYER_KHRONOS_profiles"}

// DefaultSeverities are reported when diagnostics are on and nothing else is
// configured.
var DefaultSeverities = []Severity{SeverityError, SeverityWarning}

// At most one instance may be alive per process.
var instanceAlive atomic.Bool

// Options configures a Bootstrap.
type Options struct {
	// Diagnostics enables the debug report extension, the configured layers
	// and the diagnostics callback.
	Diagnostics bool
	Layers      []string
	Severities  []Severity
	// Sink receives diagnostics; nil uses a LogSink.
	Sink Sink
}

// Bootstrap creates the instance for a window system through a Driver.
type Bootstrap struct {
	driver Driver
	window WindowSystem
	opts   Options
	caps   *Capabilities

	instance Instance
	log      *logging.Tagged
}

var (
	_ Backend                 = (*Bootstrap)(nil)
	_ platform.SurfaceFactory = (*Bootstrap)(nil)
)

// NewBootstrap prepares a bootstrap; nothing native happens until Init.
func NewBootstrap(driver Driver, window WindowSystem, opts Options) *Bootstrap {
	if opts.Diagnostics && opts.Layers == nil {
		opts.Layers = DefaultLayers
	}
	if opts.Severities == nil {
		opts.Severities = DefaultSeverities
	}
	if opts.Sink == nil {
		opts.Sink = NewLogSink()
	}
	return &Bootstrap{
		driver: driver,
		window: window,
		opts:   opts,
		caps:   NewCapabilities(driver),
		log:    logging.For(logging.TagRenderer),
	}
}

// Capabilities exposes the layer and extension caches.
func (b *Bootstrap) Capabilities() *Capabilities { return b.caps }

// Init loads the driver, validates requirements and creates the instance.
// Missing layers or extensions fail before any instance creation call.
func (b *Bootstrap) Init(appName string) error {
	if err := b.driver.Load(); err != nil {
		b.log.Fatal("failed to load loader", "err", err)
		return errcode.Wrap(errcode.VulkanLoader, err)
	}

	if v, err := b.driver.LoaderVersion(); err != nil {
		b.log.Warn("failed to query loader version", "err", err)
	} else {
		b.log.Info("loader", "version", VersionString(v))
	}

	layers, err := b.caps.QueryLayers(false)
	if err != nil {
		b.log.Fatal("failed to enumerate instance layers", "err", err)
		return err
	}
	b.log.Info("instance layers", "count", len(layers))
	for _, l := range layers {
		b.log.Debug("layer", "name", l.Name, "spec", VersionString(l.SpecVersion), "description", l.Description)
	}

	extensions := b.Extensions()
	if _, err := b.caps.QueryExtensions(false); err != nil {
		b.log.Fatal("failed to enumerate instance extensions", "err", err)
		return err
	}
	for _, name := range extensions {
		if !b.caps.SupportsExtension(name) {
			b.log.Fatal("missing instance extension", "name", name)
			return errcode.Wrap(errcode.VulkanMissingExtension, fmt.Errorf("extension %s", name))
		}
	}

	var enabledLayers []string
	if b.opts.Diagnostics {
		for _, name := range b.opts.Layers {
			if !b.caps.SupportsLayer(name) {
				b.log.Fatal("missing instance layer", "name", name)
				return errcode.Wrap(errcode.VulkanMissingLayer, fmt.Errorf("layer %s", name))
			}
		}
		enabledLayers = b.opts.Layers
	}

	if !instanceAlive.CompareAndSwap(false, true) {
		panic("renderer: an instance is already alive in this process")
	}

	b.log.Info("creating instance",
		"app", appName,
		"api", VersionString(APIVersion),
		"extensions", strings.Join(extensions, ","),
		"layers", strings.Join(enabledLayers, ","))

	inst, err := b.driver.CreateInstance(InstanceInfo{
		AppName:       appName,
		AppVersion:    AppVersion,
		EngineName:    EngineName,
		EngineVersion: EngineVersion,
		APIVersion:    APIVersion,
		Extensions:    extensions,
		Layers:        enabledLayers,
		Flags:         platformInstanceFlags,
	})
	if err != nil {
		instanceAlive.Store(false)
		b.log.Fatal("failed to create instance", "err", err)
		return errcode.Wrap(errcode.VulkanInstanceCreate, err)
	}
	b.instance = inst

	if b.opts.Diagnostics {
		if err := inst.InstallDiagnostics(b.opts.Sink, b.opts.Severities); err != nil {
			b.log.Fatal("failed to install diagnostics callback", "err", err)
			return errcode.Wrap(errcode.VulkanDebugCallback, err)
		}
		b.log.Info("diagnostics enabled", "severities", joinSeverities(b.opts.Severities))
	}
	return nil
}

// Extensions is the instance extension list Init requests: window system
// first, then engine.
func (b *Bootstrap) Extensions() []string {
	exts := append([]string(nil), b.window.RequiredExtensions()...)
	exts = append(exts, SurfaceExtension)
	exts = append(exts, platformExtensions...)
	if b.opts.Diagnostics {
		exts = append(exts, DebugReportExtension)
	}
	return exts
}

// Shutdown removes the diagnostics callback and destroys the instance. It is
// safe to call without an instance.
func (b *Bootstrap) Shutdown() {
	if b.instance == nil {
		return
	}
	b.instance.RemoveDiagnostics()
	b.instance.Destroy()
	b.instance = nil
	instanceAlive.Store(false)
	b.log.Info("instance destroyed")
}

// Instance returns the live instance and panics if there is none.
func (b *Bootstrap) Instance() Instance {
	if b.instance == nil {
		panic("renderer: no live instance")
	}
	return b.instance
}

// CreateSurface creates a presentation surface on the live instance.
func (b *Bootstrap) CreateSurface(target platform.SurfaceTarget) (platform.Surface, error) {
	return b.Instance().CreateSurface(target)
}

func joinSeverities(sevs []Severity) string {
	parts := make([]string, len(sevs))
	for i, s := range sevs {
		parts[i] = s.String()
	}
	return strings.Join(parts, ",")
}

// Disabled is the backend used when rendering is turned off.
type Disabled struct{}

var _ Backend = Disabled{}

func (Disabled) Init(appName string) error {
	logging.For(logging.TagRenderer).Info("renderer disabled", "app", appName)
	return nil
}

func (Disabled) Shutdown() {}
