// Package renderer bootstraps the graphics backend: it enumerates the
// loader's instance capabilities, validates what the window system and the
// engine require, and owns the process-wide instance.
package renderer

import (
	"fmt"

	"github.com/MartinNikolovMarinov/memviz/internal/platform"
)

// Backend is a renderer the host can start and stop.
type Backend interface {
	Init(appName string) error
	Shutdown()
}

// LayerProperties describes one instance layer.
type LayerProperties struct {
	Name                  string
	Description           string
	SpecVersion           uint32
	ImplementationVersion uint32
}

// ExtensionProperties describes one instance extension.
type ExtensionProperties struct {
	Name        string
	SpecVersion uint32
}

// InstanceInfo is everything needed to create an instance.
type InstanceInfo struct {
	AppName       string
	AppVersion    uint32
	EngineName    string
	EngineVersion uint32
	APIVersion    uint32
	Extensions    []string
	Layers        []string
	Flags         uint32
}

// Driver is the native loader. Enumerate calls follow the two-call
// convention: a nil buf stores the available count, a non-nil buf is filled
// up to *count entries and *count is set to the number written.
type Driver interface {
	Load() error
	LoaderVersion() (uint32, error)
	EnumerateLayers(count *uint32, buf []LayerProperties) error
	EnumerateExtensions(count *uint32, buf []ExtensionProperties) error
	CreateInstance(info InstanceInfo) (Instance, error)
}

// Instance is a live native instance.
type Instance interface {
	platform.SurfaceFactory
	InstallDiagnostics(sink Sink, severities []Severity) error
	RemoveDiagnostics()
	Destroy()
}

// WindowSystem reports the instance extensions the presentation target needs.
// *platform.Window implements it.
type WindowSystem interface {
	RequiredExtensions() []string
}

var _ WindowSystem = (*platform.Window)(nil)

// MakeVersion packs a version the way the loader expects.
func MakeVersion(major, minor, patch uint32) uint32 {
	return major<<22 | minor<<12 | patch
}

// VersionString renders a packed version as major.minor.patch.
func VersionString(v uint32) string {
	return fmt.Sprintf("%d.%d.%d", v>>22, (v>>12)&0x3FF, v&0xFFF)
}
