// Package vulkan is the renderer.Driver backed by the system Vulkan loader.
package vulkan

import (
	"fmt"
	"runtime"
	"unsafe"

	"github.com/ebitengine/purego"
	vk "github.com/vulkan-go/vulkan"

	"github.com/MartinNikolovMarinov/memviz/internal/renderer"
)

// Driver talks to the loader found through the default library search path.
type Driver struct {
	loaded bool
}

var _ renderer.Driver = (*Driver)(nil)

func NewDriver() *Driver { return &Driver{} }

// Load resolves vkGetInstanceProcAddr and the global entry points.
func (d *Driver) Load() error {
	if d.loaded {
		return nil
	}
	if err := vk.SetDefaultGetInstanceProcAddr(); err != nil {
		return fmt.Errorf("locate loader: %w", err)
	}
	if err := vk.Init(); err != nil {
		return fmt.Errorf("init loader: %w", err)
	}
	d.loaded = true
	return nil
}

// LoaderVersion reports the instance-level API version the loader supports.
// 1.0 loaders lack vkEnumerateInstanceVersion and report 1.0.0.
func (d *Driver) LoaderVersion() (uint32, error) {
	fn, err := procAddr(nil, "vkEnumerateInstanceVersion")
	if err != nil {
		return 0, err
	}
	if fn == 0 {
		return renderer.MakeVersion(1, 0, 0), nil
	}
	var version uint32
	ret, _, _ := purego.SyscallN(fn, uintptr(unsafe.Pointer(&version)))
	runtime.KeepAlive(&version)
	if err := newError(vk.Result(ret)); err != nil {
		return 0, err
	}
	return version, nil
}

func (d *Driver) EnumerateLayers(count *uint32, buf []renderer.LayerProperties) error {
	if buf == nil {
		return newError(vk.EnumerateInstanceLayerProperties(count, nil))
	}
	raw := make([]vk.LayerProperties, *count)
	if ret := vk.EnumerateInstanceLayerProperties(count, raw); ret != vk.Incomplete {
		if err := newError(ret); err != nil {
			return err
		}
	}
	for i := 0; i < int(*count); i++ {
		raw[i].Deref()
		buf[i] = renderer.LayerProperties{
			Name:                  vk.ToString(raw[i].LayerName[:]),
			Description:           vk.ToString(raw[i].Description[:]),
			SpecVersion:           raw[i].SpecVersion,
			ImplementationVersion: raw[i].ImplementationVersion,
		}
	}
	return nil
}

func (d *Driver) EnumerateExtensions(count *uint32, buf []renderer.ExtensionProperties) error {
	if buf == nil {
		return newError(vk.EnumerateInstanceExtensionProperties("", count, nil))
	}
	raw := make([]vk.ExtensionProperties, *count)
	if ret := vk.EnumerateInstanceExtensionProperties("", count, raw); ret != vk.Incomplete {
		if err := newError(ret); err != nil {
			return err
		}
	}
	for i := 0; i < int(*count); i++ {
		raw[i].Deref()
		buf[i] = renderer.ExtensionProperties{
			Name:        vk.ToString(raw[i].ExtensionName[:]),
			SpecVersion: raw[i].SpecVersion,
		}
	}
	return nil
}

// CreateInstance creates the instance and loads its entry points.
func (d *Driver) CreateInstance(info renderer.InstanceInfo) (renderer.Instance, error) {
	var handle vk.Instance
	ret := vk.CreateInstance(&vk.InstanceCreateInfo{
		SType: vk.StructureTypeInstanceCreateInfo,
		Flags: vk.InstanceCreateFlags(info.Flags),
		PApplicationInfo: &vk.ApplicationInfo{
			SType:              vk.StructureTypeApplicationInfo,
			PApplicationName:   safeString(info.AppName),
			ApplicationVersion: info.AppVersion,
			PEngineName:        safeString(info.EngineName),
			EngineVersion:      info.EngineVersion,
			ApiVersion:         info.APIVersion,
		},
		EnabledExtensionCount:   uint32(len(info.Extensions)),
		PpEnabledExtensionNames: safeStrings(info.Extensions),
		EnabledLayerCount:       uint32(len(info.Layers)),
		PpEnabledLayerNames:     safeStrings(info.Layers),
	}, nil, &handle)
	if err := newError(ret); err != nil {
		return nil, err
	}
	if err := vk.InitInstance(handle); err != nil {
		vk.DestroyInstance(handle, nil)
		return nil, fmt.Errorf("load instance entry points: %w", err)
	}
	return &Instance{handle: handle}, nil
}

func newError(ret vk.Result) error {
	if ret == vk.Success {
		return nil
	}
	return fmt.Errorf("vulkan error: %s (%d)", vk.Error(ret).Error(), ret)
}

// safeString null-terminates s for the loader.
func safeString(s string) string {
	if len(s) == 0 || s[len(s)-1] != 0 {
		return s + "\x00"
	}
	return s
}

func safeStrings(list []string) []string {
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = safeString(s)
	}
	return out
}
