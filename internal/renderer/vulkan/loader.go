//go:build linux || darwin

package vulkan

import (
	"fmt"
	"runtime"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
	vk "github.com/vulkan-go/vulkan"
)

// Loader entry point, resolved once per process.
var (
	loaderOnce          sync.Once
	loaderErr           error
	getInstanceProcAddr uintptr
)

func loaderLibrary() string {
	if runtime.GOOS == "darwin" {
		return "libvulkan.1.dylib"
	}
	return "libvulkan.so.1"
}

func loadLoader() error {
	loaderOnce.Do(func() {
		name := loaderLibrary()
		lib, err := purego.Dlopen(name, purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err != nil {
			loaderErr = fmt.Errorf("load %s: %w", name, err)
			return
		}
		sym, err := purego.Dlsym(lib, "vkGetInstanceProcAddr")
		if err != nil {
			loaderErr = fmt.Errorf("resolve vkGetInstanceProcAddr: %w", err)
			return
		}
		getInstanceProcAddr = sym
	})
	return loaderErr
}

// procAddr resolves a command through vkGetInstanceProcAddr. A nil instance
// resolves global commands. Zero means the command is not available.
func procAddr(instance vk.Instance, name string) (uintptr, error) {
	if err := loadLoader(); err != nil {
		return 0, err
	}
	cname := cString(name)
	fn, _, _ := purego.SyscallN(getInstanceProcAddr,
		uintptr(unsafe.Pointer(instance)),
		uintptr(unsafe.Pointer(&cname[0])))
	runtime.KeepAlive(cname)
	return fn, nil
}

// cString returns name as a NUL-terminated byte slice.
func cString(name string) []byte {
	return []byte(safeString(name))
}
