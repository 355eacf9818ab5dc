//go:build linux

package vulkan

import (
	"fmt"
	"runtime"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
	vk "github.com/vulkan-go/vulkan"

	"github.com/MartinNikolovMarinov/memviz/internal/platform"
)

// VK_STRUCTURE_TYPE_XCB_SURFACE_CREATE_INFO_KHR
const structureTypeXcbSurfaceCreateInfo = 1000005000

// Mirrors VkXcbSurfaceCreateInfoKHR on 64-bit targets.
type xcbSurfaceCreateInfo struct {
	sType      uint32
	pNext      uintptr
	flags      uint32
	connection uintptr
	window     uint32
}

// libxcb entry points, resolved on first surface creation.
var (
	xcbOnce       sync.Once
	xcbErr        error
	xcbConnect    func(displayName string, screen *int32) uintptr
	xcbHasError   func(conn uintptr) int32
	xcbDisconnect func(conn uintptr)
)

func loadXCB() error {
	xcbOnce.Do(func() {
		lib, err := purego.Dlopen("libxcb.so.1", purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err != nil {
			xcbErr = fmt.Errorf("load libxcb: %w", err)
			return
		}
		purego.RegisterLibFunc(&xcbConnect, lib, "xcb_connect")
		purego.RegisterLibFunc(&xcbHasError, lib, "xcb_connection_has_error")
		purego.RegisterLibFunc(&xcbDisconnect, lib, "xcb_disconnect")
	})
	return xcbErr
}

// Surface is a VkSurfaceKHR bound to an X11 window. The presentation engine
// needs a native xcb connection, so the surface owns one; window ids are
// server-wide and remain valid across connections.
type Surface struct {
	instance vk.Instance
	handle   vk.Surface
	conn     uintptr
}

// CreateSurface creates an xcb surface for target.
func (i *Instance) CreateSurface(target platform.SurfaceTarget) (platform.Surface, error) {
	if err := loadXCB(); err != nil {
		return nil, err
	}

	conn := xcbConnect(target.DisplayName, nil)
	if conn == 0 || xcbHasError(conn) != 0 {
		if conn != 0 {
			xcbDisconnect(conn)
		}
		return nil, fmt.Errorf("xcb_connect %q failed", target.DisplayName)
	}

	fn, err := procAddr(i.handle, "vkCreateXcbSurfaceKHR")
	if err != nil {
		xcbDisconnect(conn)
		return nil, err
	}
	if fn == 0 {
		xcbDisconnect(conn)
		return nil, fmt.Errorf("vkCreateXcbSurfaceKHR not available")
	}

	info := xcbSurfaceCreateInfo{
		sType:      structureTypeXcbSurfaceCreateInfo,
		connection: conn,
		window:     target.Window,
	}
	var handle vk.Surface
	ret, _, _ := purego.SyscallN(fn,
		uintptr(unsafe.Pointer(i.handle)),
		uintptr(unsafe.Pointer(&info)),
		0,
		uintptr(unsafe.Pointer(&handle)))
	runtime.KeepAlive(&info)
	runtime.KeepAlive(&handle)
	if err := newError(vk.Result(ret)); err != nil {
		xcbDisconnect(conn)
		return nil, err
	}
	return &Surface{instance: i.handle, handle: handle, conn: conn}, nil
}

// Destroy destroys the surface and its xcb connection.
func (s *Surface) Destroy() {
	if s.conn == 0 {
		return
	}
	vk.DestroySurface(s.instance, s.handle, nil)
	xcbDisconnect(s.conn)
	s.conn = 0
}
