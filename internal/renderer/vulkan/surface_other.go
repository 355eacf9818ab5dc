//go:build !linux

package vulkan

import (
	"fmt"
	"runtime"

	"github.com/MartinNikolovMarinov/memviz/internal/platform"
)

func (i *Instance) CreateSurface(platform.SurfaceTarget) (platform.Surface, error) {
	return nil, fmt.Errorf("xcb surfaces are not supported on %s", runtime.GOOS)
}
