//go:build !linux && !darwin

package vulkan

import (
	"fmt"
	"runtime"

	vk "github.com/vulkan-go/vulkan"
)

func procAddr(vk.Instance, string) (uintptr, error) {
	return 0, fmt.Errorf("vulkan loader lookup is not supported on %s", runtime.GOOS)
}
