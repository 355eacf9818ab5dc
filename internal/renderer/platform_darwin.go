//go:build darwin

package renderer

// MoltenVK is only enumerated when portability drivers are requested.
var platformExtensions = []string{"VK_KHR_portability_enumeration"}

// VK_INSTANCE_CREATE_ENUMERATE_PORTABILITY_BIT_KHR
const platformInstanceFlags uint32 = 0x1
