// Package errcode defines the closed set of failure codes shared by the
// windowing and graphics backends.
package errcode

import (
	"errors"
	"fmt"
)

// Error is a failure code. OK is always zero and Sentinel terminates the set.
type Error int

const (
	OK Error = iota

	// Windowing backend (X11).
	X11DisplayOpen
	X11WindowCreate
	X11ThreadsInit
	X11SurfaceCreate
	X11Protocol
	X11ConnectionLost

	// Graphics backend (Vulkan).
	VulkanLoader
	VulkanLayerEnumerate
	VulkanExtensionEnumerate
	VulkanMissingLayer
	VulkanMissingExtension
	VulkanInstanceCreate
	VulkanDebugCallback

	Sentinel
)

var descriptions = [...]string{
	OK:                       "ok",
	X11DisplayOpen:           "failed to open X display",
	X11WindowCreate:          "failed to create X11 window",
	X11ThreadsInit:           "failed to initialize X11 threads",
	X11SurfaceCreate:         "failed to create X11 Vulkan surface",
	X11Protocol:              "severe X11 protocol error",
	X11ConnectionLost:        "X11 connection closed",
	VulkanLoader:             "failed to load the Vulkan loader",
	VulkanLayerEnumerate:     "failed to enumerate Vulkan instance layers",
	VulkanExtensionEnumerate: "failed to enumerate Vulkan instance extensions",
	VulkanMissingLayer:       "required Vulkan instance layer is not supported",
	VulkanMissingExtension:   "required Vulkan instance extension is not supported",
	VulkanInstanceCreate:     "failed to create Vulkan instance",
	VulkanDebugCallback:      "failed to install Vulkan diagnostics callback",
}

var names = [...]string{
	OK:                       "OK",
	X11DisplayOpen:           "X11DisplayOpen",
	X11WindowCreate:          "X11WindowCreate",
	X11ThreadsInit:           "X11ThreadsInit",
	X11SurfaceCreate:         "X11SurfaceCreate",
	X11Protocol:              "X11Protocol",
	X11ConnectionLost:        "X11ConnectionLost",
	VulkanLoader:             "VulkanLoader",
	VulkanLayerEnumerate:     "VulkanLayerEnumerate",
	VulkanExtensionEnumerate: "VulkanExtensionEnumerate",
	VulkanMissingLayer:       "VulkanMissingLayer",
	VulkanMissingExtension:   "VulkanMissingExtension",
	VulkanInstanceCreate:     "VulkanInstanceCreate",
	VulkanDebugCallback:      "VulkanDebugCallback",
}

// Error returns the human readable description, so a code can be returned
// directly as an error value.
func (e Error) Error() string {
	if !e.Valid() {
		return "unknown"
	}
	return descriptions[e]
}

// String returns the identifier of the code.
func (e Error) String() string {
	if !e.Valid() {
		return fmt.Sprintf("Error(%d)", int(e))
	}
	return names[e]
}

// Valid reports whether e is a member of the set (OK included, Sentinel excluded).
func (e Error) Valid() bool {
	return e >= OK && e < Sentinel
}

// All returns every valid code in ordinal order.
func All() []Error {
	out := make([]Error, 0, int(Sentinel))
	for e := OK; e < Sentinel; e++ {
		out = append(out, e)
	}
	return out
}

// Parse resolves a code by its identifier.
func Parse(name string) (Error, bool) {
	for e := OK; e < Sentinel; e++ {
		if names[e] == name {
			return e, true
		}
	}
	return Sentinel, false
}

// Failure couples a code with the native cause that produced it.
type Failure struct {
	Code Error
	Err  error
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return f.Code.Error()
	}
	return f.Code.Error() + ": " + f.Err.Error()
}

func (f *Failure) Unwrap() error { return f.Err }

// Is matches a bare code, so errors.Is(err, errcode.X11DisplayOpen) works
// through any amount of wrapping.
func (f *Failure) Is(target error) bool {
	code, ok := target.(Error)
	return ok && code == f.Code
}

// Wrap attaches code to cause. A nil cause yields the bare code.
func Wrap(code Error, cause error) error {
	if cause == nil {
		return code
	}
	return &Failure{Code: code, Err: cause}
}

// Of recovers the code carried by err: OK for nil, Sentinel when err was not
// produced by this package.
func Of(err error) Error {
	if err == nil {
		return OK
	}
	var f *Failure
	if errors.As(err, &f) {
		return f.Code
	}
	var code Error
	if errors.As(err, &code) {
		return code
	}
	return Sentinel
}
