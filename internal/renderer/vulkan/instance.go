package vulkan

import (
	"fmt"
	"strings"
	"unsafe"

	vk "github.com/vulkan-go/vulkan"

	"github.com/MartinNikolovMarinov/memviz/internal/renderer"
)

// Instance wraps a live VkInstance.
type Instance struct {
	handle vk.Instance

	debug    vk.DebugReportCallback
	hasDebug bool
}

var _ renderer.Instance = (*Instance)(nil)

// InstallDiagnostics registers a debug report callback forwarding the given
// severities to sink.
func (i *Instance) InstallDiagnostics(sink renderer.Sink, severities []renderer.Severity) error {
	if i.hasDebug {
		return fmt.Errorf("diagnostics already installed")
	}

	var cb vk.DebugReportCallback
	ret := vk.CreateDebugReportCallback(i.handle, &vk.DebugReportCallbackCreateInfo{
		SType: vk.StructureTypeDebugReportCallbackCreateInfo,
		Flags: reportFlags(severities),
		PfnCallback: func(flags vk.DebugReportFlags, _ vk.DebugReportObjectType, _ uint64, _ uint,
			code int32, prefix string, msg string, _ unsafe.Pointer) vk.Bool32 {
			sev, cat := classify(flags, prefix)
			if sink.Report(sev, cat, formatReport(prefix, code, msg)) {
				return vk.True
			}
			return vk.False
		},
	}, nil, &cb)
	if err := newError(ret); err != nil {
		return err
	}
	i.debug = cb
	i.hasDebug = true
	return nil
}

// RemoveDiagnostics unregisters the debug report callback if one is
// installed.
func (i *Instance) RemoveDiagnostics() {
	if !i.hasDebug {
		return
	}
	vk.DestroyDebugReportCallback(i.handle, i.debug, nil)
	i.hasDebug = false
}

// Destroy destroys the instance. The handle is unusable afterwards.
func (i *Instance) Destroy() {
	if i.handle == nil {
		return
	}
	i.RemoveDiagnostics()
	vk.DestroyInstance(i.handle, nil)
	i.handle = nil
}

func reportFlags(severities []renderer.Severity) vk.DebugReportFlags {
	var flags vk.DebugReportFlagBits
	for _, s := range severities {
		switch s {
		case renderer.SeverityError:
			flags |= vk.DebugReportErrorBit
		case renderer.SeverityWarning:
			flags |= vk.DebugReportWarningBit | vk.DebugReportPerformanceWarningBit
		case renderer.SeverityInfo:
			flags |= vk.DebugReportInformationBit
		case renderer.SeverityVerbose:
			flags |= vk.DebugReportDebugBit
		}
	}
	return vk.DebugReportFlags(flags)
}

// classify picks the most severe bit set in flags. Performance warnings get
// their own category; anything from a validation layer is validation.
func classify(flags vk.DebugReportFlags, prefix string) (renderer.Severity, renderer.Category) {
	has := func(bit vk.DebugReportFlagBits) bool { return flags&vk.DebugReportFlags(bit) != 0 }

	cat := renderer.CategoryGeneral
	if strings.Contains(strings.ToLower(prefix), "validation") {
		cat = renderer.CategoryValidation
	}

	switch {
	case has(vk.DebugReportErrorBit):
		return renderer.SeverityError, cat
	case has(vk.DebugReportPerformanceWarningBit):
		return renderer.SeverityWarning, renderer.CategoryPerformance
	case has(vk.DebugReportWarningBit):
		return renderer.SeverityWarning, cat
	case has(vk.DebugReportInformationBit):
		return renderer.SeverityInfo, cat
	}
	return renderer.SeverityVerbose, cat
}

func formatReport(prefix string, code int32, msg string) string {
	if prefix == "" {
		return fmt.Sprintf("(%d) %s", code, msg)
	}
	return fmt.Sprintf("%s (%d) %s", prefix, code, msg)
}
