package vulkan

import (
	"testing"

	vk "github.com/vulkan-go/vulkan"

	"github.com/MartinNikolovMarinov/memviz/internal/renderer"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		flags   vk.DebugReportFlagBits
		prefix  string
		wantSev renderer.Severity
		wantCat renderer.Category
	}{
		{"validation error", vk.DebugReportErrorBit, "Validation", renderer.SeverityError, renderer.CategoryValidation},
		{"loader warning", vk.DebugReportWarningBit, "Loader Message", renderer.SeverityWarning, renderer.CategoryGeneral},
		{"performance", vk.DebugReportPerformanceWarningBit, "Validation", renderer.SeverityWarning, renderer.CategoryPerformance},
		{"info", vk.DebugReportInformationBit, "", renderer.SeverityInfo, renderer.CategoryGeneral},
		{"debug", vk.DebugReportDebugBit, "", renderer.SeverityVerbose, renderer.CategoryGeneral},
		{"error wins", vk.DebugReportErrorBit | vk.DebugReportWarningBit, "", renderer.SeverityError, renderer.CategoryGeneral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sev, cat := classify(vk.DebugReportFlags(tt.flags), tt.prefix)
			if sev != tt.wantSev || cat != tt.wantCat {
				t.Errorf("classify() = (%v, %v), want (%v, %v)", sev, cat, tt.wantSev, tt.wantCat)
			}
		})
	}
}

func TestReportFlags(t *testing.T) {
	got := reportFlags([]renderer.Severity{renderer.SeverityError, renderer.SeverityWarning})
	want := vk.DebugReportFlags(vk.DebugReportErrorBit | vk.DebugReportWarningBit | vk.DebugReportPerformanceWarningBit)
	if got != want {
		t.Errorf("reportFlags() = %#x, want %#x", got, want)
	}
	if reportFlags(nil) != 0 {
		t.Errorf("reportFlags(nil) = %#x, want 0", reportFlags(nil))
	}
}

func TestSafeString(t *testing.T) {
	tests := map[string]string{
		"":                   "\x00",
		"VK_KHR_surface":     "VK_KHR_surface\x00",
		"VK_KHR_surface\x00": "VK_KHR_surface\x00",
	}
	for in, want := range tests {
		if got := safeString(in); got != want {
			t.Errorf("safeString(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatReport(t *testing.T) {
	if got := formatReport("Validation", 7, "bad"); got != "Validation (7) bad" {
		t.Errorf("formatReport() = %q", got)
	}
	if got := formatReport("", 0, "hi"); got != "(0) hi" {
		t.Errorf("formatReport() = %q", got)
	}
}
