//go:build linux || darwin

package vulkan

import (
	"testing"

	"github.com/MartinNikolovMarinov/memviz/internal/renderer"
)

func requireLoader(t *testing.T) {
	t.Helper()
	if err := loadLoader(); err != nil {
		t.Skipf("vulkan loader not available: %v", err)
	}
}

func TestProcAddrGlobalCommands(t *testing.T) {
	requireLoader(t)

	fn, err := procAddr(nil, "vkCreateInstance")
	if err != nil {
		t.Fatalf("procAddr: %v", err)
	}
	if fn == 0 {
		t.Fatalf("expected vkCreateInstance to resolve without an instance")
	}

	fn, err = procAddr(nil, "vkNoSuchCommandMemviz")
	if err != nil {
		t.Fatalf("procAddr: %v", err)
	}
	if fn != 0 {
		t.Fatalf("expected unknown command to resolve to 0, got %#x", fn)
	}
}

func TestLoaderVersion(t *testing.T) {
	requireLoader(t)

	d := NewDriver()
	if err := d.Load(); err != nil {
		t.Skipf("load: %v", err)
	}
	v, err := d.LoaderVersion()
	if err != nil {
		t.Fatalf("LoaderVersion: %v", err)
	}
	if v < renderer.MakeVersion(1, 0, 0) {
		t.Fatalf("loader version %s below 1.0.0", renderer.VersionString(v))
	}
}

func TestCString(t *testing.T) {
	got := cString("vkCreateInstance")
	if len(got) != len("vkCreateInstance")+1 || got[len(got)-1] != 0 {
		t.Fatalf("expected NUL-terminated name, got %q", got)
	}
}
