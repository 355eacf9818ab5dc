// Package platform owns the application window: its lifecycle, the event
// pump, and the translation of X11 events into input callbacks.
package platform

import (
	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/MartinNikolovMarinov/memviz/internal/input"
	"github.com/MartinNikolovMarinov/memviz/internal/x11"
)

// Display is the native connection a Window drives. *x11.Connection is the
// production implementation.
type Display interface {
	CreateWindow(title string, width, height int) error
	NextEvent(block bool) (xgb.Event, error)
	Geometry() (width, height int, err error)
	Window() xproto.Window
	DeleteWindowAtom() xproto.Atom
	DisplayName() string
	Keysym(keycode xproto.Keycode) uint32
	DestroyWindow()
	Close()
}

var _ Display = (*x11.Connection)(nil)

// Connector prepares the process for windowing and opens displays.
type Connector interface {
	InitThreads() error
	Connect(displayName string) (Display, error)
}

// X11 connects through xgb.
type X11 struct{}

var _ Connector = X11{}

func (X11) InitThreads() error { return x11.InitThreads() }

func (X11) Connect(displayName string) (Display, error) {
	conn, err := x11.Open(displayName)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// SurfaceTarget identifies the native window a presentation surface is
// created for.
type SurfaceTarget struct {
	DisplayName string
	Window      uint32
}

// Surface is a presentation surface owned by the renderer.
type Surface interface {
	Destroy()
}

// SurfaceFactory creates surfaces; the renderer instance implements it.
type SurfaceFactory interface {
	CreateSurface(target SurfaceTarget) (Surface, error)
}

// Callback signatures.
type (
	CloseFunc           func()
	ResizeFunc          func(width, height int)
	FocusFunc           func(gained bool)
	KeyFunc             func(keysym, scancode uint32, pressed bool, mods input.Modifiers)
	MouseClickFunc      func(button input.MouseButton, pressed bool, x, y int, mods input.Modifiers)
	MouseMoveFunc       func(x, y int)
	MouseScrollFunc     func(dir input.ScrollDirection, x, y int)
	MouseEnterLeaveFunc func(entered bool)
)
