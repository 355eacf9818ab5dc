package x11

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xprop"
)

// EventMask is the set of event classes a window created by this package
// subscribes to.
const EventMask = xproto.EventMaskExposure |
	xproto.EventMaskKeyPress |
	xproto.EventMaskKeyRelease |
	xproto.EventMaskButtonPress |
	xproto.EventMaskButtonRelease |
	xproto.EventMaskPointerMotion |
	xproto.EventMaskEnterWindow |
	xproto.EventMaskLeaveWindow |
	xproto.EventMaskFocusChange |
	xproto.EventMaskStructureNotify

// Initial window position and border, relative to the root window.
const (
	windowX      = 10
	windowY      = 10
	windowBorder = 1
)

// SurfaceExtension is the instance extension a presentation engine needs to
// render into windows created by this package.
const SurfaceExtension = "VK_KHR_xcb_surface"

// ErrConnectionClosed is returned by a blocking read when the server side of
// the connection went away.
var ErrConnectionClosed = errors.New("x11: connection closed")

// InitThreads pins the calling goroutine to its OS thread. Presentation
// engines expect window system calls from one thread, so this must run
// before any other call into this package.
func InitThreads() error {
	runtime.LockOSThread()
	return nil
}

// Connection manages the X11 connection and the single top-level window it
// owns.
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window

	displayName string
	window      xproto.Window
	deleteAtom  xproto.Atom
}

// Open connects to the X server named by displayName. An empty name is
// resolved with ResolveDisplay.
func Open(displayName string) (*Connection, error) {
	displayName = ResolveDisplay(displayName)
	if displayName == "" {
		return nil, fmt.Errorf("no display: set $DISPLAY or the display config key")
	}

	xu, err := xgbutil.NewConnDisplay(displayName)
	if err != nil {
		return nil, err
	}

	// Needed for keycode to keysym lookups.
	keybind.Initialize(xu)

	return &Connection{
		XUtil:       xu,
		Root:        xu.RootWin(),
		displayName: displayName,
	}, nil
}

// CreateWindow creates, titles and maps the top-level window, registers for
// WM_DELETE_WINDOW and waits until the server has processed every request.
func (c *Connection) CreateWindow(title string, width, height int) error {
	if c.window != 0 {
		return fmt.Errorf("window %d already created", c.window)
	}
	if width <= 0 || height <= 0 || width > 0xFFFF || height > 0xFFFF {
		return fmt.Errorf("invalid window size %dx%d", width, height)
	}

	conn := c.XUtil.Conn()
	screen := c.XUtil.Screen()

	wid, err := xproto.NewWindowId(conn)
	if err != nil {
		return fmt.Errorf("allocate window id: %w", err)
	}

	// Value list order follows the bit positions of the mask (low to high):
	// CwBackPixel, CwBorderPixel, CwEventMask.
	err = xproto.CreateWindowChecked(
		conn,
		screen.RootDepth,
		wid,
		c.Root,
		windowX, windowY,
		uint16(width), uint16(height),
		windowBorder,
		xproto.WindowClassInputOutput,
		screen.RootVisual,
		xproto.CwBackPixel|xproto.CwBorderPixel|xproto.CwEventMask,
		[]uint32{screen.WhitePixel, screen.BlackPixel, uint32(EventMask)},
	).Check()
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	c.window = wid

	if err := icccm.WmNameSet(c.XUtil, wid, title); err != nil {
		return fmt.Errorf("set WM_NAME: %w", err)
	}
	if err := ewmh.WmNameSet(c.XUtil, wid, title); err != nil {
		return fmt.Errorf("set _NET_WM_NAME: %w", err)
	}

	c.deleteAtom, err = xprop.Atm(c.XUtil, "WM_DELETE_WINDOW")
	if err != nil {
		return fmt.Errorf("intern WM_DELETE_WINDOW: %w", err)
	}
	if err := icccm.WmProtocolsSet(c.XUtil, wid, []string{"WM_DELETE_WINDOW"}); err != nil {
		return fmt.Errorf("set WM_PROTOCOLS: %w", err)
	}

	if err := xproto.MapWindowChecked(conn, wid).Check(); err != nil {
		return fmt.Errorf("map window: %w", err)
	}
	c.XUtil.Sync()
	return nil
}

// NextEvent reads one item from the server stream. With block false and an
// empty queue it returns (nil, nil). Protocol errors come back as the error
// value and satisfy xgb.Error.
func (c *Connection) NextEvent(block bool) (xgb.Event, error) {
	conn := c.XUtil.Conn()

	var (
		ev   xgb.Event
		xerr xgb.Error
	)
	if block {
		ev, xerr = conn.WaitForEvent()
		if ev == nil && xerr == nil {
			return nil, ErrConnectionClosed
		}
	} else {
		ev, xerr = conn.PollForEvent()
	}
	if xerr != nil {
		return nil, xerr
	}
	return ev, nil
}

// Geometry returns the current size of the owned window.
func (c *Connection) Geometry() (width, height int, err error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.window)).Reply()
	if err != nil {
		return 0, 0, err
	}
	return int(geom.Width), int(geom.Height), nil
}

// Window returns the owned window id, zero before CreateWindow.
func (c *Connection) Window() xproto.Window { return c.window }

// DeleteWindowAtom returns the interned WM_DELETE_WINDOW atom.
func (c *Connection) DeleteWindowAtom() xproto.Atom { return c.deleteAtom }

// DisplayName returns the display this connection was opened against.
func (c *Connection) DisplayName() string { return c.displayName }

// Keysym returns the unshifted (column 0) keysym for keycode.
func (c *Connection) Keysym(keycode xproto.Keycode) uint32 {
	return uint32(keybind.KeysymGet(c.XUtil, keycode, 0))
}

// DestroyWindow destroys the owned window if there is one.
func (c *Connection) DestroyWindow() {
	if c.window == 0 {
		return
	}
	xproto.DestroyWindow(c.XUtil.Conn(), c.window)
	c.XUtil.Sync()
	c.window = 0
}

// Close cleanly disconnects from the X11 server.
func (c *Connection) Close() {
	c.XUtil.Conn().Close()
}
