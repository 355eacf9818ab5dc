package platform

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/xgb"

	"github.com/MartinNikolovMarinov/memviz/internal/errcode"
	"github.com/MartinNikolovMarinov/memviz/internal/logging"
	"github.com/MartinNikolovMarinov/memviz/internal/x11"
)

// State is the lifecycle position of a Window.
type State int

const (
	StateUninitialized State = iota
	StateInitialized
	StateDestroyed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitialized:
		return "initialized"
	case StateDestroyed:
		return "destroyed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Window is the single application window.
type Window struct {
	connector   Connector
	displayName string

	state   State
	display Display

	// Set once a WM_DELETE_WINDOW request has fired the close callback so the
	// DestroyNotify that follows it does not fire it again.
	closeFired bool

	onClose      CloseFunc
	onResize     ResizeFunc
	onFocus      FocusFunc
	onKey        KeyFunc
	onMouseClick MouseClickFunc
	onMouseMove  MouseMoveFunc
	onScroll     MouseScrollFunc
	onEnterLeave MouseEnterLeaveFunc

	log      *logging.Tagged
	inputLog *logging.Tagged
}

// NewWindow returns an uninitialized window that will connect to
// displayName ($DISPLAY when empty) through connector.
func NewWindow(connector Connector, displayName string) *Window {
	return &Window{
		connector:   connector,
		displayName: displayName,
		log:         logging.For(logging.TagPlatform),
		inputLog:    logging.For(logging.TagInput),
	}
}

// State reports the lifecycle state.
func (w *Window) State() State { return w.state }

// Init initializes windowing threads, connects to the display and creates
// and maps the window. It panics unless the window is uninitialized.
func (w *Window) Init(title string, width, height int) error {
	if w.state != StateUninitialized || w.display != nil {
		panic(fmt.Sprintf("platform: Init called on %s window", w.state))
	}

	w.log.Info("initializing", "title", title, "width", width, "height", height)

	if err := w.connector.InitThreads(); err != nil {
		w.log.Fatal("failed to initialize windowing threads", "err", err)
		return errcode.Wrap(errcode.X11ThreadsInit, err)
	}

	display, err := w.connector.Connect(w.displayName)
	if err != nil {
		w.log.Fatal("failed to open display", "display", w.displayName, "err", err)
		return errcode.Wrap(errcode.X11DisplayOpen, err)
	}
	w.display = display

	if err := display.CreateWindow(title, width, height); err != nil {
		w.log.Fatal("failed to create window", "err", err)
		return errcode.Wrap(errcode.X11WindowCreate, err)
	}
	w.state = StateInitialized

	w.log.Info("window created", "id", uint32(display.Window()), "display", display.DisplayName())
	return nil
}

// Shutdown destroys the window and closes the display. It is safe to call
// after a partial Init and more than once.
func (w *Window) Shutdown() {
	if w.state == StateDestroyed {
		return
	}
	if w.display != nil {
		w.display.DestroyWindow()
		w.display.Close()
		w.display = nil
	}
	w.state = StateDestroyed
	w.log.Info("shut down")
}

// PollEvents handles at most one native event. With block false and nothing
// queued it returns nil immediately.
func (w *Window) PollEvents(block bool) error {
	w.mustBeInitialized("PollEvents")
	_, err := w.pollEvent(block)
	return err
}

// PollEvent is PollEvents that also reports whether the queue yielded an
// event or error. A non-blocking caller that got false can idle.
func (w *Window) PollEvent(block bool) (bool, error) {
	w.mustBeInitialized("PollEvent")
	return w.pollEvent(block)
}

func (w *Window) pollEvent(block bool) (bool, error) {
	ev, err := w.display.NextEvent(block)
	if err != nil {
		return true, w.handleNativeError(err)
	}
	if ev == nil {
		return false, nil
	}
	w.dispatch(ev)
	return true, nil
}

func (w *Window) handleNativeError(err error) error {
	if errors.Is(err, x11.ErrConnectionClosed) {
		w.log.Error("display connection closed")
		return errcode.Wrap(errcode.X11ConnectionLost, err)
	}

	var xerr xgb.Error
	if !errors.As(err, &xerr) {
		w.log.Error("failed to read event", "err", err)
		return errcode.Wrap(errcode.X11ConnectionLost, err)
	}

	code, known := x11.ErrorCode(xerr)
	tier := x11.Classify(code)
	args := []any{
		"code", x11.ErrorName(code),
		"sequence", xerr.SequenceId(),
		"resource", xerr.BadId(),
		"err", xerr.Error(),
	}
	switch {
	case !known:
		w.log.Warn("unknown X error", args...)
	case tier == x11.Benign:
		w.log.Debug("ignoring X error", args...)
	case tier == x11.Recoverable:
		w.log.Warn("recoverable X error", args...)
	default:
		w.log.Error("severe X error", args...)
		return errcode.Wrap(errcode.X11Protocol, err)
	}
	return nil
}

// FramebufferSize returns the current window size. On failure it logs and
// returns zeros with ok false.
func (w *Window) FramebufferSize() (width, height int, ok bool) {
	w.mustBeInitialized("FramebufferSize")

	width, height, err := w.display.Geometry()
	if err != nil {
		w.log.Error("failed to query window geometry", "err", err)
		return 0, 0, false
	}
	return width, height, true
}

// RequiredExtensionCount is len(RequiredExtensions()).
func (w *Window) RequiredExtensionCount() int {
	return len(w.RequiredExtensions())
}

// RequiredExtensions lists the instance extensions a renderer must enable to
// present into this window.
func (w *Window) RequiredExtensions() []string {
	w.mustBeInitialized("RequiredExtensions")
	return []string{x11.SurfaceExtension}
}

// CreateSurface asks factory for a presentation surface bound to this window.
func (w *Window) CreateSurface(factory SurfaceFactory) (Surface, error) {
	w.mustBeInitialized("CreateSurface")

	target := SurfaceTarget{
		DisplayName: w.display.DisplayName(),
		Window:      uint32(w.display.Window()),
	}
	surface, err := factory.CreateSurface(target)
	if err != nil {
		w.log.Error("failed to create surface", "window", target.Window, "err", err)
		return nil, errcode.Wrap(errcode.X11SurfaceCreate, err)
	}
	w.log.Info("surface created", "window", target.Window)
	return surface, nil
}

// Callback registration. Passing nil unregisters.

func (w *Window) OnWindowClose(fn CloseFunc) { w.onClose = fn }
func (w *Window) OnWindowResize(fn ResizeFunc) { w.onResize = fn }
func (w *Window) OnWindowFocus(fn FocusFunc) { w.onFocus = fn }
func (w *Window) OnKey(fn KeyFunc) { w.onKey = fn }
func (w *Window) OnMouseClick(fn MouseClickFunc) { w.onMouseClick = fn }
func (w *Window) OnMouseMove(fn MouseMoveFunc) { w.onMouseMove = fn }
func (w *Window) OnMouseScroll(fn MouseScrollFunc) { w.onScroll = fn }
func (w *Window) OnMouseEnterLeave(fn MouseEnterLeaveFunc) { w.onEnterLeave = fn }

func (w *Window) mustBeInitialized(op string) {
	if w.state != StateInitialized {
		panic(fmt.Sprintf("platform: %s called on %s window", op, w.state))
	}
}
