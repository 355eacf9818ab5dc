package platform

import (
	"errors"
	"reflect"
	"testing"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/MartinNikolovMarinov/memviz/internal/errcode"
	"github.com/MartinNikolovMarinov/memviz/internal/input"
	"github.com/MartinNikolovMarinov/memviz/internal/x11"
)

const (
	testWindow     xproto.Window = 0x400001
	testDeleteAtom xproto.Atom   = 301
)

type fakeDisplay struct {
	width, height int
	geometryErr   error
	createErr     error

	events []xgb.Event
	errs   []error

	created   bool
	destroyed int
	closed    int
	calls     []string
}

func (d *fakeDisplay) CreateWindow(title string, width, height int) error {
	d.calls = append(d.calls, "create")
	if d.createErr != nil {
		return d.createErr
	}
	d.created = true
	d.width, d.height = width, height
	return nil
}

func (d *fakeDisplay) NextEvent(block bool) (xgb.Event, error) {
	if len(d.errs) > 0 {
		err := d.errs[0]
		d.errs = d.errs[1:]
		return nil, err
	}
	if len(d.events) == 0 {
		if block {
			return nil, x11.ErrConnectionClosed
		}
		return nil, nil
	}
	ev := d.events[0]
	d.events = d.events[1:]
	return ev, nil
}

func (d *fakeDisplay) Geometry() (int, int, error) {
	if d.geometryErr != nil {
		return 0, 0, d.geometryErr
	}
	return d.width, d.height, nil
}

func (d *fakeDisplay) Window() xproto.Window { return testWindow }
func (d *fakeDisplay) DeleteWindowAtom() xproto.Atom { return testDeleteAtom }
func (d *fakeDisplay) DisplayName() string { return ":99" }
func (d *fakeDisplay) Keysym(k xproto.Keycode) uint32 { return uint32(k) + 1000 }

func (d *fakeDisplay) DestroyWindow() {
	d.calls = append(d.calls, "destroy")
	d.destroyed++
}

func (d *fakeDisplay) Close() {
	d.calls = append(d.calls, "close")
	d.closed++
}

type fakeConnector struct {
	display    *fakeDisplay
	threadsErr error
	connectErr error
}

func (c *fakeConnector) InitThreads() error { return c.threadsErr }

func (c *fakeConnector) Connect(string) (Display, error) {
	if c.connectErr != nil {
		return nil, c.connectErr
	}
	return c.display, nil
}

func newTestWindow(t *testing.T) (*Window, *fakeDisplay) {
	t.Helper()
	d := &fakeDisplay{}
	w := NewWindow(&fakeConnector{display: d}, "")
	if err := w.Init("App", 800, 600); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	return w, d
}

func mustPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s did not panic", name)
		}
	}()
	fn()
}

func TestWindowRoundTrip(t *testing.T) {
	w, d := newTestWindow(t)

	if w.State() != StateInitialized {
		t.Fatalf("State() = %v, want initialized", w.State())
	}
	width, height, ok := w.FramebufferSize()
	if !ok || width != 800 || height != 600 {
		t.Fatalf("FramebufferSize() = (%d, %d, %v), want (800, 600, true)", width, height, ok)
	}

	w.Shutdown()
	if w.State() != StateDestroyed {
		t.Errorf("State() = %v, want destroyed", w.State())
	}
	want := []string{"create", "destroy", "close"}
	if len(d.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", d.calls, want)
	}
	for i := range want {
		if d.calls[i] != want[i] {
			t.Fatalf("calls = %v, want %v", d.calls, want)
		}
	}

	mustPanic(t, "FramebufferSize after Shutdown", func() { w.FramebufferSize() })
	mustPanic(t, "PollEvents after Shutdown", func() { _ = w.PollEvents(false) })
	mustPanic(t, "Init after Shutdown", func() { _ = w.Init("App", 1, 1) })
}

func TestShutdownIdempotent(t *testing.T) {
	w, d := newTestWindow(t)
	w.Shutdown()
	w.Shutdown()
	if d.destroyed != 1 || d.closed != 1 {
		t.Errorf("destroyed=%d closed=%d, want 1 and 1", d.destroyed, d.closed)
	}
}

func TestShutdownWithoutInit(t *testing.T) {
	w := NewWindow(&fakeConnector{display: &fakeDisplay{}}, "")
	w.Shutdown()
	if w.State() != StateDestroyed {
		t.Errorf("State() = %v, want destroyed", w.State())
	}
}

func TestInitTwicePanics(t *testing.T) {
	w, _ := newTestWindow(t)
	mustPanic(t, "second Init", func() { _ = w.Init("App", 800, 600) })
}

func TestInitFailures(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name      string
		connector *fakeConnector
		want      errcode.Error
		wantCalls []string
	}{
		{"threads", &fakeConnector{display: &fakeDisplay{}, threadsErr: cause}, errcode.X11ThreadsInit, nil},
		{"display", &fakeConnector{connectErr: cause}, errcode.X11DisplayOpen, nil},
		// A window whose properties failed after creation still has to go.
		{"window", &fakeConnector{display: &fakeDisplay{createErr: cause}}, errcode.X11WindowCreate, []string{"create", "destroy", "close"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWindow(tt.connector, "")
			err := w.Init("App", 800, 600)
			if errcode.Of(err) != tt.want {
				t.Fatalf("Init() error = %v, want %v", err, tt.want)
			}
			if !errors.Is(err, cause) {
				t.Errorf("Init() error does not wrap cause: %v", err)
			}

			w.Shutdown()
			if d := tt.connector.display; d != nil {
				if !reflect.DeepEqual(d.calls, tt.wantCalls) {
					t.Errorf("calls = %v, want %v", d.calls, tt.wantCalls)
				}
			}
		})
	}
}

func TestFramebufferSizeFailure(t *testing.T) {
	w, d := newTestWindow(t)
	d.geometryErr = errors.New("no reply")

	width, height, ok := w.FramebufferSize()
	if ok || width != 0 || height != 0 {
		t.Errorf("FramebufferSize() = (%d, %d, %v), want (0, 0, false)", width, height, ok)
	}
}

func TestPollEventsEmptyNonBlocking(t *testing.T) {
	w, _ := newTestWindow(t)
	if err := w.PollEvents(false); err != nil {
		t.Errorf("PollEvents(false) = %v, want nil", err)
	}
}

func TestPollEventReportsHandled(t *testing.T) {
	w, d := newTestWindow(t)
	d.events = []xgb.Event{xproto.FocusInEvent{}, xproto.FocusOutEvent{}}

	for i := 0; i < 2; i++ {
		handled, err := w.PollEvent(false)
		if err != nil || !handled {
			t.Fatalf("PollEvent(false) #%d = (%v, %v), want (true, nil)", i, handled, err)
		}
	}
	handled, err := w.PollEvent(false)
	if err != nil || handled {
		t.Errorf("PollEvent(false) on empty queue = (%v, %v), want (false, nil)", handled, err)
	}
}

func TestPollEventsConnectionLost(t *testing.T) {
	w, _ := newTestWindow(t)
	err := w.PollEvents(true)
	if errcode.Of(err) != errcode.X11ConnectionLost {
		t.Errorf("PollEvents(true) = %v, want X11ConnectionLost", err)
	}
}

func TestPollEventsNativeErrors(t *testing.T) {
	tests := []struct {
		name string
		err  xgb.Error
		want errcode.Error
	}{
		{"benign", xproto.WindowError{BadValue: uint32(testWindow)}, errcode.OK},
		{"recoverable", xproto.AtomError{}, errcode.OK},
		{"severe", xproto.MatchError{MajorOpcode: 1}, errcode.X11Protocol},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, d := newTestWindow(t)
			d.errs = []error{tt.err}

			err := w.PollEvents(false)
			if errcode.Of(err) != tt.want {
				t.Errorf("PollEvents() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestResizeFiresOnce(t *testing.T) {
	w, d := newTestWindow(t)

	var calls [][2]int
	w.OnWindowResize(func(width, height int) { calls = append(calls, [2]int{width, height}) })

	d.events = []xgb.Event{xproto.ConfigureNotifyEvent{Window: testWindow, Width: 1024, Height: 768}}
	if err := w.PollEvents(false); err != nil {
		t.Fatalf("PollEvents() = %v", err)
	}
	if err := w.PollEvents(false); err != nil {
		t.Fatalf("PollEvents() = %v", err)
	}

	if len(calls) != 1 || calls[0] != [2]int{1024, 768} {
		t.Errorf("resize calls = %v, want [[1024 768]]", calls)
	}
}

func deleteRequest() xproto.ClientMessageEvent {
	return xproto.ClientMessageEvent{
		Format: 32,
		Window: testWindow,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{uint32(testDeleteAtom), 0, 0, 0, 0}),
	}
}

func TestCloseFiresOnce(t *testing.T) {
	tests := []struct {
		name   string
		events []xgb.Event
	}{
		{"destroy notify", []xgb.Event{xproto.DestroyNotifyEvent{Window: testWindow}}},
		{"delete request", []xgb.Event{deleteRequest()}},
		{"delete then destroy", []xgb.Event{deleteRequest(), xproto.DestroyNotifyEvent{Window: testWindow}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, d := newTestWindow(t)
			closes := 0
			w.OnWindowClose(func() { closes++ })

			d.events = tt.events
			for range tt.events {
				if err := w.PollEvents(false); err != nil {
					t.Fatalf("PollEvents() = %v", err)
				}
			}
			if closes != 1 {
				t.Errorf("close fired %d times, want 1", closes)
			}
		})
	}
}

func TestCloseIgnoresForeignWindowsAndAtoms(t *testing.T) {
	w, d := newTestWindow(t)
	closes := 0
	w.OnWindowClose(func() { closes++ })

	other := deleteRequest()
	other.Data = xproto.ClientMessageDataUnionData32New([]uint32{999, 0, 0, 0, 0})
	d.events = []xgb.Event{
		xproto.DestroyNotifyEvent{Window: testWindow + 1},
		other,
	}
	for i := 0; i < 2; i++ {
		if err := w.PollEvents(false); err != nil {
			t.Fatalf("PollEvents() = %v", err)
		}
	}
	if closes != 0 {
		t.Errorf("close fired %d times, want 0", closes)
	}
}

func allEvents() []xgb.Event {
	return []xgb.Event{
		xproto.KeyPressEvent{Detail: 38},
		xproto.KeyReleaseEvent{Detail: 38},
		xproto.ButtonPressEvent{Detail: 1},
		xproto.ButtonReleaseEvent{Detail: 1},
		xproto.ButtonPressEvent{Detail: 4},
		xproto.ButtonReleaseEvent{Detail: 4},
		xproto.MotionNotifyEvent{EventX: 3, EventY: 4},
		xproto.EnterNotifyEvent{},
		xproto.LeaveNotifyEvent{},
		xproto.FocusInEvent{},
		xproto.FocusOutEvent{},
		xproto.ConfigureNotifyEvent{Width: 10, Height: 10},
		xproto.DestroyNotifyEvent{Window: testWindow},
		xproto.ExposeEvent{},
	}
}

func TestNilCallbacksAreNoOps(t *testing.T) {
	w, d := newTestWindow(t)
	d.events = allEvents()
	for range d.events {
		if err := w.PollEvents(false); err != nil {
			t.Fatalf("PollEvents() = %v", err)
		}
	}
}

func TestUnregisterWithNil(t *testing.T) {
	w, d := newTestWindow(t)
	moves := 0
	w.OnMouseMove(func(int, int) { moves++ })
	w.OnMouseMove(nil)

	d.events = []xgb.Event{xproto.MotionNotifyEvent{EventX: 1, EventY: 1}}
	if err := w.PollEvents(false); err != nil {
		t.Fatalf("PollEvents() = %v", err)
	}
	if moves != 0 {
		t.Errorf("move fired %d times after unregister", moves)
	}
}

func TestKeyDispatch(t *testing.T) {
	w, d := newTestWindow(t)

	type keyCall struct {
		keysym, scancode uint32
		pressed          bool
		mods             input.Modifiers
	}
	var got []keyCall
	w.OnKey(func(keysym, scancode uint32, pressed bool, mods input.Modifiers) {
		got = append(got, keyCall{keysym, scancode, pressed, mods})
	})

	d.events = []xgb.Event{
		xproto.KeyPressEvent{Detail: 38, State: xproto.ModMaskShift | xproto.ModMask4},
		xproto.KeyReleaseEvent{Detail: 38, State: xproto.ModMaskLock},
	}
	for range d.events {
		if err := w.PollEvents(false); err != nil {
			t.Fatalf("PollEvents() = %v", err)
		}
	}

	want := []keyCall{
		{1038, 38, true, input.ModShift | input.ModSuper},
		{1038, 38, false, input.ModNone},
	}
	if len(got) != len(want) {
		t.Fatalf("key calls = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("key call %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestMouseDispatch(t *testing.T) {
	w, d := newTestWindow(t)

	type click struct {
		button  input.MouseButton
		pressed bool
		x, y    int
		mods    input.Modifiers
	}
	var clicks []click
	var scrolls []input.ScrollDirection
	w.OnMouseClick(func(b input.MouseButton, pressed bool, x, y int, mods input.Modifiers) {
		clicks = append(clicks, click{b, pressed, x, y, mods})
	})
	w.OnMouseScroll(func(dir input.ScrollDirection, x, y int) {
		scrolls = append(scrolls, dir)
	})

	d.events = []xgb.Event{
		xproto.ButtonPressEvent{Detail: 3, EventX: 5, EventY: 6, State: xproto.ModMaskControl | xproto.ModMask1},
		xproto.ButtonPressEvent{Detail: 4},
		xproto.ButtonReleaseEvent{Detail: 4},
		xproto.ButtonPressEvent{Detail: 5},
		xproto.ButtonReleaseEvent{Detail: 5},
		xproto.ButtonPressEvent{Detail: 8},
		xproto.ButtonReleaseEvent{Detail: 2},
	}
	for range d.events {
		if err := w.PollEvents(false); err != nil {
			t.Fatalf("PollEvents() = %v", err)
		}
	}

	wantClicks := []click{
		{input.MouseRight, true, 5, 6, input.ModControl | input.ModAlt},
		{input.MouseNone, true, 0, 0, input.ModNone},
		{input.MouseMiddle, false, 0, 0, input.ModNone},
	}
	if len(clicks) != len(wantClicks) {
		t.Fatalf("clicks = %+v, want %+v", clicks, wantClicks)
	}
	for i := range wantClicks {
		if clicks[i] != wantClicks[i] {
			t.Errorf("click %d = %+v, want %+v", i, clicks[i], wantClicks[i])
		}
	}

	wantScrolls := []input.ScrollDirection{input.ScrollUp, input.ScrollDown}
	if len(scrolls) != len(wantScrolls) || scrolls[0] != wantScrolls[0] || scrolls[1] != wantScrolls[1] {
		t.Errorf("scrolls = %v, want %v", scrolls, wantScrolls)
	}
}

func TestScrollButtonsWithoutScrollCallback(t *testing.T) {
	w, d := newTestWindow(t)

	type click struct {
		button  input.MouseButton
		pressed bool
	}
	var clicks []click
	w.OnMouseClick(func(b input.MouseButton, pressed bool, x, y int, mods input.Modifiers) {
		clicks = append(clicks, click{b, pressed})
	})

	d.events = []xgb.Event{
		xproto.ButtonPressEvent{Detail: 4},
		xproto.ButtonReleaseEvent{Detail: 4},
		xproto.ButtonPressEvent{Detail: 5},
	}
	for range d.events {
		if err := w.PollEvents(false); err != nil {
			t.Fatalf("PollEvents() = %v", err)
		}
	}

	want := []click{{input.MouseNone, true}, {input.MouseNone, false}, {input.MouseNone, true}}
	if !reflect.DeepEqual(clicks, want) {
		t.Fatalf("clicks = %+v, want %+v", clicks, want)
	}

	// Registering a scroll callback takes the wheel buttons away from clicks.
	var scrolls []input.ScrollDirection
	w.OnMouseScroll(func(dir input.ScrollDirection, x, y int) { scrolls = append(scrolls, dir) })
	d.events = []xgb.Event{
		xproto.ButtonPressEvent{Detail: 5},
		xproto.ButtonReleaseEvent{Detail: 5},
	}
	for range d.events {
		if err := w.PollEvents(false); err != nil {
			t.Fatalf("PollEvents() = %v", err)
		}
	}
	if len(clicks) != len(want) {
		t.Errorf("clicks = %+v, want no new clicks", clicks)
	}
	if len(scrolls) != 1 || scrolls[0] != input.ScrollDown {
		t.Errorf("scrolls = %v, want [down]", scrolls)
	}
}

func TestFocusAndEnterLeave(t *testing.T) {
	w, d := newTestWindow(t)

	var focus, enter []bool
	w.OnWindowFocus(func(gained bool) { focus = append(focus, gained) })
	w.OnMouseEnterLeave(func(entered bool) { enter = append(enter, entered) })

	d.events = []xgb.Event{
		xproto.FocusInEvent{},
		xproto.EnterNotifyEvent{},
		xproto.LeaveNotifyEvent{},
		xproto.FocusOutEvent{},
	}
	for range d.events {
		if err := w.PollEvents(false); err != nil {
			t.Fatalf("PollEvents() = %v", err)
		}
	}

	if len(focus) != 2 || !focus[0] || focus[1] {
		t.Errorf("focus = %v, want [true false]", focus)
	}
	if len(enter) != 2 || !enter[0] || enter[1] {
		t.Errorf("enter = %v, want [true false]", enter)
	}
}

type fakeSurface struct{}

func (fakeSurface) Destroy() {}

type fakeFactory struct {
	target SurfaceTarget
	err    error
}

func (f *fakeFactory) CreateSurface(target SurfaceTarget) (Surface, error) {
	f.target = target
	if f.err != nil {
		return nil, f.err
	}
	return fakeSurface{}, nil
}

func TestCreateSurface(t *testing.T) {
	w, _ := newTestWindow(t)

	f := &fakeFactory{}
	if _, err := w.CreateSurface(f); err != nil {
		t.Fatalf("CreateSurface() = %v", err)
	}
	if f.target.DisplayName != ":99" || f.target.Window != uint32(testWindow) {
		t.Errorf("target = %+v", f.target)
	}

	f.err = errors.New("no surface")
	_, err := w.CreateSurface(f)
	if errcode.Of(err) != errcode.X11SurfaceCreate {
		t.Errorf("CreateSurface() = %v, want X11SurfaceCreate", err)
	}
}

func TestRequiredExtensions(t *testing.T) {
	w := NewWindow(&fakeConnector{display: &fakeDisplay{}}, "")
	mustPanic(t, "RequiredExtensions before Init", func() { w.RequiredExtensions() })

	if err := w.Init("App", 1, 1); err != nil {
		t.Fatal(err)
	}
	exts := w.RequiredExtensions()
	if w.RequiredExtensionCount() != 1 || exts[0] != "VK_KHR_xcb_surface" {
		t.Errorf("RequiredExtensions() = %v", exts)
	}
}
