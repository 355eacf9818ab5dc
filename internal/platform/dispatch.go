package platform

import (
	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/MartinNikolovMarinov/memviz/internal/input"
)

// Core pointer buttons. 4 and 5 are the vertical wheel.
const (
	buttonLeft       xproto.Button = 1
	buttonMiddle     xproto.Button = 2
	buttonRight      xproto.Button = 3
	buttonScrollUp   xproto.Button = 4
	buttonScrollDown xproto.Button = 5
)

func (w *Window) dispatch(ev xgb.Event) {
	switch e := ev.(type) {
	case xproto.KeyPressEvent:
		w.dispatchKey(e.Detail, e.State, true)
	case xproto.KeyReleaseEvent:
		w.dispatchKey(e.Detail, e.State, false)
	case xproto.ButtonPressEvent:
		w.dispatchButton(e.Detail, true, int(e.EventX), int(e.EventY), e.State)
	case xproto.ButtonReleaseEvent:
		w.dispatchButton(e.Detail, false, int(e.EventX), int(e.EventY), e.State)
	case xproto.MotionNotifyEvent:
		if w.onMouseMove != nil {
			w.onMouseMove(int(e.EventX), int(e.EventY))
		}
	case xproto.EnterNotifyEvent:
		if w.onEnterLeave != nil {
			w.onEnterLeave(true)
		}
	case xproto.LeaveNotifyEvent:
		if w.onEnterLeave != nil {
			w.onEnterLeave(false)
		}
	case xproto.FocusInEvent:
		if w.onFocus != nil {
			w.onFocus(true)
		}
	case xproto.FocusOutEvent:
		if w.onFocus != nil {
			w.onFocus(false)
		}
	case xproto.ConfigureNotifyEvent:
		if w.onResize != nil {
			w.onResize(int(e.Width), int(e.Height))
		}
	case xproto.DestroyNotifyEvent:
		if e.Window != w.display.Window() || w.closeFired {
			return
		}
		w.fireClose()
	case xproto.ClientMessageEvent:
		if e.Format != 32 || len(e.Data.Data32) == 0 ||
			xproto.Atom(e.Data.Data32[0]) != w.display.DeleteWindowAtom() {
			return
		}
		w.fireClose()
	default:
		w.log.Trace("unhandled event", "event", ev.String())
	}
}

func (w *Window) fireClose() {
	w.closeFired = true
	w.log.Info("close requested")
	if w.onClose != nil {
		w.onClose()
	}
}

func (w *Window) dispatchKey(keycode xproto.Keycode, state uint16, pressed bool) {
	if w.onKey == nil {
		return
	}
	keysym := w.display.Keysym(keycode)
	w.onKey(keysym, uint32(keycode), pressed, modifiersFromState(state))
}

func (w *Window) dispatchButton(button xproto.Button, pressed bool, x, y int, state uint16) {
	// A scroll callback claims the wheel buttons. Each notch arrives as a
	// press/release pair and only the press scrolls. Without one they are
	// ordinary unmapped clicks.
	if (button == buttonScrollUp || button == buttonScrollDown) && w.onScroll != nil {
		if pressed {
			dir := input.ScrollUp
			if button == buttonScrollDown {
				dir = input.ScrollDown
			}
			w.onScroll(dir, x, y)
		}
		return
	}

	if w.onMouseClick == nil {
		return
	}
	w.onMouseClick(w.mouseButton(button), pressed, x, y, modifiersFromState(state))
}

func (w *Window) mouseButton(button xproto.Button) input.MouseButton {
	switch button {
	case buttonLeft:
		return input.MouseLeft
	case buttonMiddle:
		return input.MouseMiddle
	case buttonRight:
		return input.MouseRight
	}
	w.inputLog.Debug("unmapped mouse button", "button", int(button))
	return input.MouseNone
}

func modifiersFromState(state uint16) input.Modifiers {
	var mods input.Modifiers
	if state&xproto.ModMaskShift != 0 {
		mods |= input.ModShift
	}
	if state&xproto.ModMaskControl != 0 {
		mods |= input.ModControl
	}
	if state&xproto.ModMask1 != 0 {
		mods |= input.ModAlt
	}
	if state&xproto.ModMask4 != 0 {
		mods |= input.ModSuper
	}
	return mods
}
