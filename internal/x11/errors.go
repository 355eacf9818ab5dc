package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
)

// Core protocol error codes.
const (
	BadRequest        uint8 = 1
	BadValue          uint8 = 2
	BadWindow         uint8 = 3
	BadPixmap         uint8 = 4
	BadAtom           uint8 = 5
	BadCursor         uint8 = 6
	BadFont           uint8 = 7
	BadMatch          uint8 = 8
	BadDrawable       uint8 = 9
	BadAccess         uint8 = 10
	BadAlloc          uint8 = 11
	BadColormap       uint8 = 12
	BadGContext       uint8 = 13
	BadIDChoice       uint8 = 14
	BadName           uint8 = 15
	BadLength         uint8 = 16
	BadImplementation uint8 = 17
)

var errorNames = map[uint8]string{
	BadRequest:        "BadRequest",
	BadValue:          "BadValue",
	BadWindow:         "BadWindow",
	BadPixmap:         "BadPixmap",
	BadAtom:           "BadAtom",
	BadCursor:         "BadCursor",
	BadFont:           "BadFont",
	BadMatch:          "BadMatch",
	BadDrawable:       "BadDrawable",
	BadAccess:         "BadAccess",
	BadAlloc:          "BadAlloc",
	BadColormap:       "BadColormap",
	BadGContext:       "BadGContext",
	BadIDChoice:       "BadIDChoice",
	BadName:           "BadName",
	BadLength:         "BadLength",
	BadImplementation: "BadImplementation",
}

// ErrorName returns the protocol name of code.
func ErrorName(code uint8) string {
	if name, ok := errorNames[code]; ok {
		return name
	}
	return fmt.Sprintf("error(%d)", code)
}

// Tier says how the event loop should react to a protocol error.
type Tier int

const (
	// Benign errors are expected during teardown races, e.g. a request
	// against a window that is already gone.
	Benign Tier = iota
	// Recoverable errors are logged and processing continues.
	Recoverable
	// Severe errors abort the current event poll.
	Severe
)

func (t Tier) String() string {
	switch t {
	case Benign:
		return "benign"
	case Recoverable:
		return "recoverable"
	case Severe:
		return "severe"
	}
	return fmt.Sprintf("tier(%d)", int(t))
}

// Classify maps a protocol error code onto a Tier. Codes this package does
// not know about are treated as benign.
func Classify(code uint8) Tier {
	switch code {
	case BadWindow, BadDrawable, BadGContext:
		return Benign
	case BadAtom, BadColormap, BadFont, BadName:
		return Recoverable
	case BadRequest, BadValue, BadPixmap, BadCursor, BadMatch, BadAccess,
		BadAlloc, BadIDChoice, BadLength, BadImplementation:
		return Severe
	}
	return Benign
}

// ErrorCode extracts the core protocol error code from an xgb error. The
// second result is false for extension errors and anything unrecognized.
func ErrorCode(err xgb.Error) (uint8, bool) {
	switch err.(type) {
	case xproto.RequestError:
		return BadRequest, true
	case xproto.ValueError:
		return BadValue, true
	case xproto.WindowError:
		return BadWindow, true
	case xproto.PixmapError:
		return BadPixmap, true
	case xproto.AtomError:
		return BadAtom, true
	case xproto.CursorError:
		return BadCursor, true
	case xproto.FontError:
		return BadFont, true
	case xproto.MatchError:
		return BadMatch, true
	case xproto.DrawableError:
		return BadDrawable, true
	case xproto.AccessError:
		return BadAccess, true
	case xproto.AllocError:
		return BadAlloc, true
	case xproto.ColormapError:
		return BadColormap, true
	case xproto.GContextError:
		return BadGContext, true
	case xproto.IDChoiceError:
		return BadIDChoice, true
	case xproto.NameError:
		return BadName, true
	case xproto.LengthError:
		return BadLength, true
	case xproto.ImplementationError:
		return BadImplementation, true
	}
	return 0, false
}
