// Package input holds the engine-neutral keyboard and mouse value types that
// platform callbacks report.
package input

import "strings"

// Modifiers is a bitset of held keyboard modifiers.
type Modifiers uint8

const (
	ModNone    Modifiers = 0
	ModShift   Modifiers = 1 << 0
	ModControl Modifiers = 1 << 1
	ModAlt     Modifiers = 1 << 2
	ModSuper   Modifiers = 1 << 3

	modAll = ModShift | ModControl | ModAlt | ModSuper
)

// Rendering order is fixed: shift, control, alt, super.
var modifierNames = [...]struct {
	bit  Modifiers
	name string
}{
	{ModShift, "Shift"},
	{ModControl, "Control"},
	{ModAlt, "Alt"},
	{ModSuper, "Super"},
}

// Has reports whether every bit of other is set in m.
func (m Modifiers) Has(other Modifiers) bool {
	return m&other == other
}

// String renders the active modifiers, e.g. "Shift + Alt", or "None".
// Bits outside the four known modifiers render as "Unknown".
func (m Modifiers) String() string {
	if m == ModNone {
		return "None"
	}
	if m&^modAll != 0 {
		return "Unknown"
	}
	parts := make([]string, 0, len(modifierNames))
	for _, mn := range modifierNames {
		if m&mn.bit != 0 {
			parts = append(parts, mn.name)
		}
	}
	return strings.Join(parts, " + ")
}

// MouseButton identifies a mouse button. MouseNone covers unrecognized codes.
type MouseButton uint8

const (
	MouseNone MouseButton = iota
	MouseLeft
	MouseMiddle
	MouseRight
	mouseSentinel
)

func (b MouseButton) String() string {
	switch b {
	case MouseNone:
		return "None"
	case MouseLeft:
		return "Left"
	case MouseMiddle:
		return "Middle"
	case MouseRight:
		return "Right"
	}
	return "Unknown"
}

// Valid reports whether b is a member of the enumeration.
func (b MouseButton) Valid() bool { return b < mouseSentinel }

// ScrollDirection is the direction of a vertical wheel step.
type ScrollDirection uint8

const (
	ScrollNone ScrollDirection = iota
	ScrollUp
	ScrollDown
	scrollSentinel
)

func (d ScrollDirection) String() string {
	switch d {
	case ScrollNone:
		return "None"
	case ScrollUp:
		return "Up"
	case ScrollDown:
		return "Down"
	}
	return "Unknown"
}

// Valid reports whether d is a member of the enumeration.
func (d ScrollDirection) Valid() bool { return d < scrollSentinel }
