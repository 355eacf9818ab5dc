package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModifiersStringAllCombinations(t *testing.T) {
	want := map[Modifiers]string{
		ModNone:                                    "None",
		ModShift:                                   "Shift",
		ModControl:                                 "Control",
		ModAlt:                                     "Alt",
		ModSuper:                                   "Super",
		ModShift | ModControl:                      "Shift + Control",
		ModShift | ModAlt:                          "Shift + Alt",
		ModShift | ModSuper:                        "Shift + Super",
		ModControl | ModAlt:                        "Control + Alt",
		ModControl | ModSuper:                      "Control + Super",
		ModAlt | ModSuper:                          "Alt + Super",
		ModShift | ModControl | ModAlt:             "Shift + Control + Alt",
		ModShift | ModControl | ModSuper:           "Shift + Control + Super",
		ModShift | ModAlt | ModSuper:               "Shift + Alt + Super",
		ModControl | ModAlt | ModSuper:             "Control + Alt + Super",
		ModShift | ModControl | ModAlt | ModSuper: "Shift + Control + Alt + Super",
	}

	seen := make(map[string]Modifiers)
	for m := Modifiers(0); m < 16; m++ {
		got := m.String()
		assert.Equal(t, want[m], got, "modifiers %04b", m)
		if prev, dup := seen[got]; dup {
			t.Fatalf("%q rendered for both %04b and %04b", got, prev, m)
		}
		seen[got] = m
	}
}

func TestModifiersBitOps(t *testing.T) {
	m := ModShift | ModAlt
	assert.True(t, m.Has(ModShift))
	assert.True(t, m.Has(ModShift|ModAlt))
	assert.False(t, m.Has(ModControl))
	assert.Equal(t, ModShift, m&ModShift)
	assert.Equal(t, ModAlt, m^ModShift)

	m |= ModSuper
	m &= ModAlt | ModSuper
	assert.Equal(t, "Alt + Super", m.String())
}

func TestModifiersUnknownBits(t *testing.T) {
	assert.Equal(t, "Unknown", Modifiers(1<<5).String())
}

func TestMouseButtonString(t *testing.T) {
	tests := []struct {
		b    MouseButton
		want string
	}{
		{MouseNone, "None"},
		{MouseLeft, "Left"},
		{MouseMiddle, "Middle"},
		{MouseRight, "Right"},
		{MouseButton(9), "Unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.b.String())
	}
	assert.True(t, MouseRight.Valid())
	assert.False(t, MouseButton(9).Valid())
}

func TestScrollDirectionString(t *testing.T) {
	assert.Equal(t, "None", ScrollNone.String())
	assert.Equal(t, "Up", ScrollUp.String())
	assert.Equal(t, "Down", ScrollDown.String())
	assert.Equal(t, "Unknown", ScrollDirection(7).String())
	assert.False(t, ScrollDirection(7).Valid())
}
