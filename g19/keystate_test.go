package g19

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiffEdgeTriggered(t *testing.T) {
	tr := newControlTracker()

	events := tr.diff(uint32(KeyOk))
	assert.Equal(t, []KeyEvent{{Key: "OK", Pressed: true}}, events)

	// Same mask again: the key is still held, no transition.
	assert.Empty(t, tr.diff(uint32(KeyOk)))

	events = tr.diff(0)
	assert.Equal(t, []KeyEvent{{Key: "OK", Pressed: false}}, events)

	assert.Empty(t, tr.diff(0))
}

func TestDiffDeclarationOrder(t *testing.T) {
	tr := newControlTracker()

	// UP has the highest bit value but SETTINGS the earliest declaration;
	// simultaneous presses come out in declaration order.
	events := tr.diff(uint32(KeyUp) | uint32(KeySettings) | uint32(KeyLeft))
	assert.Equal(t, []KeyEvent{
		{Key: "SETTINGS", Pressed: true},
		{Key: "LEFT", Pressed: true},
		{Key: "UP", Pressed: true},
	}, events)
}

func TestDiffMixedTransitions(t *testing.T) {
	tr := newControlTracker()
	tr.diff(uint32(KeyBack) | uint32(KeyMenu))

	// BACK released, OK pressed, MENU unchanged.
	events := tr.diff(uint32(KeyMenu) | uint32(KeyOk))
	assert.Equal(t, []KeyEvent{
		{Key: "BACK", Pressed: false},
		{Key: "OK", Pressed: true},
	}, events)
}

func TestGameTrackerHighBits(t *testing.T) {
	tr := newGameTracker()

	events := tr.diff(uint32(KeyLight))
	assert.Equal(t, []KeyEvent{{Key: "LIGHT", Pressed: true}}, events)

	events = tr.diff(uint32(KeyG04) | uint32(KeyM2))
	assert.Equal(t, []KeyEvent{
		{Key: "G04", Pressed: true},
		{Key: "M2", Pressed: true},
		{Key: "LIGHT", Pressed: false},
	}, events)
}

func TestKeyNames(t *testing.T) {
	assert.Equal(t, "G01", KeyG01.String())
	assert.Equal(t, "MR", KeyMR.String())
	assert.Equal(t, "SETTINGS", KeySettings.String())
	assert.Equal(t, "UNKNOWN", ControlKey(0x03).String())
}
