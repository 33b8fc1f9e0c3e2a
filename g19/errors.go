package g19

import "errors"

var (
	// ErrDeviceNotFound is returned by Open when no G19 is attached.
	ErrDeviceNotFound = errors.New("g19: no G19 keyboard found")

	// ErrClosed is returned by commands issued after Stop.
	ErrClosed = errors.New("g19: session closed")

	// ErrBrightnessRange is returned for brightness levels outside 0..100.
	ErrBrightnessRange = errors.New("g19: brightness out of range (0-100)")

	// ErrInvalidFrame is returned for frame buffers that are not exactly
	// FrameSize bytes of RGB888.
	ErrInvalidFrame = errors.New("g19: invalid frame buffer")
)
