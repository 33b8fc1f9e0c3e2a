package g19

// transport is the slice of the USB stack the session needs. The gousb
// implementation lives in usb.go; tests substitute a fake so the session and
// poll loop can run without hardware.
type transport interface {
	// Control performs one control transfer. rType is the full
	// bmRequestType byte including direction, type and recipient bits.
	Control(rType, request uint8, value, index uint16, data []byte) error

	// WriteFrame pushes one encoded frame to the bulk-out endpoint.
	WriteFrame(data []byte) error

	// ReadGameKeys reads the macro-key endpoint into buf, returning the
	// number of bytes read. A timeout means no report this cycle.
	ReadGameKeys(buf []byte) (int, error)

	// ReadControlKeys reads the control-pad endpoint into buf.
	ReadControlKeys(buf []byte) (int, error)

	Close() error
}
