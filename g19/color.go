package g19

// EncodeColor packs an 8-bit RGB triple into the RGB565 word the device
// expects: 5 bits red, 6 bits green, 5 bits blue.
//
// Scaling is multiply-then-integer-divide, not round-to-nearest. The panel
// firmware quantizes the same way, so matching it keeps colors bit-exact.
func EncodeColor(red, green, blue byte) uint16 {
	r := uint16(int(red) * 31 / 255)
	g := uint16(int(green) * 63 / 255)
	b := uint16(int(blue) * 31 / 255)
	return r<<11 | g<<5 | b
}
