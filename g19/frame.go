package g19

import "fmt"

// LCD panel geometry. Input frames are raw RGB888, one triple per pixel.
const (
	LCDWidth  = 320
	LCDHeight = 240

	// FrameSize is the required length of a Show input buffer.
	FrameSize = LCDWidth * LCDHeight * 3
)

// framePreamble is the fixed 512-byte header the device requires in front of
// every frame: 16 literal bytes, then 0x10..0xff, then 0x00..0xff.
var framePreamble = buildFramePreamble()

func buildFramePreamble() []byte {
	p := make([]byte, 0, 512)
	p = append(p,
		0x10, 0x0f, 0x00, 0x58, 0x02, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x3f, 0x01, 0xef, 0x00, 0x0f)
	for i := 16; i < 256; i++ {
		p = append(p, byte(i))
	}
	for i := 0; i < 256; i++ {
		p = append(p, byte(i))
	}
	return p
}

// EncodeFrame converts a 320x240 RGB888 buffer into the device's bulk frame
// payload: the fixed preamble followed by RGB565 words, low byte first.
//
// The panel is addressed column-major: all 240 rows of column 0, then all
// rows of column 1, and so on. Returns ErrInvalidFrame if pixels is not
// exactly FrameSize bytes.
func EncodeFrame(pixels []byte) ([]byte, error) {
	if len(pixels) != FrameSize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidFrame, len(pixels), FrameSize)
	}
	out := make([]byte, 0, len(framePreamble)+2*LCDWidth*LCDHeight)
	out = append(out, framePreamble...)
	for x := 0; x < LCDWidth; x++ {
		for y := 0; y < LCDHeight; y++ {
			i := (y*LCDWidth + x) * 3
			c := EncodeColor(pixels[i], pixels[i+1], pixels[i+2])
			out = append(out, byte(c), byte(c>>8))
		}
	}
	return out, nil
}
