package g19

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeFrameLength(t *testing.T) {
	frame, err := EncodeFrame(make([]byte, FrameSize))
	require.NoError(t, err)
	assert.Len(t, frame, 512+2*LCDWidth*LCDHeight)
}

func TestEncodeFramePreamble(t *testing.T) {
	frame, err := EncodeFrame(make([]byte, FrameSize))
	require.NoError(t, err)

	header := []byte{
		0x10, 0x0f, 0x00, 0x58, 0x02, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x3f, 0x01, 0xef, 0x00, 0x0f,
	}
	assert.Equal(t, header, frame[:16])

	// 16..255 then 0..255 follow the literal header.
	for i := 16; i < 256; i++ {
		assert.Equal(t, byte(i), frame[i])
	}
	for i := 0; i < 256; i++ {
		assert.Equal(t, byte(i), frame[256+i])
	}
}

func TestEncodeFrameRejectsBadLength(t *testing.T) {
	for _, n := range []int{0, 1, FrameSize - 1, FrameSize + 1, FrameSize * 2} {
		_, err := EncodeFrame(make([]byte, n))
		assert.ErrorIs(t, err, ErrInvalidFrame, "length %d", n)
	}
}

// The payload is column-major: pixel (x=1,y=0) must appear before (x=0,y=1).
func TestEncodeFrameColumnMajor(t *testing.T) {
	pixels := make([]byte, FrameSize)
	set := func(x, y int, v byte) {
		i := (y*LCDWidth + x) * 3
		pixels[i], pixels[i+1], pixels[i+2] = v, v, v
	}
	set(1, 0, 255)
	set(0, 1, 255)

	frame, err := EncodeFrame(pixels)
	require.NoError(t, err)

	// Column 0 holds 240 words; (x=0,y=1) is its second word, (x=1,y=0) is
	// the first word of column 1.
	offX0Y1 := 512 + 2
	offX1Y0 := 512 + LCDHeight*2
	assert.Equal(t, []byte{0xFF, 0xFF}, frame[offX0Y1:offX0Y1+2])
	assert.Equal(t, []byte{0xFF, 0xFF}, frame[offX1Y0:offX1Y0+2])

	// Everything else in those columns stays black.
	assert.Equal(t, []byte{0x00, 0x00}, frame[512:514])
	assert.Equal(t, []byte{0x00, 0x00}, frame[offX1Y0+2:offX1Y0+4])
}

// Words are written low byte first.
func TestEncodeFrameLittleEndianWords(t *testing.T) {
	pixels := make([]byte, FrameSize)
	pixels[0] = 255 // pixel (0,0) pure red -> 0xF800

	frame, err := EncodeFrame(pixels)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0xF8}, frame[512:514])
}
