package g19

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeColorBounds(t *testing.T) {
	assert.Equal(t, uint16(0x0000), EncodeColor(0, 0, 0))
	assert.Equal(t, uint16(0xFFFF), EncodeColor(255, 255, 255))
}

func TestEncodeColorKnownValues(t *testing.T) {
	type testCase struct {
		name    string
		r, g, b byte
		want    uint16
	}

	cases := []testCase{
		{name: "pure red", r: 255, want: 0xF800},
		{name: "pure green", g: 255, want: 0x07E0},
		{name: "pure blue", b: 255, want: 0x001F},
		// 8*31/255 truncates to 0, 9*31/255 truncates to 1.
		{name: "red below quantization step", r: 8, want: 0x0000},
		{name: "red first step", r: 9, want: 0x0800},
		// 128*31/255 = 15, 128*63/255 = 31.
		{name: "mid gray", r: 128, g: 128, b: 128, want: 15<<11 | 31<<5 | 15},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, EncodeColor(tc.r, tc.g, tc.b))
		})
	}
}

// Decoding the packed fields and rescaling must recover each channel within
// one quantization step.
func TestEncodeColorQuantization(t *testing.T) {
	for c := 0; c < 256; c++ {
		word := EncodeColor(byte(c), byte(c), byte(c))
		r := int(word>>11) * 255 / 31
		g := int(word>>5&0x3F) * 255 / 63
		b := int(word&0x1F) * 255 / 31

		if d := c - r; d < 0 || d > 255/31+1 {
			t.Fatalf("red %d decoded to %d", c, r)
		}
		if d := c - g; d < 0 || d > 255/63+1 {
			t.Fatalf("green %d decoded to %d", c, g)
		}
		if d := c - b; d < 0 || d > 255/31+1 {
			t.Fatalf("blue %d decoded to %d", c, b)
		}
	}
}

// Scaling must truncate, never round to nearest.
func TestEncodeColorTruncates(t *testing.T) {
	for c := 0; c < 256; c++ {
		word := EncodeColor(byte(c), 0, 0)
		assert.Equal(t, uint16(c*31/255), word>>11, "channel %d", c)
	}
}
