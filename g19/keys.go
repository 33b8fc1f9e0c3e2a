package g19

// ControlKey identifies one key of the directional/menu pad next to the LCD.
// Values are the bit each key occupies in the control-pad report byte.
type ControlKey uint8

const (
	KeySettings ControlKey = 0x01
	KeyBack     ControlKey = 0x02
	KeyMenu     ControlKey = 0x04
	KeyOk       ControlKey = 0x08
	KeyRight    ControlKey = 0x10
	KeyLeft     ControlKey = 0x20
	KeyDown     ControlKey = 0x40
	KeyUp       ControlKey = 0x80
)

// controlKeys lists all control-pad keys in declaration order. Diff results
// are emitted in this order.
var controlKeys = []ControlKey{
	KeySettings, KeyBack, KeyMenu, KeyOk,
	KeyRight, KeyLeft, KeyDown, KeyUp,
}

var controlKeyNames = map[ControlKey]string{
	KeySettings: "SETTINGS",
	KeyBack:     "BACK",
	KeyMenu:     "MENU",
	KeyOk:       "OK",
	KeyRight:    "RIGHT",
	KeyLeft:     "LEFT",
	KeyDown:     "DOWN",
	KeyUp:       "UP",
}

func (k ControlKey) String() string {
	if n, ok := controlKeyNames[k]; ok {
		return n
	}
	return "UNKNOWN"
}

// GameKey identifies one programmable key of the macro panel. Values are the
// bit each key occupies in the 3-byte macro-key report.
type GameKey uint32

const (
	KeyG01 GameKey = 0x0001
	KeyG02 GameKey = 0x0002
	KeyG03 GameKey = 0x0004
	KeyG04 GameKey = 0x0008
	KeyG05 GameKey = 0x0010
	KeyG06 GameKey = 0x0020
	KeyG07 GameKey = 0x0040
	KeyG08 GameKey = 0x0080
	KeyG09 GameKey = 0x0100
	KeyG10 GameKey = 0x0200
	KeyG11 GameKey = 0x0400
	KeyG12 GameKey = 0x0800

	KeyM1 GameKey = 0x1000
	KeyM2 GameKey = 0x2000
	KeyM3 GameKey = 0x4000

	KeyMR GameKey = 0x8000

	KeyLight GameKey = 0x80000
)

// gameKeys lists all macro-panel keys in declaration order.
var gameKeys = []GameKey{
	KeyG01, KeyG02, KeyG03, KeyG04, KeyG05, KeyG06,
	KeyG07, KeyG08, KeyG09, KeyG10, KeyG11, KeyG12,
	KeyM1, KeyM2, KeyM3, KeyMR, KeyLight,
}

var gameKeyNames = map[GameKey]string{
	KeyG01: "G01", KeyG02: "G02", KeyG03: "G03", KeyG04: "G04",
	KeyG05: "G05", KeyG06: "G06", KeyG07: "G07", KeyG08: "G08",
	KeyG09: "G09", KeyG10: "G10", KeyG11: "G11", KeyG12: "G12",
	KeyM1: "M1", KeyM2: "M2", KeyM3: "M3",
	KeyMR:    "MR",
	KeyLight: "LIGHT",
}

func (k GameKey) String() string {
	if n, ok := gameKeyNames[k]; ok {
		return n
	}
	return "UNKNOWN"
}

// M-key indicator LED masks for SetLights. Independent of the GameKey report
// bits; these address the four LEDs above the macro panel.
const (
	LightM1 byte = 0x80
	LightM2 byte = 0x40
	LightM3 byte = 0x20
	LightMR byte = 0x10
)
