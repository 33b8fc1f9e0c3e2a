package g19

// KeyEvent is one edge-triggered key transition observed by the poll loop.
// Key is the textual identifier of the key ("OK", "UP", "G04", "M2", ...).
type KeyEvent struct {
	Key     string
	Pressed bool
}

// keyTracker remembers the last observed pressed state of every key in one
// matrix so raw bitmask reads can be turned into edge transitions. It is
// owned by the poll loop and never touched elsewhere.
type keyTracker struct {
	keys  []trackedKey
	state []bool
}

type trackedKey struct {
	name string
	mask uint32
}

func newControlTracker() *keyTracker {
	t := &keyTracker{state: make([]bool, len(controlKeys))}
	for _, k := range controlKeys {
		t.keys = append(t.keys, trackedKey{name: k.String(), mask: uint32(k)})
	}
	return t
}

func newGameTracker() *keyTracker {
	t := &keyTracker{state: make([]bool, len(gameKeys))}
	for _, k := range gameKeys {
		t.keys = append(t.keys, trackedKey{name: k.String(), mask: uint32(k)})
	}
	return t
}

// diff compares a raw bitmask read against the stored state, updates the
// stored state and returns one event per key whose bit changed, in key
// declaration order. Unchanged keys produce nothing.
func (t *keyTracker) diff(mask uint32) []KeyEvent {
	var events []KeyEvent
	for i, k := range t.keys {
		pressed := mask&k.mask != 0
		if pressed == t.state[i] {
			continue
		}
		t.state[i] = pressed
		events = append(events, KeyEvent{Key: k.name, Pressed: pressed})
	}
	return events
}
