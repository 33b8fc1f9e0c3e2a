// Package g19 drives a Logitech G19 gaming keyboard over USB: backlight
// color and brightness, the M-key indicator LEDs, the 320x240 LCD panel, and
// edge-triggered key events from both key matrices.
package g19

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/koehlma/g19d/internal/log"
)

// Control transfer parameters of the device protocol.
const (
	// bmRequestType bytes: host-to-device, class/vendor, interface recipient.
	rtClassInterfaceOut  = 0x21
	rtVendorInterfaceOut = 0x41

	reqSetReport  = 0x09
	reqBrightness = 0x0a

	valBacklight = 0x0307
	valLights    = 0x0305
	idxInterface = 0x0001

	// gameKeyReportID marks a macro-key report on the bulk IN endpoint.
	gameKeyReportID = 2
)

// pollInterval bounds key-event latency and idle CPU usage.
const pollInterval = 50 * time.Millisecond

// subscriberBuffer is the per-subscriber event channel depth. A subscriber
// that stops draining loses events rather than stalling the poll loop.
const subscriberBuffer = 32

type sessionState int

const (
	stateAcquired sessionState = iota
	stateRunning
	stateStopped
)

// Session owns the USB handle of one G19. All transfers, whether issued by
// command calls or by the background poll loop, are serialized through one
// mutex so no two transfers ever interleave on the wire.
type Session struct {
	mu     sync.Mutex // guards tr, state, cached color/brightness
	tr     transport
	state  sessionState
	logger *slog.Logger

	color      [3]byte
	brightness byte

	// Key trackers are touched only by the poll goroutine.
	gameKeys    *keyTracker
	controlKeys *keyTracker

	stop    chan struct{}
	done    chan struct{}
	stopped chan struct{} // closed once Stop has fully torn down

	subMu      sync.Mutex
	subs       map[int]chan KeyEvent
	nextSub    int
	subsClosed bool
}

// Open locates the keyboard, claims both of its USB interfaces and returns a
// session in the acquired state with color black and brightness 100 cached.
// Returns ErrDeviceNotFound if no G19 is attached; any other setup failure
// is reported as a wrapped acquisition error. raw may be nil.
func Open(logger *slog.Logger, raw log.RawLogger) (*Session, error) {
	if logger == nil {
		logger = slog.Default()
	}
	tr, err := openUSB(raw)
	if err != nil {
		return nil, err
	}
	logger.Info("G19 acquired", "vendor", fmt.Sprintf("%04x", uint16(VendorID)), "product", fmt.Sprintf("%04x", uint16(ProductID)))
	return newSession(tr, logger), nil
}

func newSession(tr transport, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		tr:          tr,
		state:       stateAcquired,
		logger:      logger,
		brightness:  100,
		gameKeys:    newGameTracker(),
		controlKeys: newControlTracker(),
		stopped:     make(chan struct{}),
		subs:        make(map[int]chan KeyEvent),
	}
}

// ready reports whether commands may be issued. Callers hold s.mu.
func (s *Session) ready() error {
	if s.state == stateAcquired || s.state == stateRunning {
		return nil
	}
	return ErrClosed
}

// SetColor sets the keyboard backlight. The cached color is updated before
// the transfer is attempted, matching the device's fire-and-forget command
// semantics; a transfer failure is still reported so the caller may retry.
func (s *Session) SetColor(red, green, blue byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return err
	}
	s.color = [3]byte{red, green, blue}
	if err := s.tr.Control(rtClassInterfaceOut, reqSetReport, valBacklight, idxInterface, []byte{0x07, red, green, blue}); err != nil {
		return fmt.Errorf("set color: %w", err)
	}
	return nil
}

// Color returns the cached backlight color. It is not read back from the
// device.
func (s *Session) Color() (red, green, blue byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.color[0], s.color[1], s.color[2]
}

// SetBrightness sets the LCD backlight level, 0 to 100.
func (s *Session) SetBrightness(level byte) error {
	if level > 100 {
		return fmt.Errorf("%w: %d", ErrBrightnessRange, level)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return err
	}
	s.brightness = level
	payload := []byte{level, 0xe2, 0x12, 0x00, 0x8c, 0x11, 0x00, 0x10, 0x00}
	if err := s.tr.Control(rtVendorInterfaceOut, reqBrightness, 0, 0, payload); err != nil {
		return fmt.Errorf("set brightness: %w", err)
	}
	return nil
}

// Brightness returns the cached brightness level.
func (s *Session) Brightness() byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.brightness
}

// SetLights switches the M-key indicator LEDs. mask is a combination of the
// LightM1..LightMR constants. The device keeps this state itself; nothing is
// cached.
func (s *Session) SetLights(mask byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return err
	}
	if err := s.tr.Control(rtClassInterfaceOut, reqSetReport, valLights, idxInterface, []byte{0x05, mask}); err != nil {
		return fmt.Errorf("set lights: %w", err)
	}
	return nil
}

// Show pushes one RGB888 frame to the LCD. The whole encoded frame goes out
// in a single locked bulk write; the device rejects partial frames.
func (s *Session) Show(pixels []byte) error {
	frame, err := EncodeFrame(pixels)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return err
	}
	if err := s.tr.WriteFrame(frame); err != nil {
		return fmt.Errorf("show: %w", err)
	}
	return nil
}

// Subscribe registers a key-event subscriber. Events are delivered in poll
// order on a buffered channel; the returned cancel function unregisters the
// subscriber and closes the channel. The channel is also closed by Stop, and
// subscribing after Stop returns a channel that is already closed.
func (s *Session) Subscribe() (<-chan KeyEvent, func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	if s.subsClosed {
		ch := make(chan KeyEvent)
		close(ch)
		return ch, func() {}
	}
	id := s.nextSub
	s.nextSub++
	ch := make(chan KeyEvent, subscriberBuffer)
	s.subs[id] = ch
	cancel := func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		if _, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(ch)
		}
	}
	return ch, cancel
}

func (s *Session) emit(events []KeyEvent) {
	if len(events) == 0 {
		return
	}
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ev := range events {
		s.logger.Debug("key event", "key", ev.Key, "pressed", ev.Pressed)
		for _, ch := range s.subs {
			select {
			case ch <- ev:
			default:
				s.logger.Warn("subscriber full, dropping key event", "key", ev.Key)
			}
		}
	}
}

// Start launches the background poll loop. It is a no-op if the loop is
// already running and fails with ErrClosed after Stop.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case stateRunning:
		return nil
	case stateAcquired:
	default:
		return ErrClosed
	}
	s.state = stateRunning
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.poll()
	return nil
}

// poll reads both key matrices every pollInterval until stopped. Read errors
// mean "no report this cycle" and never terminate the loop; the G19 only
// answers these reads when key state changed.
func (s *Session) poll() {
	defer close(s.done)
	gameBuf := make([]byte, 20)
	padBuf := make([]byte, 2)
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
		}
		s.pollGameKeys(gameBuf)
		s.pollControlKeys(padBuf)
	}
}

// pollGameKeys reads the macro-key endpoint. A valid report is exactly 4
// bytes starting with the report ID; the packed bitmask follows high byte
// last on the wire.
func (s *Session) pollGameKeys(buf []byte) {
	s.mu.Lock()
	n, err := s.tr.ReadGameKeys(buf)
	s.mu.Unlock()
	if err != nil || n != 4 || buf[0] != gameKeyReportID {
		return
	}
	mask := uint32(buf[3])<<16 | uint32(buf[2])<<8 | uint32(buf[1])
	s.emit(s.gameKeys.diff(mask))
}

// pollControlKeys reads the control-pad endpoint; the first byte is the full
// pad bitmask.
func (s *Session) pollControlKeys(buf []byte) {
	s.mu.Lock()
	n, err := s.tr.ReadControlKeys(buf)
	s.mu.Unlock()
	if err != nil || n < 1 {
		return
	}
	s.emit(s.controlKeys.diff(uint32(buf[0])))
}

// Stop halts the poll loop, waits for it to exit, releases the USB handle
// and closes all subscriber channels. It is idempotent; concurrent callers
// block until the teardown is complete, so no poll activity survives any
// returned Stop call. Commands issued after Stop fail with ErrClosed.
func (s *Session) Stop() {
	s.mu.Lock()
	if s.state == stateStopped {
		s.mu.Unlock()
		<-s.stopped
		return
	}
	running := s.state == stateRunning
	s.state = stateStopped
	s.mu.Unlock()

	if running {
		close(s.stop)
		<-s.done
	}

	s.mu.Lock()
	if s.tr != nil {
		_ = s.tr.Close()
		s.tr = nil
	}
	s.mu.Unlock()

	s.subMu.Lock()
	s.subsClosed = true
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
	s.subMu.Unlock()

	s.logger.Info("G19 session stopped")
	close(s.stopped)
}
