// Package service exposes a device session on D-Bus as de.koehlma.G19,
// mirroring the method and signal surface other desktop tools expect from
// the G19 daemon.
package service

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"

	"github.com/koehlma/g19d/g19"
)

const (
	// BusName is the well-known name the daemon claims.
	BusName = "de.koehlma.G19"
	// ObjectPath is where the device object is exported.
	ObjectPath dbus.ObjectPath = "/de/koehlma/G19"
	// Interface carries all device methods and signals.
	Interface = BusName
)

// D-Bus error names for the failure classes callers can act on.
const (
	errOutOfRange   = Interface + ".Error.OutOfRange"
	errInvalidFrame = Interface + ".Error.InvalidFrame"
	errClosed       = Interface + ".Error.Closed"
)

// Driver is the slice of the device session the service needs.
type Driver interface {
	SetColor(red, green, blue byte) error
	Color() (red, green, blue byte)
	SetBrightness(level byte) error
	Brightness() byte
	SetLights(mask byte) error
	Show(pixels []byte) error
	Subscribe() (<-chan g19.KeyEvent, func())
}

// Service is the exported D-Bus object. Its exported methods are the D-Bus
// interface; godbus maps them by name.
type Service struct {
	drv    Driver
	logger *slog.Logger

	// emit sends a signal; wired to conn.Emit by Export, replaceable in
	// tests.
	emit   func(name string, values ...interface{}) error
	cancel func()
	done   chan struct{}
}

// Export publishes the driver on conn, claims BusName and starts forwarding
// key events as KeyDown/KeyUp signals. Fails if the name is already owned.
func Export(conn *dbus.Conn, drv Driver, logger *slog.Logger) (*Service, error) {
	s := newService(drv, logger)
	s.emit = func(name string, values ...interface{}) error {
		return conn.Emit(ObjectPath, name, values...)
	}

	if err := conn.Export(s, ObjectPath, Interface); err != nil {
		return nil, fmt.Errorf("export %s: %w", ObjectPath, err)
	}
	if err := conn.Export(introspect.NewIntrospectable(introspectNode()), ObjectPath,
		"org.freedesktop.DBus.Introspectable"); err != nil {
		return nil, fmt.Errorf("export introspection: %w", err)
	}

	reply, err := conn.RequestName(BusName, dbus.NameFlagDoNotQueue)
	if err != nil {
		return nil, fmt.Errorf("request name %s: %w", BusName, err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return nil, fmt.Errorf("bus name %s already taken", BusName)
	}

	events, cancel := drv.Subscribe()
	s.cancel = cancel
	go s.forward(events)

	logger.Info("D-Bus service exported", "name", BusName, "path", ObjectPath)
	return s, nil
}

func newService(drv Driver, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		drv:    drv,
		logger: logger,
		emit:   func(string, ...interface{}) error { return nil },
		done:   make(chan struct{}),
	}
}

// forward rebroadcasts session key events as D-Bus signals until the
// subscription is closed.
func (s *Service) forward(events <-chan g19.KeyEvent) {
	defer close(s.done)
	for ev := range events {
		name := Interface + ".KeyUp"
		if ev.Pressed {
			name = Interface + ".KeyDown"
		}
		if err := s.emit(name, ev.Key); err != nil {
			s.logger.Warn("failed to emit key signal", "key", ev.Key, "error", err)
		}
	}
}

// Close cancels the event subscription and waits for the signal forwarder to
// drain. The exported object stays on the connection until it is closed.
func (s *Service) Close() {
	if s.cancel != nil {
		s.cancel()
		<-s.done
	}
}

func mapError(err error) *dbus.Error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, g19.ErrBrightnessRange):
		return dbus.NewError(errOutOfRange, []interface{}{err.Error()})
	case errors.Is(err, g19.ErrInvalidFrame):
		return dbus.NewError(errInvalidFrame, []interface{}{err.Error()})
	case errors.Is(err, g19.ErrClosed):
		return dbus.NewError(errClosed, []interface{}{err.Error()})
	default:
		return dbus.MakeFailedError(err)
	}
}

// SetColor sets the keyboard backlight color.
func (s *Service) SetColor(red, green, blue byte) *dbus.Error {
	return mapError(s.drv.SetColor(red, green, blue))
}

// GetColor returns the cached backlight color.
func (s *Service) GetColor() (byte, byte, byte, *dbus.Error) {
	r, g, b := s.drv.Color()
	return r, g, b, nil
}

// SetBrightness sets the LCD backlight level (0-100).
func (s *Service) SetBrightness(level byte) *dbus.Error {
	return mapError(s.drv.SetBrightness(level))
}

// GetBrightness returns the cached brightness level.
func (s *Service) GetBrightness() (byte, *dbus.Error) {
	return s.drv.Brightness(), nil
}

// Show pushes a 320x240 RGB888 frame to the LCD.
func (s *Service) Show(frame []byte) *dbus.Error {
	return mapError(s.drv.Show(frame))
}

// Light switches the M-key indicator LEDs.
func (s *Service) Light(mask byte) *dbus.Error {
	return mapError(s.drv.SetLights(mask))
}

func introspectNode() *introspect.Node {
	return &introspect.Node{
		Name: string(ObjectPath),
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			{
				Name: Interface,
				Methods: []introspect.Method{
					{Name: "SetColor", Args: []introspect.Arg{
						{Name: "red", Type: "y", Direction: "in"},
						{Name: "green", Type: "y", Direction: "in"},
						{Name: "blue", Type: "y", Direction: "in"},
					}},
					{Name: "GetColor", Args: []introspect.Arg{
						{Name: "red", Type: "y", Direction: "out"},
						{Name: "green", Type: "y", Direction: "out"},
						{Name: "blue", Type: "y", Direction: "out"},
					}},
					{Name: "SetBrightness", Args: []introspect.Arg{
						{Name: "level", Type: "y", Direction: "in"},
					}},
					{Name: "GetBrightness", Args: []introspect.Arg{
						{Name: "level", Type: "y", Direction: "out"},
					}},
					{Name: "Show", Args: []introspect.Arg{
						{Name: "frame", Type: "ay", Direction: "in"},
					}},
					{Name: "Light", Args: []introspect.Arg{
						{Name: "mask", Type: "y", Direction: "in"},
					}},
				},
				Signals: []introspect.Signal{
					{Name: "KeyDown", Args: []introspect.Arg{{Name: "key", Type: "s"}}},
					{Name: "KeyUp", Args: []introspect.Arg{{Name: "key", Type: "s"}}},
				},
			},
		},
	}
}
