package g19

import (
	"context"
	"fmt"
	"time"

	"github.com/google/gousb"

	"github.com/koehlma/g19d/internal/log"
)

// USB identity of the G19.
const (
	VendorID  gousb.ID = 0x046d
	ProductID gousb.ID = 0xc229
)

// Endpoint numbers (without direction bit). The control pad reports on
// interrupt IN 0x81, the macro panel on bulk IN 0x83, frames go to bulk
// OUT 0x02.
const (
	epControlKeys = 1
	epFrame       = 2
	epGameKeys    = 3
)

// transferTimeout bounds every single transfer. Poll reads rely on it to
// return quickly when the device has nothing to report.
const transferTimeout = 10 * time.Millisecond

// usbTransport drives the device through gousb. All methods perform exactly
// one transfer; locking is the session's job.
type usbTransport struct {
	ctx    *gousb.Context
	dev    *gousb.Device
	cfg    *gousb.Config
	ifaces []*gousb.Interface

	epPad   *gousb.InEndpoint
	epGame  *gousb.InEndpoint
	epFrame *gousb.OutEndpoint

	raw log.RawLogger
}

// openUSB locates the keyboard, resets it, detaches kernel drivers from both
// interfaces and claims them, mirroring the initialization sequence the
// device firmware expects.
func openUSB(raw log.RawLogger) (*usbTransport, error) {
	t := &usbTransport{raw: raw}
	t.ctx = gousb.NewContext()

	dev, err := t.ctx.OpenDeviceWithVIDPID(VendorID, ProductID)
	if err != nil {
		t.Close()
		return nil, fmt.Errorf("open device: %w", err)
	}
	if dev == nil {
		t.Close()
		return nil, ErrDeviceNotFound
	}
	t.dev = dev
	t.dev.ControlTimeout = transferTimeout

	if err := t.dev.SetAutoDetach(true); err != nil {
		t.Close()
		return nil, fmt.Errorf("detach kernel driver: %w", err)
	}
	if err := t.dev.Reset(); err != nil {
		t.Close()
		return nil, fmt.Errorf("reset device: %w", err)
	}

	t.cfg, err = t.dev.Config(1)
	if err != nil {
		t.Close()
		return nil, fmt.Errorf("select configuration 1: %w", err)
	}

	for _, ifDesc := range t.cfg.Desc.Interfaces {
		for _, alt := range ifDesc.AltSettings {
			if alt.Alternate != 0 {
				continue
			}
			intf, err := t.cfg.Interface(alt.Number, alt.Alternate)
			if err != nil {
				t.Close()
				return nil, fmt.Errorf("claim interface %d: %w", alt.Number, err)
			}
			t.ifaces = append(t.ifaces, intf)

			for _, ep := range alt.Endpoints {
				switch {
				case ep.Direction == gousb.EndpointDirectionIn && ep.Number == epControlKeys:
					t.epPad, err = intf.InEndpoint(ep.Number)
				case ep.Direction == gousb.EndpointDirectionIn && ep.Number == epGameKeys:
					t.epGame, err = intf.InEndpoint(ep.Number)
				case ep.Direction == gousb.EndpointDirectionOut && ep.Number == epFrame:
					t.epFrame, err = intf.OutEndpoint(ep.Number)
				}
				if err != nil {
					t.Close()
					return nil, fmt.Errorf("open endpoint %s: %w", ep.Address, err)
				}
			}
		}
	}

	if t.epPad == nil || t.epGame == nil || t.epFrame == nil {
		t.Close()
		return nil, fmt.Errorf("device is missing expected endpoints (pad=%v game=%v frame=%v)",
			t.epPad != nil, t.epGame != nil, t.epFrame != nil)
	}
	return t, nil
}

func (t *usbTransport) Control(rType, request uint8, value, index uint16, data []byte) error {
	if t.raw != nil {
		t.raw.Log(false, data)
	}
	if _, err := t.dev.Control(rType, request, value, index, data); err != nil {
		return fmt.Errorf("control transfer %#02x/%#02x: %w", rType, request, err)
	}
	return nil
}

func (t *usbTransport) WriteFrame(data []byte) error {
	if t.raw != nil {
		// Full frame dumps would swamp the raw log at 150 KiB per refresh.
		t.raw.Log(false, data[:16])
	}
	ctx, cancel := context.WithTimeout(context.Background(), transferTimeout)
	defer cancel()
	if _, err := t.epFrame.WriteContext(ctx, data); err != nil {
		return fmt.Errorf("frame write: %w", err)
	}
	return nil
}

func (t *usbTransport) ReadGameKeys(buf []byte) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), transferTimeout)
	defer cancel()
	n, err := t.epGame.ReadContext(ctx, buf)
	if err != nil {
		return n, err
	}
	if t.raw != nil {
		t.raw.Log(true, buf[:n])
	}
	return n, nil
}

func (t *usbTransport) ReadControlKeys(buf []byte) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), transferTimeout)
	defer cancel()
	n, err := t.epPad.ReadContext(ctx, buf)
	if err != nil {
		return n, err
	}
	if t.raw != nil {
		t.raw.Log(true, buf[:n])
	}
	return n, nil
}

// Close releases everything acquired by openUSB. Safe on a partially
// initialized transport.
func (t *usbTransport) Close() error {
	for _, intf := range t.ifaces {
		intf.Close()
	}
	t.ifaces = nil
	if t.cfg != nil {
		_ = t.cfg.Close()
		t.cfg = nil
	}
	if t.dev != nil {
		_ = t.dev.Close()
		t.dev = nil
	}
	if t.ctx != nil {
		_ = t.ctx.Close()
		t.ctx = nil
	}
	return nil
}
