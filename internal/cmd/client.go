package cmd

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	// Image formats accepted by the show command.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/godbus/dbus/v5"

	"github.com/koehlma/g19d/g19"
	"github.com/koehlma/g19d/internal/service"
)

// Status prints the daemon's cached color and brightness.
type Status struct {
	busFlags
}

func (c *Status) Run() error {
	conn, obj, err := c.object()
	if err != nil {
		return err
	}
	defer conn.Close()

	var red, green, blue byte
	if err := obj.Call(service.Interface+".GetColor", 0).Store(&red, &green, &blue); err != nil {
		return fmt.Errorf("get color: %w", err)
	}
	var level byte
	if err := obj.Call(service.Interface+".GetBrightness", 0).Store(&level); err != nil {
		return fmt.Errorf("get brightness: %w", err)
	}
	fmt.Printf("color: %d %d %d\nbrightness: %d\n", red, green, blue, level)
	return nil
}

// Color sets the keyboard backlight color.
type Color struct {
	busFlags
	Red   byte `arg:"" help:"Red channel (0-255)"`
	Green byte `arg:"" help:"Green channel (0-255)"`
	Blue  byte `arg:"" help:"Blue channel (0-255)"`
}

func (c *Color) Run() error {
	conn, obj, err := c.object()
	if err != nil {
		return err
	}
	defer conn.Close()
	return obj.Call(service.Interface+".SetColor", 0, c.Red, c.Green, c.Blue).Err
}

// Brightness sets the LCD backlight level.
type Brightness struct {
	busFlags
	Level byte `arg:"" help:"Backlight level (0-100)"`
}

func (c *Brightness) Run() error {
	conn, obj, err := c.object()
	if err != nil {
		return err
	}
	defer conn.Close()
	return obj.Call(service.Interface+".SetBrightness", 0, c.Level).Err
}

// Light switches the M-key indicator LEDs. With no keys given all LEDs are
// turned off.
type Light struct {
	busFlags
	LEDs []string `arg:"" optional:"" enum:"m1,m2,m3,mr" help:"LEDs to light (m1, m2, m3, mr)"`
}

func (c *Light) Run() error {
	var mask byte
	for _, led := range c.LEDs {
		switch strings.ToLower(led) {
		case "m1":
			mask |= g19.LightM1
		case "m2":
			mask |= g19.LightM2
		case "m3":
			mask |= g19.LightM3
		case "mr":
			mask |= g19.LightMR
		}
	}
	conn, obj, err := c.object()
	if err != nil {
		return err
	}
	defer conn.Close()
	return obj.Call(service.Interface+".Light", 0, mask).Err
}

// Show sends an image file to the LCD. The image must already be 320x240;
// scaling is up to the caller.
type Show struct {
	busFlags
	Image string `arg:"" type:"existingfile" help:"PNG, JPEG or GIF image, 320x240"`
}

func (c *Show) Run() error {
	f, err := os.Open(c.Image)
	if err != nil {
		return err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("decode %s: %w", c.Image, err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != g19.LCDWidth || bounds.Dy() != g19.LCDHeight {
		return fmt.Errorf("image is %dx%d, the LCD wants %dx%d",
			bounds.Dx(), bounds.Dy(), g19.LCDWidth, g19.LCDHeight)
	}

	frame := make([]byte, 0, g19.FrameSize)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			frame = append(frame, byte(r>>8), byte(g>>8), byte(b>>8))
		}
	}

	conn, obj, err := c.object()
	if err != nil {
		return err
	}
	defer conn.Close()
	return obj.Call(service.Interface+".Show", 0, frame).Err
}

// Keys subscribes to the daemon's KeyDown/KeyUp signals and prints them
// until interrupted.
type Keys struct {
	busFlags
}

func (c *Keys) Run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := dialBus(c.SessionBus)
	if err != nil {
		return fmt.Errorf("connect to bus: %w", err)
	}
	defer conn.Close()

	if err := conn.AddMatchSignal(
		dbus.WithMatchObjectPath(service.ObjectPath),
		dbus.WithMatchInterface(service.Interface),
	); err != nil {
		return fmt.Errorf("subscribe to key signals: %w", err)
	}

	sigs := make(chan *dbus.Signal, 16)
	conn.Signal(sigs)
	logger.Info("listening for key events", "interface", service.Interface)

	for {
		select {
		case <-ctx.Done():
			return nil
		case sig, ok := <-sigs:
			if !ok {
				return nil
			}
			if len(sig.Body) != 1 {
				continue
			}
			key, _ := sig.Body[0].(string)
			switch sig.Name {
			case service.Interface + ".KeyDown":
				fmt.Printf("down %s\n", key)
			case service.Interface + ".KeyUp":
				fmt.Printf("up   %s\n", key)
			}
		}
	}
}
