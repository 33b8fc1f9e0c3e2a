// Package cmd defines the g19d command-line surface.
package cmd

import (
	"fmt"

	"github.com/godbus/dbus/v5"

	"github.com/koehlma/g19d/internal/service"
)

// CLI is the root kong command structure. Flag values may also come from a
// config file (JSON/YAML/TOML) or environment variables.
type CLI struct {
	Log struct {
		Level   string `help:"Log level (trace, debug, info, warn, error)" default:"info" env:"G19D_LOG_LEVEL"`
		File    string `help:"Write logs to this file instead of the console" env:"G19D_LOG_FILE"`
		RawFile string `help:"Write raw USB transfer dumps to this file" env:"G19D_LOG_RAW_FILE"`
	} `embed:"" prefix:"log."`
	Config string `help:"Path to a config file" env:"G19D_CONFIG"`

	Serve      Serve      `cmd:"" help:"Run the G19 daemon and export it on D-Bus"`
	Status     Status     `cmd:"" help:"Print the daemon's cached backlight color and brightness"`
	Color      Color      `cmd:"" help:"Set the keyboard backlight color"`
	Brightness Brightness `cmd:"" help:"Set the LCD backlight level (0-100)"`
	Light      Light      `cmd:"" help:"Switch the M-key indicator LEDs"`
	Show       Show       `cmd:"" help:"Display a 320x240 image on the LCD"`
	Keys       Keys       `cmd:"" help:"Stream key events from the daemon"`
	ConfigInit ConfigInit `cmd:"" name:"config-init" help:"Generate a configuration template"`
}

// busFlags selects which message bus to talk to. The daemon lives on the
// system bus by default; the session bus is handy for development runs.
type busFlags struct {
	SessionBus bool `help:"Use the session bus instead of the system bus" env:"G19D_SESSION_BUS"`
}

func dialBus(session bool) (*dbus.Conn, error) {
	if session {
		return dbus.ConnectSessionBus()
	}
	return dbus.ConnectSystemBus()
}

// object connects to the chosen bus and returns the daemon's object. The
// caller closes the connection.
func (f busFlags) object() (*dbus.Conn, dbus.BusObject, error) {
	conn, err := dialBus(f.SessionBus)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to bus: %w", err)
	}
	return conn, conn.Object(service.BusName, service.ObjectPath), nil
}
