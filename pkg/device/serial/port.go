// Package serial opens the device transport on a serial port.
package serial

import (
	"fmt"
	"time"

	"github.com/golang/glog"
	"github.com/tarm/serial"

	"github.com/robotalks/hilval/pkg/device/comm"
)

// Config defines how to open the port.
type Config struct {
	// Name is the device path, e.g. /dev/ttyACM0 or COM3.
	Name string
	Baud int
	// PollInterval is the maximum time a single Read blocks.
	PollInterval time.Duration
	// SettleDelay is waited after opening, boards reset on connect.
	SettleDelay time.Duration
}

// Defaults
const (
	DefaultBaud         = 115200
	DefaultPollInterval = 100 * time.Millisecond
	DefaultSettleDelay  = 2 * time.Second
)

// DefaultConfig creates a Config for the named port.
func DefaultConfig(name string) Config {
	return Config{
		Name:         name,
		Baud:         DefaultBaud,
		PollInterval: DefaultPollInterval,
		SettleDelay:  DefaultSettleDelay,
	}
}

// PortConfig translates into tarm/serial configuration.
func (c Config) PortConfig() *serial.Config {
	return &serial.Config{
		Name:        c.Name,
		Baud:        c.Baud,
		Parity:      serial.ParityNone,
		ReadTimeout: c.PollInterval,
	}
}

// Port implements comm.Port over a tarm/serial port.
type Port struct {
	port *serial.Port
	name string
}

// Open opens the port, waits for the device to settle and drops any
// stale input. Failures wrap comm.ErrConnectionUnavailable.
func Open(c Config) (*Port, error) {
	glog.Infof("opening %s at %d baud", c.Name, c.Baud)
	sp, err := serial.OpenPort(c.PortConfig())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", comm.ErrConnectionUnavailable, c.Name, err)
	}
	p := &Port{port: sp, name: c.Name}
	if c.SettleDelay > 0 {
		time.Sleep(c.SettleDelay)
	}
	if err := p.ResetInput(); err != nil {
		p.Close()
		return nil, fmt.Errorf("%w: %s: reset input: %v", comm.ErrConnectionUnavailable, c.Name, err)
	}
	glog.Infof("%s connected", c.Name)
	return p, nil
}

// Name returns the device path.
func (p *Port) Name() string {
	return p.name
}

// Read implements io.Reader. It returns after at most PollInterval.
func (p *Port) Read(b []byte) (int, error) {
	return p.port.Read(b)
}

// Write implements io.Writer.
func (p *Port) Write(b []byte) (int, error) {
	return p.port.Write(b)
}

// Flush implements comm.Port. Writes go straight to the device file,
// nothing is held on this side.
func (p *Port) Flush() error {
	return nil
}

// ResetInput implements comm.Port.
func (p *Port) ResetInput() error {
	return p.port.Flush()
}

// Close implements io.Closer.
func (p *Port) Close() error {
	glog.Infof("%s closed", p.name)
	return p.port.Close()
}

// Opener returns a func opening the port with c, for use where the
// transport is opened lazily.
func Opener(c Config) func() (comm.Port, error) {
	return func() (comm.Port, error) {
		p, err := Open(c)
		if err != nil {
			return nil, err
		}
		return p, nil
	}
}
