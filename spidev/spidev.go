// Package spidev provides a Linux spidev transport for the at45 driver
// via the periph.io host drivers. Works anywhere the kernel exposes the
// controller as /dev/spidevN.N and the chip select as a GPIO line.
package spidev

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/rabidaudio/dataflash/at45"
)

const DEFAULT_FREQ = 10 * physic.MegaHertz

var _ at45.Transport = (*Transport)(nil)

// Transport talks to the flash chip through a spidev port with a named
// GPIO pin as chip select.
type Transport struct {
	port spi.PortCloser
	conn spi.Conn
	cs   gpio.PinIO
}

// Open connects to a port such as "SPI0.0" with a pin such as "GPIO22"
// as the select line. The connection's mode, word size and frequency
// are fixed per connection, so other users of the controller keep their
// own settings. freq 0 selects DEFAULT_FREQ.
func Open(portName, csName string, freq physic.Frequency) (*Transport, error) {
	if freq == 0 {
		freq = DEFAULT_FREQ
	}
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("spidev: host init: %w", err)
	}
	port, err := spireg.Open(portName)
	if err != nil {
		return nil, fmt.Errorf("spidev: open %s: %w", portName, err)
	}
	conn, err := port.Connect(freq, spi.Mode0, 8)
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("spidev: connect: %w", err)
	}
	cs := gpioreg.ByName(csName)
	if cs == nil {
		port.Close()
		return nil, fmt.Errorf("spidev: no pin named %q", csName)
	}
	if err := cs.Out(gpio.High); err != nil {
		port.Close()
		return nil, fmt.Errorf("spidev: chip select: %w", err)
	}
	return &Transport{port: port, conn: conn, cs: cs}, nil
}

func (t *Transport) Select() {
	t.cs.Out(gpio.Low)
}

func (t *Transport) Unselect() {
	t.cs.Out(gpio.High)
}

// Transfer exchanges a single byte. A failed exchange reads back 0x00,
// which the driver treats the same as an absent device.
func (t *Transport) Transfer(b byte) byte {
	var rx [1]byte
	if err := t.conn.Tx([]byte{b}, rx[:]); err != nil {
		return 0x00
	}
	return rx[0]
}

func (t *Transport) Close() error {
	t.cs.Out(gpio.High)
	return t.port.Close()
}
