// Package spi provides the Raspberry Pi transport for the at45 driver,
// driving the BCM283x SPI controller through go-rpio with a plain GPIO
// pin as the chip select. The controller's automatic chip-select cannot
// hold the line across the multi-transfer frames the flash protocol
// needs, so the select line is driven manually.
package spi

import (
	rpio "github.com/stianeikeland/go-rpio/v4"

	"github.com/rabidaudio/dataflash/at45"
)

const DEFAULT_SPEED = 10_000_000 // 10 MHz

var _ at45.Transport = (*Transport)(nil)

// Transport talks to the flash chip over one of the Pi's SPI
// controllers.
type Transport struct {
	dev   rpio.SpiDev
	cs    rpio.Pin
	speed int
}

// Open claims the SPI controller and the chip-select pin (BCM
// numbering). The select line idles high. speed <= 0 selects
// DEFAULT_SPEED.
func Open(dev rpio.SpiDev, csPin uint8, speed int) (*Transport, error) {
	if speed <= 0 {
		speed = DEFAULT_SPEED
	}
	if err := rpio.Open(); err != nil {
		return nil, err
	}
	if err := rpio.SpiBegin(dev); err != nil {
		rpio.Close()
		return nil, err
	}
	cs := rpio.Pin(csPin)
	cs.Output()
	cs.High()
	return &Transport{dev: dev, cs: cs, speed: speed}, nil
}

// Select reasserts the flash chip's clock rate before pulling the
// select line low: the controller is shared, and another peripheral may
// have changed the settings since the last frame.
func (t *Transport) Select() {
	rpio.SpiSpeed(t.speed)
	t.cs.Low()
}

// Unselect releases the select line. The next bus user applies its own
// settings the same way, so nothing else needs restoring.
func (t *Transport) Unselect() {
	t.cs.High()
}

// Transfer exchanges a single byte.
func (t *Transport) Transfer(b byte) byte {
	buf := []byte{b}
	rpio.SpiExchange(buf)
	return buf[0]
}

// Close releases the controller and the GPIO mapping.
func (t *Transport) Close() error {
	t.cs.High()
	rpio.SpiEnd(t.dev)
	return rpio.Close()
}
