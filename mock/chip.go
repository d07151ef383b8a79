// Package mock simulates an AT45DB chip at the SPI command level, for
// testing the driver without hardware.
package mock

import "github.com/rabidaudio/dataflash/at45"

// Chip decodes the command frames the driver issues between Select and
// Unselect, modeling the main page array, the SRAM page buffer and the
// status register. Bytes are stored raw, as they travel on the wire:
// erased is 0xFF, which the driver's inversion layer reads back as
// logical zero.
//
// Counters record how many of each command the driver issued, so tests
// can assert on write amortization and erase coverage.
type Chip struct {
	// BusyCycles makes every program/erase command hold the ready bit
	// low for that many status polls afterwards. Zero means operations
	// complete instantly.
	BusyCycles int

	Fetches     int // page-to-buffer transfers
	Programs    int // buffer-to-page programs
	PageErases  int
	BlockErases int
	StatusReads int
	Closed      bool

	geo     at45.Geometry
	density at45.Density

	pages  [][]byte
	buffer []byte

	selected bool
	frame    []byte
	busy     int
}

var _ at45.Transport = (*Chip)(nil)

// Local copy of the command set: the simulator models the chip, not the
// driver, and must not depend on its internals.
const (
	opStatus       = 0xD7
	opArrayRead    = 0xE8
	opPageToBuffer = 0x53
	opBufferWrite  = 0x84
	opProgram      = 0x83
	opPageErase    = 0x81
	opBlockErase   = 0x50
)

// NewChip builds a blank (fully erased) chip of the given density.
func NewChip(d at45.Density) *Chip {
	geo, ok := d.Geometry()
	if !ok {
		panic("mock: unknown density")
	}
	c := &Chip{
		geo:     geo,
		density: d,
		pages:   make([][]byte, geo.Pages),
		buffer:  erased(int(geo.PageBytes)),
	}
	for i := range c.pages {
		c.pages[i] = erased(int(geo.PageBytes))
	}
	return c
}

func erased(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = 0xFF
	}
	return b
}

// PageData returns a copy of a page's raw (wire-format) contents.
func (c *Chip) PageData(page uint32) []byte {
	out := make([]byte, len(c.pages[page]))
	copy(out, c.pages[page])
	return out
}

// ResetCounters zeroes the command counters.
func (c *Chip) ResetCounters() {
	c.Fetches = 0
	c.Programs = 0
	c.PageErases = 0
	c.BlockErases = 0
	c.StatusReads = 0
}

// SetBusy makes the next n status polls report not-ready, regardless of
// BusyCycles. Useful for exercising the driver's ready-wait loops.
func (c *Chip) SetBusy(n int) {
	c.busy = n
}

func (c *Chip) Select() {
	c.selected = true
	c.frame = c.frame[:0]
}

// Unselect closes the frame. Commands that act on frame completion
// (fetch, program, erase) execute here.
func (c *Chip) Unselect() {
	defer func() {
		c.selected = false
		c.frame = c.frame[:0]
	}()
	if len(c.frame) < 4 {
		return
	}
	page, _ := c.addr()
	if page >= c.geo.Pages {
		return
	}
	switch c.frame[0] {
	case opPageToBuffer:
		copy(c.buffer, c.pages[page])
		c.Fetches++
	case opProgram:
		copy(c.pages[page], c.buffer)
		c.Programs++
		c.busy = c.BusyCycles
	case opPageErase:
		copy(c.pages[page], erased(int(c.geo.PageBytes)))
		c.PageErases++
		c.busy = c.BusyCycles
	case opBlockErase:
		first := page &^ (8 - 1)
		for p := first; p < first+8 && p < c.geo.Pages; p++ {
			copy(c.pages[p], erased(int(c.geo.PageBytes)))
		}
		c.BlockErases++
		c.busy = c.BusyCycles
	}
}

// Transfer exchanges one byte while selected. Commands that stream data
// (status, array read, buffer write) respond here, byte by byte.
func (c *Chip) Transfer(b byte) byte {
	if !c.selected {
		return 0xFF
	}
	c.frame = append(c.frame, b)
	n := len(c.frame)
	switch c.frame[0] {
	case opStatus:
		if n == 1 {
			return 0xFF
		}
		c.StatusReads++
		return c.status()
	case opArrayRead:
		// opcode + 3 address bytes + 4 dummies, then data streams out,
		// crossing page boundaries linearly.
		if n <= 8 {
			return 0xFF
		}
		page, off := c.addr()
		i := int(page)*int(c.geo.PageBytes) + int(off) + (n - 9)
		if i >= int(c.geo.Capacity()) {
			return 0xFF
		}
		return c.pages[i/int(c.geo.PageBytes)][i%int(c.geo.PageBytes)]
	case opBufferWrite:
		if n <= 4 {
			return 0xFF
		}
		_, off := c.addr()
		c.buffer[(int(off)+n-5)%len(c.buffer)] = b
		return 0xFF
	}
	return 0xFF
}

func (c *Chip) Close() error {
	c.Closed = true
	return nil
}

// addr decodes the 3-byte command address into page and offset using
// the chip's page bit width.
func (c *Chip) addr() (page uint32, off uint16) {
	a := uint32(c.frame[1])<<16 | uint32(c.frame[2])<<8 | uint32(c.frame[3])
	page = a >> uint32(c.geo.PageBits)
	off = uint16(a & (1<<uint32(c.geo.PageBits) - 1))
	return page, off
}

// status builds the register snapshot: ready bit plus the family's
// density code ((index*2)+3) in bits 2-5.
func (c *Chip) status() byte {
	code := byte(c.density)*2 + 3
	sr := code << 2
	if c.busy > 0 {
		c.busy--
		return sr
	}
	return sr | 0x80
}
