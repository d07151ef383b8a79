package at45

import "fmt"

// Density identifies one of the supported AT45DB chip families.
type Density uint8

const (
	AT45DB011 Density = iota // 512 pages x 264 B, 1 Mbit
	AT45DB021                // 1024 pages x 264 B, 2 Mbit
	AT45DB041                // 2048 pages x 264 B, 4 Mbit
	AT45DB081                // 4096 pages x 264 B, 8 Mbit
	AT45DB161                // 4096 pages x 528 B, 16 Mbit
	AT45DB321                // 8192 pages x 528 B, 32 Mbit
	AT45DB641                // 8192 pages x 1056 B, 64 Mbit
)

var densityNames = [...]string{
	"AT45DB011",
	"AT45DB021",
	"AT45DB041",
	"AT45DB081",
	"AT45DB161",
	"AT45DB321",
	"AT45DB641",
}

func (d Density) String() string {
	if int(d) < len(densityNames) {
		return densityNames[d]
	}
	return fmt.Sprintf("Density(%d)", uint8(d))
}

// ParseDensity resolves a chip name like "AT45DB041".
func ParseDensity(s string) (Density, error) {
	for i, name := range densityNames {
		if s == name {
			return Density(i), nil
		}
	}
	return 0, fmt.Errorf("at45: unknown device %q", s)
}

// pagesPerBlock is fixed across the family: a block erase always covers
// a run of 8 pages.
const pagesPerBlock = 8

// Geometry carries the per-density page parameters. Immutable; selected
// once during Initialize.
type Geometry struct {
	PageBits  uint8  // page shift within the 24-bit command address
	PageBytes uint16 // bytes per page
	Pages     uint32 // pages in the main array
}

var geometries = [...]Geometry{
	AT45DB011: {PageBits: 9, PageBytes: 264, Pages: 512},
	AT45DB021: {PageBits: 9, PageBytes: 264, Pages: 1024},
	AT45DB041: {PageBits: 9, PageBytes: 264, Pages: 2048},
	AT45DB081: {PageBits: 9, PageBytes: 264, Pages: 4096},
	AT45DB161: {PageBits: 10, PageBytes: 528, Pages: 4096},
	AT45DB321: {PageBits: 10, PageBytes: 528, Pages: 8192},
	AT45DB641: {PageBits: 11, PageBytes: 1056, Pages: 8192},
}

// Geometry returns the page parameters for the density.
func (d Density) Geometry() (Geometry, bool) {
	if int(d) >= len(geometries) {
		return Geometry{}, false
	}
	return geometries[d], true
}

// densityFromStatus decodes the density code from a status register
// snapshot. The family uses odd codes 3,5,..,15 in bits 2-5, which
// collapse to a table index via (code-3)/2.
func densityFromStatus(sr byte) (Density, bool) {
	code := (sr & statusDensityMask) >> 2
	if code < 3 || code&1 == 0 {
		return 0, false
	}
	d := Density((code - 3) >> 1)
	if int(d) >= len(geometries) {
		return 0, false
	}
	return d, true
}

// PageOf maps a linear byte address to its page index.
func (g Geometry) PageOf(addr uint32) uint32 {
	return addr / uint32(g.PageBytes)
}

// OffsetOf maps a linear byte address to its offset within the page.
func (g Geometry) OffsetOf(addr uint32) uint16 {
	return uint16(addr % uint32(g.PageBytes))
}

// Capacity is the array size in bytes.
func (g Geometry) Capacity() uint32 {
	return g.Pages * uint32(g.PageBytes)
}

// Blocks is the number of 8-page erase blocks in the array.
func (g Geometry) Blocks() uint32 {
	return g.Pages / pagesPerBlock
}

// DataStart is the first general-purpose byte address. Page 0 is
// reserved for metadata by convention.
func (g Geometry) DataStart() uint32 {
	return uint32(g.PageBytes)
}

// uniqueIDAddr is where the emulated 8-byte unique ID lives: the start
// of the final page of the array.
func (g Geometry) uniqueIDAddr() uint32 {
	return (g.Pages - 1) * uint32(g.PageBytes)
}
