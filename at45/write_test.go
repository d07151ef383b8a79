package at45_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rabidaudio/dataflash/at45"
)

func pattern(n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i*7 + 1)
	}
	return data
}

func TestErasedChipReadsZero(t *testing.T) {
	f, _ := newFlash(t, at45.AT45DB041)
	buf := make([]byte, 600)
	require.NoError(t, f.ReadBytes(0, buf))
	for i, b := range buf {
		require.Zero(t, b, "byte %d", i)
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	// 300 bytes at address 0 on a 264-byte-page chip: the session
	// stages page 0, fills 264 bytes, commits, stages page 1, fills the
	// remaining 36 and commits at the end of the sequence.
	f, chip := newFlash(t, at45.AT45DB041)
	data := pattern(300)
	require.NoError(t, f.WriteBytes(0, data))
	assert.Equal(t, 2, chip.Fetches)
	assert.Equal(t, 2, chip.Programs)

	got := make([]byte, len(data))
	require.NoError(t, f.ReadBytes(0, got))
	assert.Equal(t, data, got)
}

func TestWriteAmortization(t *testing.T) {
	// K pages touched costs exactly K fetches and K programs, however
	// many bytes land in them.
	tests := []struct {
		name string
		addr uint32
		n    int
	}{
		{"within one page", 10, 50},
		{"exactly one page", 0, 264},
		{"two pages unaligned", 260, 10},
		{"four pages", 260, 600},
		{"single byte", 1000, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, chip := newFlash(t, at45.AT45DB041)
			g := f.Geometry()
			require.NoError(t, f.WriteBytes(tt.addr, pattern(tt.n)))

			k := int(g.PageOf(tt.addr+uint32(tt.n)-1) - g.PageOf(tt.addr) + 1)
			assert.Equal(t, k, chip.Fetches, "fetches")
			assert.Equal(t, k, chip.Programs, "programs")
		})
	}
}

func TestEmptyWrite(t *testing.T) {
	f, chip := newFlash(t, at45.AT45DB041)
	require.NoError(t, f.WriteBytes(0, nil))
	assert.Zero(t, chip.Fetches)
	assert.Zero(t, chip.Programs)
}

func TestRestagePreservesUntouchedBytes(t *testing.T) {
	// Write byte 0 of page 0, move to page 1, come back and write
	// byte 1 of page 0: byte 0 must keep its value, which requires the
	// page to be re-fetched on every stage.
	f, _ := newFlash(t, at45.AT45DB041)
	require.NoError(t, f.WriteByte(0, 0x11))
	require.NoError(t, f.WriteByte(264, 0x22))
	require.NoError(t, f.WriteByte(1, 0x33))

	got := make([]byte, 2)
	require.NoError(t, f.ReadBytes(0, got))
	assert.Equal(t, []byte{0x11, 0x33}, got)

	b, err := f.ReadByte(264)
	require.NoError(t, err)
	assert.Equal(t, byte(0x22), b)
}

func TestBoundaryCrossingPreservesPage(t *testing.T) {
	f, _ := newFlash(t, at45.AT45DB041)
	require.NoError(t, f.WriteByte(100, 0xAA))

	// crossing from page 0 into page 1 re-commits page 0; the marker at
	// offset 100 must survive
	require.NoError(t, f.WriteBytes(260, pattern(8)))

	b, err := f.ReadByte(100)
	require.NoError(t, err)
	assert.Equal(t, byte(0xAA), b)

	// bytes never written still read as erased zero
	b, err = f.ReadByte(99)
	require.NoError(t, err)
	assert.Zero(t, b)
}

func TestDataComplementedOnWire(t *testing.T) {
	// The chip stores the bitwise complement: logical zero is 0xFF in
	// the array, so erased flash reads back as zero.
	f, chip := newFlash(t, at45.AT45DB041)
	require.NoError(t, f.WriteBytes(0, []byte{0x00, 0xAB}))

	raw := chip.PageData(0)
	assert.Equal(t, byte(0xFF), raw[0])
	assert.Equal(t, byte(^0xAB&0xFF), raw[1])
	// untouched remainder of the page holds the erase pattern
	assert.Equal(t, byte(0xFF), raw[2])
}

func TestReadWriteAt(t *testing.T) {
	f, _ := newFlash(t, at45.AT45DB041)
	data := pattern(42)
	n, err := f.WriteAt(data, 500)
	require.NoError(t, err)
	assert.Equal(t, len(data), n)

	got := make([]byte, len(data))
	n, err = f.ReadAt(got, 500)
	require.NoError(t, err)
	assert.Equal(t, len(data), n)
	assert.Equal(t, data, got)
}

func TestReadWriteAtRange(t *testing.T) {
	f, _ := newFlash(t, at45.AT45DB041)
	buf := make([]byte, 2)

	_, err := f.ReadAt(buf, f.Size()-1)
	assert.Error(t, err)
	_, err = f.WriteAt(buf, f.Size()-1)
	assert.Error(t, err)
	_, err = f.ReadAt(buf, -1)
	assert.Error(t, err)

	_, err = f.ReadAt(buf, f.Size()-2)
	assert.NoError(t, err)
}
