package at45_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rabidaudio/dataflash/at45"
)

// writeMarker drops a recognizable byte at the start of a page.
func writeMarker(t *testing.T, f *at45.Flash, page uint32) uint32 {
	t.Helper()
	addr := page * uint32(f.Geometry().PageBytes)
	require.NoError(t, f.WriteByte(addr, 0xAB))
	return addr
}

func readBack(t *testing.T, f *at45.Flash, addr uint32) byte {
	t.Helper()
	b, err := f.ReadByte(addr)
	require.NoError(t, err)
	return b
}

func TestErasePage(t *testing.T) {
	f, chip := newFlash(t, at45.AT45DB041)
	in := writeMarker(t, f, 1)
	out := writeMarker(t, f, 2)

	require.NoError(t, f.ErasePage(1))
	assert.Equal(t, 1, chip.PageErases)
	assert.Zero(t, readBack(t, f, in))
	assert.Equal(t, byte(0xAB), readBack(t, f, out))
}

func TestEraseBlockCoversEightPages(t *testing.T) {
	f, chip := newFlash(t, at45.AT45DB041)
	before := writeMarker(t, f, 7)  // block 0
	first := writeMarker(t, f, 8)   // block 1
	last := writeMarker(t, f, 15)   // block 1
	after := writeMarker(t, f, 16)  // block 2

	require.NoError(t, f.EraseBlock(1))
	assert.Equal(t, 1, chip.BlockErases)
	assert.Equal(t, byte(0xAB), readBack(t, f, before))
	assert.Zero(t, readBack(t, f, first))
	assert.Zero(t, readBack(t, f, last))
	assert.Equal(t, byte(0xAB), readBack(t, f, after))
}

func TestBlockErase4K(t *testing.T) {
	// 4096/264+1 = 16 pages from page 0: exactly blocks 0 and 1.
	f, chip := newFlash(t, at45.AT45DB041)
	start := writeMarker(t, f, 0)
	edge := writeMarker(t, f, 15)
	beyond := writeMarker(t, f, 16)
	chip.ResetCounters()

	require.NoError(t, f.BlockErase4K(0))
	assert.Equal(t, 2, chip.BlockErases)
	assert.Zero(t, readBack(t, f, start))
	assert.Zero(t, readBack(t, f, edge))
	assert.Equal(t, byte(0xAB), readBack(t, f, beyond))
}

func TestBlockErase4KUnalignedStart(t *testing.T) {
	// Start address in the middle of page 11 (block 1). The 4 KiB span
	// reaches into page 26, so whole blocks 1 through 3 go.
	f, chip := newFlash(t, at45.AT45DB041)
	before := writeMarker(t, f, 7)  // block 0
	spanEnd := writeMarker(t, f, 26)
	after := writeMarker(t, f, 32) // block 4
	chip.ResetCounters()

	require.NoError(t, f.BlockErase4K(3000))
	assert.Equal(t, 3, chip.BlockErases)
	assert.Equal(t, byte(0xAB), readBack(t, f, before))
	assert.Zero(t, readBack(t, f, spanEnd))
	assert.Equal(t, byte(0xAB), readBack(t, f, after))
}

func TestBlockErase4KDeepPageOffset(t *testing.T) {
	// Start 200 bytes into page 8: the span's last byte (address 6407)
	// lands in page 24, one page past the 16-page budget, so blocks 1
	// through 3 must go for the span to be fully covered.
	f, chip := newFlash(t, at45.AT45DB041)
	end := uint32(2312 + 4096 - 1)
	require.NoError(t, f.WriteByte(end, 0xAB))
	before := writeMarker(t, f, 7) // block 0
	after := writeMarker(t, f, 32) // block 4
	chip.ResetCounters()

	require.NoError(t, f.BlockErase4K(2312))
	assert.Equal(t, 3, chip.BlockErases)
	assert.Zero(t, readBack(t, f, end))
	assert.Equal(t, byte(0xAB), readBack(t, f, before))
	assert.Equal(t, byte(0xAB), readBack(t, f, after))
}

func TestBlockErase32KDeepPageOffset(t *testing.T) {
	// Same shape for 32K: starting 240 bytes into page 8, the span ends
	// at page 133, block 16. Blocks 1 through 16 cover it.
	f, chip := newFlash(t, at45.AT45DB041)
	addr := uint32(8*264 + 240)
	end := addr + 32768 - 1
	require.NoError(t, f.WriteByte(end, 0xAB))
	before := writeMarker(t, f, 7)   // block 0
	after := writeMarker(t, f, 136) // block 17
	chip.ResetCounters()

	require.NoError(t, f.BlockErase32K(addr))
	assert.Equal(t, 16, chip.BlockErases)
	assert.Zero(t, readBack(t, f, end))
	assert.Equal(t, byte(0xAB), readBack(t, f, before))
	assert.Equal(t, byte(0xAB), readBack(t, f, after))
}

func TestBlockErase32K(t *testing.T) {
	// 32768/264+1 = 125 pages rounds up to 16 whole blocks.
	f, chip := newFlash(t, at45.AT45DB041)
	require.NoError(t, f.WriteByte(32767, 0xAB))
	beyond := writeMarker(t, f, 128) // block 16
	chip.ResetCounters()

	require.NoError(t, f.BlockErase32K(0))
	assert.Equal(t, 16, chip.BlockErases)
	assert.Zero(t, readBack(t, f, 32767))
	assert.Equal(t, byte(0xAB), readBack(t, f, beyond))
}

func TestBlockErase64K(t *testing.T) {
	// 65536/264+1 = 249 pages rounds up to 32 whole blocks.
	f, chip := newFlash(t, at45.AT45DB041)
	require.NoError(t, f.WriteByte(65535, 0xAB))
	beyond := writeMarker(t, f, 256) // block 32
	chip.ResetCounters()

	require.NoError(t, f.BlockErase64K(0))
	assert.Equal(t, 32, chip.BlockErases)
	assert.Zero(t, readBack(t, f, 65535))
	assert.Equal(t, byte(0xAB), readBack(t, f, beyond))
}

func TestEraseChip(t *testing.T) {
	f, chip := newFlash(t, at45.AT45DB011)
	g := f.Geometry()
	first := writeMarker(t, f, 0)
	mid := writeMarker(t, f, g.Pages/2)
	last := writeMarker(t, f, g.Pages-1)
	chip.ResetCounters()

	require.NoError(t, f.EraseChip())
	assert.Equal(t, int(g.Blocks()), chip.BlockErases)
	assert.Zero(t, readBack(t, f, first))
	assert.Zero(t, readBack(t, f, mid))
	assert.Zero(t, readBack(t, f, last))
}
