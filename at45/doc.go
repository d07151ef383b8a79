// Package at45 drives Atmel/Adesto AT45DB DataFlash chips over a raw
// SPI byte exchange, presenting the page-oriented array as linear
// byte-addressable storage.
//
// DataFlash cannot rewrite bytes in place: a program operation can only
// clear bits, and only an erase restores them, with a block of 8 pages
// as the smallest erasable unit. The driver hides this behind ReadBytes,
// WriteBytes and the erase calls by staging pages through the chip's
// on-die SRAM buffer and committing a page back to the main array only
// when a write crosses its boundary or ends.
//
// Seven densities (AT45DB011 through AT45DB641, 264/528/1056-byte
// pages) share one code path, parameterized by the geometry detected
// during Initialize.
//
// Every operation blocks, polling the status register until the chip
// reports ready. A *Flash is not safe for concurrent use.
package at45
