package at45

// DataFlash command set for the standard page-size mode (264/528/1056
// byte pages). Opcodes per the AT45DB family datasheets. The chip has
// two SRAM page buffers; this driver only ever uses buffer 1.
const (
	cmdStatus        = 0xD7 // Status Register Read
	cmdArrayRead     = 0xE8 // Legacy Continuous Array Read, 4 dummy bytes before data
	cmdPageToBuffer1 = 0x53 // Main Memory Page to Buffer 1 Transfer
	cmdPageToBuffer2 = 0x55 // Main Memory Page to Buffer 2 Transfer
	cmdBufferWrite1  = 0x84 // Buffer 1 Write
	cmdBufferWrite2  = 0x87 // Buffer 2 Write
	cmdProgram1      = 0x83 // Buffer 1 to Main Memory Page Program with Built-in Erase
	cmdProgram2      = 0x86 // Buffer 2 to Main Memory Page Program with Built-in Erase
	cmdPageErase     = 0x81 // Page Erase
	cmdBlockErase    = 0x50 // Block Erase (8 pages)
)

// Status register layout.
const (
	statusReady       = 0x80 // bit 7: ready (not busy)
	statusDensityMask = 0x3C // bits 2-5: density code
)
