package at45

// Transport is the raw SPI channel to the flash chip.
//
// Select asserts the chip's attention line and applies the device's bus
// settings; Unselect releases the line and leaves the shared bus the
// way other peripherals expect it. Transfer exchanges a single byte
// while the chip is selected. The driver brackets every command frame
// with a Select/Unselect pair and never interleaves frames, so an
// implementation needs no locking of its own.
type Transport interface {
	Select()
	Unselect()
	Transfer(b byte) byte
	Close() error
}
