package at45

// Linear write emulation. A write sequence stages one main-memory page
// in the chip's SRAM buffer, accumulates byte writes against it, and
// programs it back only when the sequence crosses into another page or
// ends. The expensive fetch and program commands therefore run once per
// page touched, not once per byte.

// clearBuffer fills the SRAM buffer with the erased value across the
// whole page. On the wire the erased value is 0xFF: the complement of
// the logical zero a blank region must read back as.
func (f *Flash) clearBuffer() {
	f.command(cmdBufferWrite1)
	f.sendAddr(0, 0)
	for i := 0; i < int(f.geo.PageBytes); i++ {
		f.t.Transfer(0xFF)
	}
	f.t.Unselect()
}

// stagePage fetches a main-memory page into the SRAM buffer and records
// it as staged. The fetch must happen on every stage, including
// re-stages after a boundary crossing: skipping it would send the
// page's untouched bytes to the erase pattern when the buffer is
// programmed back.
func (f *Flash) stagePage(page uint32) {
	f.clearBuffer()
	f.command(cmdPageToBuffer1)
	f.sendAddr(page, 0)
	f.t.Unselect()
	f.waitReady()
	f.staged = int32(page)
}

// bufferWriteByte writes one logical byte into the staged buffer.
// Nothing reaches the main array until commitPage.
func (f *Flash) bufferWriteByte(offset uint16, b byte) {
	f.command(cmdBufferWrite1)
	f.sendAddr(0, offset)
	f.writeData(b)
	f.t.Unselect()
}

// commitPage programs the SRAM buffer into the staged main-memory page.
func (f *Flash) commitPage() {
	f.command(cmdProgram1)
	f.sendAddr(uint32(f.staged), 0)
	f.t.Unselect()
}

// beginWrite opens a write sequence by staging the page containing addr.
func (f *Flash) beginWrite(addr uint32) {
	f.stagePage(f.geo.PageOf(addr))
}

// writeSessionByte accumulates one byte into the open sequence. At most
// one page is ever staged: crossing into another page first commits the
// staged one, then stages the new one.
func (f *Flash) writeSessionByte(addr uint32, b byte) {
	page := f.geo.PageOf(addr)
	if int32(page) != f.staged {
		f.commitPage()
		f.stagePage(page)
	}
	f.bufferWriteByte(f.geo.OffsetOf(addr), b)
}

// endWrite commits the staged page unconditionally and closes the
// sequence.
func (f *Flash) endWrite() {
	f.commitPage()
	f.staged = noPage
}

// WriteByte writes a single byte at addr, preserving the rest of the
// page.
func (f *Flash) WriteByte(addr uint32, b byte) error {
	if !f.ready {
		return ErrNotReady
	}
	f.debugf("at45: write addr=%d byte=%#02x", addr, b)
	f.beginWrite(addr)
	f.writeSessionByte(addr, b)
	f.endWrite()
	return nil
}

// WriteBytes writes data at consecutive addresses starting at addr,
// committing and re-staging transparently at every page boundary. There
// is no partial-write recovery: power loss mid-commit may lose the
// staged page's prior contents.
func (f *Flash) WriteBytes(addr uint32, data []byte) error {
	if !f.ready {
		return ErrNotReady
	}
	if len(data) == 0 {
		return nil
	}
	f.debugf("at45: write addr=%d len=%d", addr, len(data))
	f.beginWrite(addr)
	for i, b := range data {
		f.writeSessionByte(addr+uint32(i), b)
	}
	f.endWrite()
	return nil
}
