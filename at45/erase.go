package at45

// ErasePage erases a single page and waits for completion.
func (f *Flash) ErasePage(page uint32) error {
	if !f.ready {
		return ErrNotReady
	}
	f.debugf("at45: erase page=%d", page)
	f.command(cmdPageErase)
	f.sendAddr(page, 0)
	f.t.Unselect()
	f.waitReady()
	return nil
}

// EraseBlock erases the 8-page block at the given block index and waits
// for completion.
func (f *Flash) EraseBlock(block uint32) error {
	if !f.ready {
		return ErrNotReady
	}
	f.debugf("at45: erase block=%d", block)
	f.command(cmdBlockErase)
	f.sendAddr(block*pagesPerBlock, 0)
	f.t.Unselect()
	f.waitReady()
	return nil
}

// eraseRegion erases consecutive whole blocks covering span bytes
// starting at addr. The budget of span/PageBytes plus one spare page
// guards a start address that lands mid-page, but a start deep enough
// into its page can still push the span's final byte one page past it,
// so the end block is taken from whichever reaches further: the budget
// or the page holding the span's actual last byte. Only whole blocks
// are ever erased.
func (f *Flash) eraseRegion(addr, span uint32) error {
	if !f.ready {
		return ErrNotReady
	}
	pages := span/uint32(f.geo.PageBytes) + 1
	first := f.geo.PageOf(addr)
	last := first + pages - 1
	if end := f.geo.PageOf(addr + span - 1); end > last {
		last = end
	}
	startBlock := first / pagesPerBlock
	endBlock := last / pagesPerBlock
	for b := startBlock; b <= endBlock; b++ {
		if err := f.EraseBlock(b); err != nil {
			return err
		}
	}
	return nil
}

// BlockErase4K erases the whole blocks covering 4 KiB from addr.
func (f *Flash) BlockErase4K(addr uint32) error {
	return f.eraseRegion(addr, 4096)
}

// BlockErase32K erases the whole blocks covering 32 KiB from addr.
func (f *Flash) BlockErase32K(addr uint32) error {
	return f.eraseRegion(addr, 32768)
}

// BlockErase64K erases the whole blocks covering 64 KiB from addr.
func (f *Flash) BlockErase64K(addr uint32) error {
	return f.eraseRegion(addr, 65536)
}

// EraseChip erases every block in the array. The family has no native
// chip-erase opcode, so this issues Pages/8 block erases back to back.
// It is proportionally slow and cannot be interrupted once started.
func (f *Flash) EraseChip() error {
	if !f.ready {
		return ErrNotReady
	}
	f.infof("at45: chip erase, %d blocks", f.geo.Blocks())
	for b := uint32(0); b < f.geo.Blocks(); b++ {
		if err := f.EraseBlock(b); err != nil {
			return err
		}
	}
	return nil
}
