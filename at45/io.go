package at45

import "fmt"

// Standard I/O adapters so the driver plugs into io.ReaderAt /
// io.WriterAt plumbing. Unlike ReadBytes and WriteBytes, which trust
// the caller per the driver contract, these validate the range against
// the array capacity.

// ReadAt implements io.ReaderAt over the linear address space.
func (f *Flash) ReadAt(p []byte, off int64) (int, error) {
	if err := f.checkRange(off, len(p)); err != nil {
		return 0, err
	}
	if err := f.ReadBytes(uint32(off), p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// WriteAt implements io.WriterAt over the linear address space.
func (f *Flash) WriteAt(p []byte, off int64) (int, error) {
	if err := f.checkRange(off, len(p)); err != nil {
		return 0, err
	}
	if err := f.WriteBytes(uint32(off), p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (f *Flash) checkRange(off int64, n int) error {
	if !f.ready {
		return ErrNotReady
	}
	if off < 0 || off+int64(n) > int64(f.geo.Capacity()) {
		return fmt.Errorf("at45: range %d..%d outside %d-byte array",
			off, off+int64(n), f.geo.Capacity())
	}
	return nil
}
