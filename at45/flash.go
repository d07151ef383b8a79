package at45

// noPage marks an empty staging buffer.
const noPage = -1

const defaultProbeAttempts = 10

// Flash is a driver instance bound to one chip on one transport.
type Flash struct {
	t        Transport
	expected Density
	geo      Geometry
	ready    bool
	staged   int32 // page currently held in the chip's SRAM buffer, noPage when none
	probes   int
	log      Logger
}

// New binds a driver to a transport. The chip is unusable until
// Initialize confirms the expected density.
func New(t Transport, expected Density, opts ...Option) *Flash {
	f := &Flash{
		t:        t,
		expected: expected,
		staged:   noPage,
		probes:   defaultProbeAttempts,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Initialize probes the chip: it polls the status register until the
// ready bit is set, decodes the density code from bits 2-5 and checks
// it against the expected family. The probe is bounded; once the budget
// is spent the failure is permanent and every other operation returns
// ErrNotReady until Initialize succeeds.
func (f *Flash) Initialize() error {
	for i := 0; i < f.probes; i++ {
		sr := f.ReadStatus()
		if sr == 0x00 {
			// nothing driving MISO
			continue
		}
		for sr&statusReady == 0 {
			sr = f.ReadStatus()
		}
		den, ok := densityFromStatus(sr)
		if !ok || den != f.expected {
			continue
		}
		f.geo, _ = den.Geometry()
		f.ready = true
		f.staged = noPage
		f.infof("at45: detected %s: %d pages x %d bytes", den, f.geo.Pages, f.geo.PageBytes)
		return nil
	}
	f.errorf("at45: no %s found after %d probes", f.expected, f.probes)
	return ErrDeviceNotFound
}

// Geometry returns the active chip geometry. Zero value before a
// successful Initialize.
func (f *Flash) Geometry() Geometry {
	return f.geo
}

// Size is the array capacity in bytes.
func (f *Flash) Size() int64 {
	return int64(f.geo.Capacity())
}

// ReadStatus takes a fresh status register snapshot. Never cached.
func (f *Flash) ReadStatus() byte {
	f.t.Select()
	f.t.Transfer(cmdStatus)
	sr := f.t.Transfer(0x00)
	f.t.Unselect()
	return sr
}

// Busy reports whether the chip is mid program or erase.
func (f *Flash) Busy() bool {
	return f.ReadStatus()&statusReady == 0
}

// waitReady blocks until the ready bit comes up, holding the status
// command open and clocking the register out repeatedly. Unbounded: the
// hardware has no failure signal for a stuck operation, so a caller
// needing a deadline must wrap the whole call.
func (f *Flash) waitReady() {
	f.t.Select()
	f.t.Transfer(cmdStatus)
	for f.t.Transfer(0x00)&statusReady == 0 {
	}
	f.t.Unselect()
}

// command waits for the chip to go ready, selects it and sends the
// opcode. The caller finishes the frame and must Unselect. Because
// every command starts with this wait, callers never need an explicit
// busy-wait between sequential commands.
func (f *Flash) command(cmd byte) {
	for f.Busy() {
	}
	f.t.Select()
	f.t.Transfer(cmd)
}

// sendAddr sends the 3-byte command address: the page index shifted by
// the geometry's page bit width, plus the offset within the page.
func (f *Flash) sendAddr(page uint32, offset uint16) {
	addr := page<<uint32(f.geo.PageBits) | uint32(offset)
	f.t.Transfer(byte(addr >> 16))
	f.t.Transfer(byte(addr >> 8))
	f.t.Transfer(byte(addr))
}

// The chip erases to all-ones, the inverse of what a linear byte store
// should do. Every data byte is complemented on the wire, in both
// directions, so freshly erased storage reads as zero and callers see a
// plain byte array. These two helpers are the only place the inversion
// happens; everything above them works on clean logical bytes.

func (f *Flash) writeData(b byte) {
	f.t.Transfer(^b)
}

func (f *Flash) readData() byte {
	return ^f.t.Transfer(0x00)
}

// ReadByte reads a single byte from the linear address space.
func (f *Flash) ReadByte(addr uint32) (byte, error) {
	var buf [1]byte
	if err := f.ReadBytes(addr, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

// ReadBytes fills buf with the contents of the linear address space
// starting at addr. The continuous-read command streams across page
// boundaries on its own, so a read of any length is a single frame.
func (f *Flash) ReadBytes(addr uint32, buf []byte) error {
	if !f.ready {
		return ErrNotReady
	}
	f.debugf("at45: read addr=%d len=%d", addr, len(buf))
	f.command(cmdArrayRead)
	f.sendAddr(f.geo.PageOf(addr), f.geo.OffsetOf(addr))
	for i := 0; i < 4; i++ {
		// dummy bytes start the read stream
		f.t.Transfer(0x00)
	}
	for i := range buf {
		buf[i] = f.readData()
	}
	f.t.Unselect()
	return nil
}

// ReadUniqueID returns the 8-byte board identifier. AT45DB parts have
// no unique-ID command, so it is emulated: the ID occupies the first 8
// bytes of the final page of the array. Page 0 stays reserved for
// future metadata.
func (f *Flash) ReadUniqueID() ([8]byte, error) {
	var id [8]byte
	if !f.ready {
		return id, ErrNotReady
	}
	err := f.ReadBytes(f.geo.uniqueIDAddr(), id[:])
	return id, err
}

// Sleep is a no-op: these families have no deep power-down command.
func (f *Flash) Sleep() {}

// Wakeup is a no-op, see Sleep.
func (f *Flash) Wakeup() {}

// End releases the transport. The Flash must not be used afterwards.
func (f *Flash) End() error {
	return f.t.Close()
}

func (f *Flash) debugf(format string, args ...interface{}) {
	if f.log != nil {
		f.log.Debugf(format, args...)
	}
}

func (f *Flash) infof(format string, args ...interface{}) {
	if f.log != nil {
		f.log.Infof(format, args...)
	}
}

func (f *Flash) errorf(format string, args ...interface{}) {
	if f.log != nil {
		f.log.Errorf(format, args...)
	}
}
