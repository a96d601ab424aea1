// Package sim provides a simulated debug probe backed by in-process
// memory. It registers itself under the driver name "sim", so
// `probe-cli --probe sim` works without any hardware attached. The
// package also backs every test that needs a live session.
package sim

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/TomDeRybel/probe-rs/internal/probe"
	"github.com/TomDeRybel/probe-rs/internal/probe/targets"
)

// DriverName is the registered driver name of the simulator.
const DriverName = "sim"

func init() {
	probe.RegisterDriver(&Driver{})
}

// Driver enumerates exactly one simulated probe.
type Driver struct{}

// Name implements probe.Driver.
func (d *Driver) Name() string { return DriverName }

// Enumerate implements probe.Driver.
func (d *Driver) Enumerate() []probe.Info {
	return []probe.Info{probeInfo()}
}

// Open implements probe.Driver.
func (d *Driver) Open(info probe.Info) (probe.Transport, error) {
	if info.Driver != DriverName {
		return nil, fmt.Errorf("sim: cannot open probe enumerated by driver %q", info.Driver)
	}
	return NewTransport(), nil
}

func probeInfo() probe.Info {
	return probe.Info{
		Identifier:   "Simulated probe",
		VendorID:     0x1209,
		ProductID:    0x0001,
		SerialNumber: "SIM001",
		Driver:       DriverName,
	}
}

// region is one simulated memory block, byte-addressed.
type region struct {
	start uint32
	kind  targets.RegionKind
	data  []byte
}

func (r *region) end() uint32 { return r.start + uint32(len(r.data)) }

// Transport simulates an attached target: a flat set of memory
// regions built from the chip description, one register file per
// core, and trivially successful flash operations.
type Transport struct {
	attached bool
	cores    int
	regions  []*region
	regs     []probe.Registers
	halted   []bool

	// readErr, when set, fails every subsequent memory read. Used by
	// tests to exercise fail-fast paths.
	readErr error
}

// NewTransport returns an unattached simulated transport.
func NewTransport() *Transport {
	return &Transport{}
}

// Attach implements probe.Transport. It allocates the memory map
// described by the target; NVM regions start in the erased state.
func (t *Transport) Attach(target targets.Target, cfg probe.AttachConfig) error {
	if t.attached {
		return errors.New("sim: already attached")
	}
	cores := target.Cores
	if cores < 1 {
		cores = 1
	}
	t.cores = cores
	t.regions = nil
	for _, r := range target.Regions {
		data := make([]byte, r.Length)
		if r.Kind == targets.RegionNVM {
			for i := range data {
				data[i] = 0xFF
			}
		}
		t.regions = append(t.regions, &region{start: r.Start, kind: r.Kind, data: data})
	}
	t.regs = make([]probe.Registers, cores)
	t.halted = make([]bool, cores)
	t.attached = true
	return nil
}

// CoreCount implements probe.Transport.
func (t *Transport) CoreCount() int { return t.cores }

func (t *Transport) regionFor(addr uint32, length uint32) (*region, error) {
	for _, r := range t.regions {
		if addr >= r.start && addr+length <= r.end() && addr+length >= addr {
			return r, nil
		}
	}
	return nil, fmt.Errorf("sim: unmapped memory range 0x%08x..0x%08x", addr, addr+length)
}

// ReadWords implements probe.Transport.
func (t *Transport) ReadWords(core int, addr uint32, dst []uint32) error {
	if err := t.checkCore(core); err != nil {
		return err
	}
	if t.readErr != nil {
		return t.readErr
	}
	length := uint32(len(dst)) * 4
	r, err := t.regionFor(addr, length)
	if err != nil {
		return err
	}
	off := addr - r.start
	for i := range dst {
		b := r.data[off+uint32(i)*4 : off+uint32(i)*4+4]
		dst[i] = uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	}
	return nil
}

// WriteWords implements probe.Transport.
func (t *Transport) WriteWords(core int, addr uint32, src []uint32) error {
	if err := t.checkCore(core); err != nil {
		return err
	}
	length := uint32(len(src)) * 4
	r, err := t.regionFor(addr, length)
	if err != nil {
		return err
	}
	off := addr - r.start
	for i, w := range src {
		b := r.data[off+uint32(i)*4 : off+uint32(i)*4+4]
		b[0] = byte(w)
		b[1] = byte(w >> 8)
		b[2] = byte(w >> 16)
		b[3] = byte(w >> 24)
	}
	return nil
}

// ReadRegisters implements probe.Transport.
func (t *Transport) ReadRegisters(core int) (*probe.Registers, error) {
	if err := t.checkCore(core); err != nil {
		return nil, err
	}
	regs := t.regs[core]
	return &regs, nil
}

// Reset implements probe.Transport. The register file is cleared and
// the program counter parked at the start of the first NVM region.
func (t *Transport) Reset(core int) error {
	if err := t.checkCore(core); err != nil {
		return err
	}
	t.regs[core] = probe.Registers{}
	for _, r := range t.regions {
		if r.kind == targets.RegionNVM {
			t.regs[core].R[15] = r.start
			break
		}
	}
	t.halted[core] = false
	return nil
}

// Halt implements probe.Transport.
func (t *Transport) Halt(core int) error {
	if err := t.checkCore(core); err != nil {
		return err
	}
	t.halted[core] = true
	return nil
}

// Resume implements probe.Transport.
func (t *Transport) Resume(core int) error {
	if err := t.checkCore(core); err != nil {
		return err
	}
	t.halted[core] = false
	return nil
}

// Step implements probe.Transport. The simulator models a step as
// advancing the program counter one word.
func (t *Transport) Step(core int) error {
	if err := t.checkCore(core); err != nil {
		return err
	}
	if !t.halted[core] {
		return errors.New("sim: core must be halted to step")
	}
	t.regs[core].R[15] += 4
	return nil
}

// Erase implements probe.Transport.
func (t *Transport) Erase(addr uint32, length uint32) error {
	r, err := t.regionFor(addr, length)
	if err != nil {
		return err
	}
	if r.kind != targets.RegionNVM {
		return fmt.Errorf("sim: erase outside non-volatile memory at 0x%08x", addr)
	}
	off := addr - r.start
	for i := uint32(0); i < length; i++ {
		r.data[off+i] = 0xFF
	}
	return nil
}

// Program implements probe.Transport.
func (t *Transport) Program(addr uint32, data []byte) error {
	r, err := t.regionFor(addr, uint32(len(data)))
	if err != nil {
		return err
	}
	if r.kind != targets.RegionNVM {
		return fmt.Errorf("sim: program outside non-volatile memory at 0x%08x", addr)
	}
	copy(r.data[addr-r.start:], data)
	return nil
}

// Verify implements probe.Transport.
func (t *Transport) Verify(addr uint32, data []byte) error {
	r, err := t.regionFor(addr, uint32(len(data)))
	if err != nil {
		return err
	}
	off := addr - r.start
	for i, b := range data {
		if r.data[off+uint32(i)] != b {
			return fmt.Errorf("sim: verify mismatch at 0x%08x: memory 0x%02x, expected 0x%02x",
				addr+uint32(i), r.data[off+uint32(i)], b)
		}
	}
	return nil
}

// Close implements probe.Transport.
func (t *Transport) Close() error {
	t.attached = false
	return nil
}

func (t *Transport) checkCore(core int) error {
	if !t.attached {
		return errors.New("sim: not attached")
	}
	if core < 0 || core >= t.cores {
		return fmt.Errorf("sim: no core %d", core)
	}
	return nil
}

// --- Test hooks ---

// Preload writes raw bytes directly into simulated memory, bypassing
// the word interface and region kind checks.
func (t *Transport) Preload(addr uint32, data []byte) error {
	r, err := t.regionFor(addr, uint32(len(data)))
	if err != nil {
		return err
	}
	copy(r.data[addr-r.start:], data)
	return nil
}

// Bytes returns a copy of n bytes of simulated memory starting at addr.
func (t *Transport) Bytes(addr uint32, n int) ([]byte, error) {
	r, err := t.regionFor(addr, uint32(n))
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, r.data[addr-r.start:])
	return out, nil
}

// FailReads makes every subsequent memory read return err.
func (t *Transport) FailReads(err error) {
	t.readErr = err
}

// NewSession attaches a fresh simulated transport to the named chip
// (empty selects the catalog default) and wraps it in a session. The
// transport is returned alongside so tests can preload memory.
func NewSession(chip string) (*probe.Session, *Transport, error) {
	target := targets.Default()
	if chip != "" {
		t, ok := targets.Get(chip)
		if !ok {
			return nil, nil, fmt.Errorf("sim: unknown chip %q", chip)
		}
		target = t
	}
	transport := NewTransport()
	if err := transport.Attach(target, probe.AttachConfig{Protocol: probe.ProtocolSWD}); err != nil {
		return nil, nil, err
	}
	session := probe.NewSession(probeInfo(), target, probe.ProtocolSWD, transport, zap.NewNop())
	return session, transport, nil
}
