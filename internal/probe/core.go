package probe

import (
	"go.uber.org/zap"

	"github.com/TomDeRybel/probe-rs/internal/logging"
)

// Core is a logical execution unit on the attached target, selected
// by a non-negative index. It exposes word-level memory access and
// execution control. A Core is exclusively owned by whichever
// component currently holds it and is never shared concurrently.
type Core struct {
	index     int
	transport Transport
	logger    *zap.Logger
}

// Index returns the core index this handle was selected with.
func (c *Core) Index() int {
	return c.index
}

// ReadWord32 reads one 32-bit word from target memory.
func (c *Core) ReadWord32(addr uint32) (uint32, error) {
	var buf [1]uint32
	if err := c.transport.ReadWords(c.index, addr, buf[:]); err != nil {
		return 0, &MemoryAccessError{Op: "read", Address: addr, Words: 1, Err: err}
	}
	return buf[0], nil
}

// Read32 reads len(dst) contiguous 32-bit words starting at addr.
func (c *Core) Read32(addr uint32, dst []uint32) error {
	if len(dst) == 0 {
		return nil
	}
	if err := c.transport.ReadWords(c.index, addr, dst); err != nil {
		return &MemoryAccessError{Op: "read", Address: addr, Words: len(dst), Err: err}
	}
	logging.LogMemoryAccess("read", addr, len(dst))
	return nil
}

// WriteWord32 writes one 32-bit word to target memory.
func (c *Core) WriteWord32(addr uint32, value uint32) error {
	buf := [1]uint32{value}
	if err := c.transport.WriteWords(c.index, addr, buf[:]); err != nil {
		return &MemoryAccessError{Op: "write", Address: addr, Words: 1, Err: err}
	}
	return nil
}

// Write32 writes len(src) contiguous 32-bit words starting at addr.
func (c *Core) Write32(addr uint32, src []uint32) error {
	if len(src) == 0 {
		return nil
	}
	if err := c.transport.WriteWords(c.index, addr, src); err != nil {
		return &MemoryAccessError{Op: "write", Address: addr, Words: len(src), Err: err}
	}
	logging.LogMemoryAccess("write", addr, len(src))
	return nil
}

// Registers reads the core register file.
func (c *Core) Registers() (*Registers, error) {
	return c.transport.ReadRegisters(c.index)
}

// Reset pulses the core reset. The reset is unconditional.
func (c *Core) Reset() error {
	c.logger.Info("core reset", zap.Int("core", c.index))
	return c.transport.Reset(c.index)
}

// Halt stops execution on the core.
func (c *Core) Halt() error {
	return c.transport.Halt(c.index)
}

// Run resumes execution on the core.
func (c *Core) Run() error {
	return c.transport.Resume(c.index)
}

// Step executes one instruction on a halted core.
func (c *Core) Step() error {
	return c.transport.Step(c.index)
}
