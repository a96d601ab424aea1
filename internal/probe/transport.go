package probe

import (
	"fmt"
	"strings"

	"github.com/TomDeRybel/probe-rs/internal/probe/targets"
)

// Protocol is the wire protocol used to talk to the target.
type Protocol string

const (
	// ProtocolSWD is ARM Serial Wire Debug
	ProtocolSWD Protocol = "swd"
	// ProtocolJTAG is IEEE 1149.1 JTAG
	ProtocolJTAG Protocol = "jtag"
)

// ParseProtocol parses a protocol token. Matching is case-insensitive.
func ParseProtocol(s string) (Protocol, error) {
	switch strings.ToLower(s) {
	case "", "swd":
		return ProtocolSWD, nil
	case "jtag":
		return ProtocolJTAG, nil
	default:
		return "", fmt.Errorf("unknown protocol %q (expected swd or jtag)", s)
	}
}

// AttachConfig carries the handshake parameters for Transport.Attach.
type AttachConfig struct {
	// Protocol selects SWD or JTAG
	Protocol Protocol

	// SpeedKHz is the requested interface clock; 0 lets the probe choose
	SpeedKHz int

	// ConnectUnderReset holds the target in reset during the handshake
	ConnectUnderReset bool
}

// Registers is a snapshot of one core's general purpose registers.
type Registers struct {
	// R holds r0..r15; r13 is SP, r14 is LR, r15 is PC
	R [16]uint32

	// XPSR is the program status register
	XPSR uint32
}

// PC returns the program counter.
func (r *Registers) PC() uint32 {
	return r.R[15]
}

// Transport is the probe-access boundary. Everything below this
// interface - USB framing, flash algorithm execution, target memory
// abstraction - belongs to the driver that produced it. The CLI core
// consumes it through Session and Core, never directly.
type Transport interface {
	// Attach performs the target protocol handshake
	Attach(target targets.Target, cfg AttachConfig) error

	// CoreCount reports the number of cores on the attached target
	CoreCount() int

	// ReadWords reads len(dst) 32-bit words starting at addr
	ReadWords(core int, addr uint32, dst []uint32) error

	// WriteWords writes len(src) 32-bit words starting at addr
	WriteWords(core int, addr uint32, src []uint32) error

	// ReadRegisters reads the core register file
	ReadRegisters(core int) (*Registers, error)

	// Reset resets the core (pulse, unconditional)
	Reset(core int) error

	// Halt stops execution on the core
	Halt(core int) error

	// Resume continues execution on the core
	Resume(core int) error

	// Step executes one instruction on a halted core
	Step(core int) error

	// Erase erases the non-volatile range [addr, addr+length)
	Erase(addr uint32, length uint32) error

	// Program writes data into previously erased non-volatile memory
	Program(addr uint32, data []byte) error

	// Verify compares non-volatile memory against data
	Verify(addr uint32, data []byte) error

	// Close releases the probe
	Close() error
}
