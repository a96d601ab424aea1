package probe

import (
	"fmt"

	"github.com/TomDeRybel/probe-rs/internal/urls"
)

// AttachError represents a failure to resolve connection options into
// exactly one attached session: no probe matched the selector, the
// selector was ambiguous, or the target protocol handshake failed.
type AttachError struct {
	// Selector is the probe selector that was being resolved (may be empty)
	Selector string
	// Reason is a short description of what went wrong
	Reason string
	// Underlying error if any
	Err error
}

func (e *AttachError) Error() string {
	msg := "failed to attach"
	if e.Selector != "" {
		msg += fmt.Sprintf(" (selector %q)", e.Selector)
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg + "\nHint: see " + urls.TroubleshootingGuide
}

func (e *AttachError) Unwrap() error {
	return e.Err
}

// InvalidCoreIndexError represents a core selection that does not
// exist on the attached target.
type InvalidCoreIndexError struct {
	// Index is the requested core index
	Index int
	// Available is the number of cores the target exposes
	Available int
}

func (e *InvalidCoreIndexError) Error() string {
	return fmt.Sprintf("invalid core index %d: target has %d core(s)", e.Index, e.Available)
}

// MemoryAccessError represents a transport-level failure while
// reading or writing target memory. It is fatal to the operation
// that triggered the access.
type MemoryAccessError struct {
	// Op is the access direction, "read" or "write"
	Op string
	// Address is the first word address of the failed access
	Address uint32
	// Words is the transfer length in 32-bit words
	Words int
	// Underlying transport error
	Err error
}

func (e *MemoryAccessError) Error() string {
	return fmt.Sprintf("memory %s of %d word(s) at 0x%08x failed: %v",
		e.Op, e.Words, e.Address, e.Err)
}

func (e *MemoryAccessError) Unwrap() error {
	return e.Err
}
