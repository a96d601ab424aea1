package probe

import (
	"go.uber.org/zap"

	"github.com/TomDeRybel/probe-rs/internal/probe/targets"
)

// Session represents one exclusive attachment to a physical probe and
// target. It owns the transport for the duration of a single command
// invocation; there is no persistence across invocations and no
// concurrent access, so no locking discipline is needed beyond single
// ownership.
type Session struct {
	info      Info
	target    targets.Target
	protocol  Protocol
	transport Transport
	logger    *zap.Logger
}

// NewSession wraps an already-attached transport in a session. Most
// callers want Options.SimpleAttach instead; this entry point exists
// for driver packages and their tests.
func NewSession(info Info, target targets.Target, protocol Protocol, transport Transport, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return newSession(info, target, protocol, transport, logger)
}

func newSession(info Info, target targets.Target, protocol Protocol, transport Transport, logger *zap.Logger) *Session {
	return &Session{
		info:      info,
		target:    target,
		protocol:  protocol,
		transport: transport,
		logger:    logger,
	}
}

// Info returns the descriptor of the attached probe.
func (s *Session) Info() Info {
	return s.info
}

// Target returns the attached target description.
func (s *Session) Target() targets.Target {
	return s.target
}

// Protocol returns the wire protocol negotiated at attach.
func (s *Session) Protocol() Protocol {
	return s.protocol
}

// CoreCount reports how many cores the attached target exposes.
func (s *Session) CoreCount() int {
	return s.transport.CoreCount()
}

// Core selects a core by index. The returned handle is exclusively
// owned by the component the command hands it to.
func (s *Session) Core(index int) (*Core, error) {
	n := s.transport.CoreCount()
	if index < 0 || index >= n {
		return nil, &InvalidCoreIndexError{Index: index, Available: n}
	}
	return &Core{index: index, transport: s.transport, logger: s.logger}, nil
}

// Erase erases the non-volatile range [addr, addr+length). The flash
// algorithm itself runs inside the probe-access layer.
func (s *Session) Erase(addr uint32, length uint32) error {
	return s.transport.Erase(addr, length)
}

// Program writes data into previously erased non-volatile memory.
func (s *Session) Program(addr uint32, data []byte) error {
	return s.transport.Program(addr, data)
}

// Verify compares non-volatile memory against data.
func (s *Session) Verify(addr uint32, data []byte) error {
	return s.transport.Verify(addr, data)
}

// Close releases the probe. The session must not be used afterwards.
func (s *Session) Close() error {
	s.logger.Debug("session closed", zap.String("probe", s.info.Identifier))
	return s.transport.Close()
}
