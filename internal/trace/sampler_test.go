package trace

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"testing"
	"time"

	"github.com/TomDeRybel/probe-rs/internal/probe"
	"github.com/TomDeRybel/probe-rs/internal/probe/sim"
)

// errAfterSink accepts a fixed number of writes and then fails,
// bounding an otherwise endless sampling loop.
type errAfterSink struct {
	buf    bytes.Buffer
	writes int
	limit  int
}

func (s *errAfterSink) Write(p []byte) (int, error) {
	if s.writes >= s.limit {
		return 0, errors.New("sink full")
	}
	s.writes++
	return s.buf.Write(p)
}

func newTestCore(t *testing.T) (*probe.Core, *sim.Transport) {
	t.Helper()
	session, transport, err := sim.NewSession("generic")
	if err != nil {
		t.Fatalf("sim.NewSession() error = %v", err)
	}
	t.Cleanup(func() { session.Close() })
	core, err := session.Core(0)
	if err != nil {
		t.Fatalf("Core(0) error = %v", err)
	}
	return core, transport
}

func TestSamplerRecords(t *testing.T) {
	core, transport := newTestCore(t)
	const addr = 0x20000000
	if err := transport.Preload(addr, []byte{0x78, 0x56, 0x34, 0x12}); err != nil {
		t.Fatalf("Preload() error = %v", err)
	}

	sink := &errAfterSink{limit: 3}
	sampler := &Sampler{
		Core:    core,
		Address: addr,
		Period:  time.Millisecond,
		Sink:    sink,
	}

	err := sampler.Run(context.Background())
	if err == nil {
		t.Fatal("Run() error = nil, want sink write failure")
	}

	records := sink.buf.Bytes()
	if len(records) != 3*RecordSize {
		t.Fatalf("got %d bytes, want %d", len(records), 3*RecordSize)
	}

	var prev uint32
	for i := 0; i < len(records); i += RecordSize {
		elapsed := binary.LittleEndian.Uint32(records[i : i+4])
		value := binary.LittleEndian.Uint32(records[i+4 : i+8])
		if elapsed < prev {
			t.Errorf("record %d: elapsed %d < previous %d", i/RecordSize, elapsed, prev)
		}
		prev = elapsed
		if value != 0x12345678 {
			t.Errorf("record %d: value = 0x%08x, want 0x12345678", i/RecordSize, value)
		}
	}
}

func TestSamplerCancelIsClean(t *testing.T) {
	core, _ := newTestCore(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	var buf bytes.Buffer
	sampler := &Sampler{
		Core:    core,
		Address: 0x20000000,
		Period:  time.Millisecond,
		Sink:    &buf,
	}

	if err := sampler.Run(ctx); err != nil {
		t.Errorf("Run() error = %v, want nil on cancellation", err)
	}
	if buf.Len()%RecordSize != 0 {
		t.Errorf("sink holds %d bytes, want a whole number of %d-byte records", buf.Len(), RecordSize)
	}
}

func TestSamplerReadFailureIsFatal(t *testing.T) {
	core, transport := newTestCore(t)
	transport.FailReads(errors.New("probe unplugged"))

	var buf bytes.Buffer
	sampler := &Sampler{
		Core:    core,
		Address: 0x20000000,
		Period:  time.Millisecond,
		Sink:    &buf,
	}

	err := sampler.Run(context.Background())
	var memErr *probe.MemoryAccessError
	if !errors.As(err, &memErr) {
		t.Fatalf("Run() error = %v, want *probe.MemoryAccessError", err)
	}
	if buf.Len() != 0 {
		t.Errorf("sink holds %d bytes, want 0 after failed first read", buf.Len())
	}
}
