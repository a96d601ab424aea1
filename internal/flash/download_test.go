package flash

import (
	"bytes"
	"errors"
	"testing"

	"github.com/TomDeRybel/probe-rs/internal/probe/sim"
)

type progressEvent struct {
	phase Phase
	done  int
	total int
}

func TestDownload(t *testing.T) {
	session, transport, err := sim.NewSession("generic")
	if err != nil {
		t.Fatalf("sim.NewSession() error = %v", err)
	}
	defer session.Close()

	data := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}
	loader := NewLoader(session.Target())
	if err := loader.LoadBin(bytes.NewReader(data), BinOptions{}); err != nil {
		t.Fatalf("LoadBin() error = %v", err)
	}

	var events []progressEvent
	record := func(phase Phase, done, total int) {
		events = append(events, progressEvent{phase, done, total})
	}

	if err := Download(session, loader, record); err != nil {
		t.Fatalf("Download() error = %v", err)
	}

	// One region: each phase reports start and completion.
	want := []progressEvent{
		{PhaseErase, 0, 1}, {PhaseErase, 1, 1},
		{PhaseProgram, 0, 1}, {PhaseProgram, 1, 1},
		{PhaseVerify, 0, 1}, {PhaseVerify, 1, 1},
	}
	if len(events) != len(want) {
		t.Fatalf("got %d progress events, want %d", len(events), len(want))
	}
	for i, e := range events {
		if e != want[i] {
			t.Errorf("event %d = %+v, want %+v", i, e, want[i])
		}
	}

	flashed, err := transport.Bytes(0, len(data))
	if err != nil {
		t.Fatalf("Bytes() error = %v", err)
	}
	if !bytes.Equal(flashed, data) {
		t.Errorf("flash contents = %v, want %v", flashed, data)
	}
}

func TestDownloadIdempotent(t *testing.T) {
	session, transport, err := sim.NewSession("generic")
	if err != nil {
		t.Fatalf("sim.NewSession() error = %v", err)
	}
	defer session.Close()

	data := []byte{0xCA, 0xFE, 0xBA, 0xBE}
	loader := NewLoader(session.Target())
	if err := loader.LoadBin(bytes.NewReader(data), BinOptions{}); err != nil {
		t.Fatalf("LoadBin() error = %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := Download(session, loader, nil); err != nil {
			t.Fatalf("Download() run %d error = %v", i+1, err)
		}
	}

	flashed, err := transport.Bytes(0, len(data))
	if err != nil {
		t.Fatalf("Bytes() error = %v", err)
	}
	if !bytes.Equal(flashed, data) {
		t.Errorf("flash contents = %v, want %v", flashed, data)
	}
}

func TestDownloadOutsideFlash(t *testing.T) {
	session, _, err := sim.NewSession("generic")
	if err != nil {
		t.Fatalf("sim.NewSession() error = %v", err)
	}
	defer session.Close()

	// RAM is writable but not programmable; the erase phase rejects it.
	loader := NewLoader(session.Target())
	base := uint32(0x20000000)
	if err := loader.LoadBin(bytes.NewReader([]byte{1, 2, 3, 4}), BinOptions{BaseAddress: &base}); err != nil {
		t.Fatalf("LoadBin() error = %v", err)
	}

	err = Download(session, loader, nil)
	var execErr *ExecutionError
	if !errors.As(err, &execErr) {
		t.Fatalf("Download() error = %v, want *ExecutionError", err)
	}
	if execErr.Phase != PhaseErase {
		t.Errorf("ExecutionError.Phase = %q, want %q", execErr.Phase, PhaseErase)
	}
}

func TestEraseAll(t *testing.T) {
	session, transport, err := sim.NewSession("generic")
	if err != nil {
		t.Fatalf("sim.NewSession() error = %v", err)
	}
	defer session.Close()

	if err := transport.Preload(0, []byte{0x12, 0x34, 0x56, 0x78}); err != nil {
		t.Fatalf("Preload() error = %v", err)
	}
	if err := EraseAll(session); err != nil {
		t.Fatalf("EraseAll() error = %v", err)
	}

	got, err := transport.Bytes(0, 4)
	if err != nil {
		t.Fatalf("Bytes() error = %v", err)
	}
	for i, b := range got {
		if b != 0xFF {
			t.Errorf("byte %d = 0x%02x, want 0xFF", i, b)
		}
	}
}
