package shell

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/chzyer/readline"

	"github.com/TomDeRybel/probe-rs/internal/disasm"
	"github.com/TomDeRybel/probe-rs/internal/probe"
	"github.com/TomDeRybel/probe-rs/internal/probe/sim"
)

// scriptReader feeds a fixed sequence of lines and then returns err.
type scriptReader struct {
	lines []string
	err   error
	reads int
}

func (r *scriptReader) Readline() (string, error) {
	r.reads++
	if len(r.lines) == 0 {
		return "", r.err
	}
	line := r.lines[0]
	r.lines = r.lines[1:]
	return line, nil
}

func (r *scriptReader) Close() error { return nil }

func newTestShell(t *testing.T, rl lineReader) (*Shell, *sim.Transport, *bytes.Buffer) {
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
	out := &bytes.Buffer{}
	sh := &Shell{
		state: &State{Core: core, Dis: disasm.New()},
		rl:    rl,
		out:   out,
	}
	return sh, transport, out
}

func TestHandleLine(t *testing.T) {
	tests := []struct {
		name       string
		line       string
		want       Control
		wantOutput string
	}{
		{name: "empty line is ignored", line: "", want: Continue},
		{name: "whitespace only is ignored", line: "   ", want: Continue},
		{name: "quit stops the loop", line: "quit", want: Stop},
		{name: "exit stops the loop", line: "exit", want: Stop},
		{name: "unknown command keeps going", line: "frobnicate", want: Continue, wantOutput: "Unknown command"},
		{name: "bad address keeps going", line: "read zzz", want: Continue, wantOutput: "invalid number"},
		{name: "missing arguments show usage", line: "write", want: Continue, wantOutput: "Usage: write"},
		{name: "help lists commands", line: "help", want: Continue, wantOutput: "Available commands"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sh, _, out := newTestShell(t, &scriptReader{err: io.EOF})
			got, err := sh.HandleLine(tt.line)
			if err != nil {
				t.Fatalf("HandleLine(%q) error = %v", tt.line, err)
			}
			if got != tt.want {
				t.Errorf("HandleLine(%q) = %v, want %v", tt.line, got, tt.want)
			}
			if tt.wantOutput != "" && !strings.Contains(out.String(), tt.wantOutput) {
				t.Errorf("output %q does not contain %q", out.String(), tt.wantOutput)
			}
		})
	}
}

func TestHandleLineReadWriteRoundtrip(t *testing.T) {
	sh, _, out := newTestShell(t, &scriptReader{err: io.EOF})

	if _, err := sh.HandleLine("write 0x20000000 0xdeadbeef"); err != nil {
		t.Fatalf("write error = %v", err)
	}
	if _, err := sh.HandleLine("read 0x20000000"); err != nil {
		t.Fatalf("read error = %v", err)
	}
	if want := "0x20000000: 0xdeadbeef"; !strings.Contains(out.String(), want) {
		t.Errorf("output %q does not contain %q", out.String(), want)
	}
}

func TestHandleLineMemoryFailureIsFatal(t *testing.T) {
	sh, transport, _ := newTestShell(t, &scriptReader{err: io.EOF})
	transport.FailReads(errors.New("probe unplugged"))

	_, err := sh.HandleLine("read 0x20000000")
	var memErr *probe.MemoryAccessError
	if !errors.As(err, &memErr) {
		t.Fatalf("HandleLine() error = %v, want *probe.MemoryAccessError", err)
	}
}

func TestRunEndsCleanly(t *testing.T) {
	tests := []struct {
		name string
		rl   *scriptReader
	}{
		{name: "EOF", rl: &scriptReader{err: io.EOF}},
		{name: "interrupt", rl: &scriptReader{err: readline.ErrInterrupt}},
		{name: "quit command", rl: &scriptReader{lines: []string{"quit", "regs"}, err: io.EOF}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sh, _, _ := newTestShell(t, tt.rl)
			if err := sh.Run(); err != nil {
				t.Errorf("Run() error = %v, want nil", err)
			}
		})
	}
}

func TestRunStopsAtQuitWithoutDraining(t *testing.T) {
	rl := &scriptReader{lines: []string{"quit", "regs", "regs"}, err: io.EOF}
	sh, _, _ := newTestShell(t, rl)
	if err := sh.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if rl.reads != 1 {
		t.Errorf("reader consumed %d lines, want 1", rl.reads)
	}
}

func TestRunAbsorbsEditorErrors(t *testing.T) {
	rl := &scriptReader{err: errors.New("terminal went away")}
	sh, _, out := newTestShell(t, rl)
	if err := sh.Run(); err != nil {
		t.Errorf("Run() error = %v, want nil", err)
	}
	if !strings.Contains(out.String(), "Error reading input") {
		t.Errorf("output %q does not report the read error", out.String())
	}
}

func TestRunPropagatesCommandFailure(t *testing.T) {
	rl := &scriptReader{lines: []string{"read 0x20000000"}, err: io.EOF}
	sh, transport, _ := newTestShell(t, rl)
	transport.FailReads(errors.New("probe unplugged"))

	if err := sh.Run(); err == nil {
		t.Error("Run() error = nil, want memory access failure")
	}
}
