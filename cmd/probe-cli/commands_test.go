package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/TomDeRybel/probe-rs/internal/flash"
	"github.com/TomDeRybel/probe-rs/internal/probe/sim"
	"github.com/TomDeRybel/probe-rs/internal/ui"
)

func TestParseU32(t *testing.T) {
	tests := []struct {
		input   string
		want    uint32
		wantErr bool
	}{
		{input: "0", want: 0},
		{input: "42", want: 42},
		{input: "0x20000000", want: 0x20000000},
		{input: "0X10", want: 0x10},
		{input: "4294967295", want: 0xFFFFFFFF},
		{input: "4294967296", wantErr: true},
		{input: "-1", wantErr: true},
		{input: "zzz", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run("input "+tt.input, func(t *testing.T) {
			got, err := parseU32(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseU32(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("parseU32(%q) = 0x%x, want 0x%x", tt.input, got, tt.want)
			}
		})
	}
}

func TestPrintDump(t *testing.T) {
	var buf bytes.Buffer
	printDump(&buf, 0x20000000, []uint32{1, 2, 3, 4})

	want := "Addr 0x20000000: 0x00000001\n" +
		"Addr 0x20000004: 0x00000002\n" +
		"Addr 0x20000008: 0x00000003\n" +
		"Addr 0x2000000c: 0x00000004\n"
	if got := buf.String(); got != want {
		t.Errorf("printDump output:\n%q\nwant:\n%q", got, want)
	}
}

func TestDumpReadsMemoryInAddressOrder(t *testing.T) {
	session, transport, err := sim.NewSession("generic")
	if err != nil {
		t.Fatalf("sim.NewSession() error = %v", err)
	}
	defer session.Close()

	const addr = 0x20000000
	memory := []byte{
		0x01, 0x00, 0x00, 0x00,
		0x02, 0x00, 0x00, 0x00,
		0x03, 0x00, 0x00, 0x00,
		0x04, 0x00, 0x00, 0x00,
	}
	if err := transport.Preload(addr, memory); err != nil {
		t.Fatalf("Preload() error = %v", err)
	}

	core, err := session.Core(0)
	if err != nil {
		t.Fatalf("Core(0) error = %v", err)
	}
	words := make([]uint32, 4)
	if err := core.Read32(addr, words); err != nil {
		t.Fatalf("Read32() error = %v", err)
	}

	var buf bytes.Buffer
	printDump(&buf, addr, words)

	want := "Addr 0x20000000: 0x00000001\n" +
		"Addr 0x20000004: 0x00000002\n" +
		"Addr 0x20000008: 0x00000003\n" +
		"Addr 0x2000000c: 0x00000004\n"
	if got := buf.String(); got != want {
		t.Errorf("dump output:\n%q\nwant:\n%q", got, want)
	}
}

func TestPrintDumpEmpty(t *testing.T) {
	var buf bytes.Buffer
	printDump(&buf, 0x20000000, nil)
	if buf.Len() != 0 {
		t.Errorf("printDump wrote %q for zero words, want nothing", buf.String())
	}
}

func TestDownloadProgressClosesPhasesWithSteps(t *testing.T) {
	var buf bytes.Buffer
	progress := downloadProgress(&buf)

	for _, phase := range []flash.Phase{flash.PhaseErase, flash.PhaseProgram, flash.PhaseVerify} {
		progress(phase, 0, 2)
		progress(phase, 1, 2)
		progress(phase, 2, 2)
	}

	out := buf.String()
	for _, label := range []string{"Erasing", "Programming", "Verifying"} {
		if !strings.Contains(out, label) {
			t.Errorf("progress output missing phase label %q", label)
		}
	}
	if got, want := strings.Count(out, ui.StepMarkerComplete), 3; got != want {
		t.Errorf("completed step markers = %d, want %d", got, want)
	}
	if !strings.Contains(out, "2 regions") {
		t.Errorf("completed step missing region count:\n%s", out)
	}
	// One finished line per phase; the bar updates stay on their line.
	if got, want := strings.Count(out, "\n"), 3; got != want {
		t.Errorf("newlines = %d, want %d", got, want)
	}
}

func TestPhaseLabels(t *testing.T) {
	tests := []struct {
		phase string
		want  string
	}{
		{phase: "erase", want: "Erasing"},
		{phase: "program", want: "Programming"},
		{phase: "verify", want: "Verifying"},
	}
	for _, tt := range tests {
		if got := phaseLabel(flash.Phase(tt.phase)); got != tt.want {
			t.Errorf("phaseLabel(%q) = %q, want %q", tt.phase, got, tt.want)
		}
	}
}
