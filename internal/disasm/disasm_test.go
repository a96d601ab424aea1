package disasm

import (
	"encoding/binary"
	"strings"
	"testing"
)

func words(ws ...uint32) []byte {
	out := make([]byte, 4*len(ws))
	for i, w := range ws {
		binary.LittleEndian.PutUint32(out[4*i:], w)
	}
	return out
}

func TestDisassemble(t *testing.T) {
	d := New()

	// mov r0, #0 ; add r1, r2, r3
	code := words(0xe3a00000, 0xe0821003)
	insts := d.Disassemble(code, 0x8000)

	if len(insts) != 2 {
		t.Fatalf("got %d instructions, want 2", len(insts))
	}
	if insts[0].Address != 0x8000 || insts[1].Address != 0x8004 {
		t.Errorf("addresses = 0x%x, 0x%x, want 0x8000, 0x8004",
			insts[0].Address, insts[1].Address)
	}
	if insts[0].Encoding != 0xe3a00000 {
		t.Errorf("encoding = 0x%08x, want 0xe3a00000", insts[0].Encoding)
	}
	if !strings.HasPrefix(insts[0].Text, "mov") {
		t.Errorf("instruction 0 text = %q, want mov", insts[0].Text)
	}
	if !strings.HasPrefix(insts[1].Text, "add") {
		t.Errorf("instruction 1 text = %q, want add", insts[1].Text)
	}
}

func TestDisassembleUndecodable(t *testing.T) {
	d := New()

	insts := d.Disassemble(words(0xffffffff), 0)
	if len(insts) != 1 {
		t.Fatalf("got %d instructions, want 1", len(insts))
	}
	if !strings.HasPrefix(insts[0].Text, ".word") {
		t.Errorf("text = %q, want .word fallback", insts[0].Text)
	}
}

func TestDisassembleIgnoresPartialTail(t *testing.T) {
	d := New()

	code := append(words(0xe3a00000), 0xde, 0xad)
	insts := d.Disassemble(code, 0)
	if len(insts) != 1 {
		t.Errorf("got %d instructions, want 1 (partial word dropped)", len(insts))
	}
}

func TestDisassembleEmpty(t *testing.T) {
	d := New()
	if insts := d.Disassemble(nil, 0); len(insts) != 0 {
		t.Errorf("got %d instructions from empty input, want 0", len(insts))
	}
}

func TestInstructionString(t *testing.T) {
	inst := Instruction{Address: 0x8000, Encoding: 0xe3a00000, Text: "mov r0, #0"}
	want := "0x00008000  e3a00000  mov r0, #0"
	if got := inst.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
