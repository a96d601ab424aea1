// Package disasm wraps the ARM disassembly engine used by the debug
// shell. Decoding semantics belong to golang.org/x/arch; this package
// only shapes its output into addressed instruction lines.
package disasm

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/arch/arm/armasm"
)

// Instruction is one decoded instruction at a target address.
type Instruction struct {
	// Address is the target address of the instruction
	Address uint32

	// Encoding is the raw 32-bit instruction word
	Encoding uint32

	// Text is the rendered assembly in GNU syntax
	Text string
}

// String formats the instruction the way the shell prints it.
func (i Instruction) String() string {
	return fmt.Sprintf("0x%08x  %08x  %s", i.Address, i.Encoding, i.Text)
}

// Disassembler decodes A32 instruction words.
type Disassembler struct {
	mode armasm.Mode
}

// New creates a disassembler in ARM (A32) mode. The engine does not
// decode Thumb: armasm.Decode rejects any mode other than ModeARM, so
// on Thumb-only cores (Cortex-M) instruction words that are not valid
// A32 encodings render as raw .word data.
func New() *Disassembler {
	return &Disassembler{mode: armasm.ModeARM}
}

// Disassemble decodes the given code bytes starting at addr, one
// 32-bit word per instruction. Words the engine cannot decode render
// as raw data and decoding continues; a trailing partial word is
// ignored.
func (d *Disassembler) Disassemble(code []byte, addr uint32) []Instruction {
	var out []Instruction
	for i := 0; i+4 <= len(code); i += 4 {
		word := binary.LittleEndian.Uint32(code[i : i+4])
		text := fmt.Sprintf(".word 0x%08x", word)
		if inst, err := armasm.Decode(code[i:i+4], d.mode); err == nil {
			text = armasm.GNUSyntax(inst)
		}
		out = append(out, Instruction{
			Address:  addr + uint32(i),
			Encoding: word,
			Text:     text,
		})
	}
	return out
}
