// Package debuginfo reads DWARF debug information from a companion
// executable, giving the debug shell source-level context. Absence of
// debug info is never fatal: the shell degrades to disassembly-only
// features.
package debuginfo

import (
	"debug/dwarf"
	"debug/elf"
	"errors"
	"fmt"
)

// DebugInfo is the symbolic debug information of one executable.
type DebugInfo struct {
	path string
	data *dwarf.Data
}

// Location is a resolved source position.
type Location struct {
	// File is the source file path
	File string

	// Line is the 1-based source line
	Line int

	// Function is the enclosing function name, if one was found
	Function string
}

func (l Location) String() string {
	if l.Function != "" {
		return fmt.Sprintf("%s:%d (%s)", l.File, l.Line, l.Function)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// FromFile opens the ELF at path and loads its DWARF sections.
func FromFile(path string) (*DebugInfo, error) {
	f, err := elf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open executable %q: %w", path, err)
	}
	defer f.Close()

	data, err := f.DWARF()
	if err != nil {
		return nil, fmt.Errorf("executable %q carries no usable debug info: %w", path, err)
	}

	return &DebugInfo{path: path, data: data}, nil
}

// Path returns the executable path the debug info was loaded from.
func (di *DebugInfo) Path() string {
	return di.path
}

// SourceLocation resolves a program counter to its source position.
func (di *DebugInfo) SourceLocation(pc uint32) (*Location, error) {
	if di == nil {
		return nil, errors.New("no debug info loaded")
	}

	r := di.data.Reader()
	cu, err := r.SeekPC(uint64(pc))
	if err != nil {
		return nil, fmt.Errorf("no compilation unit covers 0x%08x", pc)
	}

	lr, err := di.data.LineReader(cu)
	if err != nil || lr == nil {
		return nil, fmt.Errorf("no line table for 0x%08x", pc)
	}

	// Find the line entry with the greatest address not past pc.
	var (
		entry dwarf.LineEntry
		best  *Location
	)
	for {
		if err := lr.Next(&entry); err != nil {
			break
		}
		if entry.EndSequence {
			continue
		}
		if entry.Address <= uint64(pc) {
			best = &Location{File: entry.File.Name, Line: entry.Line}
		}
	}
	if best == nil {
		return nil, fmt.Errorf("no line information for 0x%08x", pc)
	}

	best.Function = di.functionAt(cu, uint64(pc))
	return best, nil
}

// functionAt scans the compilation unit for a subprogram whose range
// covers pc. Best effort only.
func (di *DebugInfo) functionAt(cu *dwarf.Entry, pc uint64) string {
	r := di.data.Reader()
	r.Seek(cu.Offset)
	if _, err := r.Next(); err != nil {
		return ""
	}
	for {
		e, err := r.Next()
		if err != nil || e == nil {
			break
		}
		if e.Tag == dwarf.TagCompileUnit {
			// Reached the next unit.
			break
		}
		if e.Tag != dwarf.TagSubprogram {
			continue
		}
		low, lowOK := e.Val(dwarf.AttrLowpc).(uint64)
		if !lowOK {
			continue
		}
		var high uint64
		switch v := e.Val(dwarf.AttrHighpc).(type) {
		case uint64:
			high = v
		case int64:
			high = low + uint64(v)
		default:
			continue
		}
		if high < low {
			high += low
		}
		if pc >= low && pc < high {
			if name, ok := e.Val(dwarf.AttrName).(string); ok {
				return name
			}
			return ""
		}
	}
	return ""
}
