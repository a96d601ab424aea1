package flash

import (
	"debug/elf"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/marcinbor85/gohex"

	"github.com/TomDeRybel/probe-rs/internal/probe/targets"
)

// Region is one contiguous block of image data placed at a target
// address.
type Region struct {
	Address uint32
	Data    []byte
}

// End returns the first address past the region data.
func (r Region) End() uint32 {
	return r.Address + uint32(len(r.Data))
}

// Loader collects image data for one download. It is fully populated
// before any flashing begins; there is no streaming-while-flashing.
type Loader struct {
	target  targets.Target
	regions []Region
}

// NewLoader creates a loader for the given target description.
func NewLoader(target targets.Target) *Loader {
	return &Loader{target: target}
}

// Regions returns the loaded regions in address order.
func (l *Loader) Regions() []Region {
	out := make([]Region, len(l.regions))
	copy(out, l.regions)
	sort.Slice(out, func(i, j int) bool { return out[i].Address < out[j].Address })
	return out
}

// TotalBytes returns the number of data bytes across all regions.
func (l *Loader) TotalBytes() int {
	n := 0
	for _, r := range l.regions {
		n += len(r.Data)
	}
	return n
}

func (l *Loader) add(addr uint32, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	end := addr + uint32(len(data))
	if end < addr {
		return fmt.Errorf("image data wraps the address space at 0x%08x", addr)
	}
	for _, r := range l.regions {
		if addr < r.End() && r.Address < end {
			return fmt.Errorf("image data at 0x%08x overlaps existing data at 0x%08x", addr, r.Address)
		}
	}
	owned := make([]byte, len(data))
	copy(owned, data)
	l.regions = append(l.regions, Region{Address: addr, Data: owned})
	return nil
}

// LoadFile opens path and loads it according to the image descriptor.
// A missing or unreadable file yields *FileOpenError; malformed
// content yields *ImageParseError. Either aborts before any flash
// write occurs.
func (l *Loader) LoadFile(path string, img Image) error {
	f, err := os.Open(path)
	if err != nil {
		return &FileOpenError{Path: path, Err: err}
	}
	defer f.Close()

	switch img.Format {
	case FormatHex:
		err = l.LoadHex(f)
	case FormatBin:
		err = l.LoadBin(f, img.Bin)
	default:
		err = l.LoadELF(f)
	}
	if err != nil {
		var parseErr *ImageParseError
		if errors.As(err, &parseErr) && parseErr.Path == "" {
			parseErr.Path = path
		}
		return err
	}
	return nil
}

// LoadELF reads the loadable program segments of an ELF image. The
// physical address of each segment decides where its data lands.
func (l *Loader) LoadELF(r io.ReaderAt) error {
	f, err := elf.NewFile(r)
	if err != nil {
		return &ImageParseError{Format: FormatELF, Err: err}
	}
	for _, prog := range f.Progs {
		if prog.Type != elf.PT_LOAD || prog.Filesz == 0 {
			continue
		}
		data := make([]byte, prog.Filesz)
		if _, err := io.ReadFull(prog.Open(), data); err != nil {
			return &ImageParseError{Format: FormatELF, Err: fmt.Errorf("segment at 0x%x: %w", prog.Paddr, err)}
		}
		if err := l.add(uint32(prog.Paddr), data); err != nil {
			return &ImageParseError{Format: FormatELF, Err: err}
		}
	}
	return nil
}

// LoadHex reads Intel HEX records. Each contiguous data segment of
// the hex file becomes one region.
func (l *Loader) LoadHex(r io.Reader) error {
	mem := gohex.NewMemory()
	if err := mem.ParseIntelHex(r); err != nil {
		return &ImageParseError{Format: FormatHex, Err: err}
	}
	for _, seg := range mem.GetDataSegments() {
		if err := l.add(seg.Address, seg.Data); err != nil {
			return &ImageParseError{Format: FormatHex, Err: err}
		}
	}
	return nil
}

// LoadBin reads a raw binary. The first opts.Skip bytes of the file
// are dropped and the remainder is placed at the base address
// (defaulting to 0). Skipping past the end of the file loads nothing.
func (l *Loader) LoadBin(r io.Reader, opts BinOptions) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return &ImageParseError{Format: FormatBin, Err: err}
	}
	if uint64(opts.Skip) >= uint64(len(data)) {
		return nil
	}
	data = data[opts.Skip:]

	base := uint32(0)
	if opts.BaseAddress != nil {
		base = *opts.BaseAddress
	}
	if err := l.add(base, data); err != nil {
		return &ImageParseError{Format: FormatBin, Err: err}
	}
	return nil
}
