package flash

import (
	"fmt"
	"strings"
)

// Format identifies a firmware image file format.
type Format int

const (
	// FormatELF is an ELF executable; load addresses come from the
	// program headers.
	FormatELF Format = iota
	// FormatHex is Intel HEX; load addresses come from the records.
	FormatHex
	// FormatBin is a raw binary with an explicit base address.
	FormatBin
)

// String returns the format token.
func (f Format) String() string {
	switch f {
	case FormatHex:
		return "hex"
	case FormatBin:
		return "bin"
	default:
		return "elf"
	}
}

// ParseFormat parses a format token. Matching is case-insensitive;
// the empty token selects ELF, matching the download default.
func ParseFormat(token string) (Format, error) {
	switch strings.ToLower(token) {
	case "", "elf":
		return FormatELF, nil
	case "hex":
		return FormatHex, nil
	case "bin":
		return FormatBin, nil
	default:
		return FormatELF, fmt.Errorf("unknown image format %q (expected elf, hex or bin)", token)
	}
}

// BinOptions are the placement parameters for raw binary images.
type BinOptions struct {
	// BaseAddress is where the binary is placed; nil means address 0
	BaseAddress *uint32

	// Skip is the number of bytes to drop from the start of the file
	Skip uint32
}

// Image is an immutable image descriptor: a format plus the raw
// binary placement options. The options carry meaning only for
// FormatBin.
type Image struct {
	Format Format
	Bin    BinOptions
}

// ResolveImage maps a declared format token and optional base-address
// and skip-bytes overrides to one image descriptor. For elf and hex
// any supplied base/skip values are ignored without erroring; no
// validation beyond token parsing happens here - out-of-range
// addresses surface later when the loader or flasher rejects them.
func ResolveImage(token string, baseAddress *uint32, skipBytes *uint32) (Image, error) {
	format, err := ParseFormat(token)
	if err != nil {
		return Image{}, err
	}
	img := Image{Format: format}
	if format == FormatBin {
		img.Bin.BaseAddress = baseAddress
		if skipBytes != nil {
			img.Bin.Skip = *skipBytes
		}
	}
	return img, nil
}
