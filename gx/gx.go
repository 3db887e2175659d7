/*
Package gx implements the texture encodings understood by the GameCube and Wii
graphics processor.

Texture data is stored as a sequence of fixed size blocks, left to right and
then top to bottom. Every format has a fixed block size and a fixed number of
bits per texel so the encoded size of a texture depends only on its format and
dimensions. Texels that fall outside of the texture in a partial block are
still stored but are ignored when decoding.

All multi-byte texel values are big-endian regardless of the byte order used
by any container wrapping the texture data.
*/
package gx

import (
	"fmt"
	"strings"
)

// Format is a hardware texture format.
type Format uint8

// The supported texture formats.
const (
	I4     Format = 0x0
	I8     Format = 0x1
	IA4    Format = 0x2
	IA8    Format = 0x3
	RGB565 Format = 0x4
	RGB5A3 Format = 0x5
	RGBA8  Format = 0x6
	C4     Format = 0x8
	C8     Format = 0x9
	C14X2  Format = 0xa
	CMPR   Format = 0xe
)

type block struct {
	width, height int
	bpp           int
}

var blocks = map[Format]block{
	I4:     {8, 8, 4},
	I8:     {8, 4, 8},
	IA4:    {8, 4, 8},
	IA8:    {4, 4, 16},
	RGB565: {4, 4, 16},
	RGB5A3: {4, 4, 16},
	RGBA8:  {4, 4, 32},
	C4:     {8, 8, 4},
	C8:     {8, 4, 8},
	C14X2:  {4, 4, 16},
	CMPR:   {8, 8, 4},
}

var formatNames = map[Format]string{
	I4:     "I4",
	I8:     "I8",
	IA4:    "IA4",
	IA8:    "IA8",
	RGB565: "RGB565",
	RGB5A3: "RGB5A3",
	RGBA8:  "RGBA8",
	C4:     "C4",
	C8:     "C8",
	C14X2:  "C14X2",
	CMPR:   "CMPR",
}

func (f Format) String() string {
	if s, ok := formatNames[f]; ok {
		return s
	}
	return fmt.Sprintf("Format(%#x)", uint8(f))
}

// Valid reports whether f is a known texture format.
func (f Format) Valid() bool {
	_, ok := blocks[f]
	return ok
}

// Indexed reports whether texels of format f are indices into a palette.
func (f Format) Indexed() bool {
	switch f {
	case C4, C8, C14X2:
		return true
	}
	return false
}

// MaxColors returns the number of palette entries addressable by an indexed
// format, or zero for a direct color format.
func (f Format) MaxColors() int {
	switch f {
	case C4:
		return 1 << 4
	case C8:
		return 1 << 8
	case C14X2:
		return 1 << 14
	}
	return 0
}

// ParseFormat returns the format with the given name, ignoring case.
func ParseFormat(s string) (Format, error) {
	for f, name := range formatNames {
		if strings.EqualFold(name, s) {
			return f, nil
		}
	}
	return 0, fmt.Errorf("gx: unknown texture format %q", s)
}

// ImageSize returns the number of bytes needed to store a texture of the
// given format and dimensions. Unknown formats have a size of zero.
func ImageSize(f Format, width, height int) int {
	b, ok := blocks[f]
	if !ok || width <= 0 || height <= 0 {
		return 0
	}
	bx := (width + b.width - 1) / b.width
	by := (height + b.height - 1) / b.height
	return bx * by * b.width * b.height * b.bpp >> 3
}

// PaletteFormat is the encoding of each 16-bit palette entry.
type PaletteFormat uint8

// The supported palette formats.
const (
	PaletteIA8    PaletteFormat = 0x0
	PaletteRGB565 PaletteFormat = 0x1
	PaletteRGB5A3 PaletteFormat = 0x2
)

var paletteFormatNames = map[PaletteFormat]string{
	PaletteIA8:    "IA8",
	PaletteRGB565: "RGB565",
	PaletteRGB5A3: "RGB5A3",
}

func (pf PaletteFormat) String() string {
	if s, ok := paletteFormatNames[pf]; ok {
		return s
	}
	return fmt.Sprintf("PaletteFormat(%#x)", uint8(pf))
}

// Valid reports whether pf is a known palette format.
func (pf PaletteFormat) Valid() bool {
	_, ok := paletteFormatNames[pf]
	return ok
}

// ParsePaletteFormat returns the palette format with the given name, ignoring
// case.
func ParsePaletteFormat(s string) (PaletteFormat, error) {
	for pf, name := range paletteFormatNames {
		if strings.EqualFold(name, s) {
			return pf, nil
		}
	}
	return 0, fmt.Errorf("gx: unknown palette format %q", s)
}
