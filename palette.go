package bti

import (
	"image/color"
	"io"

	"github.com/bodgit/bti/gx"
)

const paletteEntrySize = 2

// Palette holds the raw palette entries, two bytes each, encoded in the
// palette format named by the header.
type Palette []byte

// Len returns the number of entries in the palette.
func (p Palette) Len() int { return len(p) / paletteEntrySize }

// Colors returns the palette entries decoded using the palette format pf.
func (p Palette) Colors(pf gx.PaletteFormat) color.Palette {
	return gx.DecodePalette(p, pf)
}

func loadPalette(r io.Reader, count int) (Palette, error) {
	if count == 0 {
		return nil, nil
	}
	p := make(Palette, count*paletteEntrySize)
	if err := readFull(r, p); err != nil {
		return nil, &IOError{Op: "read palette", Err: err}
	}
	return p, nil
}
