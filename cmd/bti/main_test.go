package main

import (
	"bytes"
	"testing"

	"github.com/bodgit/bti"
	"github.com/bodgit/bti/gx"
	"github.com/stretchr/testify/assert"
)

func TestPrintTexture(t *testing.T) {
	tex := &bti.Texture{
		Header: bti.Header{
			Format:            gx.C4,
			Width:             8,
			Height:            8,
			PalettesEnabled:   1,
			PaletteFormat:     gx.PaletteRGB565,
			PaletteCount:      2,
			PaletteDataOffset: bti.HeaderSize,
			ImageDataOffset:   bti.HeaderSize + 4,
		},
		Palette: bti.Palette{0xf8, 0x00, 0x00, 0x1f},
	}

	b := new(bytes.Buffer)
	printTexture(b, "red.bti", 100, tex)
	assert.Contains(t, b.String(), "format:       C4\n")
	assert.Contains(t, b.String(), "palette:      2 x RGB565 at 0x20\n")
	assert.Contains(t, b.String(), "      0: #ff0000ff\n")
	assert.Contains(t, b.String(), "      1: #0000ffff\n")

	tex = &bti.Texture{
		Header: bti.Header{
			Format:          gx.I8,
			Width:           8,
			Height:          4,
			ImageDataOffset: bti.HeaderSize,
		},
	}

	b.Reset()
	printTexture(b, "gray.bti", 64, tex)
	assert.Contains(t, b.String(), "dimensions:   8x4\n")
	assert.NotContains(t, b.String(), "palette:")
}
