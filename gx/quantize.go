package gx

import (
	"image"
	"image/color"
	"sort"

	"github.com/ericpauley/go-quantize/quantize"
)

// Most colors the median cut quantizer is asked for, C14X2 could address more
const maxQuantizeColors = 256

func countColors(m *image.NRGBA) map[color.NRGBA]struct{} {
	colors := make(map[color.NRGBA]struct{})
	for i := 0; i+3 < len(m.Pix); i += 4 {
		colors[color.NRGBA{m.Pix[i], m.Pix[i+1], m.Pix[i+2], m.Pix[i+3]}] = struct{}{}
	}
	return colors
}

// Quantize builds a palette suitable for encoding the pixels with the indexed
// format f and returns it packed as palette format pf. If the pixels already
// use few enough colors they are used as-is, otherwise a median cut quantizer
// picks them. Direct color formats need no palette and return nil.
func Quantize(f Format, pix []byte, width, height int, pf PaletteFormat) []byte {
	if !f.Indexed() || !validPixels(pix, width, height) {
		return nil
	}

	n := f.MaxColors()
	if n > maxQuantizeColors {
		n = maxQuantizeColors
	}

	m := &image.NRGBA{
		Pix:    pix[:width*height<<2],
		Stride: width << 2,
		Rect:   image.Rect(0, 0, width, height),
	}

	var p color.Palette
	if colors := countColors(m); len(colors) <= n {
		p = make(color.Palette, 0, len(colors))
		for c := range colors {
			p = append(p, c)
		}
		sortPalette(p)
	} else {
		q := quantize.MedianCutQuantizer{}
		p = q.Quantize(make(color.Palette, 0, n), m)
	}

	return EncodePalette(p, pf)
}

// Map iteration order is random so sort for stable output
func sortPalette(p color.Palette) {
	key := func(i int) uint32 {
		c := p[i].(color.NRGBA)
		return uint32(c.R)<<24 | uint32(c.G)<<16 | uint32(c.B)<<8 | uint32(c.A)
	}
	sort.Slice(p, func(i, j int) bool { return key(i) < key(j) })
}
