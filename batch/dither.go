package batch

import (
	"image"
	"image/color/palette"

	"github.com/esimov/colorquant"
)

// Floyd-Steinberg error diffusion
var floydSteinberg = colorquant.Dither{
	Filter: [][]float32{
		{0.0, 0.0, 7.0 / 16.0},
		{3.0 / 16.0, 5.0 / 16.0, 1.0 / 16.0},
	},
}

// Most colors the quantizer can produce in a paletted image
const maxDitherColors = 256

func dither(m image.Image, colors int) image.Image {
	if colors > maxDitherColors {
		colors = maxDitherColors
	}
	dst := image.NewPaletted(m.Bounds(), palette.Plan9)
	return floydSteinberg.Quantize(m, dst, colors, true, true)
}
