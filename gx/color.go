package gx

import (
	"encoding/binary"
	"image/color"
)

func expand3(v uint8) uint8 { return v<<5 | v<<2 | v>>1 }
func expand4(v uint8) uint8 { return v<<4 | v }
func expand5(v uint8) uint8 { return v<<3 | v>>2 }
func expand6(v uint8) uint8 { return v<<2 | v>>4 }

// Intensity of c using the same weights as color.GrayModel
func intensity(c color.NRGBA) uint8 {
	return color.GrayModel.Convert(color.RGBA{c.R, c.G, c.B, 0xff}).(color.Gray).Y
}

func decodeIA8(v uint16) color.NRGBA {
	i := uint8(v)
	return color.NRGBA{i, i, i, uint8(v >> 8)}
}

func encodeIA8(c color.NRGBA) uint16 {
	return uint16(c.A)<<8 | uint16(intensity(c))
}

// Color is packed as RRRRRGGGGGGBBBBB
func decodeRGB565(v uint16) color.NRGBA {
	return color.NRGBA{
		expand5(uint8(v >> 11 & 0x1f)),
		expand6(uint8(v >> 5 & 0x3f)),
		expand5(uint8(v & 0x1f)),
		0xff,
	}
}

func encodeRGB565(c color.NRGBA) uint16 {
	return uint16(c.R>>3)<<11 | uint16(c.G>>2)<<5 | uint16(c.B>>3)
}

// Color is packed as either 1RRRRRGGGGGBBBBB when opaque or 0AAARRRRGGGGBBBB
func decodeRGB5A3(v uint16) color.NRGBA {
	if v&0x8000 != 0 {
		return color.NRGBA{
			expand5(uint8(v >> 10 & 0x1f)),
			expand5(uint8(v >> 5 & 0x1f)),
			expand5(uint8(v & 0x1f)),
			0xff,
		}
	}
	return color.NRGBA{
		expand4(uint8(v >> 8 & 0x0f)),
		expand4(uint8(v >> 4 & 0x0f)),
		expand4(uint8(v & 0x0f)),
		expand3(uint8(v >> 12 & 0x07)),
	}
}

func encodeRGB5A3(c color.NRGBA) uint16 {
	// Three bits of alpha can't tell these apart from opaque
	if c.A>>5 == 0x07 {
		return 0x8000 | uint16(c.R>>3)<<10 | uint16(c.G>>3)<<5 | uint16(c.B>>3)
	}
	return uint16(c.A>>5)<<12 | uint16(c.R>>4)<<8 | uint16(c.G>>4)<<4 | uint16(c.B>>4)
}

func decodePaletteColor(v uint16, pf PaletteFormat) color.NRGBA {
	switch pf {
	case PaletteIA8:
		return decodeIA8(v)
	case PaletteRGB565:
		return decodeRGB565(v)
	case PaletteRGB5A3:
		return decodeRGB5A3(v)
	}
	return color.NRGBA{}
}

func encodePaletteColor(c color.NRGBA, pf PaletteFormat) uint16 {
	switch pf {
	case PaletteIA8:
		return encodeIA8(c)
	case PaletteRGB565:
		return encodeRGB565(c)
	case PaletteRGB5A3:
		return encodeRGB5A3(c)
	}
	return 0
}

// DecodePalette expands raw palette entries into colors.
func DecodePalette(b []byte, pf PaletteFormat) color.Palette {
	p := make(color.Palette, len(b)>>1)
	for i := range p {
		p[i] = decodePaletteColor(binary.BigEndian.Uint16(b[i<<1:]), pf)
	}
	return p
}

// EncodePalette packs colors into raw palette entries.
func EncodePalette(p color.Palette, pf PaletteFormat) []byte {
	b := make([]byte, len(p)<<1)
	for i, c := range p {
		binary.BigEndian.PutUint16(b[i<<1:], encodePaletteColor(color.NRGBAModel.Convert(c).(color.NRGBA), pf))
	}
	return b
}

// Coordinates beyond the edge of the texture repeat the edge pixel so partial
// blocks don't skew the block compressor
func at(pix []byte, width, height, x, y int) color.NRGBA {
	if x >= width {
		x = width - 1
	}
	if y >= height {
		y = height - 1
	}
	i := (y*width + x) << 2
	return color.NRGBA{pix[i], pix[i+1], pix[i+2], pix[i+3]}
}

func set(pix []byte, width, height, x, y int, c color.NRGBA) {
	if x >= width || y >= height {
		return
	}
	i := (y*width + x) << 2
	pix[i+0] = c.R
	pix[i+1] = c.G
	pix[i+2] = c.B
	pix[i+3] = c.A
}
