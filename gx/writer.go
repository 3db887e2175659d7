package gx

import (
	"encoding/binary"
	"image/color"
)

type encoder struct {
	format  Format
	data    []byte
	palette color.Palette
	cache   map[color.NRGBA]uint16
}

func (e *encoder) putTexel(n int, v uint16) {
	switch blocks[e.format].bpp {
	case 4:
		if n&1 == 0 {
			e.data[n>>1] |= byte(v&0x0f) << 4
		} else {
			e.data[n>>1] |= byte(v & 0x0f)
		}
	case 8:
		e.data[n] = byte(v)
	default:
		binary.BigEndian.PutUint16(e.data[n<<1:], v)
	}
}

func (e *encoder) index(c color.NRGBA) uint16 {
	if len(e.palette) == 0 {
		return 0
	}
	if i, ok := e.cache[c]; ok {
		return i
	}
	i := uint16(e.palette.Index(c))
	e.cache[c] = i
	return i
}

func (e *encoder) value(c color.NRGBA) uint16 {
	switch e.format {
	case I4:
		return uint16(intensity(c) >> 4)
	case I8:
		return uint16(intensity(c))
	case IA4:
		return uint16(c.A&0xf0 | intensity(c)>>4)
	case IA8:
		return encodeIA8(c)
	case RGB565:
		return encodeRGB565(c)
	case RGB5A3:
		return encodeRGB5A3(c)
	case C4, C8, C14X2:
		return e.index(c)
	}
	return 0
}

func (e *encoder) rgba8(blk int, in [16]color.NRGBA) {
	b := e.data[blk<<6:]
	for i, c := range in {
		b[i<<1], b[i<<1+1] = c.A, c.R
		b[32+i<<1], b[32+i<<1+1] = c.G, c.B
	}
}

func (e *encoder) encode(pix []byte, width, height int) []byte {
	b := blocks[e.format]
	e.data = make([]byte, ImageSize(e.format, width, height))

	blk := 0
	for by := 0; by < height; by += b.height {
		for bx := 0; bx < width; bx += b.width {
			switch e.format {
			case RGBA8:
				var in [16]color.NRGBA
				for i := range in {
					in[i] = at(pix, width, height, bx+i%4, by+i/4)
				}
				e.rgba8(blk, in)
			case CMPR:
				for s := 0; s < 4; s++ {
					sx := bx + s%2*subBlockSize
					sy := by + s/2*subBlockSize
					var in [subBlockSize * subBlockSize]color.NRGBA
					for i := range in {
						in[i] = at(pix, width, height, sx+i%subBlockSize, sy+i/subBlockSize)
					}
					out := encodeDXT1(in)
					copy(e.data[blk*32+s*subBlockBytes:], out[:])
				}
			default:
				n := blk * b.width * b.height
				for y := 0; y < b.height; y++ {
					for x := 0; x < b.width; x++ {
						e.putTexel(n, e.value(at(pix, width, height, bx+x, by+y)))
						n++
					}
				}
			}
			blk++
		}
	}

	return e.data
}

func validPixels(pix []byte, width, height int) bool {
	return width > 0 && height > 0 && len(pix) >= width*height<<2
}

// Encode converts non-premultiplied RGBA pixels into texture data of format
// f. Indexed formats need a palette so every texel is encoded as index zero;
// use EncodeIndexed for those.
func Encode(f Format, pix []byte, width, height int) []byte {
	if !f.Valid() || !validPixels(pix, width, height) {
		return []byte{}
	}
	e := encoder{format: f}
	return e.encode(pix, width, height)
}

// EncodeIndexed converts non-premultiplied RGBA pixels into texture data of
// format f, mapping each pixel to the closest color in the palette. For direct
// color formats the palette is ignored and the result matches Encode.
func EncodeIndexed(f Format, pix []byte, width, height int, palette []byte, pf PaletteFormat) []byte {
	if !f.Valid() || !validPixels(pix, width, height) {
		return []byte{}
	}
	e := encoder{
		format: f,
		cache:  make(map[color.NRGBA]uint16),
	}
	if f.Indexed() {
		e.palette = DecodePalette(palette, pf)
		if n := f.MaxColors(); len(e.palette) > n {
			e.palette = e.palette[:n]
		}
	}
	return e.encode(pix, width, height)
}
