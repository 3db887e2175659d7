package gx

import (
	"encoding/binary"
	"image/color"
)

type decoder struct {
	format  Format
	data    []byte
	palette color.Palette
}

func (d *decoder) texel(n int) uint16 {
	switch blocks[d.format].bpp {
	case 4:
		if n&1 == 0 {
			return uint16(d.data[n>>1] >> 4)
		}
		return uint16(d.data[n>>1] & 0x0f)
	case 8:
		return uint16(d.data[n])
	default:
		return binary.BigEndian.Uint16(d.data[n<<1:])
	}
}

func (d *decoder) lookup(i uint16) color.NRGBA {
	if int(i) >= len(d.palette) {
		return color.NRGBA{}
	}
	return d.palette[i].(color.NRGBA)
}

func (d *decoder) color(v uint16) color.NRGBA {
	switch d.format {
	case I4:
		i := expand4(uint8(v))
		return color.NRGBA{i, i, i, 0xff}
	case I8:
		i := uint8(v)
		return color.NRGBA{i, i, i, 0xff}
	case IA4:
		i := expand4(uint8(v) & 0x0f)
		return color.NRGBA{i, i, i, expand4(uint8(v) >> 4)}
	case IA8:
		return decodeIA8(v)
	case RGB565:
		return decodeRGB565(v)
	case RGB5A3:
		return decodeRGB5A3(v)
	case C4, C8:
		return d.lookup(v)
	case C14X2:
		return d.lookup(v & 0x3fff)
	}
	return color.NRGBA{}
}

// Texels are stored as 16 AR pairs followed by 16 GB pairs
func (d *decoder) rgba8(blk int) (out [16]color.NRGBA) {
	b := d.data[blk<<6:]
	for i := range out {
		out[i] = color.NRGBA{b[i<<1+1], b[32+i<<1], b[32+i<<1+1], b[i<<1]}
	}
	return
}

// Decode converts encoded texture data into non-premultiplied RGBA pixels,
// four bytes per pixel in row-major order. The palette is only consulted for
// the indexed formats; indices beyond the end of it decode as transparent
// black. Data shorter than ImageSize reports is treated as zero-filled.
func Decode(data []byte, width, height int, f Format, palette []byte, pf PaletteFormat) []byte {
	if width <= 0 || height <= 0 {
		return []byte{}
	}

	pix := make([]byte, width*height<<2)

	b, ok := blocks[f]
	if !ok {
		return pix
	}

	if size := ImageSize(f, width, height); len(data) < size {
		tmp := make([]byte, size)
		copy(tmp, data)
		data = tmp
	}

	d := decoder{
		format: f,
		data:   data,
	}
	if f.Indexed() {
		d.palette = DecodePalette(palette, pf)
	}

	blk := 0
	for by := 0; by < height; by += b.height {
		for bx := 0; bx < width; bx += b.width {
			switch f {
			case RGBA8:
				for i, c := range d.rgba8(blk) {
					set(pix, width, height, bx+i%4, by+i/4, c)
				}
			case CMPR:
				for s := 0; s < 4; s++ {
					sx := bx + s%2*subBlockSize
					sy := by + s/2*subBlockSize
					for i, c := range decodeDXT1(data[blk*32+s*subBlockBytes:]) {
						set(pix, width, height, sx+i%subBlockSize, sy+i/subBlockSize, c)
					}
				}
			default:
				n := blk * b.width * b.height
				for y := 0; y < b.height; y++ {
					for x := 0; x < b.width; x++ {
						set(pix, width, height, bx+x, by+y, d.color(d.texel(n)))
						n++
					}
				}
			}
			blk++
		}
	}

	return pix
}
