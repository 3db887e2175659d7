package gx

import (
	"encoding/binary"
	"image/color"
)

// CMPR is DXT1 with big-endian endpoints where each 8 by 8 block holds four
// 4 by 4 sub-blocks in the order top-left, top-right, bottom-left,
// bottom-right.
const (
	subBlockSize  = 4
	subBlockBytes = 8
)

func blend(c0, c1 color.NRGBA, w0, w1 int) color.NRGBA {
	d := w0 + w1
	return color.NRGBA{
		uint8((w0*int(c0.R) + w1*int(c1.R)) / d),
		uint8((w0*int(c0.G) + w1*int(c1.G)) / d),
		uint8((w0*int(c0.B) + w1*int(c1.B)) / d),
		0xff,
	}
}

// The 4-color palette, or 3 colors plus transparent if c0 <= c1
func dxtPalette(c0, c1 uint16) (p [4]color.NRGBA) {
	p[0] = decodeRGB565(c0)
	p[1] = decodeRGB565(c1)
	if c0 > c1 {
		p[2] = blend(p[0], p[1], 2, 1)
		p[3] = blend(p[0], p[1], 1, 2)
	} else {
		p[2] = blend(p[0], p[1], 1, 1)
		p[3] = p[2]
		p[3].A = 0
	}
	return
}

func decodeDXT1(b []byte) (out [subBlockSize * subBlockSize]color.NRGBA) {
	p := dxtPalette(binary.BigEndian.Uint16(b[0:]), binary.BigEndian.Uint16(b[2:]))
	for y := 0; y < subBlockSize; y++ {
		row := b[4+y]
		for x := 0; x < subBlockSize; x++ {
			out[y*subBlockSize+x] = p[row>>uint(6-2*x)&0x03]
		}
	}
	return
}

// Copied from color.sqDiff
func sqDiff(x, y uint32) uint32 {
	d := x - y
	return (d * d) >> 2
}

func distance(c1, c2 color.NRGBA) uint32 {
	return sqDiff(uint32(c1.R)*0x101, uint32(c2.R)*0x101) +
		sqDiff(uint32(c1.G)*0x101, uint32(c2.G)*0x101) +
		sqDiff(uint32(c1.B)*0x101, uint32(c2.B)*0x101)
}

// Pixels with less than half alpha are treated as transparent
func transparent(c color.NRGBA) bool {
	return c.A < 0x80
}

// Endpoints are the corners of the bounding box of the opaque colors in the
// sub-block which is crude but stable
func encodeDXT1(in [subBlockSize * subBlockSize]color.NRGBA) (b [subBlockBytes]byte) {
	lo := color.NRGBA{0xff, 0xff, 0xff, 0xff}
	hi := color.NRGBA{0x00, 0x00, 0x00, 0xff}
	var hasAlpha, hasColor bool
	for _, c := range in {
		if transparent(c) {
			hasAlpha = true
			continue
		}
		hasColor = true
		lo.R, hi.R = minByte(lo.R, c.R), maxByte(hi.R, c.R)
		lo.G, hi.G = minByte(lo.G, c.G), maxByte(hi.G, c.G)
		lo.B, hi.B = minByte(lo.B, c.B), maxByte(hi.B, c.B)
	}

	if !hasColor {
		// c0 == c1 selects 3-color mode, every index is transparent
		for i := 4; i < subBlockBytes; i++ {
			b[i] = 0xff
		}
		return
	}

	c0, c1 := encodeRGB565(hi), encodeRGB565(lo)
	if hasAlpha {
		c0, c1 = c1, c0
	}
	binary.BigEndian.PutUint16(b[0:], c0)
	binary.BigEndian.PutUint16(b[2:], c1)

	p := dxtPalette(c0, c1)
	n := len(p)
	if c0 <= c1 {
		n--
	}

	for i, c := range in {
		var idx byte
		if hasAlpha && transparent(c) {
			idx = 3
		} else {
			best := ^uint32(0)
			for j := 0; j < n; j++ {
				if d := distance(c, p[j]); d < best {
					best, idx = d, byte(j)
				}
			}
		}
		b[4+i/subBlockSize] |= idx << uint(6-2*(i%subBlockSize))
	}
	return
}

func minByte(a, b uint8) uint8 {
	if a < b {
		return a
	}
	return b
}

func maxByte(a, b uint8) uint8 {
	if a > b {
		return a
	}
	return b
}
