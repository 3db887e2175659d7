/*
Package bti implements a reader and writer for the BTI texture container used
by GameCube and Wii titles.

A texture is stored as a 32 byte header, an optional palette of 16-bit
entries and the texture data encoded in one of the hardware formats
implemented by package gx. The header records the absolute offsets of the
palette and texture data so they may live anywhere within a larger blob. When
writing, the palette always immediately follows the header, the texture data
immediately follows the palette and the whole texture is padded with 0x40
bytes to a multiple of 32 bytes.

The header fields use a caller supplied byte order, big-endian for every known
title. The texture data itself is always big-endian.
*/
package bti

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/draw"
	"io"
	"io/ioutil"

	"github.com/bodgit/bti/gx"
)

// MaxDimension is the largest width or height a texture can have.
const MaxDimension = 0xffff

const (
	alignment = 32
	padByte   = 0x40
)

// Texture is a decoded texture. Pix holds the non-premultiplied RGBA pixels,
// four bytes per pixel in row-major order.
type Texture struct {
	Header  Header
	Palette Palette
	Pix     []byte
}

// Load reads a texture from r. The palette and texture data are read from
// whatever offsets the header states.
func Load(r io.ReadSeeker, order binary.ByteOrder) (*Texture, error) {
	h, err := ReadHeader(r, order)
	if err != nil {
		return nil, err
	}

	// Check the stream holds everything the header points at before
	// allocating anything sized from it
	end, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, &IOError{Op: "seek", Err: err}
	}
	if int64(h.PaletteDataOffset)+int64(h.PaletteCount)*paletteEntrySize > end {
		return nil, &IOError{Op: "read palette", Err: io.ErrUnexpectedEOF}
	}
	if int64(h.ImageDataOffset)+int64(h.ImageSize()) > end {
		return nil, &IOError{Op: "read image data", Err: io.ErrUnexpectedEOF}
	}

	if _, err := r.Seek(int64(h.PaletteDataOffset), io.SeekStart); err != nil {
		return nil, &IOError{Op: "seek palette", Err: err}
	}

	palette, err := loadPalette(r, int(h.PaletteCount))
	if err != nil {
		return nil, err
	}

	if _, err := r.Seek(int64(h.ImageDataOffset), io.SeekStart); err != nil {
		return nil, &IOError{Op: "seek image data", Err: err}
	}

	data := make([]byte, h.ImageSize())
	if err := readFull(r, data); err != nil {
		return nil, &IOError{Op: "read image data", Err: err}
	}

	return &Texture{
		Header:  h,
		Palette: palette,
		Pix:     gx.Decode(data, int(h.Width), int(h.Height), h.Format, palette, h.PaletteFormat),
	}, nil
}

// Decode parses a texture held in memory.
func Decode(b []byte, order binary.ByteOrder) (*Texture, error) {
	return Load(bytes.NewReader(b), order)
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}

func (t *Texture) update() {
	// An indexed texture without a palette gets one built from its pixels
	if t.Header.Format.Indexed() && len(t.Palette) == 0 {
		t.Palette = gx.Quantize(t.Header.Format, t.Pix, int(t.Header.Width), int(t.Header.Height), t.Header.PaletteFormat)
	}

	t.Header.PalettesEnabled = 0
	t.Header.PaletteDataOffset = 0
	if len(t.Palette) > 0 {
		t.Header.PalettesEnabled = 1
		t.Header.PaletteDataOffset = HeaderSize
	}
	t.Header.PaletteCount = uint16(t.Palette.Len())
	t.Header.ImageDataOffset = HeaderSize + uint32(len(t.Palette))
}

// Save writes the texture to w. The palette and offset fields of the header
// are recomputed first so the header always matches what is written. If the
// write fails part way through, whatever was written to w should be
// discarded.
func (t *Texture) Save(w io.Writer, order binary.ByteOrder) error {
	if err := t.Header.validate(); err != nil {
		return err
	}

	width, height := int(t.Header.Width), int(t.Header.Height)
	if len(t.Pix) != width*height*4 {
		return ErrBufferSize
	}

	t.update()

	cw := &countingWriter{w: w}

	if _, err := cw.Write(t.Header.Bytes(order)); err != nil {
		return &IOError{Op: "write header", Err: err}
	}

	if _, err := cw.Write(t.Palette); err != nil {
		return &IOError{Op: "write palette", Err: err}
	}

	data := gx.EncodeIndexed(t.Header.Format, t.Pix, width, height, t.Palette, t.Header.PaletteFormat)
	if _, err := cw.Write(data); err != nil {
		return &IOError{Op: "write image data", Err: err}
	}

	aligned := (cw.n + alignment - 1) &^ (alignment - 1)
	if _, err := cw.Write(bytes.Repeat([]byte{padByte}, int(aligned-cw.n))); err != nil {
		return &IOError{Op: "write padding", Err: err}
	}

	return nil
}

// Bytes returns the encoded texture.
func (t *Texture) Bytes(order binary.ByteOrder) ([]byte, error) {
	b := new(bytes.Buffer)
	if err := t.Save(b, order); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// Image returns the pixels as an image. The image shares its pixel buffer
// with the texture.
func (t *Texture) Image() (*image.NRGBA, error) {
	width, height := int(t.Header.Width), int(t.Header.Height)
	if len(t.Pix) != width*height*4 {
		return nil, ErrBufferSize
	}
	return &image.NRGBA{
		Pix:    t.Pix,
		Stride: width * 4,
		Rect:   image.Rect(0, 0, width, height),
	}, nil
}

// FromImage creates a texture from m, choosing the texture format with
// SelectFormat. The texture has no palette, linear filtering and a single
// mipmap level. Textures are limited to MaxDimension pixels on each side;
// larger images must be scaled down first, Save rejects the result otherwise.
func FromImage(m image.Image) *Texture {
	b := m.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	if src, ok := m.(*image.NRGBA); ok {
		// Copy directly, a round trip through premultiplied alpha is lossy
		for y := 0; y < b.Dy(); y++ {
			i := src.PixOffset(b.Min.X, b.Min.Y+y)
			copy(dst.Pix[y*dst.Stride:], src.Pix[i:i+b.Dx()*4])
		}
	} else {
		draw.Draw(dst, dst.Bounds(), m, b.Min, draw.Src)
	}

	t := &Texture{
		Header: Header{
			Format:      gx.CMPR,
			Width:       uint16(b.Dx()),
			Height:      uint16(b.Dy()),
			MinFilter:   Linear,
			MagFilter:   Linear,
			MipmapCount: 1,
		},
		Pix: dst.Pix,
	}

	format, alpha := SelectFormat(t.Pix)
	t.Header.Format = format
	if alpha {
		t.Header.Alpha = 1
	}

	return t
}

// DecodeImage reads a big-endian texture from r and returns it as an
// image.Image.
func DecodeImage(r io.Reader) (image.Image, error) {
	b, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, &IOError{Op: "read", Err: err}
	}
	t, err := Decode(b, binary.BigEndian)
	if err != nil {
		return nil, err
	}
	return t.Image()
}

// DecodeConfig returns the color model and dimensions of a big-endian texture
// without decoding the texture data.
func DecodeConfig(r io.Reader) (image.Config, error) {
	h, err := ReadHeader(r, binary.BigEndian)
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: color.NRGBAModel,
		Width:      int(h.Width),
		Height:     int(h.Height),
	}, nil
}
