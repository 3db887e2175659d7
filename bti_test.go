package bti

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"io"
	"testing"

	"github.com/bodgit/bti/gx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newImage(width, height int, pix ...byte) *image.NRGBA {
	return &image.NRGBA{
		Pix:    pix,
		Stride: width * 4,
		Rect:   image.Rect(0, 0, width, height),
	}
}

func roundTrip(t *testing.T, tex *Texture, order binary.ByteOrder) *Texture {
	b, err := tex.Bytes(order)
	require.NoError(t, err)
	got, err := Decode(b, order)
	require.NoError(t, err)
	return got
}

func TestRoundTripI8(t *testing.T) {
	m := newImage(2, 2,
		10, 10, 10, 255, 20, 20, 20, 255,
		30, 30, 30, 255, 40, 40, 40, 255,
	)

	tex := FromImage(m)
	assert.Equal(t, gx.I8, tex.Header.Format)
	assert.Equal(t, uint8(0), tex.Header.Alpha)

	got := roundTrip(t, tex, binary.BigEndian)
	img, err := got.Image()
	require.NoError(t, err)
	assert.Equal(t, m.Pix, img.Pix)
	assert.Equal(t, m.Rect, img.Rect)
}

func TestRoundTripRGB5A3(t *testing.T) {
	m := newImage(2, 2,
		0x11, 0x22, 0x33, 0x92, 0x08, 0xff, 0x84, 0xff,
		0xff, 0x00, 0x00, 0xff, 0x00, 0x00, 0xff, 0x00,
	)

	for _, order := range []binary.ByteOrder{binary.BigEndian, binary.LittleEndian} {
		tex := FromImage(m)
		assert.Equal(t, gx.RGB5A3, tex.Header.Format)
		assert.Equal(t, uint8(1), tex.Header.Alpha)

		got := roundTrip(t, tex, order)
		assert.Equal(t, tex.Header, got.Header)
		assert.Equal(t, m.Pix, got.Pix)
	}
}

func TestRoundTripCMPR(t *testing.T) {
	m := image.NewNRGBA(image.Rect(0, 0, 12, 6))
	for y := 0; y < 6; y++ {
		for x := 0; x < 12; x++ {
			m.SetNRGBA(x, y, color.NRGBA{uint8(x * 8), uint8(y * 8), 0x80, 0xff})
		}
	}

	tex := FromImage(m)
	assert.Equal(t, gx.CMPR, tex.Header.Format)

	got := roundTrip(t, tex, binary.BigEndian)
	assert.Equal(t, tex.Header.Width, got.Header.Width)
	assert.Equal(t, tex.Header.Height, got.Header.Height)
	assert.Equal(t, tex.Header.Alpha, got.Header.Alpha)
	require.Len(t, got.Pix, len(m.Pix))
	for i := range m.Pix {
		assert.InDelta(t, m.Pix[i], got.Pix[i], 40, "byte %d", i)
	}
}

func TestRoundTripPalette(t *testing.T) {
	red := []byte{0xff, 0x00, 0x00, 0xff}
	green := []byte{0x00, 0xff, 0x00, 0xff}
	blue := []byte{0x00, 0x00, 0xff, 0xff}

	var pix []byte
	for i := 0; i < 16; i++ {
		pix = append(pix, [][]byte{red, green, blue}[i%3]...)
	}

	tex := FromImage(newImage(4, 4, pix...))
	tex.Header.Format = gx.C4
	tex.Header.PaletteFormat = gx.PaletteRGB565

	b, err := tex.Bytes(binary.BigEndian)
	require.NoError(t, err)

	assert.Equal(t, uint8(1), tex.Header.PalettesEnabled)
	assert.Equal(t, uint16(3), tex.Header.PaletteCount)
	assert.Equal(t, uint32(HeaderSize), tex.Header.PaletteDataOffset)
	assert.Equal(t, uint32(HeaderSize+6), tex.Header.ImageDataOffset)

	got, err := Decode(b, binary.BigEndian)
	require.NoError(t, err)
	assert.Equal(t, tex.Palette, got.Palette)
	assert.Equal(t, pix, got.Pix)
}

func TestSaveLayout(t *testing.T) {
	tables := []struct {
		name    string
		format  gx.Format
		width   int
		height  int
		palette bool
	}{
		{"I8", gx.I8, 3, 3, false},
		{"CMPR", gx.CMPR, 8, 8, false},
		{"RGBA8", gx.RGBA8, 5, 1, false},
		{"C4", gx.C4, 3, 3, true},
		{"C8", gx.C8, 9, 2, true},
		{"C14X2", gx.C14X2, 4, 4, true},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			pix := make([]byte, table.width*table.height*4)
			for i := range pix {
				pix[i] = byte(i * 7)
			}
			tex := FromImage(newImage(table.width, table.height, pix...))
			tex.Header.Format = table.format

			b, err := tex.Bytes(binary.BigEndian)
			require.NoError(t, err)
			assert.Zero(t, len(b)%alignment)

			h, err := ReadHeader(bytes.NewReader(b), binary.BigEndian)
			require.NoError(t, err)

			if table.palette {
				assert.Equal(t, uint8(1), h.PalettesEnabled)
				assert.Equal(t, uint32(HeaderSize), h.PaletteDataOffset)
				assert.NotZero(t, h.PaletteCount)
			} else {
				assert.Equal(t, uint8(0), h.PalettesEnabled)
				assert.Equal(t, uint32(0), h.PaletteDataOffset)
				assert.Zero(t, h.PaletteCount)
			}
			assert.Equal(t, uint32(HeaderSize)+uint32(h.PaletteCount)*2, h.ImageDataOffset)

			end := int(h.ImageDataOffset) + h.ImageSize()
			require.True(t, end <= len(b))
			for _, c := range b[end:] {
				assert.Equal(t, byte(padByte), c)
			}
		})
	}
}

func TestSaveAligned(t *testing.T) {
	// 4x4 I8 is exactly 32 bytes of texture data so no padding is needed
	tex := FromImage(newImage(4, 4, fill(16, 1, 1, 1, 255)...))
	b, err := tex.Bytes(binary.BigEndian)
	require.NoError(t, err)
	assert.Len(t, b, 64)
}

func TestSaveDiscardsStaleOffsets(t *testing.T) {
	tex := FromImage(newImage(1, 1, 1, 2, 3, 255))
	tex.Header.PalettesEnabled = 1
	tex.Header.PaletteCount = 9
	tex.Header.PaletteDataOffset = 1234
	tex.Header.ImageDataOffset = 5678
	tex.Header.EmbeddedPaletteDataOffset = 42

	got := roundTrip(t, tex, binary.BigEndian)
	assert.Equal(t, uint8(0), got.Header.PalettesEnabled)
	assert.Equal(t, uint16(0), got.Header.PaletteCount)
	assert.Equal(t, uint32(0), got.Header.PaletteDataOffset)
	assert.Equal(t, uint32(HeaderSize), got.Header.ImageDataOffset)
	assert.Equal(t, uint32(42), got.Header.EmbeddedPaletteDataOffset)
}

func TestSaveBufferSize(t *testing.T) {
	tex := FromImage(newImage(2, 2, fill(4, 1, 2, 3, 255)...))
	tex.Pix = tex.Pix[:8]
	_, err := tex.Bytes(binary.BigEndian)
	assert.Equal(t, ErrBufferSize, err)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestSaveWriteError(t *testing.T) {
	tex := FromImage(newImage(1, 1, 1, 2, 3, 255))
	err := tex.Save(failingWriter{}, binary.BigEndian)
	var ioe *IOError
	assert.True(t, errors.As(err, &ioe), "expected IOError, got %v", err)
}

func TestLoadHonoursOffsets(t *testing.T) {
	h := Header{
		Format:            gx.C4,
		Width:             2,
		Height:            1,
		PalettesEnabled:   1,
		PaletteFormat:     gx.PaletteIA8,
		PaletteCount:      2,
		PaletteDataOffset: 100,
		ImageDataOffset:   64,
	}

	b := make([]byte, 104)
	copy(b, h.Bytes(binary.BigEndian))
	// Texels 1 and 0
	b[64] = 0x10
	// Entries are alpha then intensity
	copy(b[100:], []byte{0xff, 0x20, 0x80, 0x40})

	tex, err := Decode(b, binary.BigEndian)
	require.NoError(t, err)
	assert.Equal(t, Palette{0xff, 0x20, 0x80, 0x40}, tex.Palette)
	assert.Equal(t, []byte{0x40, 0x40, 0x40, 0x80, 0x20, 0x20, 0x20, 0xff}, tex.Pix)
}

func TestLoadShortPalette(t *testing.T) {
	h := Header{
		Format:            gx.C8,
		Width:             1,
		Height:            1,
		PalettesEnabled:   1,
		PaletteCount:      5,
		PaletteDataOffset: HeaderSize,
		ImageDataOffset:   HeaderSize + 10,
	}

	b := append(h.Bytes(binary.BigEndian), make([]byte, 9)...)
	tex, err := Decode(b, binary.BigEndian)
	assert.Nil(t, tex)

	var ioe *IOError
	require.True(t, errors.As(err, &ioe), "expected IOError, got %v", err)
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
}

func TestLoadShortImageData(t *testing.T) {
	h := Header{
		Format:          gx.RGBA8,
		Width:           4,
		Height:          4,
		ImageDataOffset: HeaderSize,
	}

	b := append(h.Bytes(binary.BigEndian), make([]byte, 63)...)
	tex, err := Decode(b, binary.BigEndian)
	assert.Nil(t, tex)

	var ioe *IOError
	assert.True(t, errors.As(err, &ioe), "expected IOError, got %v", err)
}

func TestLoadOversizedHeader(t *testing.T) {
	tests := map[string]Header{
		"image": {
			Format:          gx.RGBA8,
			Width:           0xffff,
			Height:          0xffff,
			ImageDataOffset: HeaderSize,
		},
		"palette": {
			Format:            gx.C14X2,
			Width:             1,
			Height:            1,
			PalettesEnabled:   1,
			PaletteCount:      0xffff,
			PaletteDataOffset: 0xffffffff,
			ImageDataOffset:   HeaderSize,
		},
	}

	for name, h := range tests {
		t.Run(name, func(t *testing.T) {
			b := h.Bytes(binary.BigEndian)
			require.Len(t, b, HeaderSize)

			tex, err := Decode(b, binary.BigEndian)
			assert.Nil(t, tex)

			var ioe *IOError
			require.True(t, errors.As(err, &ioe), "expected IOError, got %v", err)
			assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
		})
	}
}

func TestSaveInvalidHeader(t *testing.T) {
	tex := FromImage(newImage(1, 1, 1, 2, 3, 255))
	tex.Header.Format = 0x07

	b := new(bytes.Buffer)
	err := tex.Save(b, binary.BigEndian)

	var fe FormatError
	assert.True(t, errors.As(err, &fe), "expected FormatError, got %v", err)
	assert.Zero(t, b.Len())
}

func TestLoadUnknownFormat(t *testing.T) {
	tex := FromImage(newImage(1, 1, 1, 2, 3, 255))
	b, err := tex.Bytes(binary.BigEndian)
	require.NoError(t, err)

	b[0] = 0x07
	got, err := Decode(b, binary.BigEndian)
	assert.Nil(t, got)

	var fe FormatError
	assert.True(t, errors.As(err, &fe), "expected FormatError, got %v", err)
}

func TestImageBufferSize(t *testing.T) {
	tex := &Texture{Header: Header{Width: 2, Height: 2}, Pix: make([]byte, 15)}
	_, err := tex.Image()
	assert.Equal(t, ErrBufferSize, err)
}

func TestFromImageDefaults(t *testing.T) {
	m := image.NewNRGBA(image.Rect(5, 5, 7, 8))
	tex := FromImage(m)
	assert.Equal(t, uint16(2), tex.Header.Width)
	assert.Equal(t, uint16(3), tex.Header.Height)
	assert.Equal(t, Linear, tex.Header.MinFilter)
	assert.Equal(t, Linear, tex.Header.MagFilter)
	assert.Equal(t, uint8(1), tex.Header.MipmapCount)
	assert.Empty(t, tex.Palette)
	assert.Len(t, tex.Pix, 2*3*4)
}

func TestDecodeImage(t *testing.T) {
	m := newImage(2, 1, 10, 10, 10, 255, 20, 20, 20, 255)
	b, err := FromImage(m).Bytes(binary.BigEndian)
	require.NoError(t, err)

	cfg, err := DecodeConfig(bytes.NewReader(b))
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Width)
	assert.Equal(t, 1, cfg.Height)
	assert.Equal(t, color.NRGBAModel, cfg.ColorModel)

	img, err := DecodeImage(bytes.NewReader(b))
	require.NoError(t, err)
	assert.Equal(t, m.Pix, img.(*image.NRGBA).Pix)
}
