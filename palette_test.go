package bti

import (
	"bytes"
	"errors"
	"image/color"
	"io"
	"testing"

	"github.com/bodgit/bti/gx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("should not be read")
}

func TestLoadPaletteEmpty(t *testing.T) {
	p, err := loadPalette(failingReader{}, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Len())
}

func TestLoadPalette(t *testing.T) {
	r := bytes.NewReader([]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06})
	p, err := loadPalette(r, 2)
	require.NoError(t, err)
	assert.Equal(t, Palette{0x01, 0x02, 0x03, 0x04}, p)
	assert.Equal(t, 2, p.Len())
	assert.Equal(t, 2, r.Len())
}

func TestLoadPaletteShort(t *testing.T) {
	_, err := loadPalette(bytes.NewReader(make([]byte, 9)), 5)
	var ioe *IOError
	require.True(t, errors.As(err, &ioe), "expected IOError, got %v", err)
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
}

func TestPaletteColors(t *testing.T) {
	p := Palette{0xff, 0x80, 0x7c, 0x00}
	assert.Equal(t, color.Palette{
		color.NRGBA{0x80, 0x80, 0x80, 0xff},
		color.NRGBA{0x00, 0x00, 0x00, 0x7c},
	}, p.Colors(gx.PaletteIA8))
	assert.Empty(t, Palette(nil).Colors(gx.PaletteIA8))
}
