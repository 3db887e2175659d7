package bti

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/bodgit/bti/gx"
)

// HeaderSize is the size in bytes of the texture header.
const HeaderSize = 32

// WrapMode controls how texture coordinates outside of the texture are
// handled along one axis.
type WrapMode uint8

// The supported wrap modes.
const (
	ClampToEdge WrapMode = iota
	Repeat
	MirroredRepeat
)

var wrapModeNames = [...]string{
	ClampToEdge:    "clamp",
	Repeat:         "repeat",
	MirroredRepeat: "mirror",
}

func (m WrapMode) String() string {
	if m.Valid() {
		return wrapModeNames[m]
	}
	return fmt.Sprintf("WrapMode(%d)", uint8(m))
}

// Valid reports whether m is a known wrap mode.
func (m WrapMode) Valid() bool { return int(m) < len(wrapModeNames) }

// FilterMode is the texture sampling filter. The mipmap variants are only
// meaningful as a minification filter.
type FilterMode uint8

// The supported filter modes.
const (
	Nearest FilterMode = iota
	Linear
	NearestMipmapNearest
	NearestMipmapLinear
	LinearMipmapNearest
	LinearMipmapLinear
)

var filterModeNames = [...]string{
	Nearest:              "nearest",
	Linear:               "linear",
	NearestMipmapNearest: "nearest-mipmap-nearest",
	NearestMipmapLinear:  "nearest-mipmap-linear",
	LinearMipmapNearest:  "linear-mipmap-nearest",
	LinearMipmapLinear:   "linear-mipmap-linear",
}

func (m FilterMode) String() string {
	if m.Valid() {
		return filterModeNames[m]
	}
	return fmt.Sprintf("FilterMode(%d)", uint8(m))
}

// Valid reports whether m is a known filter mode.
func (m FilterMode) Valid() bool { return int(m) < len(filterModeNames) }

// Header is the fixed 32 byte record at the start of every texture. The field
// order matches the on-disk layout and must not change.
type Header struct {
	Format                    gx.Format
	Alpha                     uint8
	Width                     uint16
	Height                    uint16
	WrapS                     WrapMode
	WrapT                     WrapMode
	PalettesEnabled           uint8
	PaletteFormat             gx.PaletteFormat
	PaletteCount              uint16
	PaletteDataOffset         uint32
	EmbeddedPaletteDataOffset uint32
	MinFilter                 FilterMode
	MagFilter                 FilterMode
	Unknown2                  uint16
	MipmapCount               uint8
	Unknown3                  uint8
	LODBias                   uint16
	ImageDataOffset           uint32
}

func (h *Header) validate() error {
	switch {
	case !h.Format.Valid():
		return FormatError(fmt.Sprintf("unknown texture format %#02x", uint8(h.Format)))
	case !h.WrapS.Valid():
		return FormatError(fmt.Sprintf("unknown S wrap mode %#02x", uint8(h.WrapS)))
	case !h.WrapT.Valid():
		return FormatError(fmt.Sprintf("unknown T wrap mode %#02x", uint8(h.WrapT)))
	case !h.PaletteFormat.Valid():
		return FormatError(fmt.Sprintf("unknown palette format %#02x", uint8(h.PaletteFormat)))
	case !h.MinFilter.Valid():
		return FormatError(fmt.Sprintf("unknown min filter %#02x", uint8(h.MinFilter)))
	case !h.MagFilter.Valid():
		return FormatError(fmt.Sprintf("unknown mag filter %#02x", uint8(h.MagFilter)))
	}
	return nil
}

// ImageSize returns the size in bytes of the encoded texture data described
// by the header.
func (h *Header) ImageSize() int {
	return gx.ImageSize(h.Format, int(h.Width), int(h.Height))
}

// ReadHeader reads and validates a header from r using the given byte order
// for the multi-byte fields.
func ReadHeader(r io.Reader, order binary.ByteOrder) (Header, error) {
	var b [HeaderSize]byte
	if err := readFull(r, b[:]); err != nil {
		return Header{}, &IOError{Op: "read header", Err: err}
	}

	var h Header
	if err := binary.Read(bytes.NewReader(b[:]), order, &h); err != nil {
		return Header{}, &IOError{Op: "read header", Err: err}
	}

	if err := h.validate(); err != nil {
		return Header{}, err
	}

	return h, nil
}

// Bytes returns the header encoded using the given byte order.
func (h *Header) Bytes(order binary.ByteOrder) []byte {
	b := bytes.NewBuffer(make([]byte, 0, HeaderSize))
	// Writing fixed size fields to a bytes.Buffer can't fail
	_ = binary.Write(b, order, h)
	return b.Bytes()
}

// MarshalBinary encodes the header in big-endian byte order.
func (h *Header) MarshalBinary() ([]byte, error) {
	return h.Bytes(binary.BigEndian), nil
}

// UnmarshalBinary decodes a big-endian header.
func (h *Header) UnmarshalBinary(b []byte) error {
	tmp, err := ReadHeader(bytes.NewReader(b), binary.BigEndian)
	if err != nil {
		return err
	}
	*h = tmp
	return nil
}
