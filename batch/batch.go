/*
Package batch converts between BTI textures and common image formats.

Images are recognised by content rather than by extension; PNG, JPEG, GIF,
BMP, TIFF and WebP are understood. Anything that isn't recognised as an image
is assumed to be a texture and is written back out as a PNG.
*/
package batch

import (
	"bytes"
	"encoding/binary"
	"image"
	_ "image/gif"  // register GIF
	_ "image/jpeg" // register JPEG
	"image/png"
	"io/ioutil"
	"log"
	"path/filepath"
	"strings"

	"github.com/bodgit/bti"
	"github.com/bodgit/bti/gx"
	"github.com/dustin/go-humanize"
	"github.com/nfnt/resize"
	_ "golang.org/x/image/bmp"  // register BMP
	_ "golang.org/x/image/tiff" // register TIFF
	_ "golang.org/x/image/webp" // register WebP
)

const (
	textureExt = ".bti"
	imageExt   = ".png"

	defaultWorkers = 10
)

// Options controls how images are turned into textures.
type Options struct {
	// Format replaces the automatically selected texture format if
	// Override is set.
	Format   gx.Format
	Override bool

	// PaletteFormat is used for the indexed formats.
	PaletteFormat gx.PaletteFormat

	// Dither applies error diffusion before building a palette.
	Dither bool

	// MaxSize scales down images whose width or height exceeds it,
	// preserving the aspect ratio. Zero disables scaling.
	MaxSize int

	// ByteOrder of the texture header, big-endian if nil.
	ByteOrder binary.ByteOrder

	// Extract makes Scan convert textures to images rather than the other
	// way round.
	Extract bool

	// Workers is the number of files Scan converts at once.
	Workers int
}

// Converter converts files according to its options.
type Converter struct {
	opts   Options
	logger *log.Logger
}

// New returns a Converter that logs its progress to logger.
func New(opts Options, logger *log.Logger) *Converter {
	if opts.ByteOrder == nil {
		opts.ByteOrder = binary.BigEndian
	}
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers
	}
	return &Converter{
		opts:   opts,
		logger: logger,
	}
}

func replaceExt(file, ext string) string {
	return strings.TrimSuffix(file, filepath.Ext(file)) + ext
}

// Texture creates a texture from m honouring the converter options.
func (c *Converter) Texture(m image.Image) *bti.Texture {
	if b := m.Bounds(); c.opts.MaxSize > 0 && (b.Dx() > c.opts.MaxSize || b.Dy() > c.opts.MaxSize) {
		m = resize.Thumbnail(uint(c.opts.MaxSize), uint(c.opts.MaxSize), m, resize.Lanczos3)
	}

	if b := m.Bounds(); b.Dx() > bti.MaxDimension || b.Dy() > bti.MaxDimension {
		c.logger.Printf("Scaling %dx%d image down to fit %dx%d\n", b.Dx(), b.Dy(), bti.MaxDimension, bti.MaxDimension)
		m = resize.Thumbnail(bti.MaxDimension, bti.MaxDimension, m, resize.Lanczos3)
	}

	if c.opts.Override && c.opts.Format.Indexed() && c.opts.Dither {
		m = dither(m, c.opts.Format.MaxColors())
	}

	t := bti.FromImage(m)
	if c.opts.Override {
		t.Header.Format = c.opts.Format
	}
	t.Header.PaletteFormat = c.opts.PaletteFormat

	return t
}

// ConvertFile converts an image into a texture or a texture into a PNG image.
// The result is written alongside the input with the extension replaced and
// its path is returned.
func (c *Converter) ConvertFile(file string) (string, error) {
	b, err := ioutil.ReadFile(file)
	if err != nil {
		return "", err
	}

	var out string
	var data []byte

	m, format, err := image.Decode(bytes.NewReader(b))
	switch err {
	case nil:
		t := c.Texture(m)
		if data, err = t.Bytes(c.opts.ByteOrder); err != nil {
			return "", err
		}
		out = replaceExt(file, textureExt)
		c.logger.Printf("Encoding %s image \"%s\" as %s %dx%d\n", format, file, t.Header.Format, t.Header.Width, t.Header.Height)
	case image.ErrFormat:
		t, err := bti.Decode(b, c.opts.ByteOrder)
		if err != nil {
			return "", err
		}
		m, err := t.Image()
		if err != nil {
			return "", err
		}
		buf := new(bytes.Buffer)
		if err := png.Encode(buf, m); err != nil {
			return "", err
		}
		data = buf.Bytes()
		out = replaceExt(file, imageExt)
		c.logger.Printf("Decoding %s texture \"%s\" %dx%d\n", t.Header.Format, file, t.Header.Width, t.Header.Height)
	default:
		return "", err
	}

	if err := ioutil.WriteFile(out, data, 0666); err != nil {
		return "", err
	}
	c.logger.Printf("Wrote \"%s\" (%s)\n", out, humanize.Bytes(uint64(len(data))))

	return out, nil
}
