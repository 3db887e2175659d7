package main

import (
	"encoding/binary"
	"fmt"
	"image/color"
	"io"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"

	"github.com/bodgit/bti"
	"github.com/bodgit/bti/batch"
	"github.com/bodgit/bti/catalog"
	"github.com/bodgit/bti/gx"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"
)

const defaultDB = "bti.db"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:  "version, V",
		Usage: "print the version",
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(ioutil.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func byteOrder(c *cli.Context) binary.ByteOrder {
	if c.Bool("little-endian") {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

func options(c *cli.Context) (batch.Options, error) {
	opts := batch.Options{
		Dither:    c.Bool("dither"),
		MaxSize:   c.Int("max-size"),
		ByteOrder: byteOrder(c),
		Workers:   c.Int("workers"),
		Extract:   c.Bool("extract"),
	}

	if s := c.String("format"); s != "" {
		f, err := gx.ParseFormat(s)
		if err != nil {
			return opts, err
		}
		opts.Format, opts.Override = f, true
	}

	pf, err := gx.ParsePaletteFormat(c.String("palette-format"))
	if err != nil {
		return opts, err
	}
	opts.PaletteFormat = pf

	return opts, nil
}

func printTexture(w io.Writer, file string, size int64, t *bti.Texture) {
	h := &t.Header
	fmt.Fprintf(w, "%s (%s)\n", file, humanize.Bytes(uint64(size)))
	fmt.Fprintf(w, "  format:       %s\n", h.Format)
	fmt.Fprintf(w, "  dimensions:   %dx%d\n", h.Width, h.Height)
	fmt.Fprintf(w, "  alpha:        %d\n", h.Alpha)
	fmt.Fprintf(w, "  wrap:         %s, %s\n", h.WrapS, h.WrapT)
	fmt.Fprintf(w, "  filter:       %s, %s\n", h.MinFilter, h.MagFilter)
	fmt.Fprintf(w, "  mipmaps:      %d\n", h.MipmapCount)
	fmt.Fprintf(w, "  lod bias:     %#04x\n", h.LODBias)
	if h.PalettesEnabled != 0 {
		fmt.Fprintf(w, "  palette:      %d x %s at %#x\n", h.PaletteCount, h.PaletteFormat, h.PaletteDataOffset)
		for i, c := range t.Palette.Colors(h.PaletteFormat) {
			n := color.NRGBAModel.Convert(c).(color.NRGBA)
			fmt.Fprintf(w, "    %3d: #%02x%02x%02x%02x\n", i, n.R, n.G, n.B, n.A)
		}
	}
	fmt.Fprintf(w, "  image data:   %s at %#x\n", humanize.Bytes(uint64(h.ImageSize())), h.ImageDataOffset)
}

func main() {
	app := cli.NewApp()

	app.Name = "bti"
	app.Usage = "GameCube/Wii BTI texture conversion utility"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	app.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:  "verbose, v",
			Usage: "increase verbosity",
		},
		&cli.BoolFlag{
			Name:  "little-endian",
			Usage: "read and write little-endian headers",
		},
	}

	conversionFlags := []cli.Flag{
		&cli.StringFlag{
			Name:  "format",
			Usage: "texture format to use instead of picking one automatically",
		},
		&cli.StringFlag{
			Name:  "palette-format",
			Value: gx.PaletteRGB5A3.String(),
			Usage: "palette format for the C4, C8 and C14X2 texture formats",
		},
		&cli.BoolFlag{
			Name:  "dither",
			Usage: "dither images converted to a palette format",
		},
		&cli.IntFlag{
			Name:  "max-size",
			Usage: "scale down images larger than this many pixels in either dimension",
		},
	}

	dbFlag := &cli.StringFlag{
		Name:    "db",
		EnvVars: []string{"BTI_DB"},
		Value:   filepath.Join(cwd, defaultDB),
		Usage:   "path to catalog database",
	}

	app.Commands = []*cli.Command{
		{
			Name:        "convert",
			Usage:       "Convert images to textures and textures to PNG images",
			Description: "",
			ArgsUsage:   "FILE...",
			Flags:       conversionFlags,
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				opts, err := options(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				b := batch.New(opts, newLogger(c))
				for _, file := range c.Args().Slice() {
					if _, err := b.ConvertFile(file); err != nil {
						return cli.NewExitError(err, 1)
					}
				}

				return nil
			},
		},
		{
			Name:        "batch",
			Usage:       "Convert every image or texture in a directory tree",
			Description: "",
			ArgsUsage:   "DIRECTORY",
			Flags: append([]cli.Flag{
				&cli.BoolFlag{
					Name:  "extract",
					Usage: "convert textures to images rather than images to textures",
				},
				&cli.IntFlag{
					Name:    "workers",
					EnvVars: []string{"BTI_WORKERS"},
					Value:   10,
					Usage:   "number of files to convert at once",
				},
			}, conversionFlags...),
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				opts, err := options(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				if err := batch.New(opts, newLogger(c)).Scan(c.Args().First()); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "info",
			Usage:       "Print texture headers",
			Description: "",
			ArgsUsage:   "FILE...",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				for _, file := range c.Args().Slice() {
					b, err := ioutil.ReadFile(file)
					if err != nil {
						return cli.NewExitError(err, 1)
					}

					t, err := bti.Decode(b, byteOrder(c))
					if err != nil {
						return cli.NewExitError(fmt.Errorf("%s: %w", file, err), 1)
					}

					printTexture(os.Stdout, file, int64(len(b)), t)
				}

				return nil
			},
		},
		{
			Name:        "index",
			Usage:       "Add every texture in a directory tree to the catalog",
			Description: "",
			ArgsUsage:   "DIRECTORY",
			Flags:       []cli.Flag{dbFlag},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				logger := newLogger(c)

				db, err := catalog.New(c.String("db"), byteOrder(c), logger)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer db.Close()

				n, err := db.Index(c.Args().First())
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				logger.Printf("Indexed %d textures\n", n)

				return nil
			},
		},
		{
			Name:        "query",
			Usage:       "List textures in the catalog",
			Description: "",
			Flags: []cli.Flag{
				dbFlag,
				&cli.StringFlag{
					Name:  "format",
					Usage: "only list textures of this format",
				},
				&cli.BoolFlag{
					Name:  "duplicates",
					Usage: "only list textures found at more than one path",
				},
			},
			Action: func(c *cli.Context) error {
				db, err := catalog.New(c.String("db"), byteOrder(c), newLogger(c))
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer db.Close()

				var entries []catalog.Entry
				switch {
				case c.Bool("duplicates"):
					entries, err = db.Duplicates()
				case c.String("format") != "":
					var f gx.Format
					if f, err = gx.ParseFormat(c.String("format")); err == nil {
						entries, err = db.ByFormat(f)
					}
				default:
					entries, err = db.All()
				}
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				for _, e := range entries {
					fmt.Printf("%s  %-6s %4dx%-4d %8s  %s\n", e.SHA1[:8], e.Header.Format, e.Header.Width, e.Header.Height, humanize.Bytes(uint64(e.Size)), e.Path)
				}

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
