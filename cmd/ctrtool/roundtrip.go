package main

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/arloliu/ctrbin"
	"github.com/arloliu/ctrbin/endian"
	"github.com/arloliu/ctrbin/format"
	"github.com/arloliu/ctrbin/gfx"
	"github.com/arloliu/ctrbin/h3d"
	"github.com/arloliu/ctrbin/reloc"
)

type saveFlags struct {
	version   int
	bigEndian bool
}

func roundtripCmd(g *globals) *cli.Command {
	var (
		output string
		flags  saveFlags
	)

	return &cli.Command{
		Name:      "roundtrip",
		Usage:     "Decode and re-encode a container, checking that the result is stable",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "write the re-encoded image to a file", Destination: &output},
			&cli.IntFlag{Name: "h3d-version", Usage: "BCH stream version to write (0 keeps the file's)", Destination: &flags.version},
			&cli.BoolFlag{Name: "big-endian", Usage: "write CGFX files big-endian", Destination: &flags.bigEndian},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if g.cfg.H3DVersion != nil && !cmd.IsSet("h3d-version") {
				flags.version = *g.cfg.H3DVersion
			}
			if g.cfg.BigEndian != nil && !cmd.IsSet("big-endian") {
				flags.bigEndian = *g.cfg.BigEndian
			}
			if flags.version < 0 || flags.version > 0xFF {
				return fmt.Errorf("roundtrip: version %d out of range", flags.version)
			}

			path, err := inputPath(cmd)
			if err != nil {
				return err
			}
			image, _, err := readImage(path)
			if err != nil {
				return err
			}
			doc, err := g.load(image)
			if err != nil {
				return err
			}

			first, stats, err := g.save(doc, flags)
			if err != nil {
				return err
			}
			again, err := g.load(first)
			if err != nil {
				return fmt.Errorf("reload: %w", err)
			}
			second, _, err := g.save(again, flags)
			if err != nil {
				return fmt.Errorf("re-encode: %w", err)
			}
			if !bytes.Equal(first, second) {
				return fmt.Errorf("roundtrip: re-encoded image is not stable (%d vs %d bytes, first difference at %#x)",
					len(first), len(second), firstDiff(first, second))
			}

			if bytes.Equal(image, first) {
				fmt.Fprintf(g.out, "identical: %d bytes, %d pointers\n", len(first), stats.Patched)
			} else {
				fmt.Fprintf(g.out, "stable: %d -> %d bytes, %d pointers, first difference at %#x\n",
					len(image), len(first), stats.Patched, firstDiff(image, first))
			}
			g.log.Debug("roundtrip", "input", path, "reserved", stats.Reserved, "patched", stats.Patched)

			if output != "" {
				return os.WriteFile(output, first, 0o644)
			}

			return nil
		},
	}
}

func (g *globals) save(doc ctrbin.Document, flags saveFlags) ([]byte, reloc.Stats, error) {
	var (
		stats reloc.Stats
		image []byte
		err   error
	)

	switch doc.Dialect {
	case format.DialectGfx:
		engine := endian.GetLittleEndianEngine()
		if flags.bigEndian {
			engine = endian.GetBigEndianEngine()
		}
		image, err = gfx.Save(doc.Gfx, gfx.WithLogger(g.log), gfx.WithStats(&stats), gfx.WithByteOrder(engine))
	case format.DialectH3D:
		opts := []h3d.Option{h3d.WithLogger(g.log), h3d.WithStats(&stats)}
		if flags.version != 0 {
			opts = append(opts, h3d.WithVersion(uint8(flags.version)))
		}
		image, err = h3d.Save(doc.H3D, opts...)
	default:
		image, err = ctrbin.Save(doc)
	}

	return image, stats, err
}

func firstDiff(a, b []byte) int {
	n := min(len(a), len(b))
	for i := range n {
		if a[i] != b[i] {
			return i
		}
	}

	return n
}
