package main

import (
	"context"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/arloliu/ctrbin"
	"github.com/arloliu/ctrbin/endian"
	"github.com/arloliu/ctrbin/envelope"
	"github.com/arloliu/ctrbin/format"
	"github.com/arloliu/ctrbin/section"
)

func infoCmd(g *globals) *cli.Command {
	return &cli.Command{
		Name:      "info",
		Usage:     "Print the header and a content summary of a container",
		ArgsUsage: "<file>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path, err := inputPath(cmd)
			if err != nil {
				return err
			}
			image, m, err := readImage(path)
			if err != nil {
				return err
			}
			if m != nil {
				printManifest(g.out, *m)
			}

			dialect, err := ctrbin.Detect(image)
			if err != nil {
				return err
			}
			if err := printHeader(g.out, dialect, image); err != nil {
				return err
			}

			doc, err := g.load(image)
			if err != nil {
				return err
			}
			printContents(g.out, doc)

			return nil
		},
	}
}

func printManifest(w io.Writer, m envelope.Manifest) {
	fmt.Fprintf(w, "envelope:\n")
	fmt.Fprintf(w, "  dialect:      %s\n", m.Dialect)
	fmt.Fprintf(w, "  compression:  %s\n", m.Compression)
	fmt.Fprintf(w, "  size:         %d\n", m.Size)
	fmt.Fprintf(w, "  checksum:     %016x\n", m.Checksum)
	fmt.Fprintf(w, "  digest:       %x\n", m.Digest)
}

func printHeader(w io.Writer, dialect format.Dialect, image []byte) error {
	switch dialect {
	case format.DialectGfx:
		var hdr section.GfxHeader
		if err := hdr.Parse(image); err != nil {
			return err
		}
		order := "little"
		if endian.IsBigEndian(hdr.Engine) {
			order = "big"
		}
		fmt.Fprintf(w, "header (%s):\n", dialect)
		fmt.Fprintf(w, "  byte order:   %s\n", order)
		fmt.Fprintf(w, "  revision:     %#08x\n", hdr.Revision)
		fmt.Fprintf(w, "  file length:  %d\n", hdr.FileLength)
		fmt.Fprintf(w, "  blocks:       %d\n", hdr.BlockCount)
	case format.DialectH3D:
		var hdr section.H3DHeader
		if err := hdr.Parse(image); err != nil {
			return err
		}
		fmt.Fprintf(w, "header (%s):\n", dialect)
		fmt.Fprintf(w, "  version:      %#02x\n", hdr.BackwardCompat)
		fmt.Fprintf(w, "  converter:    %#04x\n", hdr.ConverterVersion)
		fmt.Fprintf(w, "  contents:     %#08x +%d\n", hdr.ContentsAddress, hdr.ContentsLength)
		fmt.Fprintf(w, "  strings:      %#08x +%d\n", hdr.StringsAddress, hdr.StringsLength)
		fmt.Fprintf(w, "  commands:     %#08x +%d\n", hdr.CommandsAddress, hdr.CommandsLength)
		fmt.Fprintf(w, "  raw data:     %#08x +%d\n", hdr.RawDataAddress, hdr.RawDataLength)
		if hdr.HasRawExt() {
			fmt.Fprintf(w, "  raw ext:      %#08x +%d\n", hdr.RawExtAddress, hdr.RawExtLength)
		}
		fmt.Fprintf(w, "  relocations:  %#08x +%d (%d entries)\n", hdr.RelocationAddress, hdr.RelocationLength, hdr.RelocationLength/4)
	}

	return nil
}

func printContents(w io.Writer, doc ctrbin.Document) {
	fmt.Fprintf(w, "contents:\n")
	count := func(name string, n int) {
		if n > 0 {
			fmt.Fprintf(w, "  %-14s%d\n", name+":", n)
		}
	}

	switch doc.Dialect {
	case format.DialectGfx:
		f := doc.Gfx
		count("textures", len(f.Textures))
		count("shaders", len(f.Shaders))
		count("cameras", len(f.Cameras))
		count("lights", len(f.Lights))
		count("fogs", len(f.Fogs))
		count("scenes", len(f.Scenes))
		count("skeletal", len(f.SkeletalAnims))
		count("material", len(f.MaterialAnims))
		count("visibility", len(f.VisibilityAnims))
		count("camera anims", len(f.CameraAnims))
		count("light anims", len(f.LightAnims))
		count("fog anims", len(f.FogAnims))
	case format.DialectH3D:
		f := doc.H3D
		count("models", len(f.Models))
		count("textures", len(f.Textures))
		count("lights", len(f.Lights))
		count("cameras", len(f.Cameras))
		count("fogs", len(f.Fogs))
		count("light anims", len(f.LightAnims))
		count("camera anims", len(f.CameraAnims))
		count("fog anims", len(f.FogAnims))
		count("scenes", len(f.Scenes))
	}
}
