package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/arloliu/ctrbin"
	"github.com/arloliu/ctrbin/envelope"
	"github.com/arloliu/ctrbin/format"
)

const envelopeExt = ".ctre"

func packCmd(g *globals) *cli.Command {
	var output, compression string

	return &cli.Command{
		Name:      "pack",
		Usage:     "Wrap a container image in a compressed, checksummed envelope",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "envelope path (default <file>" + envelopeExt + ")", Destination: &output},
			&cli.StringFlag{Name: "compression", Aliases: []string{"c"}, Usage: "none, zstd, s2 or lz4", Value: "zstd", Destination: &compression},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if g.cfg.Compression != "" && !cmd.IsSet("compression") {
				compression = g.cfg.Compression
			}
			ct, ok := format.ParseCompression(compression)
			if !ok {
				return fmt.Errorf("pack: unknown compression %q", compression)
			}

			path, err := inputPath(cmd)
			if err != nil {
				return err
			}
			image, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			dialect, err := ctrbin.Detect(image)
			if err != nil {
				return err
			}

			packed, err := envelope.Pack(dialect, image, ct)
			if err != nil {
				return err
			}
			if output == "" {
				output = path + envelopeExt
			}
			g.log.Info("packed", "input", path, "output", output, "dialect", dialect.String(),
				"compression", ct.String(), "size", len(image), "packed", len(packed))

			return os.WriteFile(output, packed, 0o644)
		},
	}
}

func unpackCmd(g *globals) *cli.Command {
	var output string

	return &cli.Command{
		Name:      "unpack",
		Usage:     "Extract and verify the container image of an envelope",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "image path (default <file> without " + envelopeExt + ")", Destination: &output},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path, err := inputPath(cmd)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			m, image, err := envelope.Unpack(data)
			if err != nil {
				return err
			}
			if err := m.Verify(image); err != nil {
				return err
			}

			if output == "" {
				output = strings.TrimSuffix(path, envelopeExt)
				if output == path {
					output = path + ".bin"
				}
			}
			g.log.Info("unpacked", "input", path, "output", output, "dialect", m.Dialect.String(), "size", len(image))

			return os.WriteFile(output, image, 0o644)
		},
	}
}
