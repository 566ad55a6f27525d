package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/arloliu/ctrbin"
	"github.com/arloliu/ctrbin/envelope"
	"github.com/arloliu/ctrbin/format"
	"github.com/arloliu/ctrbin/gfx"
	"github.com/arloliu/ctrbin/h3d"
)

func inputPath(cmd *cli.Command) (string, error) {
	if cmd.Args().Len() != 1 {
		return "", fmt.Errorf("%s: expected one input file", cmd.Name)
	}

	return cmd.Args().First(), nil
}

// readImage reads a container image from path, unpacking it when it is
// wrapped in an envelope. The manifest is nil for a bare image.
func readImage(path string) ([]byte, *envelope.Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	if len(data) < 4 || string(data[:4]) != envelope.Magic {
		return data, nil, nil
	}

	m, image, err := envelope.Unpack(data)
	if err != nil {
		return nil, nil, err
	}

	return image, &m, nil
}

func (g *globals) load(image []byte) (ctrbin.Document, error) {
	dialect, err := ctrbin.Detect(image)
	if err != nil {
		return ctrbin.Document{}, err
	}

	doc := ctrbin.Document{Dialect: dialect}
	switch dialect {
	case format.DialectGfx:
		doc.Gfx, err = gfx.Load(image, gfx.WithLogger(g.log))
	case format.DialectH3D:
		doc.H3D, err = h3d.Load(image, h3d.WithLogger(g.log))
	}

	return doc, err
}
