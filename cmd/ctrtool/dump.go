package main

import (
	"context"
	"os"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"
)

func dumpCmd(g *globals) *cli.Command {
	var output string

	return &cli.Command{
		Name:      "dump",
		Usage:     "Print the decoded object graph as JSON",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "write JSON to a file instead of stdout", Destination: &output},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
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

			out, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return err
			}
			out = append(out, '\n')
			if output != "" {
				return os.WriteFile(output, out, 0o644)
			}
			_, err = g.out.Write(out)

			return err
		},
	}
}
