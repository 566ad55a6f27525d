// Command ctrtool inspects, converts and packs CGFX and BCH containers.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/arloliu/ctrbin/internal/logger"
)

// globals holds the root flags and the state derived from them before any
// subcommand runs.
type globals struct {
	configPath string
	logLevel   string
	logFormat  string

	cfg Config
	log *slog.Logger
	out io.Writer
	err io.Writer
}

func main() {
	app := newApp(os.Stdout, os.Stderr)
	if err := app.Run(context.Background(), os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp(stdout, stderr io.Writer) *cli.Command {
	g := &globals{out: stdout, err: stderr}

	return &cli.Command{
		Name:      "ctrtool",
		Usage:     "Inspect, re-encode and pack CGFX and BCH containers",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "path to config.yaml", Destination: &g.configPath},
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error", Value: "warn", Destination: &g.logLevel},
			&cli.StringFlag{Name: "log-format", Usage: "text or json", Value: "text", Destination: &g.logFormat},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			return ctx, g.setup(cmd)
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd)
		},
		Commands: []*cli.Command{
			infoCmd(g),
			dumpCmd(g),
			roundtripCmd(g),
			packCmd(g),
			unpackCmd(g),
		},
	}
}

func (g *globals) setup(cmd *cli.Command) error {
	cfg, err := LoadConfig(g.configPath)
	if err != nil {
		return err
	}
	g.cfg = cfg

	if cfg.LogLevel != "" && !cmd.IsSet("log-level") {
		g.logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !cmd.IsSet("log-format") {
		g.logFormat = cfg.LogFormat
	}

	opts := &slog.HandlerOptions{Level: logger.ParseLevel(g.logLevel)}
	switch g.logFormat {
	case "json":
		g.log = slog.New(slog.NewJSONHandler(g.err, opts))
	case "text", "":
		g.log = slog.New(slog.NewTextHandler(g.err, opts))
	default:
		return fmt.Errorf("unknown log format %q", g.logFormat)
	}

	return nil
}
