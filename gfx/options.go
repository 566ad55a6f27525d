package gfx

import (
	"errors"
	"log/slog"

	"github.com/arloliu/ctrbin/endian"
	"github.com/arloliu/ctrbin/internal/logger"
	"github.com/arloliu/ctrbin/internal/options"
	"github.com/arloliu/ctrbin/reloc"
)

// Config holds the settings of one Load or Save call.
type Config struct {
	options.Common

	// Engine is the byte order written by Save. Load always follows the
	// file's byte-order mark.
	Engine endian.EndianEngine
}

// Option configures a Load or Save call.
type Option = options.Option[*Config]

func newConfig(opts []Option) (*Config, error) {
	cfg := &Config{
		Common: options.DefaultCommon(),
		Engine: endian.GetLittleEndianEngine(),
	}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WithLogger routes debug output through l.
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		return options.WithLogger[*Config](nil)
	}

	return options.WithLogger[*Config](logger.New(l.Handler()))
}

// WithStats receives the pointer reservation counters of a Save.
func WithStats(stats *reloc.Stats) Option {
	return options.WithStats[*Config](stats)
}

// WithByteOrder selects the byte order written by Save.
func WithByteOrder(engine endian.EndianEngine) Option {
	return options.New(func(cfg *Config) error {
		if engine == nil {
			return errors.New("gfx: nil byte order")
		}
		cfg.Engine = engine

		return nil
	})
}
