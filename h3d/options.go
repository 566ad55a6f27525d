package h3d

import (
	"fmt"
	"log/slog"

	"github.com/arloliu/ctrbin/errs"
	"github.com/arloliu/ctrbin/internal/logger"
	"github.com/arloliu/ctrbin/internal/options"
	"github.com/arloliu/ctrbin/reloc"
)

// Config holds the settings of one Load or Save call.
type Config struct {
	options.Common

	// Version overrides the backward-compatibility byte written by Save.
	// Zero defers to File.Version.
	Version uint8
}

// Option configures a Load or Save call.
type Option = options.Option[*Config]

func newConfig(opts []Option) (*Config, error) {
	cfg := &Config{Common: options.DefaultCommon()}
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

// WithStats receives the pointer counters of a Save. A Load reports only
// Patched, the number of relocation entries it applied.
func WithStats(stats *reloc.Stats) Option {
	return options.WithStats[*Config](stats)
}

// WithVersion selects the backward-compatibility byte written by Save. It
// controls the header size and every version-gated record field.
func WithVersion(version uint8) Option {
	return options.New(func(cfg *Config) error {
		if version == 0 {
			return fmt.Errorf("h3d: version 0: %w", errs.ErrUnsupportedVersion)
		}
		cfg.Version = version

		return nil
	})
}
