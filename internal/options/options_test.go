package options

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/ctrbin/internal/logger"
	"github.com/arloliu/ctrbin/reloc"
)

type saveConfig struct {
	Common
	Version uint8
	Name    string
}

var errTooOld = errors.New("version too old")

func withVersion(v uint8) Option[*saveConfig] {
	return New(func(c *saveConfig) error {
		if v < 0x07 {
			return errTooOld
		}
		c.Version = v

		return nil
	})
}

func withName(name string) Option[*saveConfig] {
	return NoError(func(c *saveConfig) { c.Name = name })
}

func TestApply(t *testing.T) {
	t.Run("Applies options in order", func(t *testing.T) {
		cfg := &saveConfig{}
		err := Apply(cfg, withVersion(0x21), withName("first"), nil, withName("second"))
		require.NoError(t, err)
		require.Equal(t, uint8(0x21), cfg.Version)
		require.Equal(t, "second", cfg.Name)
	})

	t.Run("Stops at first error", func(t *testing.T) {
		cfg := &saveConfig{}
		err := Apply(cfg, withName("kept"), withVersion(1), withName("skipped"))
		require.ErrorIs(t, err, errTooOld)
		require.Contains(t, err.Error(), "option 1")
		require.Equal(t, "kept", cfg.Name)
	})

	t.Run("No options", func(t *testing.T) {
		cfg := &saveConfig{Version: 3}
		require.NoError(t, Apply(cfg))
		require.Equal(t, uint8(3), cfg.Version)
	})
}

func TestCommonOptions(t *testing.T) {
	var buf bytes.Buffer
	var stats reloc.Stats

	cfg := &saveConfig{Common: DefaultCommon()}
	require.NotNil(t, cfg.Logger)

	err := Apply(cfg,
		WithLogger[*saveConfig](logger.Text(&buf, slog.LevelDebug)),
		WithStats[*saveConfig](&stats),
	)
	require.NoError(t, err)

	cfg.Logger.Debug("flushed")
	require.Contains(t, buf.String(), "flushed")

	cfg.Report(reloc.Stats{Reserved: 4, Patched: 4})
	require.Equal(t, reloc.Stats{Reserved: 4, Patched: 4}, stats)

	require.NoError(t, Apply(cfg, WithLogger[*saveConfig](nil)))
	require.NotNil(t, cfg.Logger)
}

func TestReportWithoutSink(t *testing.T) {
	cfg := DefaultCommon()
	// Must not panic.
	cfg.Report(reloc.Stats{Reserved: 1})
}
