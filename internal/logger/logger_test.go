package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDiscard(t *testing.T) {
	log := Discard()
	require.NotNil(t, log)

	// Must not panic.
	log.Debug("debug")
	log.With("k", "v").Error("error")
}

func TestText(t *testing.T) {
	var buf bytes.Buffer
	log := Text(&buf, slog.LevelInfo)
	log.Info("saved", "dialect", "H3D")
	log.Debug("hidden")

	require.Contains(t, buf.String(), "msg=saved")
	require.Contains(t, buf.String(), "dialect=H3D")
	require.NotContains(t, buf.String(), "hidden")
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	log := JSON(&buf, slog.LevelWarn).With("component", "reloc")
	log.Info("should not appear")
	log.Warn("unpatched")

	require.NotContains(t, buf.String(), "should not appear")
	require.Contains(t, buf.String(), `"component":"reloc"`)
	require.Contains(t, buf.String(), `"level":"WARN"`)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			require.Equal(t, tt.want, ParseLevel(tt.input))
		})
	}
}
