package cmd

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	for name, want := range map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			level, err := parseLevel(name)
			require.NoError(t, err)
			require.Equal(t, want, level)
		})
	}

	t.Run("unknown", func(t *testing.T) {
		t.Parallel()

		_, err := parseLevel("verbose")
		require.ErrorIs(t, err, ErrInvalidLogLevel)
	})
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	t.Run("writes json when not a terminal", func(t *testing.T) {
		t.Parallel()

		buf := &bytes.Buffer{}
		logger, err := newLogger(buf, "info")
		require.NoError(t, err)

		logger.Debug("hidden")
		logger.Info("shown", "feed", "index")

		record := map[string]any{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		require.Equal(t, "shown", record["msg"])
		require.Equal(t, "index", record["feed"])
	})

	t.Run("rejects unknown levels", func(t *testing.T) {
		t.Parallel()

		_, err := newLogger(&bytes.Buffer{}, "loud")
		require.ErrorIs(t, err, ErrInvalidLogLevel)
	})
}
