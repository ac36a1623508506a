package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_Fanout(t *testing.T) {
	var console, file bytes.Buffer
	logger := NewWithWriter(&console, slog.LevelInfo, &file)

	logger.Debug("hidden")
	logger.Warn("world load failed", "error", errors.New("boom"))

	assert.NotContains(t, console.String(), "hidden")
	assert.Contains(t, console.String(), "err=boom")

	var record map[string]any
	require.NoError(t, json.Unmarshal(file.Bytes(), &record))
	assert.Equal(t, "world load failed", record["msg"])
	assert.Equal(t, "boom", record["err"])
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"":      slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestNewNop(t *testing.T) {
	assert.NotPanics(t, func() { NewNop().Error("nothing") })
}
