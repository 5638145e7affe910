package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "info"}, &buf)

	l.Info().Str("pair", "EUR/USD").Msg("evaluated")
	l.Debug().Msg("hidden")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &rec))
	assert.Equal(t, "info", rec["level"])
	assert.Equal(t, "EUR/USD", rec["pair"])
	assert.Equal(t, "evaluated", rec["message"])
	assert.NotContains(t, buf.String(), "hidden")
}

func TestNewLevels(t *testing.T) {
	tests := map[string]zerolog.Level{
		"debug": zerolog.DebugLevel,
		"info":  zerolog.InfoLevel,
		"warn":  zerolog.WarnLevel,
		"error": zerolog.ErrorLevel,
		"":      zerolog.InfoLevel,
	}
	for in, want := range tests {
		New(Config{Level: in}, &bytes.Buffer{})
		assert.Equal(t, want, zerolog.GlobalLevel(), in)
	}
}

func TestNewPretty(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "info", Pretty: true}, &buf)
	l.Warn().Msg("live data unavailable")

	assert.Contains(t, buf.String(), "live data unavailable")
	assert.False(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
}
