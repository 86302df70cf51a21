package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fretdiagram/fretboard/internal/dispatcher"
)

func decodeEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestNewZerolog(t *testing.T) {
	var buf bytes.Buffer
	log := NewZerolog(&buf, "WARN")

	log.Info().Msg("hidden")
	assert.Zero(t, buf.Len())

	log.Warn().Str("path", "a.fbjson").Msg("shown")
	entry := decodeEntry(t, &buf)
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "a.fbjson", entry["path"])
	assert.Contains(t, entry, "time")
}

func TestNewZerolog_Fallbacks(t *testing.T) {
	var buf bytes.Buffer
	log := NewZerolog(&buf, "chatty")
	log.Debug().Msg("hidden")
	log.Info().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
	assert.NotContains(t, buf.String(), "hidden")

	assert.NotPanics(t, func() { l := NewZerolog(nil, "info"); l.Info().Msg("x") })
}

func TestCommands_Levels(t *testing.T) {
	tests := []struct {
		level string
		log   func(Commands, string, ...any)
	}{
		{"debug", Commands.Debug},
		{"info", Commands.Info},
		{"error", Commands.Error},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			c := NewCommands(zerolog.New(&buf).Level(zerolog.DebugLevel))

			tt.log(c, "handling command", "command", "select", "args", []string{"4", "0"})

			entry := decodeEntry(t, &buf)
			assert.Equal(t, tt.level, entry["level"])
			assert.Equal(t, "handling command", entry["message"])
			assert.Equal(t, "commands", entry["component"])
			assert.Equal(t, "select", entry["command"])
			assert.Equal(t, []any{"4", "0"}, entry["args"])
		})
	}
}

func TestCommands_Fields(t *testing.T) {
	var buf bytes.Buffer
	c := NewCommands(zerolog.New(&buf))

	c.Info("odd", "count", 1, 7, "seven", "err", errors.New("no note selected"), "dangling")

	entry := decodeEntry(t, &buf)
	assert.Equal(t, float64(1), entry["count"])
	assert.Equal(t, "seven", entry["7"])
	assert.Equal(t, "no note selected", entry["err"])
	assert.NotContains(t, entry, "dangling")
}

func TestCommands_FilteredLevel(t *testing.T) {
	var buf bytes.Buffer
	c := NewCommands(NewZerolog(&buf, "info"))

	c.Debug("quiet")
	assert.Zero(t, buf.Len())
}

func TestCommands_ImplementsLogger(t *testing.T) {
	var _ dispatcher.Logger = NewCommands(zerolog.Nop())
}
