package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_ConsoleAndFile(t *testing.T) {
	var console, file bytes.Buffer
	m := NewSlogManager()
	m.Setup(&console, &file, "info", nil)
	m.Logger().Info("hello both")

	assert.Contains(t, console.String(), "hello both")
	assert.Contains(t, file.String(), "hello both")
}

func TestSetup_FileOnly(t *testing.T) {
	var file bytes.Buffer
	m := NewSlogManager()
	m.Setup(nil, &file, "info", nil)
	m.Logger().Info("hello file")

	assert.Contains(t, file.String(), "hello file")
}

func TestSetup_DebugLevel(t *testing.T) {
	var buf bytes.Buffer
	m := NewSlogManager()
	m.Setup(nil, &buf, "debug", nil)

	m.Logger().Debug("debug msg")
	m.Logger().Info("info msg")

	output := buf.String()
	assert.Contains(t, output, "debug msg")
	assert.Contains(t, output, "info msg")
}

func TestSetup_InfoLevel_FiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	m := NewSlogManager()
	m.Setup(nil, &buf, "info", nil)

	m.Logger().Debug("should be filtered")
	m.Logger().Info("should appear")

	output := buf.String()
	assert.NotContains(t, output, "should be filtered")
	assert.Contains(t, output, "should appear")
}

func TestSetup_RFC3339Time(t *testing.T) {
	var buf bytes.Buffer
	m := NewSlogManager()
	m.Setup(nil, &buf, "info", nil)
	m.Logger().Info("timed")

	assert.Regexp(t, `time=\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}Z`, buf.String())
}

func TestSetup_ContextProvider(t *testing.T) {
	var buf bytes.Buffer
	preset := "guitar"
	m := NewSlogManager()
	m.Setup(nil, &buf, "info", func() []slog.Attr {
		return []slog.Attr{slog.String("preset", preset)}
	})

	m.Logger().Info("first")
	preset = "tapping"
	m.Logger().Info("second")

	assert.Contains(t, buf.String(), "msg=first preset=guitar")
	assert.Contains(t, buf.String(), "msg=second preset=tapping")
}

func TestSetup_ReplacesLogger(t *testing.T) {
	var buf1, buf2 bytes.Buffer
	m := NewSlogManager()

	m.Setup(nil, &buf1, "info", nil)
	m.Logger().Info("first")

	m.Setup(nil, &buf2, "info", nil)
	m.Logger().Info("second")

	assert.Contains(t, buf1.String(), "first")
	assert.NotContains(t, buf1.String(), "second", "old file should not receive new logs")
	assert.Contains(t, buf2.String(), "second")
}

func TestLogger_DefaultBeforeSetup(t *testing.T) {
	m := NewSlogManager()
	logger := m.Logger()
	assert.Equal(t, slog.Default(), logger)
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
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"invalid", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.input))
		})
	}
}

func TestTee_FansOut(t *testing.T) {
	var buf1, buf2 bytes.Buffer
	h1 := slog.NewTextHandler(&buf1, &slog.HandlerOptions{Level: slog.LevelInfo})
	h2 := slog.NewTextHandler(&buf2, &slog.HandlerOptions{Level: slog.LevelInfo})

	slog.New(Tee(h1, h2)).Info("fanned out")

	assert.Contains(t, buf1.String(), "fanned out")
	assert.Contains(t, buf2.String(), "fanned out")
}

func TestTee_Collapses(t *testing.T) {
	h := slog.NewTextHandler(&bytes.Buffer{}, nil)

	assert.Equal(t, slog.Handler(h), Tee(nil, h, nil))
	assert.Equal(t, slog.DiscardHandler, Tee())
	assert.False(t, Tee(nil).Enabled(context.Background(), slog.LevelError))
}

func TestTee_Enabled(t *testing.T) {
	infoHandler := slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelInfo})
	warnHandler := slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn})
	debugHandler := slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelDebug})

	quiet := Tee(infoHandler, warnHandler)
	assert.False(t, quiet.Enabled(context.Background(), slog.LevelDebug))
	assert.True(t, quiet.Enabled(context.Background(), slog.LevelInfo))

	loud := Tee(infoHandler, debugHandler)
	assert.True(t, loud.Enabled(context.Background(), slog.LevelDebug))
}

func TestTee_WithAttrsAndGroup(t *testing.T) {
	var buf1, buf2 bytes.Buffer
	h := Tee(slog.NewTextHandler(&buf1, nil), slog.NewTextHandler(&buf2, nil))

	logger := slog.New(h.WithAttrs([]slog.Attr{slog.String("component", "session")}).WithGroup("note"))
	logger.Info("placed", "key", "f3-s1")

	for _, out := range []string{buf1.String(), buf2.String()} {
		assert.Contains(t, out, "component=session")
		assert.Contains(t, out, "note.key=f3-s1")
	}
	assert.Equal(t, h, h.WithGroup(""))
}

// failingHandler is a slog.Handler that always returns an error from Handle.
type failingHandler struct {
	slog.Handler
}

func (h *failingHandler) Handle(_ context.Context, _ slog.Record) error {
	return errors.New("disk full")
}

func (h *failingHandler) Enabled(_ context.Context, _ slog.Level) bool {
	return true
}

func TestTee_HandleErrorStillDelivers(t *testing.T) {
	var buf bytes.Buffer
	spy := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})

	h := Tee(&failingHandler{}, spy)
	err := h.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelInfo, "should reach spy", 0))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Contains(t, buf.String(), "should reach spy")
}

func TestWithContext(t *testing.T) {
	var buf bytes.Buffer
	inner := slog.NewTextHandler(&buf, nil)

	assert.Equal(t, slog.Handler(inner), WithContext(inner, nil))

	h := WithContext(inner, func() []slog.Attr {
		return []slog.Attr{slog.String("preset", "guitar"), {}}
	})
	assert.Equal(t, h, h.WithGroup(""))

	slog.New(h.WithAttrs([]slog.Attr{slog.Int("notes", 2)})).Info("saved")
	assert.Contains(t, buf.String(), "msg=saved notes=2 preset=guitar")
}
