package logging

import (
	"io"
	"log/slog"
	"strings"
	"time"
)

// SlogManager owns the editor's slog logger. The zero value logs through
// slog.Default until Setup is called.
type SlogManager struct {
	logger *slog.Logger
}

func NewSlogManager() *SlogManager {
	return &SlogManager{}
}

var levels = map[string]slog.Level{
	"DEBUG": slog.LevelDebug,
	"INFO":  slog.LevelInfo,
	"WARN":  slog.LevelWarn,
	"ERROR": slog.LevelError,
}

// parseLevel maps a config level name to a slog level. Unknown names are
// info.
func parseLevel(level string) slog.Level {
	if lvl, ok := levels[strings.ToUpper(strings.TrimSpace(level))]; ok {
		return lvl
	}
	return slog.LevelInfo
}

// utcTime rewrites record times as RFC3339 in UTC.
func utcTime(_ []string, a slog.Attr) slog.Attr {
	if a.Key != slog.TimeKey {
		return a
	}
	if t, ok := a.Value.Any().(time.Time); ok {
		a.Value = slog.StringValue(t.UTC().Format(time.RFC3339))
	}
	return a
}

// Setup replaces the logger with text handlers on console and file; either
// may be nil. A non-nil provider adds its attributes to every record.
func (m *SlogManager) Setup(console, file io.Writer, level string, provider ContextProvider) {
	opts := &slog.HandlerOptions{Level: parseLevel(level), ReplaceAttr: utcTime}

	var outs []slog.Handler
	for _, w := range []io.Writer{console, file} {
		if w != nil {
			outs = append(outs, slog.NewTextHandler(w, opts))
		}
	}
	m.logger = slog.New(WithContext(Tee(outs...), provider))
	m.logger.Debug("logging ready", "level", opts.Level)
}

func (m *SlogManager) Logger() *slog.Logger {
	if m.logger == nil {
		return slog.Default()
	}
	return m.logger
}
