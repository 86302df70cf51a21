package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// NewZerolog returns a JSON zerolog logger writing to w at the given level.
// Unknown levels fall back to info; a nil writer disables output.
func NewZerolog(w io.Writer, level string) zerolog.Logger {
	if w == nil {
		return zerolog.Nop()
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// Commands writes editor command logs through zerolog. Each entry carries
// component=commands.
type Commands struct {
	log zerolog.Logger
}

// NewCommands wraps l for command logging.
func NewCommands(l zerolog.Logger) Commands {
	return Commands{log: l.With().Str("component", "commands").Logger()}
}

func (c Commands) Debug(msg string, keysAndValues ...any) {
	emit(c.log.Debug(), msg, keysAndValues)
}

func (c Commands) Info(msg string, keysAndValues ...any) {
	emit(c.log.Info(), msg, keysAndValues)
}

func (c Commands) Error(msg string, keysAndValues ...any) {
	emit(c.log.Error(), msg, keysAndValues)
}

// emit adds alternating key/value pairs to e. Non-string keys are printed
// with %v and a trailing key without a value is dropped.
func emit(e *zerolog.Event, msg string, kv []any) {
	if e == nil {
		return
	}
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			key = fmt.Sprint(kv[i])
		}
		switch v := kv[i+1].(type) {
		case error:
			e = e.AnErr(key, v)
		case []string:
			e = e.Strs(key, v)
		default:
			e = e.Interface(key, v)
		}
	}
	e.Msg(msg)
}
