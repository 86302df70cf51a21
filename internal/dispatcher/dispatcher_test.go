package dispatcher

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testLogger implements Logger for testing
type testLogger struct {
	messages []string
}

func (l *testLogger) Debug(msg string, keysAndValues ...any) {
	l.messages = append(l.messages, fmt.Sprintf("DEBUG: %s %v", msg, keysAndValues))
}

func (l *testLogger) Info(msg string, keysAndValues ...any) {
	l.messages = append(l.messages, fmt.Sprintf("INFO: %s %v", msg, keysAndValues))
}

func (l *testLogger) Error(msg string, keysAndValues ...any) {
	l.messages = append(l.messages, fmt.Sprintf("ERROR: %s %v", msg, keysAndValues))
}

func newTestDispatcher(t *testing.T) (*Dispatcher, *testLogger) {
	logger := &testLogger{}

	d, err := New(logger)
	require.NoError(t, err, "failed to create dispatcher")

	return d, logger
}

func TestDispatcher_Handler(t *testing.T) {
	d, _ := newTestDispatcher(t)

	var got Event
	d.Register("color", func(e Event) (any, error) {
		got = e
		return "result", nil
	})

	result, err := d.Dispatch(Event{Command: "color", Args: []string{"#ac443a"}})

	require.NoError(t, err)
	assert.Equal(t, "result", result)
	assert.Equal(t, "#ac443a", got.Arg(0))
	assert.False(t, got.Timestamp.IsZero(), "dispatch should stamp the event")
}

func TestDispatcher_KeepsTimestamp(t *testing.T) {
	d, _ := newTestDispatcher(t)
	stamp := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	var got Event
	d.Register("noop", func(e Event) (any, error) {
		got = e
		return nil, nil
	})

	_, err := d.Dispatch(Event{Command: "noop", Timestamp: stamp})
	require.NoError(t, err)
	assert.Equal(t, stamp, got.Timestamp)
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	d, _ := newTestDispatcher(t)

	_, err := d.Dispatch(Event{Command: "bogus"})

	assert.ErrorIs(t, err, ErrUnknownCommand)
}

func TestDispatcher_HandlerError(t *testing.T) {
	d, _ := newTestDispatcher(t)
	boom := errors.New("boom")

	d.Register("fail", func(e Event) (any, error) {
		return nil, boom
	})

	_, err := d.Dispatch(Event{Command: "fail"})
	assert.ErrorIs(t, err, boom)
}

func TestDispatcher_Logged(t *testing.T) {
	d, logger := newTestDispatcher(t)

	d.Register("ok", func(e Event) (any, error) { return nil, nil }, Logged())
	d.Register("fail", func(e Event) (any, error) { return nil, errors.New("boom") }, Logged())

	_, _ = d.Dispatch(Event{Command: "ok"})
	_, _ = d.Dispatch(Event{Command: "fail"})

	joined := strings.Join(logger.messages, "\n")
	assert.Contains(t, joined, "DEBUG: handling command")
	assert.Contains(t, joined, "DEBUG: command complete")
	assert.Contains(t, joined, "ERROR: command failed")
}

func TestDispatcher_NotLoggedByDefault(t *testing.T) {
	d, logger := newTestDispatcher(t)

	d.Register("quiet", func(e Event) (any, error) { return nil, nil })
	_, _ = d.Dispatch(Event{Command: "quiet"})

	assert.Empty(t, logger.messages)
}

func TestDispatcher_HasHandlerAndCommands(t *testing.T) {
	d, _ := newTestDispatcher(t)

	d.Register("shape", func(e Event) (any, error) { return nil, nil }, Help("set note shape"))
	d.Register("color", func(e Event) (any, error) { return nil, nil })

	assert.True(t, d.HasHandler("shape"))
	assert.False(t, d.HasHandler("delete"))
	assert.Equal(t, []Command{{Name: "color"}, {Name: "shape", Help: "set note shape"}}, d.Commands())
}

func TestEvent_Arg(t *testing.T) {
	e := Event{Args: []string{"a"}}

	assert.Equal(t, "a", e.Arg(0))
	assert.Equal(t, "", e.Arg(1))
	assert.Equal(t, "", e.Arg(-1))
}
