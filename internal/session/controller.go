package session

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/fretdiagram/fretboard/internal/annotation"
	"github.com/fretdiagram/fretboard/internal/dispatcher"
	"github.com/fretdiagram/fretboard/internal/view"
)

// Command names understood by the controller.
const (
	CmdSelect      = "select"
	CmdDeselect    = "deselect"
	CmdLabel       = "label"
	CmdColor       = "color"
	CmdColorIndex  = "color-index"
	CmdCustomColor = "custom-color"
	CmdShape       = "shape"
	CmdHighlight   = "highlight"
	CmdDelete      = "delete"
	CmdIntervalize = "intervalize"
	CmdClearRoot   = "clear-root"
	CmdEnharmonic  = "enharmonic"
	CmdVisibility  = "visibility"
	CmdOctaves     = "octaves"
	CmdFrets       = "frets"
	CmdPreset      = "preset"
	CmdReset       = "reset"
)

// keyMap translates key names to commands.
var keyMap = map[string]dispatcher.Event{
	"delete":    {Command: CmdDelete},
	"backspace": {Command: CmdDelete},
	"x":         {Command: CmdDelete},
	"i":         {Command: CmdIntervalize},
	"f":         {Command: CmdHighlight, Args: []string{"on"}},
	"y":         {Command: CmdColor, Args: []string{"yellow"}},
	"b":         {Command: CmdColor, Args: []string{"blue"}},
	"k":         {Command: CmdColor, Args: []string{"black"}},
	"g":         {Command: CmdColor, Args: []string{"green"}},
	"w":         {Command: CmdColor, Args: []string{"white"}},
	"r":         {Command: CmdColor, Args: []string{"red"}},
	"1":         {Command: CmdShape, Args: []string{string(annotation.Circle)}},
	"2":         {Command: CmdShape, Args: []string{string(annotation.Diamond)}},
	"3":         {Command: CmdShape, Args: []string{string(annotation.Triangle)}},
	"4":         {Command: CmdShape, Args: []string{string(annotation.Square)}},
	"e":         {Command: CmdEnharmonic},
	"v":         {Command: CmdVisibility},
	"o":         {Command: CmdOctaves},
	"esc":       {Command: CmdDeselect},
}

// shiftedDigits are the US-layout characters of shift+1..9.
const shiftedDigits = "!@#$%^&*("

// KeyCommand returns the command bound to a key name such as "x", "delete"
// or "shift+3".
func KeyCommand(key string) (dispatcher.Event, bool) {
	if e, ok := keyMap[key]; ok {
		return e, true
	}
	if d, ok := strings.CutPrefix(key, "shift+"); ok && len(d) == 1 && d[0] >= '1' && d[0] <= '9' {
		return dispatcher.Event{Command: CmdColorIndex, Args: []string{d}}, true
	}
	if i := strings.Index(shiftedDigits, key); len(key) == 1 && i >= 0 {
		return dispatcher.Event{Command: CmdColorIndex, Args: []string{strconv.Itoa(i + 1)}}, true
	}
	return dispatcher.Event{}, false
}

// Controller routes named commands and key presses to a session.
type Controller struct {
	session *Session
	d       *dispatcher.Dispatcher
}

// NewController registers every session operation as a command. A nil
// logger logs through slog.Default.
func NewController(s *Session, logger dispatcher.Logger) (*Controller, error) {
	if logger == nil {
		logger = slog.Default()
	}
	d, err := dispatcher.New(logger)
	if err != nil {
		return nil, fmt.Errorf("error creating dispatcher: %w", err)
	}
	c := &Controller{session: s, d: d}
	c.register()
	return c, nil
}

// Session returns the controlled session.
func (c *Controller) Session() *Session { return c.session }

// Commands lists the registered commands.
func (c *Controller) Commands() []dispatcher.Command { return c.d.Commands() }

// Dispatch runs a command.
func (c *Controller) Dispatch(command string, args ...string) (any, error) {
	return c.d.Dispatch(dispatcher.Event{Command: command, Args: args})
}

// HandleKey runs the command bound to key. ok is false for unbound keys.
func (c *Controller) HandleKey(key string) (result any, ok bool, err error) {
	e, ok := KeyCommand(key)
	if !ok {
		return nil, false, nil
	}
	result, err = c.d.Dispatch(e)
	return result, true, err
}

func (c *Controller) register() {
	s := c.session

	c.d.Register(CmdSelect, func(e dispatcher.Event) (any, error) {
		pos, err := ParsePosition(e.Arg(0), e.Arg(1))
		if err != nil {
			return nil, err
		}
		return nil, s.Select(pos)
	}, dispatcher.Logged(), dispatcher.Help("select the note at FRET STRING (fret 'o' for open)"))

	c.d.Register(CmdDeselect, func(e dispatcher.Event) (any, error) {
		s.ClearSelection()
		return nil, nil
	}, dispatcher.Help("clear the selection"))

	c.d.Register(CmdLabel, func(e dispatcher.Event) (any, error) {
		return nil, s.EditLabel(strings.Join(e.Args, " "))
	}, dispatcher.Logged(), dispatcher.Help("set the text of the selected note"))

	c.d.Register(CmdColor, func(e dispatcher.Event) (any, error) {
		return nil, s.SetColor(e.Arg(0))
	}, dispatcher.Logged(), dispatcher.Help("color the selected note (#rrggbb or yellow/blue/green/red/white/black)"))

	c.d.Register(CmdColorIndex, func(e dispatcher.Event) (any, error) {
		i, err := strconv.Atoi(e.Arg(0))
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrNoCustomColor, e.Arg(0))
		}
		return nil, s.SetColorIndex(i)
	}, dispatcher.Logged(), dispatcher.Help("color the selected note from custom slot 1-9"))

	c.d.Register(CmdCustomColor, func(e dispatcher.Event) (any, error) {
		i, err := strconv.Atoi(e.Arg(0))
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrNoCustomColor, e.Arg(0))
		}
		return nil, s.SetCustomColor(i, e.Arg(1))
	}, dispatcher.Help("store a color in custom slot 1-9"))

	c.d.Register(CmdShape, func(e dispatcher.Event) (any, error) {
		return nil, s.SetShape(annotation.Shape(e.Arg(0)))
	}, dispatcher.Logged(), dispatcher.Help("set the shape of the selected note"))

	c.d.Register(CmdHighlight, func(e dispatcher.Event) (any, error) {
		return nil, s.Highlight(e.Arg(0) != "off")
	}, dispatcher.Logged(), dispatcher.Help("highlight the selected note (on|off)"))

	c.d.Register(CmdDelete, func(e dispatcher.Event) (any, error) {
		return nil, s.Delete()
	}, dispatcher.Logged(), dispatcher.Help("reset the selected note"))

	c.d.Register(CmdIntervalize, func(e dispatcher.Event) (any, error) {
		return nil, s.Intervalize()
	}, dispatcher.Logged(), dispatcher.Help("label notes as intervals from the selected note"))

	c.d.Register(CmdClearRoot, func(e dispatcher.Event) (any, error) {
		s.ClearIntervalRoot()
		return nil, nil
	}, dispatcher.Help("label notes by name again"))

	c.d.Register(CmdEnharmonic, func(e dispatcher.Event) (any, error) {
		return s.ToggleEnharmonic(), nil
	}, dispatcher.Help("toggle sharp/flat spelling"))

	c.d.Register(CmdVisibility, func(e dispatcher.Event) (any, error) {
		return s.ToggleVisibility(), nil
	}, dispatcher.Help("toggle unmarked notes between hidden and transparent"))

	c.d.Register(CmdOctaves, func(e dispatcher.Event) (any, error) {
		return s.ToggleOctaveNotes(), nil
	}, dispatcher.Help("toggle octave numbers"))

	c.d.Register(CmdFrets, func(e dispatcher.Event) (any, error) {
		w, err := ParseWindow(e.Arg(0), e.Arg(1))
		if err != nil {
			return nil, err
		}
		return nil, s.SetFretWindow(w)
	}, dispatcher.Logged(), dispatcher.Help("set the fret window START END ('-' keeps a value)"))

	c.d.Register(CmdPreset, func(e dispatcher.Event) (any, error) {
		return s.SwitchPreset(e.Arg(0))
	}, dispatcher.Logged(), dispatcher.Help("switch to a catalog preset, carrying notes over"))

	c.d.Register(CmdReset, func(e dispatcher.Event) (any, error) {
		s.Reset()
		return nil, nil
	}, dispatcher.Logged(), dispatcher.Help("clear all notes and restore the default view"))
}

// ParsePosition reads a position from command arguments. fret is a number
// or "o" for the open string.
func ParsePosition(fret, str string) (annotation.Position, error) {
	s, err := strconv.Atoi(str)
	if err != nil || s < 0 {
		return annotation.Position{}, fmt.Errorf("%w: string %q", annotation.ErrInvalidKey, str)
	}
	if fret == "o" || fret == "open" {
		return annotation.Open(s), nil
	}
	f, err := strconv.Atoi(fret)
	if err != nil || f < annotation.OpenFret {
		return annotation.Position{}, fmt.Errorf("%w: fret %q", annotation.ErrInvalidKey, fret)
	}
	return annotation.Position{Fret: f, String: s}, nil
}

// ParseWindow reads a partial fret window; "-" or "" keeps a value.
func ParseWindow(start, end string) (view.FretWindow, error) {
	var w view.FretWindow
	parse := func(v string) (*int, error) {
		if v == "" || v == "-" {
			return nil, nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, &view.FretWindowError{Reason: "Invalid fret value(s)!"}
		}
		return &n, nil
	}
	var err error
	if w.Start, err = parse(start); err != nil {
		return w, err
	}
	if w.End, err = parse(end); err != nil {
		return w, err
	}
	return w, nil
}
