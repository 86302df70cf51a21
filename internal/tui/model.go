// Package tui is a terminal front-end for the fretboard editor.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fretdiagram/fretboard/internal/annotation"
	"github.com/fretdiagram/fretboard/internal/document"
	"github.com/fretdiagram/fretboard/internal/session"
	"github.com/fretdiagram/fretboard/internal/util"
)

// Options configures a Model.
type Options struct {
	Controller *session.Controller
	Documents  *document.Manager
	// Filename is the save name offered by ctrl+s and ctrl+x.
	Filename string
	// LoadPath, when set, is loaded in the background on start.
	LoadPath string
}

// Model is the bubbletea model of the editor.
type Model struct {
	ctrl     *session.Controller
	docs     *document.Manager
	filename string
	loadPath string

	cursor    annotation.Position
	editing   bool
	textInput textinput.Model
	help      help.Model

	status       string
	currentError error
	width        int
	height       int
}

type loadedMsg document.LoadResult

type errorMsg struct {
	err error
}

// New creates the editor model.
func New(opts Options) Model {
	m := Model{
		ctrl:      opts.Controller,
		docs:      opts.Documents,
		filename:  opts.Filename,
		loadPath:  opts.LoadPath,
		textInput: InitTextInput(),
		help:      help.New(),
	}
	if m.filename == "" {
		m.filename = util.DefaultName
	}
	m.cursor = m.firstFret(0)
	return m
}

// InitTextInput builds the label editor.
func InitTextInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "label"
	ti.Prompt = "label: "
	ti.CharLimit = 12
	ti.Width = 12
	return ti
}

// Run starts the editor on the alternate screen.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fault.Wrap(err, fmsg.With("editor stopped unexpectedly"))
	}
	return nil
}

func (m Model) session() *session.Session {
	return m.ctrl.Session()
}

// Init starts loading the requested document, if any.
func (m Model) Init() tea.Cmd {
	if m.loadPath == "" || m.docs == nil {
		return nil
	}
	ch := m.docs.LoadAsync(context.Background(), m.loadPath)
	return func() tea.Msg {
		return loadedMsg(<-ch)
	}
}

func Is(msg tea.KeyMsg, k ...key.Binding) bool {
	return key.Matches(msg, k...)
}

// Update handles a message.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil
	case loadedMsg:
		if msg.Err != nil {
			m.SetCurrentError(fault.Wrap(msg.Err,
				fmsg.WithDesc("could not load file", fmt.Sprintf("Could not load %s: %v", msg.Path, msg.Err)),
				ftag.With(ftag.NotFound)))
			return m, nil
		}
		m.session().ApplyDocument(msg.Doc)
		m.clampCursor()
		m.setStatus(fmt.Sprintf("Loaded %s", msg.Path))
		return m, nil
	case errorMsg:
		m.SetCurrentError(msg.err)
		return m, nil
	case tea.KeyMsg:
		if m.editing {
			return m.updateEditing(msg)
		}
		return m.updateKey(msg)
	}
	return m, nil
}

func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.editing = false
		m.textInput.Blur()
		if m.textInput.Value() == m.session().Label(m.cursor) {
			return m, nil
		}
		if _, err := m.ctrl.Dispatch(session.CmdLabel, m.textInput.Value()); err != nil {
			m.SetCurrentError(userError(err, "label not changed"))
		} else {
			m.setStatus("")
		}
		return m, nil
	case tea.KeyEsc:
		m.editing = false
		m.textInput.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case Is(msg, keys.Quit):
		return m, tea.Quit
	case Is(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case Is(msg, keys.Up):
		m.moveString(-1)
	case Is(msg, keys.Down):
		m.moveString(1)
	case Is(msg, keys.Left):
		m.moveFret(-1)
	case Is(msg, keys.Right):
		m.moveFret(1)
	case Is(msg, keys.Select):
		m.selectCursor()
	case Is(msg, keys.Edit):
		return m.startEditing()
	case Is(msg, keys.WindowDown):
		m.shiftWindow(-1)
	case Is(msg, keys.WindowUp):
		m.shiftWindow(1)
	case Is(msg, keys.NextPreset):
		m.cyclePreset(1)
	case Is(msg, keys.PrevPreset):
		m.cyclePreset(-1)
	case Is(msg, keys.Save):
		m.save()
	case Is(msg, keys.ExportSVG):
		m.exportSVG()
	case Is(msg, keys.ExportMIDI):
		m.exportMIDI()
	default:
		m.command(msg.String())
	}
	return m, nil
}

func (m *Model) command(k string) {
	res, ok, err := m.ctrl.HandleKey(k)
	if !ok {
		return
	}
	if err != nil {
		m.SetCurrentError(userError(err, "nothing to change"))
		return
	}
	switch v := res.(type) {
	case string:
		m.setStatus("Spelling was " + v)
	case annotation.Visibility:
		m.setStatus("Unmarked notes: " + string(v))
	case bool:
		m.setStatus("Octave numbers: " + strconv.FormatBool(v))
	default:
		m.setStatus("")
	}
}

func (m *Model) selectCursor() {
	if m.session().State().IsSelected(m.cursor) {
		m.ctrl.Dispatch(session.CmdDeselect)
		return
	}
	_, err := m.ctrl.Dispatch(session.CmdSelect, fretArg(m.cursor.Fret), strconv.Itoa(m.cursor.String))
	if err != nil {
		m.SetCurrentError(userError(err, "cannot select this note"))
	}
}

func (m Model) startEditing() (tea.Model, tea.Cmd) {
	if !m.session().State().IsSelected(m.cursor) {
		m.selectCursor()
		if m.currentError != nil {
			return m, nil
		}
	}
	m.editing = true
	m.textInput.SetValue(m.session().Label(m.cursor))
	m.textInput.CursorEnd()
	return m, m.textInput.Focus()
}

func (m *Model) shiftWindow(step int) {
	st := m.session().State()
	start, end := st.StartFret+step, st.EndFret+step
	_, err := m.ctrl.Dispatch(session.CmdFrets, strconv.Itoa(start), strconv.Itoa(end))
	if err != nil {
		// keep showing the board; the session still holds the last good window
		m.ctrl.Dispatch(session.CmdFrets, strconv.Itoa(st.StartFret), strconv.Itoa(st.EndFret))
		m.SetCurrentError(userError(err, "fret window unchanged"))
		return
	}
	m.clampCursor()
}

func (m *Model) cyclePreset(step int) {
	s := m.session()
	name := s.Catalog().Next(s.Preset(), step)
	res, err := m.ctrl.Dispatch(session.CmdPreset, name)
	if err != nil {
		m.SetCurrentError(failure(err, "could not switch instrument"))
		return
	}
	m.clampCursor()
	status := s.Config().Title
	if report, ok := res.(annotation.Report); ok {
		if w := report.Warning(); w != "" {
			status += ": " + w
		}
	}
	m.setStatus(status)
}

func (m *Model) save() {
	if m.docs == nil {
		return
	}
	path, err := m.docs.Save(m.filename, m.session().Document())
	if err != nil {
		m.SetCurrentError(failure(err, "cannot write file"))
		return
	}
	m.setStatus("Saved " + path)
}

func (m *Model) exportSVG() {
	if m.docs == nil {
		return
	}
	m.ctrl.Dispatch(session.CmdDeselect)
	path, err := m.docs.ExportSVG(m.filename, m.session().Render())
	if err != nil {
		m.SetCurrentError(failure(err, "cannot export SVG"))
		return
	}
	m.setStatus("Exported " + path)
}

func (m *Model) exportMIDI() {
	if m.docs == nil {
		return
	}
	path, err := m.docs.ExportMIDI(m.filename, m.session().Document())
	if err != nil {
		m.SetCurrentError(failure(err, "cannot export MIDI"))
		return
	}
	m.setStatus("Exported " + path)
}

// SetCurrentError shows err in the status line.
func (m *Model) SetCurrentError(err error) {
	m.currentError = err
	m.status = ""
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.currentError = nil
}

func userError(err error, msg string) error {
	return fault.Wrap(err, fmsg.WithDesc(msg, msg+": "+err.Error()), ftag.With(ftag.InvalidArgument))
}

func failure(err error, msg string) error {
	if errors.Is(err, util.ErrEmptyFilename) {
		return fault.Wrap(err, fmsg.WithDesc("save cancelled", "Nothing written: no file name"), ftag.With(ftag.Cancelled))
	}
	return fault.Wrap(err, fmsg.WithDesc(msg, msg+": "+err.Error()), ftag.With(ftag.Internal))
}

// errorText is the user-facing form of err.
func errorText(err error) string {
	if issue := fmsg.GetIssue(err); issue != "" {
		return issue
	}
	return err.Error()
}

func fretArg(fret int) string {
	if fret == annotation.OpenFret {
		return "o"
	}
	return strconv.Itoa(fret)
}

func (m Model) firstFret(str int) annotation.Position {
	b := m.session().Board()
	if b.ShowOpen {
		return annotation.Open(str)
	}
	return annotation.Position{Fret: b.StartFret, String: str}
}

func (m *Model) moveString(step int) {
	n := len(m.session().Board().Intervals)
	m.cursor.String = max(0, min(n-1, m.cursor.String+step))
}

func (m *Model) moveFret(step int) {
	b := m.session().Board()
	f := m.cursor.Fret + step
	if m.cursor.IsOpen() && step > 0 {
		f = b.StartFret
	} else if f < b.StartFret {
		f = m.firstFret(m.cursor.String).Fret
	}
	m.cursor.Fret = min(f, b.EndFret-1)
}

func (m *Model) clampCursor() {
	b := m.session().Board()
	m.cursor.String = max(0, min(len(b.Intervals)-1, m.cursor.String))
	if !b.Renders(m.cursor) {
		if m.cursor.Fret >= b.EndFret {
			m.cursor.Fret = b.EndFret - 1
		} else {
			m.cursor = m.firstFret(m.cursor.String)
		}
	}
}
