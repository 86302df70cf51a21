package tui

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fretdiagram/fretboard/internal/annotation"
	"github.com/fretdiagram/fretboard/internal/document"
	"github.com/fretdiagram/fretboard/internal/instrument"
	"github.com/fretdiagram/fretboard/internal/session"
)

func newModel(t *testing.T) (Model, string) {
	t.Helper()
	s, err := session.New(instrument.Builtin(), "guitar", nil)
	require.NoError(t, err)
	ctrl, err := session.NewController(s, nil)
	require.NoError(t, err)
	dir := t.TempDir()
	return New(Options{
		Controller: ctrl,
		Documents:  document.NewManager(zerolog.Nop(), dir, false),
		Filename:   "board",
	}), dir
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

func TestCursorStartsOnOpenString(t *testing.T) {
	m, _ := newModel(t)
	assert.Equal(t, annotation.Open(0), m.cursor)
}

func TestCursorMovement(t *testing.T) {
	m, _ := newModel(t)
	m = press(t, m,
		tea.KeyMsg{Type: tea.KeyRight},
		tea.KeyMsg{Type: tea.KeyRight},
		tea.KeyMsg{Type: tea.KeyDown},
	)
	assert.Equal(t, annotation.Position{Fret: 1, String: 1}, m.cursor)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyLeft}, tea.KeyMsg{Type: tea.KeyLeft}, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, annotation.Open(1), m.cursor)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyUp}, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, m.cursor.String)
}

func TestSelectAndColor(t *testing.T) {
	m, _ := newModel(t)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyRight}, tea.KeyMsg{Type: tea.KeyEnter}, runes("b"), runes("3"))

	a, ok := m.session().Store().Get(annotation.Position{Fret: 0, String: 0})
	require.True(t, ok)
	assert.Equal(t, session.QuickColors["blue"], a.Color)
	assert.Equal(t, annotation.Triangle, a.Shape)
	assert.Nil(t, m.currentError)
}

func TestEditWithoutSelectionShowsError(t *testing.T) {
	m, _ := newModel(t)
	m = press(t, m, runes("r"))
	require.Error(t, m.currentError)
	assert.ErrorIs(t, m.currentError, session.ErrNoSelection)
	assert.Contains(t, m.View(), "nothing to change")
}

func TestEditLabel(t *testing.T) {
	m, _ := newModel(t)
	m = press(t, m, runes("t"))
	require.True(t, m.editing)
	assert.Equal(t, "E", m.textInput.Value())

	m.textInput.SetValue("Root")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.editing)
	assert.Equal(t, "Root", m.session().Label(annotation.Open(0)))
}

func TestEditLabel_Escape(t *testing.T) {
	m, _ := newModel(t)
	m = press(t, m, runes("t"))
	m.textInput.SetValue("nope")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.editing)
	assert.Equal(t, "E", m.session().Label(annotation.Open(0)))
}

func TestShiftWindow(t *testing.T) {
	m, _ := newModel(t)
	m = press(t, m, runes("]"), runes("]"))
	assert.Equal(t, 2, m.session().State().StartFret)
	assert.Equal(t, 18, m.session().State().EndFret)

	m = press(t, m, runes("["), runes("["), runes("["))
	assert.Equal(t, 0, m.session().State().StartFret)
	assert.Error(t, m.currentError)
	assert.Nil(t, m.session().WindowErr())
}

func TestCyclePreset(t *testing.T) {
	m, _ := newModel(t)
	cat := m.session().Catalog()
	m = press(t, m, runes("p"))
	assert.Equal(t, cat.Next("guitar", 1), m.session().Preset())

	m = press(t, m, runes("P"))
	assert.Equal(t, "guitar", m.session().Preset())
}

func TestSaveAndExport(t *testing.T) {
	m, dir := newModel(t)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter}, tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.Contains(t, m.status, "board.fbjson")
	_, err := os.Stat(filepath.Join(dir, "board.fbjson"))
	assert.NoError(t, err)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlX}, runes("M"))
	_, err = os.Stat(filepath.Join(dir, "board.svg"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "board.mid"))
	assert.NoError(t, err)
}

func TestLoadedMsg(t *testing.T) {
	m, dir := newModel(t)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter}, runes("t"))
	m.textInput.SetValue("Saved")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter}, tea.KeyMsg{Type: tea.KeyCtrlS})

	other, _ := newModel(t)
	other.docs = document.NewManager(zerolog.Nop(), dir, false)
	other.loadPath = filepath.Join(dir, "board.fbjson")
	cmd := other.Init()
	require.NotNil(t, cmd)
	other = press(t, other, cmd())

	assert.Equal(t, "Saved", other.session().Label(annotation.Open(0)))
	assert.Contains(t, other.status, "Loaded")
}

func TestLoadedMsg_Error(t *testing.T) {
	m, dir := newModel(t)
	m.loadPath = filepath.Join(dir, "missing.fbjson")
	m = press(t, m, m.Init()())
	require.Error(t, m.currentError)
	assert.Contains(t, m.View(), "Could not load")
}

func TestView(t *testing.T) {
	m, _ := newModel(t)
	v := m.View()
	assert.Contains(t, v, "Guitar")
	assert.Contains(t, v, "12")

	m = press(t, m, runes("?"))
	assert.Contains(t, m.View(), "sharps/flats")
}

func TestQuit(t *testing.T) {
	m, _ := newModel(t)
	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
