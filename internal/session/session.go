// Package session holds one editing session: the active instrument, its
// annotations and the view state, plus the operations a front-end invokes
// on them.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fretdiagram/fretboard/internal/annotation"
	"github.com/fretdiagram/fretboard/internal/document"
	"github.com/fretdiagram/fretboard/internal/instrument"
	"github.com/fretdiagram/fretboard/internal/pitch"
	"github.com/fretdiagram/fretboard/internal/render"
	"github.com/fretdiagram/fretboard/internal/view"
)

var (
	// ErrNoSelection is returned by edits that need a selected note.
	ErrNoSelection = errors.New("no note selected")
	// ErrOffBoard is returned when selecting a position that is not drawn.
	ErrOffBoard = errors.New("position is not on the fretboard")
	// ErrEmptyLabel is returned when a label edit is blank.
	ErrEmptyLabel = errors.New("label must not be empty")
	// ErrInvalidColor is returned for colors that are neither hex nor named.
	ErrInvalidColor = errors.New("invalid color")
	// ErrNoCustomColor is returned for an unset custom color slot.
	ErrNoCustomColor = errors.New("no custom color in slot")
)

// Session is a single-threaded editing session.
type Session struct {
	catalog   *instrument.Catalog
	preset    string
	cfg       *instrument.Config
	state     view.State
	store     *annotation.Store
	custom    []string
	windowErr error
	logger    *slog.Logger
}

// New starts a session on the named preset.
func New(catalog *instrument.Catalog, preset string, logger *slog.Logger) (*Session, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cfg, err := catalog.Load(preset)
	if err != nil {
		return nil, err
	}
	return &Session{
		catalog: catalog,
		preset:  preset,
		cfg:     cfg,
		state:   view.Default(),
		store:   annotation.NewStore(),
		custom:  DefaultCustomColors(),
		logger:  logger,
	}, nil
}

// Config returns the active instrument. Callers must not modify it.
func (s *Session) Config() *instrument.Config { return s.cfg }

// State returns a copy of the view state.
func (s *Session) State() view.State { return s.state }

// Store returns the annotation store.
func (s *Session) Store() *annotation.Store { return s.store }

// Preset returns the name of the preset the instrument came from, or "" for
// a custom configuration.
func (s *Session) Preset() string { return s.preset }

// Catalog returns the preset catalog.
func (s *Session) Catalog() *instrument.Catalog { return s.catalog }

// CustomColors returns the user color slots.
func (s *Session) CustomColors() []string { return s.custom }

// WindowErr returns the pending fret window error, if any.
func (s *Session) WindowErr() error { return s.windowErr }

// Board returns the currently drawn board.
func (s *Session) Board() annotation.Board {
	return s.state.Board(s.cfg)
}

// Render draws the current diagram, or the fret window error while one is
// pending.
func (s *Session) Render() *render.Scene {
	if s.windowErr != nil {
		return render.ErrorScene(s.windowErr.Error())
	}
	return render.Render(s.cfg, s.state, s.store)
}

// Label returns the text drawn at pos.
func (s *Session) Label(pos annotation.Position) string {
	if a, ok := s.store.Get(pos); ok && a.NoteText != "" {
		return a.NoteText
	}
	iv := s.cfg.StringIntervals
	if root := s.state.IntervalRoot; root != nil {
		return pitch.IntervalName(pos.Fret, pos.String, root.Fret, root.String, iv, s.state.Enharmonic, s.cfg.OctaveNotes)
	}
	return pitch.NoteName(pos.Fret, pos.String, iv, s.state.Enharmonic, s.cfg.OctaveNotes)
}

// Select makes pos the selected note. A previously selected note stays
// marked as visible.
func (s *Session) Select(pos annotation.Position) error {
	if !s.Board().Renders(pos) {
		return fmt.Errorf("%w: %s", ErrOffBoard, pos.Key())
	}
	s.demoteSelection()
	s.store.Update(pos, annotation.Annotation{Visibility: annotation.Selected})
	s.state.Selected = &pos
	return nil
}

// ClearSelection deselects, leaving the note marked as visible.
func (s *Session) ClearSelection() {
	s.demoteSelection()
	s.state.Selected = nil
}

func (s *Session) demoteSelection() {
	if s.state.Selected == nil {
		return
	}
	pos := *s.state.Selected
	if a, ok := s.store.Get(pos); ok && a.Visibility == annotation.Selected {
		s.store.Update(pos, annotation.Annotation{Visibility: annotation.Visible})
	}
}

func (s *Session) selected() (annotation.Position, error) {
	if s.state.Selected == nil {
		return annotation.Position{}, ErrNoSelection
	}
	return *s.state.Selected, nil
}

// EditLabel replaces the text of the selected note. Blank text is rejected
// and leaves the label unchanged.
func (s *Session) EditLabel(text string) error {
	pos, err := s.selected()
	if err != nil {
		return err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyLabel
	}
	s.store.Update(pos, annotation.Annotation{NoteText: text})
	return nil
}

// SetColor colors the selected note. c is a hex color or a quick color
// name.
func (s *Session) SetColor(c string) error {
	pos, err := s.selected()
	if err != nil {
		return err
	}
	if named, ok := QuickColors[strings.ToLower(c)]; ok {
		c = named
	}
	if !render.IsHex(c) {
		return fmt.Errorf("%w: %q", ErrInvalidColor, c)
	}
	s.store.Update(pos, annotation.Annotation{Color: c})
	return nil
}

// SetColorIndex colors the selected note from custom slot i (1-based).
func (s *Session) SetColorIndex(i int) error {
	if _, err := s.selected(); err != nil {
		return err
	}
	if i < 1 || i > len(s.custom) || s.custom[i-1] == "" {
		return fmt.Errorf("%w: %d", ErrNoCustomColor, i)
	}
	return s.SetColor(s.custom[i-1])
}

// SetCustomColor stores c in custom slot i (1-based).
func (s *Session) SetCustomColor(i int, c string) error {
	if i < 1 || i > len(s.custom) {
		return fmt.Errorf("%w: %d", ErrNoCustomColor, i)
	}
	if !render.IsHex(c) {
		return fmt.Errorf("%w: %q", ErrInvalidColor, c)
	}
	s.custom[i-1] = c
	return nil
}

// SetShape changes the shape of the selected note.
func (s *Session) SetShape(shape annotation.Shape) error {
	pos, err := s.selected()
	if err != nil {
		return err
	}
	if !shape.Valid() {
		return fmt.Errorf("unknown shape %q", shape)
	}
	s.store.Update(pos, annotation.Annotation{Shape: shape})
	return nil
}

// Highlight marks the selected note with a heavy outline and releases the
// selection so the mark sticks. Turning it off leaves the note visible.
func (s *Session) Highlight(on bool) error {
	pos, err := s.selected()
	if err != nil {
		return err
	}
	vis := annotation.Visible
	if on {
		vis = annotation.Highlight
	}
	s.store.Update(pos, annotation.Annotation{Visibility: vis})
	s.state.Selected = nil
	return nil
}

// Delete resets the selected note to the default annotation and clears the
// selection.
func (s *Session) Delete() error {
	pos, err := s.selected()
	if err != nil {
		return err
	}
	s.store.Delete(pos)
	s.state.Selected = nil
	return nil
}

// Intervalize relabels the board as intervals from the selected note.
func (s *Session) Intervalize() error {
	pos, err := s.selected()
	if err != nil {
		return err
	}
	s.state.IntervalRoot = &pos
	return nil
}

// ClearIntervalRoot switches back to note names.
func (s *Session) ClearIntervalRoot() {
	s.state.IntervalRoot = nil
}

// ToggleEnharmonic flips sharp/flat spelling, clears the interval root and
// returns the glyph of the spelling that was active before.
func (s *Session) ToggleEnharmonic() string {
	prev := s.state.Enharmonic
	s.state.Enharmonic = prev.Toggle()
	s.state.IntervalRoot = nil
	return prev.Sign()
}

// ToggleVisibility flips unannotated notes between hidden and transparent.
func (s *Session) ToggleVisibility() annotation.Visibility {
	if s.state.Visibility == annotation.Hidden {
		s.state.Visibility = annotation.Transparent
	} else {
		s.state.Visibility = annotation.Hidden
	}
	s.store.SetDefaultVisibility(s.state.Visibility)
	return s.state.Visibility
}

// ToggleOctaveNotes shows or hides octave numbers in note names.
func (s *Session) ToggleOctaveNotes() bool {
	next := s.cfg.Clone()
	next.OctaveNotes = !next.OctaveNotes
	s.cfg = next
	return next.OctaveNotes
}

// SetFretWindow moves the fret window. An invalid window keeps the last
// valid one and makes Render show the error until a valid window is set.
func (s *Session) SetFretWindow(w view.FretWindow) error {
	start, end := w.Resolve(s.state)
	if err := view.CheckWindow(start, end); err != nil {
		s.windowErr = err
		s.logger.Debug("rejected fret window", "start", start, "end", end, "error", err)
		return err
	}
	s.windowErr = nil
	s.state.StartFret, s.state.EndFret = start, end
	if s.state.Selected != nil && !s.Board().Renders(*s.state.Selected) {
		s.ClearSelection()
	}
	return nil
}

// SwitchPreset loads a catalog preset and carries the annotations over. On
// error the session is unchanged.
func (s *Session) SwitchPreset(name string) (annotation.Report, error) {
	cfg, err := s.catalog.Load(name)
	if err != nil {
		return annotation.Report{}, err
	}
	report := s.ApplyConfig(cfg)
	s.preset = name
	return report, nil
}

// ApplyConfig replaces the instrument with cfg and remaps annotations by
// pitch. The interval root and selection are cleared.
func (s *Session) ApplyConfig(cfg *instrument.Config) annotation.Report {
	from := s.Board()
	s.ClearSelection()
	s.state.IntervalRoot = nil
	s.cfg = cfg
	s.preset = ""

	next, report := annotation.Remap(s.store, from, s.Board())
	s.store = next
	if w := report.Warning(); w != "" {
		s.logger.Warn(w)
	}
	s.logger.Info("instrument changed", "title", cfg.Title, "kept", report.Kept, "moved", report.Moved, "stray", len(report.Stray))
	return report
}

// Reset clears every annotation and restores the default view.
func (s *Session) Reset() {
	s.store.Reset()
	s.state = view.Default()
	s.windowErr = nil
}

// Document snapshots the session for saving.
func (s *Session) Document() *document.Document {
	state := s.state
	return &document.Document{
		Cfg:   s.cfg.Clone(),
		Data:  s.store.Clone(),
		State: &state,
	}
}

// ApplyDocument replaces the instrument, annotations and view with a loaded
// document. The selection is not restored. Saved view values that do not fit
// the document's instrument fall back to their defaults.
func (s *Session) ApplyDocument(doc *document.Document) {
	s.cfg = doc.Cfg
	s.store = doc.Data.Clone()
	s.store.Demote()
	s.preset = ""
	s.windowErr = nil

	state := view.Default()
	if saved := doc.State; saved != nil {
		if view.CheckWindow(saved.StartFret, saved.EndFret) == nil {
			state.StartFret, state.EndFret = saved.StartFret, saved.EndFret
		}
		if saved.Visibility == annotation.Hidden {
			state.Visibility = annotation.Hidden
		}
		if saved.Enharmonic == pitch.Flat {
			state.Enharmonic = pitch.Flat
		}
		if root := saved.IntervalRoot; root != nil && state.Board(s.cfg).Renders(*root) {
			r := *root
			state.IntervalRoot = &r
		}
	}
	s.state = state
	s.logger.Info("document loaded", "title", s.cfg.Title, "notes", s.store.Len())
}
