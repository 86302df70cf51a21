// Package view holds the transient presentation state of a fretboard:
// selection, global visibility, fret window, spelling and interval root.
package view

import (
	"errors"
	"fmt"

	"github.com/fretdiagram/fretboard/internal/annotation"
	"github.com/fretdiagram/fretboard/internal/instrument"
	"github.com/fretdiagram/fretboard/internal/pitch"
)

// Fret window bounds.
const (
	MinStartFret     = 0
	MaxFret          = 22
	MinEndFret       = 1
	MaxFretRange     = 17
	DefaultEndFret   = 16
	DefaultStartFret = 0
)

// State is the view state of one editing session.
type State struct {
	Selected     *annotation.Position  `json:"selected"`
	Visibility   annotation.Visibility `json:"visibility"`
	StartFret    int                   `json:"startFret"`
	EndFret      int                   `json:"endFret"`
	Enharmonic   pitch.Enharmonic      `json:"enharmonic"`
	IntervalRoot *annotation.Position  `json:"intervalRoot"`
}

// Default returns the initial view state.
func Default() State {
	return State{
		Visibility: annotation.Transparent,
		StartFret:  DefaultStartFret,
		EndFret:    DefaultEndFret,
		Enharmonic: pitch.Sharp,
	}
}

// Board combines an instrument with the state's fret window.
func (s State) Board(cfg *instrument.Config) annotation.Board {
	return annotation.Board{
		Intervals: cfg.StringIntervals,
		ShowOpen:  cfg.ShowOpenStrings,
		StartFret: s.StartFret,
		EndFret:   s.EndFret,
	}
}

// IsSelected reports whether pos is the current selection.
func (s State) IsSelected(pos annotation.Position) bool {
	return s.Selected != nil && *s.Selected == pos
}

// ErrFretWindow matches every *FretWindowError via errors.Is.
var ErrFretWindow = errors.New("invalid fret window")

// FretWindowError rejects a requested fret window.
type FretWindowError struct {
	Start  int
	End    int
	Reason string
}

func (e *FretWindowError) Error() string {
	return e.Reason
}

func (e *FretWindowError) Is(target error) bool { return target == ErrFretWindow }

// FretWindow is a partial window update; nil fields keep their value.
type FretWindow struct {
	Start *int
	End   *int
}

// Window returns a full window update.
func Window(start, end int) FretWindow {
	return FretWindow{Start: &start, End: &end}
}

// Resolve fills unset fields from the current state.
func (w FretWindow) Resolve(s State) (start, end int) {
	start, end = s.StartFret, s.EndFret
	if w.Start != nil {
		start = *w.Start
	}
	if w.End != nil {
		end = *w.End
	}
	return start, end
}

// CheckWindow validates a fret window.
func CheckWindow(start, end int) error {
	if start < MinStartFret || start > MaxFret || end < MinEndFret || end > MaxFret {
		return &FretWindowError{Start: start, End: end, Reason: "Invalid fret value(s)!"}
	}
	if end <= start {
		return &FretWindowError{Start: start, End: end, Reason: "End fret must not be smaller than start fret!"}
	}
	if end-start > MaxFretRange {
		return &FretWindowError{Start: start, End: end, Reason: fmt.Sprintf(
			"Maximal number of displayable frets is %d, e.g., 1st to %dth or 4th to %dth!",
			MaxFretRange, MaxFretRange, MaxFretRange+3)}
	}
	return nil
}

// FitEndFret returns the end fret that fits a viewport of the given width,
// capped at DefaultEndFret.
func FitEndFret(viewportWidth float64, cfg *instrument.Config) int {
	if cfg.FretWidth <= 0 {
		return DefaultEndFret
	}
	n := int((viewportWidth - 2*cfg.OffsetX) / cfg.FretWidth)
	return max(MinEndFret, min(n, DefaultEndFret))
}
