package annotation

import "fmt"

// TypeNote is the only annotation type.
const TypeNote = "note"

// DefaultColor is the fill of an unannotated note.
const DefaultColor = "#FFFFFF"

// Shape of a drawn note.
type Shape string

const (
	Circle   Shape = "circle"
	Diamond  Shape = "diamond"
	Triangle Shape = "triangle"
	Square   Shape = "square"
)

// Shapes lists the valid shapes in key order (1..4).
var Shapes = []Shape{Circle, Diamond, Triangle, Square}

// Valid reports whether s is a known shape.
func (s Shape) Valid() bool {
	switch s {
	case Circle, Diamond, Triangle, Square:
		return true
	}
	return false
}

// Visibility of a drawn note.
type Visibility string

const (
	Visible     Visibility = "visible"
	Selected    Visibility = "selected"
	Hidden      Visibility = "hidden"
	Transparent Visibility = "transparent"
	Highlight   Visibility = "highlight"
)

// Valid reports whether v is a known visibility.
func (v Visibility) Valid() bool {
	switch v {
	case Visible, Selected, Hidden, Transparent, Highlight:
		return true
	}
	return false
}

// Live reports whether a note with this visibility was placed by the user
// and survives an instrument change.
func (v Visibility) Live() bool {
	return v == Visible || v == Selected
}

// Annotation overrides the computed rendering of one position. Empty fields
// inherit from the default annotation.
type Annotation struct {
	Type       string     `json:"type,omitempty"`
	Color      string     `json:"color,omitempty"`
	Shape      Shape      `json:"shape,omitempty"`
	Visibility Visibility `json:"visibility,omitempty"`
	NoteText   string     `json:"noteText,omitempty"`
}

// Default returns the annotation every unannotated position renders with.
func Default(global Visibility) Annotation {
	return Annotation{
		Type:       TypeNote,
		Color:      DefaultColor,
		Shape:      Circle,
		Visibility: global,
	}
}

// Merge overlays the non-empty fields of update onto a.
func (a Annotation) Merge(update Annotation) Annotation {
	if update.Type != "" {
		a.Type = update.Type
	}
	if update.Color != "" {
		a.Color = update.Color
	}
	if update.Shape != "" {
		a.Shape = update.Shape
	}
	if update.Visibility != "" {
		a.Visibility = update.Visibility
	}
	if update.NoteText != "" {
		a.NoteText = update.NoteText
	}
	return a
}

// Validate checks the enumerated fields that are set.
func (a Annotation) Validate() error {
	if a.Type != "" && a.Type != TypeNote {
		return fmt.Errorf("unknown annotation type %q", a.Type)
	}
	if a.Shape != "" && !a.Shape.Valid() {
		return fmt.Errorf("unknown shape %q", a.Shape)
	}
	if a.Visibility != "" && !a.Visibility.Valid() {
		return fmt.Errorf("unknown visibility %q", a.Visibility)
	}
	return nil
}
