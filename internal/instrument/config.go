// Package instrument describes fretted instruments: tuning, layout, marker
// placement and colors. Configurations are only ever filled through Copy,
// which checks them against a fixed schema first.
package instrument

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

const (
	// MinStringSize is the fallback stroke width of a string.
	MinStringSize = 0.2
	// CircleRadius is the size of a note shape.
	CircleRadius = 18
)

// MarkerStyle selects how fret positions are marked.
type MarkerStyle string

const (
	FretNumbers  MarkerStyle = "fret-number"
	LinearInlays MarkerStyle = "linear-inlay"
)

// ColorTarget names a colorable element of the diagram.
type ColorTarget string

const (
	ColorBackground      ColorTarget = "background"
	ColorNut             ColorTarget = "nut"
	ColorString          ColorTarget = "string"
	ColorFret            ColorTarget = "fret"
	ColorInlay           ColorTarget = "inlay"
	ColorFretMarker      ColorTarget = "fret-marker"
	ColorSmallFretMarker ColorTarget = "small-fret-marker"
	ColorNoteDefault     ColorTarget = "note-default"
	ColorTitle           ColorTarget = "title"
	ColorAppBackground   ColorTarget = "app-background"
)

// ColorTargets lists every known color target.
var ColorTargets = []ColorTarget{
	ColorBackground, ColorNut, ColorString, ColorFret, ColorInlay,
	ColorFretMarker, ColorSmallFretMarker, ColorNoteDefault, ColorTitle,
	ColorAppBackground,
}

// Colors maps targets to hex (#rrggbb) or symbolic colors.
type Colors map[ColorTarget]string

// DefaultColors returns the built-in color scheme.
func DefaultColors() Colors {
	return Colors{
		ColorBackground:      "none",
		ColorNut:             "#3a3b3b",
		ColorString:          "#5e6061",
		ColorFret:            "#929494",
		ColorInlay:           "#8fabc9",
		ColorFretMarker:      "#3a3b3b",
		ColorSmallFretMarker: "#929494",
		ColorNoteDefault:     "#ffffff",
		ColorTitle:           "#3a3b3b",
		ColorAppBackground:   "#eae4d7",
	}
}

// Get returns the color for a target, falling back to the default scheme.
func (c Colors) Get(target ColorTarget) string {
	if v, ok := c[target]; ok && v != "" {
		return v
	}
	return DefaultColors()[target]
}

// Config is the full description of a rendered instrument.
type Config struct {
	Title               string        `json:"title"`
	StringIntervals     []int         `json:"stringIntervals"`
	StringDisplayWidths []float64     `json:"stringDisplayWidths"`
	Markers             []int         `json:"markers"`
	MarkerOffset        int           `json:"markerOffset"`
	ShowOpenStrings     bool          `json:"showOpenStrings"`
	OctaveNotes         bool          `json:"octaveNotes"`
	OffsetX             float64       `json:"offsetX"`
	OffsetY             float64       `json:"offsetY"`
	FretWidth           float64       `json:"fretWidth"`
	StringSpacing       float64       `json:"stringSpacing"`
	MarkerStyles        []MarkerStyle `json:"markerStyles"`
	Color               Colors        `json:"color"`
}

// DerivedConfig holds values computed from a Config.
type DerivedConfig struct {
	NumStrings int
	FretHeight float64
}

// Default returns the prototype configuration. Required fields are empty,
// so the result does not pass Check until filled by Copy.
func Default() *Config {
	return &Config{
		ShowOpenStrings: true,
		OffsetX:         40,
		OffsetY:         30,
		FretWidth:       70,
		StringSpacing:   40,
		MarkerStyles:    []MarkerStyle{FretNumbers, LinearInlays},
		Color:           DefaultColors(),
	}
}

// Derived computes string count and fretboard height.
func (c *Config) Derived() DerivedConfig {
	n := len(c.StringIntervals)
	h := 0.0
	if n > 1 {
		h = float64(n-1) * c.StringSpacing
	}
	return DerivedConfig{NumStrings: n, FretHeight: h}
}

// HasMarkerStyle reports whether style is enabled.
func (c *Config) HasMarkerStyle(style MarkerStyle) bool {
	return slices.Contains(c.MarkerStyles, style)
}

// IsMarker reports whether fret carries a position marker.
func (c *Config) IsMarker(fret int) bool {
	return slices.Contains(c.Markers, fret)
}

// StringWidth returns the display width of string s.
func (c *Config) StringWidth(s int) float64 {
	if s >= 0 && s < len(c.StringDisplayWidths) && c.StringDisplayWidths[s] > 0 {
		return c.StringDisplayWidths[s]
	}
	return 2 * MinStringSize
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.StringIntervals = slices.Clone(c.StringIntervals)
	out.StringDisplayWidths = slices.Clone(c.StringDisplayWidths)
	out.Markers = slices.Clone(c.Markers)
	out.MarkerStyles = slices.Clone(c.MarkerStyles)
	out.Color = maps.Clone(c.Color)
	return &out
}

var errNoStrings = errors.New("at least one string is required")

// Check verifies the structural integrity of a filled configuration.
func (c *Config) Check() error {
	if len(c.StringIntervals) == 0 {
		return &SchemaError{Kind: InvalidValue, Key: "stringIntervals", Err: errNoStrings}
	}
	if len(c.StringDisplayWidths) != len(c.StringIntervals) {
		return &SchemaError{Kind: InvalidValue, Key: "stringDisplayWidths",
			Err: fmt.Errorf("%d widths for %d strings", len(c.StringDisplayWidths), len(c.StringIntervals))}
	}
	for i, w := range c.StringDisplayWidths {
		if w <= 0 {
			return &SchemaError{Kind: InvalidValue, Key: "stringDisplayWidths",
				Err: fmt.Errorf("width of string %d must be positive, got %v", i, w)}
		}
	}
	layout := []struct {
		key string
		v   float64
	}{{"offsetX", c.OffsetX}, {"offsetY", c.OffsetY}, {"fretWidth", c.FretWidth}, {"stringSpacing", c.StringSpacing}}
	for _, l := range layout {
		if l.v <= 0 {
			return &SchemaError{Kind: InvalidValue, Key: l.key, Err: fmt.Errorf("must be positive, got %v", l.v)}
		}
	}
	for _, m := range c.Markers {
		if m < 0 {
			return &SchemaError{Kind: InvalidValue, Key: "markers", Err: fmt.Errorf("negative fret %d", m)}
		}
	}
	for _, s := range c.MarkerStyles {
		if s != FretNumbers && s != LinearInlays {
			return &SchemaError{Kind: InvalidValue, Key: "markerStyles", Err: fmt.Errorf("unknown style %q", s)}
		}
	}
	return nil
}
