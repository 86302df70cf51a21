package instrument

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/fretdiagram/fretboard/internal/pitch"
)

// Limits of the string configurator.
const (
	MaxStrings  = 20
	MinOctave   = 0
	MaxOctave   = 9
	MinWidth    = 0.2
	MaxWidth    = 5.0
	CustomTitle = "definedbyuser"
)

var (
	// ErrInvalidMarkers is returned for marker lists that are not
	// comma/space separated fret numbers.
	ErrInvalidMarkers = errors.New("use fret numbers, e.g. 3, 5, 7")
	// ErrInvalidString is returned for out-of-range configurator rows.
	ErrInvalidString = errors.New("invalid string definition")
)

var (
	markersPattern = regexp.MustCompile(`^(?:\d+,\s*)*\d*$`)
	markersSplit   = regexp.MustCompile(`[ ,]+`)
)

// ParseMarkers reads a marker list such as "3, 5, 7". An empty list is
// valid.
func ParseMarkers(text string) ([]int, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return []int{}, nil
	}
	if !markersPattern.MatchString(text) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMarkers, text)
	}
	var out []int
	for _, part := range markersSplit.Split(text, -1) {
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidMarkers, part)
		}
		out = append(out, n)
	}
	return out, nil
}

// FormatMarkers is the inverse of ParseMarkers.
func FormatMarkers(markers []int) string {
	parts := make([]string, len(markers))
	for i, m := range markers {
		parts[i] = strconv.Itoa(m)
	}
	return strings.Join(parts, ",")
}

// StringSpec is one configurator row: the open-string note, its octave and
// the display width.
type StringSpec struct {
	Note   string  `json:"note" yaml:"note"`
	Octave int     `json:"octave" yaml:"octave"`
	Width  float64 `json:"width" yaml:"width"`
}

// Layout holds the non-string configurator settings.
type Layout struct {
	Title           string
	Markers         string
	ShowOpenStrings bool
	// XFret numbers frets from the zero fret, shifting labels down by one.
	XFret bool
}

// Build assembles a configuration from configurator rows.
func Build(layout Layout, rows []StringSpec) (*Config, error) {
	if len(rows) == 0 || len(rows) > MaxStrings {
		return nil, fmt.Errorf("%w: need 1 to %d strings, got %d", ErrInvalidString, MaxStrings, len(rows))
	}
	intervals := make([]any, len(rows))
	widths := make([]any, len(rows))
	for i, row := range rows {
		if row.Octave < MinOctave || row.Octave > MaxOctave {
			return nil, fmt.Errorf("%w: string %d: octave %d out of range", ErrInvalidString, i+1, row.Octave)
		}
		if row.Width < MinWidth || row.Width > MaxWidth {
			return nil, fmt.Errorf("%w: string %d: width %v out of range", ErrInvalidString, i+1, row.Width)
		}
		p, err := pitch.Parse(row.Note + strconv.Itoa(row.Octave))
		if err != nil {
			return nil, fmt.Errorf("%w: string %d: %w", ErrInvalidString, i+1, err)
		}
		intervals[i] = p
		widths[i] = row.Width
	}
	markers, err := ParseMarkers(layout.Markers)
	if err != nil {
		return nil, err
	}
	title := layout.Title
	if strings.TrimSpace(title) == "" {
		title = CustomTitle
	}
	offset := 0
	if layout.XFret {
		offset = -1
	}

	cfg := Default()
	err = Copy(cfg, Fields{
		"title":               title,
		"showOpenStrings":     layout.ShowOpenStrings,
		"markerOffset":        offset,
		"stringIntervals":     intervals,
		"stringDisplayWidths": widths,
		"markers":             toAny(markers),
	})
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Describe reads a configuration back into configurator form. Notes use
// sharp spelling with an ASCII '#'.
func Describe(cfg *Config) (Layout, []StringSpec) {
	layout := Layout{
		Title:           cfg.Title,
		Markers:         FormatMarkers(cfg.Markers),
		ShowOpenStrings: cfg.ShowOpenStrings,
		XFret:           cfg.MarkerOffset != 0,
	}
	rows := make([]StringSpec, len(cfg.StringIntervals))
	for i, p := range cfg.StringIntervals {
		rows[i] = StringSpec{
			Note:   strings.ReplaceAll(pitch.ClassName(p, pitch.Sharp), pitch.Sharp.Sign(), "#"),
			Octave: pitch.Octave(p),
			Width:  cfg.StringWidth(i),
		}
	}
	return layout, rows
}
