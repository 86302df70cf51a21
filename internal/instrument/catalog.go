package instrument

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// DefaultPreset is the preset loaded when nothing else is requested.
const DefaultPreset = "tapping_12_str_matched_reciprocal"

// ErrUnknownPreset is returned for names missing from a catalog.
var ErrUnknownPreset = errors.New("unknown preset")

// ref is the reference pitch the built-in tunings are written against.
const ref = 59

// Catalog is an ordered set of named presets.
type Catalog struct {
	names   []string
	presets map[string]Fields
}

var builtin = NewCatalog()

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{presets: make(map[string]Fields)}
}

// Builtin returns a fresh catalog holding the built-in presets.
func Builtin() *Catalog {
	c := NewCatalog()
	for _, name := range builtin.names {
		c.set(name, builtin.presets[name])
	}
	return c
}

// Add validates f and stores it under name, replacing an existing preset of
// the same name in place.
func (c *Catalog) Add(name string, f Fields) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("preset name must not be empty")
	}
	if err := Copy(Default(), f); err != nil {
		return fmt.Errorf("preset %q: %w", name, err)
	}
	c.set(name, f)
	return nil
}

func (c *Catalog) set(name string, f Fields) {
	if _, ok := c.presets[name]; !ok {
		c.names = append(c.names, name)
	}
	c.presets[name] = maps.Clone(f)
}

// Names lists presets in insertion order.
func (c *Catalog) Names() []string {
	return slices.Clone(c.names)
}

// Lookup returns the raw fields of a preset.
func (c *Catalog) Lookup(name string) (Fields, bool) {
	f, ok := c.presets[name]
	return f, ok
}

// Load builds a validated configuration from a preset.
func (c *Catalog) Load(name string) (*Config, error) {
	f, ok := c.presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	cfg := Default()
	if err := Copy(cfg, f); err != nil {
		return nil, fmt.Errorf("preset %q: %w", name, err)
	}
	return cfg, nil
}

// Title returns the display title of a preset.
func (c *Catalog) Title(name string) string {
	if f, ok := c.presets[name]; ok {
		if t, ok := f["title"].(string); ok && t != "" {
			return t
		}
	}
	return strings.ReplaceAll(name, "_", " ")
}

// Next returns the preset after name, wrapping around. step may be negative.
func (c *Catalog) Next(name string, step int) string {
	if len(c.names) == 0 {
		return ""
	}
	i := slices.Index(c.names, name)
	if i < 0 {
		return c.names[0]
	}
	n := len(c.names)
	return c.names[((i+step)%n+n)%n]
}

func register(name string, f Fields) {
	builtin.set(name, f)
}

func offsets(base int, steps ...int) []any {
	out := make([]any, len(steps))
	for i, s := range steps {
		out[i] = base + s
	}
	return out
}

func widths(w ...float64) []any {
	return toAny(w)
}

func frets(m ...int) []any {
	return toAny(m)
}

func tapping(title string, w []any, intervals []any) Fields {
	return Fields{
		"title":               title,
		"showOpenStrings":     false,
		"stringDisplayWidths": w,
		"stringIntervals":     intervals,
		"markerOffset":        -1,
		"markers":             frets(3, 8, 13, 18),
	}
}

func init() {
	register("guitar", Fields{
		"title":               "Guitar",
		"showOpenStrings":     true,
		"stringDisplayWidths": widths(0.4, 0.6, 0.8, 1.0, 1.2, 1.4),
		"stringIntervals":     offsets(ref, -7, -12, -16, -21, -26, -31),
		"markerOffset":        0,
		"markers":             frets(3, 5, 7, 9, 12, 15, 17, 19, 21),
	})

	melody5 := offsets(ref, 0, -5, -10, -15, -20)
	melody6 := offsets(ref, 0, -5, -10, -15, -20, -25)
	bass5 := offsets(ref, -36, -29, -22, -15, -8)
	bass6 := offsets(ref, -36, -29, -22, -15, -8, -1)

	register("tapping_10_str_matched_reciprocal", tapping("Tapper: 10str matched reciprocal",
		widths(0.4, 0.6, 0.8, 1.0, 1.2, 3.4, 3.0, 2.4, 2.0, 1.0),
		slices.Concat(melody5, bass5)))
	register("tapping_12_str_matched_reciprocal", tapping("Tapper: 12str matched reciprocal",
		widths(0.4, 0.6, 0.8, 1.0, 1.2, 1.4, 3.4, 3.0, 2.4, 2.0, 1.0, 0.6),
		slices.Concat(melody6, bass6)))
	register("tapping_12_str_matched_reciprocal_melody", tapping("Tapper: 12str matched reciprocal melody",
		widths(0.4, 0.6, 0.8, 1.0, 1.2, 1.4),
		melody6))
	register("tapping_12_str_matched_reciprocal_bass", tapping("Tapper: 12str matched reciprocal bass",
		widths(3.4, 3.0, 2.4, 2.0, 1.0, 0.6),
		bass6))
	register("tapping_10_str_classic", tapping("Tapper: 10str classic",
		widths(0.4, 0.6, 0.8, 1.0, 1.2, 3.4, 3.0, 2.4, 2.0, 1.0),
		slices.Concat(offsets(ref+2, 0, -5, -10, -15, -20), bass5)))
	register("tapping_12_str_classic", tapping("Tapper: 12str classic",
		widths(0.4, 0.6, 0.8, 1.0, 1.2, 1.4, 3.4, 3.0, 2.4, 2.0, 1.0, 0.6),
		slices.Concat(offsets(ref+2, 0, -5, -10, -15, -20, -25), bass6)))
	register("tapping_10_str_full_baritone", tapping("Tapper: 10str full baritone",
		widths(0.4, 0.6, 0.8, 1.0, 1.2, 3.4, 3.0, 2.4, 2.0, 1.0),
		slices.Concat(offsets(ref+2, -5, -10, -15, -20, -25), offsets(ref+2, -36, -29, -22, -15, -8))))

	stick := tapping("Tapper: Std. N/S Stick",
		widths(0.4, 0.6, 0.8, 1.0, 1.2, 1.5, 2.0, 2.5),
		offsets(ref, -2, -7, -12, -17, -22, -27, -32, -37))
	stick["showOpenStrings"] = true
	register("tapping_ns_stick_std", stick)
}
