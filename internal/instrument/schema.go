package instrument

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"reflect"
	"slices"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// Fields is a sparse, format-neutral configuration source: a decoded JSON or
// YAML object, or a catalog literal.
type Fields map[string]any

// SchemaErrorKind classifies a schema violation.
type SchemaErrorKind int

const (
	MissingKey SchemaErrorKind = iota + 1
	UnknownKey
	InvalidValue
)

func (k SchemaErrorKind) String() string {
	switch k {
	case MissingKey:
		return "missing key"
	case UnknownKey:
		return "unknown key"
	case InvalidValue:
		return "invalid value"
	default:
		return "schema error"
	}
}

// ErrSchema matches every *SchemaError via errors.Is.
var ErrSchema = errors.New("configuration schema violation")

// SchemaError reports the first key that made a configuration unacceptable.
type SchemaError struct {
	Kind SchemaErrorKind
	Key  string
	Err  error
}

func (e *SchemaError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %q: %v", e.Kind, e.Key, e.Err)
	}
	return fmt.Sprintf("%s %q", e.Kind, e.Key)
}

func (e *SchemaError) Unwrap() error { return e.Err }

func (e *SchemaError) Is(target error) bool { return target == ErrSchema }

type schemaField struct {
	key      string
	required bool
}

// schema is the authoritative key list. Order matters for error reporting.
var schema = []schemaField{
	{"title", true},
	{"stringIntervals", true},
	{"stringDisplayWidths", true},
	{"markers", true},
	{"markerOffset", false},
	{"showOpenStrings", false},
	{"octaveNotes", false},
	{"offsetX", false},
	{"offsetY", false},
	{"fretWidth", false},
	{"stringSpacing", false},
	{"markerStyles", false},
	{"color", false},
}

const colorKey = "color"

func knownKey(key string) bool {
	return slices.ContainsFunc(schema, func(f schemaField) bool { return f.key == key })
}

// Copy fills dst from src after checking src against the schema. Every
// required key must be present and no unknown key may appear, including
// inside the color map. On any error dst is left untouched.
func Copy(dst *Config, src Fields) error {
	for _, f := range schema {
		if _, ok := src[f.key]; f.required && !ok {
			return &SchemaError{Kind: MissingKey, Key: f.key}
		}
	}
	for _, key := range slices.Sorted(maps.Keys(src)) {
		if !knownKey(key) {
			return &SchemaError{Kind: UnknownKey, Key: key}
		}
	}
	colors, err := colorFields(src[colorKey])
	if err != nil {
		return err
	}

	next := dst.Clone()
	values := maps.Clone(src)
	delete(values, colorKey)

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:     next,
		TagName:    "json",
		ZeroFields: true,
		DecodeHook: wholeNumbers,
	})
	if err != nil {
		return fmt.Errorf("error creating config decoder: %w", err)
	}
	if err := dec.Decode(map[string]any(values)); err != nil {
		return &SchemaError{Kind: InvalidValue, Key: decodeErrorKey(err), Err: err}
	}

	merged := make(Colors, len(next.Color)+len(colors))
	maps.Copy(merged, next.Color)
	maps.Copy(merged, colors)
	next.Color = merged

	if err := next.Check(); err != nil {
		return err
	}
	*dst = *next
	return nil
}

func colorFields(v any) (Colors, error) {
	if v == nil {
		return nil, nil
	}
	raw, ok := v.(map[string]any)
	if !ok {
		if typed, isColors := v.(Colors); isColors {
			raw = make(map[string]any, len(typed))
			for k, c := range typed {
				raw[string(k)] = c
			}
		} else {
			return nil, &SchemaError{Kind: InvalidValue, Key: colorKey, Err: fmt.Errorf("expected an object, got %T", v)}
		}
	}
	out := make(Colors, len(raw))
	for _, key := range slices.Sorted(maps.Keys(raw)) {
		target := ColorTarget(key)
		if !slices.Contains(ColorTargets, target) {
			return nil, &SchemaError{Kind: UnknownKey, Key: colorKey + "." + key}
		}
		s, ok := raw[key].(string)
		if !ok {
			return nil, &SchemaError{Kind: InvalidValue, Key: colorKey + "." + key, Err: fmt.Errorf("expected a string, got %T", raw[key])}
		}
		out[target] = s
	}
	return out, nil
}

// decodeErrorKey pulls the offending field name out of a mapstructure error,
// e.g. "'stringIntervals[0]' expected type 'int'".
// wholeNumbers rejects fractional numbers bound for integer fields, which
// mapstructure would otherwise truncate.
func wholeNumbers(_ reflect.Type, to reflect.Type, data any) (any, error) {
	switch to.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
	default:
		return data, nil
	}
	var f float64
	switch v := data.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	default:
		return data, nil
	}
	if math.IsInf(f, 0) || f != math.Trunc(f) {
		return nil, fmt.Errorf("%v is not a whole number", f)
	}
	return data, nil
}

func decodeErrorKey(err error) string {
	msg := err.Error()
	start := strings.IndexByte(msg, '\'')
	if start < 0 {
		return ""
	}
	end := strings.IndexAny(msg[start+1:], "'[.")
	if end < 0 {
		return ""
	}
	return msg[start+1 : start+1+end]
}

// Fields converts a configuration back to its sparse form.
func (c *Config) Fields() Fields {
	styles := make([]any, len(c.MarkerStyles))
	for i, s := range c.MarkerStyles {
		styles[i] = string(s)
	}
	colors := make(map[string]any, len(c.Color))
	for k, v := range c.Color {
		colors[string(k)] = v
	}
	return Fields{
		"title":               c.Title,
		"stringIntervals":     toAny(c.StringIntervals),
		"stringDisplayWidths": toAny(c.StringDisplayWidths),
		"markers":             toAny(c.Markers),
		"markerOffset":        c.MarkerOffset,
		"showOpenStrings":     c.ShowOpenStrings,
		"octaveNotes":         c.OctaveNotes,
		"offsetX":             c.OffsetX,
		"offsetY":             c.OffsetY,
		"fretWidth":           c.FretWidth,
		"stringSpacing":       c.StringSpacing,
		"markerStyles":        styles,
		colorKey:              colors,
	}
}

func toAny[T any](in []T) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}
