// Package annotation stores per-position overrides drawn on top of the
// computed fretboard, and carries them across instrument changes.
package annotation

import (
	"cmp"
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// OpenFret is the fret index of the open-string column.
const OpenFret = -1

// ErrInvalidKey is returned when a position key does not match
// "o-s{n}" or "f{n}-s{n}".
var ErrInvalidKey = errors.New("invalid position key")

// Position addresses one note slot on the fretboard.
type Position struct {
	Fret   int
	String int
}

// Open returns the open-string position of string s.
func Open(s int) Position {
	return Position{Fret: OpenFret, String: s}
}

// IsOpen reports whether p is in the open-string column.
func (p Position) IsOpen() bool {
	return p.Fret == OpenFret
}

// Key encodes p in the persisted form.
func (p Position) Key() string {
	if p.IsOpen() {
		return "o-s" + strconv.Itoa(p.String)
	}
	return "f" + strconv.Itoa(p.Fret) + "-s" + strconv.Itoa(p.String)
}

// Numbers carry no leading zeros, so every position has exactly one key.
var keyPattern = regexp.MustCompile(`^(?:o|f(0|[1-9][0-9]*))-s(0|[1-9][0-9]*)$`)

// ParseKey decodes a persisted position key.
func ParseKey(key string) (Position, error) {
	m := keyPattern.FindStringSubmatch(key)
	if m == nil {
		return Position{}, fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	s, err := strconv.Atoi(m[2])
	if err != nil {
		return Position{}, fmt.Errorf("%w: %q: %w", ErrInvalidKey, key, err)
	}
	if m[1] == "" {
		return Open(s), nil
	}
	f, err := strconv.Atoi(m[1])
	if err != nil {
		return Position{}, fmt.Errorf("%w: %q: %w", ErrInvalidKey, key, err)
	}
	return Position{Fret: f, String: s}, nil
}

// MarshalText implements encoding.TextMarshaler so positions can be JSON
// object keys.
func (p Position) MarshalText() ([]byte, error) {
	if p.Fret < OpenFret || p.String < 0 {
		return nil, fmt.Errorf("%w: fret %d string %d", ErrInvalidKey, p.Fret, p.String)
	}
	return []byte(p.Key()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Position) UnmarshalText(text []byte) error {
	pos, err := ParseKey(string(text))
	if err != nil {
		return err
	}
	*p = pos
	return nil
}

// Compare orders positions by string, then fret.
func Compare(a, b Position) int {
	if c := cmp.Compare(a.String, b.String); c != 0 {
		return c
	}
	return cmp.Compare(a.Fret, b.Fret)
}
