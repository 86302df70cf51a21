// Package pitch maps fretboard positions to MIDI-style pitch numbers and
// names them. Every function here is pure; only Parse can fail.
package pitch

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// OpenFret is the fret index of the open-string column.
const OpenFret = -1

// Enharmonic selects sharp or flat spelling of the black keys.
type Enharmonic int

const (
	Sharp Enharmonic = iota
	Flat
)

const (
	sharpSign = "♯"
	flatSign  = "♭"
)

var classNames = [2][12]string{
	{"C", "C" + sharpSign, "D", "D" + sharpSign, "E", "F", "F" + sharpSign, "G", "G" + sharpSign, "A", "A" + sharpSign, "B"},
	{"C", "D" + flatSign, "D", "E" + flatSign, "E", "F", "G" + flatSign, "G", "A" + flatSign, "A", "B" + flatSign, "B"},
}

// intervalNames covers two octaves, 0..24 semitones above a root.
var intervalNames = [25]string{
	"P1", "m2", "M2", "m3", "M3", "P4", "TT", "P5", "m6", "M6", "m7", "M7",
	"O", "m9", "M9", "m10", "M10", "P11", "TT^", "P12", "m13", "M13", "m14", "M14",
	"O^",
}

// ErrInvalidNoteName is returned by Parse for malformed input.
var ErrInvalidNoteName = errors.New("invalid note name")

// Toggle returns the other spelling.
func (e Enharmonic) Toggle() Enharmonic {
	if e == Flat {
		return Sharp
	}
	return Flat
}

// Sign returns the accidental glyph used by this spelling.
func (e Enharmonic) Sign() string {
	if e == Flat {
		return flatSign
	}
	return sharpSign
}

func (e Enharmonic) table() *[12]string {
	if e == Flat {
		return &classNames[1]
	}
	return &classNames[0]
}

// At returns the pitch at fret on string. intervals holds the open-string
// pitches and fret 0 is the first fretted position, so
// At(OpenFret, s, iv) == iv[s].
func At(fret, str int, intervals []int) int {
	return intervals[str] + fret + 1
}

// ClassName names the pitch class of p. The remainder is taken as an
// absolute value, so negative pitches mirror rather than wrap.
func ClassName(p int, mode Enharmonic) string {
	idx := p % 12
	if idx < 0 {
		idx = -idx
	}
	return mode.table()[idx]
}

// Octave returns the octave number of p, with pitch 60 in octave 4.
func Octave(p int) int {
	o := p / 12
	if p%12 < 0 {
		o--
	}
	return o - 1
}

// NoteName names the pitch at a position, optionally with its octave.
func NoteName(fret, str int, intervals []int, mode Enharmonic, octaveNotes bool) string {
	p := At(fret, str, intervals)
	name := ClassName(p, mode)
	if octaveNotes {
		name += strconv.Itoa(Octave(p))
	}
	return name
}

// IntervalName names the interval from the root position to the queried
// position. The root itself is starred; distances outside two octaves (or
// below the root) fall back to the plain note name.
func IntervalName(fret, str, rootFret, rootStr int, intervals []int, mode Enharmonic, octaveNotes bool) string {
	name := NoteName(fret, str, intervals, mode, octaveNotes)
	if fret == rootFret && str == rootStr {
		return "*" + name
	}
	i := At(fret, str, intervals) - At(rootFret, rootStr, intervals)
	if i < 0 || i >= len(intervalNames) {
		return name
	}
	return intervalNames[i]
}

var letterOffsets = map[byte]int{'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11}

var noteNamePattern = regexp.MustCompile(`^([A-Ga-g])(#|♯|b|♭)?([+-]?[0-9]+)$`)

// Parse reads a note-and-octave string such as "C#4", "Eb2" or "A♭-1" and
// returns its pitch.
func Parse(text string) (int, error) {
	m := noteNamePattern.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNoteName, text)
	}
	p := letterOffsets[strings.ToUpper(m[1])[0]]
	switch m[2] {
	case "#", sharpSign:
		p++
	case "b", flatSign:
		p--
	}
	octave, err := strconv.Atoi(m[3])
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ErrInvalidNoteName, text, err)
	}
	return (octave+1)*12 + p, nil
}

// Format renders a pitch in the form accepted by Parse, using ASCII
// accidentals.
func Format(p int, mode Enharmonic) string {
	name := ClassName(p, mode)
	name = strings.NewReplacer(sharpSign, "#", flatSign, "b").Replace(name)
	return name + strconv.Itoa(Octave(p))
}
