package annotation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fretdiagram/fretboard/internal/pitch"
)

// Board is the part of an instrument and view that decides which positions
// exist and what they sound.
type Board struct {
	Intervals []int
	ShowOpen  bool
	StartFret int
	EndFret   int
}

// Renders reports whether pos is drawn on the board.
func (b Board) Renders(pos Position) bool {
	if pos.String < 0 || pos.String >= len(b.Intervals) {
		return false
	}
	if pos.IsOpen() {
		return b.ShowOpen
	}
	return pos.Fret >= b.StartFret && pos.Fret < b.EndFret
}

// Pitch returns the pitch at pos. pos.String must be in range.
func (b Board) Pitch(pos Position) int {
	return pitch.At(pos.Fret, pos.String, b.Intervals)
}

// Stray is a live annotation that found no home on the new board.
type Stray struct {
	From       Position
	Pitch      int
	Annotation Annotation
	// Unpitched is set when From lay outside the old board, so Pitch is
	// meaningless.
	Unpitched bool
}

// Report summarizes a remap.
type Report struct {
	Kept  int
	Moved int
	Stray []Stray
}

// Warning returns a single message listing every stray note, or "" when
// everything was placed.
func (r Report) Warning() string {
	if len(r.Stray) == 0 {
		return ""
	}
	names := make([]string, len(r.Stray))
	for i, s := range r.Stray {
		if s.Unpitched {
			names[i] = s.From.Key()
			continue
		}
		names[i] = pitch.ClassName(s.Pitch, pitch.Sharp) + strconv.Itoa(pitch.Octave(s.Pitch)) + " (" + s.From.Key() + ")"
	}
	noun := "notes"
	if len(r.Stray) == 1 {
		noun = "note"
	}
	return fmt.Sprintf("%d annotated %s could not be placed on the new fretboard: %s",
		len(r.Stray), noun, strings.Join(names, ", "))
}

// Remap carries the live annotations of old from one board to another,
// preserving pitch. Annotations whose own slot still sounds the same pitch
// stay put, even outside the fret window. The rest try their own string,
// then string-1, then string+1, taking the first rendered slot with the
// same pitch that is not already taken. Non-live overrides are dropped and selected notes come out as
// visible. old is not modified.
func Remap(old *Store, from, to Board) (*Store, Report) {
	next := NewStore()
	var report Report
	var pending []Position

	for _, pos := range old.Positions() {
		a := old.entries[pos]
		if !a.Visibility.Live() {
			continue
		}
		if pos.String >= len(from.Intervals) {
			report.Stray = append(report.Stray, Stray{From: pos, Annotation: demote(a), Unpitched: true})
			continue
		}
		if pos.String < len(to.Intervals) && to.Pitch(pos) == from.Pitch(pos) {
			next.entries[pos] = demote(a)
			report.Kept++
			continue
		}
		pending = append(pending, pos)
	}

	for _, pos := range pending {
		a := demote(old.entries[pos])
		p := from.Pitch(pos)
		target, ok := place(next, to, pos.String, p)
		if !ok {
			report.Stray = append(report.Stray, Stray{From: pos, Pitch: p, Annotation: a})
			continue
		}
		next.entries[target] = a
		report.Moved++
	}
	return next, report
}

func demote(a Annotation) Annotation {
	if a.Visibility == Selected {
		a.Visibility = Visible
	}
	return a
}

func place(next *Store, to Board, s, p int) (Position, bool) {
	for _, cand := range []int{s, s - 1, s + 1} {
		if cand < 0 || cand >= len(to.Intervals) {
			continue
		}
		target := Position{Fret: p - to.Intervals[cand] - 1, String: cand}
		if target.Fret < OpenFret || !to.Renders(target) {
			continue
		}
		if _, taken := next.entries[target]; taken {
			continue
		}
		return target, true
	}
	return Position{}, false
}
