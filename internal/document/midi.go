package document

import (
	"fmt"
	"io"
	"slices"

	"github.com/fretdiagram/fretboard/internal/annotation"
	"github.com/fretdiagram/fretboard/internal/view"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// MIDI export settings.
const (
	midiTempo    = 100.0
	midiVelocity = 90
	midiChannel  = 0
)

// MarkedPitches returns the distinct pitches of the marked notes of doc,
// ascending. Notes on strings the instrument does not have are ignored.
func MarkedPitches(doc *Document) []int {
	state := view.Default()
	if doc.State != nil {
		state = *doc.State
	}
	board := state.Board(doc.Cfg)

	var out []int
	for _, pos := range doc.Data.Positions() {
		a, _ := doc.Data.Get(pos)
		if !marked(a.Visibility) || pos.String >= len(board.Intervals) {
			continue
		}
		out = append(out, board.Pitch(pos))
	}
	slices.Sort(out)
	return slices.Compact(out)
}

func marked(v annotation.Visibility) bool {
	return v.Live() || v == annotation.Highlight
}

// WriteMIDI writes the marked pitches of doc as a one-track arpeggio of
// quarter notes. Pitches outside 0..127 are skipped and returned.
func WriteMIDI(w io.Writer, doc *Document) (skipped []int, err error) {
	ticks := smf.MetricTicks(960)
	s := smf.New()
	s.TimeFormat = ticks

	var tr smf.Track
	tr.Add(0, smf.MetaTrackSequenceName(doc.Cfg.Title))
	tr.Add(0, smf.MetaTempo(midiTempo))

	for _, p := range MarkedPitches(doc) {
		if p < 0 || p > 127 {
			skipped = append(skipped, p)
			continue
		}
		key := uint8(p)
		tr.Add(0, midi.NoteOn(midiChannel, key, midiVelocity))
		tr.Add(ticks.Ticks4th(), midi.NoteOff(midiChannel, key))
	}
	tr.Close(0)

	if err := s.Add(tr); err != nil {
		return skipped, fmt.Errorf("error adding MIDI track: %w", err)
	}
	if _, err := s.WriteTo(w); err != nil {
		return skipped, fmt.Errorf("error writing MIDI file: %w", err)
	}
	return skipped, nil
}
