// Package track turns scale-relative voices into Standard MIDI Files.
package track

import (
	"io"

	"github.com/moiramusic/moira/scale"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// TicksPerBeat is the MIDI resolution every piece is rendered at.
const TicksPerBeat = 24

// harpsichord in the General MIDI instrument table
const program = 6

// TimedNote is a ScaleNote or a rest (nil Note), with a duration in ticks.
type TimedNote struct {
	Note     *scale.ScaleNote
	Duration uint8
}

// Track is one voice of a piece.
type Track struct {
	ID     string
	Scale  *scale.Scale
	Octave int8
	Start  uint32 // offset of the first note, in ticks
	Notes  []TimedNote
}

// Events renders the voice as a MIDI event track. Rests accumulate delta
// time for the following NoteOn; the track start offset seeds the first one.
func (t *Track) Events(bpm uint8) smf.Track {
	var tr smf.Track

	tr.Add(0, smf.MetaTempo(float64(bpm)))
	tr.Add(0, midi.ProgramChange(0, program))

	delta := t.Start
	for _, tn := range t.Notes {
		duration := uint32(tn.Duration)
		if tn.Note == nil {
			delta += duration
			continue
		}
		k := uint8(tn.Note.Note(t.Scale))
		tr.Add(delta, midi.NoteOn(0, k, 127))
		tr.Add(duration, midi.NoteOffVelocity(0, k, 127))
		delta = 0
	}

	tr.Close(0)
	return tr
}

// Piece is an ordered set of voices sharing one tempo.
type Piece struct {
	BPM    uint8
	Tracks []*Track
}

// SMF renders the piece with metrical timing at TicksPerBeat.
func (p *Piece) SMF() *smf.SMF {
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(TicksPerBeat)
	for _, t := range p.Tracks {
		s.Add(t.Events(p.BPM))
	}
	return s
}

// WriteSMF writes the rendered piece to w.
func (p *Piece) WriteSMF(w io.Writer) error {
	_, err := p.SMF().WriteTo(w)
	return err
}
