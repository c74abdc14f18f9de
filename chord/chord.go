// Package chord builds chords by stacking scale thirds on a degree.
package chord

import (
	"fmt"

	"github.com/moiramusic/moira/key"
	"github.com/moiramusic/moira/scale"
	"github.com/moiramusic/moira/track"
)

// Quality classifies a triad by its stacked semitone intervals.
type Quality int

const (
	Unknown Quality = iota
	Major
	Minor
	Diminished
	Augmented
)

func (q Quality) String() string {
	switch q {
	case Major:
		return "maj"
	case Minor:
		return "min"
	case Diminished:
		return "dim"
	case Augmented:
		return "aug"
	}
	return "?"
}

// Chord is a stack of scale thirds rooted at a degree of a scale.
type Chord struct {
	scale  *scale.Scale
	degree int8
	octave int8
	size   int
}

// Triad is the three-note chord on the given degree.
func Triad(s *scale.Scale, degree, octave int8) Chord {
	return Chord{scale: s, degree: degree, octave: octave, size: 3}
}

// Seventh is the four-note chord on the given degree.
func Seventh(s *scale.Scale, degree, octave int8) Chord {
	return Chord{scale: s, degree: degree, octave: octave, size: 4}
}

// ScaleNotes returns the chord tones as scale positions, low to high.
func (c Chord) ScaleNotes() []scale.ScaleNote {
	res := make([]scale.ScaleNote, c.size)
	for i := range res {
		res[i] = scale.ScaleNote{Position: c.degree + int8(2*i), Octave: c.octave}
	}
	return res
}

// Notes resolves the chord tones to MIDI notes.
func (c Chord) Notes() []key.Note {
	sns := c.ScaleNotes()
	res := make([]key.Note, len(sns))
	for i, sn := range sns {
		res[i] = sn.Note(c.scale)
	}
	return res
}

// NamedNotes resolves the chord tones to their spellings in the scale.
func (c Chord) NamedNotes() []key.NamedNote {
	sns := c.ScaleNotes()
	res := make([]key.NamedNote, len(sns))
	for i, sn := range sns {
		res[i] = sn.NamedNote(c.scale)
	}
	return res
}

// Quality inspects the bottom triad.
func (c Chord) Quality() Quality {
	notes := c.Notes()
	lower := int(notes[1]) - int(notes[0])
	upper := int(notes[2]) - int(notes[1])
	switch {
	case lower == 4 && upper == 3:
		return Major
	case lower == 3 && upper == 4:
		return Minor
	case lower == 3 && upper == 3:
		return Diminished
	case lower == 4 && upper == 4:
		return Augmented
	}
	return Unknown
}

// Name is the root spelling plus the triad quality, e.g. "E♭min".
func (c Chord) Name() string {
	root := c.scale.NamedKeyAt(c.degree)
	return fmt.Sprintf("%v%v", root, c.Quality())
}

// Arpeggio lays the chord tones out as timed notes of equal duration,
// low to high, ready to drop into a track.
func (c Chord) Arpeggio(duration uint8) []track.TimedNote {
	sns := c.ScaleNotes()
	res := make([]track.TimedNote, len(sns))
	for i := range sns {
		sn := sns[i]
		res[i] = track.TimedNote{Note: &sn, Duration: duration}
	}
	return res
}
