// Package scale models scales as interval offsets over a tonic, with one
// spelled NamedKey per degree so that E♭ minor yields C♭ rather than B.
package scale

import (
	"fmt"
	"regexp"

	"github.com/moiramusic/moira/key"
	"go.uber.org/zap"
)

// Scale is a tonic plus a strictly increasing set of semitone offsets.
// The spelled key for each degree is computed once at construction.
type Scale struct {
	start    key.NamedKey
	offsets  []int8
	elements []key.NamedKey
}

// Tries to assign a NamedKey to every offset such that, as far as possible,
// consecutive degrees use consecutive letters. When that is not possible the
// degree falls back to the key's default spelling.
func namedKeysForScale(start key.NamedKey, offsets []int8) []key.NamedKey {
	letters := start.Base.KeysInOrder()
	next := 0

	elements := make([]key.NamedKey, 0, len(offsets))
	for _, offset := range offsets {
		k := start.ToKey().Add(offset)

		var nk key.NamedKey
		ok := false
		if next < len(letters) {
			nk, ok = k.NamedStartingWith(letters[next])
		}
		if ok {
			next++
		} else {
			nk = k.DefaultNamed()
			zap.L().Warn("no consecutive spelling for scale degree, using default",
				zap.Stringer("start", start),
				zap.Int8("offset", offset),
				zap.Stringer("fallback", nk))
		}
		elements = append(elements, nk)
	}
	return elements
}

// New creates a scale starting from the given key with the given offsets.
// Offsets must be in the 0..11 range and strictly increasing.
func New(start key.NamedKey, offsets []int8) (*Scale, error) {
	for i, offset := range offsets {
		if offset < 0 || offset > 11 {
			return nil, fmt.Errorf("all offsets must be between 0 and 11, got %v", offset)
		}
		if i > 0 && offsets[i-1] >= offset {
			return nil, fmt.Errorf("offsets must be in strictly increasing order")
		}
	}

	return &Scale{
		start:    start,
		offsets:  offsets,
		elements: namedKeysForScale(start, offsets),
	}, nil
}

// locate maps a position onto a degree index plus an octave carry, Euclidean
// so that position -1 in a 7-degree scale is degree 6 one octave down.
func (s *Scale) locate(position int8) (int, int8) {
	n := int8(len(s.offsets))
	rem := ((position % n) + n) % n
	return int(rem), (position - rem) / n
}

// NamedKeyAt returns the spelled key of the degree at the given position.
func (s *Scale) NamedKeyAt(position int8) key.NamedKey {
	index, _ := s.locate(position)
	return s.elements[index]
}

// NamedNoteAt returns the spelled note of the degree at the given position,
// relative to the given octave of the tonic.
func (s *Scale) NamedNoteAt(position, octave int8) key.NamedNote {
	index, carry := s.locate(position)
	note := key.ComposeNote(s.start.ToKey(), octave+carry).Add(s.offsets[index])
	nn, ok := note.NamedStartingWith(s.elements[index].Base)
	if !ok {
		// elements were derived from the same offsets, so this cannot miss
		panic(fmt.Sprintf("no spelling for %v starting with %v", note, s.elements[index].Base))
	}
	return nn
}

// Start returns the tonic.
func (s *Scale) Start() key.NamedKey {
	return s.start
}

// Offsets returns a copy of the semitone offsets of the scale.
func (s *Scale) Offsets() []int8 {
	res := make([]int8, len(s.offsets))
	copy(res, s.offsets)
	return res
}

// NoteInRange reports whether the degree at the given position and octave
// resolves to a playable MIDI note (0..127).
func (s *Scale) NoteInRange(position, octave int8) bool {
	index, carry := s.locate(position)
	v := (int(octave)+int(carry)+1)*12 + int(s.start.ToKey()) + int(s.offsets[index])
	return v >= 0 && v <= 127
}

var scaleOffsets = map[string][]int8{
	"maj":    {0, 2, 4, 5, 7, 9, 11},
	"min":    {0, 2, 3, 5, 7, 8, 11}, // harmonic minor
	"minmel": {0, 2, 3, 5, 7, 9, 11},
}

var scaleNameRe = regexp.MustCompile(`^([A-G][b♭#♯x𝄪]?)(maj|minmel|min)$`)

// Parse builds a scale from names like "Cmaj", "Ebmin" or "Aminmel".
func Parse(name string) (*Scale, error) {
	captures := scaleNameRe.FindStringSubmatch(name)
	if captures == nil {
		return nil, fmt.Errorf("invalid scale: %v", name)
	}
	start, err := key.ParseNamedKey(captures[1])
	if err != nil {
		return nil, err
	}
	return New(start, scaleOffsets[captures[2]])
}

// ScaleNote is a note given by its position in some scale. Positions wrap:
// one past the last degree is the tonic an octave up.
type ScaleNote struct {
	Position int8
	Octave   int8
}

// NamedNote resolves the position against the given scale.
func (sn ScaleNote) NamedNote(s *Scale) key.NamedNote {
	return s.NamedNoteAt(sn.Position, sn.Octave)
}

// Note resolves the position against the given scale to a MIDI note.
func (sn ScaleNote) Note(s *Scale) key.Note {
	return sn.NamedNote(s).ToNote()
}
