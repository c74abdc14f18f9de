// Package key holds the pitch naming primitives:
// Key: one of the 12 semitones in Western tuning
// Note: a note with the same values as MIDI (0 is C-1, 60 is C4, etc.)
// NamedKey: a key that is called a certain way (e.g. D♯ or E♭)
// NamedNote: a note that is called a certain way (e.g. D♯4 or E♭4)
//
// None of these are scale-aware. For scale-relative positions, see the
// scale package.
package key

import (
	"fmt"
	"math"
	"regexp"
)

// Key is any of the 12 distinct keys in Western tuning.
type Key int8

// NewKey wraps any semitone value into the 0..11 range.
func NewKey(v int8) Key {
	return Key(((v % 12) + 12) % 12)
}

// Add offsets the key by the given number of semitones, wrapping around.
func (k Key) Add(offset int8) Key {
	return NewKey(int8(k) + offset)
}

type spelling struct {
	key  Key
	base BaseKey
}

// Every way a pitch class can be spelled starting from a given letter.
var spellings = map[spelling]NamedKey{
	{0, B}:  {B, Sharp},
	{0, C}:  {C, Natural},
	{1, C}:  {C, Sharp},
	{1, D}:  {D, Flat},
	{2, C}:  {C, DoubleSharp},
	{2, D}:  {D, Natural},
	{3, D}:  {D, Sharp},
	{3, E}:  {E, Flat},
	{4, E}:  {E, Natural},
	{4, F}:  {F, Flat},
	{5, E}:  {E, Sharp},
	{5, F}:  {F, Natural},
	{6, F}:  {F, Sharp},
	{6, G}:  {G, Flat},
	{7, F}:  {F, DoubleSharp},
	{7, G}:  {G, Natural},
	{8, G}:  {G, Sharp},
	{8, A}:  {A, Flat},
	{9, G}:  {G, DoubleSharp},
	{9, A}:  {A, Natural},
	{10, A}: {A, Sharp},
	{10, B}: {B, Flat},
	{11, B}: {B, Natural},
	{11, C}: {C, Flat},
}

// NamedStartingWith spells the key using the given letter, e.g. key 3 spelled
// from D is D♯ and from E is E♭. Reports false when no such spelling exists.
func (k Key) NamedStartingWith(base BaseKey) (NamedKey, bool) {
	nk, ok := spellings[spelling{k, base}]
	return nk, ok
}

// DefaultNamed is the sharps-preferred spelling of the key.
func (k Key) DefaultNamed() NamedKey {
	switch k {
	case 0:
		return NamedKey{C, Natural}
	case 1:
		return NamedKey{C, Sharp}
	case 2:
		return NamedKey{D, Natural}
	case 3:
		return NamedKey{D, Sharp}
	case 4:
		return NamedKey{E, Natural}
	case 5:
		return NamedKey{F, Natural}
	case 6:
		return NamedKey{F, Sharp}
	case 7:
		return NamedKey{G, Natural}
	case 8:
		return NamedKey{G, Sharp}
	case 9:
		return NamedKey{A, Natural}
	case 10:
		return NamedKey{A, Sharp}
	case 11:
		return NamedKey{B, Natural}
	}
	panic(fmt.Sprintf("key out of range: %d", int8(k)))
}

func (k Key) String() string {
	return k.DefaultNamed().String()
}

// Note is a note with the same height values as MIDI (0 is C-1, 60 is C4).
type Note uint8

// Decompose splits a note into its key and octave.
func (n Note) Decompose() (Key, int8) {
	k := n % 12
	return Key(k), int8(n/12) - 1
}

// ComposeNote builds a note from a key and octave. C-1 is 0, C0 is 12.
// Panics when the result does not fit in a note value.
func ComposeNote(k Key, octave int8) Note {
	v := (int(octave)+1)*12 + int(k)
	if v < 0 || v > math.MaxUint8 {
		panic(fmt.Sprintf("note out of range: key %v octave %v", k, octave))
	}
	return Note(v)
}

// Add offsets the note by the given number of semitones. Panics when the
// result does not fit in a note value.
func (n Note) Add(offset int8) Note {
	v := int(n) + int(offset)
	if v < 0 || v > math.MaxUint8 {
		panic(fmt.Sprintf("note out of range: %v offset by %v", n, offset))
	}
	return Note(v)
}

// NamedStartingWith spells the note using the given letter. The octave is
// adjusted for the wrap cases: B♯4 sits in the C5 pitch slot, C♭5 in B4's.
func (n Note) NamedStartingWith(base BaseKey) (NamedNote, bool) {
	k, octave := n.Decompose()
	nk, ok := k.NamedStartingWith(base)
	if !ok {
		return NamedNote{}, false
	}
	switch {
	case nk.Base == B && nk.Modifier == Sharp:
		octave--
	case nk.Base == C && nk.Modifier == Flat:
		octave++
	}
	return NamedNote{Key: nk, Octave: octave}, true
}

func (n Note) String() string {
	k, octave := n.Decompose()
	return fmt.Sprintf("%v%v", k, octave)
}

// Modifier is an accidental. Its numeric value is the semitone offset it
// applies to a base letter.
type Modifier int8

const (
	Flat        Modifier = iota - 1 // -1
	Natural                         // 0
	Sharp                           // 1
	DoubleSharp                     // 2
)

func (m Modifier) Value() int8 {
	return int8(m)
}

func (m Modifier) String() string {
	switch m {
	case Flat:
		return "♭"
	case Natural:
		return ""
	case Sharp:
		return "♯"
	case DoubleSharp:
		return "𝄪"
	}
	return "?"
}

// BaseKey is one of the seven letter names.
type BaseKey int

const (
	C BaseKey = iota
	D
	E
	F
	G
	A
	B
)

func (b BaseKey) ToKey() Key {
	switch b {
	case C:
		return NewKey(0)
	case D:
		return NewKey(2)
	case E:
		return NewKey(4)
	case F:
		return NewKey(5)
	case G:
		return NewKey(7)
	case A:
		return NewKey(9)
	case B:
		return NewKey(11)
	}
	panic(fmt.Sprintf("base key out of range: %d", int(b)))
}

// KeysInOrder returns the seven letters cyclically, starting at the receiver.
func (b BaseKey) KeysInOrder() []BaseKey {
	res := make([]BaseKey, 7)
	for i := range res {
		res[i] = BaseKey((int(b) + i) % 7)
	}
	return res
}

func (b BaseKey) String() string {
	return [...]string{"C", "D", "E", "F", "G", "A", "B"}[b]
}

// NamedKey is a key that is called a certain way, e.g. D♯ or E♭.
type NamedKey struct {
	Base     BaseKey
	Modifier Modifier
}

func (nk NamedKey) ToKey() Key {
	return nk.Base.ToKey().Add(nk.Modifier.Value())
}

func (nk NamedKey) String() string {
	return fmt.Sprintf("%v%v", nk.Base, nk.Modifier)
}

var (
	namedKeyRe  = regexp.MustCompile(`^([A-G])([b♭#♯x𝄪])?$`)
	namedNoteRe = regexp.MustCompile(`^([A-G][b♭#♯x𝄪]?)(-1|[0-9])$`)
)

func parseBaseKey(s string) (BaseKey, error) {
	switch s {
	case "C":
		return C, nil
	case "D":
		return D, nil
	case "E":
		return E, nil
	case "F":
		return F, nil
	case "G":
		return G, nil
	case "A":
		return A, nil
	case "B":
		return B, nil
	}
	return 0, fmt.Errorf("invalid base key: %v", s)
}

// ParseNamedKey parses spellings like "C", "Eb", "F♯" or "Gx".
func ParseNamedKey(s string) (NamedKey, error) {
	captures := namedKeyRe.FindStringSubmatch(s)
	if captures == nil {
		return NamedKey{}, fmt.Errorf("invalid key: %v", s)
	}

	base, err := parseBaseKey(captures[1])
	if err != nil {
		return NamedKey{}, err
	}

	modifier := Natural
	switch captures[2] {
	case "":
	case "b", "♭":
		modifier = Flat
	case "#", "♯":
		modifier = Sharp
	case "x", "𝄪":
		modifier = DoubleSharp
	}

	return NamedKey{Base: base, Modifier: modifier}, nil
}

// NamedNote is a note that is called a certain way, e.g. D♯4.
type NamedNote struct {
	Key    NamedKey
	Octave int8
}

// ToNote composes from the base letter first and applies the accidental
// after, so C♭5 resolves to B4 and B♯4 to C5.
func (nn NamedNote) ToNote() Note {
	return ComposeNote(nn.Key.Base.ToKey(), nn.Octave).Add(nn.Key.Modifier.Value())
}

// ParseNamedNote parses spellings like "C4", "Eb3" or "F♯-1".
func ParseNamedNote(s string) (NamedNote, error) {
	captures := namedNoteRe.FindStringSubmatch(s)
	if captures == nil {
		return NamedNote{}, fmt.Errorf("invalid note: %v", s)
	}

	nk, err := ParseNamedKey(captures[1])
	if err != nil {
		return NamedNote{}, err
	}

	var octave int8
	if captures[2] == "-1" {
		octave = -1
	} else {
		octave = int8(captures[2][0] - '0')
	}

	return NamedNote{Key: nk, Octave: octave}, nil
}

func (nn NamedNote) String() string {
	return fmt.Sprintf("%v%v", nn.Key, nn.Octave)
}
