package chord

import (
	"testing"

	"github.com/moiramusic/moira/key"
	"github.com/moiramusic/moira/scale"
	"github.com/stretchr/testify/assert"
)

func cMajor(t *testing.T) *scale.Scale {
	s, err := scale.Parse("Cmaj")
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestTriadNotes(t *testing.T) {
	assert := assert.New(t)

	c := Triad(cMajor(t), 0, 4)
	assert.Equal([]key.Note{60, 64, 67}, c.Notes())
	assert.Equal(Major, c.Quality())
	assert.Equal("Cmaj", c.Name())
}

func TestTriadQualities(t *testing.T) {
	assert := assert.New(t)

	s := cMajor(t)
	expected := []Quality{Major, Minor, Minor, Major, Major, Minor, Diminished}
	for degree := int8(0); degree < 7; degree++ {
		assert.Equal(expected[degree], Triad(s, degree, 4).Quality())
	}
}

func TestTriadNamesInHarmonicMinor(t *testing.T) {
	assert := assert.New(t)

	aMinor, err := scale.Parse("Amin")
	assert.NoError(err)

	// harmonic minor raises the seventh, so the fifth degree is major
	// and the third is augmented
	assert.Equal("Amin", Triad(aMinor, 0, 4).Name())
	assert.Equal("Caug", Triad(aMinor, 2, 4).Name())
	assert.Equal("Emaj", Triad(aMinor, 4, 4).Name())
	assert.Equal("G♯dim", Triad(aMinor, 6, 4).Name())
}

func TestSeventh(t *testing.T) {
	assert := assert.New(t)

	c := Seventh(cMajor(t), 0, 4)
	assert.Equal([]key.Note{60, 64, 67, 71}, c.Notes())
	assert.Equal(Major, c.Quality())
}

func TestTriadSpansOctave(t *testing.T) {
	assert := assert.New(t)

	// the triad on the sixth degree reaches over the tonic
	c := Triad(cMajor(t), 5, 4)
	assert.Equal([]key.Note{69, 72, 76}, c.Notes())

	names := c.NamedNotes()
	assert.Equal("A4", names[0].String())
	assert.Equal("C5", names[1].String())
	assert.Equal("E5", names[2].String())
}

func TestArpeggio(t *testing.T) {
	assert := assert.New(t)

	s := cMajor(t)
	notes := Triad(s, 0, 4).Arpeggio(12)
	assert.Len(notes, 3)
	for i, tn := range notes {
		assert.Equal(uint8(12), tn.Duration)
		assert.NotNil(tn.Note)
		assert.Equal(int8(2*i), tn.Note.Position)
	}
}
