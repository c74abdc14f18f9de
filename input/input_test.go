package input

import (
	"testing"

	"github.com/moiramusic/moira/track"
	"github.com/stretchr/testify/assert"
)

func TestCanLoadData(t *testing.T) {
	assert := assert.New(t)

	data := `
	{
		"bpm": 120,
		"tracks": [
			{
				"id": "voice_1", "scale": "Cmaj", "octave": 4, "start": 0,
				"notes": [
					"", 0, 1, 2,
					[{"3": 3}, [4, 3]], 2, 5,
					1, [{"4": 3}, 5, 4, 3],
					[2, 3, 2, 1, 0, 1, 0, -1]
				]
			},
			{
				"id": "voice_2", "scale": "Gmaj", "octave": 4, "start": 12,
				"notes": [
					"", 0, 1, 2
				]
			}
		]
	}`

	piece, err := ParsePiece([]byte(data))
	assert.NoError(err)
	assert.Equal(uint8(120), piece.BPM)
	assert.Len(piece.Tracks, 2)

	voice1 := piece.Tracks[0]
	assert.Equal("voice_1", voice1.ID)
	assert.Equal(uint32(0), voice1.Start)
	assert.Len(voice1.Notes, 22)

	// leading rest carries a full beat
	assert.Nil(voice1.Notes[0].Note)
	assert.Equal(uint8(track.TicksPerBeat), voice1.Notes[0].Duration)

	// {"3": 3} inside a nested array: half a beat tripled
	assert.Equal(int8(3), voice1.Notes[4].Note.Position)
	assert.Equal(uint8(36), voice1.Notes[4].Duration)

	// [4, 3] one level deeper subdivides the half beat again
	assert.Equal(int8(4), voice1.Notes[5].Note.Position)
	assert.Equal(uint8(6), voice1.Notes[5].Duration)
	assert.Equal(int8(3), voice1.Notes[6].Note.Position)
	assert.Equal(uint8(6), voice1.Notes[6].Duration)

	voice2 := piece.Tracks[1]
	assert.Equal(uint32(12), voice2.Start)
	assert.Len(voice2.Notes, 4)
}

func TestStartByReference(t *testing.T) {
	assert := assert.New(t)

	data := `
	{
		"bpm": 90,
		"tracks": [
			{"id": "a", "scale": "Cmaj", "octave": 4, "start": 48, "notes": [0]},
			{"id": "b", "scale": "Cmaj", "octave": 3, "start": {"a": -24}, "notes": [0]},
			{"id": "c", "scale": "Cmaj", "octave": 5, "start": {"b": 12}, "notes": [0]}
		]
	}`

	piece, err := ParsePiece([]byte(data))
	assert.NoError(err)
	assert.Equal(uint32(48), piece.Tracks[0].Start)
	assert.Equal(uint32(24), piece.Tracks[1].Start)
	assert.Equal(uint32(36), piece.Tracks[2].Start)
}

func TestStartReferenceErrors(t *testing.T) {
	assert := assert.New(t)

	// unknown reference track
	data := `{"bpm": 90, "tracks": [
		{"id": "a", "scale": "Cmaj", "octave": 4, "start": {"nope": 0}, "notes": [0]}
	]}`
	_, err := ParsePiece([]byte(data))
	assert.Error(err)

	// reference may only point backwards
	data = `{"bpm": 90, "tracks": [
		{"id": "a", "scale": "Cmaj", "octave": 4, "start": {"b": 0}, "notes": [0]},
		{"id": "b", "scale": "Cmaj", "octave": 4, "start": 0, "notes": [0]}
	]}`
	_, err = ParsePiece([]byte(data))
	assert.Error(err)

	// resolved start must not be negative
	data = `{"bpm": 90, "tracks": [
		{"id": "a", "scale": "Cmaj", "octave": 4, "start": 12, "notes": [0]},
		{"id": "b", "scale": "Cmaj", "octave": 4, "start": {"a": -24}, "notes": [0]}
	]}`
	_, err = ParsePiece([]byte(data))
	assert.Error(err)
}

func TestDurationSpecs(t *testing.T) {
	assert := assert.New(t)

	data := `{"bpm": 60, "tracks": [
		{"id": "a", "scale": "Cmaj", "octave": 4, "start": 0,
		 "notes": [{"2": 0}, {"1/3": 1}, {"/2": 2}, {"": 3}]}
	]}`

	piece, err := ParsePiece([]byte(data))
	assert.NoError(err)

	notes := piece.Tracks[0].Notes
	assert.Len(notes, 4)
	assert.Equal(uint8(48), notes[0].Duration)
	assert.Equal(uint8(8), notes[1].Duration)
	assert.Equal(uint8(12), notes[2].Duration)
	assert.Equal(uint8(24), notes[3].Duration)
}

func TestRejectsMalformedPieces(t *testing.T) {
	cases := map[string]string{
		"bpm missing":      `{"tracks": []}`,
		"tracks missing":   `{"bpm": 120}`,
		"not json":         `{`,
		"track not object": `{"bpm": 120, "tracks": [5]}`,
		"id missing":       `{"bpm": 120, "tracks": [{"scale": "Cmaj", "octave": 4, "start": 0, "notes": []}]}`,
		"bad scale":        `{"bpm": 120, "tracks": [{"id": "a", "scale": "Cfoo", "octave": 4, "start": 0, "notes": []}]}`,
		"octave missing":   `{"bpm": 120, "tracks": [{"id": "a", "scale": "Cmaj", "start": 0, "notes": []}]}`,
		"non-empty string": `{"bpm": 120, "tracks": [{"id": "a", "scale": "Cmaj", "octave": 4, "start": 0, "notes": ["x"]}]}`,
		"float note":       `{"bpm": 120, "tracks": [{"id": "a", "scale": "Cmaj", "octave": 4, "start": 0, "notes": [1.5]}]}`,
		"bad duration":     `{"bpm": 120, "tracks": [{"id": "a", "scale": "Cmaj", "octave": 4, "start": 0, "notes": [{"x": 0}]}]}`,
		"zero denominator": `{"bpm": 120, "tracks": [{"id": "a", "scale": "Cmaj", "octave": 4, "start": 0, "notes": [{"1/0": 0}]}]}`,
		"negative start":   `{"bpm": 120, "tracks": [{"id": "a", "scale": "Cmaj", "octave": 4, "start": -1, "notes": []}]}`,
		"octave too low":   `{"bpm": 120, "tracks": [{"id": "a", "scale": "Cmaj", "octave": -3, "start": 0, "notes": [0]}]}`,
		"note above range": `{"bpm": 120, "tracks": [{"id": "a", "scale": "Cmaj", "octave": 9, "start": 0, "notes": [20]}]}`,
		"duplicate id": `{"bpm": 120, "tracks": [
			{"id": "a", "scale": "Cmaj", "octave": 4, "start": 0, "notes": []},
			{"id": "a", "scale": "Cmaj", "octave": 4, "start": 0, "notes": []}
		]}`,
	}

	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParsePiece([]byte(data))
			assert.Error(t, err)
		})
	}
}

func TestNotesCarryTrackOctave(t *testing.T) {
	assert := assert.New(t)

	data := `{"bpm": 120, "tracks": [
		{"id": "a", "scale": "Cmaj", "octave": 2, "start": 0, "notes": [0, null, 4]}
	]}`

	piece, err := ParsePiece([]byte(data))
	assert.NoError(err)

	notes := piece.Tracks[0].Notes
	assert.Len(notes, 3)
	assert.Equal(int8(2), notes[0].Note.Octave)
	assert.Nil(notes[1].Note)
	assert.Equal(int8(2), notes[2].Note.Octave)
}
