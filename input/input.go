// Package input parses the JSON piece format.
//
// This is the definition of the JSON data format we are using.
//
// Piece  = { "bpm": int, "tracks": [ Track* ] }
// Track  = { "id": String, "scale": String, "octave": int, "start": Start, "notes": Notes }
// Start  = int | { String: offset<int> }
// Notes  = Note | { duration<String>: Notes } | [ Notes* ]
// Note   = null | "" | int
//
// Note ints are positions in the track's scale at the track's octave. The
// top level of "notes" carries one beat per entry; nested arrays halve the
// duration per level; an object key like "3", "1/3" or "/3" multiplies the
// inherited duration by numerator/denominator.
package input

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"

	"github.com/moiramusic/moira/scale"
	"github.com/moiramusic/moira/track"
)

// matches e.g. 3, 1/3, /3
var durationRe = regexp.MustCompile(`^(\d+)?(?:/(\d+))?$`)

// ParsePiece parses a whole piece document.
func ParsePiece(data []byte) (*track.Piece, error) {
	var pieceJSON struct {
		BPM    *uint8            `json:"bpm"`
		Tracks []json.RawMessage `json:"tracks"`
	}
	if err := json.Unmarshal(data, &pieceJSON); err != nil {
		return nil, fmt.Errorf("could not parse piece JSON: %w", err)
	}
	if pieceJSON.BPM == nil {
		return nil, fmt.Errorf("bpm missing")
	}
	if *pieceJSON.BPM == 0 {
		return nil, fmt.Errorf("bpm must be positive")
	}
	if pieceJSON.Tracks == nil {
		return nil, fmt.Errorf("tracks missing")
	}

	byID := make(map[string]*track.Track)
	tracks := make([]*track.Track, 0, len(pieceJSON.Tracks))
	for _, raw := range pieceJSON.Tracks {
		t, err := parseTrack(raw, byID)
		if err != nil {
			return nil, err
		}
		if _, dup := byID[t.ID]; dup {
			return nil, fmt.Errorf("duplicate track id %q", t.ID)
		}
		byID[t.ID] = t
		tracks = append(tracks, t)
	}

	return &track.Piece{BPM: *pieceJSON.BPM, Tracks: tracks}, nil
}

func parseTrack(raw json.RawMessage, byID map[string]*track.Track) (*track.Track, error) {
	var trackJSON struct {
		ID     *string         `json:"id"`
		Scale  *string         `json:"scale"`
		Octave *int8           `json:"octave"`
		Start  json.RawMessage `json:"start"`
		Notes  json.RawMessage `json:"notes"`
	}
	if err := json.Unmarshal(raw, &trackJSON); err != nil {
		return nil, fmt.Errorf("each track must be a JSON object: %w", err)
	}
	if trackJSON.ID == nil {
		return nil, fmt.Errorf("id missing")
	}
	if trackJSON.Scale == nil {
		return nil, fmt.Errorf("track %q: scale missing", *trackJSON.ID)
	}
	if trackJSON.Octave == nil {
		return nil, fmt.Errorf("track %q: octave missing", *trackJSON.ID)
	}
	if trackJSON.Start == nil {
		return nil, fmt.Errorf("track %q: start missing", *trackJSON.ID)
	}
	if trackJSON.Notes == nil {
		return nil, fmt.Errorf("track %q: notes missing", *trackJSON.ID)
	}

	s, err := scale.Parse(*trackJSON.Scale)
	if err != nil {
		return nil, fmt.Errorf("track %q: %w", *trackJSON.ID, err)
	}

	start, err := parseStart(trackJSON.Start, byID)
	if err != nil {
		return nil, fmt.Errorf("track %q: %w", *trackJSON.ID, err)
	}

	notes, err := parseNotes(trackJSON.Notes, *trackJSON.Octave)
	if err != nil {
		return nil, fmt.Errorf("track %q: %w", *trackJSON.ID, err)
	}
	for _, tn := range notes {
		if tn.Note != nil && !s.NoteInRange(tn.Note.Position, tn.Note.Octave) {
			return nil, fmt.Errorf("track %q: position %v at octave %v is outside the MIDI range",
				*trackJSON.ID, tn.Note.Position, tn.Note.Octave)
		}
	}

	return &track.Track{
		ID:     *trackJSON.ID,
		Scale:  s,
		Octave: *trackJSON.Octave,
		Start:  start,
		Notes:  notes,
	}, nil
}

// parseStart accepts either an absolute tick count or a single-entry object
// referencing an earlier track's start plus a signed offset.
func parseStart(raw json.RawMessage, byID map[string]*track.Track) (uint32, error) {
	var abs uint32
	if err := json.Unmarshal(raw, &abs); err == nil {
		return abs, nil
	}

	var ref map[string]int64
	if err := json.Unmarshal(raw, &ref); err != nil {
		return 0, fmt.Errorf("start must be a non-negative int or a {track: offset} object")
	}
	if len(ref) != 1 {
		return 0, fmt.Errorf("start object must have exactly one reference track")
	}
	for id, offset := range ref {
		base, ok := byID[id]
		if !ok {
			return 0, fmt.Errorf("start references unknown track %q", id)
		}
		start := int64(base.Start) + offset
		if start < 0 || start > math.MaxUint32 {
			return 0, fmt.Errorf("start relative to %q is out of range", id)
		}
		return uint32(start), nil
	}
	panic("unreachable")
}

func parseNotes(raw json.RawMessage, octave int8) ([]track.TimedNote, error) {
	return parseNotesRecursive(raw, octave, track.TicksPerBeat, false)
}

func parseNotesRecursive(raw json.RawMessage, octave int8, duration uint8, halveArrays bool) ([]track.TimedNote, error) {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty notes value")
	}

	switch trimmed[0] {
	case '[':
		var elements []json.RawMessage
		if err := json.Unmarshal(trimmed, &elements); err != nil {
			return nil, fmt.Errorf("invalid notes array: %w", err)
		}
		var notes []track.TimedNote
		for _, element := range elements {
			d := duration
			if halveArrays {
				d = duration / 2
			}
			deeper, err := parseNotesRecursive(element, octave, d, true)
			if err != nil {
				return nil, err
			}
			notes = append(notes, deeper...)
		}
		return notes, nil

	case '{':
		// key order matters here, so walk tokens instead of unmarshalling
		// into a map
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		if _, err := dec.Token(); err != nil {
			return nil, fmt.Errorf("invalid notes object: %w", err)
		}
		var notes []track.TimedNote
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, fmt.Errorf("invalid notes object: %w", err)
			}
			spec := keyTok.(string)

			var value json.RawMessage
			if err := dec.Decode(&value); err != nil {
				return nil, fmt.Errorf("invalid notes object: %w", err)
			}

			d, err := applyDurationSpec(duration, spec)
			if err != nil {
				return nil, err
			}
			deeper, err := parseNotesRecursive(value, octave, d, false)
			if err != nil {
				return nil, err
			}
			notes = append(notes, deeper...)
		}
		return notes, nil

	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil, fmt.Errorf("invalid notes string: %w", err)
		}
		if s != "" {
			return nil, fmt.Errorf("only an empty string can be used to signify a silence, got %q", s)
		}
		return []track.TimedNote{{Note: nil, Duration: duration}}, nil

	case 'n':
		if !bytes.Equal(trimmed, []byte("null")) {
			return nil, fmt.Errorf("notes must be a number, string, null, array or object")
		}
		return []track.TimedNote{{Note: nil, Duration: duration}}, nil

	default:
		var position int8
		if err := json.Unmarshal(trimmed, &position); err != nil {
			return nil, fmt.Errorf("notes must be a number, string, null, array or object: %w", err)
		}
		sn := scale.ScaleNote{Position: position, Octave: octave}
		return []track.TimedNote{{Note: &sn, Duration: duration}}, nil
	}
}

func applyDurationSpec(duration uint8, spec string) (uint8, error) {
	captures := durationRe.FindStringSubmatch(spec)
	if captures == nil {
		return 0, fmt.Errorf("invalid duration specifier: %v", spec)
	}

	numerator, denominator := 1, 1
	if captures[1] != "" {
		numerator, _ = strconv.Atoi(captures[1])
	}
	if captures[2] != "" {
		denominator, _ = strconv.Atoi(captures[2])
	}
	if denominator == 0 {
		return 0, fmt.Errorf("invalid duration specifier: %v", spec)
	}

	scaled := int(duration) * numerator / denominator
	if scaled == 0 || scaled > math.MaxUint8 {
		return 0, fmt.Errorf("duration %v ticks does not fit after applying %v", scaled, spec)
	}
	return uint8(scaled), nil
}
