package harmony

import (
	"errors"

	"github.com/dgeni2/chamber-api/internal/musicxml"
)

// ErrNoContent is returned when the input document holds no parts or no
// measures to harmonize.
var ErrNoContent = errors.New("score contains no parts or measures")

// ExtractLines converts a parsed score into flat timed-note sequences, one
// per melodic line. Monophonic input yields a single line; polyphonic input
// (more than one declared part, or more than one voice tag within the first
// part) yields one independently time-accumulated line per part or voice.
func ExtractLines(doc *musicxml.Document) ([][]TimedNote, error) {
	if doc == nil || len(doc.Parts) == 0 {
		return nil, ErrNoContent
	}
	hasMeasures := false
	for _, p := range doc.Parts {
		if len(p.Measures) > 0 {
			hasMeasures = true
			break
		}
	}
	if !hasMeasures {
		return nil, ErrNoContent
	}

	if len(doc.Parts) > 1 {
		lines := make([][]TimedNote, 0, len(doc.Parts))
		for i := range doc.Parts {
			lines = append(lines, extractPart(&doc.Parts[i], 0))
		}
		return lines, nil
	}

	part := &doc.Parts[0]
	voices := distinctVoices(part)
	if len(voices) > 1 {
		lines := make([][]TimedNote, 0, len(voices))
		for _, v := range voices {
			lines = append(lines, extractPart(part, v))
		}
		return lines, nil
	}

	return [][]TimedNote{extractPart(part, 0)}, nil
}

// distinctVoices lists the voice numbers used in a part, in first-seen
// order. A zero voice tag counts as voice 1.
func distinctVoices(part *musicxml.Part) []int {
	seen := map[int]bool{}
	var voices []int
	for _, m := range part.Measures {
		for _, n := range m.Notes {
			v := n.Voice
			if v == 0 {
				v = 1
			}
			if !seen[v] {
				seen[v] = true
				voices = append(voices, v)
			}
		}
	}
	return voices
}

// extractPart flattens one part (optionally filtered to a single voice tag)
// into a timed-note sequence accumulated from offset zero. Chord-tagged
// notes share the previous note's onset and are skipped here; the
// polyphonic path reads simultaneities across lines instead. A missing or
// malformed duration defaults to one division.
func extractPart(part *musicxml.Part, voice int) []TimedNote {
	var notes []TimedNote
	offset := 0
	for _, m := range part.Measures {
		for _, n := range m.Notes {
			v := n.Voice
			if v == 0 {
				v = 1
			}
			if voice != 0 && v != voice {
				continue
			}
			if n.Chord != nil {
				continue
			}
			dur := n.Duration
			if dur <= 0 {
				dur = 1
			}
			pitch := Rest
			if !n.IsRest() {
				pitch = n.Pitch.MIDI()
			}
			// A tie stop continues the previous note rather than
			// starting a new event.
			if pitch != Rest && tieStops(n) && len(notes) > 0 && notes[len(notes)-1].Pitch == pitch {
				notes[len(notes)-1].Duration += dur
				offset += dur
				continue
			}
			notes = append(notes, TimedNote{Pitch: pitch, Duration: dur, Offset: offset})
			offset += dur
		}
	}
	return notes
}

func tieStops(n musicxml.Note) bool {
	for _, t := range n.Ties {
		if t.Type == "stop" {
			return true
		}
	}
	return false
}
