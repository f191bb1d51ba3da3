package harmony

import (
	"fmt"

	"github.com/dgeni2/chamber-api/internal/musicxml"
)

// ScoreMeta carries the signature state preserved from the input score
// into every output part.
type ScoreMeta struct {
	Title     string
	Divisions int
	Key       musicxml.KeySignature
	Time      musicxml.TimeSignature
}

// BuildScore re-emits rendered parts as a score-partwise document. Notes
// are packed into fixed-capacity measures (beats x divisions); an event
// overflowing the current measure is split at the boundary and tied when
// pitched, and leftover space in the final measure is padded with a rest.
func BuildScore(meta ScoreMeta, parts []RenderedPart) *musicxml.Document {
	doc := &musicxml.Document{Version: "3.1"}
	if meta.Title != "" {
		doc.Work = &musicxml.Work{Title: meta.Title}
	}
	for i, part := range parts {
		id := fmt.Sprintf("P%d", i+1)
		doc.PartList.ScoreParts = append(doc.PartList.ScoreParts, musicxml.ScorePart{
			ID:   id,
			Name: part.Profile.Name,
		})
		doc.Parts = append(doc.Parts, musicxml.Part{
			ID:       id,
			Measures: packMeasures(meta, part),
		})
	}
	return doc
}

// packMeasures splits one part's timed notes into measures.
func packMeasures(meta ScoreMeta, part RenderedPart) []musicxml.Measure {
	capacity := meta.Time.Beats * meta.Divisions
	if capacity <= 0 {
		capacity = meta.Divisions
		if capacity <= 0 {
			capacity = 1
		}
	}

	var measures []musicxml.Measure
	cur := newMeasure(1, meta, part.Profile)
	fill := 0

	flush := func() {
		measures = append(measures, cur)
		cur = newMeasure(len(measures)+1, meta, part.Profile)
		fill = 0
	}

	for _, n := range part.Notes {
		remaining := n.Duration
		continued := false
		for remaining > 0 {
			if fill == capacity {
				flush()
			}
			seg := remaining
			if space := capacity - fill; seg > space {
				seg = space
			}
			out := musicxml.Note{Duration: seg, Voice: 1}
			if n.Pitch == Rest {
				out.Rest = &musicxml.Rest{}
			} else {
				p := musicxml.PitchFromMIDI(n.Pitch)
				out.Pitch = &p
				if continued {
					out.Ties = append(out.Ties, musicxml.Tie{Type: "stop"})
				}
				if remaining > seg {
					out.Ties = append(out.Ties, musicxml.Tie{Type: "start"})
				}
			}
			cur.Notes = append(cur.Notes, out)
			fill += seg
			remaining -= seg
			continued = true
		}
	}

	if fill > 0 && fill < capacity {
		cur.Notes = append(cur.Notes, musicxml.Note{
			Rest:     &musicxml.Rest{},
			Duration: capacity - fill,
			Voice:    1,
		})
	}
	if len(cur.Notes) > 0 {
		measures = append(measures, cur)
	}
	if len(measures) == 0 {
		measures = append(measures, cur)
	}
	return measures
}

// newMeasure starts a measure, attaching the signature attributes and the
// part's clef to the first one.
func newMeasure(number int, meta ScoreMeta, prof Profile) musicxml.Measure {
	m := musicxml.Measure{Number: number}
	if number == 1 {
		key := meta.Key
		tm := meta.Time
		m.Attributes = &musicxml.Attributes{
			Divisions: meta.Divisions,
			Key:       &key,
			Time:      &tm,
			Clef:      &musicxml.Clef{Sign: prof.ClefSign, Line: prof.ClefLine},
		}
	}
	return m
}
