// Package musicxml implements the subset of the MusicXML score-partwise
// format that the harmonization engine consumes and produces: parts,
// measures, pitched notes and rests with durations, key/time signatures,
// divisions, clefs and ties. Full-fidelity round-tripping of arbitrary
// MusicXML documents is explicitly not a goal.
package musicxml

import (
	"encoding/xml"
	"fmt"
	"io"

	"golang.org/x/net/html/charset"
)

// Document holds all data for a score-partwise MusicXML file.
type Document struct {
	XMLName  xml.Name `xml:"score-partwise"`
	Version  string   `xml:"version,attr,omitempty"`
	Work     *Work    `xml:"work,omitempty"`
	PartList PartList `xml:"part-list"`
	Parts    []Part   `xml:"part"`
}

// Work holds the work title.
type Work struct {
	Title string `xml:"work-title,omitempty"`
}

// PartList declares the parts of the score in order.
type PartList struct {
	ScoreParts []ScorePart `xml:"score-part"`
}

// ScorePart declares one part (id + display name).
type ScorePart struct {
	ID   string `xml:"id,attr"`
	Name string `xml:"part-name"`
}

// Part is one instrument's sequence of measures.
type Part struct {
	ID       string    `xml:"id,attr"`
	Measures []Measure `xml:"measure"`
}

// Measure is an ordered run of notes with optional leading attributes.
type Measure struct {
	Number     int         `xml:"number,attr"`
	Attributes *Attributes `xml:"attributes,omitempty"`
	Notes      []Note      `xml:"note"`
}

// Attributes carries the signature state declared at a measure boundary.
type Attributes struct {
	Divisions int            `xml:"divisions,omitempty"`
	Key       *KeySignature  `xml:"key,omitempty"`
	Time      *TimeSignature `xml:"time,omitempty"`
	Clef      *Clef          `xml:"clef,omitempty"`
}

// KeySignature is a signed accidental count plus mode.
type KeySignature struct {
	Fifths int    `xml:"fifths"`
	Mode   string `xml:"mode,omitempty"`
}

// TimeSignature is beats over beat-type.
type TimeSignature struct {
	Beats    int `xml:"beats"`
	BeatType int `xml:"beat-type"`
}

// Clef is a clef sign and staff line.
type Clef struct {
	Sign string `xml:"sign"`
	Line int    `xml:"line"`
}

// Note is a pitched note or rest. Duration is in divisions. A non-nil
// Chord tag marks the note as sounding together with the previous one.
type Note struct {
	Pitch    *Pitch    `xml:"pitch,omitempty"`
	Rest     *Rest     `xml:"rest,omitempty"`
	Chord    *ChordTag `xml:"chord,omitempty"`
	Duration int       `xml:"duration"`
	Ties     []Tie     `xml:"tie,omitempty"`
	Voice    int       `xml:"voice,omitempty"`
	Type     string    `xml:"type,omitempty"`
}

// Rest marks a note element as silent.
type Rest struct{}

// ChordTag marks a note as part of the preceding note's simultaneity.
type ChordTag struct{}

// Tie links a split note across a measure boundary ("start" or "stop").
type Tie struct {
	Type string `xml:"type,attr"`
}

// IsRest reports whether the note element is a rest (or carries no pitch).
func (n *Note) IsRest() bool {
	return n.Rest != nil || n.Pitch == nil
}

// Pitch is a step letter, chromatic alteration and octave.
type Pitch struct {
	Step   string `xml:"step"`
	Alter  int    `xml:"alter,omitempty"`
	Octave int    `xml:"octave"`
}

var stepSemitones = map[string]int{
	"C": 0, "D": 2, "E": 4, "F": 5, "G": 7, "A": 9, "B": 11,
}

// MIDI converts the pitch to an absolute MIDI note number (C4 = 60).
func (p Pitch) MIDI() int {
	return stepSemitones[p.Step] + (p.Octave+1)*12 + p.Alter
}

// Sharp spellings per pitch class, the engine's canonical output spelling.
var pitchClassSpelling = [12]struct {
	step  string
	alter int
}{
	{"C", 0}, {"C", 1}, {"D", 0}, {"D", 1}, {"E", 0}, {"F", 0},
	{"F", 1}, {"G", 0}, {"G", 1}, {"A", 0}, {"A", 1}, {"B", 0},
}

// PitchFromMIDI converts an absolute MIDI note number back to a written
// pitch, spelling chromatic notes with sharps.
func PitchFromMIDI(midi int) Pitch {
	pc := ((midi % 12) + 12) % 12
	s := pitchClassSpelling[pc]
	return Pitch{
		Step:   s.step,
		Alter:  s.alter,
		Octave: midi/12 - 1,
	}
}

// Decode parses a MusicXML document from r. Non-UTF-8 declared encodings
// are handled via the charset reader.
func Decode(r io.Reader) (*Document, error) {
	var doc Document
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode musicxml: %w", err)
	}
	return &doc, nil
}

// Encode writes the document as indented MusicXML with an XML header.
func (d *Document) Encode(w io.Writer) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode musicxml: %w", err)
	}
	return enc.Flush()
}

// FindDivisions returns the first declared divisions-per-beat value, or 1
// if the document never declares one.
func (d *Document) FindDivisions() int {
	for _, part := range d.Parts {
		for _, measure := range part.Measures {
			if measure.Attributes != nil && measure.Attributes.Divisions != 0 {
				return measure.Attributes.Divisions
			}
		}
	}
	return 1
}

// FindKey returns the first declared key signature, defaulting to C major.
func (d *Document) FindKey() KeySignature {
	for _, part := range d.Parts {
		for _, measure := range part.Measures {
			if measure.Attributes != nil && measure.Attributes.Key != nil {
				return *measure.Attributes.Key
			}
		}
	}
	return KeySignature{Fifths: 0, Mode: "major"}
}

// FindTime returns the first declared time signature, defaulting to 4/4.
func (d *Document) FindTime() TimeSignature {
	for _, part := range d.Parts {
		for _, measure := range part.Measures {
			if measure.Attributes != nil && measure.Attributes.Time != nil && measure.Attributes.Time.Beats != 0 {
				return *measure.Attributes.Time
			}
		}
	}
	return TimeSignature{Beats: 4, BeatType: 4}
}
