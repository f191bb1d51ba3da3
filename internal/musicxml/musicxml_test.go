package musicxml

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleXML = `<?xml version="1.0" encoding="UTF-8"?>
<score-partwise version="3.1">
  <work><work-title>Sample</work-title></work>
  <part-list>
    <score-part id="P1"><part-name>Flute</part-name></score-part>
  </part-list>
  <part id="P1">
    <measure number="1">
      <attributes>
        <divisions>2</divisions>
        <key><fifths>1</fifths><mode>major</mode></key>
        <time><beats>3</beats><beat-type>4</beat-type></time>
        <clef><sign>G</sign><line>2</line></clef>
      </attributes>
      <note><pitch><step>C</step><octave>4</octave></pitch><duration>2</duration><voice>1</voice></note>
      <note><pitch><step>F</step><alter>1</alter><octave>4</octave></pitch><duration>2</duration><voice>1</voice></note>
      <note><rest/><duration>2</duration><voice>1</voice></note>
    </measure>
  </part>
</score-partwise>`

func TestDecode(t *testing.T) {
	doc, err := Decode(strings.NewReader(sampleXML))
	require.NoError(t, err)

	assert.Equal(t, "Sample", doc.Work.Title)
	require.Len(t, doc.Parts, 1)
	require.Len(t, doc.Parts[0].Measures, 1)

	notes := doc.Parts[0].Measures[0].Notes
	require.Len(t, notes, 3)
	assert.Equal(t, 60, notes[0].Pitch.MIDI())
	assert.Equal(t, 66, notes[1].Pitch.MIDI(), "F sharp 4")
	assert.True(t, notes[2].IsRest())
	assert.False(t, notes[0].IsRest())
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode(strings.NewReader("definitely < not xml"))
	assert.Error(t, err)
}

func TestEncodeRoundTrip(t *testing.T) {
	doc, err := Decode(strings.NewReader(sampleXML))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, doc.Encode(&buf))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "<?xml"))
	assert.Contains(t, out, "<score-partwise")

	again, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, doc.Work.Title, again.Work.Title)
	assert.Equal(t, doc.FindDivisions(), again.FindDivisions())
	assert.Equal(t, doc.FindKey(), again.FindKey())
	assert.Equal(t, doc.FindTime(), again.FindTime())
	assert.Equal(t, len(doc.Parts[0].Measures[0].Notes), len(again.Parts[0].Measures[0].Notes))
}

func TestPitchMIDI(t *testing.T) {
	tests := []struct {
		pitch Pitch
		want  int
	}{
		{Pitch{Step: "C", Octave: 4}, 60},
		{Pitch{Step: "A", Octave: 4}, 69},
		{Pitch{Step: "B", Octave: 3}, 59},
		{Pitch{Step: "C", Alter: 1, Octave: 4}, 61},
		{Pitch{Step: "B", Alter: -1, Octave: 4}, 70},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.pitch.MIDI(), "%+v", tt.pitch)
	}
}

func TestPitchFromMIDI(t *testing.T) {
	assert.Equal(t, Pitch{Step: "C", Octave: 4}, PitchFromMIDI(60))
	assert.Equal(t, Pitch{Step: "C", Alter: 1, Octave: 4}, PitchFromMIDI(61))
	assert.Equal(t, Pitch{Step: "A", Octave: 0}, PitchFromMIDI(21))
	assert.Equal(t, Pitch{Step: "G", Alter: 1, Octave: 5}, PitchFromMIDI(80))

	// Conversion is the inverse of MIDI for sharp spellings.
	for midi := 21; midi <= 108; midi++ {
		assert.Equal(t, midi, PitchFromMIDI(midi).MIDI())
	}
}

func TestFindDefaults(t *testing.T) {
	doc := &Document{}
	assert.Equal(t, 1, doc.FindDivisions())
	assert.Equal(t, KeySignature{Fifths: 0, Mode: "major"}, doc.FindKey())
	assert.Equal(t, TimeSignature{Beats: 4, BeatType: 4}, doc.FindTime())
}

func TestFindDeclared(t *testing.T) {
	doc, err := Decode(strings.NewReader(sampleXML))
	require.NoError(t, err)

	assert.Equal(t, 2, doc.FindDivisions())
	assert.Equal(t, KeySignature{Fifths: 1, Mode: "major"}, doc.FindKey())
	assert.Equal(t, TimeSignature{Beats: 3, BeatType: 4}, doc.FindTime())
}
