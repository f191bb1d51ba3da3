package harmony

import (
	"bytes"
	"testing"

	"github.com/dgeni2/chamber-api/internal/musicxml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scalarMelodyXML = `<?xml version="1.0" encoding="UTF-8"?>
<score-partwise version="3.1">
  <part-list>
    <score-part id="P1"><part-name>Melody</part-name></score-part>
  </part-list>
  <part id="P1">
    <measure number="1">
      <attributes>
        <divisions>1</divisions>
        <key><fifths>0</fifths><mode>major</mode></key>
        <time><beats>4</beats><beat-type>4</beat-type></time>
        <clef><sign>G</sign><line>2</line></clef>
      </attributes>
      <note><pitch><step>C</step><octave>4</octave></pitch><duration>1</duration><voice>1</voice></note>
      <note><pitch><step>D</step><octave>4</octave></pitch><duration>1</duration><voice>1</voice></note>
      <note><pitch><step>E</step><octave>4</octave></pitch><duration>1</duration><voice>1</voice></note>
      <note><pitch><step>C</step><octave>4</octave></pitch><duration>1</duration><voice>1</voice></note>
    </measure>
  </part>
</score-partwise>`

const restMelodyXML = `<?xml version="1.0" encoding="UTF-8"?>
<score-partwise version="3.1">
  <part-list>
    <score-part id="P1"><part-name>Melody</part-name></score-part>
  </part-list>
  <part id="P1">
    <measure number="1">
      <attributes>
        <divisions>1</divisions>
        <key><fifths>0</fifths><mode>major</mode></key>
        <time><beats>4</beats><beat-type>4</beat-type></time>
      </attributes>
      <note><pitch><step>C</step><octave>4</octave></pitch><duration>1</duration></note>
      <note><rest/><duration>1</duration></note>
      <note><pitch><step>E</step><octave>4</octave></pitch><duration>1</duration></note>
      <note><pitch><step>C</step><octave>4</octave></pitch><duration>1</duration></note>
    </measure>
  </part>
</score-partwise>`

const twoPartXML = `<?xml version="1.0" encoding="UTF-8"?>
<score-partwise version="3.1">
  <part-list>
    <score-part id="P1"><part-name>Soprano</part-name></score-part>
    <score-part id="P2"><part-name>Bass</part-name></score-part>
  </part-list>
  <part id="P1">
    <measure number="1">
      <attributes><divisions>1</divisions></attributes>
      <note><pitch><step>C</step><octave>5</octave></pitch><duration>1</duration></note>
      <note><pitch><step>B</step><octave>4</octave></pitch><duration>1</duration></note>
      <note><pitch><step>C</step><octave>5</octave></pitch><duration>2</duration></note>
    </measure>
  </part>
  <part id="P2">
    <measure number="1">
      <note><pitch><step>E</step><octave>3</octave></pitch><duration>1</duration></note>
      <note><pitch><step>G</step><octave>3</octave></pitch><duration>1</duration></note>
      <note><pitch><step>C</step><octave>3</octave></pitch><duration>2</duration></note>
    </measure>
  </part>
</score-partwise>`

func TestHarmonizeBytesScalarMelody(t *testing.T) {
	result, err := HarmonizeBytes([]byte(scalarMelodyXML), []string{"Violin"}, nil)
	require.NoError(t, err)

	require.Len(t, result.Chords, 4)
	assert.Equal(t, "I", result.Chords[0].Roman, "tonic melody opens on I")
	assert.Equal(t, "I", result.Chords[3].Roman, "phrase end on the tonic cadences to I")
	assert.Equal(t, RoleTonic, result.Chords[0].Role)

	// Soprano carries the melody verbatim.
	want := []int{60, 62, 64, 60}
	for i, c := range result.Chords {
		assert.Equal(t, want[i], c.Voices[VoiceSoprano], "step %d", i)
	}

	require.Len(t, result.HarmonyOnly.Parts, 1)
	assert.Equal(t, "Violin", result.HarmonyOnly.PartList.ScoreParts[0].Name)

	// Combined output leads with the melody part.
	require.Len(t, result.Combined.Parts, 2)
	assert.Equal(t, "Melody", result.Combined.PartList.ScoreParts[0].Name)
	assert.Equal(t, "Violin", result.Combined.PartList.ScoreParts[1].Name)
}

func TestHarmonizeBytesViolinStaysInRange(t *testing.T) {
	result, err := HarmonizeBytes([]byte(scalarMelodyXML), []string{"Violin"}, nil)
	require.NoError(t, err)

	violin := LookupProfile("Violin")
	for _, m := range result.HarmonyOnly.Parts[0].Measures {
		for _, n := range m.Notes {
			if n.Pitch == nil {
				continue
			}
			midi := n.Pitch.MIDI()
			assert.GreaterOrEqual(t, midi, violin.MinPitch)
			assert.LessOrEqual(t, midi, violin.MaxPitch)
		}
	}
}

func TestHarmonizeBytesDeterministic(t *testing.T) {
	first, err := HarmonizeBytes([]byte(scalarMelodyXML), []string{"Violin", "Cello"}, nil)
	require.NoError(t, err)
	second, err := HarmonizeBytes([]byte(scalarMelodyXML), []string{"Violin", "Cello"}, nil)
	require.NoError(t, err)

	assert.Equal(t, first.Chords, second.Chords)

	var a, b bytes.Buffer
	require.NoError(t, first.HarmonyOnly.Encode(&a))
	require.NoError(t, second.HarmonyOnly.Encode(&b))
	assert.Equal(t, a.Bytes(), b.Bytes(), "identical input must serialize identically")
}

func TestHarmonizeBytesRestsSurvive(t *testing.T) {
	result, err := HarmonizeBytes([]byte(restMelodyXML), []string{"Viola"}, nil)
	require.NoError(t, err)

	require.Len(t, result.Chords, 4)
	assert.True(t, result.Chords[1].IsRest())

	// The rendered part keeps the rest at the same slot with the same
	// duration.
	notes := result.HarmonyOnly.Parts[0].Measures[0].Notes
	require.Len(t, notes, 4)
	assert.NotNil(t, notes[1].Rest)
	assert.Equal(t, 1, notes[1].Duration)
}

func TestHarmonizeBytesFourInstruments(t *testing.T) {
	instruments := []string{"Violin", "Cello", "Viola", "Flute"}
	result, err := HarmonizeBytes([]byte(scalarMelodyXML), instruments, nil)
	require.NoError(t, err)

	require.Len(t, result.HarmonyOnly.Parts, 4)
	assert.Equal(t, instruments, result.Instruments)
	for i, sp := range result.HarmonyOnly.PartList.ScoreParts {
		assert.Equal(t, instruments[i], sp.Name)
	}
}

func TestHarmonizeBytesPolyphonic(t *testing.T) {
	result, err := HarmonizeBytes([]byte(twoPartXML), []string{"Viola", "Cello"}, nil)
	require.NoError(t, err)

	require.Len(t, result.Chords, 3)
	assert.Equal(t, 72, result.Chords[0].Voices[VoiceSoprano])
	require.Len(t, result.HarmonyOnly.Parts, 2)
}

func TestHarmonizeBytesQualityFloor(t *testing.T) {
	result, err := HarmonizeBytes([]byte(scalarMelodyXML), []string{"Violin"}, nil)
	require.NoError(t, err)

	// Either the raw progression clears the threshold or the refinement
	// pass ran on it.
	if !result.Analysis.Refined {
		assert.GreaterOrEqual(t, result.Analysis.Score, defaultRefineThreshold)
	}
}

func TestHarmonizeBytesAlternatives(t *testing.T) {
	opts := &Options{MaxAlternatives: 3}
	result, err := HarmonizeBytes([]byte(scalarMelodyXML), []string{"Violin"}, opts)
	require.NoError(t, err)

	require.Len(t, result.Alternatives, 2, "three harmonizations: one primary, two alternatives")
	for i, alt := range result.Alternatives {
		require.Len(t, alt.Chords, len(result.Chords), "alternative %d", i)
		require.NotNil(t, alt.HarmonyOnly)
		for s, c := range alt.Chords {
			assert.Equal(t, result.Chords[s].Voices[VoiceSoprano], c.Voices[VoiceSoprano],
				"alternative %d keeps the melody at step %d", i, s)
		}
	}

	again, err := HarmonizeBytes([]byte(scalarMelodyXML), []string{"Violin"}, opts)
	require.NoError(t, err)
	assert.Equal(t, result.Alternatives, again.Alternatives, "alternatives are seed-deterministic")

	base, err := HarmonizeBytes([]byte(scalarMelodyXML), []string{"Violin"}, nil)
	require.NoError(t, err)
	assert.Empty(t, base.Alternatives, "the default request carries no alternatives")
}

func TestHarmonizeBytesErrors(t *testing.T) {
	_, err := HarmonizeBytes(nil, []string{"Violin"}, nil)
	assert.ErrorIs(t, err, ErrEmptyContent)

	_, err = HarmonizeBytes([]byte("   \n\t"), []string{"Violin"}, nil)
	assert.ErrorIs(t, err, ErrEmptyContent)

	_, err = HarmonizeBytes([]byte(scalarMelodyXML), nil, nil)
	assert.ErrorIs(t, err, ErrNoInstruments)

	_, err = HarmonizeBytes([]byte(scalarMelodyXML),
		[]string{"Violin", "Viola", "Cello", "Flute", "Oboe"}, nil)
	assert.ErrorIs(t, err, ErrTooManyInstruments)

	_, err = HarmonizeBytes([]byte(`<?xml version="1.0"?><score-partwise version="3.1"><part-list></part-list></score-partwise>`), []string{"Violin"}, nil)
	assert.ErrorIs(t, err, ErrNoContent)

	_, err = HarmonizeBytes([]byte("not xml at all <"), []string{"Violin"}, nil)
	assert.Error(t, err)
}

func TestHarmonizeMatchesHarmonizeBytes(t *testing.T) {
	doc, err := musicxml.Decode(bytes.NewReader([]byte(scalarMelodyXML)))
	require.NoError(t, err)

	result, err := Harmonize(doc, []string{"Violin"}, nil)
	require.NoError(t, err)
	require.Len(t, result.Chords, 4)
	assert.Equal(t, "I", result.Chords[0].Roman)
}

func TestHarmonizeTitle(t *testing.T) {
	doc, err := musicxml.Decode(bytes.NewReader([]byte(scalarMelodyXML)))
	require.NoError(t, err)
	doc.Work = &musicxml.Work{Title: "Air"}

	result, err := Harmonize(doc, []string{"Violin"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Air (harmonized)", result.HarmonyOnly.Work.Title)

	// No title falls back to a generic one.
	result2, err := HarmonizeBytes([]byte(scalarMelodyXML), []string{"Violin"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Harmonization", result2.HarmonyOnly.Work.Title)
}
