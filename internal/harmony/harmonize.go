package harmony

import (
	"bytes"
	"errors"
	"fmt"
	"sort"

	"github.com/dgeni2/chamber-api/internal/musicxml"
)

// MaxInstruments is the hard cap on simultaneous output instruments.
const MaxInstruments = 4

var (
	// ErrEmptyContent is returned for missing or blank input.
	ErrEmptyContent = errors.New("score content is empty")
	// ErrNoInstruments is returned when no instrument was selected.
	ErrNoInstruments = errors.New("at least one instrument is required")
	// ErrTooManyInstruments is returned for more than MaxInstruments.
	ErrTooManyInstruments = fmt.Errorf("at most %d instruments are supported", MaxInstruments)
)

// Result is the complete outcome of one harmonization call.
type Result struct {
	Chords       []Chord
	Analysis     Analysis
	HarmonyOnly  *musicxml.Document
	Combined     *musicxml.Document
	Instruments  []string
	Alternatives []Alternative
}

// Alternative is an extra harmonization of the same input, re-rolled from
// a shifted seed when Options.MaxAlternatives asks for more than one.
type Alternative struct {
	Chords      []Chord
	Analysis    Analysis
	HarmonyOnly *musicxml.Document
}

// melodyProfile renders the original melody line in the combined output.
var melodyProfile = Profile{
	Name: "Melody", ClefSign: "G", ClefLine: 2, MinPitch: 0, MaxPitch: 127, Transposition: 0,
}

// HarmonizeBytes decodes raw MusicXML content and harmonizes it for the
// selected instruments. The RNG seed is derived from the content bytes and
// the instrument set, so identical calls produce identical output.
func HarmonizeBytes(content []byte, instruments []string, opts *Options) (*Result, error) {
	if len(bytes.TrimSpace(content)) == 0 {
		return nil, ErrEmptyContent
	}
	doc, err := musicxml.Decode(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	return harmonize(doc, content, instruments, opts)
}

// Harmonize runs on an already-parsed document, seeding the RNG from the
// document's canonical serialization.
func Harmonize(doc *musicxml.Document, instruments []string, opts *Options) (*Result, error) {
	var buf bytes.Buffer
	if err := doc.Encode(&buf); err != nil {
		return nil, err
	}
	return harmonize(doc, buf.Bytes(), instruments, opts)
}

func harmonize(doc *musicxml.Document, content []byte, instruments []string, opts *Options) (*Result, error) {
	if len(instruments) == 0 {
		return nil, ErrNoInstruments
	}
	if len(instruments) > MaxInstruments {
		return nil, ErrTooManyInstruments
	}

	lines, err := ExtractLines(doc)
	if err != nil {
		return nil, err
	}

	keySig := doc.FindKey()
	timeSig := doc.FindTime()
	divisions := doc.FindDivisions()
	key := ResolveKey(keySig.Fifths, keySig.Mode)

	sorted := append([]string(nil), instruments...)
	sort.Strings(sorted)
	seed := SeedFor(content, sorted)

	o := opts.normalized()
	generate := func(seed uint32) ([]Chord, Analysis) {
		gen := NewGenerator(key, NewRand(seed), o)
		var chords []Chord
		if len(lines) > 1 {
			chords = gen.GeneratePolyphonic(lines)
		} else {
			chords = gen.Generate(lines[0])
		}
		analysis := Validate(chords, key)
		if analysis.Score < o.RefineThreshold {
			Refine(chords, key)
			analysis = Validate(chords, key)
			analysis.Refined = true
		}
		return chords, analysis
	}
	chords, analysis := generate(seed)

	timeline := lines[0]
	meta := ScoreMeta{
		Title:     titleOf(doc),
		Divisions: divisions,
		Key:       keySig,
		Time:      timeSig,
	}

	renderParts := func(chords []Chord) []RenderedPart {
		parts := make([]RenderedPart, 0, len(instruments))
		for i, name := range instruments {
			parts = append(parts, RenderPart(chords, timeline, VoiceForInstrument(i), LookupProfile(name)))
		}
		return parts
	}
	parts := renderParts(chords)

	combined := make([]RenderedPart, 0, len(parts)+1)
	combined = append(combined, RenderedPart{Profile: melodyProfile, Notes: timeline})
	combined = append(combined, parts...)

	// Each extra alternative is an independent pass on a shifted seed.
	var alternatives []Alternative
	for n := 1; n < o.MaxAlternatives; n++ {
		altChords, altAnalysis := generate(seed + uint32(n))
		alternatives = append(alternatives, Alternative{
			Chords:      altChords,
			Analysis:    altAnalysis,
			HarmonyOnly: BuildScore(meta, renderParts(altChords)),
		})
	}

	return &Result{
		Chords:       chords,
		Analysis:     analysis,
		HarmonyOnly:  BuildScore(meta, parts),
		Combined:     BuildScore(meta, combined),
		Instruments:  instruments,
		Alternatives: alternatives,
	}, nil
}

func titleOf(doc *musicxml.Document) string {
	if doc.Work != nil && doc.Work.Title != "" {
		return doc.Work.Title + " (harmonized)"
	}
	return "Harmonization"
}
