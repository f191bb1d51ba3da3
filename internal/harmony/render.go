package harmony

// harmonyVoiceOrder is the cyclic instrument-to-voice assignment: the
// first selected instrument plays alto, the second bass, the third tenor,
// and the fourth wraps back to alto.
var harmonyVoiceOrder = [3]int{VoiceAlto, VoiceBass, VoiceTenor}

// VoiceForInstrument returns the chord voice index for the nth selected
// instrument.
func VoiceForInstrument(n int) int {
	return harmonyVoiceOrder[((n%3)+3)%3]
}

// RenderedPart is one instrument's finished line of written pitches.
type RenderedPart struct {
	Profile Profile
	Notes   []TimedNote
}

// RenderPart maps one chord voice onto an instrument: each step's pitch is
// octave-fitted into the instrument's sounding range with
// octave-preserving voice leading against the previous note, then shifted
// to written pitch. Rests pass through and reset the leading state.
func RenderPart(chords []Chord, timeline []TimedNote, voice int, prof Profile) RenderedPart {
	notes := make([]TimedNote, 0, len(chords))
	prevPitch := Rest
	for i, c := range chords {
		dur, off := timeline[i].Duration, timeline[i].Offset
		p := c.Voices[voice]
		if c.IsRest() || p == Rest {
			notes = append(notes, TimedNote{Pitch: Rest, Duration: dur, Offset: off})
			prevPitch = Rest
			continue
		}
		p = fitToRange(p, prof)
		if prevPitch != Rest && abs(p-prevPitch) > 8 {
			p = minimizeLeap(p, prevPitch, prof)
		}
		prevPitch = p
		notes = append(notes, TimedNote{Pitch: p + prof.Transposition, Duration: dur, Offset: off})
	}
	return RenderedPart{Profile: prof, Notes: notes}
}

// fitToRange octave-shifts a sounding pitch into the instrument's range.
func fitToRange(p int, prof Profile) int {
	for p < prof.MinPitch {
		p += 12
	}
	for p > prof.MaxPitch {
		p -= 12
	}
	return p
}

// minimizeLeap searches the adjacent octaves of p for the in-range pitch
// closest to the previous note.
func minimizeLeap(p, prev int, prof Profile) int {
	best, bestDist := p, abs(p-prev)
	for _, cand := range []int{p - 12, p + 12} {
		if cand < prof.MinPitch || cand > prof.MaxPitch {
			continue
		}
		if d := abs(cand - prev); d < bestDist {
			best, bestDist = cand, d
		}
	}
	return best
}
