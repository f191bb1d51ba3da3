package harmony

import "fmt"

// Analysis is the scored verdict on a finished progression.
type Analysis struct {
	Score    float64
	Warnings []string
	Refined  bool
}

const (
	penaltyNoCommonTone  = 2.0
	penaltyMelodyOutside = 1.0
	penaltyInnerLeap     = 0.5
	bonusDescendingFifth = 2.0
	bonusDiatonicMotion  = 1.0
	bonusCap             = 10.0
)

// Validate scores a chord sequence on common-tone connectivity, melody
// fit, inner-voice smoothness and root-motion strength. The score starts
// at 100 and is clamped to [0, 100]; shortfalls are reported as warnings,
// never as errors.
func Validate(chords []Chord, key Key) Analysis {
	score := 100.0
	bonus := 0.0
	var warnings []string

	var prev *Chord
	prevIdx := -1
	for i := range chords {
		c := &chords[i]
		if c.IsRest() {
			continue
		}

		melody := c.Voices[VoiceSoprano]
		if melody != Rest && !c.HasTone(pitchClass(melody)) {
			score -= penaltyMelodyOutside
			warnings = append(warnings, fmt.Sprintf("melody note at step %d is not a member of %s", i, c.Roman))
		}

		if prev != nil {
			if !sharesTone(prev, c) {
				score -= penaltyNoCommonTone
				warnings = append(warnings, fmt.Sprintf("no common tone between steps %d and %d", prevIdx, i))
			}
			for _, v := range []int{VoiceAlto, VoiceTenor} {
				a, b := prev.Voices[v], c.Voices[v]
				if a == Rest || b == Rest {
					continue
				}
				if abs(b-a) > smallLeap {
					score -= penaltyInnerLeap
					warnings = append(warnings, fmt.Sprintf("large leap in voice %d at step %d", v, i))
				}
			}
			bonus += rootMotionBonus(prev, c, key)
		}
		prev = c
		prevIdx = i
	}

	if bonus > bonusCap {
		bonus = bonusCap
	}
	score += bonus
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return Analysis{Score: score, Warnings: warnings}
}

// rootMotionBonus rewards classically strong root motion: a descending
// fifth (equivalently ascending fourth) scores highest; any other
// non-repeated motion counts only when it lands on a diatonic root, so
// chromatic roots such as secondary dominants earn nothing.
func rootMotionBonus(prev, cur *Chord, key Key) float64 {
	interval := pitchClass(cur.Root - prev.Root)
	switch {
	case interval == 0:
		return 0
	case interval == 5:
		return bonusDescendingFifth
	case key.DegreeOf(cur.Root) < 0:
		return 0
	default:
		return bonusDiatonicMotion
	}
}

// Refine improves a low-scoring progression in place: chords lacking a
// common tone with their predecessor try the three inversions in turn and
// adopt the first whose bass note ties into the previous voicing, then the
// inner voices are re-smoothed against the now-finalized predecessor.
func Refine(chords []Chord, key Key) {
	var prev *Chord
	for i := range chords {
		c := &chords[i]
		if c.IsRest() {
			prev = nil
			continue
		}
		if prev != nil {
			if !sharesTone(prev, c) {
				retryInversions(c, prev)
			}
			smoothInnerVoices(c, prev)
			enforceSpacing(c)
		}
		prev = c
	}
}

// retryInversions looks for an inversion whose bass shares a pitch class
// with the previous chord's voicing and re-places the bass accordingly.
func retryInversions(c, prev *Chord) {
	tones := c.Tones()
	for inv := 0; inv < 3 && inv < len(tones); inv++ {
		bassPC := tones[inv]
		if !voicingHasPC(prev, bassPC) {
			continue
		}
		c.Inversion = inv
		anchor := prev.Voices[VoiceBass]
		if anchor == Rest {
			anchor = c.Voices[VoiceBass]
		}
		c.Voices[VoiceBass] = clampToRange(nearestOctaveOf(bassPC, anchor), VoiceBass)
		return
	}
}

// smoothInnerVoices reduces leaps over the small-leap limit by moving the
// voice to the nearest octave of its pitch class relative to the
// predecessor.
func smoothInnerVoices(c, prev *Chord) {
	for _, v := range []int{VoiceAlto, VoiceTenor} {
		cur, before := c.Voices[v], prev.Voices[v]
		if cur == Rest || before == Rest {
			continue
		}
		if abs(cur-before) > smallLeap {
			c.Voices[v] = clampToRange(nearestOctaveOf(pitchClass(cur), before), v)
		}
	}
}

func voicingHasPC(c *Chord, pc int) bool {
	for _, v := range c.Voices {
		if v != Rest && pitchClass(v) == pc {
			return true
		}
	}
	return false
}
