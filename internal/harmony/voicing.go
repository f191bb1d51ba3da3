package harmony

// Fixed SATB registers (MIDI). Soprano is unconstrained: it carries the
// melody verbatim.
var voiceRanges = [4]struct{ min, max int }{
	{0, 127}, // soprano
	{55, 76}, // alto  G3..E5
	{48, 67}, // tenor C3..G4
	{40, 60}, // bass  E2..C4
}

const (
	smallLeap    = 5
	innerLeapCap = 9  // major sixth
	bassLeapCap  = 12 // octave

	scoreCommonTone = 100.0
	scoreStepwise   = 80.0
	scoreSmallLeap  = 60.0
	scoreLeapBase   = 40.0
)

// realizeVoices fills in the chord's four voices for a given melody pitch.
// The soprano is fixed to the melody; alto, tenor and bass are derived from
// the chord tones under the doubling policy, then adjusted for voice
// leading against the previous chord, spacing, and parallel avoidance.
// The first chord of a sequence (prev nil or a rest) only enforces spacing.
func realizeVoices(c *Chord, melody int, prev *Chord, key Key) {
	c.Voices[VoiceSoprano] = melody
	assigned := assignLowerTones(c, melody)

	// Initial placement: each lower voice sits at the octave of its tone
	// closest to one octave below the voice above it, clamped into range.
	upper := melody
	for i := VoiceAlto; i <= VoiceBass; i++ {
		p := nearestOctaveOf(assigned[i-1], upper-12)
		p = clampToRange(p, i)
		c.Voices[i] = p
		upper = p
	}

	havePrev := prev != nil && !prev.IsRest()
	if havePrev {
		for i := VoiceAlto; i <= VoiceBass; i++ {
			c.Voices[i] = leadVoice(c, i, c.Voices[i], prev)
		}
		resolveTendencyTones(c, prev, key)
	}

	enforceSpacing(c)
	if havePrev {
		fixParallels(c, prev)
	}
}

// assignLowerTones picks the pitch classes for alto, tenor and bass.
// Doubling policy by inversion: root position doubles the root, first
// inversion doubles the root (never the bass third), second inversion
// doubles the fifth, and seventh chords use all four distinct tones.
func assignLowerTones(c *Chord, melody int) [3]int {
	tones := c.Tones()
	bass := c.bassTone()

	needed := make([]int, 0, 4)
	needed = append(needed, tones...)
	if len(tones) == 3 {
		doubled := tones[0]
		if c.Inversion == 2 {
			doubled = tones[2]
		}
		needed = append(needed, doubled)
	}

	// The soprano covers one instance of its own pitch class.
	needed = removeOnce(needed, pitchClass(melody))
	for len(needed) > 3 {
		needed = needed[:len(needed)-1]
	}
	for len(needed) < 3 {
		needed = append(needed, tones[0])
	}

	// The bass slot is dictated by the inversion; the remaining two tones
	// go to alto and tenor in member order.
	rest := removeOnce(needed, bass)
	if len(rest) > 2 {
		rest = rest[:2]
	}
	for len(rest) < 2 {
		rest = append(rest, tones[0])
	}
	return [3]int{rest[0], rest[1], bass}
}

// removeOnce drops the first instance of pc, if present.
func removeOnce(pcs []int, pc int) []int {
	for i, v := range pcs {
		if v == pc {
			out := make([]int, 0, len(pcs)-1)
			out = append(out, pcs[:i]...)
			out = append(out, pcs[i+1:]...)
			return out
		}
	}
	return pcs
}

// leadVoice applies the strict voice-leading priority for one voice:
// common tone, stepwise motion, small leap, then a scored search over all
// in-range octaves of the chord tones.
func leadVoice(c *Chord, voice, placed int, prev *Chord) int {
	prevPitch := prev.Voices[voice]
	if prevPitch == Rest {
		return placed
	}

	// Common tone: hold the previous pitch, re-octaved only for range.
	if pitchClass(placed) == pitchClass(prevPitch) {
		return clampToRange(prevPitch, voice)
	}

	// Stepwise: the assigned tone sits a semitone from the previous pitch
	// class, so take it right next to the previous pitch.
	if pcDistance(placed, prevPitch) == 1 {
		return clampToRange(nearestOctaveOf(pitchClass(placed), prevPitch), voice)
	}

	if abs(placed-prevPitch) <= smallLeap {
		return placed
	}

	// Large leap: score every chord tone in every in-range octave and keep
	// the best candidate under the voice's leap cap.
	leapCap := innerLeapCap
	if voice == VoiceBass {
		leapCap = bassLeapCap
	}
	r := voiceRanges[voice]
	best, bestScore := -1, -1e9
	for _, pc := range c.Tones() {
		for p := r.min; p <= r.max; p++ {
			if pitchClass(p) != pc {
				continue
			}
			if abs(p-prevPitch) > leapCap {
				continue
			}
			s := candidateScore(p, prevPitch)
			if s > bestScore {
				best, bestScore = p, s
			}
		}
	}
	if best < 0 {
		// No in-range candidate under the cap; degrade to the
		// range-clamped nearest octave of the assigned tone.
		return clampToRange(nearestOctaveOf(pitchClass(placed), prevPitch), voice)
	}
	return best
}

func candidateScore(p, prevPitch int) float64 {
	d := abs(p - prevPitch)
	switch {
	case pitchClass(p) == pitchClass(prevPitch):
		return scoreCommonTone
	case d <= 2:
		return scoreStepwise
	case d <= smallLeap:
		return scoreSmallLeap
	default:
		return scoreLeapBase - float64(d)
	}
}

// resolveTendencyTones overrides the generic search for voices that held a
// tendency tone in the previous chord: a leading tone after a
// dominant-functioned chord resolves up to the tonic, and a chordal seventh
// held in the bass resolves down by step.
func resolveTendencyTones(c, prev *Chord, key Key) {
	if prev.Role == RoleDominant {
		leading := key.DegreePitchClass(6)
		tonic := key.DegreePitchClass(0)
		for i := VoiceAlto; i <= VoiceBass; i++ {
			pp := prev.Voices[i]
			if pp == Rest || pitchClass(pp) != leading {
				continue
			}
			up := pitchClass(tonic - leading)
			c.Voices[i] = clampToRange(pp+up, i)
		}
	}

	if prev.Quality.IsSeventh() {
		seventh := prev.Tones()[3]
		pb := prev.Voices[VoiceBass]
		if pb != Rest && pitchClass(pb) == seventh {
			for _, step := range []int{1, 2} {
				cand := pb - step
				if c.HasTone(pitchClass(cand)) {
					c.Voices[VoiceBass] = clampToRange(cand, VoiceBass)
					break
				}
			}
		}
	}
}

// enforceSpacing keeps each adjacent voice pair within an octave and
// uncrossed, correcting by octave-shifting the lower voice.
func enforceSpacing(c *Chord) {
	for i := VoiceSoprano; i < VoiceBass; i++ {
		upper, lower := c.Voices[i], c.Voices[i+1]
		if upper == Rest || lower == Rest {
			continue
		}
		for lower > upper {
			lower -= 12
		}
		for upper-lower > 12 {
			lower += 12
		}
		c.Voices[i+1] = lower
	}
}

func isPerfect(interval int) bool {
	return interval == 0 || interval == 7
}

// fixParallels breaks parallel and direct fifths/octaves. Voices are
// visited top-down: a lower voice arriving at a perfect interval by
// similar motion against any voice above it is reassigned to the nearest
// alternative chord tone inside its spacing window, so the correction can
// never re-crack spacing or cross the stack. Applied last, after spacing.
func fixParallels(c, prev *Chord) {
	for lo := VoiceAlto; lo <= VoiceBass; lo++ {
		cl := c.Voices[lo]
		if cl == Rest || prev.Voices[lo] == Rest {
			continue
		}
		if !similarPerfectAbove(c, prev, lo, cl) {
			continue
		}
		if alt, ok := alternativeTone(c, prev, lo); ok {
			c.Voices[lo] = alt
		}
	}
}

// similarPerfect reports whether voices hi and lo, with lo placed at cl,
// arrive at a perfect interval by similar motion.
func similarPerfect(c, prev *Chord, hi, lo, cl int) bool {
	cu := c.Voices[hi]
	pu, pl := prev.Voices[hi], prev.Voices[lo]
	if cu == Rest || cl == Rest || pu == Rest || pl == Rest {
		return false
	}
	du, dl := cu-pu, cl-pl
	sameDir := (du > 0 && dl > 0) || (du < 0 && dl < 0)
	return sameDir && isPerfect(pitchClass(cu-cl))
}

// carriedPerfect is a strict parallel: the pair was already on a perfect
// interval and lands on one again in similar motion. Direct (hidden)
// intervals approach from a non-perfect interval instead.
func carriedPerfect(c, prev *Chord, hi, lo, cl int) bool {
	return similarPerfect(c, prev, hi, lo, cl) &&
		isPerfect(pitchClass(prev.Voices[hi]-prev.Voices[lo]))
}

func similarPerfectAbove(c, prev *Chord, lo, cl int) bool {
	for hi := VoiceSoprano; hi < lo; hi++ {
		if similarPerfect(c, prev, hi, lo, cl) {
			return true
		}
	}
	return false
}

func carriedPerfectAbove(c, prev *Chord, lo, cl int) bool {
	for hi := VoiceSoprano; hi < lo; hi++ {
		if carriedPerfect(c, prev, hi, lo, cl) {
			return true
		}
	}
	return false
}

// spacingWindow bounds the pitches voice lo may take without crossing or
// overspacing against its neighbors: at most an octave below the voice
// above, and at most an octave above the voice below.
func spacingWindow(c *Chord, lo int) (int, int) {
	above := c.Voices[lo-1]
	if above == Rest {
		r := voiceRanges[lo]
		return r.min, r.max
	}
	low, high := above-12, above
	if lo < VoiceBass {
		if below := c.Voices[lo+1]; below != Rest {
			if below > low {
				low = below
			}
			if below+12 < high {
				high = below + 12
			}
		}
	}
	return low, high
}

// alternativeTone searches the chord tones inside the voice's spacing
// window for the nearest pitch that moves cleanly against every voice
// above. When no candidate clears direct intervals too, a candidate that
// at least avoids strict parallels is accepted; failing even that, the
// voice is left alone.
func alternativeTone(c, prev *Chord, lo int) (int, bool) {
	low, high := spacingWindow(c, lo)
	cur := c.Voices[lo]

	best, bestDist, found := 0, 1<<30, false
	fallback, fallbackDist, haveFallback := 0, 1<<30, false
	for cand := low; cand <= high; cand++ {
		if cand == cur || !c.HasTone(pitchClass(cand)) {
			continue
		}
		d := abs(cand - cur)
		switch {
		case !similarPerfectAbove(c, prev, lo, cand):
			if d < bestDist {
				best, bestDist, found = cand, d, true
			}
		case !carriedPerfectAbove(c, prev, lo, cand):
			if d < fallbackDist {
				fallback, fallbackDist, haveFallback = cand, d, true
			}
		}
	}
	if found {
		return best, true
	}
	// Only trade one direct interval for another when the current pitch
	// carries a strict parallel.
	if haveFallback && carriedPerfectAbove(c, prev, lo, cur) {
		return fallback, true
	}
	return 0, false
}

// clampToRange octave-shifts a pitch into the voice's register.
func clampToRange(p, voice int) int {
	r := voiceRanges[voice]
	for p < r.min {
		p += 12
	}
	for p > r.max {
		p -= 12
	}
	return p
}

// nearestOctaveOf returns the pitch of class pc closest to target.
func nearestOctaveOf(pc, target int) int {
	best, bestDist := target, 1<<30
	for p := target - 18; p <= target+18; p++ {
		if pitchClass(p) != pc {
			continue
		}
		if d := abs(p - target); d < bestDist {
			best, bestDist = p, d
		}
	}
	return best
}
