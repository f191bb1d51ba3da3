package harmony

// Base selection weights per scale degree; tonic, dominant and subdominant
// lead, supertonic and submediant follow, everything else is neutral.
var degreeWeights = [7]float64{3.0, 1.5, 1.0, 2.0, 2.5, 1.5, 1.0}

const (
	weightPerturbation = 0.25
	beatsPerCycle      = 4
	leadingToneDegree  = 6
	dominantDegree     = 4
	subdominantDegree  = 3
	tonicDegree        = 0
)

// Generator produces one chord per melodic step, threading the rolling
// voice-leading context through the run. One Generator serves exactly one
// harmonization pass and must not be shared.
type Generator struct {
	key  Key
	rng  *Rand
	opts *Options

	prev       *Chord
	prevMelody int
	measurePos int
	phrasePos  int
	variation  float64
}

// NewGenerator builds a generator for one pass. The variation amount for
// the whole pass is drawn from the RNG up front.
func NewGenerator(key Key, rng *Rand, opts *Options) *Generator {
	g := &Generator{
		key:        key,
		rng:        rng,
		opts:       opts.normalized(),
		prevMelody: Rest,
	}
	g.variation = rng.Next() * g.opts.VariationWeight
	return g
}

// Generate harmonizes a monophonic melody line, returning one chord per
// timed note. Rests yield sentinel chords and advance the positional
// counters without selecting harmony.
func (g *Generator) Generate(line []TimedNote) []Chord {
	chords := make([]Chord, 0, len(line))
	for i, n := range line {
		if n.IsRest() {
			chords = append(chords, restChord())
			g.advance(nil, Rest)
			continue
		}
		c := g.harmonizeStep(n.Pitch, i == len(line)-1)
		chords = append(chords, c)
		g.advance(&chords[len(chords)-1], n.Pitch)
	}
	return chords
}

// harmonizeStep selects and realizes the chord for one melody pitch.
func (g *Generator) harmonizeStep(melody int, phraseEnd bool) Chord {
	melodyDegree := g.key.DegreeOf(melody)

	var degree int
	var quality Quality
	if melodyDegree < 0 {
		// Chromatic fallback: an off-scale note is carried by the
		// diminished leading-tone triad.
		degree = leadingToneDegree
		quality = QualityDiminished
	} else {
		degree = g.selectChordDegree(melodyDegree, phraseEnd)
		quality = DiatonicQuality(degree, g.key.Mode)
	}

	c := Chord{
		Root:    g.key.DegreePitchClass(degree),
		Quality: quality,
		Role:    degreeRoles[degree],
		Roman:   RomanNumeral(degree, g.key.Mode),
	}

	// Inversion follows the melody's chord member: third on top selects
	// first inversion, fifth on top second inversion.
	switch c.memberIndex(pitchClass(melody)) {
	case 1:
		c.Inversion = 1
	case 2:
		c.Inversion = 2
	}

	realizeVoices(&c, melody, g.prev, g.key)
	return c
}

// selectChordDegree picks a scale degree whose diatonic triad contains the
// melody degree, honoring phrase-end and strong-beat policy before the
// weighted random draw.
func (g *Generator) selectChordDegree(melodyDegree int, phraseEnd bool) int {
	candidates := candidateDegrees(melodyDegree)

	if phraseEnd {
		if melodyDegree == tonicDegree {
			return tonicDegree
		}
		if melodyDegree == dominantDegree || melodyDegree == leadingToneDegree {
			return dominantDegree
		}
	}

	// Strong beats prefer the primary triads.
	if g.measurePos%2 == 0 {
		for _, pref := range []int{tonicDegree, subdominantDegree, dominantDegree} {
			for _, c := range candidates {
				if c == pref {
					return pref
				}
			}
		}
	}

	return g.weightedDraw(candidates)
}

// candidateDegrees lists the degrees whose triad (degree, degree+2,
// degree+4 mod 7) contains the melody degree.
func candidateDegrees(melodyDegree int) []int {
	out := make([]int, 0, 3)
	for _, off := range []int{0, 5, 3} { // melody as root, third, fifth
		out = append(out, (melodyDegree+off)%7)
	}
	return out
}

// weightedDraw perturbs the base weights by the pass's variation amount and
// selects by cumulative subtraction.
func (g *Generator) weightedDraw(candidates []int) int {
	weights := make([]float64, len(candidates))
	total := 0.0
	for i, d := range candidates {
		w := degreeWeights[d] + (g.rng.Next()-0.5)*2*weightPerturbation*g.variation
		if w < 0.1 {
			w = 0.1
		}
		weights[i] = w
		total += w
	}
	r := g.rng.Next() * total
	for i, w := range weights {
		r -= w
		if r <= 0 {
			return candidates[i]
		}
	}
	return candidates[len(candidates)-1]
}

// advance updates the rolling context after a chord is finalized.
func (g *Generator) advance(c *Chord, melody int) {
	g.prev = c
	g.prevMelody = melody
	g.measurePos = (g.measurePos + 1) % beatsPerCycle
	g.phrasePos++
}
