package harmony

// Candidate-scoring weights for the polyphonic chord chooser.
const (
	scoreChordMember = 2.0
	scoreSuspension  = 1.0
	scoreScaleTone   = 0.5
	scoreChromatic   = -1.0
)

// simultaneity is the sounding pitch per line at one melody onset (Rest
// where a line is silent).
type simultaneity struct {
	pitches []int
}

// GeneratePolyphonic harmonizes multiple synchronized lines. The first
// line is the melody and supplies the timeline; at each of its onsets the
// sounding pitches of all lines are collected and every diatonic degree
// (plus secondary dominants) is tried as a chord root, scored by how many
// of the sounding pitch classes it covers. The inversion is read from the
// lowest sounding pitch.
func (g *Generator) GeneratePolyphonic(lines [][]TimedNote) []Chord {
	melody := lines[0]
	slices := buildSlices(lines, melody)

	chords := make([]Chord, 0, len(melody))
	for i, n := range melody {
		if n.IsRest() {
			chords = append(chords, restChord())
			g.advance(nil, Rest)
			continue
		}
		c := g.harmonizeSlice(slices, i, n.Pitch)
		chords = append(chords, c)
		g.advance(&chords[len(chords)-1], n.Pitch)
	}
	return chords
}

// buildSlices samples every line at each melody onset.
func buildSlices(lines [][]TimedNote, melody []TimedNote) []simultaneity {
	slices := make([]simultaneity, len(melody))
	for i, n := range melody {
		pitches := make([]int, len(lines))
		for li, line := range lines {
			pitches[li] = pitchAt(line, n.Offset)
		}
		slices[i] = simultaneity{pitches: pitches}
	}
	return slices
}

// pitchAt returns the pitch sounding in a line at an offset, or Rest.
func pitchAt(line []TimedNote, offset int) int {
	for _, n := range line {
		if offset >= n.Offset && offset < n.Offset+n.Duration {
			return n.Pitch
		}
	}
	return Rest
}

// chordCandidate is one root/quality pair under evaluation.
type chordCandidate struct {
	root    int // pitch class
	quality Quality
	degree  int // diatonic degree, or the tonicized degree for secondaries
	roman   string
	role    Role
}

// harmonizeSlice scores every candidate chord against the sounding pitches
// and realizes the winner.
func (g *Generator) harmonizeSlice(slices []simultaneity, idx, melody int) Chord {
	cur := slices[idx].pitches

	best := chordCandidate{}
	bestScore := -1e9
	for _, cand := range g.sliceCandidates() {
		s := g.scoreCandidate(cand, slices, idx)
		if s > bestScore {
			best, bestScore = cand, s
		}
	}

	c := Chord{
		Root:    best.root,
		Quality: best.quality,
		Role:    best.role,
		Roman:   best.roman,
	}

	// Inversion comes straight from the lowest sounding pitch.
	if low, ok := lowestPitch(cur); ok {
		if m := c.memberIndex(pitchClass(low)); m > 0 {
			c.Inversion = m
		}
	}

	realizeVoices(&c, melody, g.prev, g.key)
	return c
}

// sliceCandidates enumerates the seven diatonic triads plus, when seventh
// chords are allowed, a secondary dominant a perfect fifth above each
// diatonic root.
func (g *Generator) sliceCandidates() []chordCandidate {
	cands := make([]chordCandidate, 0, 14)
	for d := 0; d < 7; d++ {
		cands = append(cands, chordCandidate{
			root:    g.key.DegreePitchClass(d),
			quality: DiatonicQuality(d, g.key.Mode),
			degree:  d,
			roman:   RomanNumeral(d, g.key.Mode),
			role:    degreeRoles[d],
		})
	}
	if !g.opts.DisableSeventhChords {
		for d := 0; d < 7; d++ {
			cands = append(cands, chordCandidate{
				root:    pitchClass(g.key.DegreePitchClass(d) + 7),
				quality: QualityDominant7,
				degree:  d,
				roman:   "V7/" + RomanNumeral(d, g.key.Mode),
				role:    RoleDominant,
			})
		}
	}
	return cands
}

// scoreCandidate awards full credit for covered chord tones, partial
// credit for suspensions and scale tones, and a penalty for chromatic
// mismatches.
func (g *Generator) scoreCandidate(cand chordCandidate, slices []simultaneity, idx int) float64 {
	tones := (&Chord{Root: cand.root, Quality: cand.quality}).Tones()
	score := 0.0
	for li, p := range slices[idx].pitches {
		if p == Rest {
			continue
		}
		pc := pitchClass(p)
		switch {
		case containsPC(tones, pc):
			score += scoreChordMember
		case g.isSuspension(slices, idx, li):
			score += scoreSuspension
		case g.key.InScale(p):
			score += scoreScaleTone
		default:
			score += scoreChromatic
		}
	}
	return score
}

// isSuspension tags a pitch that is held over from the previous slice in
// the same line and resolves down by one or two semitones at the next.
func (g *Generator) isSuspension(slices []simultaneity, idx, line int) bool {
	if idx == 0 || idx+1 >= len(slices) {
		return false
	}
	cur := slices[idx].pitches[line]
	prev := slices[idx-1].pitches[line]
	next := slices[idx+1].pitches[line]
	if cur == Rest || prev == Rest || next == Rest {
		return false
	}
	held := pitchClass(prev) == pitchClass(cur)
	resolves := cur-next == 1 || cur-next == 2
	return held && resolves
}

func containsPC(pcs []int, pc int) bool {
	for _, v := range pcs {
		if v == pc {
			return true
		}
	}
	return false
}

func lowestPitch(pitches []int) (int, bool) {
	low, found := 0, false
	for _, p := range pitches {
		if p == Rest {
			continue
		}
		if !found || p < low {
			low, found = p, true
		}
	}
	return low, found
}
