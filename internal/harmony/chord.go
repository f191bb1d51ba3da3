package harmony

// Quality is the closed set of chord qualities the engine can emit.
type Quality int

const (
	QualityMajor Quality = iota
	QualityMinor
	QualityDiminished
	QualityAugmented
	QualityDominant7
	QualityMajor7
	QualityMinor7
	QualityHalfDim7
	QualityDim7
)

// qualityIntervals lists the semitone offsets from the root per quality.
var qualityIntervals = map[Quality][]int{
	QualityMajor:      {0, 4, 7},
	QualityMinor:      {0, 3, 7},
	QualityDiminished: {0, 3, 6},
	QualityAugmented:  {0, 4, 8},
	QualityDominant7:  {0, 4, 7, 10},
	QualityMajor7:     {0, 4, 7, 11},
	QualityMinor7:     {0, 3, 7, 10},
	QualityHalfDim7:   {0, 3, 6, 10},
	QualityDim7:       {0, 3, 6, 9},
}

// Intervals returns the semitone offsets of the quality's chord tones.
func (q Quality) Intervals() []int {
	return qualityIntervals[q]
}

// IsSeventh reports whether the quality carries a chordal seventh.
func (q Quality) IsSeventh() bool {
	return len(qualityIntervals[q]) == 4
}

func (q Quality) String() string {
	switch q {
	case QualityMajor:
		return "major"
	case QualityMinor:
		return "minor"
	case QualityDiminished:
		return "diminished"
	case QualityAugmented:
		return "augmented"
	case QualityDominant7:
		return "dominant-seventh"
	case QualityMajor7:
		return "major-seventh"
	case QualityMinor7:
		return "minor-seventh"
	case QualityHalfDim7:
		return "half-diminished-seventh"
	case QualityDim7:
		return "diminished-seventh"
	}
	return "unknown"
}

// Role is the harmonic function of a chord within the phrase-level flow
// tonic -> tonic prolongation -> predominant -> dominant -> tonic.
type Role int

const (
	RoleTonic Role = iota
	RoleTonicProlongation
	RolePredominant
	RoleDominant
)

func (r Role) String() string {
	switch r {
	case RoleTonic:
		return "tonic"
	case RoleTonicProlongation:
		return "tonic-prolongation"
	case RolePredominant:
		return "predominant"
	case RoleDominant:
		return "dominant"
	}
	return "unknown"
}

// degreeRoles assigns each scale degree its harmonic function.
var degreeRoles = [7]Role{
	RoleTonic,             // I
	RolePredominant,       // ii
	RoleTonicProlongation, // iii
	RolePredominant,       // IV
	RoleDominant,          // V
	RoleTonicProlongation, // vi
	RoleDominant,          // vii
}

// Diatonic triad qualities by scale degree, per mode.
var (
	majorDegreeQualities = [7]Quality{
		QualityMajor, QualityMinor, QualityMinor, QualityMajor,
		QualityMajor, QualityMinor, QualityDiminished,
	}
	minorDegreeQualities = [7]Quality{
		QualityMinor, QualityDiminished, QualityMajor, QualityMinor,
		QualityMinor, QualityMajor, QualityMajor,
	}

	majorNumerals = [7]string{"I", "ii", "iii", "IV", "V", "vi", "vii°"}
	minorNumerals = [7]string{"i", "ii°", "III", "iv", "v", "VI", "VII"}
)

// DiatonicQuality returns the triad quality of a scale degree in a key.
func DiatonicQuality(degree int, mode Mode) Quality {
	degree = ((degree % 7) + 7) % 7
	if mode == ModeMinor {
		return minorDegreeQualities[degree]
	}
	return majorDegreeQualities[degree]
}

// RomanNumeral returns the label for a diatonic scale degree in a key.
func RomanNumeral(degree int, mode Mode) string {
	degree = ((degree % 7) + 7) % 7
	if mode == ModeMinor {
		return minorNumerals[degree]
	}
	return majorNumerals[degree]
}

// Voice indexes into Chord.Voices.
const (
	VoiceSoprano = 0
	VoiceAlto    = 1
	VoiceTenor   = 2
	VoiceBass    = 3
)

// Chord is one harmonized step: a root and quality, the chosen inversion,
// the four realized voices (soprano, alto, tenor, bass) and analysis labels.
// A rest step is modelled as a sentinel chord with all voices set to Rest.
type Chord struct {
	Root      int // pitch class, Rest for a rest step
	Quality   Quality
	Inversion int
	Voices    [4]int
	Role      Role
	Roman     string
}

// restChord builds the sentinel chord emitted for melodic rests.
func restChord() Chord {
	return Chord{
		Root:   Rest,
		Voices: [4]int{Rest, Rest, Rest, Rest},
	}
}

// IsRest reports whether the chord is the rest sentinel.
func (c *Chord) IsRest() bool {
	return c.Root == Rest
}

// Tones returns the chord's pitch classes in member order (root, third,
// fifth and, for seventh chords, seventh).
func (c *Chord) Tones() []int {
	intervals := c.Quality.Intervals()
	tones := make([]int, len(intervals))
	for i, iv := range intervals {
		tones[i] = pitchClass(c.Root + iv)
	}
	return tones
}

// HasTone reports whether a pitch class is a chord member.
func (c *Chord) HasTone(pc int) bool {
	for _, t := range c.Tones() {
		if t == pc {
			return true
		}
	}
	return false
}

// memberIndex returns the chord-member index of a pitch class (0 root,
// 1 third, 2 fifth, 3 seventh), or -1 for a non-chord tone.
func (c *Chord) memberIndex(pc int) int {
	for i, t := range c.Tones() {
		if t == pc {
			return i
		}
	}
	return -1
}

// bassTone returns the pitch class demanded in the bass by the inversion.
func (c *Chord) bassTone() int {
	tones := c.Tones()
	inv := c.Inversion
	if inv >= len(tones) {
		inv = 0
	}
	return tones[inv]
}

// sharesTone reports whether two chords have at least one common pitch
// class among their realized voices.
func sharesTone(a, b *Chord) bool {
	for _, va := range a.Voices {
		if va == Rest {
			continue
		}
		for _, vb := range b.Voices {
			if vb == Rest {
				continue
			}
			if pitchClass(va) == pitchClass(vb) {
				return true
			}
		}
	}
	return false
}
