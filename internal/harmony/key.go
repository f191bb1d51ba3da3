package harmony

// Mode distinguishes the two supported scale templates.
type Mode int

const (
	ModeMajor Mode = iota
	ModeMinor
)

var (
	majorScale = [7]int{0, 2, 4, 5, 7, 9, 11}
	minorScale = [7]int{0, 2, 3, 5, 7, 8, 10}

	// circleOfFifths maps a non-negative accidental count (mod 12) to the
	// tonic pitch class. Negative counts are mirrored by offsetting +12
	// before the modulo.
	circleOfFifths = [12]int{0, 7, 2, 9, 4, 11, 6, 1, 8, 3, 10, 5}
)

// Key is a tonic pitch class plus a seven-tone scale of semitone offsets.
type Key struct {
	Root  int
	Mode  Mode
	Scale [7]int
}

// ResolveKey maps a signed accidental count (fifths) and a mode string to a
// Key. Any mode other than "minor" selects major.
func ResolveKey(fifths int, mode string) Key {
	idx := fifths % 12
	if idx < 0 {
		idx += 12
	}
	k := Key{Root: circleOfFifths[idx]}
	if mode == "minor" {
		k.Mode = ModeMinor
		k.Scale = minorScale
	} else {
		k.Mode = ModeMajor
		k.Scale = majorScale
	}
	return k
}

// DegreeOf returns the scale-degree index (0..6) of a pitch, or -1 when the
// pitch is off the scale.
func (k Key) DegreeOf(pitch int) int {
	pc := pitchClass(pitch - k.Root)
	for i, off := range k.Scale {
		if off == pc {
			return i
		}
	}
	return -1
}

// DegreePitchClass returns the absolute pitch class of a scale degree.
func (k Key) DegreePitchClass(degree int) int {
	return pitchClass(k.Root + k.Scale[((degree%7)+7)%7])
}

// InScale reports whether a pitch belongs to the key's scale.
func (k Key) InScale(pitch int) bool {
	return k.DegreeOf(pitch) >= 0
}
