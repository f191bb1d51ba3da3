// Package harmony implements a deterministic four-part (SATB) harmonization
// engine: key inference, chord selection, four-voice realization under
// classical voice-leading constraints, progression scoring and refinement,
// and per-instrument part rendering. The engine is pure and synchronous; it
// performs no I/O and holds no state between calls.
package harmony

// Rest is the sentinel pitch marking silence in a timed-note sequence and
// in realized chord voices.
const Rest = -1

// TimedNote is one event of a melodic line: an absolute MIDI pitch (or
// Rest), a duration and a start offset, both counted in divisions.
type TimedNote struct {
	Pitch    int
	Duration int
	Offset   int
}

// IsRest reports whether the note is the rest sentinel.
func (n TimedNote) IsRest() bool {
	return n.Pitch == Rest
}

// pitchClass folds an absolute pitch onto 0..11.
func pitchClass(pitch int) int {
	return ((pitch % 12) + 12) % 12
}

// pcDistance returns the shortest circular distance between two pitch
// classes (0..6).
func pcDistance(a, b int) int {
	d := pitchClass(a - b)
	if d > 6 {
		d = 12 - d
	}
	return d
}

// abs is integer absolute value.
func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
