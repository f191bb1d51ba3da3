package harmony

// Rand is a seeded linear congruential generator. Identical seeds produce
// identical draw sequences, which is what makes harmonization output
// reproducible for identical input.
type Rand struct {
	seed uint32
}

// NewRand returns a generator starting from the given seed.
func NewRand(seed uint32) *Rand {
	return &Rand{seed: seed}
}

// SeedFor derives the 32-bit seed for a harmonization run from the raw
// input content and the selected instrument names, in order.
func SeedFor(content []byte, instruments []string) uint32 {
	var h uint32
	for _, b := range content {
		h = h*31 + uint32(b)
	}
	for _, name := range instruments {
		for i := 0; i < len(name); i++ {
			h = h*31 + uint32(name[i])
		}
	}
	return h
}

// Next advances the generator and returns a value in [0, 1).
func (r *Rand) Next() float64 {
	r.seed = r.seed*1664525 + 1013904223
	return float64(r.seed) / (1 << 32)
}
