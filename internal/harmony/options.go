package harmony

// Options bundles the optional generation knobs. The struct is immutable
// once passed to the engine; zero-value fields are defaulted independently
// so callers can set only what they care about.
type Options struct {
	// VariationWeight scales the random perturbation applied to chord
	// degree weights. 0 keeps the perturbation at its standard size.
	VariationWeight float64

	// DisableSeventhChords keeps the polyphonic scorer away from
	// secondary dominant sevenths. Sevenths are considered by default.
	DisableSeventhChords bool

	// RefineThreshold is the analysis score below which the refinement
	// pass runs.
	RefineThreshold float64

	// MaxAlternatives is how many harmonizations one call produces. The
	// first is the primary result; the rest are re-rolled from shifted
	// seeds and returned as alternatives.
	MaxAlternatives int
}

const (
	defaultRefineThreshold = 70.0
	defaultMaxAlternatives = 1
)

// DefaultOptions returns the standard generation configuration.
func DefaultOptions() *Options {
	return &Options{
		VariationWeight: 1.0,
		RefineThreshold: defaultRefineThreshold,
		MaxAlternatives: defaultMaxAlternatives,
	}
}

// normalized fills unset fields with their defaults.
func (o *Options) normalized() *Options {
	out := DefaultOptions()
	if o == nil {
		return out
	}
	if o.VariationWeight > 0 {
		out.VariationWeight = o.VariationWeight
	}
	out.DisableSeventhChords = o.DisableSeventhChords
	if o.RefineThreshold > 0 {
		out.RefineThreshold = o.RefineThreshold
	}
	if o.MaxAlternatives > 0 {
		out.MaxAlternatives = o.MaxAlternatives
	}
	return out
}
