package tracker

// Score is the tagged per-frame score of a track entry.  Entries backed by
// a matched detection carry the real detection score, entries produced by
// the visual tracker carry no score at all.  The two cases are kept apart
// rather than overloading the numeric range with a sentinel value.
type Score struct {
	value float32
	real  bool
}

// RealScore returns a Score carrying the given detection score
func RealScore(value float32) Score {
	return Score{
		value: value,
		real:  true,
	}
}

// PredictedScore returns the Score marking a visually predicted entry
func PredictedScore() Score {
	return Score{}
}

// Real reports whether the entry was backed by a matched detection
func (s Score) Real() bool {
	return s.real
}

// Value returns the detection score.  It is only meaningful when Real
// returns true
func (s Score) Value() float32 {
	return s.value
}
