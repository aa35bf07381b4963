package drill

import (
	"math"
	"math/rand/v2"
)

// Selector draws words with probability proportional to their weight.
type Selector struct {
	rng *rand.Rand
}

// NewSelector returns a Selector drawing from rng. A nil rng uses a
// randomly seeded source.
func NewSelector(rng *rand.Rand) *Selector {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Selector{rng: rng}
}

// Pick returns the index of the drawn word. ok is false only for an
// empty slice.
func (s *Selector) Pick(words []WeightedWord) (index int, ok bool) {
	if len(words) == 0 {
		return -1, false
	}

	scale := 1.0
	total := sumWeights(words, scale)
	if math.IsInf(total, 1) {
		// Rescale by the largest weight so the sum fits in a float64.
		var biggest float64
		for _, w := range words {
			biggest = max(biggest, effectiveWeight(w.Weight))
		}
		scale = 1 / biggest
		total = sumWeights(words, scale)
	}
	if !(total > 0) || math.IsInf(total, 0) {
		return s.rng.IntN(len(words)), true
	}

	r := s.rng.Float64() * total
	for i, w := range words {
		r -= effectiveWeight(w.Weight) * scale
		if r <= 0 {
			return i, true
		}
	}
	// Floating point drift can leave r slightly above zero.
	return len(words) - 1, true
}

func sumWeights(words []WeightedWord, scale float64) float64 {
	var total float64
	for _, w := range words {
		total += effectiveWeight(w.Weight) * scale
	}
	return total
}

// effectiveWeight clamps w into [0, MaxFloat64]; NaN counts as zero.
func effectiveWeight(w float64) float64 {
	if !(w > 0) {
		return 0
	}
	return min(w, math.MaxFloat64)
}
