package drill

import (
	"math"

	"github.com/kotoba-app/kotoba/internal/vocab"
	"github.com/kotoba-app/kotoba/internal/weights"
)

// WeightedWord pairs a word with its current selection weight.
type WeightedWord struct {
	Word   vocab.Word
	Weight float64
}

// Join attaches stored weights to words, keeping word order. Words
// without a usable stored weight get the baseline; weights below the
// floor are raised to it.
func Join(words []vocab.Word, stored weights.Weights, cfg Config) []WeightedWord {
	out := make([]WeightedWord, len(words))
	for i, w := range words {
		weight, ok := stored[w.ID]
		if !ok || !(weight > 0) || math.IsInf(weight, 0) {
			weight = cfg.Baseline
		}
		if weight < cfg.Floor {
			weight = cfg.Floor
		}
		out[i] = WeightedWord{Word: w, Weight: weight}
	}
	return out
}
