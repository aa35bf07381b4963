// Package drill implements adaptive vocabulary drilling: weighted word
// selection, answer grading with weight updates, session scoring and the
// per-round state machine.
package drill

import (
	"fmt"
	"math"
)

// Config holds the weight update constants.
type Config struct {
	// Baseline is the weight of a word that has never been graded.
	Baseline float64 `mapstructure:"baseline"`
	// Shrink divides the weight after a correct answer.
	Shrink float64 `mapstructure:"shrink"`
	// Growth multiplies the weight after an incorrect answer.
	Growth float64 `mapstructure:"growth"`
	// Floor is the minimum weight a correct answer can produce.
	Floor float64 `mapstructure:"floor"`
	// MasteryThreshold is the lifetime correct count at which a word is
	// reported as mastered.
	MasteryThreshold int `mapstructure:"mastery_threshold"`
}

// DefaultConfig returns the canonical constants: baseline 1, shrink 8,
// growth 10, floor 1 and mastery at 10 correct answers.
func DefaultConfig() Config {
	return Config{
		Baseline:         1,
		Shrink:           8,
		Growth:           10,
		Floor:            1,
		MasteryThreshold: 10,
	}
}

// Validate checks that the constants keep weights positive and make
// correct answers lower a weight and incorrect ones raise it.
func (c Config) Validate() error {
	switch {
	case !(c.Floor > 0):
		return fmt.Errorf("drill floor must be > 0, got %v", c.Floor)
	case c.Baseline < c.Floor:
		return fmt.Errorf("drill baseline (%v) must be >= floor (%v)", c.Baseline, c.Floor)
	case !(c.Shrink > 1):
		return fmt.Errorf("drill shrink must be > 1, got %v", c.Shrink)
	case !(c.Growth > 1):
		return fmt.Errorf("drill growth must be > 1, got %v", c.Growth)
	case c.MasteryThreshold < 1:
		return fmt.Errorf("drill mastery threshold must be >= 1, got %d", c.MasteryThreshold)
	}
	return nil
}

// NextWeight applies a grade to w. Weights saturate at math.MaxFloat64.
func (c Config) NextWeight(w float64, correct bool) float64 {
	w = min(w, math.MaxFloat64)
	if correct {
		return max(c.Floor, w/c.Shrink)
	}
	return min(w*c.Growth, math.MaxFloat64)
}
