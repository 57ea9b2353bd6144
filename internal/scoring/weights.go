package scoring

import (
	"fmt"
	"math"
)

// WeightVector holds one non-negative priority per item, summing to 1.
type WeightVector []float64

// UniformWeights returns m equal weights of 1/m. Callers use it to stand in
// for an alternative-weight vector that was never calculated.
func UniformWeights(m int) WeightVector {
	if m <= 0 {
		return nil
	}
	w := make(WeightVector, m)
	for i := range w {
		w[i] = 1 / float64(m)
	}
	return w
}

// Sum returns the total of all weights.
func (w WeightVector) Sum() float64 {
	var s float64
	for _, v := range w {
		s += v
	}
	return s
}

// Validate checks that w is a distribution over its items: non-empty, no
// negative or non-finite weight, summing to 1 within 0.001. Every failure
// wraps ErrDimensionMismatch.
func (w WeightVector) Validate() error {
	if len(w) == 0 {
		return fmt.Errorf("%w: weight vector is empty", ErrDimensionMismatch)
	}
	for i, v := range w {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: weight %d = %v", ErrDimensionMismatch, i, v)
		}
	}
	if sum := w.Sum(); math.Abs(sum-1.0) > 0.001 {
		return fmt.Errorf("%w: weights sum to %.4f, want 1", ErrDimensionMismatch, sum)
	}
	return nil
}
