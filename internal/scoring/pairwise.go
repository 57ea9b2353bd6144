package scoring

import (
	"fmt"
	"math"
)

// AcceptableCR is Saaty's threshold: a consistency ratio at or below it is
// considered acceptable.
const AcceptableCR = 0.10

// Method selects how a priority vector is extracted from a matrix.
type Method string

const (
	// MethodRowAverage normalizes each column and averages each row. It is
	// the canonical method and the one DeriveWeights uses.
	MethodRowAverage Method = "row_average"
	// MethodEigenvector takes the principal eigenvector by power iteration.
	MethodEigenvector Method = "eigenvector"
)

// ParseMethod maps a config or request value to a Method. The empty string
// selects MethodRowAverage.
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case "", MethodRowAverage:
		return MethodRowAverage, nil
	case MethodEigenvector:
		return MethodEigenvector, nil
	default:
		return "", fmt.Errorf("unknown weight method %q", s)
	}
}

// randomIndex is Saaty's random consistency index by matrix size.
var randomIndex = [...]float64{0, 0, 0, 0.58, 0.90, 1.12, 1.24, 1.32, 1.41, 1.45, 1.49}

// RandomIndex returns RI(n). Sizes beyond the table reuse RI(10).
func RandomIndex(n int) float64 {
	if n < 1 {
		return 0
	}
	if n >= len(randomIndex) {
		return randomIndex[len(randomIndex)-1]
	}
	return randomIndex[n]
}

// ConsistencyReport is the advisory consistency diagnostic for one matrix.
type ConsistencyReport struct {
	LambdaMax  float64 `json:"lambda_max"`
	CI         float64 `json:"consistency_index"`
	RI         float64 `json:"random_index"`
	CR         float64 `json:"consistency_ratio"`
	Acceptable bool    `json:"acceptable"`
}

// DeriveWeights computes the priority vector of m with the row-average
// method and reports its consistency. An inconsistent matrix still yields
// weights; only malformed input fails, with ErrInvalidMatrix.
func DeriveWeights(m ComparisonMatrix) (WeightVector, ConsistencyReport, error) {
	return DeriveWeightsWith(m, MethodRowAverage)
}

// DeriveWeightsWith is DeriveWeights with an explicit extraction method.
// For inconsistent matrices the two methods give different weights.
func DeriveWeightsWith(m ComparisonMatrix, method Method) (WeightVector, ConsistencyReport, error) {
	if err := m.validate(); err != nil {
		return nil, ConsistencyReport{}, err
	}

	var w WeightVector
	switch method {
	case "", MethodRowAverage:
		w = rowAverage(m)
	case MethodEigenvector:
		w = principalEigenvector(m)
	default:
		return nil, ConsistencyReport{}, fmt.Errorf("unknown weight method %q", method)
	}

	return w, consistency(m, w), nil
}

func rowAverage(m ComparisonMatrix) WeightVector {
	n := m.n
	colSums := make([]float64, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			colSums[j] += m.At(i, j)
		}
	}

	w := make(WeightVector, n)
	for i := 0; i < n; i++ {
		var rowSum float64
		for j := 0; j < n; j++ {
			rowSum += m.At(i, j) / colSums[j]
		}
		w[i] = rowSum / float64(n)
	}
	return w
}

const (
	powerIterations = 1000
	powerTolerance  = 1e-12
)

// principalEigenvector runs power iteration from the uniform vector. A
// strictly positive matrix has a unique positive Perron vector, so the
// iteration converges without sign or complex handling.
func principalEigenvector(m ComparisonMatrix) WeightVector {
	n := m.n
	w := UniformWeights(n)
	next := make(WeightVector, n)

	for iter := 0; iter < powerIterations; iter++ {
		var total float64
		for i := 0; i < n; i++ {
			var s float64
			for j := 0; j < n; j++ {
				s += m.At(i, j) * w[j]
			}
			next[i] = s
			total += s
		}

		var delta float64
		for i := range next {
			next[i] /= total
			delta = math.Max(delta, math.Abs(next[i]-w[i]))
		}
		w, next = next, w
		if delta < powerTolerance {
			break
		}
	}
	return w
}

// consistency computes lambda_max as the mean of (M·w)_i / w_i, then
// CI = (lambda_max - n) / (n - 1) and CR = CI / RI(n).
func consistency(m ComparisonMatrix, w WeightVector) ConsistencyReport {
	n := m.n
	var lambda float64
	for i := 0; i < n; i++ {
		var s float64
		for j := 0; j < n; j++ {
			s += m.At(i, j) * w[j]
		}
		lambda += s / w[i]
	}
	lambda /= float64(n)

	report := ConsistencyReport{LambdaMax: lambda, RI: RandomIndex(n)}
	if n > 1 {
		report.CI = (lambda - float64(n)) / float64(n-1)
	}
	// RI is 0 for n <= 2, where every reciprocal matrix is consistent.
	if report.RI > 0 {
		report.CR = report.CI / report.RI
	}
	report.Acceptable = report.CR <= AcceptableCR
	return report
}
