package scoring

import (
	"fmt"
	"sort"
)

// RankedAlternative is one row of a FinalRanking.
type RankedAlternative struct {
	Index int     `json:"index"`
	Score float64 `json:"score"`
	Rank  int     `json:"rank"`
}

// FinalRanking is sorted by score descending; equal scores keep their
// original index order.
type FinalRanking []RankedAlternative

// Scores returns the score of each alternative indexed by its original
// position.
func (r FinalRanking) Scores() []float64 {
	out := make([]float64, len(r))
	for _, ra := range r {
		out[ra.Index] = ra.Score
	}
	return out
}

// Best returns the top-ranked alternative. ok is false for an empty ranking.
func (r FinalRanking) Best() (RankedAlternative, bool) {
	if len(r) == 0 {
		return RankedAlternative{}, false
	}
	return r[0], true
}

// Aggregate combines criteria weights with each criterion's alternative
// weights: score_j = sum_i criteriaWeights[i] * perCriterion[i][j].
//
// No renormalization or imputation is done. When every input vector sums
// to 1 the scores do too. A missing criterion vector must be replaced by
// the caller (see UniformWeights) rather than omitted.
func Aggregate(criteriaWeights WeightVector, perCriterion []WeightVector) (FinalRanking, error) {
	n := len(criteriaWeights)
	if n == 0 {
		return nil, fmt.Errorf("%w: no criteria weights", ErrDimensionMismatch)
	}
	if len(perCriterion) != n {
		return nil, fmt.Errorf("%w: %d alternative-weight vectors for %d criteria", ErrDimensionMismatch, len(perCriterion), n)
	}
	m := len(perCriterion[0])
	if m == 0 {
		return nil, fmt.Errorf("%w: no alternatives", ErrDimensionMismatch)
	}
	for i, alt := range perCriterion {
		if len(alt) != m {
			return nil, fmt.Errorf("%w: criterion %d has %d alternative weights, want %d", ErrDimensionMismatch, i, len(alt), m)
		}
	}

	scores := make([]float64, m)
	for i, cw := range criteriaWeights {
		for j, aw := range perCriterion[i] {
			scores[j] += cw * aw
		}
	}
	return rank(scores), nil
}

func rank(scores []float64) FinalRanking {
	out := make(FinalRanking, len(scores))
	for j, s := range scores {
		out[j] = RankedAlternative{Index: j, Score: s}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Score > out[b].Score })
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// Evaluation is the result of running a whole AHP hierarchy.
type Evaluation struct {
	Method                 Method              `json:"method"`
	CriteriaWeights        WeightVector        `json:"criteria_weights"`
	CriteriaConsistency    ConsistencyReport   `json:"criteria_consistency"`
	AlternativeWeights     []WeightVector      `json:"alternative_weights"`
	AlternativeConsistency []ConsistencyReport `json:"alternative_consistency"`
	Ranking                FinalRanking        `json:"ranking"`
}

// MaxCR returns the largest consistency ratio across every matrix of the
// hierarchy.
func (e *Evaluation) MaxCR() float64 {
	max := e.CriteriaConsistency.CR
	for _, r := range e.AlternativeConsistency {
		if r.CR > max {
			max = r.CR
		}
	}
	return max
}

// Consistent reports whether every matrix has CR <= threshold.
func (e *Evaluation) Consistent(threshold float64) bool {
	return e.MaxCR() <= threshold
}

// Evaluate derives criteria weights, alternative weights under every
// criterion, and the final ranking. alternatives[i] compares the
// alternatives with respect to criterion i.
func Evaluate(criteria ComparisonMatrix, alternatives []ComparisonMatrix, method Method) (*Evaluation, error) {
	cw, cr, err := DeriveWeightsWith(criteria, method)
	if err != nil {
		return nil, fmt.Errorf("criteria matrix: %w", err)
	}
	if len(alternatives) != len(cw) {
		return nil, fmt.Errorf("%w: %d alternative matrices for %d criteria", ErrDimensionMismatch, len(alternatives), len(cw))
	}

	ev := &Evaluation{
		Method:                 method,
		CriteriaWeights:        cw,
		CriteriaConsistency:    cr,
		AlternativeWeights:     make([]WeightVector, len(alternatives)),
		AlternativeConsistency: make([]ConsistencyReport, len(alternatives)),
	}
	if ev.Method == "" {
		ev.Method = MethodRowAverage
	}
	for i, am := range alternatives {
		w, r, err := DeriveWeightsWith(am, method)
		if err != nil {
			return nil, fmt.Errorf("alternative matrix for criterion %d: %w", i, err)
		}
		ev.AlternativeWeights[i] = w
		ev.AlternativeConsistency[i] = r
	}

	ev.Ranking, err = Aggregate(cw, ev.AlternativeWeights)
	if err != nil {
		return nil, err
	}
	return ev, nil
}
