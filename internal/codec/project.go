package codec

import (
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/MikeSquared-Agency/Verdict/internal/scoring"
)

// Project is the saved form of an AHP decision: names, the criteria
// comparison matrix and one alternative comparison matrix per criterion.
type Project struct {
	Name                string   `json:"name,omitempty"`
	CriteriaCount       int      `json:"criteria_count"`
	AlternativeCount    int      `json:"alternative_count"`
	Criteria            []string `json:"criteria,omitempty"`
	Alternatives        []string `json:"alternatives,omitempty"`
	CriteriaMatrix      Grid     `json:"criteria_matrix"`
	AlternativeMatrices []Grid   `json:"alternative_matrices"`
}

// DecodeProject reads a project document and fills in defaults.
func DecodeProject(r io.Reader) (*Project, error) {
	var p Project
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode project: %w", err)
	}
	p.Normalize()
	return &p, nil
}

// EncodeProject writes p with four-space indentation.
func EncodeProject(w io.Writer, p *Project) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("encode project: %w", err)
	}
	return nil
}

// Normalize infers missing counts from the matrices, generates default
// criterion and alternative names and rewrites every square grid in
// reciprocal form.
func (p *Project) Normalize() {
	reciprocate(p.CriteriaMatrix)
	for _, g := range p.AlternativeMatrices {
		reciprocate(g)
	}
	if p.CriteriaCount == 0 {
		p.CriteriaCount = len(p.CriteriaMatrix)
	}
	if p.AlternativeCount == 0 && len(p.AlternativeMatrices) > 0 {
		p.AlternativeCount = len(p.AlternativeMatrices[0])
	}
	p.Criteria = defaultNames(p.Criteria, p.CriteriaCount, "Criterion")
	p.Alternatives = defaultNames(p.Alternatives, p.AlternativeCount, "Alternative")
}

// reciprocate sets the diagonal to 1 and each lower cell to the reciprocal
// of the cell above the diagonal, which is all Matrices reads. Ragged grids
// and unusable upper cells are left for Matrices to report.
func reciprocate(g Grid) {
	n := len(g)
	for _, row := range g {
		if len(row) != n {
			return
		}
	}
	for i := 0; i < n; i++ {
		g[i][i] = 1
		for j := i + 1; j < n; j++ {
			v := float64(g[i][j])
			if v > 0 && !math.IsInf(v, 0) {
				g[j][i] = Judgment(1 / v)
			}
		}
	}
}

func defaultNames(names []string, n int, prefix string) []string {
	if len(names) >= n {
		return names
	}
	out := append([]string(nil), names...)
	for i := len(out); i < n; i++ {
		out = append(out, fmt.Sprintf("%s %d", prefix, i+1))
	}
	return out
}

// Matrices converts the project to comparison matrices. Only cells above the
// diagonal are read; the lower triangle is derived as their reciprocals.
func (p *Project) Matrices() (scoring.ComparisonMatrix, []scoring.ComparisonMatrix, error) {
	if p.CriteriaCount != len(p.CriteriaMatrix) {
		return scoring.ComparisonMatrix{}, nil, fmt.Errorf("%w: criteria_count %d but matrix has %d rows",
			scoring.ErrDimensionMismatch, p.CriteriaCount, len(p.CriteriaMatrix))
	}
	if len(p.AlternativeMatrices) != p.CriteriaCount {
		return scoring.ComparisonMatrix{}, nil, fmt.Errorf("%w: %d alternative matrices for %d criteria",
			scoring.ErrDimensionMismatch, len(p.AlternativeMatrices), p.CriteriaCount)
	}

	criteria, err := scoring.FromUpperTriangle(p.CriteriaMatrix.Floats())
	if err != nil {
		return scoring.ComparisonMatrix{}, nil, fmt.Errorf("criteria matrix: %w", err)
	}

	alts := make([]scoring.ComparisonMatrix, len(p.AlternativeMatrices))
	for i, g := range p.AlternativeMatrices {
		if len(g) != p.AlternativeCount {
			return scoring.ComparisonMatrix{}, nil, fmt.Errorf("%w: alternative matrix %d has %d rows, want %d",
				scoring.ErrDimensionMismatch, i, len(g), p.AlternativeCount)
		}
		m, err := scoring.FromUpperTriangle(g.Floats())
		if err != nil {
			return scoring.ComparisonMatrix{}, nil, fmt.Errorf("alternative matrix %d: %w", i, err)
		}
		alts[i] = m
	}
	return criteria, alts, nil
}

// Evaluate runs the project's hierarchy with the given method.
func (p *Project) Evaluate(method scoring.Method) (*scoring.Evaluation, error) {
	criteria, alts, err := p.Matrices()
	if err != nil {
		return nil, err
	}
	return scoring.Evaluate(criteria, alts, method)
}

// ProjectFrom builds a project document from matrices, writing full
// reciprocal grids.
func ProjectFrom(name string, criteria []string, alternatives []string, cm scoring.ComparisonMatrix, ams []scoring.ComparisonMatrix) *Project {
	p := &Project{
		Name:                name,
		CriteriaCount:       cm.Size(),
		Criteria:            criteria,
		Alternatives:        alternatives,
		CriteriaMatrix:      GridFrom(cm.Rows()),
		AlternativeMatrices: make([]Grid, len(ams)),
	}
	for i, m := range ams {
		p.AlternativeMatrices[i] = GridFrom(m.Rows())
	}
	if len(ams) > 0 {
		p.AlternativeCount = ams[0].Size()
	}
	p.Normalize()
	return p
}
