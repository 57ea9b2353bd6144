package scoring

import (
	"fmt"
	"math"
)

// ComparisonMatrix is an immutable n×n pairwise-comparison matrix. Entry
// (i, j) states how many times item i is preferred over item j.
//
// The zero value is an empty matrix and is rejected by the engine.
type ComparisonMatrix struct {
	n    int
	data []float64
}

// FromRows builds a matrix from a full row-major grid. The grid must be
// square, non-empty, strictly positive and carry 1 on the diagonal.
// Reciprocity is not checked; use FromUpperTriangle to enforce it.
func FromRows(rows [][]float64) (ComparisonMatrix, error) {
	n := len(rows)
	if n < 1 {
		return ComparisonMatrix{}, fmt.Errorf("%w: matrix has no rows", ErrInvalidMatrix)
	}
	data := make([]float64, 0, n*n)
	for i, row := range rows {
		if len(row) != n {
			return ComparisonMatrix{}, fmt.Errorf("%w: row %d has %d columns, want %d", ErrInvalidMatrix, i, len(row), n)
		}
		for j, v := range row {
			if err := checkEntry(i, j, v); err != nil {
				return ComparisonMatrix{}, err
			}
		}
		data = append(data, row...)
	}
	return ComparisonMatrix{n: n, data: data}, nil
}

// FromUpperTriangle builds a reciprocal matrix from the cells above the
// diagonal of a square grid. Diagonal and lower-triangle cells are ignored:
// the diagonal is set to 1 and (j, i) is derived as 1/(i, j).
func FromUpperTriangle(rows [][]float64) (ComparisonMatrix, error) {
	n := len(rows)
	if n < 1 {
		return ComparisonMatrix{}, fmt.Errorf("%w: matrix has no rows", ErrInvalidMatrix)
	}
	for i, row := range rows {
		if len(row) != n {
			return ComparisonMatrix{}, fmt.Errorf("%w: row %d has %d columns, want %d", ErrInvalidMatrix, i, len(row), n)
		}
	}
	m := ComparisonMatrix{n: n, data: make([]float64, n*n)}
	for i := 0; i < n; i++ {
		m.data[i*n+i] = 1
		for j := i + 1; j < n; j++ {
			v := rows[i][j]
			if err := checkEntry(i, j, v); err != nil {
				return ComparisonMatrix{}, err
			}
			m.data[i*n+j] = v
			m.data[j*n+i] = 1 / v
		}
	}
	return m, nil
}

// Identity returns the n×n matrix of all ones: every item judged equal.
func Identity(n int) ComparisonMatrix {
	if n < 1 {
		return ComparisonMatrix{}
	}
	data := make([]float64, n*n)
	for i := range data {
		data[i] = 1
	}
	return ComparisonMatrix{n: n, data: data}
}

func checkEntry(i, j int, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return fmt.Errorf("%w: entry (%d,%d) = %v must be a positive finite number", ErrInvalidMatrix, i, j, v)
	}
	if i == j && v != 1 {
		return fmt.Errorf("%w: diagonal entry (%d,%d) = %v, want 1", ErrInvalidMatrix, i, j, v)
	}
	return nil
}

// Size returns n.
func (m ComparisonMatrix) Size() int { return m.n }

// At returns entry (i, j).
func (m ComparisonMatrix) At(i, j int) float64 { return m.data[i*m.n+j] }

// Rows returns a copy of the matrix as a row-major grid.
func (m ComparisonMatrix) Rows() [][]float64 {
	rows := make([][]float64, m.n)
	for i := range rows {
		rows[i] = append([]float64(nil), m.data[i*m.n:(i+1)*m.n]...)
	}
	return rows
}

func (m ComparisonMatrix) validate() error {
	if m.n < 1 || len(m.data) != m.n*m.n {
		return fmt.Errorf("%w: empty matrix", ErrInvalidMatrix)
	}
	for i := 0; i < m.n; i++ {
		for j := 0; j < m.n; j++ {
			if err := checkEntry(i, j, m.At(i, j)); err != nil {
				return err
			}
		}
	}
	return nil
}
