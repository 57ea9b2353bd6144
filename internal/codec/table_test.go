package codec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/Verdict/internal/scoring"
)

const machinesCSV = `machine, capacity, reliability
Lathe X, 200, 8
Mill Y, 100, 8
Press Z, 10, 4
`

func TestReadTable(t *testing.T) {
	tbl, err := ReadTable(strings.NewReader(machinesCSV))
	require.NoError(t, err)

	assert.Equal(t, []string{"capacity", "reliability"}, tbl.Criteria)
	assert.Equal(t, []string{"Lathe X", "Mill Y", "Press Z"}, tbl.Alternatives)
	assert.Equal(t, []float64{200, 8}, tbl.Values[0])
}

func TestReadTableErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		target error
	}{
		{"header only", "machine,capacity\n", scoring.ErrEmptyInput},
		{"no criteria", "machine\nLathe\n", scoring.ErrMissingField},
		{"not a number", "machine,capacity\nLathe,lots\n", scoring.ErrInvalidMatrix},
		{"blank name", "machine,capacity\n ,3\n", scoring.ErrMissingField},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadTable(strings.NewReader(tt.input))
			assert.ErrorIs(t, err, tt.target)
		})
	}
}

func TestProjectFromTable(t *testing.T) {
	tbl, err := ReadTable(strings.NewReader(machinesCSV))
	require.NoError(t, err)

	p, err := ProjectFromTable("machines", tbl)
	require.NoError(t, err)

	assert.Equal(t, 2, p.CriteriaCount)
	assert.Equal(t, 3, p.AlternativeCount)
	assert.Equal(t, Grid{{1, 1}, {1, 1}}, p.CriteriaMatrix)

	capacity := p.AlternativeMatrices[0]
	assert.InDelta(t, 2.0, float64(capacity[0][1]), 1e-12)
	// 200/10 is clamped to the top of the scale.
	assert.InDelta(t, 9.0, float64(capacity[0][2]), 1e-12)
	assert.InDelta(t, 1.0/9, float64(capacity[2][0]), 1e-12)

	ev, err := p.Evaluate(scoring.MethodRowAverage)
	require.NoError(t, err)
	assert.Equal(t, 0, ev.Ranking[0].Index)
	assert.Equal(t, 2, ev.Ranking[2].Index)
}

func TestProjectFromTableRejectsNonPositive(t *testing.T) {
	tbl := &Table{
		Criteria:     []string{"cost"},
		Alternatives: []string{"a", "b"},
		Values:       [][]float64{{1}, {0}},
	}
	_, err := ProjectFromTable("x", tbl)
	assert.ErrorIs(t, err, scoring.ErrInvalidMatrix)
}

func TestReadTableRaggedRow(t *testing.T) {
	_, err := ReadTable(strings.NewReader("machine,capacity,reliability\nLathe,3\n"))
	assert.ErrorIs(t, err, scoring.ErrDimensionMismatch)
}
