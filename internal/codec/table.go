package codec

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/MikeSquared-Agency/Verdict/internal/scoring"
)

// Table is a spreadsheet of alternatives measured on each criterion: one row
// per alternative, one column per criterion, higher values preferred.
type Table struct {
	Criteria     []string
	Alternatives []string
	Values       [][]float64
}

// ReadTable parses CSV whose header is a label followed by criterion names
// and whose rows are an alternative name followed by its measurements.
func ReadTable(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read table: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("%w: table needs a header and at least one row", scoring.ErrEmptyInput)
	}
	header := records[0]
	if len(header) < 2 {
		return nil, fmt.Errorf("%w: table has no criterion columns", scoring.ErrMissingField)
	}

	t := &Table{Criteria: trimAll(header[1:])}
	for i, rec := range records[1:] {
		line := i + 2
		if len(rec) != len(header) {
			return nil, fmt.Errorf("%w: line %d has %d fields, want %d", scoring.ErrDimensionMismatch, line, len(rec), len(header))
		}
		name := strings.TrimSpace(rec[0])
		if name == "" {
			return nil, fmt.Errorf("%w: line %d has no alternative name", scoring.ErrMissingField, line)
		}
		row := make([]float64, len(rec)-1)
		for j, field := range rec[1:] {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d, %s: %q is not a number", scoring.ErrInvalidMatrix, line, t.Criteria[j], field)
			}
			row[j] = v
		}
		t.Alternatives = append(t.Alternatives, name)
		t.Values = append(t.Values, row)
	}
	return t, nil
}

// MaxRatio bounds derived judgments to the Saaty scale.
const MaxRatio = 9.0

// ProjectFromTable builds a project whose alternative matrices compare
// measurements as ratios, clamped to [1/9, 9]. Criteria are judged equally
// important; edit the criteria matrix afterwards to weight them.
func ProjectFromTable(name string, t *Table) (*Project, error) {
	if len(t.Alternatives) < 2 {
		return nil, fmt.Errorf("%w: at least two alternatives are needed", scoring.ErrEmptyInput)
	}
	n, m := len(t.Criteria), len(t.Alternatives)
	for i, row := range t.Values {
		for c, v := range row {
			if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: %s of %s must be positive and finite", scoring.ErrInvalidMatrix, t.Criteria[c], t.Alternatives[i])
			}
		}
	}

	ams := make([]scoring.ComparisonMatrix, n)
	for c := 0; c < n; c++ {
		rows := make([][]float64, m)
		for i := range rows {
			rows[i] = make([]float64, m)
			for j := range rows[i] {
				rows[i][j] = clampRatio(t.Values[i][c] / t.Values[j][c])
			}
		}
		am, err := scoring.FromUpperTriangle(rows)
		if err != nil {
			return nil, fmt.Errorf("criterion %s: %w", t.Criteria[c], err)
		}
		ams[c] = am
	}
	return ProjectFrom(name, t.Criteria, t.Alternatives, scoring.Identity(n), ams), nil
}

func clampRatio(r float64) float64 {
	return math.Max(1/MaxRatio, math.Min(MaxRatio, r))
}

func trimAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = strings.TrimSpace(s)
	}
	return out
}
