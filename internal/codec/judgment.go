package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidJudgment is returned for text that is not a positive number or
// fraction.
var ErrInvalidJudgment = errors.New("invalid judgment")

const judgmentEpsilon = 1e-9

// SaatyScale lists the judgments offered by the comparison forms, from
// "extremely less important" to "extremely more important".
var SaatyScale = []string{
	"1/9", "1/8", "1/7", "1/6", "1/5", "1/4", "1/3", "1/2",
	"1", "2", "3", "4", "5", "6", "7", "8", "9",
}

// ParseJudgment reads "k", "1/k", "a/b" or a decimal into a float.
func ParseJudgment(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidJudgment)
	}

	var v float64
	if num, den, ok := strings.Cut(s, "/"); ok {
		n, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidJudgment, s)
		}
		d, err := strconv.ParseFloat(strings.TrimSpace(den), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidJudgment, s)
		}
		if d == 0 {
			return 0, fmt.Errorf("%w: %q has zero denominator", ErrInvalidJudgment, s)
		}
		v = n / d
	} else {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidJudgment, s)
		}
		v = f
	}

	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, fmt.Errorf("%w: %q must be positive", ErrInvalidJudgment, s)
	}
	return v, nil
}

// FormatJudgment writes v as "1/k" when it is the reciprocal of an integer,
// as an integer string when it is integral, and as a shortest round-trip
// decimal otherwise.
func FormatJudgment(v float64) string {
	if v > 0 && v < 1 {
		k := math.Round(1 / v)
		if k >= 1 && k < 1<<53 && math.Abs(1/k-v) <= judgmentEpsilon {
			return "1/" + strconv.FormatInt(int64(k), 10)
		}
	}
	if v >= 1 {
		r := math.Round(v)
		if math.Abs(r-v) <= judgmentEpsilon && r < 1<<53 {
			return strconv.FormatInt(int64(r), 10)
		}
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Judgment is a comparison value that travels as judgment text. It decodes
// from either a JSON number or a string such as "1/3". Zero, as a number or
// as "0", marks a blank cell: the desktop tool saves unfilled cells that way.
type Judgment float64

func (j Judgment) MarshalJSON() ([]byte, error) {
	return json.Marshal(FormatJudgment(float64(j)))
}

func (j *Judgment) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if strings.TrimSpace(s) == "0" {
			*j = 0
			return nil
		}
		v, err := ParseJudgment(s)
		if err != nil {
			return err
		}
		*j = Judgment(v)
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidJudgment, string(data))
	}
	if f < 0 {
		return fmt.Errorf("%w: %s must be positive", ErrInvalidJudgment, string(data))
	}
	*j = Judgment(f)
	return nil
}

// Grid is a row-major matrix of judgments.
type Grid [][]Judgment

// Floats converts the grid to plain floats.
func (g Grid) Floats() [][]float64 {
	out := make([][]float64, len(g))
	for i, row := range g {
		out[i] = make([]float64, len(row))
		for j, v := range row {
			out[i][j] = float64(v)
		}
	}
	return out
}

// GridFrom converts plain floats to a grid.
func GridFrom(rows [][]float64) Grid {
	out := make(Grid, len(rows))
	for i, row := range rows {
		out[i] = make([]Judgment, len(row))
		for j, v := range row {
			out[i][j] = Judgment(v)
		}
	}
	return out
}
