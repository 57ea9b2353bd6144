package codec

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJudgment(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"1", 1},
		{"9", 9},
		{"1/3", 1.0 / 3},
		{" 1 / 7 ", 1.0 / 7},
		{"2/4", 0.5},
		{"0.25", 0.25},
		{"2.5", 2.5},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseJudgment(tt.in)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestParseJudgmentErrors(t *testing.T) {
	for _, in := range []string{"", "abc", "1/0", "0", "-3", "1/x", "x/2", "0/5", "NaN", "Inf"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseJudgment(in)
			assert.ErrorIs(t, err, ErrInvalidJudgment)
		})
	}
}

func TestFormatJudgment(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1, "1"},
		{9, "9"},
		{1.0 / 3, "1/3"},
		{1.0 / 9, "1/9"},
		{0.5, "1/2"},
		{2.5, "2.5"},
		{0.35, "0.35"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatJudgment(tt.in))
	}
}

func TestJudgmentRoundTrip(t *testing.T) {
	values := []float64{0.35, 2.5, 1.0 / 6, 1e-3, 123.456, 1e-20, 1e-300}
	for _, s := range SaatyScale {
		v, err := ParseJudgment(s)
		require.NoError(t, err)
		values = append(values, v)
		assert.Equal(t, s, FormatJudgment(v), "scale text must survive formatting")
	}

	for _, v := range values {
		got, err := ParseJudgment(FormatJudgment(v))
		require.NoError(t, err)
		assert.LessOrEqual(t, math.Abs(got-v), 1e-9, "value %v round-tripped to %v", v, got)
	}
}

func TestFormatTinyJudgment(t *testing.T) {
	assert.Equal(t, "1e-20", FormatJudgment(1e-20))
	assert.NotContains(t, FormatJudgment(5e-324), "-")
}

func TestJudgmentJSONBlankAndNegative(t *testing.T) {
	var g Grid
	require.NoError(t, json.Unmarshal([]byte(`[[1, 0.0], ["0", 1]]`), &g))
	assert.Equal(t, Judgment(0), g[0][1])
	assert.Equal(t, Judgment(0), g[1][0])

	out, err := json.Marshal(g)
	require.NoError(t, err)
	var back Grid
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, g, back)

	err = json.Unmarshal([]byte(`[[1, -2]]`), &g)
	assert.ErrorIs(t, err, ErrInvalidJudgment)
	err = json.Unmarshal([]byte(`[[1, "-2"]]`), &g)
	assert.ErrorIs(t, err, ErrInvalidJudgment)
}

func TestJudgmentJSON(t *testing.T) {
	var g Grid
	require.NoError(t, json.Unmarshal([]byte(`[[1, "3"], ["1/3", 1.0]]`), &g))
	assert.InDelta(t, 1.0/3, float64(g[1][0]), 1e-12)
	assert.Equal(t, Judgment(3), g[0][1])

	out, err := json.Marshal(g)
	require.NoError(t, err)
	assert.JSONEq(t, `[["1","3"],["1/3","1"]]`, string(out))

	var j Judgment
	assert.ErrorIs(t, json.Unmarshal([]byte(`"1/0"`), &j), ErrInvalidJudgment)
	assert.Error(t, json.Unmarshal([]byte(`true`), &j))
}
