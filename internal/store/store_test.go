package store

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/MikeSquared-Agency/Verdict/internal/codec"
	"github.com/MikeSquared-Agency/Verdict/internal/scoring"
)

func TestSchemaEmbedded(t *testing.T) {
	for _, table := range []string{"decision_projects", "decision_evaluations"} {
		if !strings.Contains(schemaSQL, "CREATE TABLE IF NOT EXISTS "+table) {
			t.Errorf("schema missing table %s", table)
		}
	}
}

func TestProjectFilterDefaults(t *testing.T) {
	f := ProjectFilter{}
	if f.Limit != 0 {
		t.Errorf("expected 0 default limit, got %d", f.Limit)
	}
	if f.Owner != "" || f.Name != "" {
		t.Error("expected empty filters")
	}
}

func TestProjectDocumentJSON(t *testing.T) {
	p := Project{
		Name: "location",
		Document: codec.Project{
			CriteriaCount:       2,
			AlternativeCount:    2,
			CriteriaMatrix:      codec.Grid{{1, 1.0 / 3}, {3, 1}},
			AlternativeMatrices: []codec.Grid{{{1, 2}, {0.5, 1}}, {{1, 1}, {1, 1}}},
		},
	}
	data, err := json.Marshal(p.Document)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"1/3"`) {
		t.Errorf("expected judgment text in document, got %s", data)
	}

	var back codec.Project
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if float64(back.CriteriaMatrix[0][1]) != 1.0/3 {
		t.Errorf("expected 1/3, got %v", back.CriteriaMatrix[0][1])
	}
}

func TestEvaluationRecordJSON(t *testing.T) {
	rec := EvaluationRecord{
		Method: scoring.MethodRowAverage,
		Result: scoring.Evaluation{
			CriteriaWeights: scoring.WeightVector{0.5, 0.5},
			Ranking:         scoring.FinalRanking{{Index: 1, Score: 0.6, Rank: 1}, {Index: 0, Score: 0.4, Rank: 2}},
		},
		Consistent: true,
	}
	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatal(err)
	}
	var back EvaluationRecord
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back.Result.Ranking[0].Index != 1 || back.Method != scoring.MethodRowAverage {
		t.Errorf("unexpected round trip: %+v", back)
	}
}
