package hermes

import "time"

type ProjectEvent struct {
	ProjectID string    `json:"project_id"`
	Name      string    `json:"name"`
	Owner     string    `json:"owner,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type EvaluatedEvent struct {
	ProjectID       string    `json:"project_id"`
	EvaluationID    string    `json:"evaluation_id"`
	Method          string    `json:"method"`
	MaxCR           float64   `json:"max_cr"`
	Consistent      bool      `json:"consistent"`
	BestAlternative string    `json:"best_alternative,omitempty"`
	BestScore       float64   `json:"best_score"`
	Timestamp       time.Time `json:"timestamp"`
}

// InconsistentMatrix identifies one comparison matrix. Matrix is "criteria"
// for the criteria matrix or "alternatives" for the alternative matrix of
// criterion Index.
type InconsistentMatrix struct {
	Matrix string  `json:"matrix"`
	Index  int     `json:"index"`
	Name   string  `json:"name,omitempty"`
	CR     float64 `json:"cr"`
}

// InconsistentEvent lists every matrix whose consistency ratio exceeded the
// configured threshold.
type InconsistentEvent struct {
	ProjectID string               `json:"project_id"`
	Threshold float64              `json:"threshold"`
	Matrices  []InconsistentMatrix `json:"matrices"`
	Timestamp time.Time            `json:"timestamp"`
}

type EvaluateRequestEvent struct {
	ProjectID string `json:"project_id"`
	Method    string `json:"method,omitempty"`
}
