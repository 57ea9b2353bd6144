package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Verdict/internal/codec"
	"github.com/MikeSquared-Agency/Verdict/internal/scoring"
)

// Project is a saved AHP decision.
type Project struct {
	ID        uuid.UUID     `json:"project_id"`
	Name      string        `json:"name"`
	Owner     string        `json:"owner,omitempty"`
	Document  codec.Project `json:"document"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

type ProjectFilter struct {
	Owner  string
	Name   string
	Limit  int
	Offset int
}

// EvaluationRecord is one persisted run of a project's hierarchy.
type EvaluationRecord struct {
	ID         uuid.UUID          `json:"evaluation_id"`
	ProjectID  uuid.UUID          `json:"project_id"`
	Method     scoring.Method     `json:"method"`
	Result     scoring.Evaluation `json:"result"`
	Consistent bool               `json:"consistent"`
	MaxCR      float64            `json:"max_cr"`
	CreatedAt  time.Time          `json:"created_at"`
}

type Stats struct {
	TotalProjects           int     `json:"total_projects"`
	TotalEvaluations        int     `json:"total_evaluations"`
	InconsistentEvaluations int     `json:"inconsistent_evaluations"`
	AvgMaxCR                float64 `json:"avg_max_cr"`
}

type Store interface {
	CreateProject(ctx context.Context, p *Project) error
	// GetProject returns nil, nil when no project has the id.
	GetProject(ctx context.Context, id uuid.UUID) (*Project, error)
	ListProjects(ctx context.Context, filter ProjectFilter) ([]*Project, error)
	UpdateProject(ctx context.Context, p *Project) error
	DeleteProject(ctx context.Context, id uuid.UUID) error

	CreateEvaluation(ctx context.Context, e *EvaluationRecord) error
	ListEvaluations(ctx context.Context, projectID uuid.UUID, limit int) ([]*EvaluationRecord, error)

	GetStats(ctx context.Context) (*Stats, error)

	Close() error
}
