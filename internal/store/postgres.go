package store

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MikeSquared-Agency/Verdict/internal/scoring"
)

// ErrNotFound is returned by updates and deletes that match no row.
var ErrNotFound = errors.New("not found")

//go:embed schema.sql
var schemaSQL string

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// Migrate creates the tables if they do not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

const projectColumns = `project_id, name, owner, document, created_at, updated_at`

func (s *PostgresStore) CreateProject(ctx context.Context, p *Project) error {
	docJSON, err := json.Marshal(p.Document)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	return s.pool.QueryRow(ctx, `
		INSERT INTO decision_projects (name, owner, document)
		VALUES ($1, $2, $3)
		RETURNING project_id, created_at, updated_at`,
		p.Name, p.Owner, docJSON,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (s *PostgresStore) GetProject(ctx context.Context, id uuid.UUID) (*Project, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+projectColumns+`
		FROM decision_projects WHERE project_id = $1`, id)
	p, err := scanProject(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PostgresStore) ListProjects(ctx context.Context, filter ProjectFilter) ([]*Project, error) {
	query := `SELECT ` + projectColumns + ` FROM decision_projects WHERE 1=1`
	args := []interface{}{}
	n := 0

	if filter.Owner != "" {
		n++
		query += fmt.Sprintf(" AND owner = $%d", n)
		args = append(args, filter.Owner)
	}
	if filter.Name != "" {
		n++
		query += fmt.Sprintf(" AND name ILIKE $%d", n)
		args = append(args, "%"+filter.Name+"%")
	}

	query += " ORDER BY updated_at DESC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	n++
	query += fmt.Sprintf(" LIMIT $%d", n)
	args = append(args, limit)

	if filter.Offset > 0 {
		n++
		query += fmt.Sprintf(" OFFSET $%d", n)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []*Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (s *PostgresStore) UpdateProject(ctx context.Context, p *Project) error {
	docJSON, err := json.Marshal(p.Document)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	err = s.pool.QueryRow(ctx, `
		UPDATE decision_projects SET
			name = $2, owner = $3, document = $4, updated_at = now()
		WHERE project_id = $1
		RETURNING created_at, updated_at`,
		p.ID, p.Name, p.Owner, docJSON,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (s *PostgresStore) DeleteProject(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM decision_projects WHERE project_id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) CreateEvaluation(ctx context.Context, e *EvaluationRecord) error {
	resultJSON, err := json.Marshal(e.Result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	return s.pool.QueryRow(ctx, `
		INSERT INTO decision_evaluations (project_id, method, result, consistent, max_cr)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING evaluation_id, created_at`,
		e.ProjectID, string(e.Method), resultJSON, e.Consistent, e.MaxCR,
	).Scan(&e.ID, &e.CreatedAt)
}

func (s *PostgresStore) ListEvaluations(ctx context.Context, projectID uuid.UUID, limit int) ([]*EvaluationRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.pool.Query(ctx, `
		SELECT evaluation_id, project_id, method, result, consistent, max_cr, created_at
		FROM decision_evaluations WHERE project_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, projectID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*EvaluationRecord
	for rows.Next() {
		e := &EvaluationRecord{}
		var method string
		var resultJSON []byte
		if err := rows.Scan(&e.ID, &e.ProjectID, &method, &resultJSON, &e.Consistent, &e.MaxCR, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Method = scoring.Method(method)
		if resultJSON != nil {
			if err := json.Unmarshal(resultJSON, &e.Result); err != nil {
				return nil, fmt.Errorf("decode evaluation %s: %w", e.ID, err)
			}
		}
		records = append(records, e)
	}
	return records, rows.Err()
}

func (s *PostgresStore) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	err := s.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM decision_projects),
			COUNT(*),
			COALESCE(SUM(CASE WHEN NOT consistent THEN 1 ELSE 0 END), 0),
			COALESCE(AVG(max_cr), 0)
		FROM decision_evaluations`,
	).Scan(&stats.TotalProjects, &stats.TotalEvaluations, &stats.InconsistentEvaluations, &stats.AvgMaxCR)
	return stats, err
}

func scanProject(row pgx.Row) (*Project, error) {
	p := &Project{}
	var docJSON []byte
	if err := row.Scan(&p.ID, &p.Name, &p.Owner, &docJSON, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(docJSON, &p.Document); err != nil {
		return nil, fmt.Errorf("decode project %s: %w", p.ID, err)
	}
	p.Document.Normalize()
	return p, nil
}
