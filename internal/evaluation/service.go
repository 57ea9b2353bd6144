// Package evaluation runs AHP hierarchies for the API and the event bus,
// persisting results and publishing what they found.
package evaluation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Verdict/internal/codec"
	"github.com/MikeSquared-Agency/Verdict/internal/config"
	"github.com/MikeSquared-Agency/Verdict/internal/hermes"
	"github.com/MikeSquared-Agency/Verdict/internal/metrics"
	"github.com/MikeSquared-Agency/Verdict/internal/scoring"
	"github.com/MikeSquared-Agency/Verdict/internal/store"
)

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrMatrixTooLarge  = errors.New("matrix too large")
)

// Matrix kinds in FlaggedMatrix.
const (
	MatrixCriteria     = "criteria"
	MatrixAlternatives = "alternatives"
)

// FlaggedMatrix is a comparison matrix whose CR exceeded the threshold.
// Index is the criterion whose alternatives it compares; it is 0 for the
// criteria matrix. Name is informational and need not be unique.
type FlaggedMatrix struct {
	Matrix string  `json:"matrix"`
	Index  int     `json:"index"`
	Name   string  `json:"name,omitempty"`
	CR     float64 `json:"cr"`
}

type NamedAlternative struct {
	Name  string  `json:"name"`
	Index int     `json:"index"`
	Score float64 `json:"score"`
	Rank  int     `json:"rank"`
}

// Report is an Evaluation with names attached and the service's
// consistency threshold applied.
type Report struct {
	EvaluationID string              `json:"evaluation_id,omitempty"`
	ProjectID    string              `json:"project_id,omitempty"`
	Evaluation   *scoring.Evaluation `json:"evaluation"`
	Criteria     []string            `json:"criteria"`
	Alternatives []string            `json:"alternatives"`
	Ranking      []NamedAlternative  `json:"ranking"`
	MaxCR        float64             `json:"max_cr"`
	Threshold    float64             `json:"threshold"`
	Consistent   bool                `json:"consistent"`
	// Inconsistent lists matrices over threshold, criteria matrix first.
	Inconsistent []FlaggedMatrix `json:"inconsistent,omitempty"`
}

// Best returns the top-ranked alternative. ok is false for an empty ranking.
func (r *Report) Best() (NamedAlternative, bool) {
	if len(r.Ranking) == 0 {
		return NamedAlternative{}, false
	}
	return r.Ranking[0], true
}

type Service struct {
	store     store.Store
	hermes    hermes.Client
	method    scoring.Method
	threshold float64
	maxSize   int
	logger    *slog.Logger

	requests chan hermes.EvaluateRequestEvent

	stopOnce sync.Once
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// New builds a Service. s and h may be nil: without a store only stateless
// evaluation works, and without a client nothing is published.
func New(s store.Store, h hermes.Client, cfg *config.Config, logger *slog.Logger) *Service {
	method, err := cfg.Method()
	if err != nil {
		logger.Warn("unknown weight method, using row average", "method", cfg.Analysis.WeightMethod)
		method = scoring.MethodRowAverage
	}
	threshold := cfg.Analysis.ConsistencyThreshold
	if threshold <= 0 {
		threshold = scoring.AcceptableCR
	}
	return &Service{
		store:     s,
		hermes:    h,
		method:    method,
		threshold: threshold,
		maxSize:   cfg.Analysis.MaxMatrixSize,
		logger:    logger,
		requests:  make(chan hermes.EvaluateRequestEvent, 64),
		stopCh:    make(chan struct{}),
	}
}

func (s *Service) Method() scoring.Method { return s.method }
func (s *Service) Threshold() float64     { return s.threshold }

// CheckSize rejects matrices larger than the configured maximum.
func (s *Service) CheckSize(n int) error {
	if s.maxSize > 0 && n > s.maxSize {
		return fmt.Errorf("%w: %d exceeds the limit of %d", ErrMatrixTooLarge, n, s.maxSize)
	}
	return nil
}

// Weights derives weights for a single matrix and records its consistency.
func (s *Service) Weights(m scoring.ComparisonMatrix, method scoring.Method) (scoring.WeightVector, scoring.ConsistencyReport, error) {
	if err := s.CheckSize(m.Size()); err != nil {
		return nil, scoring.ConsistencyReport{}, err
	}
	if method == "" {
		method = s.method
	}
	w, cr, err := scoring.DeriveWeightsWith(m, method)
	if err != nil {
		metrics.CoreError(scoring.Kind(err))
		return nil, scoring.ConsistencyReport{}, err
	}
	metrics.ObserveConsistency(cr.CR, s.threshold)
	return w, cr, nil
}

// Evaluate runs doc without persisting anything. An empty method uses the
// configured one.
func (s *Service) Evaluate(doc *codec.Project, method scoring.Method) (*Report, error) {
	doc.Normalize()
	if err := s.CheckSize(doc.CriteriaCount); err != nil {
		return nil, fmt.Errorf("criteria: %w", err)
	}
	if err := s.CheckSize(doc.AlternativeCount); err != nil {
		return nil, fmt.Errorf("alternatives: %w", err)
	}
	if method == "" {
		method = s.method
	}

	ev, err := doc.Evaluate(method)
	if err != nil {
		metrics.CoreError(scoring.Kind(err))
		return nil, err
	}
	metrics.EvaluationsTotal.WithLabelValues(string(ev.Method)).Inc()

	report := &Report{
		Evaluation:   ev,
		Criteria:     doc.Criteria,
		Alternatives: doc.Alternatives,
		Ranking:      Named(ev.Ranking, doc.Alternatives),
		MaxCR:        ev.MaxCR(),
		Threshold:    s.threshold,
		Consistent:   ev.Consistent(s.threshold),
	}

	metrics.ObserveConsistency(ev.CriteriaConsistency.CR, s.threshold)
	if ev.CriteriaConsistency.CR > s.threshold {
		report.Inconsistent = append(report.Inconsistent, FlaggedMatrix{
			Matrix: MatrixCriteria,
			CR:     ev.CriteriaConsistency.CR,
		})
	}
	for i, r := range ev.AlternativeConsistency {
		metrics.ObserveConsistency(r.CR, s.threshold)
		if r.CR > s.threshold {
			report.Inconsistent = append(report.Inconsistent, FlaggedMatrix{
				Matrix: MatrixAlternatives,
				Index:  i,
				Name:   doc.Criteria[i],
				CR:     r.CR,
			})
		}
	}
	return report, nil
}

// EvaluateProject evaluates a stored project, persists the result and
// publishes it.
func (s *Service) EvaluateProject(ctx context.Context, id uuid.UUID, method scoring.Method) (*Report, error) {
	if s.store == nil {
		return nil, errors.New("no store configured")
	}
	p, err := s.store.GetProject(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}
	if p == nil {
		return nil, ErrProjectNotFound
	}

	report, err := s.Evaluate(&p.Document, method)
	if err != nil {
		s.logger.Warn("project evaluation rejected", "project_id", id, "kind", scoring.Kind(err), "error", err)
		return nil, err
	}

	rec := &store.EvaluationRecord{
		ProjectID:  p.ID,
		Method:     report.Evaluation.Method,
		Result:     *report.Evaluation,
		Consistent: report.Consistent,
		MaxCR:      report.MaxCR,
	}
	if err := s.store.CreateEvaluation(ctx, rec); err != nil {
		return nil, fmt.Errorf("save evaluation: %w", err)
	}
	report.EvaluationID = rec.ID.String()
	report.ProjectID = p.ID.String()

	s.publish(report, rec.CreatedAt)

	best, _ := report.Best()
	s.logger.Info("project evaluated", "project_id", p.ID, "evaluation_id", rec.ID,
		"method", rec.Method, "max_cr", report.MaxCR, "consistent", report.Consistent, "best", best.Name)
	return report, nil
}

func (s *Service) publish(report *Report, at time.Time) {
	if s.hermes == nil {
		return
	}
	if at.IsZero() {
		at = time.Now()
	}
	best, _ := report.Best()
	_ = s.hermes.Publish(hermes.SubjectProjectEvaluated(report.ProjectID), hermes.EvaluatedEvent{
		ProjectID:       report.ProjectID,
		EvaluationID:    report.EvaluationID,
		Method:          string(report.Evaluation.Method),
		MaxCR:           report.MaxCR,
		Consistent:      report.Consistent,
		BestAlternative: best.Name,
		BestScore:       best.Score,
		Timestamp:       at,
	})
	if len(report.Inconsistent) > 0 {
		matrices := make([]hermes.InconsistentMatrix, len(report.Inconsistent))
		for i, f := range report.Inconsistent {
			matrices[i] = hermes.InconsistentMatrix(f)
		}
		_ = s.hermes.Publish(hermes.SubjectProjectInconsistent(report.ProjectID), hermes.InconsistentEvent{
			ProjectID: report.ProjectID,
			Threshold: report.Threshold,
			Matrices:  matrices,
			Timestamp: at,
		})
	}
}

// Named attaches alternative names to a ranking. Alternatives without a
// name get their 1-based position.
func Named(r scoring.FinalRanking, names []string) []NamedAlternative {
	out := make([]NamedAlternative, len(r))
	for i, ra := range r {
		name := fmt.Sprintf("Alternative %d", ra.Index+1)
		if ra.Index < len(names) {
			name = names[ra.Index]
		}
		out[i] = NamedAlternative{Name: name, Index: ra.Index, Score: ra.Score, Rank: ra.Rank}
	}
	return out
}

// SetupSubscriptions queues evaluate requests arriving over NATS.
func (s *Service) SetupSubscriptions() {
	if s.hermes == nil {
		return
	}
	_ = s.hermes.Subscribe(hermes.SubjectEvaluateRequest, func(_ string, data []byte) {
		var req hermes.EvaluateRequestEvent
		if err := json.Unmarshal(data, &req); err != nil {
			s.logger.Warn("invalid evaluate request event", "error", err)
			return
		}
		select {
		case s.requests <- req:
		default:
			s.logger.Warn("evaluate queue full, dropping request", "project_id", req.ProjectID)
		}
	})
}

// Start runs the worker that drains queued evaluate requests.
func (s *Service) Start(ctx context.Context) {
	s.wg.Add(1)
	go s.requestLoop(ctx)
}

func (s *Service) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
	s.wg.Wait()
}

func (s *Service) requestLoop(ctx context.Context) {
	defer s.wg.Done()
	for {
		select {
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		case req := <-s.requests:
			s.handleRequest(ctx, req)
		}
	}
}

func (s *Service) handleRequest(ctx context.Context, req hermes.EvaluateRequestEvent) {
	id, err := uuid.Parse(req.ProjectID)
	if err != nil {
		s.logger.Warn("evaluate request with bad project id", "project_id", req.ProjectID)
		return
	}
	method, err := scoring.ParseMethod(req.Method)
	if err != nil {
		s.logger.Warn("evaluate request with bad method", "project_id", req.ProjectID, "method", req.Method)
		return
	}
	if req.Method == "" {
		method = ""
	}
	if _, err := s.EvaluateProject(ctx, id, method); err != nil {
		s.logger.Warn("evaluate request failed", "project_id", req.ProjectID, "error", err)
	}
}
