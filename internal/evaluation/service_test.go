package evaluation

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/Verdict/internal/codec"
	"github.com/MikeSquared-Agency/Verdict/internal/config"
	"github.com/MikeSquared-Agency/Verdict/internal/hermes"
	"github.com/MikeSquared-Agency/Verdict/internal/scoring"
	"github.com/MikeSquared-Agency/Verdict/internal/store"
)

// Mock implementations

type mockStore struct {
	mu          sync.Mutex
	projects    map[uuid.UUID]*store.Project
	evaluations []*store.EvaluationRecord
	failCreate  bool
}

func newMockStore() *mockStore {
	return &mockStore{projects: make(map[uuid.UUID]*store.Project)}
}

func (m *mockStore) CreateProject(_ context.Context, p *store.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	m.projects[p.ID] = p
	return nil
}
func (m *mockStore) GetProject(_ context.Context, id uuid.UUID) (*store.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.projects[id], nil
}
func (m *mockStore) ListProjects(_ context.Context, _ store.ProjectFilter) ([]*store.Project, error) {
	return nil, nil
}
func (m *mockStore) UpdateProject(_ context.Context, p *store.Project) error { return nil }
func (m *mockStore) DeleteProject(_ context.Context, _ uuid.UUID) error    { return nil }
func (m *mockStore) CreateEvaluation(_ context.Context, e *store.EvaluationRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failCreate {
		return errors.New("disk full")
	}
	e.ID = uuid.New()
	e.CreatedAt = time.Now()
	m.evaluations = append(m.evaluations, e)
	return nil
}
func (m *mockStore) ListEvaluations(_ context.Context, _ uuid.UUID, _ int) ([]*store.EvaluationRecord, error) {
	return m.evaluations, nil
}
func (m *mockStore) GetStats(_ context.Context) (*store.Stats, error) { return &store.Stats{}, nil }
func (m *mockStore) Close() error                                     { return nil }

func (m *mockStore) evaluationCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.evaluations)
}

type published struct {
	subject string
	data    interface{}
}

type mockHermes struct {
	mu        sync.Mutex
	published []published
	handlers  map[string]func(string, []byte)
}

func (m *mockHermes) Publish(subject string, data interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, published{subject, data})
	return nil
}
func (m *mockHermes) Subscribe(subject string, handler func(string, []byte)) error {
	if m.handlers == nil {
		m.handlers = make(map[string]func(string, []byte))
	}
	m.handlers[subject] = handler
	return nil
}
func (m *mockHermes) Close() {}

func (m *mockHermes) subjects() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, p := range m.published {
		out = append(out, p.subject)
	}
	return out
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() *config.Config {
	return &config.Config{
		Analysis: config.AnalysisConfig{
			ConsistencyThreshold: 0.10,
			WeightMethod:         "row_average",
			MaxMatrixSize:        10,
		},
	}
}

func locationProject() codec.Project {
	return codec.Project{
		Name:         "business location",
		Criteria:     []string{"price", "accessibility", "demographics"},
		Alternatives: []string{"Location A", "Location B"},
		CriteriaMatrix: codec.Grid{
			{1, 3, 5},
			{1.0 / 3, 1, 3},
			{1.0 / 5, 1.0 / 3, 1},
		},
		AlternativeMatrices: []codec.Grid{
			{{1, 3}, {1.0 / 3, 1}},
			{{1, 1.0 / 5}, {5, 1}},
			{{1, 1}, {1, 1}},
		},
	}
}

// Cyclic judgments: 1 beats 2, 2 beats 3, 3 beats 1.
func inconsistentProject() codec.Project {
	doc := locationProject()
	doc.AlternativeCount = 3
	doc.Alternatives = []string{"A", "B", "C"}
	cyclic := codec.Grid{{1, 9, 1.0 / 9}, {1.0 / 9, 1, 9}, {9, 1.0 / 9, 1}}
	ones := codec.Grid{{1, 1, 1}, {1, 1, 1}, {1, 1, 1}}
	doc.AlternativeMatrices = []codec.Grid{cyclic, ones, ones}
	return doc
}

func TestEvaluateNamesRanking(t *testing.T) {
	svc := New(nil, nil, testConfig(), testLogger())
	doc := locationProject()

	report, err := svc.Evaluate(&doc, "")
	require.NoError(t, err)

	assert.Equal(t, scoring.MethodRowAverage, report.Evaluation.Method)
	require.Len(t, report.Ranking, 2)
	assert.Equal(t, "Location A", report.Ranking[0].Name)
	assert.Equal(t, 1, report.Ranking[0].Rank)
	assert.InDelta(t, 1.0, report.Ranking[0].Score+report.Ranking[1].Score, 1e-9)
	assert.True(t, report.Consistent)
	assert.Empty(t, report.Inconsistent)
}

func TestEvaluateFlagsInconsistentMatrices(t *testing.T) {
	svc := New(nil, nil, testConfig(), testLogger())
	doc := inconsistentProject()

	report, err := svc.Evaluate(&doc, "")
	require.NoError(t, err)

	assert.False(t, report.Consistent)
	assert.Greater(t, report.MaxCR, 0.10)
	require.Len(t, report.Inconsistent, 1)
	assert.Equal(t, FlaggedMatrix{Matrix: MatrixAlternatives, Index: 0, Name: "price", CR: report.MaxCR}, report.Inconsistent[0])
	// The ranking is still produced.
	assert.Len(t, report.Ranking, 3)
}

func TestEvaluateThresholdFromConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Analysis.ConsistencyThreshold = 0.01
	svc := New(nil, nil, cfg, testLogger())
	doc := locationProject()

	report, err := svc.Evaluate(&doc, "")
	require.NoError(t, err)

	// Canonical criteria CR is about 0.033: fine at 0.10, flagged at 0.01.
	assert.True(t, report.Evaluation.CriteriaConsistency.Acceptable)
	assert.False(t, report.Consistent)
	require.NotEmpty(t, report.Inconsistent)
	assert.Equal(t, MatrixCriteria, report.Inconsistent[0].Matrix)
}

func TestEvaluateFlagsCollidingCriterionNames(t *testing.T) {
	svc := New(nil, nil, testConfig(), testLogger())
	doc := inconsistentProject()
	doc.Criteria = []string{"criteria", "criteria", "x"}
	cyclic := doc.AlternativeMatrices[0]
	doc.AlternativeMatrices = []codec.Grid{cyclic, cyclic, doc.AlternativeMatrices[2]}
	doc.CriteriaMatrix = codec.Grid{{1, 9, 1.0 / 9}, {1.0 / 9, 1, 9}, {9, 1.0 / 9, 1}}

	report, err := svc.Evaluate(&doc, "")
	require.NoError(t, err)

	require.Len(t, report.Inconsistent, 3)
	assert.Equal(t, MatrixCriteria, report.Inconsistent[0].Matrix)
	assert.Equal(t, MatrixAlternatives, report.Inconsistent[1].Matrix)
	assert.Equal(t, 0, report.Inconsistent[1].Index)
	assert.Equal(t, 1, report.Inconsistent[2].Index)
	assert.Equal(t, "criteria", report.Inconsistent[2].Name)
}

func TestEvaluateExplicitMethod(t *testing.T) {
	svc := New(nil, nil, testConfig(), testLogger())
	doc := locationProject()

	report, err := svc.Evaluate(&doc, scoring.MethodEigenvector)
	require.NoError(t, err)
	assert.Equal(t, scoring.MethodEigenvector, report.Evaluation.Method)
}

func TestEvaluateRejectsOversizedMatrix(t *testing.T) {
	cfg := testConfig()
	cfg.Analysis.MaxMatrixSize = 2
	svc := New(nil, nil, cfg, testLogger())
	doc := locationProject()

	_, err := svc.Evaluate(&doc, "")
	assert.ErrorIs(t, err, ErrMatrixTooLarge)
}

func TestEvaluateDimensionMismatch(t *testing.T) {
	svc := New(nil, nil, testConfig(), testLogger())
	doc := locationProject()
	doc.AlternativeMatrices = doc.AlternativeMatrices[:2]

	_, err := svc.Evaluate(&doc, "")
	assert.ErrorIs(t, err, scoring.ErrDimensionMismatch)
}

func TestWeights(t *testing.T) {
	svc := New(nil, nil, testConfig(), testLogger())
	m, err := scoring.FromRows([][]float64{{1, 1}, {1, 1}})
	require.NoError(t, err)

	w, cr, err := svc.Weights(m, "")
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.5, 0.5}, []float64(w), 1e-12)
	assert.Equal(t, 0.0, cr.CR)
}

func TestEvaluateProjectPersistsAndPublishes(t *testing.T) {
	ms := newMockStore()
	mh := &mockHermes{}
	svc := New(ms, mh, testConfig(), testLogger())
	ctx := context.Background()

	p := &store.Project{Name: "location", Document: locationProject()}
	require.NoError(t, ms.CreateProject(ctx, p))

	report, err := svc.EvaluateProject(ctx, p.ID, "")
	require.NoError(t, err)

	assert.Equal(t, p.ID.String(), report.ProjectID)
	assert.NotEmpty(t, report.EvaluationID)
	require.Equal(t, 1, ms.evaluationCount())
	assert.True(t, ms.evaluations[0].Consistent)
	assert.InDelta(t, report.MaxCR, ms.evaluations[0].MaxCR, 1e-12)

	assert.Equal(t, []string{hermes.SubjectProjectEvaluated(p.ID.String())}, mh.subjects())
	evt, ok := mh.published[0].data.(hermes.EvaluatedEvent)
	require.True(t, ok)
	assert.Equal(t, "Location A", evt.BestAlternative)
}

func TestEvaluateProjectPublishesInconsistency(t *testing.T) {
	ms := newMockStore()
	mh := &mockHermes{}
	svc := New(ms, mh, testConfig(), testLogger())
	ctx := context.Background()

	p := &store.Project{Name: "cyclic", Document: inconsistentProject()}
	require.NoError(t, ms.CreateProject(ctx, p))

	_, err := svc.EvaluateProject(ctx, p.ID, "")
	require.NoError(t, err)

	id := p.ID.String()
	assert.Equal(t, []string{hermes.SubjectProjectEvaluated(id), hermes.SubjectProjectInconsistent(id)}, mh.subjects())
	evt, ok := mh.published[1].data.(hermes.InconsistentEvent)
	require.True(t, ok)
	require.Len(t, evt.Matrices, 1)
	assert.Equal(t, hermes.InconsistentMatrix{Matrix: MatrixAlternatives, Name: "price", CR: evt.Matrices[0].CR}, evt.Matrices[0])
	assert.Greater(t, evt.Matrices[0].CR, 0.10)
}

func TestEvaluateProjectNotFound(t *testing.T) {
	svc := New(newMockStore(), nil, testConfig(), testLogger())
	_, err := svc.EvaluateProject(context.Background(), uuid.New(), "")
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestEvaluateProjectStoreFailure(t *testing.T) {
	ms := newMockStore()
	ms.failCreate = true
	mh := &mockHermes{}
	svc := New(ms, mh, testConfig(), testLogger())
	ctx := context.Background()

	p := &store.Project{Name: "location", Document: locationProject()}
	require.NoError(t, ms.CreateProject(ctx, p))

	_, err := svc.EvaluateProject(ctx, p.ID, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save evaluation")
	assert.Empty(t, mh.subjects())
}

func TestEvaluateRequestsOverNATS(t *testing.T) {
	ms := newMockStore()
	mh := &mockHermes{}
	svc := New(ms, mh, testConfig(), testLogger())
	ctx := context.Background()

	p := &store.Project{Name: "location", Document: locationProject()}
	require.NoError(t, ms.CreateProject(ctx, p))

	svc.SetupSubscriptions()
	svc.Start(ctx)
	defer svc.Stop()

	handler, ok := mh.handlers[hermes.SubjectEvaluateRequest]
	require.True(t, ok)

	data, err := json.Marshal(hermes.EvaluateRequestEvent{ProjectID: p.ID.String()})
	require.NoError(t, err)
	handler(hermes.SubjectEvaluateRequest, data)
	handler(hermes.SubjectEvaluateRequest, []byte("not json"))

	assert.Eventually(t, func() bool { return ms.evaluationCount() == 1 }, time.Second, 10*time.Millisecond)
}

func TestNamedFallsBackToPosition(t *testing.T) {
	r := scoring.FinalRanking{{Index: 1, Score: 0.7, Rank: 1}, {Index: 0, Score: 0.3, Rank: 2}}
	named := Named(r, []string{"only"})
	assert.Equal(t, "Alternative 2", named[0].Name)
	assert.Equal(t, "only", named[1].Name)
}
