package api

import (
	"fmt"
	"net/http"

	"github.com/MikeSquared-Agency/Verdict/internal/codec"
	"github.com/MikeSquared-Agency/Verdict/internal/evaluation"
	"github.com/MikeSquared-Agency/Verdict/internal/metrics"
	"github.com/MikeSquared-Agency/Verdict/internal/scoring"
)

type AHPHandler struct {
	svc *evaluation.Service
}

func NewAHPHandler(svc *evaluation.Service) *AHPHandler {
	return &AHPHandler{svc: svc}
}

type WeightsRequest struct {
	Matrix codec.Grid `json:"matrix"`
	Method string     `json:"method,omitempty"`
	// UpperTriangle reads only the cells above the diagonal and derives the
	// rest, as project files do.
	UpperTriangle bool `json:"upper_triangle,omitempty"`
}

type WeightsResponse struct {
	Method      scoring.Method            `json:"method"`
	Weights     scoring.WeightVector      `json:"weights"`
	Consistency scoring.ConsistencyReport `json:"consistency"`
	Consistent  bool                      `json:"consistent"`
}

func (h *AHPHandler) Weights(w http.ResponseWriter, r *http.Request) {
	var req WeightsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	method, ok := parseMethod(w, req.Method)
	if !ok {
		return
	}
	if method == "" {
		method = h.svc.Method()
	}

	var (
		m   scoring.ComparisonMatrix
		err error
	)
	if req.UpperTriangle {
		m, err = scoring.FromUpperTriangle(req.Matrix.Floats())
	} else {
		m, err = scoring.FromRows(req.Matrix.Floats())
	}
	if err != nil {
		metrics.CoreError(scoring.Kind(err))
		writeFailure(w, err)
		return
	}

	weights, cr, err := h.svc.Weights(m, method)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, WeightsResponse{
		Method:      method,
		Weights:     weights,
		Consistency: cr,
		Consistent:  cr.CR <= h.svc.Threshold(),
	})
}

// Evaluate runs a whole project document without saving it. The method comes
// from the "method" query parameter, defaulting to the configured one.
func (h *AHPHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	var doc codec.Project
	if !decodeBody(w, r, &doc) {
		return
	}
	method, ok := parseMethod(w, r.URL.Query().Get("method"))
	if !ok {
		return
	}
	report, err := h.svc.Evaluate(&doc, method)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

type AggregateRequest struct {
	CriteriaWeights    scoring.WeightVector   `json:"criteria_weights"`
	AlternativeWeights []scoring.WeightVector `json:"alternative_weights"`
	Alternatives       []string               `json:"alternatives,omitempty"`
	// Strict rejects weight vectors that are not distributions instead of
	// aggregating them as given.
	Strict bool `json:"strict,omitempty"`
}

type AggregateResponse struct {
	Ranking []evaluation.NamedAlternative `json:"ranking"`
}

func (h *AHPHandler) Aggregate(w http.ResponseWriter, r *http.Request) {
	var req AggregateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Strict {
		if err := validateWeights(req.CriteriaWeights, req.AlternativeWeights); err != nil {
			metrics.CoreError(scoring.Kind(err))
			writeFailure(w, err)
			return
		}
	}
	ranking, err := scoring.Aggregate(req.CriteriaWeights, req.AlternativeWeights)
	if err != nil {
		metrics.CoreError(scoring.Kind(err))
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, AggregateResponse{Ranking: evaluation.Named(ranking, req.Alternatives)})
}

func validateWeights(criteria scoring.WeightVector, perCriterion []scoring.WeightVector) error {
	if err := criteria.Validate(); err != nil {
		return fmt.Errorf("criteria weights: %w", err)
	}
	for i, w := range perCriterion {
		if err := w.Validate(); err != nil {
			return fmt.Errorf("alternative weights %d: %w", i, err)
		}
	}
	return nil
}

// Scale lists the Saaty judgments in their text form.
func (h *AHPHandler) Scale(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"scale": codec.SaatyScale})
}

// parseMethod accepts an empty string as "use the default".
func parseMethod(w http.ResponseWriter, s string) (scoring.Method, bool) {
	if s == "" {
		return "", true
	}
	m, err := scoring.ParseMethod(s)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return "", false
	}
	return m, true
}
