package api

import (
	"net/http"

	"github.com/MikeSquared-Agency/Verdict/internal/metrics"
	"github.com/MikeSquared-Agency/Verdict/internal/scoring"
)

type ProfileHandler struct{}

func NewProfileHandler() *ProfileHandler {
	return &ProfileHandler{}
}

type CandidateInput struct {
	Name   string             `json:"name"`
	Scores []float64          `json:"scores,omitempty"`
	Fields map[string]float64 `json:"fields,omitempty"`
}

// ScoreRequest names either a built-in profile, whose candidates carry
// fields, or an explicit attribute list, whose candidates carry scores in
// that order.
type ScoreRequest struct {
	Profile    string           `json:"profile,omitempty"`
	Attributes []string         `json:"attributes,omitempty"`
	Candidates []CandidateInput `json:"candidates"`
}

type ScoreResponse struct {
	Profile    string                    `json:"profile,omitempty"`
	Attributes []string                  `json:"attributes"`
	Ranking    []scoring.ScoredCandidate `json:"ranking"`
}

func (h *ProfileHandler) Score(w http.ResponseWriter, r *http.Request) {
	var req ScoreRequest
	if !decodeBody(w, r, &req) {
		return
	}

	var (
		resp ScoreResponse
		err  error
	)
	if req.Profile != "" {
		p, ok := scoring.LookupProfile(req.Profile)
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown profile "+req.Profile)
			return
		}
		named := make([]scoring.NamedCandidate, len(req.Candidates))
		for i, c := range req.Candidates {
			named[i] = scoring.NamedCandidate{Name: c.Name, Fields: c.Fields}
		}
		resp.Profile = p.Name
		resp.Attributes = p.Attributes
		resp.Ranking, err = p.Score(named)
	} else {
		records := make([]scoring.CandidateRecord, len(req.Candidates))
		for i, c := range req.Candidates {
			records[i] = scoring.CandidateRecord{Name: c.Name, Scores: c.Scores}
		}
		resp.Attributes = req.Attributes
		resp.Ranking, err = scoring.ScoreCandidates(records, len(req.Attributes))
	}
	if err != nil {
		metrics.CoreError(scoring.Kind(err))
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Profiles lists the built-in profiles.
func (h *ProfileHandler) Profiles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, []scoring.Profile{scoring.ScholarshipProfile, scoring.EmployeeProfile})
}
