package scoring

import (
	"fmt"
	"sort"
	"strings"
)

// CandidateRecord is a named candidate with one score per attribute, in the
// attribute order of its profile.
type CandidateRecord struct {
	Name   string    `json:"name"`
	Scores []float64 `json:"scores"`
}

// ScoredCandidate is a CandidateRecord with its mean score and 1-based rank.
type ScoredCandidate struct {
	CandidateRecord
	Mean float64 `json:"mean"`
	Rank int     `json:"rank"`
}

// ScoreCandidates ranks candidates by the unweighted mean of their
// attribute scores, highest first. Ties keep insertion order.
//
// This is mean ranking, not gap-to-target Profile Matching: there is no
// ideal profile and no core/secondary factor split.
func ScoreCandidates(records []CandidateRecord, attributeCount int) ([]ScoredCandidate, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no candidates", ErrEmptyInput)
	}
	if attributeCount < 1 {
		return nil, fmt.Errorf("%w: attribute count must be at least 1", ErrMissingField)
	}

	out := make([]ScoredCandidate, len(records))
	for i, rec := range records {
		if strings.TrimSpace(rec.Name) == "" {
			return nil, fmt.Errorf("%w: candidate %d has no name", ErrMissingField, i)
		}
		if len(rec.Scores) != attributeCount {
			return nil, fmt.Errorf("%w: candidate %q has %d scores, want %d", ErrMissingField, rec.Name, len(rec.Scores), attributeCount)
		}
		var sum float64
		for _, s := range rec.Scores {
			sum += s
		}
		out[i] = ScoredCandidate{
			CandidateRecord: CandidateRecord{Name: rec.Name, Scores: append([]float64(nil), rec.Scores...)},
			Mean:            sum / float64(attributeCount),
		}
	}

	sort.SliceStable(out, func(a, b int) bool { return out[a].Mean > out[b].Mean })
	for i := range out {
		out[i].Rank = i + 1
	}
	return out, nil
}

// Profile names the attributes a candidate is scored on.
type Profile struct {
	Name       string   `json:"name"`
	Attributes []string `json:"attributes"`
}

// Built-in profiles for the scholarship and employee selection front ends.
var (
	ScholarshipProfile = Profile{Name: "scholarship", Attributes: []string{"academic", "economic", "personality"}}
	EmployeeProfile    = Profile{Name: "employee", Attributes: []string{"experience", "ability", "personality"}}
)

// LookupProfile returns a built-in profile by name.
func LookupProfile(name string) (Profile, bool) {
	switch strings.ToLower(name) {
	case ScholarshipProfile.Name:
		return ScholarshipProfile, true
	case EmployeeProfile.Name:
		return EmployeeProfile, true
	}
	return Profile{}, false
}

// NamedCandidate carries attribute scores keyed by attribute name.
type NamedCandidate struct {
	Name   string             `json:"name"`
	Fields map[string]float64 `json:"fields"`
}

// Records orders each candidate's fields by the profile's attributes. A
// candidate lacking an attribute fails with ErrMissingField.
func (p Profile) Records(candidates []NamedCandidate) ([]CandidateRecord, error) {
	out := make([]CandidateRecord, 0, len(candidates))
	for _, c := range candidates {
		scores := make([]float64, len(p.Attributes))
		for i, attr := range p.Attributes {
			v, ok := c.Fields[attr]
			if !ok {
				return nil, fmt.Errorf("%w: candidate %q lacks %q", ErrMissingField, c.Name, attr)
			}
			scores[i] = v
		}
		out = append(out, CandidateRecord{Name: c.Name, Scores: scores})
	}
	return out, nil
}

// Score converts and ranks candidates against the profile.
func (p Profile) Score(candidates []NamedCandidate) ([]ScoredCandidate, error) {
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: no candidates", ErrEmptyInput)
	}
	records, err := p.Records(candidates)
	if err != nil {
		return nil, err
	}
	return ScoreCandidates(records, len(p.Attributes))
}
