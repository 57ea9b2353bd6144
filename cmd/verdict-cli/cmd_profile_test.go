package main

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/Verdict/internal/scoring"
)

func TestProfileScore_Attributes(t *testing.T) {
	path := writeTempFile(t, "candidates.json", `{
		"attributes": ["x", "y"],
		"candidates": [
			{"name": "B", "scores": [50, 70]},
			{"name": "A", "scores": [80, 80]}
		]
	}`)

	out, err := runCLI(t, "profile", "score", path, "--format", "json")
	require.NoError(t, err)

	var ranked []scoring.ScoredCandidate
	require.NoError(t, json.Unmarshal([]byte(out), &ranked))
	require.Len(t, ranked, 2)
	assert.Equal(t, "A", ranked[0].Name)
	assert.Equal(t, 80.0, ranked[0].Mean)
	assert.Equal(t, "B", ranked[1].Name)
	assert.Equal(t, 60.0, ranked[1].Mean)
}

func TestProfileScore_EmployeeTable(t *testing.T) {
	path := writeTempFile(t, "candidates.json", `{
		"candidates": [
			{"name": "Rina", "fields": {"experience": 4, "ability": 5, "personality": 3}},
			{"name": "Joko", "fields": {"experience": 5, "ability": 5, "personality": 5}}
		]
	}`)

	out, err := runCLI(t, "profile", "score", path, "--profile", "employee")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "experience")
	assert.Contains(t, lines[1], "Joko")
	assert.Contains(t, lines[1], "5.00")
	assert.Contains(t, lines[2], "Rina")
	assert.Contains(t, lines[2], "4.00")
}

func TestProfileScore_Errors(t *testing.T) {
	missing := writeTempFile(t, "missing.json", `{"candidates": [{"name": "A", "fields": {"academic": 1}}]}`)
	_, err := runCLI(t, "profile", "score", missing, "--profile", "scholarship")
	assert.True(t, errors.Is(err, scoring.ErrMissingField), "got %v", err)

	empty := writeTempFile(t, "empty.json", `{"attributes": ["x"], "candidates": []}`)
	_, err = runCLI(t, "profile", "score", empty)
	assert.True(t, errors.Is(err, scoring.ErrEmptyInput), "got %v", err)

	_, err = runCLI(t, "profile", "score", empty, "--profile", "astronaut")
	assert.ErrorContains(t, err, "unknown profile")
}
