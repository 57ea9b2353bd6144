package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MikeSquared-Agency/Verdict/internal/codec"
	"github.com/MikeSquared-Agency/Verdict/internal/evaluation"
	"github.com/MikeSquared-Agency/Verdict/internal/metrics"
	"github.com/MikeSquared-Agency/Verdict/internal/scoring"
)

const (
	kindInvalidJudgment = "invalid_judgment"
	kindMatrixTooLarge  = "matrix_too_large"
)

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// decodeBody reads a JSON request body into v. Bad judgment text is an input
// error like any other core rejection; anything else is a malformed body.
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil {
		return true
	}
	if errors.Is(err, codec.ErrInvalidJudgment) {
		metrics.CoreError(kindInvalidJudgment)
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error(), Kind: kindInvalidJudgment})
		return false
	}
	writeError(w, http.StatusBadRequest, "invalid request body")
	return false
}

// writeFailure maps an error from the scoring core or the evaluation service
// to a response.
func writeFailure(w http.ResponseWriter, err error) {
	if kind := scoring.Kind(err); kind != "" {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error(), Kind: kind})
		return
	}
	switch {
	case errors.Is(err, evaluation.ErrMatrixTooLarge):
		metrics.CoreError(kindMatrixTooLarge)
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error(), Kind: kindMatrixTooLarge})
	case errors.Is(err, evaluation.ErrProjectNotFound):
		writeError(w, http.StatusNotFound, "project not found")
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
