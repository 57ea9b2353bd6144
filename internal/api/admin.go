package api

import (
	"net/http"

	"github.com/MikeSquared-Agency/Verdict/internal/evaluation"
	"github.com/MikeSquared-Agency/Verdict/internal/store"
)

type AdminHandler struct {
	store store.Store
	svc   *evaluation.Service
}

func NewAdminHandler(s store.Store, svc *evaluation.Service) *AdminHandler {
	return &AdminHandler{store: s, svc: svc}
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.GetStats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

type SettingsResponse struct {
	WeightMethod         string  `json:"weight_method"`
	ConsistencyThreshold float64 `json:"consistency_threshold"`
}

// Settings reports the analysis defaults applied to requests that do not
// override them.
func (h *AdminHandler) Settings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, SettingsResponse{
		WeightMethod:         string(h.svc.Method()),
		ConsistencyThreshold: h.svc.Threshold(),
	})
}
