package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Verdict/internal/codec"
	"github.com/MikeSquared-Agency/Verdict/internal/evaluation"
	"github.com/MikeSquared-Agency/Verdict/internal/hermes"
	"github.com/MikeSquared-Agency/Verdict/internal/metrics"
	"github.com/MikeSquared-Agency/Verdict/internal/scoring"
	"github.com/MikeSquared-Agency/Verdict/internal/store"
)

type ProjectsHandler struct {
	store  store.Store
	hermes hermes.Client
	svc    *evaluation.Service
}

func NewProjectsHandler(s store.Store, h hermes.Client, svc *evaluation.Service) *ProjectsHandler {
	return &ProjectsHandler{store: s, hermes: h, svc: svc}
}

// Create saves a project file. The owner is the calling user, if any.
func (h *ProjectsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var doc codec.Project
	if !decodeBody(w, r, &doc) {
		return
	}
	if !h.validate(w, &doc) {
		return
	}

	p := &store.Project{
		Name:     doc.Name,
		Owner:    r.Header.Get(UserHeader),
		Document: doc,
	}
	if err := h.store.CreateProject(r.Context(), p); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.publish(hermes.SubjectProjectCreated, p)
	writeJSON(w, http.StatusCreated, p)
}

func (h *ProjectsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.ProjectFilter{
		Owner: q.Get("owner"),
		Name:  q.Get("name"),
	}
	var err error
	if filter.Limit, err = intParam(q.Get("limit")); err != nil {
		writeError(w, http.StatusBadRequest, "invalid limit")
		return
	}
	if filter.Offset, err = intParam(q.Get("offset")); err != nil {
		writeError(w, http.StatusBadRequest, "invalid offset")
		return
	}

	projects, err := h.store.ListProjects(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if projects == nil {
		projects = []*store.Project{}
	}
	writeJSON(w, http.StatusOK, projects)
}

func (h *ProjectsHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Update replaces a project's document. The owner is kept.
func (h *ProjectsHandler) Update(w http.ResponseWriter, r *http.Request) {
	p, ok := h.load(w, r)
	if !ok {
		return
	}
	var doc codec.Project
	if !decodeBody(w, r, &doc) {
		return
	}
	if doc.Name == "" {
		doc.Name = p.Name
	}
	if !h.validate(w, &doc) {
		return
	}

	p.Name = doc.Name
	p.Document = doc
	if err := h.store.UpdateProject(r.Context(), p); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "project not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.publish(hermes.SubjectProjectUpdated, p)
	writeJSON(w, http.StatusOK, p)
}

func (h *ProjectsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p, ok := h.load(w, r)
	if !ok {
		return
	}
	if err := h.store.DeleteProject(r.Context(), p.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "project not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.publish(hermes.SubjectProjectDeleted, p)
	w.WriteHeader(http.StatusNoContent)
}

// Evaluate runs and persists the stored project's hierarchy.
func (h *ProjectsHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid project id")
		return
	}
	method, ok := parseMethod(w, r.URL.Query().Get("method"))
	if !ok {
		return
	}
	report, err := h.svc.EvaluateProject(r.Context(), id, method)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *ProjectsHandler) Evaluations(w http.ResponseWriter, r *http.Request) {
	p, ok := h.load(w, r)
	if !ok {
		return
	}
	limit, err := intParam(r.URL.Query().Get("limit"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid limit")
		return
	}
	records, err := h.store.ListEvaluations(r.Context(), p.ID, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if records == nil {
		records = []*store.EvaluationRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

// Export writes the project file the desktop and CLI tools read.
func (h *ProjectsHandler) Export(w http.ResponseWriter, r *http.Request) {
	p, ok := h.load(w, r)
	if !ok {
		return
	}
	doc := p.Document
	if doc.Name == "" {
		doc.Name = p.Name
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.json"`, fileName(p.Name)))
	w.WriteHeader(http.StatusOK)
	_ = codec.EncodeProject(w, &doc)
}

func (h *ProjectsHandler) load(w http.ResponseWriter, r *http.Request) (*store.Project, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid project id")
		return nil, false
	}
	p, err := h.store.GetProject(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return nil, false
	}
	if p == nil {
		writeError(w, http.StatusNotFound, "project not found")
		return nil, false
	}
	return p, true
}

// validate rejects documents that cannot be turned into a hierarchy, so a
// saved project always evaluates.
func (h *ProjectsHandler) validate(w http.ResponseWriter, doc *codec.Project) bool {
	doc.Normalize()
	if strings.TrimSpace(doc.Name) == "" {
		writeError(w, http.StatusBadRequest, "name required")
		return false
	}
	for _, n := range []int{doc.CriteriaCount, doc.AlternativeCount} {
		if err := h.svc.CheckSize(n); err != nil {
			writeFailure(w, err)
			return false
		}
	}
	if _, _, err := doc.Matrices(); err != nil {
		metrics.CoreError(scoring.Kind(err))
		writeFailure(w, err)
		return false
	}
	return true
}

func (h *ProjectsHandler) publish(subject func(string) string, p *store.Project) {
	if h.hermes == nil {
		return
	}
	_ = h.hermes.Publish(subject(p.ID.String()), hermes.ProjectEvent{
		ProjectID: p.ID.String(),
		Name:      p.Name,
		Owner:     p.Owner,
		Timestamp: time.Now(),
	})
}

func intParam(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid integer %q", s)
	}
	return n, nil
}

func fileName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r == ' ':
			return '_'
		}
		return -1
	}, name)
	if name == "" {
		return "project"
	}
	return name
}
