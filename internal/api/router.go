package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MikeSquared-Agency/Verdict/internal/config"
	"github.com/MikeSquared-Agency/Verdict/internal/evaluation"
	"github.com/MikeSquared-Agency/Verdict/internal/hermes"
	"github.com/MikeSquared-Agency/Verdict/internal/store"
)

func NewRouter(s store.Store, h hermes.Client, svc *evaluation.Service, cfg *config.Config, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(RateLimitMiddleware(cfg.Server.RateLimitPerMinute))

	ahp := NewAHPHandler(svc)
	profile := NewProfileHandler()
	projects := NewProjectsHandler(s, h, svc)
	admin := NewAdminHandler(s, svc)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/ahp/weights", ahp.Weights)
		r.Post("/ahp/evaluate", ahp.Evaluate)
		r.Post("/ahp/aggregate", ahp.Aggregate)
		r.Get("/ahp/scale", ahp.Scale)

		r.Post("/profile/score", profile.Score)
		r.Get("/profile/profiles", profile.Profiles)

		r.Post("/projects", projects.Create)
		r.Get("/projects", projects.List)
		r.Get("/projects/{id}", projects.Get)
		r.Put("/projects/{id}", projects.Update)
		r.Delete("/projects/{id}", projects.Delete)
		r.Post("/projects/{id}/evaluate", projects.Evaluate)
		r.Get("/projects/{id}/evaluations", projects.Evaluations)
		r.Get("/projects/{id}/export", projects.Export)

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(cfg.Server.AdminToken))
			r.Get("/stats", admin.Stats)
			r.Get("/settings", admin.Settings)
		})
	})

	return r
}

func NewMetricsRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}
