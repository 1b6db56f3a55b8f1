// Package httpapi exposes the migration pipeline over HTTP.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/goliatone/go-formmigrate/pkg/model"
	"github.com/goliatone/go-formmigrate/pkg/orchestrator"
)

// Converter is the subset of the orchestrator served by the API.
type Converter interface {
	ConvertForm(ctx context.Context, req orchestrator.FormRequest) (model.Page, error)
	ConvertPage(ctx context.Context, req orchestrator.PageRequest) (model.Page, error)
}

// NewRouter mounts the health check and the conversion endpoints.
func NewRouter(conv Converter, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(LoggingMiddleware(logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", HealthHandler())

	r.Route("/v1", func(api chi.Router) {
		api.Post("/forms/convert", FormHandler(conv, logger))
		api.Post("/pages/convert", PageHandler(conv, logger))
	})

	return r
}
