package availability

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tnwnrrl/schedule/internal/middleware"
)

// RegisterRoutes registers availability routes
func RegisterRoutes(r chi.Router, handler *Handler, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/unavailable", func(r chi.Router) {
		r.Use(authMiddleware)

		r.Get("/{actorID}", handler.ListMonth)
		r.Post("/", handler.SetUnavailable)
	})

	r.Route("/actor-overrides", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(middleware.RequireAdmin())

		r.Post("/", handler.ToggleOverride)
	})
}
