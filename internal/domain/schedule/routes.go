package schedule

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tnwnrrl/schedule/internal/middleware"
)

// RegisterRoutes registers schedule routes
func RegisterRoutes(r chi.Router, handler *Handler, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/schedule", func(r chi.Router) {
		// Token-authenticated, consumed by calendar apps.
		r.Get("/feed.ics", handler.Feed)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)

			r.Get("/{month}", handler.MonthView)

			r.With(middleware.RequireAdmin()).Post("/{month}/ensure", handler.EnsureMonth)
		})
	})

	r.Route("/performances", func(r chi.Router) {
		r.Use(authMiddleware)

		r.Get("/", handler.Performances)
	})
}
