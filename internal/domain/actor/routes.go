package actor

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tnwnrrl/schedule/internal/middleware"
)

// RegisterRoutes registers actor routes
func RegisterRoutes(r chi.Router, handler *Handler, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/actors", func(r chi.Router) {
		r.Use(authMiddleware)

		r.Get("/", handler.List)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin())

			r.Post("/", handler.Create)
			r.Post("/calendars", handler.ProvisionCalendars)
			r.Put("/{id}", handler.Update)
			r.Delete("/{id}", handler.Delete)
			r.Post("/{id}/link", handler.Link)
		})
	})
}
