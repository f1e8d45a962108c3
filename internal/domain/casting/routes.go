package casting

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tnwnrrl/schedule/internal/middleware"
)

// RegisterRoutes registers casting routes
func RegisterRoutes(r chi.Router, handler *Handler, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/castings", func(r chi.Router) {
		r.Use(authMiddleware)

		r.Get("/", handler.List)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin())

			r.Post("/", handler.Assign)
			r.Post("/batch", handler.AssignBatch)
			r.Post("/notify", handler.Notify)
		})
	})
}
