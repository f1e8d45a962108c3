package reservation

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tnwnrrl/schedule/internal/middleware"
)

// RegisterRoutes registers reservation routes. apiKeyMiddleware guards the
// crawler-facing ingestion endpoints, cronMiddleware the scheduled ones.
func RegisterRoutes(r chi.Router, handler *Handler, authMiddleware, apiKeyMiddleware, cronMiddleware func(http.Handler) http.Handler) {
	r.Route("/reservations", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(apiKeyMiddleware)

			r.Post("/record", handler.RecordBookings)
			r.Post("/sync", handler.SyncReservations)
		})

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(middleware.RequireAdmin())

			r.Post("/trigger", handler.TriggerSync)
		})
	})

	r.Route("/cron", func(r chi.Router) {
		r.Use(cronMiddleware)

		r.Get("/cleanup-memos", handler.CleanupPastMemos)
		r.Get("/cleanup-future-descriptions", handler.CleanupFutureDescriptions)
	})
}
