package fullsync

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/tnwnrrl/schedule/internal/middleware"
	"github.com/tnwnrrl/schedule/internal/pkg/response"
)

// Handler handles full sync HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates full sync handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// SyncAll handles POST /calendar/sync
func (h *Handler) SyncAll(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.SyncAll(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("full calendar sync failed")
		response.InternalError(w)
		return
	}

	response.OK(w, report)
}

// RegisterRoutes registers full sync routes
func RegisterRoutes(r chi.Router, handler *Handler, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/calendar", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(middleware.RequireAdmin())

		r.Post("/sync", handler.SyncAll)
	})
}
