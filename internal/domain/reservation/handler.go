package reservation

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/tnwnrrl/schedule/internal/pkg/response"
	"github.com/tnwnrrl/schedule/internal/pkg/validator"
)

// Handler handles reservation HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates reservation handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RecordBookings handles POST /reservations/record
func (h *Handler) RecordBookings(w http.ResponseWriter, r *http.Request) {
	var req RecordBookingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	results, err := h.service.RecordBookings(r.Context(), &req)
	if err != nil {
		log.Error().Err(err).Msg("booking record failed")
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]interface{}{"results": results})
}

// SyncReservations handles POST /reservations/sync
func (h *Handler) SyncReservations(w http.ResponseWriter, r *http.Request) {
	var req SyncReservationsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	result, err := h.service.SyncReservations(r.Context(), &req)
	if err != nil {
		log.Error().Err(err).Msg("reservation sync failed")
		response.InternalError(w)
		return
	}

	response.OK(w, result)
}

// TriggerSync handles POST /reservations/trigger
func (h *Handler) TriggerSync(w http.ResponseWriter, r *http.Request) {
	if err := h.service.TriggerSync(r.Context()); err != nil {
		if errors.Is(err, ErrCrawlerNotConfigured) {
			response.Error(w, http.StatusInternalServerError, "NOT_CONFIGURED", "Crawler webhook is not configured")
			return
		}
		log.Error().Err(err).Msg("crawler trigger failed")
		response.BadGateway(w, "Crawler did not accept the trigger")
		return
	}

	response.OK(w, map[string]bool{"triggered": true})
}

// CleanupPastMemos handles GET /cron/cleanup-memos
func (h *Handler) CleanupPastMemos(w http.ResponseWriter, r *http.Request) {
	cleaned, err := h.service.CleanupPastMemos(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("memo cleanup failed")
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]int{"cleaned": cleaned})
}

// CleanupFutureDescriptions handles GET /cron/cleanup-future-descriptions
func (h *Handler) CleanupFutureDescriptions(w http.ResponseWriter, r *http.Request) {
	patched, err := h.service.CleanupFutureDescriptions(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("future description cleanup failed")
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]int{"patched": patched})
}
