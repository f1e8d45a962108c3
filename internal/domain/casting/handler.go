package casting

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/tnwnrrl/schedule/internal/domain/actor"
	"github.com/tnwnrrl/schedule/internal/domain/schedule"
	"github.com/tnwnrrl/schedule/internal/pkg/response"
	"github.com/tnwnrrl/schedule/internal/pkg/validator"
)

// Handler handles casting HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates casting handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// List handles GET /castings
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	castings, err := h.service.List(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to list castings")
		response.InternalError(w)
		return
	}
	response.OK(w, castings)
}

// Assign handles POST /castings
func (h *Handler) Assign(w http.ResponseWriter, r *http.Request) {
	var req AssignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	resp, err := h.service.Assign(r.Context(), &req)
	if err != nil {
		h.writeAssignError(w, err)
		return
	}

	if resp == nil {
		response.OK(w, map[string]bool{"unassigned": true})
		return
	}
	response.OK(w, resp)
}

// AssignBatch handles POST /castings/batch
func (h *Handler) AssignBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	results, err := h.service.AssignBatch(r.Context(), &req)
	if err != nil {
		log.Error().Err(err).Msg("batch assignment failed")
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]interface{}{"results": results})
}

// Notify handles POST /castings/notify
func (h *Handler) Notify(w http.ResponseWriter, r *http.Request) {
	var req NotifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if err := h.service.Notify(r.Context(), &req); err != nil {
		switch {
		case errors.Is(err, ErrCastingNotFound):
			response.NotFound(w, "Casting not found")
		case errors.Is(err, ErrNoLinkedEmail):
			response.BadRequest(w, "Actor has no linked account email")
		default:
			log.Error().Err(err).Msg("invite notify failed")
			response.InternalError(w)
		}
		return
	}

	response.OK(w, map[string]bool{"notified": true})
}

func (h *Handler) writeAssignError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrCastingNotFound):
		response.NotFound(w, "Casting not found")
	case errors.Is(err, schedule.ErrPerformanceDateNotFound):
		response.NotFound(w, "Performance date not found")
	case errors.Is(err, actor.ErrActorNotFound):
		response.NotFound(w, "Actor not found")
	case errors.Is(err, ErrRoleMismatch):
		response.BadRequest(w, "Actor role does not match the requested role")
	case errors.Is(err, ErrActorUnavailable):
		response.BadRequest(w, "Actor is unavailable on this date")
	default:
		log.Error().Err(err).Msg("assignment failed")
		response.InternalError(w)
	}
}
