package availability

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/tnwnrrl/schedule/internal/domain/actor"
	"github.com/tnwnrrl/schedule/internal/domain/schedule"
	"github.com/tnwnrrl/schedule/internal/middleware"
	"github.com/tnwnrrl/schedule/internal/pkg/response"
	"github.com/tnwnrrl/schedule/internal/pkg/validator"
)

// Handler handles availability HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates availability handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ListMonth handles GET /unavailable/{actorID}?month=YYYY-MM
func (h *Handler) ListMonth(w http.ResponseWriter, r *http.Request) {
	actorID, err := uuid.Parse(chi.URLParam(r, "actorID"))
	if err != nil {
		response.BadRequest(w, "Invalid actor ID")
		return
	}
	month := r.URL.Query().Get("month")
	if month == "" {
		response.BadRequest(w, "month query parameter is required")
		return
	}

	dates, err := h.service.ListMonth(r.Context(), actorID, month)
	if err != nil {
		if errors.Is(err, schedule.ErrInvalidMonth) {
			response.BadRequest(w, "Month must be in YYYY-MM format")
			return
		}
		response.InternalError(w)
		return
	}

	resp := make([]UnavailableDateResponse, 0, len(dates))
	for _, u := range dates {
		resp = append(resp, UnavailableDateResponseFromEntity(u))
	}
	response.OK(w, resp)
}

// SetUnavailable handles POST /unavailable
func (h *Handler) SetUnavailable(w http.ResponseWriter, r *http.Request) {
	var req SetUnavailableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if !h.canManage(r, req.ActorID) {
		response.Forbidden(w, "You can only manage your own availability")
		return
	}

	result, err := h.service.SetUnavailable(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, actor.ErrActorNotFound):
			response.NotFound(w, "Actor not found")
		case errors.Is(err, schedule.ErrPerformanceDateNotFound):
			response.NotFound(w, "Performance date not found")
		default:
			log.Error().Err(err).Msg("unavailable replacement failed")
			response.InternalError(w)
		}
		return
	}

	response.OK(w, result)
}

// ToggleOverride handles POST /actor-overrides. The route is admin only:
// a month override hides the actor from every assignment list, which is
// not the actor's own call.
func (h *Handler) ToggleOverride(w http.ResponseWriter, r *http.Request) {
	var req ToggleOverrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	enabled, err := h.service.ToggleOverride(r.Context(), req.ActorID, req.Month)
	if err != nil {
		switch {
		case errors.Is(err, actor.ErrActorNotFound):
			response.NotFound(w, "Actor not found")
		case errors.Is(err, schedule.ErrInvalidMonth):
			response.BadRequest(w, "Month must be in YYYY-MM format")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, map[string]bool{"enabled": enabled})
}

// Admins manage anyone; actors only themselves.
func (h *Handler) canManage(r *http.Request, actorID uuid.UUID) bool {
	if middleware.IsAdmin(r.Context()) {
		return true
	}
	return middleware.GetActorID(r.Context()) == actorID
}
