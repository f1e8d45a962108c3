package actor

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tnwnrrl/schedule/internal/domain/auth"
	"github.com/tnwnrrl/schedule/internal/pkg/response"
	"github.com/tnwnrrl/schedule/internal/pkg/validator"
)

// Handler handles actor HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates actor handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// List handles GET /actors
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actors, err := h.service.List(r.Context())
	if err != nil {
		response.InternalError(w)
		return
	}

	resp := make([]ActorResponse, 0, len(actors))
	for _, a := range actors {
		resp = append(resp, ActorResponseFromEntity(a))
	}
	response.OK(w, resp)
}

// Create handles POST /actors
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateActorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	a, err := h.service.Create(r.Context(), &req)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.Created(w, ActorResponseFromEntity(a))
}

// Update handles PUT /actors/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid actor ID")
		return
	}

	var req UpdateActorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	a, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrActorNotFound):
			response.NotFound(w, "Actor not found")
		case errors.Is(err, auth.ErrEmailAlreadyExists):
			response.BadRequest(w, "Email is already in use")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, ActorResponseFromEntity(a))
}

// Delete handles DELETE /actors/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid actor ID")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrActorNotFound) {
			response.NotFound(w, "Actor not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.NoContent(w)
}

// Link handles POST /actors/{id}/link
func (h *Handler) Link(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid actor ID")
		return
	}

	var req LinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if req.UserID == uuid.Nil {
		response.BadRequest(w, "user_id is required")
		return
	}

	if err := h.service.Link(r.Context(), id, req.UserID); err != nil {
		switch {
		case errors.Is(err, ErrActorNotFound):
			response.NotFound(w, "Actor not found")
		case errors.Is(err, auth.ErrUserNotFound):
			response.NotFound(w, "User not found")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, map[string]bool{"linked": true})
}

// ProvisionCalendars handles POST /actors/calendars
func (h *Handler) ProvisionCalendars(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.ProvisionCalendars(r.Context())
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, report)
}
