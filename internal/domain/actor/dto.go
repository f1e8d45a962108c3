package actor

import (
	"github.com/google/uuid"
)

// CreateActorRequest for POST /actors
type CreateActorRequest struct {
	Name       string `json:"name" validate:"required,min=1,max=100"`
	RoleType   string `json:"role_type" validate:"required,roletype"`
	CalendarID string `json:"calendar_id" validate:"omitempty,max=255"`
}

// UpdateActorRequest for PUT /actors/{id}
type UpdateActorRequest struct {
	Name       *string `json:"name" validate:"omitempty,min=1,max=100"`
	RoleType   *string `json:"role_type" validate:"omitempty,roletype"`
	CalendarID *string `json:"calendar_id" validate:"omitempty,max=255"`
	UserEmail  *string `json:"user_email" validate:"omitempty,email"`
}

// LinkRequest for POST /actors/{id}/link
type LinkRequest struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
}

// ActorResponse represents an actor in API responses
type ActorResponse struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	RoleType         string    `json:"role_type"`
	CalendarID       string    `json:"calendar_id,omitempty"`
	UserEmail        string    `json:"user_email,omitempty"`
	CastingCount     int       `json:"casting_count"`
	UnavailableCount int       `json:"unavailable_count"`
}

// ProvisionReport summarizes a calendar provisioning run
type ProvisionReport struct {
	Created int      `json:"created"`
	Shared  int      `json:"shared"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}

// ActorResponseFromEntity maps an entity to its response shape
func ActorResponseFromEntity(a *Actor) ActorResponse {
	return ActorResponse{
		ID:               a.ID,
		Name:             a.Name,
		RoleType:         string(a.RoleType),
		CalendarID:       a.CalendarID.String,
		UserEmail:        a.UserEmail.String,
		CastingCount:     a.CastingCount,
		UnavailableCount: a.UnavailableCount,
	}
}
