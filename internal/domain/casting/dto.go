package casting

import "github.com/google/uuid"

// AssignRequest assigns an actor to a slot role. A nil actor_id clears
// the assignment.
type AssignRequest struct {
	PerformanceDateID uuid.UUID  `json:"performance_date_id" validate:"required"`
	RoleType          string     `json:"role_type" validate:"required,roletype"`
	ActorID           *uuid.UUID `json:"actor_id"`
}

// BatchAssignment is one slot change in a batch, optionally carrying a
// booking memo for the slot.
type BatchAssignment struct {
	PerformanceDateID uuid.UUID  `json:"performance_date_id" validate:"required"`
	RoleType          string     `json:"role_type" validate:"required,roletype"`
	ActorID           *uuid.UUID `json:"actor_id"`
	MemoName          *string    `json:"memo_name"`
	MemoContact       *string    `json:"memo_contact"`
}

// BatchRequest applies multiple assignments in one transaction.
type BatchRequest struct {
	Assignments []BatchAssignment `json:"assignments" validate:"required,min=1,dive"`
}

// NotifyRequest re-sends the calendar invite for an assignment.
type NotifyRequest struct {
	PerformanceDateID uuid.UUID `json:"performance_date_id" validate:"required"`
	RoleType          string    `json:"role_type" validate:"required,roletype"`
}

// CastingResponse is the API shape of a casting.
type CastingResponse struct {
	ID                uuid.UUID `json:"id"`
	PerformanceDateID uuid.UUID `json:"performance_date_id"`
	ActorID           uuid.UUID `json:"actor_id"`
	ActorName         string    `json:"actor_name"`
	RoleType          string    `json:"role_type"`
	Date              string    `json:"date"`
	ShowTime          string    `json:"show_time"`
	Synced            bool      `json:"synced"`
}

// BatchResultItem reports the outcome of one batch assignment.
type BatchResultItem struct {
	PerformanceDateID uuid.UUID `json:"performance_date_id"`
	RoleType          string    `json:"role_type"`
	Status            string    `json:"status"` // assigned | unassigned | error
	Error             string    `json:"error,omitempty"`
}

// CastingResponseFromEntity converts entity to response DTO.
func CastingResponseFromEntity(c *Casting) CastingResponse {
	return CastingResponse{
		ID:                c.ID,
		PerformanceDateID: c.PerformanceDateID,
		ActorID:           c.ActorID,
		ActorName:         c.ActorName,
		RoleType:          string(c.RoleType),
		Date:              c.DateString(),
		ShowTime:          c.ShowTime,
		Synced:            c.Synced,
	}
}
