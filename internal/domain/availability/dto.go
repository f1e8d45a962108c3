package availability

import "github.com/google/uuid"

// SetUnavailableRequest replaces the actor's blocked slots with the
// given set. Slots absent from the list become available again.
type SetUnavailableRequest struct {
	ActorID            uuid.UUID   `json:"actor_id" validate:"required"`
	PerformanceDateIDs []uuid.UUID `json:"performance_date_ids" validate:"required"`
}

// ToggleOverrideRequest flips an actor's default for a month.
type ToggleOverrideRequest struct {
	ActorID uuid.UUID `json:"actor_id" validate:"required"`
	Month   string    `json:"month" validate:"required"`
}

// UnavailableDateResponse is the API shape of a blocked slot.
type UnavailableDateResponse struct {
	ID                uuid.UUID `json:"id"`
	ActorID           uuid.UUID `json:"actor_id"`
	PerformanceDateID uuid.UUID `json:"performance_date_id"`
	Date              string    `json:"date"`
	ShowTime          string    `json:"show_time"`
	Synced            bool      `json:"synced"`
}

// SetUnavailableResult reports what the replacement changed.
type SetUnavailableResult struct {
	Added           int `json:"added"`
	Removed         int `json:"removed"`
	CastingsRemoved int `json:"castings_removed"`
}

// UnavailableDateResponseFromEntity converts entity to response DTO.
func UnavailableDateResponseFromEntity(u *UnavailableDate) UnavailableDateResponse {
	return UnavailableDateResponse{
		ID:                u.ID,
		ActorID:           u.ActorID,
		PerformanceDateID: u.PerformanceDateID,
		Date:              u.DateString(),
		ShowTime:          u.ShowTime,
		Synced:            u.Synced,
	}
}
