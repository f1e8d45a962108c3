package schedule

import "github.com/google/uuid"

// SlotCasting is the assignment shown for one {performanceDateId}_{roleType}
// key of the month view.
type SlotCasting struct {
	RoleType  string    `json:"role_type"`
	ActorID   uuid.UUID `json:"actor_id"`
	ActorName string    `json:"actor_name"`
}

// SlotView is one performance slot inside its date group.
type SlotView struct {
	ID       uuid.UUID `json:"id"`
	ShowTime string    `json:"show_time"`
	EndTime  string    `json:"end_time,omitempty"`
	Label    string    `json:"label,omitempty"`
}

// ActorView is one roster entry of the month view.
type ActorView struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	RoleType string    `json:"role_type"`
}

// UnavailableView marks an actor as unavailable for one slot.
type UnavailableView struct {
	ActorID           uuid.UUID `json:"actor_id"`
	PerformanceDateID uuid.UUID `json:"performance_date_id"`
}

// OverrideView marks an actor's month as default-unavailable.
type OverrideView struct {
	ActorID uuid.UUID `json:"actor_id"`
	Month   string    `json:"month"`
}

// ReservationView is the booking state of one slot, admin eyes only.
type ReservationView struct {
	PerformanceDateID uuid.UUID `json:"performance_date_id"`
	HasReservation    bool      `json:"has_reservation"`
	Name              string    `json:"name,omitempty"`
	Contact           string    `json:"contact,omitempty"`
}

// MonthViewResponse is the full scheduling board for one month:
// performances grouped by date, castings keyed {performanceDateId}_{roleType},
// unavailability keyed by actor id, and the roster. OverriddenActors and
// Reservations are only populated for admins.
type MonthViewResponse struct {
	Month            string                     `json:"month"`
	Performances     map[string][]SlotView      `json:"performances"`
	Castings         map[string]SlotCasting     `json:"castings"`
	Unavailable      map[string][]uuid.UUID     `json:"unavailable"`
	Actors           []ActorView                `json:"actors"`
	OverriddenActors []uuid.UUID                `json:"overridden_actors,omitempty"`
	Reservations     map[string]ReservationView `json:"reservations,omitempty"`
}

// PerformanceView is one slot of the full schedule listing, assignments
// included.
type PerformanceView struct {
	ID       uuid.UUID     `json:"id"`
	Date     string        `json:"date"`
	ShowTime string        `json:"show_time"`
	EndTime  string        `json:"end_time,omitempty"`
	Label    string        `json:"label,omitempty"`
	Castings []SlotCasting `json:"castings"`
}

// PerformanceDateResponse is a bare performance slot.
type PerformanceDateResponse struct {
	ID       uuid.UUID `json:"id"`
	Date     string    `json:"date"`
	ShowTime string    `json:"show_time"`
	EndTime  string    `json:"end_time,omitempty"`
	Label    string    `json:"label,omitempty"`
}

// PerformanceDateResponseFromEntity converts entity to response DTO.
func PerformanceDateResponseFromEntity(pd *PerformanceDate) PerformanceDateResponse {
	return PerformanceDateResponse{
		ID:       pd.ID,
		Date:     pd.DateString(),
		ShowTime: pd.ShowTime,
		EndTime:  pd.EndTime.String,
		Label:    pd.Label.String,
	}
}

// CastingKey builds the month view casting map key for one slot role.
func CastingKey(performanceDateID uuid.UUID, roleType string) string {
	return performanceDateID.String() + "_" + roleType
}
