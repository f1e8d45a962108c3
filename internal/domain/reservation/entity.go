package reservation

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// ReservationStatus records whether a performance slot has a ticket
// booking and, while the memo is live, who booked it. One row per slot
// (matches reservation_statuses table)
type ReservationStatus struct {
	ID                 uuid.UUID      `db:"id"`
	PerformanceDateID  uuid.UUID      `db:"performance_date_id"`
	HasReservation     bool           `db:"has_reservation"`
	ReservationName    sql.NullString `db:"reservation_name"`
	ReservationContact sql.NullString `db:"reservation_contact"`
	CheckedAt          time.Time      `db:"checked_at"`

	// Joined data (not columns), populated by detail queries
	Date     time.Time `db:"date"`
	ShowTime string    `db:"show_time"`
}

// HasMemo reports whether the row still carries booking contact info.
func (r *ReservationStatus) HasMemo() bool {
	return r.ReservationName.String != "" || r.ReservationContact.String != ""
}
