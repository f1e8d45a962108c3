package availability

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// UnavailableDate blocks an actor from one performance slot
// (matches unavailable_dates table)
type UnavailableDate struct {
	ID                 uuid.UUID      `db:"id"`
	ActorID            uuid.UUID      `db:"actor_id"`
	PerformanceDateID  uuid.UUID      `db:"performance_date_id"`
	Synced             bool           `db:"synced"`
	CalendarEventID    sql.NullString `db:"calendar_event_id"`
	AllCalendarEventID sql.NullString `db:"all_calendar_event_id"`
	CreatedAt          time.Time      `db:"created_at"`

	// Joined data (not columns), populated by detail queries
	Date            time.Time      `db:"date"`
	ShowTime        string         `db:"show_time"`
	ActorName       string         `db:"actor_name"`
	ActorCalendarID sql.NullString `db:"actor_calendar_id"`
}

// DateString returns the joined slot date as YYYY-MM-DD.
func (u *UnavailableDate) DateString() string {
	return u.Date.Format("2006-01-02")
}

// ActorMonthOverride flips an actor's default for a month to unavailable,
// hiding them from assignment candidates without writing per-slot rows
// (matches actor_month_overrides table)
type ActorMonthOverride struct {
	ID        uuid.UUID `db:"id"`
	ActorID   uuid.UUID `db:"actor_id"`
	Month     string    `db:"month"`
	CreatedAt time.Time `db:"created_at"`
}
