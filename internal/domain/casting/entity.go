package casting

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/tnwnrrl/schedule/internal/domain/actor"
)

// Casting assigns an actor to a role in one performance slot
// (matches castings table)
type Casting struct {
	ID                 uuid.UUID      `db:"id"`
	PerformanceDateID  uuid.UUID      `db:"performance_date_id"`
	ActorID            uuid.UUID      `db:"actor_id"`
	RoleType           actor.RoleType `db:"role_type"`
	Synced             bool           `db:"synced"`
	CalendarEventID    sql.NullString `db:"calendar_event_id"`
	AllCalendarEventID sql.NullString `db:"all_calendar_event_id"`
	CreatedAt          time.Time      `db:"created_at"`
	UpdatedAt          time.Time      `db:"updated_at"`

	// Joined data (not columns), populated by detail queries
	ActorName       string         `db:"actor_name"`
	ActorEmail      sql.NullString `db:"actor_email"`
	ActorCalendarID sql.NullString `db:"actor_calendar_id"`
	Date            time.Time      `db:"date"`
	ShowTime        string         `db:"show_time"`
	EndTime         sql.NullString `db:"end_time"`
	SlotLabel       sql.NullString `db:"slot_label"`
}

// DateString returns the joined performance date as YYYY-MM-DD.
func (c *Casting) DateString() string {
	return c.Date.Format("2006-01-02")
}

// RoleLabel returns the Korean display label for a role type.
func RoleLabel(rt actor.RoleType) string {
	if rt == actor.RoleTypeMaleLead {
		return "남주"
	}
	return "여주"
}
