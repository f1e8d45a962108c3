package schedule

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// ShowTimes are the performance start times of a show day, in order.
var ShowTimes = []string{"10:45", "13:00", "15:15", "17:30", "19:45"}

// PerformanceDate is a single performance slot on a given day. EndTime and
// Label are optional; generated slots carry neither.
type PerformanceDate struct {
	ID        uuid.UUID      `db:"id" json:"id"`
	Date      time.Time      `db:"date" json:"date"`
	ShowTime  string         `db:"show_time" json:"show_time"`
	EndTime   sql.NullString `db:"end_time" json:"-"`
	Label     sql.NullString `db:"label" json:"-"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}

// DateString returns the slot's date formatted as YYYY-MM-DD.
func (p *PerformanceDate) DateString() string {
	return p.Date.Format("2006-01-02")
}
