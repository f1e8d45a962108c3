package actor

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// RoleType represents the lead role an actor performs
type RoleType string

const (
	RoleTypeMaleLead   RoleType = "MALE_LEAD"
	RoleTypeFemaleLead RoleType = "FEMALE_LEAD"
)

// IsValidRoleType reports whether s names a known role type
func IsValidRoleType(s string) bool {
	return s == string(RoleTypeMaleLead) || s == string(RoleTypeFemaleLead)
}

// Actor represents a cast member (matches actors table)
type Actor struct {
	ID         uuid.UUID      `db:"id"`
	Name       string         `db:"name"`
	RoleType   RoleType       `db:"role_type"`
	CalendarID sql.NullString `db:"calendar_id"`
	CreatedAt  time.Time      `db:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at"`

	// Joined data (not columns), populated by List
	UserEmail        sql.NullString `db:"user_email"`
	CastingCount     int            `db:"casting_count"`
	UnavailableCount int            `db:"unavailable_count"`
}
