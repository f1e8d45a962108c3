package auth

import (
	"time"

	"github.com/google/uuid"
)

// Role represents an account role
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleActor Role = "ACTOR"
)

// User represents an account (matches users table).
// An ACTOR account is linked to one actor row; ADMIN accounts are not.
type User struct {
	ID           uuid.UUID     `db:"id"`
	Email        string        `db:"email"`
	Name         string        `db:"name"`
	PasswordHash string        `db:"password_hash"`
	Role         Role          `db:"role"`
	ActorID      uuid.NullUUID `db:"actor_id"`
	CreatedAt    time.Time     `db:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at"`
}
