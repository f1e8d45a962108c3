package auth

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// UserRepository defines user data access
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	LinkActor(ctx context.Context, userID, actorID uuid.UUID) error
	UnlinkActor(ctx context.Context, actorID uuid.UUID) error
	UpdateEmailByActor(ctx context.Context, actorID uuid.UUID, email string) error
}

type userRepository struct {
	db *sqlx.DB
}

const userColumns = `id, email, name, password_hash, role, actor_id, created_at, updated_at`

// NewUserRepository creates user repository
func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	var u User
	err := r.db.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.db.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// LinkActor points a user at an actor and demotes the account to ACTOR role.
// Any user previously linked to that actor must be unlinked first.
func (r *userRepository) LinkActor(ctx context.Context, userID, actorID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET actor_id = $2, role = $3, updated_at = NOW() WHERE id = $1`,
		userID, actorID, RoleActor)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *userRepository) UnlinkActor(ctx context.Context, actorID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET actor_id = NULL, updated_at = NOW() WHERE actor_id = $1`, actorID)
	return err
}

func (r *userRepository) UpdateEmailByActor(ctx context.Context, actorID uuid.UUID, email string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET email = $2, updated_at = NOW() WHERE actor_id = $1`, actorID, email)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrEmailAlreadyExists
		}
		return err
	}
	return nil
}
