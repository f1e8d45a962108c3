package actor

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines actor data access
type Repository interface {
	List(ctx context.Context) ([]*Actor, error)
	Roster(ctx context.Context) ([]*Actor, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Actor, error)
	Create(ctx context.Context, a *Actor) error
	Update(ctx context.Context, a *Actor) error
	UpdateCalendarID(ctx context.Context, id uuid.UUID, calendarID string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates actor repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// List returns all actors with linked account email and usage counts.
func (r *repository) List(ctx context.Context) ([]*Actor, error) {
	query := `
		SELECT a.id, a.name, a.role_type, a.calendar_id, a.created_at, a.updated_at,
		       u.email AS user_email,
		       (SELECT COUNT(*) FROM castings c WHERE c.actor_id = a.id) AS casting_count,
		       (SELECT COUNT(*) FROM unavailable_dates ud WHERE ud.actor_id = a.id) AS unavailable_count
		FROM actors a
		LEFT JOIN users u ON u.actor_id = a.id
		ORDER BY a.role_type, a.name
	`
	var actors []*Actor
	if err := r.db.SelectContext(ctx, &actors, query); err != nil {
		return nil, err
	}
	return actors, nil
}

// Roster returns the minimal actor list used by schedule views.
func (r *repository) Roster(ctx context.Context) ([]*Actor, error) {
	query := `
		SELECT id, name, role_type, calendar_id, created_at, updated_at
		FROM actors
		ORDER BY role_type, name
	`
	var actors []*Actor
	if err := r.db.SelectContext(ctx, &actors, query); err != nil {
		return nil, err
	}
	return actors, nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Actor, error) {
	query := `
		SELECT id, name, role_type, calendar_id, created_at, updated_at
		FROM actors WHERE id = $1
	`
	var a Actor
	if err := r.db.GetContext(ctx, &a, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrActorNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *repository) Create(ctx context.Context, a *Actor) error {
	query := `
		INSERT INTO actors (id, name, role_type, calendar_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
	`
	_, err := r.db.ExecContext(ctx, query, a.ID, a.Name, a.RoleType, a.CalendarID)
	return err
}

func (r *repository) Update(ctx context.Context, a *Actor) error {
	query := `
		UPDATE actors
		SET name = $2, role_type = $3, calendar_id = $4, updated_at = NOW()
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, a.ID, a.Name, a.RoleType, a.CalendarID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrActorNotFound
	}
	return nil
}

func (r *repository) UpdateCalendarID(ctx context.Context, id uuid.UUID, calendarID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE actors SET calendar_id = $2, updated_at = NOW() WHERE id = $1`, id, calendarID)
	return err
}

// Delete removes an actor. Castings, unavailable dates and month overrides
// cascade via foreign keys.
func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM actors WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrActorNotFound
	}
	return nil
}
