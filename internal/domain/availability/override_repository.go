package availability

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// OverrideRepository defines month override data access
type OverrideRepository interface {
	ListByMonth(ctx context.Context, month string) ([]*ActorMonthOverride, error)
	Exists(ctx context.Context, actorID uuid.UUID, month string) (bool, error)
	Set(ctx context.Context, actorID uuid.UUID, month string) error
	Unset(ctx context.Context, actorID uuid.UUID, month string) error
}

type overrideRepository struct {
	db *sqlx.DB
}

// NewOverrideRepository creates a month override repository
func NewOverrideRepository(db *sqlx.DB) OverrideRepository {
	return &overrideRepository{db: db}
}

func (r *overrideRepository) ListByMonth(ctx context.Context, month string) ([]*ActorMonthOverride, error) {
	query := `
		SELECT id, actor_id, month, created_at
		FROM actor_month_overrides
		WHERE month = $1
		ORDER BY created_at ASC`

	overrides := []*ActorMonthOverride{}
	if err := r.db.SelectContext(ctx, &overrides, query, month); err != nil {
		return nil, err
	}
	return overrides, nil
}

func (r *overrideRepository) Exists(ctx context.Context, actorID uuid.UUID, month string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM actor_month_overrides WHERE actor_id = $1 AND month = $2)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, actorID, month); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *overrideRepository) Set(ctx context.Context, actorID uuid.UUID, month string) error {
	query := `
		INSERT INTO actor_month_overrides (id, actor_id, month)
		VALUES ($1, $2, $3)
		ON CONFLICT (actor_id, month) DO NOTHING`

	_, err := r.db.ExecContext(ctx, query, uuid.New(), actorID, month)
	return err
}

func (r *overrideRepository) Unset(ctx context.Context, actorID uuid.UUID, month string) error {
	query := `DELETE FROM actor_month_overrides WHERE actor_id = $1 AND month = $2`

	_, err := r.db.ExecContext(ctx, query, actorID, month)
	return err
}
