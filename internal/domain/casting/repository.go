package casting

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/tnwnrrl/schedule/internal/domain/actor"
	"github.com/tnwnrrl/schedule/internal/pkg/database"
)

const detailColumns = `
	c.id, c.performance_date_id, c.actor_id, c.role_type, c.synced,
	c.calendar_event_id, c.all_calendar_event_id, c.created_at, c.updated_at,
	a.name AS actor_name,
	a.calendar_id AS actor_calendar_id,
	u.email AS actor_email,
	pd.date, pd.show_time, pd.end_time, pd.label AS slot_label`

const detailJoins = `
	FROM castings c
	JOIN actors a ON a.id = c.actor_id
	LEFT JOIN users u ON u.actor_id = a.id
	JOIN performance_dates pd ON pd.id = c.performance_date_id`

// Repository defines casting data access
type Repository interface {
	BeginTx(ctx context.Context) (database.Tx, error)
	GetBySlotRole(ctx context.Context, performanceDateID uuid.UUID, roleType actor.RoleType) (*Casting, error)
	List(ctx context.Context) ([]*Casting, error)
	ListByActor(ctx context.Context, actorID uuid.UUID) ([]*Casting, error)
	ListByPerformanceDates(ctx context.Context, ids []uuid.UUID) ([]*Casting, error)
	ListUnsynced(ctx context.Context) ([]*Casting, error)
	ListFutureMaleLead(ctx context.Context, from time.Time) ([]*Casting, error)
	ListFromDate(ctx context.Context, from time.Time) ([]*Casting, error)
	Upsert(ctx context.Context, q sqlx.ExtContext, c *Casting) error
	DeleteBySlotRole(ctx context.Context, q sqlx.ExtContext, performanceDateID uuid.UUID, roleType actor.RoleType) error
	DeleteByActorAndPerformanceDates(ctx context.Context, q sqlx.ExtContext, actorID uuid.UUID, performanceDateIDs []uuid.UUID) ([]*Casting, error)
	MarkSynced(ctx context.Context, id uuid.UUID, eventID, allEventID string) error
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates a casting repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) BeginTx(ctx context.Context) (database.Tx, error) {
	return r.db.BeginTxx(ctx, nil)
}

func (r *repository) GetBySlotRole(ctx context.Context, performanceDateID uuid.UUID, roleType actor.RoleType) (*Casting, error) {
	query := `SELECT ` + detailColumns + detailJoins + `
		WHERE c.performance_date_id = $1 AND c.role_type = $2`

	var c Casting
	if err := r.db.GetContext(ctx, &c, query, performanceDateID, roleType); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCastingNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *repository) List(ctx context.Context) ([]*Casting, error) {
	query := `SELECT ` + detailColumns + detailJoins + `
		ORDER BY pd.date ASC, pd.show_time ASC, c.role_type ASC`

	castings := []*Casting{}
	if err := r.db.SelectContext(ctx, &castings, query); err != nil {
		return nil, err
	}
	return castings, nil
}

func (r *repository) ListByActor(ctx context.Context, actorID uuid.UUID) ([]*Casting, error) {
	query := `SELECT ` + detailColumns + detailJoins + `
		WHERE c.actor_id = $1
		ORDER BY pd.date ASC, pd.show_time ASC`

	castings := []*Casting{}
	if err := r.db.SelectContext(ctx, &castings, query, actorID); err != nil {
		return nil, err
	}
	return castings, nil
}

func (r *repository) ListByPerformanceDates(ctx context.Context, ids []uuid.UUID) ([]*Casting, error) {
	if len(ids) == 0 {
		return []*Casting{}, nil
	}

	query := `SELECT ` + detailColumns + detailJoins + `
		WHERE c.performance_date_id = ANY($1)
		ORDER BY pd.date ASC, pd.show_time ASC, c.role_type ASC`

	castings := []*Casting{}
	if err := r.db.SelectContext(ctx, &castings, query, pq.Array(ids)); err != nil {
		return nil, err
	}
	return castings, nil
}

func (r *repository) ListUnsynced(ctx context.Context) ([]*Casting, error) {
	query := `SELECT ` + detailColumns + detailJoins + `
		WHERE c.synced = false
		ORDER BY pd.date ASC, pd.show_time ASC`

	castings := []*Casting{}
	if err := r.db.SelectContext(ctx, &castings, query); err != nil {
		return nil, err
	}
	return castings, nil
}

func (r *repository) ListFutureMaleLead(ctx context.Context, from time.Time) ([]*Casting, error) {
	query := `SELECT ` + detailColumns + detailJoins + `
		WHERE c.role_type = $1 AND pd.date >= $2
		ORDER BY pd.date ASC, pd.show_time ASC`

	castings := []*Casting{}
	if err := r.db.SelectContext(ctx, &castings, query, actor.RoleTypeMaleLead, from); err != nil {
		return nil, err
	}
	return castings, nil
}

func (r *repository) ListFromDate(ctx context.Context, from time.Time) ([]*Casting, error) {
	query := `SELECT ` + detailColumns + detailJoins + `
		WHERE pd.date >= $1
		ORDER BY pd.date ASC, pd.show_time ASC, c.role_type ASC`

	castings := []*Casting{}
	if err := r.db.SelectContext(ctx, &castings, query, from); err != nil {
		return nil, err
	}
	return castings, nil
}

// Upsert inserts or replaces the casting for a slot+role pair. A replace
// clears the synced flag and stored event ids so the calendar pass picks
// the row up again.
func (r *repository) Upsert(ctx context.Context, q sqlx.ExtContext, c *Casting) error {
	if q == nil {
		q = r.db
	}

	query := `
		INSERT INTO castings (id, performance_date_id, actor_id, role_type, synced)
		VALUES ($1, $2, $3, $4, false)
		ON CONFLICT (performance_date_id, role_type) DO UPDATE SET
			actor_id = EXCLUDED.actor_id,
			synced = false,
			calendar_event_id = NULL,
			all_calendar_event_id = NULL,
			updated_at = NOW()
		RETURNING id`

	return sqlx.GetContext(ctx, q, &c.ID, query, uuid.New(), c.PerformanceDateID, c.ActorID, c.RoleType)
}

// DeleteBySlotRole clears the slot role. Deleting an already empty slot
// is a no-op, not an error.
func (r *repository) DeleteBySlotRole(ctx context.Context, q sqlx.ExtContext, performanceDateID uuid.UUID, roleType actor.RoleType) error {
	if q == nil {
		q = r.db
	}

	query := `DELETE FROM castings WHERE performance_date_id = $1 AND role_type = $2`

	_, err := q.ExecContext(ctx, query, performanceDateID, roleType)
	return err
}

// DeleteByActorAndPerformanceDates removes the actor's castings on the given
// slots and returns the deleted rows so the caller can clean up their events.
func (r *repository) DeleteByActorAndPerformanceDates(ctx context.Context, q sqlx.ExtContext, actorID uuid.UUID, performanceDateIDs []uuid.UUID) ([]*Casting, error) {
	if len(performanceDateIDs) == 0 {
		return []*Casting{}, nil
	}
	if q == nil {
		q = r.db
	}

	query := `
		DELETE FROM castings
		WHERE actor_id = $1 AND performance_date_id = ANY($2)
		RETURNING id, performance_date_id, actor_id, role_type, synced,
			calendar_event_id, all_calendar_event_id, created_at, updated_at`

	deleted := []*Casting{}
	if err := sqlx.SelectContext(ctx, q, &deleted, query, actorID, pq.Array(performanceDateIDs)); err != nil {
		return nil, err
	}
	return deleted, nil
}

func (r *repository) MarkSynced(ctx context.Context, id uuid.UUID, eventID, allEventID string) error {
	query := `
		UPDATE castings SET
			synced = true,
			calendar_event_id = NULLIF($2, ''),
			all_calendar_event_id = NULLIF($3, ''),
			updated_at = NOW()
		WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, id, eventID, allEventID)
	return err
}
