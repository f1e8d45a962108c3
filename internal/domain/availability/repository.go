package availability

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/tnwnrrl/schedule/internal/pkg/database"
)

const detailColumns = `
	u.id, u.actor_id, u.performance_date_id, u.synced,
	u.calendar_event_id, u.all_calendar_event_id, u.created_at,
	pd.date, pd.show_time,
	a.name AS actor_name,
	a.calendar_id AS actor_calendar_id`

const detailJoins = `
	FROM unavailable_dates u
	JOIN performance_dates pd ON pd.id = u.performance_date_id
	JOIN actors a ON a.id = u.actor_id`

// Repository defines unavailable slot data access
type Repository interface {
	BeginTx(ctx context.Context) (database.Tx, error)
	ListByActor(ctx context.Context, actorID uuid.UUID) ([]*UnavailableDate, error)
	ListByActorInRange(ctx context.Context, actorID uuid.UUID, from, to time.Time) ([]*UnavailableDate, error)
	ListInRange(ctx context.Context, from, to time.Time) ([]*UnavailableDate, error)
	ListUnsynced(ctx context.Context) ([]*UnavailableDate, error)
	Exists(ctx context.Context, actorID, performanceDateID uuid.UUID) (bool, error)
	Insert(ctx context.Context, q sqlx.ExtContext, u *UnavailableDate) error
	DeleteByIDs(ctx context.Context, q sqlx.ExtContext, ids []uuid.UUID) error
	CountByActorDate(ctx context.Context, actorID uuid.UUID, date time.Time) (int, error)
	EventForActorDate(ctx context.Context, actorID uuid.UUID, date time.Time) (eventID, allEventID string, found bool, err error)
	MarkSyncedForActorDate(ctx context.Context, actorID uuid.UUID, date time.Time, eventID, allEventID string) error
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates an unavailable slot repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) BeginTx(ctx context.Context) (database.Tx, error) {
	return r.db.BeginTxx(ctx, nil)
}

func (r *repository) ListByActor(ctx context.Context, actorID uuid.UUID) ([]*UnavailableDate, error) {
	query := `SELECT ` + detailColumns + detailJoins + `
		WHERE u.actor_id = $1
		ORDER BY pd.date ASC, pd.show_time ASC`

	rows := []*UnavailableDate{}
	if err := r.db.SelectContext(ctx, &rows, query, actorID); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListByActorInRange(ctx context.Context, actorID uuid.UUID, from, to time.Time) ([]*UnavailableDate, error) {
	query := `SELECT ` + detailColumns + detailJoins + `
		WHERE u.actor_id = $1 AND pd.date >= $2 AND pd.date <= $3
		ORDER BY pd.date ASC, pd.show_time ASC`

	rows := []*UnavailableDate{}
	if err := r.db.SelectContext(ctx, &rows, query, actorID, from, to); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListInRange(ctx context.Context, from, to time.Time) ([]*UnavailableDate, error) {
	query := `SELECT ` + detailColumns + detailJoins + `
		WHERE pd.date >= $1 AND pd.date <= $2
		ORDER BY pd.date ASC, pd.show_time ASC`

	rows := []*UnavailableDate{}
	if err := r.db.SelectContext(ctx, &rows, query, from, to); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListUnsynced(ctx context.Context) ([]*UnavailableDate, error) {
	query := `SELECT ` + detailColumns + detailJoins + `
		WHERE u.synced = false
		ORDER BY u.actor_id ASC, pd.date ASC`

	rows := []*UnavailableDate{}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) Exists(ctx context.Context, actorID, performanceDateID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM unavailable_dates WHERE actor_id = $1 AND performance_date_id = $2)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, actorID, performanceDateID); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *repository) Insert(ctx context.Context, q sqlx.ExtContext, u *UnavailableDate) error {
	if q == nil {
		q = r.db
	}

	query := `
		INSERT INTO unavailable_dates (id, actor_id, performance_date_id, synced)
		VALUES ($1, $2, $3, false)
		ON CONFLICT (actor_id, performance_date_id) DO NOTHING`

	_, err := q.ExecContext(ctx, query, u.ID, u.ActorID, u.PerformanceDateID)
	return err
}

func (r *repository) DeleteByIDs(ctx context.Context, q sqlx.ExtContext, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	if q == nil {
		q = r.db
	}

	query := `DELETE FROM unavailable_dates WHERE id = ANY($1)`

	_, err := q.ExecContext(ctx, query, pq.Array(ids))
	return err
}

func (r *repository) CountByActorDate(ctx context.Context, actorID uuid.UUID, date time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM unavailable_dates u
		JOIN performance_dates pd ON pd.id = u.performance_date_id
		WHERE u.actor_id = $1 AND pd.date = $2`

	var count int
	if err := r.db.GetContext(ctx, &count, query, actorID, date); err != nil {
		return 0, err
	}
	return count, nil
}

// EventForActorDate finds the calendar event already published for any of
// the actor's blocked slots on a day. Per (actor, date) there is one
// all-day event shared by every blocked slot.
func (r *repository) EventForActorDate(ctx context.Context, actorID uuid.UUID, date time.Time) (string, string, bool, error) {
	query := `
		SELECT COALESCE(u.calendar_event_id, ''), COALESCE(u.all_calendar_event_id, '')
		FROM unavailable_dates u
		JOIN performance_dates pd ON pd.id = u.performance_date_id
		WHERE u.actor_id = $1 AND pd.date = $2 AND u.calendar_event_id IS NOT NULL
		LIMIT 1`

	row := r.db.QueryRowxContext(ctx, query, actorID, date)
	var eventID, allEventID string
	if err := row.Scan(&eventID, &allEventID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", "", false, nil
		}
		return "", "", false, err
	}
	return eventID, allEventID, true, nil
}

func (r *repository) MarkSyncedForActorDate(ctx context.Context, actorID uuid.UUID, date time.Time, eventID, allEventID string) error {
	query := `
		UPDATE unavailable_dates u SET
			synced = true,
			calendar_event_id = NULLIF($3, ''),
			all_calendar_event_id = NULLIF($4, '')
		FROM performance_dates pd
		WHERE pd.id = u.performance_date_id AND u.actor_id = $1 AND pd.date = $2`

	_, err := r.db.ExecContext(ctx, query, actorID, date, eventID, allEventID)
	return err
}
