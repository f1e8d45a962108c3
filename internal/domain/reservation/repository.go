package reservation

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repository defines reservation status data access
type Repository interface {
	GetMemo(ctx context.Context, performanceDateID uuid.UUID) (name, contact string, err error)
	Upsert(ctx context.Context, performanceDateID uuid.UUID, hasReservation bool, name, contact string) error
	ListByPerformanceDates(ctx context.Context, ids []uuid.UUID) ([]*ReservationStatus, error)
	ListWithMemoBefore(ctx context.Context, before time.Time) ([]*ReservationStatus, error)
	ClearMemo(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates a reservation status repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// GetMemo returns the live booking memo for a slot, or empty strings when
// none is recorded.
func (r *repository) GetMemo(ctx context.Context, performanceDateID uuid.UUID) (string, string, error) {
	query := `
		SELECT COALESCE(reservation_name, ''), COALESCE(reservation_contact, '')
		FROM reservation_statuses
		WHERE performance_date_id = $1 AND has_reservation = true`

	var name, contact string
	row := r.db.QueryRowxContext(ctx, query, performanceDateID)
	if err := row.Scan(&name, &contact); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", "", nil
		}
		return "", "", err
	}
	return name, contact, nil
}

func (r *repository) Upsert(ctx context.Context, performanceDateID uuid.UUID, hasReservation bool, name, contact string) error {
	query := `
		INSERT INTO reservation_statuses (id, performance_date_id, has_reservation, reservation_name, reservation_contact, checked_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), NOW())
		ON CONFLICT (performance_date_id) DO UPDATE SET
			has_reservation = EXCLUDED.has_reservation,
			reservation_name = EXCLUDED.reservation_name,
			reservation_contact = EXCLUDED.reservation_contact,
			checked_at = NOW()`

	_, err := r.db.ExecContext(ctx, query, uuid.New(), performanceDateID, hasReservation, name, contact)
	return err
}

func (r *repository) ListByPerformanceDates(ctx context.Context, ids []uuid.UUID) ([]*ReservationStatus, error) {
	if len(ids) == 0 {
		return []*ReservationStatus{}, nil
	}

	query := `
		SELECT rs.id, rs.performance_date_id, rs.has_reservation,
			rs.reservation_name, rs.reservation_contact, rs.checked_at,
			pd.date, pd.show_time
		FROM reservation_statuses rs
		JOIN performance_dates pd ON pd.id = rs.performance_date_id
		WHERE rs.performance_date_id = ANY($1)
		ORDER BY pd.date ASC, pd.show_time ASC`

	statuses := []*ReservationStatus{}
	if err := r.db.SelectContext(ctx, &statuses, query, pq.Array(ids)); err != nil {
		return nil, err
	}
	return statuses, nil
}

func (r *repository) ListWithMemoBefore(ctx context.Context, before time.Time) ([]*ReservationStatus, error) {
	query := `
		SELECT rs.id, rs.performance_date_id, rs.has_reservation,
			rs.reservation_name, rs.reservation_contact, rs.checked_at,
			pd.date, pd.show_time
		FROM reservation_statuses rs
		JOIN performance_dates pd ON pd.id = rs.performance_date_id
		WHERE pd.date < $1
			AND (rs.reservation_name IS NOT NULL OR rs.reservation_contact IS NOT NULL)
		ORDER BY pd.date ASC`

	statuses := []*ReservationStatus{}
	if err := r.db.SelectContext(ctx, &statuses, query, before); err != nil {
		return nil, err
	}
	return statuses, nil
}

func (r *repository) ClearMemo(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE reservation_statuses SET
			reservation_name = NULL,
			reservation_contact = NULL,
			checked_at = NOW()
		WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, id)
	return err
}
