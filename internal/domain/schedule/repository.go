package schedule

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines performance date data access
type Repository interface {
	ListAll(ctx context.Context) ([]*PerformanceDate, error)
	ListByRange(ctx context.Context, from, to time.Time) ([]*PerformanceDate, error)
	GetByID(ctx context.Context, id uuid.UUID) (*PerformanceDate, error)
	GetByDateShowTime(ctx context.Context, date time.Time, showTime string) (*PerformanceDate, error)
	InsertSlots(ctx context.Context, slots []*PerformanceDate) error
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates a performance date repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const slotColumns = `id, date, show_time, end_time, label, created_at`

func (r *repository) ListAll(ctx context.Context) ([]*PerformanceDate, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM performance_dates
		ORDER BY date ASC, show_time ASC`

	dates := []*PerformanceDate{}
	if err := r.db.SelectContext(ctx, &dates, query); err != nil {
		return nil, err
	}
	return dates, nil
}

func (r *repository) ListByRange(ctx context.Context, from, to time.Time) ([]*PerformanceDate, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM performance_dates
		WHERE date >= $1 AND date <= $2
		ORDER BY date ASC, show_time ASC`

	dates := []*PerformanceDate{}
	if err := r.db.SelectContext(ctx, &dates, query, from, to); err != nil {
		return nil, err
	}
	return dates, nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*PerformanceDate, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM performance_dates
		WHERE id = $1`

	var pd PerformanceDate
	if err := r.db.GetContext(ctx, &pd, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPerformanceDateNotFound
		}
		return nil, err
	}
	return &pd, nil
}

func (r *repository) GetByDateShowTime(ctx context.Context, date time.Time, showTime string) (*PerformanceDate, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM performance_dates
		WHERE date = $1 AND show_time = $2`

	var pd PerformanceDate
	if err := r.db.GetContext(ctx, &pd, query, date, showTime); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPerformanceDateNotFound
		}
		return nil, err
	}
	return &pd, nil
}

func (r *repository) InsertSlots(ctx context.Context, slots []*PerformanceDate) error {
	if len(slots) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO performance_dates (id, date, show_time)
		VALUES ($1, $2, $3)
		ON CONFLICT (date, show_time) DO NOTHING`

	for _, s := range slots {
		if _, err := tx.ExecContext(ctx, query, s.ID, s.Date, s.ShowTime); err != nil {
			return err
		}
	}

	return tx.Commit()
}
