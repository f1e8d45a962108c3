package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// CastingSource provides casting summaries for month view aggregation.
type CastingSource interface {
	ListSlotCastings(ctx context.Context, performanceDateIDs []uuid.UUID) (map[uuid.UUID][]SlotCasting, error)
}

// ActorSource provides the roster for month view aggregation.
type ActorSource interface {
	ListRoster(ctx context.Context) ([]ActorView, error)
}

// AvailabilitySource provides unavailability data for month view aggregation.
type AvailabilitySource interface {
	ListUnavailableInRange(ctx context.Context, from, to time.Time) ([]UnavailableView, error)
	ListMonthOverrides(ctx context.Context, month string) ([]OverrideView, error)
}

// ReservationSource provides booking state for month view aggregation.
type ReservationSource interface {
	ListSlotReservations(ctx context.Context, performanceDateIDs []uuid.UUID) ([]ReservationView, error)
}

// Service handles performance schedule logic
type Service struct {
	repo         Repository
	actors       ActorSource
	castings     CastingSource
	availability AvailabilitySource
	reservations ReservationSource
}

// NewService creates schedule service
func NewService(repo Repository, actors ActorSource, castings CastingSource, availability AvailabilitySource, reservations ReservationSource) *Service {
	return &Service{
		repo:         repo,
		actors:       actors,
		castings:     castings,
		availability: availability,
		reservations: reservations,
	}
}

// MonthRange returns the first and last day of a YYYY-MM month.
func MonthRange(month string) (time.Time, time.Time, error) {
	first, err := time.Parse("2006-01", month)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidMonth
	}
	last := first.AddDate(0, 1, -1)
	return first, last, nil
}

// EnsureMonth guarantees every show-time slot of the month exists and
// returns the full sorted slot list. Creation is idempotent, so
// concurrent calls for the same month are safe.
func (s *Service) EnsureMonth(ctx context.Context, month string) ([]*PerformanceDate, error) {
	first, last, err := MonthRange(month)
	if err != nil {
		return nil, err
	}

	expected := last.Day() * len(ShowTimes)

	existing, err := s.repo.ListByRange(ctx, first, last)
	if err != nil {
		return nil, err
	}
	if len(existing) == expected {
		return existing, nil
	}

	have := make(map[string]bool, len(existing))
	for _, pd := range existing {
		have[pd.DateString()+" "+pd.ShowTime] = true
	}

	missing := make([]*PerformanceDate, 0, expected-len(existing))
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		for _, st := range ShowTimes {
			key := day.Format("2006-01-02") + " " + st
			if have[key] {
				continue
			}
			missing = append(missing, &PerformanceDate{
				ID:       uuid.New(),
				Date:     day,
				ShowTime: st,
			})
		}
	}

	if err := s.repo.InsertSlots(ctx, missing); err != nil {
		return nil, err
	}

	log.Info().
		Str("month", month).
		Int("created", len(missing)).
		Msg("performance slots ensured")

	return s.repo.ListByRange(ctx, first, last)
}

// MonthView assembles the scheduling board for a month: every slot grouped
// by date, the casting map, unavailability by actor, and the roster. Admins
// additionally get the overridden actors and booking state.
func (s *Service) MonthView(ctx context.Context, month string, admin bool) (*MonthViewResponse, error) {
	dates, err := s.EnsureMonth(ctx, month)
	if err != nil {
		return nil, err
	}

	first, last, err := MonthRange(month)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(dates))
	for _, pd := range dates {
		ids = append(ids, pd.ID)
	}

	actors, err := s.actors.ListRoster(ctx)
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}

	castingsBySlot, err := s.castings.ListSlotCastings(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load castings: %w", err)
	}

	unavailable, err := s.availability.ListUnavailableInRange(ctx, first, last)
	if err != nil {
		return nil, fmt.Errorf("load unavailability: %w", err)
	}

	view := &MonthViewResponse{
		Month:        month,
		Performances: make(map[string][]SlotView, last.Day()),
		Castings:     make(map[string]SlotCasting),
		Unavailable:  make(map[string][]uuid.UUID),
		Actors:       actors,
	}

	for _, pd := range dates {
		day := pd.DateString()
		view.Performances[day] = append(view.Performances[day], SlotView{
			ID:       pd.ID,
			ShowTime: pd.ShowTime,
			EndTime:  pd.EndTime.String,
			Label:    pd.Label.String,
		})
		for _, c := range castingsBySlot[pd.ID] {
			view.Castings[CastingKey(pd.ID, c.RoleType)] = c
		}
	}

	for _, u := range unavailable {
		key := u.ActorID.String()
		view.Unavailable[key] = append(view.Unavailable[key], u.PerformanceDateID)
	}

	if admin {
		overrides, err := s.availability.ListMonthOverrides(ctx, month)
		if err != nil {
			return nil, fmt.Errorf("load month overrides: %w", err)
		}
		view.OverriddenActors = make([]uuid.UUID, 0, len(overrides))
		for _, o := range overrides {
			view.OverriddenActors = append(view.OverriddenActors, o.ActorID)
		}

		if s.reservations != nil {
			reservations, err := s.reservations.ListSlotReservations(ctx, ids)
			if err != nil {
				return nil, fmt.Errorf("load reservations: %w", err)
			}
			view.Reservations = make(map[string]ReservationView, len(reservations))
			for _, r := range reservations {
				view.Reservations[r.PerformanceDateID.String()] = r
			}
		}
	}

	return view, nil
}

// Performances lists every slot in order with its assignments.
func (s *Service) Performances(ctx context.Context) ([]PerformanceView, error) {
	dates, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(dates))
	for _, pd := range dates {
		ids = append(ids, pd.ID)
	}

	castingsBySlot, err := s.castings.ListSlotCastings(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load castings: %w", err)
	}

	views := make([]PerformanceView, 0, len(dates))
	for _, pd := range dates {
		castings := castingsBySlot[pd.ID]
		if castings == nil {
			castings = []SlotCasting{}
		}
		views = append(views, PerformanceView{
			ID:       pd.ID,
			Date:     pd.DateString(),
			ShowTime: pd.ShowTime,
			EndTime:  pd.EndTime.String,
			Label:    pd.Label.String,
			Castings: castings,
		})
	}
	return views, nil
}
