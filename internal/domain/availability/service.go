package availability

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/tnwnrrl/schedule/internal/domain/actor"
	"github.com/tnwnrrl/schedule/internal/domain/casting"
	"github.com/tnwnrrl/schedule/internal/domain/schedule"
)

// EventMirror is the slice of the calendar mirror availability uses.
type EventMirror interface {
	CreateUnavailableEvent(ctx context.Context, actorName, actorCalendarID, date string) (eventID, allEventID string, err error)
	DeleteUnavailableEvent(ctx context.Context, actorCalendarID, eventID, allEventID string)
	DeleteCastingEvent(ctx context.Context, roleType, actorCalendarID, eventID, allEventID string, notify bool)
}

// PartnerRefresher rewrites a male lead description after its partner
// casting changes.
type PartnerRefresher interface {
	RefreshMaleLeadDescription(ctx context.Context, performanceDateID uuid.UUID) error
}

// Service handles actor availability logic
type Service struct {
	repo      Repository
	overrides OverrideRepository
	actors    actor.Repository
	dates     schedule.Repository
	castings  casting.Repository
	partners  PartnerRefresher
	mirror    EventMirror
}

// NewService creates availability service
func NewService(
	repo Repository,
	overrides OverrideRepository,
	actors actor.Repository,
	dates schedule.Repository,
	castings casting.Repository,
	partners PartnerRefresher,
	mirror EventMirror,
) *Service {
	return &Service{
		repo:      repo,
		overrides: overrides,
		actors:    actors,
		dates:     dates,
		castings:  castings,
		partners:  partners,
		mirror:    mirror,
	}
}

// ListMonth returns the actor's blocked slots for a YYYY-MM month.
func (s *Service) ListMonth(ctx context.Context, actorID uuid.UUID, month string) ([]*UnavailableDate, error) {
	first, last, err := schedule.MonthRange(month)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByActorInRange(ctx, actorID, first, last)
}

// SetUnavailable replaces the actor's blocked slots with the given set,
// diffed against current state. Newly blocked slots drop the actor's
// castings there in the same transaction. Calendar cleanup and
// publication happen after commit, best effort.
func (s *Service) SetUnavailable(ctx context.Context, req *SetUnavailableRequest) (*SetUnavailableResult, error) {
	act, err := s.actors.GetByID(ctx, req.ActorID)
	if err != nil {
		return nil, err
	}

	desired := make(map[uuid.UUID]bool, len(req.PerformanceDateIDs))
	addSlots := make([]*schedule.PerformanceDate, 0)

	current, err := s.repo.ListByActor(ctx, req.ActorID)
	if err != nil {
		return nil, err
	}
	have := make(map[uuid.UUID]*UnavailableDate, len(current))
	for _, u := range current {
		have[u.PerformanceDateID] = u
	}

	for _, id := range req.PerformanceDateIDs {
		if desired[id] {
			continue
		}
		desired[id] = true
		if _, ok := have[id]; ok {
			continue
		}
		slot, err := s.dates.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		addSlots = append(addSlots, slot)
	}

	var toRemove []*UnavailableDate
	for id, u := range have {
		if !desired[id] {
			toRemove = append(toRemove, u)
		}
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	addIDs := make([]uuid.UUID, 0, len(addSlots))
	for _, slot := range addSlots {
		u := &UnavailableDate{ID: uuid.New(), ActorID: req.ActorID, PerformanceDateID: slot.ID}
		if err := s.repo.Insert(ctx, tx, u); err != nil {
			return nil, err
		}
		addIDs = append(addIDs, slot.ID)
	}

	removeIDs := make([]uuid.UUID, 0, len(toRemove))
	for _, u := range toRemove {
		removeIDs = append(removeIDs, u.ID)
	}
	if err := s.repo.DeleteByIDs(ctx, tx, removeIDs); err != nil {
		return nil, err
	}

	// Blocking a slot the actor is cast in drops the casting.
	removedCastings, err := s.castings.DeleteByActorAndPerformanceDates(ctx, tx, req.ActorID, addIDs)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	log.Info().
		Str("actor_id", req.ActorID.String()).
		Int("added", len(addSlots)).
		Int("removed", len(toRemove)).
		Int("castings_removed", len(removedCastings)).
		Msg("unavailable slots replaced")

	s.cleanupRemoved(ctx, act, toRemove)

	for _, c := range removedCastings {
		s.mirror.DeleteCastingEvent(ctx, string(c.RoleType), act.CalendarID.String,
			c.CalendarEventID.String, c.AllCalendarEventID.String, true)
		if c.RoleType == actor.RoleTypeFemaleLead {
			if err := s.partners.RefreshMaleLeadDescription(ctx, c.PerformanceDateID); err != nil {
				log.Warn().Err(err).Msg("partner description refresh failed")
			}
		}
	}

	s.publishAdded(ctx, act, addSlots)

	return &SetUnavailableResult{
		Added:           len(addSlots),
		Removed:         len(toRemove),
		CastingsRemoved: len(removedCastings),
	}, nil
}

// RemoveActorEvents drops the actor's day markers from the calendars,
// ahead of the rows going away with the actor. Slots sharing a day share
// one marker, so each event id is deleted once.
func (s *Service) RemoveActorEvents(ctx context.Context, actorID uuid.UUID) error {
	rows, err := s.repo.ListByActor(ctx, actorID)
	if err != nil {
		return err
	}

	seen := map[string]bool{}
	for _, u := range rows {
		if u.CalendarEventID.String == "" || seen[u.CalendarEventID.String] {
			continue
		}
		seen[u.CalendarEventID.String] = true
		s.mirror.DeleteUnavailableEvent(ctx, u.ActorCalendarID.String,
			u.CalendarEventID.String, u.AllCalendarEventID.String)
	}
	return nil
}

// ToggleOverride flips the actor's month default and reports the new state.
func (s *Service) ToggleOverride(ctx context.Context, actorID uuid.UUID, month string) (bool, error) {
	if _, _, err := schedule.MonthRange(month); err != nil {
		return false, err
	}
	if _, err := s.actors.GetByID(ctx, actorID); err != nil {
		return false, err
	}

	exists, err := s.overrides.Exists(ctx, actorID, month)
	if err != nil {
		return false, err
	}
	if exists {
		return false, s.overrides.Unset(ctx, actorID, month)
	}
	return true, s.overrides.Set(ctx, actorID, month)
}

// SyncUnsynced publishes the all-day marker for every blocked slot whose
// calendar copy is missing. One event covers all of an actor's blocked
// slots on the same day.
func (s *Service) SyncUnsynced(ctx context.Context) (synced, failed int, err error) {
	rows, err := s.repo.ListUnsynced(ctx)
	if err != nil {
		return 0, 0, err
	}

	type dayKey struct {
		actorID uuid.UUID
		date    string
	}
	done := map[dayKey]bool{}

	for _, u := range rows {
		key := dayKey{actorID: u.ActorID, date: u.DateString()}
		if done[key] {
			synced++
			continue
		}

		if err := s.syncDay(ctx, u.ActorID, u.ActorName, u.ActorCalendarID.String, u.Date); err != nil {
			failed++
			continue
		}
		done[key] = true
		synced++
	}
	return synced, failed, nil
}

// syncDay reuses the existing day event when a sibling slot already
// published one, otherwise creates it, then flags the whole day synced.
func (s *Service) syncDay(ctx context.Context, actorID uuid.UUID, actorName, actorCalendarID string, date time.Time) error {
	eventID, allEventID, found, err := s.repo.EventForActorDate(ctx, actorID, date)
	if err != nil {
		return err
	}
	if !found {
		eventID, allEventID, err = s.mirror.CreateUnavailableEvent(ctx, actorName, actorCalendarID, date.Format("2006-01-02"))
		if err != nil {
			return err
		}
	}
	return s.repo.MarkSyncedForActorDate(ctx, actorID, date, eventID, allEventID)
}

func (s *Service) publishAdded(ctx context.Context, act *actor.Actor, slots []*schedule.PerformanceDate) {
	seen := map[string]bool{}
	for _, slot := range slots {
		day := slot.DateString()
		if seen[day] {
			continue
		}
		seen[day] = true
		if err := s.syncDay(ctx, act.ID, act.Name, act.CalendarID.String, slot.Date); err != nil {
			log.Warn().Err(err).Str("date", day).Msg("unavailable slot left unsynced")
		}
	}
}

// cleanupRemoved deletes a day marker only when no blocked slot remains
// on that day.
func (s *Service) cleanupRemoved(ctx context.Context, act *actor.Actor, removed []*UnavailableDate) {
	seen := map[string]bool{}
	for _, u := range removed {
		day := u.DateString()
		if seen[day] {
			continue
		}
		seen[day] = true

		remaining, err := s.repo.CountByActorDate(ctx, act.ID, u.Date)
		if err != nil {
			log.Warn().Err(err).Str("date", day).Msg("unavailable day count failed")
			continue
		}
		if remaining > 0 {
			continue
		}
		s.mirror.DeleteUnavailableEvent(ctx, act.CalendarID.String,
			u.CalendarEventID.String, u.AllCalendarEventID.String)
	}
}
