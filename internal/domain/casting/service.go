package casting

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/tnwnrrl/schedule/internal/calendar"
	"github.com/tnwnrrl/schedule/internal/domain/actor"
	"github.com/tnwnrrl/schedule/internal/domain/schedule"
	"github.com/tnwnrrl/schedule/internal/pkg/kst"
)

// UnavailabilityChecker reports whether an actor is blocked for a slot.
type UnavailabilityChecker interface {
	Exists(ctx context.Context, actorID, performanceDateID uuid.UUID) (bool, error)
}

// ReservationSource reads and writes the booking memo of a performance
// slot. Empty name and contact mean no memo is recorded.
type ReservationSource interface {
	GetMemo(ctx context.Context, performanceDateID uuid.UUID) (name, contact string, err error)
	Upsert(ctx context.Context, performanceDateID uuid.UUID, hasReservation bool, name, contact string) error
}

// EventMirror is the slice of the calendar mirror castings use.
type EventMirror interface {
	CreateCastingEvent(ctx context.Context, ev calendar.CastingEvent) (eventID, allEventID string, err error)
	DeleteCastingEvent(ctx context.Context, roleType, actorCalendarID, eventID, allEventID string, notify bool)
	UpdateDescription(ctx context.Context, roleType, actorCalendarID, eventID, allEventID string, description *string) error
}

// Service handles casting assignment logic
type Service struct {
	repo           Repository
	actors         actor.Repository
	dates          schedule.Repository
	reservations   ReservationSource
	unavailability UnavailabilityChecker
	mirror         EventMirror
}

// NewService creates casting service
func NewService(
	repo Repository,
	actors actor.Repository,
	dates schedule.Repository,
	reservations ReservationSource,
	unavailability UnavailabilityChecker,
	mirror EventMirror,
) *Service {
	return &Service{
		repo:           repo,
		actors:         actors,
		dates:          dates,
		reservations:   reservations,
		unavailability: unavailability,
		mirror:         mirror,
	}
}

// List returns every casting in performance order.
func (s *Service) List(ctx context.Context) ([]CastingResponse, error) {
	castings, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]CastingResponse, 0, len(castings))
	for _, c := range castings {
		resp = append(resp, CastingResponseFromEntity(c))
	}
	return resp, nil
}

// Assign sets or clears the actor for one slot role. A nil response with
// a nil error means the assignment was cleared.
func (s *Service) Assign(ctx context.Context, req *AssignRequest) (*CastingResponse, error) {
	roleType := actor.RoleType(req.RoleType)

	if req.ActorID == nil {
		if err := s.unassign(ctx, req.PerformanceDateID, roleType); err != nil {
			return nil, err
		}
		return nil, nil
	}

	var (
		pd     *schedule.PerformanceDate
		act    *actor.Actor
		pdErr  error
		actErr error
	)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		pd, pdErr = s.dates.GetByID(ctx, req.PerformanceDateID)
	}()
	go func() {
		defer wg.Done()
		act, actErr = s.actors.GetByID(ctx, *req.ActorID)
	}()
	wg.Wait()

	if pdErr != nil {
		return nil, pdErr
	}
	if actErr != nil {
		return nil, actErr
	}

	if act.RoleType != roleType {
		return nil, ErrRoleMismatch
	}

	blocked, err := s.unavailability.Exists(ctx, act.ID, pd.ID)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, ErrActorUnavailable
	}

	existing, err := s.repo.GetBySlotRole(ctx, req.PerformanceDateID, roleType)
	if err != nil && !errors.Is(err, ErrCastingNotFound) {
		return nil, err
	}

	c := &Casting{
		PerformanceDateID: req.PerformanceDateID,
		ActorID:           act.ID,
		RoleType:          roleType,
	}
	if err := s.repo.Upsert(ctx, nil, c); err != nil {
		return nil, err
	}

	if existing != nil {
		s.mirror.DeleteCastingEvent(ctx, string(existing.RoleType), existing.ActorCalendarID.String,
			existing.CalendarEventID.String, existing.AllCalendarEventID.String, false)
	}

	detail, err := s.repo.GetBySlotRole(ctx, req.PerformanceDateID, roleType)
	if err != nil {
		return nil, err
	}

	if err := s.syncOne(ctx, detail); err != nil {
		log.Warn().Err(err).
			Str("performance_date_id", req.PerformanceDateID.String()).
			Str("role_type", req.RoleType).
			Msg("casting left unsynced")
	}

	if roleType == actor.RoleTypeFemaleLead {
		if err := s.RefreshMaleLeadDescription(ctx, req.PerformanceDateID); err != nil {
			log.Warn().Err(err).Msg("partner description refresh failed")
		}
	}

	resp := CastingResponseFromEntity(detail)
	return &resp, nil
}

// unassign clears a slot role. Clearing an already empty slot is a no-op
// success.
func (s *Service) unassign(ctx context.Context, performanceDateID uuid.UUID, roleType actor.RoleType) error {
	existing, err := s.repo.GetBySlotRole(ctx, performanceDateID, roleType)
	if err != nil {
		if errors.Is(err, ErrCastingNotFound) {
			return nil
		}
		return err
	}

	if err := s.repo.DeleteBySlotRole(ctx, nil, performanceDateID, roleType); err != nil {
		return err
	}

	// cancellation mail goes out on an explicit unassign
	s.mirror.DeleteCastingEvent(ctx, string(existing.RoleType), existing.ActorCalendarID.String,
		existing.CalendarEventID.String, existing.AllCalendarEventID.String, true)

	if roleType == actor.RoleTypeFemaleLead {
		if err := s.RefreshMaleLeadDescription(ctx, performanceDateID); err != nil {
			log.Warn().Err(err).Msg("partner description refresh failed")
		}
	}
	return nil
}

// AssignBatch applies all assignments in one transaction, then publishes
// calendar changes for the rows that were written. Invalid items are
// reported per item and do not abort the rest.
func (s *Service) AssignBatch(ctx context.Context, req *BatchRequest) ([]BatchResultItem, error) {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	type staleEvent struct {
		c      *Casting
		notify bool
	}

	results := make([]BatchResultItem, 0, len(req.Assignments))
	var stale []staleEvent
	var assigned []BatchAssignment
	refresh := map[uuid.UUID]bool{}

	for _, item := range req.Assignments {
		roleType := actor.RoleType(item.RoleType)
		result := BatchResultItem{PerformanceDateID: item.PerformanceDateID, RoleType: item.RoleType}

		if item.ActorID == nil {
			existing, err := s.repo.GetBySlotRole(ctx, item.PerformanceDateID, roleType)
			if err != nil && !errors.Is(err, ErrCastingNotFound) {
				return nil, err
			}
			if existing != nil {
				if err := s.repo.DeleteBySlotRole(ctx, tx, item.PerformanceDateID, roleType); err != nil {
					return nil, err
				}
				stale = append(stale, staleEvent{c: existing, notify: true})
				if roleType == actor.RoleTypeFemaleLead {
					refresh[item.PerformanceDateID] = true
				}
			}
			result.Status = "unassigned"
			results = append(results, result)
			continue
		}

		pd, err := s.dates.GetByID(ctx, item.PerformanceDateID)
		if err != nil {
			if errors.Is(err, schedule.ErrPerformanceDateNotFound) {
				result.Status = "error"
				result.Error = err.Error()
				results = append(results, result)
				continue
			}
			return nil, err
		}

		act, err := s.actors.GetByID(ctx, *item.ActorID)
		if err != nil {
			if errors.Is(err, actor.ErrActorNotFound) {
				result.Status = "error"
				result.Error = err.Error()
				results = append(results, result)
				continue
			}
			return nil, err
		}

		if act.RoleType != roleType {
			result.Status = "error"
			result.Error = ErrRoleMismatch.Error()
			results = append(results, result)
			continue
		}

		blocked, err := s.unavailability.Exists(ctx, act.ID, pd.ID)
		if err != nil {
			return nil, err
		}
		if blocked {
			result.Status = "error"
			result.Error = ErrActorUnavailable.Error()
			results = append(results, result)
			continue
		}

		existing, err := s.repo.GetBySlotRole(ctx, item.PerformanceDateID, roleType)
		if err != nil && !errors.Is(err, ErrCastingNotFound) {
			return nil, err
		}

		c := &Casting{PerformanceDateID: item.PerformanceDateID, ActorID: act.ID, RoleType: roleType}
		if err := s.repo.Upsert(ctx, tx, c); err != nil {
			return nil, err
		}

		if existing != nil {
			stale = append(stale, staleEvent{c: existing})
		}
		assigned = append(assigned, item)
		if roleType == actor.RoleTypeFemaleLead {
			refresh[item.PerformanceDateID] = true
		}
		result.Status = "assigned"
		results = append(results, result)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	// Memos land before event publication so fresh events carry them.
	for _, item := range req.Assignments {
		if item.MemoName == nil && item.MemoContact == nil {
			continue
		}
		name, contact := "", ""
		if item.MemoName != nil {
			name = *item.MemoName
		}
		if item.MemoContact != nil {
			contact = *item.MemoContact
		}
		if err := s.reservations.Upsert(ctx, item.PerformanceDateID, name != "" || contact != "", name, contact); err != nil {
			log.Warn().Err(err).Msg("batch memo write failed")
			continue
		}
		refresh[item.PerformanceDateID] = true
	}

	for _, st := range stale {
		s.mirror.DeleteCastingEvent(ctx, string(st.c.RoleType), st.c.ActorCalendarID.String,
			st.c.CalendarEventID.String, st.c.AllCalendarEventID.String, st.notify)
	}

	for _, item := range assigned {
		detail, err := s.repo.GetBySlotRole(ctx, item.PerformanceDateID, actor.RoleType(item.RoleType))
		if err != nil {
			log.Warn().Err(err).Msg("batch sync read failed")
			continue
		}
		if err := s.syncOne(ctx, detail); err != nil {
			log.Warn().Err(err).
				Str("performance_date_id", item.PerformanceDateID.String()).
				Msg("casting left unsynced")
		}
	}

	for performanceDateID := range refresh {
		if err := s.RefreshMaleLeadDescription(ctx, performanceDateID); err != nil {
			log.Warn().Err(err).Msg("partner description refresh failed")
		}
	}

	return results, nil
}

// Notify re-sends the calendar invite for an assignment by republishing
// its event with attendee notification.
func (s *Service) Notify(ctx context.Context, req *NotifyRequest) error {
	c, err := s.repo.GetBySlotRole(ctx, req.PerformanceDateID, actor.RoleType(req.RoleType))
	if err != nil {
		return err
	}
	if c.ActorEmail.String == "" {
		return ErrNoLinkedEmail
	}

	s.mirror.DeleteCastingEvent(ctx, string(c.RoleType), c.ActorCalendarID.String,
		c.CalendarEventID.String, c.AllCalendarEventID.String, false)

	return s.syncOne(ctx, c)
}

// SyncUnsynced publishes every casting whose calendar copy is missing.
func (s *Service) SyncUnsynced(ctx context.Context) (synced, failed int, err error) {
	castings, err := s.repo.ListUnsynced(ctx)
	if err != nil {
		return 0, 0, err
	}

	for _, c := range castings {
		if err := s.syncOne(ctx, c); err != nil {
			failed++
			continue
		}
		synced++
	}
	return synced, failed, nil
}

// RemoveActorEvents drops the calendar copies of every casting an actor
// holds, ahead of the rows going away with the actor.
func (s *Service) RemoveActorEvents(ctx context.Context, actorID uuid.UUID) error {
	castings, err := s.repo.ListByActor(ctx, actorID)
	if err != nil {
		return err
	}

	for _, c := range castings {
		if c.CalendarEventID.String == "" && c.AllCalendarEventID.String == "" {
			continue
		}
		s.mirror.DeleteCastingEvent(ctx, string(c.RoleType), c.ActorCalendarID.String,
			c.CalendarEventID.String, c.AllCalendarEventID.String, false)
	}
	return nil
}

// RefreshMaleLeadDescription rewrites the male lead event description for
// a slot from current partner and booking state. A missing casting or a
// not-yet-synced one is not an error.
func (s *Service) RefreshMaleLeadDescription(ctx context.Context, performanceDateID uuid.UUID) error {
	c, err := s.repo.GetBySlotRole(ctx, performanceDateID, actor.RoleTypeMaleLead)
	if err != nil {
		if errors.Is(err, ErrCastingNotFound) {
			return nil
		}
		return err
	}
	if !c.Synced || c.CalendarEventID.String == "" {
		return nil
	}

	desc := s.buildMaleLeadDescription(ctx, c)
	var p *string
	if desc != "" {
		p = &desc
	}
	return s.mirror.UpdateDescription(ctx, string(c.RoleType), c.ActorCalendarID.String,
		c.CalendarEventID.String, c.AllCalendarEventID.String, p)
}

// RefreshFutureMaleLeadDescriptions strips booking details from every male
// lead event after today, leaving only the partner line. Returns how many
// events were patched.
func (s *Service) RefreshFutureMaleLeadDescriptions(ctx context.Context) (int, error) {
	tomorrow := kst.TodayUTCMidnight().AddDate(0, 0, 1)

	castings, err := s.repo.ListFutureMaleLead(ctx, tomorrow)
	if err != nil {
		return 0, err
	}

	patched := 0
	for _, c := range castings {
		if c.CalendarEventID.String == "" && c.AllCalendarEventID.String == "" {
			continue
		}
		desc := s.buildMaleLeadDescription(ctx, c)
		var p *string
		if desc != "" {
			p = &desc
		}
		if err := s.mirror.UpdateDescription(ctx, string(c.RoleType), c.ActorCalendarID.String,
			c.CalendarEventID.String, c.AllCalendarEventID.String, p); err != nil {
			log.Warn().Err(err).Str("date", c.DateString()).Msg("future description patch failed")
			continue
		}
		patched++
	}
	return patched, nil
}

func (s *Service) syncOne(ctx context.Context, c *Casting) error {
	description := ""
	if c.RoleType == actor.RoleTypeMaleLead {
		description = s.buildMaleLeadDescription(ctx, c)
	}

	eventID, allEventID, err := s.mirror.CreateCastingEvent(ctx, calendar.CastingEvent{
		RoleType:        string(c.RoleType),
		ActorName:       c.ActorName,
		Date:            c.DateString(),
		StartTime:       c.ShowTime,
		EndTime:         c.EndTime.String,
		Label:           c.SlotLabel.String,
		ActorEmail:      c.ActorEmail.String,
		ActorCalendarID: c.ActorCalendarID.String,
		Description:     description,
	})
	if err != nil {
		return err
	}

	if err := s.repo.MarkSynced(ctx, c.ID, eventID, allEventID); err != nil {
		return err
	}
	c.Synced = true
	return nil
}

// buildMaleLeadDescription includes the partner name always and the
// booking memo only on the day of the performance.
func (s *Service) buildMaleLeadDescription(ctx context.Context, c *Casting) string {
	input := calendar.DescriptionInput{}

	partner, err := s.repo.GetBySlotRole(ctx, c.PerformanceDateID, actor.RoleTypeFemaleLead)
	if err == nil {
		input.PartnerName = partner.ActorName
	}

	if s.reservations != nil && c.DateString() == kst.Today() {
		name, contact, err := s.reservations.GetMemo(ctx, c.PerformanceDateID)
		if err != nil {
			log.Warn().Err(err).Msg("booking memo read failed")
		} else {
			input.ReservationName = name
			input.ReservationContact = contact
		}
	}

	return calendar.BuildCastingDescription(input)
}
