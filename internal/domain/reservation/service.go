package reservation

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/tnwnrrl/schedule/internal/domain/schedule"
	"github.com/tnwnrrl/schedule/internal/pkg/kst"
)

// MonthEnsurer completes and returns a month's performance slots.
type MonthEnsurer interface {
	EnsureMonth(ctx context.Context, month string) ([]*schedule.PerformanceDate, error)
}

// DescriptionRefresher rewrites male lead event descriptions from current
// partner and booking state.
type DescriptionRefresher interface {
	RefreshMaleLeadDescription(ctx context.Context, performanceDateID uuid.UUID) error
	RefreshFutureMaleLeadDescriptions(ctx context.Context) (int, error)
}

// CrawlTrigger asks the external crawler for a scrape pass.
type CrawlTrigger interface {
	Trigger(ctx context.Context) error
}

// Service handles reservation ingestion logic
type Service struct {
	repo         Repository
	dates        schedule.Repository
	months       MonthEnsurer
	descriptions DescriptionRefresher
	crawler      CrawlTrigger
}

// NewService creates reservation service
func NewService(repo Repository, dates schedule.Repository, months MonthEnsurer, descriptions DescriptionRefresher, crawler CrawlTrigger) *Service {
	return &Service{
		repo:         repo,
		dates:        dates,
		months:       months,
		descriptions: descriptions,
		crawler:      crawler,
	}
}

// RecordBookings stores the bookings of one day. A malformed time label
// or a missing slot fails that booking only, never the batch.
func (s *Service) RecordBookings(ctx context.Context, req *RecordBookingsRequest) ([]BookingResultItem, error) {
	day, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, err
	}

	results := make([]BookingResultItem, 0, len(req.Bookings))
	for _, b := range req.Bookings {
		results = append(results, s.recordOne(ctx, day, req.Date, b.Time,
			resolveName(b.HasVisitor, b.BookerName, b.BookerPhone, b.VisitorName, b.VisitorPhone)))
	}
	return results, nil
}

// SyncReservations reconciles whole months against the scraped booking
// set: present bookings are recorded, and every slot absent from the set
// has its reservation flag dropped and any stale memo cleared.
func (s *Service) SyncReservations(ctx context.Context, req *SyncReservationsRequest) (*SyncResult, error) {
	slotIDs := make([]uuid.UUID, 0)
	for _, month := range req.Months {
		slots, err := s.months.EnsureMonth(ctx, month)
		if err != nil {
			return nil, err
		}
		for _, slot := range slots {
			slotIDs = append(slotIDs, slot.ID)
		}
	}

	seen := make(map[uuid.UUID]bool, len(req.Reservations))
	results := make([]BookingResultItem, 0, len(req.Reservations))

	for _, item := range req.Reservations {
		item = req.detailFor(item)
		day, err := time.Parse("2006-01-02", item.Date)
		if err != nil {
			results = append(results, BookingResultItem{
				Date: item.Date, Time: item.Time, Status: "error", Error: "invalid date",
			})
			continue
		}

		result := s.recordOne(ctx, day, item.Date, item.Time,
			resolveName(item.HasVisitor, item.BookerName, item.BookerPhone, item.VisitorName, item.VisitorPhone))
		results = append(results, result)

		if result.Status == "recorded" {
			showTime, _ := ParseKoreanTime(item.Time)
			if slot, err := s.dates.GetByDateShowTime(ctx, day, showTime); err == nil {
				seen[slot.ID] = true
			}
		}
	}

	existing, err := s.repo.ListByPerformanceDates(ctx, slotIDs)
	if err != nil {
		return nil, err
	}

	cleared := 0
	for _, status := range existing {
		if seen[status.PerformanceDateID] {
			continue
		}
		if !status.HasReservation && !status.HasMemo() {
			continue
		}
		hadMemo := status.HasMemo()
		if err := s.repo.Upsert(ctx, status.PerformanceDateID, false, "", ""); err != nil {
			return nil, err
		}
		cleared++
		if hadMemo {
			s.refresh(ctx, status.PerformanceDateID)
		}
	}

	log.Info().
		Strs("months", req.Months).
		Int("bookings", len(req.Reservations)).
		Int("cleared", cleared).
		Msg("reservations reconciled")

	return &SyncResult{Results: results, Cleared: cleared}, nil
}

// CleanupPastMemos nulls booking contact info on every slot before today
// and strips it from the matching calendar events.
func (s *Service) CleanupPastMemos(ctx context.Context) (int, error) {
	today := kst.TodayUTCMidnight()

	stale, err := s.repo.ListWithMemoBefore(ctx, today)
	if err != nil {
		return 0, err
	}

	cleaned := 0
	for _, status := range stale {
		if err := s.repo.ClearMemo(ctx, status.ID); err != nil {
			return cleaned, err
		}
		cleaned++
		s.refresh(ctx, status.PerformanceDateID)
	}

	if cleaned > 0 {
		log.Info().Int("cleaned", cleaned).Msg("past booking memos cleared")
	}
	return cleaned, nil
}

// CleanupFutureDescriptions strips booking details from events after
// today, leaving the partner line.
func (s *Service) CleanupFutureDescriptions(ctx context.Context) (int, error) {
	return s.descriptions.RefreshFutureMaleLeadDescriptions(ctx)
}

// TriggerSync asks the crawler to scrape now. The crawl runs inside the
// request and can take close to a minute.
func (s *Service) TriggerSync(ctx context.Context) error {
	if s.crawler == nil {
		return ErrCrawlerNotConfigured
	}
	return s.crawler.Trigger(ctx)
}

type memoInput struct {
	name    string
	contact string
}

func resolveName(hasVisitor bool, bookerName, bookerPhone, visitorName, visitorPhone string) memoInput {
	name, contact := resolveContact(hasVisitor, bookerName, bookerPhone, visitorName, visitorPhone)
	return memoInput{name: name, contact: contact}
}

func (s *Service) recordOne(ctx context.Context, day time.Time, date, label string, memo memoInput) BookingResultItem {
	result := BookingResultItem{Date: date, Time: label}

	showTime, err := ParseKoreanTime(label)
	if err != nil {
		result.Status = "error"
		result.Error = err.Error()
		return result
	}

	slot, err := s.dates.GetByDateShowTime(ctx, day, showTime)
	if err != nil {
		result.Status = "error"
		if errors.Is(err, schedule.ErrPerformanceDateNotFound) {
			result.Error = "no performance slot at " + date + " " + showTime
		} else {
			result.Error = err.Error()
		}
		return result
	}

	if err := s.repo.Upsert(ctx, slot.ID, true, memo.name, memo.contact); err != nil {
		result.Status = "error"
		result.Error = err.Error()
		return result
	}

	s.refresh(ctx, slot.ID)

	result.Status = "recorded"
	return result
}

func (s *Service) refresh(ctx context.Context, performanceDateID uuid.UUID) {
	if err := s.descriptions.RefreshMaleLeadDescription(ctx, performanceDateID); err != nil {
		log.Warn().Err(err).
			Str("performance_date_id", performanceDateID.String()).
			Msg("booking description refresh failed")
	}
}
