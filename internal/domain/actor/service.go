package actor

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/tnwnrrl/schedule/internal/domain/auth"
)

// CalendarProvisioner covers the calendar operations actor management needs
type CalendarProvisioner interface {
	CreateActorCalendar(ctx context.Context, actorName string) (string, error)
	ShareCalendar(ctx context.Context, calendarID, email string) error
}

// EventCleanup removes an actor's calendar events before the actor's
// rows go away.
type EventCleanup interface {
	RemoveActorEvents(ctx context.Context, actorID uuid.UUID) error
}

// Service handles actor business logic
type Service struct {
	repo        Repository
	users       auth.UserRepository
	provisioner CalendarProvisioner
	cleanup     EventCleanup
}

// NewService creates actor service
func NewService(repo Repository, users auth.UserRepository, provisioner CalendarProvisioner, cleanup EventCleanup) *Service {
	return &Service{repo: repo, users: users, provisioner: provisioner, cleanup: cleanup}
}

// List returns all actors with account and usage info
func (s *Service) List(ctx context.Context) ([]*Actor, error) {
	return s.repo.List(ctx)
}

// Create adds a new actor
func (s *Service) Create(ctx context.Context, req *CreateActorRequest) (*Actor, error) {
	a := &Actor{
		ID:       uuid.New(),
		Name:     req.Name,
		RoleType: RoleType(req.RoleType),
	}
	if req.CalendarID != "" {
		a.CalendarID = sql.NullString{String: req.CalendarID, Valid: true}
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Update edits an actor and, when requested, the linked account email
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *UpdateActorRequest) (*Actor, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		a.Name = *req.Name
	}
	if req.RoleType != nil {
		a.RoleType = RoleType(*req.RoleType)
	}
	if req.CalendarID != nil {
		a.CalendarID = sql.NullString{String: *req.CalendarID, Valid: *req.CalendarID != ""}
	}

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}

	if req.UserEmail != nil {
		if err := s.users.UpdateEmailByActor(ctx, id, *req.UserEmail); err != nil {
			return nil, err
		}
	}

	return a, nil
}

// Delete removes an actor; castings and unavailability cascade in the
// database. Their calendar copies are deleted first, best effort, since
// the cascade would otherwise strand the events.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if s.cleanup != nil {
		if err := s.cleanup.RemoveActorEvents(ctx, id); err != nil {
			log.Warn().Err(err).Str("actor", a.Name).Msg("actor event cleanup failed")
		}
	}
	return s.repo.Delete(ctx, id)
}

// Link attaches a user account to an actor, detaching any previous one
func (s *Service) Link(ctx context.Context, actorID, userID uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, actorID); err != nil {
		return err
	}
	if err := s.users.UnlinkActor(ctx, actorID); err != nil {
		return err
	}
	return s.users.LinkActor(ctx, userID, actorID)
}

// ProvisionCalendars creates a personal calendar for every actor missing one
// and shares each calendar with the linked account email when present.
func (s *Service) ProvisionCalendars(ctx context.Context) (*ProvisionReport, error) {
	actors, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	report := &ProvisionReport{}
	for _, a := range actors {
		email := a.UserEmail.String

		if a.CalendarID.Valid && a.CalendarID.String != "" {
			// calendar exists; retry the share in case it failed before
			if email != "" {
				if err := s.provisioner.ShareCalendar(ctx, a.CalendarID.String, email); err == nil {
					report.Shared++
				}
			}
			report.Skipped++
			continue
		}

		calendarID, err := s.provisioner.CreateActorCalendar(ctx, a.Name)
		if err != nil {
			log.Warn().Err(err).Str("actor", a.Name).Msg("actor calendar creation failed")
			report.Errors = append(report.Errors, fmt.Sprintf("%s: calendar creation failed", a.Name))
			continue
		}

		if err := s.repo.UpdateCalendarID(ctx, a.ID, calendarID); err != nil {
			return nil, err
		}
		report.Created++

		if email != "" {
			if err := s.provisioner.ShareCalendar(ctx, calendarID, email); err != nil {
				log.Warn().Err(err).Str("actor", a.Name).Str("email", email).Msg("calendar share failed")
				report.Errors = append(report.Errors, fmt.Sprintf("%s: share failed (%s)", a.Name, email))
			} else {
				report.Shared++
			}
		}
	}

	return report, nil
}
