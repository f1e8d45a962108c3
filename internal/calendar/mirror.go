// Package calendar keeps the external calendars in step with casting and
// unavailability state. Calls here run after the owning DB transaction has
// committed; a provider failure is logged and reported to the caller, which
// leaves the row marked unsynced for the next full-sync pass.
package calendar

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/tnwnrrl/schedule/internal/pkg/gcal"
)

const (
	roleMaleLead   = "MALE_LEAD"
	colorMaleLead  = "9"  // blue
	colorFemale    = "6"  // purple
	colorUnavail   = "11" // red
	eventTimeZone  = "Asia/Seoul"
	defaultRunTime = 2 // hours, when a slot has no end time
)

// Client is the slice of the provider API the mirror needs.
type Client interface {
	InsertEvent(ctx context.Context, calendarID string, ev *gcal.Event, sendUpdates string) (string, error)
	PatchEvent(ctx context.Context, calendarID, eventID string, patch map[string]interface{}, sendUpdates string) error
	DeleteEvent(ctx context.Context, calendarID, eventID, sendUpdates string) error
	InsertCalendar(ctx context.Context, summary, timeZone string) (string, error)
	ShareCalendar(ctx context.Context, calendarID, email, role string) error
}

// Config holds the calendar ids the mirror writes to.
type Config struct {
	MaleLeadCalendarID   string
	FemaleLeadCalendarID string
	AllCalendarID        string
}

// Mirror propagates schedule state to the personal and aggregate calendars.
type Mirror struct {
	client Client
	cfg    Config
}

// NewMirror creates a calendar mirror.
func NewMirror(client Client, cfg Config) *Mirror {
	return &Mirror{client: client, cfg: cfg}
}

// CastingEvent describes the event to publish for one casting.
type CastingEvent struct {
	RoleType        string
	ActorName       string
	Date            string // "2006-01-02"
	StartTime       string // "HH:MM"
	EndTime         string // "" means start + 2h
	Label           string
	ActorEmail      string // invite is sent when set
	ActorCalendarID string // falls back to the role-default calendar
	Description     string
}

// CreateCastingEvent writes the event to the actor's calendar and mirrors it
// onto the aggregate calendar. The aggregate copy is best effort: its failure
// is logged and an empty id returned. An error means the primary insert
// failed and the casting must stay unsynced.
func (m *Mirror) CreateCastingEvent(ctx context.Context, ev CastingEvent) (eventID, allEventID string, err error) {
	calendarID := m.roleCalendar(ev.RoleType, ev.ActorCalendarID)
	if calendarID == "" {
		return "", "", fmt.Errorf("no calendar configured for role %s", ev.RoleType)
	}

	event := buildTimedEvent(ev)
	sendUpdates := "none"
	if ev.ActorEmail != "" {
		event.Attendees = []gcal.Attendee{{Email: ev.ActorEmail}}
		sendUpdates = "all"
	}

	eventID, err = m.client.InsertEvent(ctx, calendarID, event, sendUpdates)
	if err != nil {
		log.Error().Err(err).
			Str("role_type", ev.RoleType).
			Str("actor", ev.ActorName).
			Str("date", ev.Date).
			Msg("casting event insert failed")
		return "", "", err
	}

	if m.cfg.AllCalendarID != "" {
		// no invite semantics on the aggregate calendar
		mirrored := buildTimedEvent(ev)
		allEventID, err = m.client.InsertEvent(ctx, m.cfg.AllCalendarID, mirrored, "none")
		if err != nil {
			log.Warn().Err(err).
				Str("date", ev.Date).
				Msg("aggregate casting event insert failed")
			allEventID = ""
		}
	}

	return eventID, allEventID, nil
}

// DeleteCastingEvent removes the event from both calendars. notify requests
// attendee cancellation mail on the personal calendar; the aggregate delete
// never notifies. Failures are logged and absorbed.
func (m *Mirror) DeleteCastingEvent(ctx context.Context, roleType, actorCalendarID, eventID, allEventID string, notify bool) {
	if eventID != "" {
		calendarID := m.roleCalendar(roleType, actorCalendarID)
		sendUpdates := "none"
		if notify {
			sendUpdates = "all"
		}
		if calendarID != "" {
			if err := m.client.DeleteEvent(ctx, calendarID, eventID, sendUpdates); err != nil {
				log.Warn().Err(err).Str("event_id", eventID).Msg("casting event delete failed")
			}
		}
	}
	if allEventID != "" && m.cfg.AllCalendarID != "" {
		if err := m.client.DeleteEvent(ctx, m.cfg.AllCalendarID, allEventID, "none"); err != nil {
			log.Warn().Err(err).Str("event_id", allEventID).Msg("aggregate casting event delete failed")
		}
	}
}

// UpdateDescription patches the description on both copies of an event
// without touching time or summary. Pass nil to clear it.
func (m *Mirror) UpdateDescription(ctx context.Context, roleType, actorCalendarID, eventID, allEventID string, description *string) error {
	patch := map[string]interface{}{"description": nil}
	if description != nil && *description != "" {
		patch["description"] = *description
	}

	var firstErr error
	if eventID != "" {
		calendarID := m.roleCalendar(roleType, actorCalendarID)
		if calendarID != "" {
			if err := m.client.PatchEvent(ctx, calendarID, eventID, patch, "none"); err != nil {
				log.Warn().Err(err).Str("event_id", eventID).Msg("event description patch failed")
				firstErr = err
			}
		}
	}
	if allEventID != "" && m.cfg.AllCalendarID != "" {
		if err := m.client.PatchEvent(ctx, m.cfg.AllCalendarID, allEventID, patch, "none"); err != nil {
			log.Warn().Err(err).Str("event_id", allEventID).Msg("aggregate description patch failed")
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// CreateUnavailableEvent publishes an all-day unavailability marker on the
// actor's personal calendar and mirrors it onto the aggregate calendar.
func (m *Mirror) CreateUnavailableEvent(ctx context.Context, actorName, actorCalendarID, date string) (eventID, allEventID string, err error) {
	if actorCalendarID == "" {
		return "", "", fmt.Errorf("actor %s has no personal calendar", actorName)
	}

	event := &gcal.Event{
		Summary: "[불가] " + actorName,
		ColorID: colorUnavail,
		Start:   &gcal.EventTime{Date: date},
		End:     &gcal.EventTime{Date: date},
	}

	eventID, err = m.client.InsertEvent(ctx, actorCalendarID, event, "none")
	if err != nil {
		log.Error().Err(err).Str("actor", actorName).Str("date", date).Msg("unavailable event insert failed")
		return "", "", err
	}

	if m.cfg.AllCalendarID != "" {
		allEventID, err = m.client.InsertEvent(ctx, m.cfg.AllCalendarID, event, "none")
		if err != nil {
			log.Warn().Err(err).Str("date", date).Msg("aggregate unavailable event insert failed")
			allEventID = ""
		}
	}

	return eventID, allEventID, nil
}

// DeleteUnavailableEvent removes the marker from both calendars, best effort.
func (m *Mirror) DeleteUnavailableEvent(ctx context.Context, actorCalendarID, eventID, allEventID string) {
	if eventID != "" && actorCalendarID != "" {
		if err := m.client.DeleteEvent(ctx, actorCalendarID, eventID, "none"); err != nil {
			log.Warn().Err(err).Str("event_id", eventID).Msg("unavailable event delete failed")
		}
	}
	if allEventID != "" && m.cfg.AllCalendarID != "" {
		if err := m.client.DeleteEvent(ctx, m.cfg.AllCalendarID, allEventID, "none"); err != nil {
			log.Warn().Err(err).Str("event_id", allEventID).Msg("aggregate unavailable event delete failed")
		}
	}
}

// CreateActorCalendar provisions a personal calendar for an actor.
func (m *Mirror) CreateActorCalendar(ctx context.Context, actorName string) (string, error) {
	return m.client.InsertCalendar(ctx, "공연 스케줄 - "+actorName, eventTimeZone)
}

// ShareCalendar grants read access to the linked account's email.
func (m *Mirror) ShareCalendar(ctx context.Context, calendarID, email string) error {
	return m.client.ShareCalendar(ctx, calendarID, email, "reader")
}

func (m *Mirror) roleCalendar(roleType, actorCalendarID string) string {
	if actorCalendarID != "" {
		return actorCalendarID
	}
	if roleType == roleMaleLead {
		return m.cfg.MaleLeadCalendarID
	}
	return m.cfg.FemaleLeadCalendarID
}

func buildTimedEvent(ev CastingEvent) *gcal.Event {
	summary := ev.ActorName
	if ev.Label != "" {
		summary += " (" + ev.Label + ")"
	}

	endTime := ev.EndTime
	if endTime == "" {
		endTime = addHours(ev.StartTime, defaultRunTime)
	}

	color := colorFemale
	if ev.RoleType == roleMaleLead {
		color = colorMaleLead
	}

	return &gcal.Event{
		Summary:     summary,
		Description: ev.Description,
		ColorID:     color,
		Start:       &gcal.EventTime{DateTime: ev.Date + "T" + ev.StartTime + ":00", TimeZone: eventTimeZone},
		End:         &gcal.EventTime{DateTime: ev.Date + "T" + endTime + ":00", TimeZone: eventTimeZone},
	}
}

func addHours(t string, hours int) string {
	parts := strings.SplitN(t, ":", 2)
	if len(parts) != 2 {
		return t
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return t
	}
	return fmt.Sprintf("%02d:%s", (h+hours)%24, parts[1])
}
