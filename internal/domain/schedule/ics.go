package schedule

import (
	"context"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/tnwnrrl/schedule/internal/pkg/kst"
)

// FeedEntry is one casting rendered into the ICS feed. EndTime is empty
// when the slot runs the default length.
type FeedEntry struct {
	PerformanceDateID string
	RoleType          string
	Date              time.Time
	ShowTime          string
	EndTime           string
	ActorName         string
	Label             string
}

// FeedSource lists castings for the aggregate ICS feed.
type FeedSource interface {
	ListFeedEntries(ctx context.Context) ([]FeedEntry, error)
}

const performanceRunHours = 2

// BuildICSFeed renders every casting as a VEVENT in a single calendar.
// Subscribable from any calendar app that speaks webcal.
func BuildICSFeed(ctx context.Context, source FeedSource) (string, error) {
	entries, err := source.ListFeedEntries(ctx)
	if err != nil {
		return "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//tnwnrrl//schedule//KO")
	cal.SetName("공연 스케줄")
	cal.SetTimezoneId("Asia/Seoul")

	for _, e := range entries {
		var hour, minute int
		if _, err := fmt.Sscanf(e.ShowTime, "%d:%d", &hour, &minute); err != nil {
			continue
		}

		start := time.Date(e.Date.Year(), e.Date.Month(), e.Date.Day(), hour, minute, 0, 0, kst.Zone)
		end := start.Add(performanceRunHours * time.Hour)
		var endHour, endMinute int
		if _, err := fmt.Sscanf(e.EndTime, "%d:%d", &endHour, &endMinute); err == nil {
			end = time.Date(e.Date.Year(), e.Date.Month(), e.Date.Day(), endHour, endMinute, 0, 0, kst.Zone)
		}

		summary := e.ActorName
		if e.Label != "" {
			summary += " (" + e.Label + ")"
		}

		ev := cal.AddEvent(e.PerformanceDateID + "-" + e.RoleType + "@schedule.tnwnrrl")
		ev.SetCreatedTime(start)
		ev.SetDtStampTime(start)
		ev.SetStartAt(start)
		ev.SetEndAt(end)
		ev.SetSummary(summary)
	}

	return cal.Serialize(), nil
}
