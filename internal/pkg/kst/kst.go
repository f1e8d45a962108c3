// Package kst interprets "today" in the theater's local time.
// The database stores performance dates as UTC midnight, so date
// comparisons shift wall-clock time by the fixed KST offset first.
package kst

import "time"

// Zone is Korea Standard Time. No DST, so a fixed offset is exact.
var Zone = time.FixedZone("KST", 9*60*60)

// Today returns the current KST date as "2006-01-02".
func Today() string {
	return time.Now().In(Zone).Format("2006-01-02")
}

// TodayUTCMidnight returns the current KST date as a UTC-midnight instant,
// matching how performance dates are persisted.
func TodayUTCMidnight() time.Time {
	now := time.Now().In(Zone)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
