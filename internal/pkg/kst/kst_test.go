package kst

import (
	"testing"
	"time"
)

func TestTodayUTCMidnight(t *testing.T) {
	got := TodayUTCMidnight()

	if got.Location() != time.UTC {
		t.Fatalf("expected UTC location, got %v", got.Location())
	}
	if h, m, s := got.Clock(); h != 0 || m != 0 || s != 0 {
		t.Fatalf("expected midnight, got %02d:%02d:%02d", h, m, s)
	}
	if got.Format("2006-01-02") != Today() {
		t.Fatalf("date mismatch: %s vs %s", got.Format("2006-01-02"), Today())
	}
}
