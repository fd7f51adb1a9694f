package services

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNextDueDateAdvancesOneMonth(t *testing.T) {
	last := time.Date(2026, 7, 15, 1, 0, 0, 0, time.UTC)
	next := NextDueDate(last)
	want := time.Date(2026, 8, 15, 1, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Fatalf("expected %v, got %v", want, next)
	}
}

func TestNextDueDateMonthEndNormalizes(t *testing.T) {
	// AddDate normalizes Jan 31 + 1 month to Mar 2/3; the follow-up fee
	// lands on the normalized day, matching time.Time semantics.
	last := time.Date(2026, 1, 31, 1, 0, 0, 0, time.UTC)
	next := NextDueDate(last)
	want := time.Date(2026, 3, 3, 1, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Fatalf("expected %v, got %v", want, next)
	}
}

func TestInGenerationWindow(t *testing.T) {
	due := time.Date(2026, 9, 15, 1, 0, 0, 0, time.UTC)
	cases := []struct {
		today time.Time
		want  bool
	}{
		{date(2026, 9, 1), false},
		{due.AddDate(0, 0, -8), false},
		{due.AddDate(0, 0, -7), true},
		{due.AddDate(0, 0, -1), true},
		{due, true},
		{due.AddDate(0, 0, 3), true},
	}
	for _, tc := range cases {
		if got := InGenerationWindow(due, tc.today); got != tc.want {
			t.Errorf("InGenerationWindow(due=%v, today=%v) = %v, want %v", due, tc.today, got, tc.want)
		}
	}
}
