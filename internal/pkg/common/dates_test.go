package common

import (
	"testing"
	"time"
)

func TestAddDays(t *testing.T) {
	tests := []struct {
		date string
		n    int
		want string
	}{
		{"2026-01-05", 1, "2026-01-06"},
		{"2026-01-31", 1, "2026-02-01"},
		{"2026-03-01", -1, "2026-02-28"},
		{"not-a-date", 3, "not-a-date"},
	}
	for _, tt := range tests {
		if got := AddDays(tt.date, tt.n); got != tt.want {
			t.Errorf("AddDays(%q, %d) = %q, want %q", tt.date, tt.n, got, tt.want)
		}
	}
}

func TestParseDateRoundTrip(t *testing.T) {
	parsed, err := ParseDate("2026-08-30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := FormatDate(parsed); got != "2026-08-30" {
		t.Errorf("FormatDate = %q", got)
	}
	if _, err := ParseDate("30/08/2026"); err == nil {
		t.Error("expected malformed date to fail")
	}
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	b := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	if got := DaysBetween(a, b); got != 10 {
		t.Errorf("DaysBetween = %d, want 10", got)
	}
}
