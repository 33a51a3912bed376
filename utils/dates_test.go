package utils

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-03-05")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Year() != 2026 || d.Month() != time.March || d.Day() != 5 {
		t.Fatalf("unexpected date: %v", d)
	}

	// RFC 3339 timestamps truncate to the day.
	d, err = ParseDate("2026-03-05T14:30:00Z")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Hour() != 0 || d.Minute() != 0 {
		t.Fatalf("expected timestamp truncated to midnight, got %v", d)
	}

	if _, err := ParseDate("05/03/2026"); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}

func TestDaysBetween(t *testing.T) {
	start := time.Date(2026, 3, 1, 23, 59, 0, 0, time.UTC)
	end := time.Date(2026, 3, 4, 0, 1, 0, 0, time.UTC)
	if got := DaysBetween(start, end); got != 3 {
		t.Fatalf("expected 3 days, got %d", got)
	}
}
