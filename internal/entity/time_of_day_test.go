package entity

import (
	"testing"
	"time"
)

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"00:00", false},
		{"09:30", false},
		{"23:59", false},
		{"24:00", true},
		{"12:60", true},
		{"noon", true},
		{"", true},
	}

	for _, tt := range tests {
		_, err := ParseTimeOfDay(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseTimeOfDay(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}

func TestAddMinutesToTimeOfDay(t *testing.T) {
	tests := []struct {
		input   string
		minutes int
		want    string
	}{
		{"09:00", 50, "09:50"},
		{"09:00", 60, "10:00"},
		{"09:15", 45, "10:00"},
		{"23:30", 60, "00:30"}, // wraps; callers stop before midnight
	}

	for _, tt := range tests {
		got, err := AddMinutesToTimeOfDay(tt.input, tt.minutes)
		if err != nil {
			t.Fatalf("AddMinutesToTimeOfDay(%q, %d) error = %v", tt.input, tt.minutes, err)
		}
		if got != tt.want {
			t.Errorf("AddMinutesToTimeOfDay(%q, %d) = %q, want %q", tt.input, tt.minutes, got, tt.want)
		}
	}
}

func TestCombineDateTime(t *testing.T) {
	date := time.Date(2026, 3, 2, 15, 22, 11, 0, time.UTC)

	got := CombineDateTime(date, "09:30")
	want := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("CombineDateTime = %v, want %v", got, want)
	}

	// Malformed time-of-day falls back to midnight.
	got = CombineDateTime(date, "garbage")
	want = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("CombineDateTime fallback = %v, want %v", got, want)
	}
}

func TestDateOnly(t *testing.T) {
	got := DateOnly(time.Date(2026, 3, 2, 15, 22, 11, 999, time.UTC))
	want := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("DateOnly = %v, want %v", got, want)
	}
}
