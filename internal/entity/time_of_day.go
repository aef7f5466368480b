package entity

import (
	"fmt"
	"time"
)

const timeOfDayLayout = "15:04"

// ParseTimeOfDay validates an "HH:MM" time-of-day string.
func ParseTimeOfDay(s string) (time.Time, error) {
	t, err := time.Parse(timeOfDayLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return t, nil
}

// CombineDateTime combines a date with an "HH:MM" time-of-day. A malformed
// time-of-day yields midnight of the date.
func CombineDateTime(date time.Time, hhmm string) time.Time {
	t, err := ParseTimeOfDay(hhmm)
	if err != nil {
		return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, date.Location())
}

// AddMinutesToTimeOfDay returns hhmm shifted forward by the given minutes,
// still formatted as "HH:MM". The caller is responsible for not crossing
// midnight; slot generation stops at the rule's end time before that.
func AddMinutesToTimeOfDay(hhmm string, minutes int) (string, error) {
	t, err := ParseTimeOfDay(hhmm)
	if err != nil {
		return "", err
	}
	return t.Add(time.Duration(minutes) * time.Minute).Format(timeOfDayLayout), nil
}

// DateOnly truncates a timestamp to its date component.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
