package entity

import (
	"time"

	"github.com/google/uuid"
)

// TimeSlot is one bookable interval for a counselor. Slots for the same
// counselor and date never overlap; IsBooked is flipped in lockstep with
// session booking and cancellation.
type TimeSlot struct {
	Id                      uuid.UUID
	CounselorId             uuid.UUID
	Date                    time.Time // date component only
	StartTime               string    // "HH:MM"
	EndTime                 string    // "HH:MM"
	IsAvailable             bool
	IsBooked                bool
	GeneratedFromScheduleId *uuid.UUID
	CreatedAt               time.Time
	UpdatedAt               *time.Time
}

// CounselorSchedule is a recurring slot-generation rule. The scheduler
// materializes TimeSlots from it one day ahead.
type CounselorSchedule struct {
	Id                     uuid.UUID
	CounselorId            uuid.UUID
	Name                   string
	Description            string
	DaysOfWeek             string // comma separated, 0=Monday .. 6=Sunday
	StartTime              string // "HH:MM"
	EndTime                string // "HH:MM"
	SessionDurationMinutes int
	BreakDurationMinutes   int
	EffectiveFrom          time.Time
	EffectiveUntil         *time.Time
	IsActive               bool
	CreatedBy              uuid.UUID
	CreatedAt              time.Time
	UpdatedAt              *time.Time
}

// AllowsWeekday reports whether the rule's recurrence includes the weekday
// of the given date. Days are stored Monday-based as in the rule format.
func (s *CounselorSchedule) AllowsWeekday(date time.Time) bool {
	// time.Weekday is Sunday=0; the rule format is Monday=0.
	weekday := (int(date.Weekday()) + 6) % 7
	for _, part := range splitDays(s.DaysOfWeek) {
		if part == weekday {
			return true
		}
	}
	return false
}

// Covers reports whether the rule's effective window includes the date.
func (s *CounselorSchedule) Covers(date time.Time) bool {
	d := DateOnly(date)
	if d.Before(DateOnly(s.EffectiveFrom)) {
		return false
	}
	if s.EffectiveUntil != nil && d.After(DateOnly(*s.EffectiveUntil)) {
		return false
	}
	return true
}

func splitDays(csv string) []int {
	var days []int
	start := 0
	for i := 0; i <= len(csv); i++ {
		if i == len(csv) || csv[i] == ',' {
			if d, ok := atoiStrict(csv[start:i]); ok {
				days = append(days, d)
			}
			start = i + 1
		}
	}
	return days
}

func atoiStrict(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, true
}

// CounselorUnavailability is a date/time-range override that suppresses
// slot generation and blocks manual slot creation inside its window.
type CounselorUnavailability struct {
	Id          uuid.UUID
	CounselorId uuid.UUID
	ScheduleId  *uuid.UUID
	StartDate   time.Time
	EndDate     time.Time
	StartTime   string // "HH:MM", empty means all day
	EndTime     string // "HH:MM", empty means all day
	Reason      string
	Notes       string
	CreatedBy   uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// IsAllDay reports whether the window has no time-of-day bounds.
func (u *CounselorUnavailability) IsAllDay() bool {
	return u.StartTime == "" && u.EndTime == ""
}

// BlocksInterval reports whether a [start,end) time-of-day interval on a
// covered date collides with this unavailability window.
func (u *CounselorUnavailability) BlocksInterval(startTime, endTime string) bool {
	if u.IsAllDay() {
		return true
	}
	// Zero padded "HH:MM" compares correctly as strings.
	return !(endTime <= u.StartTime || startTime >= u.EndTime)
}
