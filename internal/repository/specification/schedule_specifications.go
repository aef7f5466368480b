package specification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ScheduleByCounselor struct {
	CounselorID uuid.UUID
}

func (s ScheduleByCounselor) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("counselor_id = ?", s.CounselorID)
}

// ScheduleActiveOn matches active rules whose effective window covers the
// given date. Weekday filtering happens in the service; the recurrence is
// stored as a CSV column.
type ScheduleActiveOn struct {
	Date time.Time
}

func (s ScheduleActiveOn) Apply(db *gorm.DB) *gorm.DB {
	d := s.Date.Format("2006-01-02")
	return db.Where(
		"is_active = ? AND effective_from <= ? AND (effective_until IS NULL OR effective_until >= ?)",
		true, d, d,
	)
}

// UnavailabilityCovering matches unavailability windows whose date range
// includes the given date for a counselor.
type UnavailabilityCovering struct {
	CounselorID uuid.UUID
	Date        time.Time
}

func (s UnavailabilityCovering) Apply(db *gorm.DB) *gorm.DB {
	d := s.Date.Format("2006-01-02")
	return db.Where("counselor_id = ? AND start_date <= ? AND end_date >= ?", s.CounselorID, d, d)
}
