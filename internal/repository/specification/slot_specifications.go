package specification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SlotByCounselor struct {
	CounselorID uuid.UUID
}

func (s SlotByCounselor) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("counselor_id = ?", s.CounselorID)
}

type SlotByDate struct {
	Date time.Time
}

func (s SlotByDate) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("date = ?", s.Date.Format("2006-01-02"))
}

type SlotByDateRange struct {
	From time.Time
	To   time.Time
}

func (s SlotByDateRange) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("date >= ? AND date <= ?", s.From.Format("2006-01-02"), s.To.Format("2006-01-02"))
}

type SlotAvailable struct{}

func (s SlotAvailable) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_available = ? AND is_booked = ?", true, false)
}

type SlotByStartTime struct {
	StartTime string
}

func (s SlotByStartTime) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("start_time = ?", s.StartTime)
}

// SlotOverlapping matches slots whose [start,end) interval intersects the
// given one. Zero padded "HH:MM" strings compare correctly in SQL.
type SlotOverlapping struct {
	StartTime string
	EndTime   string
}

func (s SlotOverlapping) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("start_time < ? AND end_time > ?", s.EndTime, s.StartTime)
}

// ForUpdate takes a row lock so concurrent writers serialize on the
// matched rows. Only meaningful inside a transaction.
type ForUpdate struct{}

func (s ForUpdate) Apply(db *gorm.DB) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

type SlotOrderByTime struct{}

func (s SlotOrderByTime) Apply(db *gorm.DB) *gorm.DB {
	return db.Order("date, start_time")
}
