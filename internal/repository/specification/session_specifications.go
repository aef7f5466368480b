package specification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SessionByUser struct {
	UserID uuid.UUID
}

func (s SessionByUser) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}

type SessionByCounselor struct {
	CounselorID uuid.UUID
}

func (s SessionByCounselor) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("counselor_id = ?", s.CounselorID)
}

type SessionByStatus struct {
	Status string
}

func (s SessionByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

type SessionByScheduledDate struct {
	Date time.Time
}

func (s SessionByScheduledDate) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("scheduled_date = ?", s.Date.Format("2006-01-02"))
}

// SessionOrderByScheduleDesc lists most recently scheduled sessions first.
type SessionOrderByScheduleDesc struct{}

func (s SessionOrderByScheduleDesc) Apply(db *gorm.DB) *gorm.DB {
	return db.Order("scheduled_date DESC, scheduled_start_time DESC")
}
