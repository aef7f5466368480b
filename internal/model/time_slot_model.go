package model

import (
	"time"

	"github.com/google/uuid"
)

type TimeSlot struct {
	Id                      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CounselorId             uuid.UUID `gorm:"type:uuid;not null;index:idx_time_slots_counselor_date"`
	Date                    time.Time `gorm:"type:date;not null;index:idx_time_slots_counselor_date"`
	StartTime               string    `gorm:"type:varchar(5);not null"`
	EndTime                 string    `gorm:"type:varchar(5);not null"`
	IsAvailable             bool      `gorm:"not null;default:true"`
	IsBooked                bool      `gorm:"not null;default:false"`
	GeneratedFromScheduleId *uuid.UUID `gorm:"type:uuid"`
	CreatedAt               time.Time `gorm:"autoCreateTime"`
	UpdatedAt               time.Time `gorm:"autoUpdateTime"`
}

func (TimeSlot) TableName() string {
	return "time_slots"
}

type CounselorSchedule struct {
	Id                     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CounselorId            uuid.UUID `gorm:"type:uuid;not null;index"`
	Name                   string    `gorm:"type:varchar(100);not null"`
	Description            string    `gorm:"type:varchar(500)"`
	DaysOfWeek             string    `gorm:"type:varchar(20);not null"`
	StartTime              string    `gorm:"type:varchar(5);not null"`
	EndTime                string    `gorm:"type:varchar(5);not null"`
	SessionDurationMinutes int       `gorm:"not null;default:50"`
	BreakDurationMinutes   int       `gorm:"not null;default:10"`
	EffectiveFrom          time.Time `gorm:"type:date;not null"`
	EffectiveUntil         *time.Time `gorm:"type:date"`
	IsActive               bool      `gorm:"not null;default:true"`
	CreatedBy              uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt              time.Time `gorm:"autoCreateTime"`
	UpdatedAt              time.Time `gorm:"autoUpdateTime"`
}

func (CounselorSchedule) TableName() string {
	return "counselor_schedules"
}

type CounselorUnavailability struct {
	Id          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CounselorId uuid.UUID  `gorm:"type:uuid;not null;index"`
	ScheduleId  *uuid.UUID `gorm:"type:uuid"`
	StartDate   time.Time  `gorm:"type:date;not null"`
	EndDate     time.Time  `gorm:"type:date;not null"`
	StartTime   string     `gorm:"type:varchar(5)"`
	EndTime     string     `gorm:"type:varchar(5)"`
	Reason      string     `gorm:"type:varchar(50);not null"`
	Notes       string     `gorm:"type:varchar(500)"`
	CreatedBy   uuid.UUID  `gorm:"type:uuid;not null"`
	CreatedAt   time.Time  `gorm:"autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime"`
}

func (CounselorUnavailability) TableName() string {
	return "counselor_unavailabilities"
}
