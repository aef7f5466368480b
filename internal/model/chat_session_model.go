package model

import (
	"time"

	"github.com/google/uuid"
)

type ChatSession struct {
	Id                 uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId             uuid.UUID  `gorm:"type:uuid;not null;index"`
	CounselorId        uuid.UUID  `gorm:"type:uuid;not null;index"`
	TimeSlotId         *uuid.UUID `gorm:"type:uuid"`
	Status             string     `gorm:"type:varchar(20);not null;default:'pending';index"`
	ScheduledDate      time.Time  `gorm:"type:date;not null;index"`
	ScheduledStartTime string     `gorm:"type:varchar(5);not null"`
	ScheduledEndTime   string     `gorm:"type:varchar(5);not null"`
	ActualStartTime    *time.Time
	ActualEndTime      *time.Time
	Duration           *int
	Category           string `gorm:"type:varchar(50)"`
	Description        string `gorm:"type:text"`
	CounselorNotes     string `gorm:"type:text"`
	UserFeedback       string `gorm:"type:text"`
	Rating             *int
	CreatedAt          time.Time `gorm:"autoCreateTime"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime"`
}

func (ChatSession) TableName() string {
	return "chat_sessions"
}
