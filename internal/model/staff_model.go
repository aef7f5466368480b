package model

import (
	"time"

	"github.com/google/uuid"
)

type Staff struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"type:varchar(100);not null"`
	Email     string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Role      string    `gorm:"type:varchar(20);not null"` // counselor, admin
	IsActive  bool      `gorm:"not null;default:true"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Profile *CounselorProfile `gorm:"foreignKey:StaffId"`
}

func (Staff) TableName() string {
	return "staff"
}

type CounselorProfile struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	StaffId       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	IsAvailable   bool      `gorm:"not null;default:true"`
	TotalSessions int       `gorm:"not null;default:0"`
	Rating        float64   `gorm:"not null;default:0"`
	Specialties   string    `gorm:"type:text"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

func (CounselorProfile) TableName() string {
	return "counselor_profiles"
}
