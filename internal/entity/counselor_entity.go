package entity

import (
	"time"

	"github.com/google/uuid"
)

const StaffRoleCounselor = "counselor"

// Counselor is a staff member with the counselor role, together with the
// counseling profile that tracks availability and cumulative statistics.
type Counselor struct {
	Id        uuid.UUID
	Name      string
	Email     string
	Role      string
	IsActive  bool
	Profile   *CounselorProfile
	CreatedAt time.Time
	UpdatedAt *time.Time
}

type CounselorProfile struct {
	Id            uuid.UUID
	StaffId       uuid.UUID
	IsAvailable   bool
	TotalSessions int
	Rating        float64
	Specialties   string
}
