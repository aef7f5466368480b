package entity

import (
	"time"

	"github.com/google/uuid"
)

// Session status state machine:
// pending -> active -> completed, pending -> cancelled.
// No transition leaves completed or cancelled.
const (
	SessionStatusPending   = "pending"
	SessionStatusActive    = "active"
	SessionStatusCompleted = "completed"
	SessionStatusCancelled = "cancelled"
)

const (
	ParticipantKindUser      = "user"
	ParticipantKindCounselor = "counselor"
)

type ChatSession struct {
	Id                 uuid.UUID
	UserId             uuid.UUID
	CounselorId        uuid.UUID
	TimeSlotId         *uuid.UUID
	Status             string
	ScheduledDate      time.Time // date component only
	ScheduledStartTime string    // "HH:MM", zero padded
	ScheduledEndTime   string    // "HH:MM", zero padded
	ActualStartTime    *time.Time
	ActualEndTime      *time.Time
	Duration           *int // whole minutes, set on completion
	Category           string
	Description        string
	CounselorNotes     string
	UserFeedback       string
	Rating             *int
	CreatedAt          time.Time
	UpdatedAt          *time.Time
}

// IsTerminal reports whether the session can no longer transition.
func (s *ChatSession) IsTerminal() bool {
	return s.Status == SessionStatusCompleted || s.Status == SessionStatusCancelled
}

// IsParticipant reports whether the given identity is the bound user or
// the bound counselor of this session.
func (s *ChatSession) IsParticipant(id uuid.UUID, kind string) bool {
	switch kind {
	case ParticipantKindUser:
		return s.UserId == id
	case ParticipantKindCounselor:
		return s.CounselorId == id
	default:
		return false
	}
}

// ScheduledStartAt combines the scheduled date and start time-of-day.
func (s *ChatSession) ScheduledStartAt() time.Time {
	return CombineDateTime(s.ScheduledDate, s.ScheduledStartTime)
}

// ScheduledEndAt combines the scheduled date and end time-of-day.
func (s *ChatSession) ScheduledEndAt() time.Time {
	return CombineDateTime(s.ScheduledDate, s.ScheduledEndTime)
}

// AppendNote appends an entry to the counselor notes log, keeping earlier
// entries intact.
func (s *ChatSession) AppendNote(note string) {
	if note == "" {
		return
	}
	if s.CounselorNotes == "" {
		s.CounselorNotes = note
		return
	}
	s.CounselorNotes = s.CounselorNotes + "\n\n" + note
}
