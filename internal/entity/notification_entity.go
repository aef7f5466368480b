package entity

import (
	"time"

	"github.com/google/uuid"
)

// Notification type codes emitted by the chat core.
const (
	NotificationSessionBooked    = "session_booked"
	NotificationSessionReminder  = "session_reminder"
	NotificationSessionStarted   = "session_started"
	NotificationSessionCompleted = "session_completed"
	NotificationSessionCancelled = "session_cancelled"
)

type Notification struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Type      string
	Title     string
	Message   string
	Metadata  map[string]interface{}
	IsRead    bool
	CreatedAt time.Time
}
