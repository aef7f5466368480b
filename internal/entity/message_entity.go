package entity

import (
	"time"

	"github.com/google/uuid"
)

// Message is one chat utterance within a session. Immutable once created.
type Message struct {
	Id         uuid.UUID
	SessionId  uuid.UUID
	SenderId   uuid.UUID
	SenderType string // ParticipantKindUser or ParticipantKindCounselor
	Content    string
	CreatedAt  time.Time
}
