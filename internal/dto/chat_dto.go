package dto

import (
	"time"

	"github.com/google/uuid"

	"counseling-chat-be/internal/entity"
)

type BookSessionRequest struct {
	CounselorId uuid.UUID  `json:"counselor_id" validate:"required"`
	Date        string     `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime   string     `json:"start_time" validate:"required,len=5"`
	EndTime     string     `json:"end_time" validate:"required,len=5"`
	TimeSlotId  *uuid.UUID `json:"time_slot_id"`
	Category    string     `json:"category"`
	Description string     `json:"description"`
}

type CancelSessionRequest struct {
	Id     uuid.UUID
	Reason string `json:"reason" validate:"required"`
}

type FeedbackRequest struct {
	Id       uuid.UUID
	Rating   int    `json:"rating" validate:"required,min=1,max=5"`
	Feedback string `json:"feedback"`
}

type CompleteSessionRequest struct {
	Id    uuid.UUID
	Notes string `json:"notes"`
}

type SessionResponse struct {
	Id                 uuid.UUID  `json:"id"`
	UserId             uuid.UUID  `json:"user_id"`
	CounselorId        uuid.UUID  `json:"counselor_id"`
	Status             string     `json:"status"`
	ScheduledDate      string     `json:"scheduled_date"`
	ScheduledStartTime string     `json:"scheduled_start_time"`
	ScheduledEndTime   string     `json:"scheduled_end_time"`
	ActualStartTime    *time.Time `json:"actual_start_time,omitempty"`
	ActualEndTime      *time.Time `json:"actual_end_time,omitempty"`
	DurationMinutes    *int       `json:"duration_minutes,omitempty"`
	Category           string     `json:"category,omitempty"`
	Description        string     `json:"description,omitempty"`
	CounselorNotes     string     `json:"counselor_notes,omitempty"`
	UserFeedback       string     `json:"user_feedback,omitempty"`
	Rating             *int       `json:"rating,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

func NewSessionResponse(e *entity.ChatSession) SessionResponse {
	return SessionResponse{
		Id:                 e.Id,
		UserId:             e.UserId,
		CounselorId:        e.CounselorId,
		Status:             e.Status,
		ScheduledDate:      e.ScheduledDate.Format("2006-01-02"),
		ScheduledStartTime: e.ScheduledStartTime,
		ScheduledEndTime:   e.ScheduledEndTime,
		ActualStartTime:    e.ActualStartTime,
		ActualEndTime:      e.ActualEndTime,
		DurationMinutes:    e.Duration,
		Category:           e.Category,
		Description:        e.Description,
		CounselorNotes:     e.CounselorNotes,
		UserFeedback:       e.UserFeedback,
		Rating:             e.Rating,
		CreatedAt:          e.CreatedAt,
	}
}

func NewSessionResponses(sessions []*entity.ChatSession) []SessionResponse {
	out := make([]SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, NewSessionResponse(s))
	}
	return out
}

type MessageResponse struct {
	Id         uuid.UUID `json:"id"`
	SessionId  uuid.UUID `json:"session_id"`
	SenderId   uuid.UUID `json:"sender_id"`
	SenderType string    `json:"sender_type"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

func NewMessageResponse(e *entity.Message) MessageResponse {
	return MessageResponse{
		Id:         e.Id,
		SessionId:  e.SessionId,
		SenderId:   e.SenderId,
		SenderType: e.SenderType,
		Content:    e.Content,
		CreatedAt:  e.CreatedAt,
	}
}

func NewMessageResponses(messages []*entity.Message) []MessageResponse {
	out := make([]MessageResponse, 0, len(messages))
	for _, m := range messages {
		out = append(out, NewMessageResponse(m))
	}
	return out
}

// ParticipantInfo is one live connection in a session's chat room.
type ParticipantInfo struct {
	Id   uuid.UUID `json:"id"`
	Kind string    `json:"kind"`
	Name string    `json:"name"`
}

// ConnectionInfoResponse tells a client where and whether it can attach to
// the session's chat room, and who is already connected.
type ConnectionInfoResponse struct {
	SessionId          uuid.UUID         `json:"session_id"`
	Status             string            `json:"status"`
	WebsocketURL       string            `json:"websocket_url"`
	CanConnect         bool              `json:"can_connect"`
	IsWebsocketActive  bool              `json:"is_websocket_active"`
	ActiveParticipants []ParticipantInfo `json:"active_participants"`
}
