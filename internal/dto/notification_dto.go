package dto

import (
	"time"

	"github.com/google/uuid"

	"counseling-chat-be/internal/entity"
)

type NotificationResponse struct {
	Id        uuid.UUID              `json:"id"`
	Type      string                 `json:"type"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	IsRead    bool                   `json:"is_read"`
	CreatedAt time.Time              `json:"created_at"`
}

func NewNotificationResponse(e *entity.Notification) NotificationResponse {
	return NotificationResponse{
		Id:        e.Id,
		Type:      e.Type,
		Title:     e.Title,
		Message:   e.Message,
		Metadata:  e.Metadata,
		IsRead:    e.IsRead,
		CreatedAt: e.CreatedAt,
	}
}

type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Total         int64                  `json:"total"`
	UnreadCount   int64                  `json:"unread_count"`
}
