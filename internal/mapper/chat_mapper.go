package mapper

import (
	"time"

	"counseling-chat-be/internal/entity"
	"counseling-chat-be/internal/model"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

func (m *ChatMapper) ChatSessionToModel(e *entity.ChatSession) *model.ChatSession {
	out := &model.ChatSession{
		Id:                 e.Id,
		UserId:             e.UserId,
		CounselorId:        e.CounselorId,
		TimeSlotId:         e.TimeSlotId,
		Status:             e.Status,
		ScheduledDate:      e.ScheduledDate,
		ScheduledStartTime: e.ScheduledStartTime,
		ScheduledEndTime:   e.ScheduledEndTime,
		ActualStartTime:    e.ActualStartTime,
		ActualEndTime:      e.ActualEndTime,
		Duration:           e.Duration,
		Category:           e.Category,
		Description:        e.Description,
		CounselorNotes:     e.CounselorNotes,
		UserFeedback:       e.UserFeedback,
		Rating:             e.Rating,
		CreatedAt:          e.CreatedAt,
	}
	if e.UpdatedAt != nil {
		out.UpdatedAt = *e.UpdatedAt
	}
	return out
}

func (m *ChatMapper) ChatSessionToEntity(mo *model.ChatSession) *entity.ChatSession {
	return &entity.ChatSession{
		Id:                 mo.Id,
		UserId:             mo.UserId,
		CounselorId:        mo.CounselorId,
		TimeSlotId:         mo.TimeSlotId,
		Status:             mo.Status,
		ScheduledDate:      mo.ScheduledDate,
		ScheduledStartTime: mo.ScheduledStartTime,
		ScheduledEndTime:   mo.ScheduledEndTime,
		ActualStartTime:    mo.ActualStartTime,
		ActualEndTime:      mo.ActualEndTime,
		Duration:           mo.Duration,
		Category:           mo.Category,
		Description:        mo.Description,
		CounselorNotes:     mo.CounselorNotes,
		UserFeedback:       mo.UserFeedback,
		Rating:             mo.Rating,
		CreatedAt:          mo.CreatedAt,
		UpdatedAt:          timePtr(mo.UpdatedAt),
	}
}

func (m *ChatMapper) MessageToModel(e *entity.Message) *model.Message {
	return &model.Message{
		Id:         e.Id,
		SessionId:  e.SessionId,
		SenderId:   e.SenderId,
		SenderType: e.SenderType,
		Content:    e.Content,
		CreatedAt:  e.CreatedAt,
	}
}

func (m *ChatMapper) MessageToEntity(mo *model.Message) *entity.Message {
	return &entity.Message{
		Id:         mo.Id,
		SessionId:  mo.SessionId,
		SenderId:   mo.SenderId,
		SenderType: mo.SenderType,
		Content:    mo.Content,
		CreatedAt:  mo.CreatedAt,
	}
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
