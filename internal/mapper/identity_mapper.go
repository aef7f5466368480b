package mapper

import (
	"encoding/json"

	"counseling-chat-be/internal/entity"
	"counseling-chat-be/internal/model"
)

type IdentityMapper struct{}

func NewIdentityMapper() *IdentityMapper {
	return &IdentityMapper{}
}

func (m *IdentityMapper) UserToEntity(mo *model.User) *entity.User {
	return &entity.User{
		Id:        mo.Id,
		Nickname:  mo.Nickname,
		Email:     mo.Email,
		IsActive:  mo.IsActive,
		CreatedAt: mo.CreatedAt,
		UpdatedAt: timePtr(mo.UpdatedAt),
	}
}

func (m *IdentityMapper) StaffToCounselorEntity(mo *model.Staff) *entity.Counselor {
	out := &entity.Counselor{
		Id:        mo.Id,
		Name:      mo.Name,
		Email:     mo.Email,
		Role:      mo.Role,
		IsActive:  mo.IsActive,
		CreatedAt: mo.CreatedAt,
		UpdatedAt: timePtr(mo.UpdatedAt),
	}
	if mo.Profile != nil {
		out.Profile = &entity.CounselorProfile{
			Id:            mo.Profile.Id,
			StaffId:       mo.Profile.StaffId,
			IsAvailable:   mo.Profile.IsAvailable,
			TotalSessions: mo.Profile.TotalSessions,
			Rating:        mo.Profile.Rating,
			Specialties:   mo.Profile.Specialties,
		}
	}
	return out
}

func (m *IdentityMapper) NotificationToEntity(mo *model.Notification) *entity.Notification {
	var meta map[string]interface{}
	if len(mo.Metadata) > 0 {
		_ = json.Unmarshal(mo.Metadata, &meta)
	}
	return &entity.Notification{
		Id:        mo.Id,
		UserId:    mo.UserId,
		Type:      mo.Type,
		Title:     mo.Title,
		Message:   mo.Message,
		Metadata:  meta,
		IsRead:    mo.IsRead,
		CreatedAt: mo.CreatedAt,
	}
}

func (m *IdentityMapper) NotificationToModel(e *entity.Notification) *model.Notification {
	out := &model.Notification{
		Id:        e.Id,
		UserId:    e.UserId,
		Type:      e.Type,
		Title:     e.Title,
		Message:   e.Message,
		IsRead:    e.IsRead,
		CreatedAt: e.CreatedAt,
	}
	if e.Metadata != nil {
		raw, _ := json.Marshal(e.Metadata)
		out.Metadata = raw
	}
	return out
}
