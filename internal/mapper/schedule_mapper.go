package mapper

import (
	"counseling-chat-be/internal/entity"
	"counseling-chat-be/internal/model"
)

type ScheduleMapper struct{}

func NewScheduleMapper() *ScheduleMapper {
	return &ScheduleMapper{}
}

func (m *ScheduleMapper) TimeSlotToModel(e *entity.TimeSlot) *model.TimeSlot {
	out := &model.TimeSlot{
		Id:                      e.Id,
		CounselorId:             e.CounselorId,
		Date:                    e.Date,
		StartTime:               e.StartTime,
		EndTime:                 e.EndTime,
		IsAvailable:             e.IsAvailable,
		IsBooked:                e.IsBooked,
		GeneratedFromScheduleId: e.GeneratedFromScheduleId,
		CreatedAt:               e.CreatedAt,
	}
	if e.UpdatedAt != nil {
		out.UpdatedAt = *e.UpdatedAt
	}
	return out
}

func (m *ScheduleMapper) TimeSlotToEntity(mo *model.TimeSlot) *entity.TimeSlot {
	return &entity.TimeSlot{
		Id:                      mo.Id,
		CounselorId:             mo.CounselorId,
		Date:                    mo.Date,
		StartTime:               mo.StartTime,
		EndTime:                 mo.EndTime,
		IsAvailable:             mo.IsAvailable,
		IsBooked:                mo.IsBooked,
		GeneratedFromScheduleId: mo.GeneratedFromScheduleId,
		CreatedAt:               mo.CreatedAt,
		UpdatedAt:               timePtr(mo.UpdatedAt),
	}
}

func (m *ScheduleMapper) ScheduleToModel(e *entity.CounselorSchedule) *model.CounselorSchedule {
	out := &model.CounselorSchedule{
		Id:                     e.Id,
		CounselorId:            e.CounselorId,
		Name:                   e.Name,
		Description:            e.Description,
		DaysOfWeek:             e.DaysOfWeek,
		StartTime:              e.StartTime,
		EndTime:                e.EndTime,
		SessionDurationMinutes: e.SessionDurationMinutes,
		BreakDurationMinutes:   e.BreakDurationMinutes,
		EffectiveFrom:          e.EffectiveFrom,
		EffectiveUntil:         e.EffectiveUntil,
		IsActive:               e.IsActive,
		CreatedBy:              e.CreatedBy,
		CreatedAt:              e.CreatedAt,
	}
	if e.UpdatedAt != nil {
		out.UpdatedAt = *e.UpdatedAt
	}
	return out
}

func (m *ScheduleMapper) ScheduleToEntity(mo *model.CounselorSchedule) *entity.CounselorSchedule {
	return &entity.CounselorSchedule{
		Id:                     mo.Id,
		CounselorId:            mo.CounselorId,
		Name:                   mo.Name,
		Description:            mo.Description,
		DaysOfWeek:             mo.DaysOfWeek,
		StartTime:              mo.StartTime,
		EndTime:                mo.EndTime,
		SessionDurationMinutes: mo.SessionDurationMinutes,
		BreakDurationMinutes:   mo.BreakDurationMinutes,
		EffectiveFrom:          mo.EffectiveFrom,
		EffectiveUntil:         mo.EffectiveUntil,
		IsActive:               mo.IsActive,
		CreatedBy:              mo.CreatedBy,
		CreatedAt:              mo.CreatedAt,
		UpdatedAt:              timePtr(mo.UpdatedAt),
	}
}

func (m *ScheduleMapper) UnavailabilityToModel(e *entity.CounselorUnavailability) *model.CounselorUnavailability {
	out := &model.CounselorUnavailability{
		Id:          e.Id,
		CounselorId: e.CounselorId,
		ScheduleId:  e.ScheduleId,
		StartDate:   e.StartDate,
		EndDate:     e.EndDate,
		StartTime:   e.StartTime,
		EndTime:     e.EndTime,
		Reason:      e.Reason,
		Notes:       e.Notes,
		CreatedBy:   e.CreatedBy,
		CreatedAt:   e.CreatedAt,
	}
	if e.UpdatedAt != nil {
		out.UpdatedAt = *e.UpdatedAt
	}
	return out
}

func (m *ScheduleMapper) UnavailabilityToEntity(mo *model.CounselorUnavailability) *entity.CounselorUnavailability {
	return &entity.CounselorUnavailability{
		Id:          mo.Id,
		CounselorId: mo.CounselorId,
		ScheduleId:  mo.ScheduleId,
		StartDate:   mo.StartDate,
		EndDate:     mo.EndDate,
		StartTime:   mo.StartTime,
		EndTime:     mo.EndTime,
		Reason:      mo.Reason,
		Notes:       mo.Notes,
		CreatedBy:   mo.CreatedBy,
		CreatedAt:   mo.CreatedAt,
		UpdatedAt:   timePtr(mo.UpdatedAt),
	}
}
