package dto

import (
	"time"

	"github.com/google/uuid"

	"counseling-chat-be/internal/entity"
)

type CreateTimeSlotRequest struct {
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime string `json:"start_time" validate:"required,len=5"`
	EndTime   string `json:"end_time" validate:"required,len=5"`
}

type BulkCreateTimeSlotsRequest struct {
	Slots []CreateTimeSlotRequest `json:"slots" validate:"required,min=1,dive"`
}

type TimeSlotResponse struct {
	Id          uuid.UUID `json:"id"`
	CounselorId uuid.UUID `json:"counselor_id"`
	Date        string    `json:"date"`
	StartTime   string    `json:"start_time"`
	EndTime     string    `json:"end_time"`
	IsAvailable bool      `json:"is_available"`
	IsBooked    bool      `json:"is_booked"`
}

func NewTimeSlotResponse(e *entity.TimeSlot) TimeSlotResponse {
	return TimeSlotResponse{
		Id:          e.Id,
		CounselorId: e.CounselorId,
		Date:        e.Date.Format("2006-01-02"),
		StartTime:   e.StartTime,
		EndTime:     e.EndTime,
		IsAvailable: e.IsAvailable,
		IsBooked:    e.IsBooked,
	}
}

func NewTimeSlotResponses(slots []*entity.TimeSlot) []TimeSlotResponse {
	out := make([]TimeSlotResponse, 0, len(slots))
	for _, s := range slots {
		out = append(out, NewTimeSlotResponse(s))
	}
	return out
}

// BulkCreateTimeSlotsResponse reports the per-slot outcome of a bulk
// request. Conflicting slots are skipped, not fatal.
type BulkCreateTimeSlotsResponse struct {
	Created []TimeSlotResponse `json:"created"`
	Skipped []SkippedSlot      `json:"skipped"`
}

type SkippedSlot struct {
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	Reason    string `json:"reason"`
}

type CreateScheduleRequest struct {
	Name                   string `json:"name" validate:"required"`
	Description            string `json:"description"`
	DaysOfWeek             string `json:"days_of_week" validate:"required"`
	StartTime              string `json:"start_time" validate:"required,len=5"`
	EndTime                string `json:"end_time" validate:"required,len=5"`
	SessionDurationMinutes int    `json:"session_duration_minutes" validate:"required,min=10,max=240"`
	BreakDurationMinutes   int    `json:"break_duration_minutes" validate:"min=0,max=120"`
	EffectiveFrom          string `json:"effective_from" validate:"required,datetime=2006-01-02"`
	EffectiveUntil         string `json:"effective_until" validate:"omitempty,datetime=2006-01-02"`
}

type ScheduleResponse struct {
	Id                     uuid.UUID  `json:"id"`
	CounselorId            uuid.UUID  `json:"counselor_id"`
	Name                   string     `json:"name"`
	Description            string     `json:"description,omitempty"`
	DaysOfWeek             string     `json:"days_of_week"`
	StartTime              string     `json:"start_time"`
	EndTime                string     `json:"end_time"`
	SessionDurationMinutes int        `json:"session_duration_minutes"`
	BreakDurationMinutes   int        `json:"break_duration_minutes"`
	EffectiveFrom          string     `json:"effective_from"`
	EffectiveUntil         *string    `json:"effective_until,omitempty"`
	IsActive               bool       `json:"is_active"`
	CreatedAt              time.Time  `json:"created_at"`
	UpdatedAt              *time.Time `json:"updated_at,omitempty"`
}

func NewScheduleResponse(e *entity.CounselorSchedule) ScheduleResponse {
	out := ScheduleResponse{
		Id:                     e.Id,
		CounselorId:            e.CounselorId,
		Name:                   e.Name,
		Description:            e.Description,
		DaysOfWeek:             e.DaysOfWeek,
		StartTime:              e.StartTime,
		EndTime:                e.EndTime,
		SessionDurationMinutes: e.SessionDurationMinutes,
		BreakDurationMinutes:   e.BreakDurationMinutes,
		EffectiveFrom:          e.EffectiveFrom.Format("2006-01-02"),
		IsActive:               e.IsActive,
		CreatedAt:              e.CreatedAt,
		UpdatedAt:              e.UpdatedAt,
	}
	if e.EffectiveUntil != nil {
		until := e.EffectiveUntil.Format("2006-01-02")
		out.EffectiveUntil = &until
	}
	return out
}

func NewScheduleResponses(schedules []*entity.CounselorSchedule) []ScheduleResponse {
	out := make([]ScheduleResponse, 0, len(schedules))
	for _, s := range schedules {
		out = append(out, NewScheduleResponse(s))
	}
	return out
}

type CreateUnavailabilityRequest struct {
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
	StartTime string `json:"start_time" validate:"omitempty,len=5"`
	EndTime   string `json:"end_time" validate:"omitempty,len=5"`
	Reason    string `json:"reason" validate:"required"`
	Notes     string `json:"notes"`
}

type UnavailabilityResponse struct {
	Id          uuid.UUID `json:"id"`
	CounselorId uuid.UUID `json:"counselor_id"`
	StartDate   string    `json:"start_date"`
	EndDate     string    `json:"end_date"`
	StartTime   string    `json:"start_time,omitempty"`
	EndTime     string    `json:"end_time,omitempty"`
	Reason      string    `json:"reason"`
	Notes       string    `json:"notes,omitempty"`
}

func NewUnavailabilityResponse(e *entity.CounselorUnavailability) UnavailabilityResponse {
	return UnavailabilityResponse{
		Id:          e.Id,
		CounselorId: e.CounselorId,
		StartDate:   e.StartDate.Format("2006-01-02"),
		EndDate:     e.EndDate.Format("2006-01-02"),
		StartTime:   e.StartTime,
		EndTime:     e.EndTime,
		Reason:      e.Reason,
		Notes:       e.Notes,
	}
}

func NewUnavailabilityResponses(items []*entity.CounselorUnavailability) []UnavailabilityResponse {
	out := make([]UnavailabilityResponse, 0, len(items))
	for _, u := range items {
		out = append(out, NewUnavailabilityResponse(u))
	}
	return out
}
