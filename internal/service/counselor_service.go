package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"counseling-chat-be/internal/apperror"
	"counseling-chat-be/internal/dto"
	"counseling-chat-be/internal/entity"
	"counseling-chat-be/internal/pkg/logger"
	"counseling-chat-be/internal/repository/specification"
	"counseling-chat-be/internal/repository/unitofwork"
)

type ICounselorService interface {
	GetAvailableSlots(ctx context.Context, counselorId uuid.UUID, from, to time.Time) ([]*entity.TimeSlot, error)
	CreateTimeSlot(ctx context.Context, counselorId uuid.UUID, req *dto.CreateTimeSlotRequest) (*entity.TimeSlot, error)
	BulkCreateTimeSlots(ctx context.Context, counselorId uuid.UUID, req *dto.BulkCreateTimeSlotsRequest) (*dto.BulkCreateTimeSlotsResponse, error)

	CreateSchedule(ctx context.Context, counselorId, createdBy uuid.UUID, req *dto.CreateScheduleRequest) (*entity.CounselorSchedule, error)
	GetSchedules(ctx context.Context, counselorId uuid.UUID) ([]*entity.CounselorSchedule, error)

	CreateUnavailability(ctx context.Context, counselorId, createdBy uuid.UUID, req *dto.CreateUnavailabilityRequest) (*entity.CounselorUnavailability, error)
	GetUnavailabilities(ctx context.Context, counselorId uuid.UUID) ([]*entity.CounselorUnavailability, error)

	// GenerateSlotsFromSchedule materializes a rule for one date. Dates the
	// rule does not cover yield zero slots; collisions with existing slots
	// or unavailability windows are skipped per slot.
	GenerateSlotsFromSchedule(ctx context.Context, schedule *entity.CounselorSchedule, date time.Time) (int, error)
}

type counselorService struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
	now        func() time.Time
}

func NewCounselorService(uowFactory unitofwork.RepositoryFactory, log logger.ILogger) ICounselorService {
	return &counselorService{
		uowFactory: uowFactory,
		logger:     log,
		now:        time.Now,
	}
}

func (s *counselorService) GetAvailableSlots(ctx context.Context, counselorId uuid.UUID, from, to time.Time) ([]*entity.TimeSlot, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	return uow.TimeSlotRepository().FindAll(ctx,
		specification.SlotByCounselor{CounselorID: counselorId},
		specification.SlotByDateRange{From: from, To: to},
		specification.SlotAvailable{},
		specification.SlotOrderByTime{},
	)
}

func (s *counselorService) CreateTimeSlot(ctx context.Context, counselorId uuid.UUID, req *dto.CreateTimeSlotRequest) (*entity.TimeSlot, error) {
	date, startTime, endTime, err := parseSlotTimes(req.Date, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	if err := s.checkSlotPlacement(ctx, uow, counselorId, date, startTime, endTime); err != nil {
		return nil, err
	}

	slot := &entity.TimeSlot{
		Id:          uuid.New(),
		CounselorId: counselorId,
		Date:        date,
		StartTime:   startTime,
		EndTime:     endTime,
		IsAvailable: true,
		CreatedAt:   s.now(),
	}
	if err := uow.TimeSlotRepository().Create(ctx, slot); err != nil {
		return nil, err
	}

	return slot, nil
}

func (s *counselorService) BulkCreateTimeSlots(ctx context.Context, counselorId uuid.UUID, req *dto.BulkCreateTimeSlotsRequest) (*dto.BulkCreateTimeSlotsResponse, error) {
	out := &dto.BulkCreateTimeSlotsResponse{
		Created: make([]dto.TimeSlotResponse, 0, len(req.Slots)),
		Skipped: make([]dto.SkippedSlot, 0),
	}

	for i := range req.Slots {
		slot, err := s.CreateTimeSlot(ctx, counselorId, &req.Slots[i])
		if err != nil {
			out.Skipped = append(out.Skipped, dto.SkippedSlot{
				Date:      req.Slots[i].Date,
				StartTime: req.Slots[i].StartTime,
				Reason:    err.Error(),
			})
			continue
		}
		out.Created = append(out.Created, dto.NewTimeSlotResponse(slot))
	}

	return out, nil
}

func (s *counselorService) CreateSchedule(ctx context.Context, counselorId, createdBy uuid.UUID, req *dto.CreateScheduleRequest) (*entity.CounselorSchedule, error) {
	if _, err := entity.ParseTimeOfDay(req.StartTime); err != nil {
		return nil, apperror.Validation("invalid start time %q", req.StartTime)
	}
	if _, err := entity.ParseTimeOfDay(req.EndTime); err != nil {
		return nil, apperror.Validation("invalid end time %q", req.EndTime)
	}
	if req.EndTime <= req.StartTime {
		return nil, apperror.Validation("end time must be after start time")
	}

	effectiveFrom, err := time.Parse("2006-01-02", req.EffectiveFrom)
	if err != nil {
		return nil, apperror.Validation("invalid effective_from date %q", req.EffectiveFrom)
	}

	var effectiveUntil *time.Time
	if req.EffectiveUntil != "" {
		until, err := time.Parse("2006-01-02", req.EffectiveUntil)
		if err != nil {
			return nil, apperror.Validation("invalid effective_until date %q", req.EffectiveUntil)
		}
		if until.Before(effectiveFrom) {
			return nil, apperror.Validation("effective_until precedes effective_from")
		}
		effectiveUntil = &until
	}

	schedule := &entity.CounselorSchedule{
		Id:                     uuid.New(),
		CounselorId:            counselorId,
		Name:                   req.Name,
		Description:            req.Description,
		DaysOfWeek:             req.DaysOfWeek,
		StartTime:              req.StartTime,
		EndTime:                req.EndTime,
		SessionDurationMinutes: req.SessionDurationMinutes,
		BreakDurationMinutes:   req.BreakDurationMinutes,
		EffectiveFrom:          effectiveFrom,
		EffectiveUntil:         effectiveUntil,
		IsActive:               true,
		CreatedBy:              createdBy,
		CreatedAt:              s.now(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.CounselorScheduleRepository().Create(ctx, schedule); err != nil {
		return nil, err
	}

	return schedule, nil
}

func (s *counselorService) GetSchedules(ctx context.Context, counselorId uuid.UUID) ([]*entity.CounselorSchedule, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.CounselorScheduleRepository().FindAll(ctx, specification.ScheduleByCounselor{CounselorID: counselorId})
}

func (s *counselorService) CreateUnavailability(ctx context.Context, counselorId, createdBy uuid.UUID, req *dto.CreateUnavailabilityRequest) (*entity.CounselorUnavailability, error) {
	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, apperror.Validation("invalid start date %q", req.StartDate)
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return nil, apperror.Validation("invalid end date %q", req.EndDate)
	}
	if endDate.Before(startDate) {
		return nil, apperror.Validation("end date precedes start date")
	}
	if (req.StartTime == "") != (req.EndTime == "") {
		return nil, apperror.Validation("start and end time must be set together")
	}
	if req.StartTime != "" {
		if _, err := entity.ParseTimeOfDay(req.StartTime); err != nil {
			return nil, apperror.Validation("invalid start time %q", req.StartTime)
		}
		if _, err := entity.ParseTimeOfDay(req.EndTime); err != nil {
			return nil, apperror.Validation("invalid end time %q", req.EndTime)
		}
		if req.EndTime <= req.StartTime {
			return nil, apperror.Validation("end time must be after start time")
		}
	}

	unavailability := &entity.CounselorUnavailability{
		Id:          uuid.New(),
		CounselorId: counselorId,
		StartDate:   startDate,
		EndDate:     endDate,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Reason:      req.Reason,
		Notes:       req.Notes,
		CreatedBy:   createdBy,
		CreatedAt:   s.now(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.CounselorUnavailabilityRepository().Create(ctx, unavailability); err != nil {
		return nil, err
	}

	return unavailability, nil
}

func (s *counselorService) GetUnavailabilities(ctx context.Context, counselorId uuid.UUID) ([]*entity.CounselorUnavailability, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.CounselorUnavailabilityRepository().FindAll(ctx, specification.ScheduleByCounselor{CounselorID: counselorId})
}

func (s *counselorService) GenerateSlotsFromSchedule(ctx context.Context, schedule *entity.CounselorSchedule, date time.Time) (int, error) {
	if !schedule.IsActive || !schedule.Covers(date) || !schedule.AllowsWeekday(date) {
		return 0, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.TimeSlotRepository().FindAll(ctx,
		specification.SlotByCounselor{CounselorID: schedule.CounselorId},
		specification.SlotByDate{Date: date},
	)
	if err != nil {
		return 0, err
	}
	existingStarts := make(map[string]struct{}, len(existing))
	for _, slot := range existing {
		existingStarts[slot.StartTime] = struct{}{}
	}

	windows, err := uow.CounselorUnavailabilityRepository().FindAll(ctx,
		specification.UnavailabilityCovering{CounselorID: schedule.CounselorId, Date: date},
	)
	if err != nil {
		return 0, err
	}

	created := 0
	step := schedule.SessionDurationMinutes + schedule.BreakDurationMinutes
	for startTime := schedule.StartTime; ; {
		endTime, err := entity.AddMinutesToTimeOfDay(startTime, schedule.SessionDurationMinutes)
		if err != nil || endTime > schedule.EndTime || endTime <= startTime {
			break
		}

		if s.slotAllowed(startTime, endTime, existingStarts, windows) {
			slot := &entity.TimeSlot{
				Id:                      uuid.New(),
				CounselorId:             schedule.CounselorId,
				Date:                    entity.DateOnly(date),
				StartTime:               startTime,
				EndTime:                 endTime,
				IsAvailable:             true,
				GeneratedFromScheduleId: &schedule.Id,
				CreatedAt:               s.now(),
			}
			if err := uow.TimeSlotRepository().Create(ctx, slot); err != nil {
				return created, err
			}
			created++
		}

		next, err := entity.AddMinutesToTimeOfDay(startTime, step)
		if err != nil || next <= startTime {
			break
		}
		startTime = next
	}

	return created, nil
}

func (s *counselorService) slotAllowed(startTime, endTime string, existingStarts map[string]struct{}, windows []*entity.CounselorUnavailability) bool {
	if _, taken := existingStarts[startTime]; taken {
		return false
	}
	for _, w := range windows {
		if w.BlocksInterval(startTime, endTime) {
			return false
		}
	}
	return true
}

// checkSlotPlacement rejects a slot that overlaps an existing one or falls
// inside an unavailability window.
func (s *counselorService) checkSlotPlacement(ctx context.Context, uow unitofwork.UnitOfWork, counselorId uuid.UUID, date time.Time, startTime, endTime string) error {
	overlapping, err := uow.TimeSlotRepository().Count(ctx,
		specification.SlotByCounselor{CounselorID: counselorId},
		specification.SlotByDate{Date: date},
		specification.SlotOverlapping{StartTime: startTime, EndTime: endTime},
	)
	if err != nil {
		return err
	}
	if overlapping > 0 {
		return apperror.Conflict("slot overlaps an existing slot")
	}

	windows, err := uow.CounselorUnavailabilityRepository().FindAll(ctx,
		specification.UnavailabilityCovering{CounselorID: counselorId, Date: date},
	)
	if err != nil {
		return err
	}
	for _, w := range windows {
		if w.BlocksInterval(startTime, endTime) {
			return apperror.Conflict("slot falls inside an unavailability window")
		}
	}

	return nil
}

func parseSlotTimes(dateStr, startStr, endStr string) (time.Time, string, string, error) {
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return time.Time{}, "", "", apperror.Validation("invalid date %q", dateStr)
	}
	if _, err := entity.ParseTimeOfDay(startStr); err != nil {
		return time.Time{}, "", "", apperror.Validation("invalid start time %q", startStr)
	}
	if _, err := entity.ParseTimeOfDay(endStr); err != nil {
		return time.Time{}, "", "", apperror.Validation("invalid end time %q", endStr)
	}
	if endStr <= startStr {
		return time.Time{}, "", "", apperror.Validation("end time must be after start time")
	}
	return date, startStr, endStr, nil
}
