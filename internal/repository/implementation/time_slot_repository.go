package implementation

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"counseling-chat-be/internal/entity"
	"counseling-chat-be/internal/mapper"
	"counseling-chat-be/internal/model"
	"counseling-chat-be/internal/repository/contract"
	"counseling-chat-be/internal/repository/specification"
)

type timeSlotRepository struct {
	db     *gorm.DB
	mapper *mapper.ScheduleMapper
}

func NewTimeSlotRepository(db *gorm.DB) contract.TimeSlotRepository {
	return &timeSlotRepository{db: db, mapper: mapper.NewScheduleMapper()}
}

func (r *timeSlotRepository) Create(ctx context.Context, slot *entity.TimeSlot) error {
	m := r.mapper.TimeSlotToModel(slot)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*slot = *r.mapper.TimeSlotToEntity(m)
	return nil
}

func (r *timeSlotRepository) Update(ctx context.Context, slot *entity.TimeSlot) error {
	m := r.mapper.TimeSlotToModel(slot)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*slot = *r.mapper.TimeSlotToEntity(m)
	return nil
}

func (r *timeSlotRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.TimeSlot, error) {
	var m model.TimeSlot
	query := applySpecifications(r.db.WithContext(ctx), specs)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.TimeSlotToEntity(&m), nil
}

func (r *timeSlotRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.TimeSlot, error) {
	var models []model.TimeSlot
	query := applySpecifications(r.db.WithContext(ctx), specs)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]*entity.TimeSlot, 0, len(models))
	for i := range models {
		out = append(out, r.mapper.TimeSlotToEntity(&models[i]))
	}
	return out, nil
}

func (r *timeSlotRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.TimeSlot{}), specs)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

type counselorScheduleRepository struct {
	db     *gorm.DB
	mapper *mapper.ScheduleMapper
}

func NewCounselorScheduleRepository(db *gorm.DB) contract.CounselorScheduleRepository {
	return &counselorScheduleRepository{db: db, mapper: mapper.NewScheduleMapper()}
}

func (r *counselorScheduleRepository) Create(ctx context.Context, schedule *entity.CounselorSchedule) error {
	m := r.mapper.ScheduleToModel(schedule)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*schedule = *r.mapper.ScheduleToEntity(m)
	return nil
}

func (r *counselorScheduleRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CounselorSchedule, error) {
	var m model.CounselorSchedule
	query := applySpecifications(r.db.WithContext(ctx), specs)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ScheduleToEntity(&m), nil
}

func (r *counselorScheduleRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CounselorSchedule, error) {
	var models []model.CounselorSchedule
	query := applySpecifications(r.db.WithContext(ctx), specs)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]*entity.CounselorSchedule, 0, len(models))
	for i := range models {
		out = append(out, r.mapper.ScheduleToEntity(&models[i]))
	}
	return out, nil
}

type counselorUnavailabilityRepository struct {
	db     *gorm.DB
	mapper *mapper.ScheduleMapper
}

func NewCounselorUnavailabilityRepository(db *gorm.DB) contract.CounselorUnavailabilityRepository {
	return &counselorUnavailabilityRepository{db: db, mapper: mapper.NewScheduleMapper()}
}

func (r *counselorUnavailabilityRepository) Create(ctx context.Context, unavailability *entity.CounselorUnavailability) error {
	m := r.mapper.UnavailabilityToModel(unavailability)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*unavailability = *r.mapper.UnavailabilityToEntity(m)
	return nil
}

func (r *counselorUnavailabilityRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CounselorUnavailability, error) {
	var m model.CounselorUnavailability
	query := applySpecifications(r.db.WithContext(ctx), specs)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.UnavailabilityToEntity(&m), nil
}

func (r *counselorUnavailabilityRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CounselorUnavailability, error) {
	var models []model.CounselorUnavailability
	query := applySpecifications(r.db.WithContext(ctx), specs)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]*entity.CounselorUnavailability, 0, len(models))
	for i := range models {
		out = append(out, r.mapper.UnavailabilityToEntity(&models[i]))
	}
	return out, nil
}
