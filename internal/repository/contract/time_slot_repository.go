package contract

import (
	"context"

	"counseling-chat-be/internal/entity"
	"counseling-chat-be/internal/repository/specification"
)

type TimeSlotRepository interface {
	Create(ctx context.Context, slot *entity.TimeSlot) error
	Update(ctx context.Context, slot *entity.TimeSlot) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.TimeSlot, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.TimeSlot, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

type CounselorScheduleRepository interface {
	Create(ctx context.Context, schedule *entity.CounselorSchedule) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CounselorSchedule, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CounselorSchedule, error)
}

type CounselorUnavailabilityRepository interface {
	Create(ctx context.Context, unavailability *entity.CounselorUnavailability) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CounselorUnavailability, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CounselorUnavailability, error)
}
