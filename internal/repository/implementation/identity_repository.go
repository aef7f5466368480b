package implementation

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"counseling-chat-be/internal/entity"
	"counseling-chat-be/internal/mapper"
	"counseling-chat-be/internal/model"
	"counseling-chat-be/internal/repository/contract"
)

type userRepository struct {
	db     *gorm.DB
	mapper *mapper.IdentityMapper
}

func NewUserRepository(db *gorm.DB) contract.UserRepository {
	return &userRepository{db: db, mapper: mapper.NewIdentityMapper()}
}

func (r *userRepository) FindById(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var m model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.UserToEntity(&m), nil
}

type counselorRepository struct {
	db     *gorm.DB
	mapper *mapper.IdentityMapper
}

func NewCounselorRepository(db *gorm.DB) contract.CounselorRepository {
	return &counselorRepository{db: db, mapper: mapper.NewIdentityMapper()}
}

func (r *counselorRepository) FindById(ctx context.Context, id uuid.UUID) (*entity.Counselor, error) {
	var m model.Staff
	err := r.db.WithContext(ctx).
		Preload("Profile").
		Where("id = ? AND role = ?", id, entity.StaffRoleCounselor).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.StaffToCounselorEntity(&m), nil
}

func (r *counselorRepository) IncrementTotalSessions(ctx context.Context, counselorId uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.CounselorProfile{}).
		Where("staff_id = ?", counselorId).
		UpdateColumn("total_sessions", gorm.Expr("total_sessions + 1")).Error
}
