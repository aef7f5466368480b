package implementation

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"counseling-chat-be/internal/apperror"
	"counseling-chat-be/internal/entity"
	"counseling-chat-be/internal/mapper"
	"counseling-chat-be/internal/model"
	"counseling-chat-be/internal/repository/contract"
)

type notificationRepository struct {
	db     *gorm.DB
	mapper *mapper.IdentityMapper
}

func NewNotificationRepository(db *gorm.DB) contract.NotificationRepository {
	return &notificationRepository{db: db, mapper: mapper.NewIdentityMapper()}
}

func (r *notificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	m := r.mapper.NotificationToModel(notification)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*notification = *r.mapper.NotificationToEntity(m)
	return nil
}

func (r *notificationRepository) FindByUser(ctx context.Context, userId uuid.UUID, limit, offset int) ([]*entity.Notification, int64, error) {
	var total int64
	base := r.db.WithContext(ctx).Model(&model.Notification{}).Where("user_id = ?", userId)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []model.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userId).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, 0, err
	}

	out := make([]*entity.Notification, 0, len(models))
	for i := range models {
		out = append(out, r.mapper.NotificationToEntity(&models[i]))
	}
	return out, total, nil
}

func (r *notificationRepository) UnreadCount(ctx context.Context, userId uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userId, false).
		Count(&count).Error
	return count, err
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, id, userId uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("id = ? AND user_id = ?", id, userId).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("notification %s", id)
	}
	return nil
}

func (r *notificationRepository) MarkAllAsRead(ctx context.Context, userId uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userId, false).
		Update("is_read", true).Error
}

func (r *notificationRepository) HasSessionReminder(ctx context.Context, sessionId, userId uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("user_id = ? AND type = ? AND metadata->>'session_id' = ?",
			userId, entity.NotificationSessionReminder, sessionId.String()).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
