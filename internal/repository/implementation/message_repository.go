package implementation

import (
	"context"

	"gorm.io/gorm"

	"counseling-chat-be/internal/entity"
	"counseling-chat-be/internal/mapper"
	"counseling-chat-be/internal/model"
	"counseling-chat-be/internal/repository/contract"
	"counseling-chat-be/internal/repository/specification"
)

type messageRepository struct {
	db     *gorm.DB
	mapper *mapper.ChatMapper
}

func NewMessageRepository(db *gorm.DB) contract.MessageRepository {
	return &messageRepository{db: db, mapper: mapper.NewChatMapper()}
}

func (r *messageRepository) Create(ctx context.Context, message *entity.Message) error {
	m := r.mapper.MessageToModel(message)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*message = *r.mapper.MessageToEntity(m)
	return nil
}

func (r *messageRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Message, error) {
	var models []model.Message
	query := applySpecifications(r.db.WithContext(ctx), specs)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]*entity.Message, 0, len(models))
	for i := range models {
		out = append(out, r.mapper.MessageToEntity(&models[i]))
	}
	return out, nil
}

func (r *messageRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.Message{}), specs)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
