package contract

import (
	"context"

	"counseling-chat-be/internal/entity"

	"github.com/google/uuid"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *entity.Notification) error
	FindByUser(ctx context.Context, userId uuid.UUID, limit, offset int) ([]*entity.Notification, int64, error)
	UnreadCount(ctx context.Context, userId uuid.UUID) (int64, error)
	// MarkAsRead flips the read flag on the user's own notification; a row
	// belonging to someone else reads as not found.
	MarkAsRead(ctx context.Context, id, userId uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userId uuid.UUID) error
	// HasSessionReminder reports whether a reminder notification was already
	// persisted for this session and user. The inbox is the at-most-once
	// ledger for the scheduler's reminder scan.
	HasSessionReminder(ctx context.Context, sessionId, userId uuid.UUID) (bool, error)
}
