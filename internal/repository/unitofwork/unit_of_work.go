package unitofwork

import (
	"context"

	"counseling-chat-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ChatSessionRepository() contract.ChatSessionRepository
	MessageRepository() contract.MessageRepository
	TimeSlotRepository() contract.TimeSlotRepository
	CounselorScheduleRepository() contract.CounselorScheduleRepository
	CounselorUnavailabilityRepository() contract.CounselorUnavailabilityRepository
	UserRepository() contract.UserRepository
	CounselorRepository() contract.CounselorRepository
	NotificationRepository() contract.NotificationRepository
}
