package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"counseling-chat-be/internal/entity"
	"counseling-chat-be/internal/pkg/logger"
	"counseling-chat-be/internal/pkg/mailer"
	"counseling-chat-be/internal/repository/unitofwork"
	"counseling-chat-be/pkg/events"
	pktNats "counseling-chat-be/pkg/nats"
)

// NotificationDelivery defines how to push real-time updates.
// Typically implemented by the WebSocket Hub.
type NotificationDelivery interface {
	Send(userId uuid.UUID, notification *entity.Notification)
	Broadcast(notification *entity.Notification)
}

type INotificationService interface {
	NotifySessionBooked(ctx context.Context, session *entity.ChatSession)
	NotifySessionStarted(ctx context.Context, session *entity.ChatSession)
	NotifySessionCompleted(ctx context.Context, session *entity.ChatSession)
	NotifySessionCancelled(ctx context.Context, session *entity.ChatSession, reason string)
	NotifySessionReminder(ctx context.Context, session *entity.ChatSession, recipientId uuid.UUID, minutesUntil int) error
	HasSessionReminder(ctx context.Context, sessionId, recipientId uuid.UUID) (bool, error)

	GetNotifications(ctx context.Context, userId uuid.UUID, limit, offset int) ([]*entity.Notification, int64, error)
	GetUnreadCount(ctx context.Context, userId uuid.UUID) (int64, error)
	MarkAsRead(ctx context.Context, id, userId uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userId uuid.UUID) error
}

type notificationService struct {
	uowFactory unitofwork.RepositoryFactory
	delivery   NotificationDelivery
	publisher  *pktNats.Publisher
	mailer     mailer.IEmailService
	logger     logger.ILogger
}

func NewNotificationService(
	uowFactory unitofwork.RepositoryFactory,
	delivery NotificationDelivery,
	publisher *pktNats.Publisher,
	emailService mailer.IEmailService,
	log logger.ILogger,
) INotificationService {
	return &notificationService{
		uowFactory: uowFactory,
		delivery:   delivery,
		publisher:  publisher,
		mailer:     emailService,
		logger:     log,
	}
}

func (s *notificationService) NotifySessionBooked(ctx context.Context, session *entity.ChatSession) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	counselorName := "your counselor"
	if counselor, err := uow.CounselorRepository().FindById(ctx, session.CounselorId); err == nil && counselor != nil {
		counselorName = counselor.Name
	}

	date := session.ScheduledDate.Format("2006-01-02")

	s.persistAndDeliver(ctx, &entity.Notification{
		UserId:  session.UserId,
		Type:    entity.NotificationSessionBooked,
		Title:   "Session Booked",
		Message: fmt.Sprintf("Your session with %s on %s at %s is confirmed.", counselorName, date, session.ScheduledStartTime),
		Metadata: map[string]interface{}{
			"session_id": session.Id.String(),
		},
	})
	s.persistAndDeliver(ctx, &entity.Notification{
		UserId:  session.CounselorId,
		Type:    entity.NotificationSessionBooked,
		Title:   "New Session Booked",
		Message: fmt.Sprintf("A new session was booked for %s at %s.", date, session.ScheduledStartTime),
		Metadata: map[string]interface{}{
			"session_id": session.Id.String(),
		},
	})

	s.publish(ctx, events.NewSessionEvent(events.TypeSessionBooked, session.Id.String(), map[string]interface{}{
		"user_id":      session.UserId.String(),
		"counselor_id": session.CounselorId.String(),
	}))

	// Booking confirmation email, best effort.
	if user, err := uow.UserRepository().FindById(ctx, session.UserId); err == nil && user != nil && user.Email != "" {
		if err := s.mailer.SendBookingConfirmation(user.Email, counselorName, date, session.ScheduledStartTime); err != nil {
			s.logger.Warn("NotificationService", "Booking confirmation email failed", map[string]interface{}{
				"session_id": session.Id,
				"error":      err.Error(),
			})
		}
	}
}

func (s *notificationService) NotifySessionStarted(ctx context.Context, session *entity.ChatSession) {
	s.persistAndDeliver(ctx, &entity.Notification{
		UserId:  session.UserId,
		Type:    entity.NotificationSessionStarted,
		Title:   "Session Started",
		Message: "Your counselor has started the session. You can join the chat now.",
		Metadata: map[string]interface{}{
			"session_id": session.Id.String(),
		},
	})

	s.publish(ctx, events.NewSessionEvent(events.TypeSessionStarted, session.Id.String(), nil))
}

func (s *notificationService) NotifySessionCompleted(ctx context.Context, session *entity.ChatSession) {
	s.persistAndDeliver(ctx, &entity.Notification{
		UserId:  session.UserId,
		Type:    entity.NotificationSessionCompleted,
		Title:   "Session Completed",
		Message: "Your session has ended. You can leave feedback for your counselor.",
		Metadata: map[string]interface{}{
			"session_id": session.Id.String(),
		},
	})

	s.publish(ctx, events.NewSessionEvent(events.TypeSessionCompleted, session.Id.String(), nil))
}

func (s *notificationService) NotifySessionCancelled(ctx context.Context, session *entity.ChatSession, reason string) {
	message := "Your session has been cancelled."
	if reason != "" {
		message = fmt.Sprintf("Your session has been cancelled: %s", reason)
	}

	for _, recipient := range []uuid.UUID{session.UserId, session.CounselorId} {
		s.persistAndDeliver(ctx, &entity.Notification{
			UserId:  recipient,
			Type:    entity.NotificationSessionCancelled,
			Title:   "Session Cancelled",
			Message: message,
			Metadata: map[string]interface{}{
				"session_id": session.Id.String(),
			},
		})
	}

	s.publish(ctx, events.NewSessionEvent(events.TypeSessionCancelled, session.Id.String(), map[string]interface{}{
		"reason": reason,
	}))
}

func (s *notificationService) NotifySessionReminder(ctx context.Context, session *entity.ChatSession, recipientId uuid.UUID, minutesUntil int) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	notification := &entity.Notification{
		Id:      uuid.New(),
		UserId:  recipientId,
		Type:    entity.NotificationSessionReminder,
		Title:   "Session Starting Soon",
		Message: fmt.Sprintf("Your session starts in about %d minutes (at %s).", minutesUntil, session.ScheduledStartTime),
		Metadata: map[string]interface{}{
			"session_id": session.Id.String(),
		},
		CreatedAt: time.Now(),
	}

	// The persisted row doubles as the at-most-once marker, so this one is
	// not best effort: a failed insert means the reminder did not happen.
	if err := uow.NotificationRepository().Create(ctx, notification); err != nil {
		return err
	}

	if s.delivery != nil {
		s.delivery.Send(recipientId, notification)
	}

	s.publish(ctx, events.NewSessionEvent(events.TypeSessionReminder, session.Id.String(), map[string]interface{}{
		"recipient_id": recipientId.String(),
	}))

	if recipientId == session.UserId {
		counselorName := "your counselor"
		if counselor, err := uow.CounselorRepository().FindById(ctx, session.CounselorId); err == nil && counselor != nil {
			counselorName = counselor.Name
		}
		if user, err := uow.UserRepository().FindById(ctx, recipientId); err == nil && user != nil && user.Email != "" {
			if err := s.mailer.SendSessionReminder(user.Email, counselorName, session.ScheduledStartTime, minutesUntil); err != nil {
				s.logger.Warn("NotificationService", "Reminder email failed", map[string]interface{}{
					"session_id": session.Id,
					"error":      err.Error(),
				})
			}
		}
	}

	return nil
}

func (s *notificationService) HasSessionReminder(ctx context.Context, sessionId, recipientId uuid.UUID) (bool, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.NotificationRepository().HasSessionReminder(ctx, sessionId, recipientId)
}

func (s *notificationService) GetNotifications(ctx context.Context, userId uuid.UUID, limit, offset int) ([]*entity.Notification, int64, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.NotificationRepository().FindByUser(ctx, userId, limit, offset)
}

func (s *notificationService) GetUnreadCount(ctx context.Context, userId uuid.UUID) (int64, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.NotificationRepository().UnreadCount(ctx, userId)
}

func (s *notificationService) MarkAsRead(ctx context.Context, id, userId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.NotificationRepository().MarkAsRead(ctx, id, userId)
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, userId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.NotificationRepository().MarkAllAsRead(ctx, userId)
}

// persistAndDeliver saves an inbox row and pushes it over the hub. Both are
// best effort; lifecycle transitions never fail on notification trouble.
func (s *notificationService) persistAndDeliver(ctx context.Context, notification *entity.Notification) {
	if notification.Id == uuid.Nil {
		notification.Id = uuid.New()
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now()
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.NotificationRepository().Create(ctx, notification); err != nil {
		s.logger.Error("NotificationService", "Failed to persist notification", map[string]interface{}{
			"user_id": notification.UserId,
			"type":    notification.Type,
			"error":   err.Error(),
		})
		return
	}

	if s.delivery != nil {
		s.delivery.Send(notification.UserId, notification)
	}
}

func (s *notificationService) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("NotificationService", "Event publish failed", map[string]interface{}{
			"type":  event.EventType(),
			"error": err.Error(),
		})
	}
}
