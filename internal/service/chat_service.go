package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"counseling-chat-be/internal/apperror"
	"counseling-chat-be/internal/dto"
	"counseling-chat-be/internal/entity"
	"counseling-chat-be/internal/pkg/logger"
	"counseling-chat-be/internal/repository/specification"
	"counseling-chat-be/internal/repository/unitofwork"
)

// RoomNotifier pushes lifecycle transitions into the live chat room.
// Implemented by the websocket coordinator; nil-safe for tests.
type RoomNotifier interface {
	SessionStarted(sessionId uuid.UUID)
	SessionEnded(sessionId uuid.UUID, status, reason string)
}

type IChatService interface {
	BookSession(ctx context.Context, userId uuid.UUID, req *dto.BookSessionRequest) (*entity.ChatSession, error)
	GetUserSessions(ctx context.Context, userId uuid.UUID, status string) ([]*entity.ChatSession, error)
	GetCounselorSessions(ctx context.Context, counselorId uuid.UUID, status string) ([]*entity.ChatSession, error)
	GetSessionDetails(ctx context.Context, sessionId, requesterId uuid.UUID, kind string) (*entity.ChatSession, error)
	GetSessionMessages(ctx context.Context, sessionId, requesterId uuid.UUID, kind string) ([]*entity.Message, error)

	StartSession(ctx context.Context, sessionId, counselorId uuid.UUID) (*entity.ChatSession, error)
	CompleteSession(ctx context.Context, sessionId, counselorId uuid.UUID, notes string) (*entity.ChatSession, error)
	CancelSession(ctx context.Context, sessionId, requesterId uuid.UUID, kind, reason string) (*entity.ChatSession, error)
	SubmitFeedback(ctx context.Context, sessionId, userId uuid.UUID, rating int, feedback string) (*entity.ChatSession, error)

	// Scheduler entry points. They share the same transition guards as the
	// manual paths, so a human action racing the sweep loses cleanly.
	AutoCancelOverdue(ctx context.Context, sessionId uuid.UUID, reason string) error
	AutoComplete(ctx context.Context, sessionId uuid.UUID, syntheticEnd time.Time, reason string) error

	// Realtime backend, used by the websocket coordinator.
	SessionForParticipant(ctx context.Context, sessionId, participantId uuid.UUID, kind string) (*entity.ChatSession, error)
	RecordMessage(ctx context.Context, sessionId, senderId uuid.UUID, senderType, content string) (*entity.Message, error)

	SetRoomNotifier(notifier RoomNotifier)
}

type chatService struct {
	uowFactory   unitofwork.RepositoryFactory
	notification INotificationService
	notifier     RoomNotifier
	logger       logger.ILogger
	now          func() time.Time
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	notification INotificationService,
	log logger.ILogger,
) IChatService {
	return &chatService{
		uowFactory:   uowFactory,
		notification: notification,
		logger:       log,
		now:          time.Now,
	}
}

// SetRoomNotifier wires the websocket coordinator in after construction;
// the coordinator itself depends on this service.
func (s *chatService) SetRoomNotifier(notifier RoomNotifier) {
	s.notifier = notifier
}

func (s *chatService) BookSession(ctx context.Context, userId uuid.UUID, req *dto.BookSessionRequest) (*entity.ChatSession, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, apperror.Validation("date must be formatted as YYYY-MM-DD")
	}
	start, err := entity.ParseTimeOfDay(req.StartTime)
	if err != nil {
		return nil, apperror.Validation("start_time must be formatted as HH:MM")
	}
	end, err := entity.ParseTimeOfDay(req.EndTime)
	if err != nil {
		return nil, apperror.Validation("end_time must be formatted as HH:MM")
	}
	if !end.After(start) {
		return nil, apperror.Validation("end_time must be after start_time")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	counselor, err := uow.CounselorRepository().FindById(ctx, req.CounselorId)
	if err != nil {
		return nil, err
	}
	if counselor == nil || !counselor.IsActive {
		return nil, apperror.NotFound("counselor %s", req.CounselorId)
	}
	if counselor.Profile == nil || !counselor.Profile.IsAvailable {
		return nil, apperror.Conflict("counselor is not accepting sessions")
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	// The slot is optional; bookings outside the published slot grid carry
	// the requested schedule directly.
	var slotId *uuid.UUID
	if req.TimeSlotId != nil {
		slot, err := uow.TimeSlotRepository().FindOne(ctx,
			specification.ByID{ID: *req.TimeSlotId},
			specification.ForUpdate{},
		)
		if err != nil {
			uow.Rollback()
			return nil, err
		}
		if slot == nil || slot.CounselorId != req.CounselorId {
			uow.Rollback()
			return nil, apperror.NotFound("time slot %s for counselor %s", *req.TimeSlotId, req.CounselorId)
		}
		if !slot.IsAvailable || slot.IsBooked {
			uow.Rollback()
			return nil, apperror.Conflict("time slot is no longer available")
		}
		if slot.Date.Format("2006-01-02") != req.Date || slot.StartTime != req.StartTime || slot.EndTime != req.EndTime {
			uow.Rollback()
			return nil, apperror.Conflict("time slot does not match the requested schedule")
		}

		slot.IsBooked = true
		if err := uow.TimeSlotRepository().Update(ctx, slot); err != nil {
			uow.Rollback()
			return nil, err
		}
		slotId = &slot.Id
	}

	session := &entity.ChatSession{
		Id:                 uuid.New(),
		UserId:             userId,
		CounselorId:        req.CounselorId,
		TimeSlotId:         slotId,
		Status:             entity.SessionStatusPending,
		ScheduledDate:      entity.DateOnly(date),
		ScheduledStartTime: req.StartTime,
		ScheduledEndTime:   req.EndTime,
		Category:           req.Category,
		Description:        req.Description,
		CreatedAt:          s.now(),
	}
	if err := uow.ChatSessionRepository().Create(ctx, session); err != nil {
		uow.Rollback()
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("ChatService", "Session booked", map[string]interface{}{
		"session_id":   session.Id,
		"user_id":      userId,
		"counselor_id": req.CounselorId,
	})

	s.notification.NotifySessionBooked(ctx, session)

	return session, nil
}

func (s *chatService) GetUserSessions(ctx context.Context, userId uuid.UUID, status string) ([]*entity.ChatSession, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	specs := []specification.Specification{
		specification.SessionByUser{UserID: userId},
		specification.SessionOrderByScheduleDesc{},
	}
	if status != "" {
		specs = append(specs, specification.SessionByStatus{Status: status})
	}
	return uow.ChatSessionRepository().FindAll(ctx, specs...)
}

func (s *chatService) GetCounselorSessions(ctx context.Context, counselorId uuid.UUID, status string) ([]*entity.ChatSession, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	specs := []specification.Specification{
		specification.SessionByCounselor{CounselorID: counselorId},
		specification.SessionOrderByScheduleDesc{},
	}
	if status != "" {
		specs = append(specs, specification.SessionByStatus{Status: status})
	}
	return uow.ChatSessionRepository().FindAll(ctx, specs...)
}

func (s *chatService) GetSessionDetails(ctx context.Context, sessionId, requesterId uuid.UUID, kind string) (*entity.ChatSession, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return s.sessionForParticipant(ctx, uow, sessionId, requesterId, kind)
}

func (s *chatService) GetSessionMessages(ctx context.Context, sessionId, requesterId uuid.UUID, kind string) ([]*entity.Message, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if _, err := s.sessionForParticipant(ctx, uow, sessionId, requesterId, kind); err != nil {
		return nil, err
	}

	return uow.MessageRepository().FindAll(ctx,
		specification.MessageBySession{SessionID: sessionId},
		specification.MessageOrderByCreation{},
	)
}

func (s *chatService) StartSession(ctx context.Context, sessionId, counselorId uuid.UUID) (*entity.ChatSession, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		uow.Rollback()
		return nil, err
	}
	if session == nil {
		uow.Rollback()
		return nil, apperror.NotFound("session %s", sessionId)
	}
	if session.CounselorId != counselorId {
		uow.Rollback()
		return nil, apperror.Forbidden("only the assigned counselor can start the session")
	}
	if session.Status != entity.SessionStatusPending {
		uow.Rollback()
		return nil, apperror.InvalidTransition("cannot start a %s session", session.Status)
	}

	now := s.now()
	session.Status = entity.SessionStatusActive
	session.ActualStartTime = &now
	if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
		uow.Rollback()
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("ChatService", "Session started", map[string]interface{}{"session_id": sessionId})

	s.notification.NotifySessionStarted(ctx, session)
	if s.notifier != nil {
		s.notifier.SessionStarted(sessionId)
	}

	return session, nil
}

func (s *chatService) CompleteSession(ctx context.Context, sessionId, counselorId uuid.UUID, notes string) (*entity.ChatSession, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		uow.Rollback()
		return nil, err
	}
	if session == nil {
		uow.Rollback()
		return nil, apperror.NotFound("session %s", sessionId)
	}
	if session.CounselorId != counselorId {
		uow.Rollback()
		return nil, apperror.Forbidden("only the assigned counselor can complete the session")
	}

	if err := s.completeLocked(ctx, uow, session, s.now(), notes); err != nil {
		uow.Rollback()
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("ChatService", "Session completed", map[string]interface{}{
		"session_id": sessionId,
		"duration":   *session.Duration,
	})

	s.notification.NotifySessionCompleted(ctx, session)
	if s.notifier != nil {
		s.notifier.SessionEnded(sessionId, entity.SessionStatusCompleted, "")
	}

	return session, nil
}

func (s *chatService) CancelSession(ctx context.Context, sessionId, requesterId uuid.UUID, kind, reason string) (*entity.ChatSession, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		uow.Rollback()
		return nil, err
	}
	if session == nil {
		uow.Rollback()
		return nil, apperror.NotFound("session %s", sessionId)
	}
	if !session.IsParticipant(requesterId, kind) {
		uow.Rollback()
		return nil, apperror.Forbidden("not a participant of this session")
	}

	if err := s.cancelLocked(ctx, uow, session, reason); err != nil {
		uow.Rollback()
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("ChatService", "Session cancelled", map[string]interface{}{
		"session_id": sessionId,
		"by":         kind,
	})

	s.notification.NotifySessionCancelled(ctx, session, reason)
	if s.notifier != nil {
		s.notifier.SessionEnded(sessionId, entity.SessionStatusCancelled, reason)
	}

	return session, nil
}

func (s *chatService) SubmitFeedback(ctx context.Context, sessionId, userId uuid.UUID, rating int, feedback string) (*entity.ChatSession, error) {
	if rating < 1 || rating > 5 {
		return nil, apperror.Validation("rating must be between 1 and 5")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperror.NotFound("session %s", sessionId)
	}
	if session.UserId != userId {
		return nil, apperror.Forbidden("only the session's user can leave feedback")
	}
	if session.Status != entity.SessionStatusCompleted {
		return nil, apperror.InvalidTransition("feedback requires a completed session")
	}
	if session.Rating != nil {
		return nil, apperror.Conflict("feedback already submitted")
	}

	session.Rating = &rating
	session.UserFeedback = feedback
	if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

func (s *chatService) AutoCancelOverdue(ctx context.Context, sessionId uuid.UUID, reason string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if err := uow.Begin(ctx); err != nil {
		return err
	}

	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		uow.Rollback()
		return err
	}
	if session == nil {
		uow.Rollback()
		return apperror.NotFound("session %s", sessionId)
	}

	if err := s.cancelLocked(ctx, uow, session, reason); err != nil {
		uow.Rollback()
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	s.logger.Info("ChatService", "Session auto-cancelled", map[string]interface{}{"session_id": sessionId})

	s.notification.NotifySessionCancelled(ctx, session, reason)
	if s.notifier != nil {
		s.notifier.SessionEnded(sessionId, entity.SessionStatusCancelled, reason)
	}
	return nil
}

func (s *chatService) AutoComplete(ctx context.Context, sessionId uuid.UUID, syntheticEnd time.Time, reason string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if err := uow.Begin(ctx); err != nil {
		return err
	}

	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		uow.Rollback()
		return err
	}
	if session == nil {
		uow.Rollback()
		return apperror.NotFound("session %s", sessionId)
	}

	if err := s.completeLocked(ctx, uow, session, syntheticEnd, reason); err != nil {
		uow.Rollback()
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	s.logger.Info("ChatService", "Session auto-completed", map[string]interface{}{"session_id": sessionId})

	s.notification.NotifySessionCompleted(ctx, session)
	if s.notifier != nil {
		s.notifier.SessionEnded(sessionId, entity.SessionStatusCompleted, "")
	}
	return nil
}

func (s *chatService) SessionForParticipant(ctx context.Context, sessionId, participantId uuid.UUID, kind string) (*entity.ChatSession, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return s.sessionForParticipant(ctx, uow, sessionId, participantId, kind)
}

func (s *chatService) RecordMessage(ctx context.Context, sessionId, senderId uuid.UUID, senderType, content string) (*entity.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperror.Validation("message content is empty")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := s.sessionForParticipant(ctx, uow, sessionId, senderId, senderType)
	if err != nil {
		return nil, err
	}
	if session.IsTerminal() {
		return nil, apperror.InvalidTransition("session has ended")
	}

	message := &entity.Message{
		Id:         uuid.New(),
		SessionId:  sessionId,
		SenderId:   senderId,
		SenderType: senderType,
		Content:    content,
		CreatedAt:  s.now(),
	}
	if err := uow.MessageRepository().Create(ctx, message); err != nil {
		return nil, err
	}

	return message, nil
}

// completeLocked applies the active -> completed transition inside the
// caller's transaction: end timestamp, whole-minute duration, optional
// notes, and the counselor's cumulative session count.
func (s *chatService) completeLocked(ctx context.Context, uow unitofwork.UnitOfWork, session *entity.ChatSession, end time.Time, notes string) error {
	if session.Status != entity.SessionStatusActive {
		return apperror.InvalidTransition("cannot complete a %s session", session.Status)
	}

	start := session.ScheduledStartAt()
	if session.ActualStartTime != nil {
		start = *session.ActualStartTime
	}
	if end.Before(start) {
		end = start
	}
	duration := int(end.Sub(start) / time.Minute)

	session.Status = entity.SessionStatusCompleted
	session.ActualEndTime = &end
	session.Duration = &duration
	session.AppendNote(notes)

	if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
		return err
	}

	return uow.CounselorRepository().IncrementTotalSessions(ctx, session.CounselorId)
}

// cancelLocked applies the pending -> cancelled transition inside the
// caller's transaction and releases the booked slot.
func (s *chatService) cancelLocked(ctx context.Context, uow unitofwork.UnitOfWork, session *entity.ChatSession, reason string) error {
	if session.Status != entity.SessionStatusPending {
		return apperror.InvalidTransition("cannot cancel a %s session", session.Status)
	}

	session.Status = entity.SessionStatusCancelled
	if reason != "" {
		session.AppendNote(fmt.Sprintf("Cancellation reason: %s", reason))
	}
	if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
		return err
	}

	if session.TimeSlotId != nil {
		slot, err := uow.TimeSlotRepository().FindOne(ctx, specification.ByID{ID: *session.TimeSlotId})
		if err != nil {
			return err
		}
		if slot != nil && slot.IsBooked {
			slot.IsBooked = false
			if err := uow.TimeSlotRepository().Update(ctx, slot); err != nil {
				return err
			}
		}
	}

	return nil
}

func (s *chatService) sessionForParticipant(ctx context.Context, uow unitofwork.UnitOfWork, sessionId, participantId uuid.UUID, kind string) (*entity.ChatSession, error) {
	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperror.NotFound("session %s", sessionId)
	}
	if !session.IsParticipant(participantId, kind) {
		return nil, apperror.Forbidden("not a participant of this session")
	}
	return session, nil
}
