package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"counseling-chat-be/internal/apperror"
	"counseling-chat-be/internal/config"
	"counseling-chat-be/internal/entity"
	"counseling-chat-be/internal/pkg/logger"
	"counseling-chat-be/internal/repository/specification"
	"counseling-chat-be/internal/repository/unitofwork"
)

// SchedulerService runs the three periodic jobs of the chat core: nightly
// slot generation, the per-minute reminder scan, and the overdue session
// sweep. All three are safe to re-run; the sweep and the reminder scan are
// also safe against concurrent human actions.
type SchedulerService struct {
	uowFactory   unitofwork.RepositoryFactory
	chat         IChatService
	counselor    ICounselorService
	notification INotificationService
	cfg          config.SchedulerConfig
	logger       logger.ILogger
	cron         *cron.Cron

	// Injectable clock for tests.
	now func() time.Time
}

func NewSchedulerService(
	uowFactory unitofwork.RepositoryFactory,
	chat IChatService,
	counselorService ICounselorService,
	notification INotificationService,
	cfg config.SchedulerConfig,
	log logger.ILogger,
) *SchedulerService {
	return &SchedulerService{
		uowFactory:   uowFactory,
		chat:         chat,
		counselor:    counselorService,
		notification: notification,
		cfg:          cfg,
		logger:       log,
		now:          time.Now,
	}
}

// Start registers the cron entries and begins ticking.
func (s *SchedulerService) Start() error {
	c := cron.New()

	jobs := []struct {
		spec string
		name string
		run  func(ctx context.Context)
	}{
		{s.cfg.SlotGenerationSpec, "slot generation", func(ctx context.Context) { s.GenerateDailyTimeSlots(ctx) }},
		{s.cfg.ReminderScanSpec, "reminder scan", func(ctx context.Context) { s.CheckSessionReminders(ctx) }},
		{s.cfg.OverdueSweepSpec, "overdue sweep", func(ctx context.Context) { s.SweepOverdueSessions(ctx) }},
	}

	for _, job := range jobs {
		job := job
		if _, err := c.AddFunc(job.spec, func() {
			job.run(context.Background())
		}); err != nil {
			return fmt.Errorf("scheduler: bad cron spec %q for %s: %w", job.spec, job.name, err)
		}
	}

	c.Start()
	s.cron = c
	s.logger.Info("Scheduler", "Background jobs started", map[string]interface{}{
		"slot_generation": s.cfg.SlotGenerationSpec,
		"reminder_scan":   s.cfg.ReminderScanSpec,
		"overdue_sweep":   s.cfg.OverdueSweepSpec,
	})
	return nil
}

// Stop halts the cron loop and waits for running jobs.
func (s *SchedulerService) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

// GenerateDailyTimeSlots materializes tomorrow's slots from every active
// schedule rule. Rules that don't cover tomorrow contribute nothing.
func (s *SchedulerService) GenerateDailyTimeSlots(ctx context.Context) {
	tomorrow := entity.DateOnly(s.now().AddDate(0, 0, 1))

	uow := s.uowFactory.NewUnitOfWork(ctx)
	schedules, err := uow.CounselorScheduleRepository().FindAll(ctx, specification.ScheduleActiveOn{Date: tomorrow})
	if err != nil {
		s.logger.Error("Scheduler", "Slot generation: failed to load schedules", map[string]interface{}{"error": err.Error()})
		return
	}

	total := 0
	for _, schedule := range schedules {
		created, err := s.counselor.GenerateSlotsFromSchedule(ctx, schedule, tomorrow)
		if err != nil {
			s.logger.Error("Scheduler", "Slot generation failed for schedule", map[string]interface{}{
				"schedule_id": schedule.Id,
				"error":       err.Error(),
			})
			continue
		}
		total += created
	}

	s.logger.Info("Scheduler", "Slot generation finished", map[string]interface{}{
		"date":      tomorrow.Format("2006-01-02"),
		"schedules": len(schedules),
		"created":   total,
	})
}

// CheckSessionReminders notifies both participants of pending sessions
// whose start falls inside the reminder window. The persisted reminder
// notification is the at-most-once marker, so re-runs and restarts never
// double-remind.
func (s *SchedulerService) CheckSessionReminders(ctx context.Context) {
	now := s.now()
	lead := time.Duration(s.cfg.ReminderLeadMinutes) * time.Minute
	band := time.Duration(s.cfg.ReminderBandSeconds) * time.Second

	uow := s.uowFactory.NewUnitOfWork(ctx)

	// The window never spans more than two calendar days.
	dates := []time.Time{entity.DateOnly(now), entity.DateOnly(now.AddDate(0, 0, 1))}
	seen := make(map[uuid.UUID]struct{})

	for _, date := range dates {
		sessions, err := uow.ChatSessionRepository().FindAll(ctx,
			specification.SessionByStatus{Status: entity.SessionStatusPending},
			specification.SessionByScheduledDate{Date: date},
		)
		if err != nil {
			s.logger.Error("Scheduler", "Reminder scan: failed to load sessions", map[string]interface{}{"error": err.Error()})
			return
		}

		for _, session := range sessions {
			if _, dup := seen[session.Id]; dup {
				continue
			}
			seen[session.Id] = struct{}{}

			until := session.ScheduledStartAt().Sub(now)
			if until < lead-band || until > lead+band {
				continue
			}

			for _, recipient := range []uuid.UUID{session.UserId, session.CounselorId} {
				sent, err := s.notification.HasSessionReminder(ctx, session.Id, recipient)
				if err != nil {
					s.logger.Error("Scheduler", "Reminder check failed", map[string]interface{}{
						"session_id": session.Id,
						"error":      err.Error(),
					})
					continue
				}
				if sent {
					continue
				}
				if err := s.notification.NotifySessionReminder(ctx, session, recipient, int(until.Round(time.Minute)/time.Minute)); err != nil {
					s.logger.Error("Scheduler", "Reminder send failed", map[string]interface{}{
						"session_id": session.Id,
						"error":      err.Error(),
					})
				}
			}
		}
	}
}

// SweepOverdueSessions cancels pending sessions that were never started and
// completes active sessions that were never closed, each after its grace
// period.
func (s *SchedulerService) SweepOverdueSessions(ctx context.Context) {
	now := s.now()
	pendingGrace := time.Duration(s.cfg.PendingGraceMinutes) * time.Minute
	activeGrace := time.Duration(s.cfg.ActiveGraceMinutes) * time.Minute

	uow := s.uowFactory.NewUnitOfWork(ctx)

	pending, err := uow.ChatSessionRepository().FindAll(ctx,
		specification.SessionByStatus{Status: entity.SessionStatusPending},
	)
	if err != nil {
		s.logger.Error("Scheduler", "Overdue sweep: failed to load pending sessions", map[string]interface{}{"error": err.Error()})
		return
	}
	for _, session := range pending {
		if now.Sub(session.ScheduledStartAt()) <= pendingGrace {
			continue
		}
		reason := fmt.Sprintf("Auto-cancelled: session was not started within %d minutes of its scheduled time", s.cfg.PendingGraceMinutes)
		if err := s.chat.AutoCancelOverdue(ctx, session.Id, reason); err != nil {
			// A human transition won the race; nothing to do.
			if errors.Is(err, apperror.ErrInvalidTransition) {
				continue
			}
			s.logger.Error("Scheduler", "Auto-cancel failed", map[string]interface{}{
				"session_id": session.Id,
				"error":      err.Error(),
			})
		}
	}

	active, err := uow.ChatSessionRepository().FindAll(ctx,
		specification.SessionByStatus{Status: entity.SessionStatusActive},
	)
	if err != nil {
		s.logger.Error("Scheduler", "Overdue sweep: failed to load active sessions", map[string]interface{}{"error": err.Error()})
		return
	}
	for _, session := range active {
		end := session.ScheduledEndAt()
		if now.Sub(end) <= activeGrace {
			continue
		}
		reason := fmt.Sprintf("Auto-completed: session exceeded its scheduled end time by %d+ minutes", s.cfg.ActiveGraceMinutes)
		if err := s.chat.AutoComplete(ctx, session.Id, end, reason); err != nil {
			if errors.Is(err, apperror.ErrInvalidTransition) {
				continue
			}
			s.logger.Error("Scheduler", "Auto-complete failed", map[string]interface{}{
				"session_id": session.Id,
				"error":      err.Error(),
			})
		}
	}
}
