package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"counseling-chat-be/internal/config"
	"counseling-chat-be/internal/entity"
)

func testSchedulerConfig() config.SchedulerConfig {
	return config.SchedulerConfig{
		SlotGenerationSpec:  "0 0 * * *",
		ReminderScanSpec:    "* * * * *",
		OverdueSweepSpec:    "*/5 * * * *",
		ReminderLeadMinutes: 10,
		ReminderBandSeconds: 30,
		PendingGraceMinutes: 15,
		ActiveGraceMinutes:  30,
	}
}

type schedulerFixture struct {
	*chatFixture
	scheduler *SchedulerService
}

func newSchedulerFixture(t *testing.T, now time.Time) *schedulerFixture {
	t.Helper()

	cf := newChatFixture(t, now)
	counselorSvc := NewCounselorService(&fakeFactory{store: cf.store}, noopLogger{}).(*counselorService)
	counselorSvc.now = func() time.Time { return now }

	scheduler := NewSchedulerService(
		&fakeFactory{store: cf.store},
		cf.svc,
		counselorSvc,
		cf.notif,
		testSchedulerConfig(),
		noopLogger{},
	)
	scheduler.now = func() time.Time { return now }

	return &schedulerFixture{chatFixture: cf, scheduler: scheduler}
}

func TestCheckSessionReminders(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	today := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	userId := uuid.New()

	t.Run("reminds both participants inside the window", func(t *testing.T) {
		f := newSchedulerFixture(t, now)
		counselor := f.seedCounselor(true)
		session := f.seedSession(userId, counselor.Id, entity.SessionStatusPending, today, "09:10", "10:00")

		f.scheduler.CheckSessionReminders(ctx)

		assert.Equal(t, 1, f.notif.reminders[reminderKey(session.Id, userId)])
		assert.Equal(t, 1, f.notif.reminders[reminderKey(session.Id, counselor.Id)])
	})

	t.Run("never reminds twice", func(t *testing.T) {
		f := newSchedulerFixture(t, now)
		counselor := f.seedCounselor(true)
		session := f.seedSession(userId, counselor.Id, entity.SessionStatusPending, today, "09:10", "10:00")

		f.scheduler.CheckSessionReminders(ctx)
		f.scheduler.CheckSessionReminders(ctx)

		assert.Equal(t, 1, f.notif.reminders[reminderKey(session.Id, userId)])
		assert.Equal(t, 1, f.notif.reminders[reminderKey(session.Id, counselor.Id)])
	})

	t.Run("skips sessions outside the window", func(t *testing.T) {
		f := newSchedulerFixture(t, now)
		counselor := f.seedCounselor(true)
		far := f.seedSession(userId, counselor.Id, entity.SessionStatusPending, today, "09:30", "10:00")
		past := f.seedSession(userId, counselor.Id, entity.SessionStatusPending, today, "08:50", "09:40")

		f.scheduler.CheckSessionReminders(ctx)

		assert.Empty(t, f.notif.reminders[reminderKey(far.Id, userId)])
		assert.Empty(t, f.notif.reminders[reminderKey(past.Id, userId)])
	})

	t.Run("skips non pending sessions", func(t *testing.T) {
		f := newSchedulerFixture(t, now)
		counselor := f.seedCounselor(true)
		active := f.seedSession(userId, counselor.Id, entity.SessionStatusActive, today, "09:10", "10:00")

		f.scheduler.CheckSessionReminders(ctx)

		assert.Empty(t, f.notif.reminders[reminderKey(active.Id, userId)])
	})

	t.Run("catches sessions shortly after midnight", func(t *testing.T) {
		lateNow := time.Date(2026, 3, 2, 23, 55, 0, 0, time.UTC)
		tomorrow := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)

		f := newSchedulerFixture(t, lateNow)
		counselor := f.seedCounselor(true)
		session := f.seedSession(userId, counselor.Id, entity.SessionStatusPending, tomorrow, "00:05", "01:00")

		f.scheduler.CheckSessionReminders(ctx)

		assert.Equal(t, 1, f.notif.reminders[reminderKey(session.Id, userId)])
	})
}

func TestSweepOverdueSessions(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 2, 8, 16, 0, 0, time.UTC)
	today := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	userId := uuid.New()

	t.Run("auto cancels a stale pending session", func(t *testing.T) {
		f := newSchedulerFixture(t, now)
		counselor := f.seedCounselor(true)
		slot := f.seedSlot(counselor.Id, today, "08:00", "09:00")
		slot.IsBooked = true
		session := f.seedSession(userId, counselor.Id, entity.SessionStatusPending, today, "08:00", "09:00")
		session.TimeSlotId = &slot.Id

		f.scheduler.SweepOverdueSessions(ctx)

		assert.Equal(t, entity.SessionStatusCancelled, session.Status)
		assert.Contains(t, session.CounselorNotes, "Auto-cancelled")
		assert.False(t, slot.IsBooked)
		assert.Equal(t, []uuid.UUID{session.Id}, f.notif.cancelled)
	})

	t.Run("leaves a pending session inside the grace period", func(t *testing.T) {
		f := newSchedulerFixture(t, now)
		counselor := f.seedCounselor(true)
		session := f.seedSession(userId, counselor.Id, entity.SessionStatusPending, today, "08:05", "09:00")

		f.scheduler.SweepOverdueSessions(ctx)

		assert.Equal(t, entity.SessionStatusPending, session.Status)
	})

	t.Run("auto completes a stale active session with the scheduled end", func(t *testing.T) {
		f := newSchedulerFixture(t, now)
		counselor := f.seedCounselor(true)
		session := f.seedSession(userId, counselor.Id, entity.SessionStatusActive, today, "07:00", "07:30")
		start := time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC)
		session.ActualStartTime = &start

		f.scheduler.SweepOverdueSessions(ctx)

		assert.Equal(t, entity.SessionStatusCompleted, session.Status)
		require.NotNil(t, session.ActualEndTime)
		assert.Equal(t, time.Date(2026, 3, 2, 7, 30, 0, 0, time.UTC), *session.ActualEndTime)
		require.NotNil(t, session.Duration)
		assert.Equal(t, 30, *session.Duration)
		assert.Contains(t, session.CounselorNotes, "Auto-completed")
		assert.Equal(t, 1, f.store.counselors[counselor.Id].Profile.TotalSessions)
	})

	t.Run("leaves an active session inside the grace period", func(t *testing.T) {
		f := newSchedulerFixture(t, now)
		counselor := f.seedCounselor(true)
		session := f.seedSession(userId, counselor.Id, entity.SessionStatusActive, today, "07:00", "08:00")

		f.scheduler.SweepOverdueSessions(ctx)

		assert.Equal(t, entity.SessionStatusActive, session.Status)
	})
}

func TestGenerateDailyTimeSlots(t *testing.T) {
	ctx := context.Background()
	// A Sunday; slot generation targets Monday.
	now := time.Date(2026, 3, 1, 0, 5, 0, 0, time.UTC)
	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	f := newSchedulerFixture(t, now)
	counselor := f.seedCounselor(true)

	f.store.schedules = append(f.store.schedules, &entity.CounselorSchedule{
		Id:                     uuid.New(),
		CounselorId:            counselor.Id,
		DaysOfWeek:             "0,2,4", // Monday, Wednesday, Friday
		StartTime:              "09:00",
		EndTime:                "12:00",
		SessionDurationMinutes: 50,
		BreakDurationMinutes:   10,
		EffectiveFrom:          time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		IsActive:               true,
	})
	f.store.schedules = append(f.store.schedules, &entity.CounselorSchedule{
		Id:                     uuid.New(),
		CounselorId:            counselor.Id,
		DaysOfWeek:             "5,6", // weekend rule, does not cover Monday
		StartTime:              "09:00",
		EndTime:                "12:00",
		SessionDurationMinutes: 50,
		BreakDurationMinutes:   10,
		EffectiveFrom:          time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		IsActive:               true,
	})

	f.scheduler.GenerateDailyTimeSlots(ctx)

	starts := make(map[string]bool)
	for _, slot := range f.store.slots {
		assert.True(t, entity.DateOnly(slot.Date).Equal(monday))
		assert.True(t, slot.IsAvailable)
		assert.NotNil(t, slot.GeneratedFromScheduleId)
		starts[slot.StartTime] = true
	}
	assert.Equal(t, map[string]bool{"09:00": true, "10:00": true, "11:00": true}, starts)

	// A second run is idempotent: every start is already taken.
	f.scheduler.GenerateDailyTimeSlots(ctx)
	assert.Len(t, f.store.slots, 3)
}
