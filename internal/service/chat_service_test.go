package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"counseling-chat-be/internal/apperror"
	"counseling-chat-be/internal/dto"
	"counseling-chat-be/internal/entity"
)

type chatFixture struct {
	svc      *chatService
	store    *fakeStore
	notif    *recordingNotifications
	notifier *recordingRoomNotifier
}

func newChatFixture(t *testing.T, now time.Time) *chatFixture {
	t.Helper()

	store := newFakeStore()
	notif := newRecordingNotifications()
	svc := NewChatService(&fakeFactory{store: store}, notif, noopLogger{}).(*chatService)
	svc.now = func() time.Time { return now }

	notifier := &recordingRoomNotifier{}
	svc.SetRoomNotifier(notifier)

	return &chatFixture{svc: svc, store: store, notif: notif, notifier: notifier}
}

func (f *chatFixture) seedCounselor(available bool) *entity.Counselor {
	c := &entity.Counselor{
		Id:       uuid.New(),
		Name:     "Dr. Sari",
		Role:     entity.StaffRoleCounselor,
		IsActive: true,
		Profile:  &entity.CounselorProfile{IsAvailable: available},
	}
	f.store.counselors[c.Id] = c
	return c
}

func (f *chatFixture) seedSlot(counselorId uuid.UUID, date time.Time, start, end string) *entity.TimeSlot {
	slot := &entity.TimeSlot{
		Id:          uuid.New(),
		CounselorId: counselorId,
		Date:        date,
		StartTime:   start,
		EndTime:     end,
		IsAvailable: true,
	}
	f.store.slots[slot.Id] = slot
	return slot
}

func (f *chatFixture) seedSession(userId, counselorId uuid.UUID, status string, date time.Time, start, end string) *entity.ChatSession {
	session := &entity.ChatSession{
		Id:                 uuid.New(),
		UserId:             userId,
		CounselorId:        counselorId,
		Status:             status,
		ScheduledDate:      date,
		ScheduledStartTime: start,
		ScheduledEndTime:   end,
	}
	f.store.sessions[session.Id] = session
	return session
}

func TestBookSession(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	userId := uuid.New()

	schedule := func(counselorId uuid.UUID) *dto.BookSessionRequest {
		return &dto.BookSessionRequest{
			CounselorId: counselorId,
			Date:        "2026-03-02",
			StartTime:   "10:00",
			EndTime:     "11:00",
		}
	}

	t.Run("books an available slot", func(t *testing.T) {
		f := newChatFixture(t, now)
		counselor := f.seedCounselor(true)
		slot := f.seedSlot(counselor.Id, date, "10:00", "11:00")

		req := schedule(counselor.Id)
		req.TimeSlotId = &slot.Id
		req.Category = "anxiety"

		session, err := f.svc.BookSession(ctx, userId, req)
		require.NoError(t, err)

		assert.Equal(t, entity.SessionStatusPending, session.Status)
		assert.Equal(t, userId, session.UserId)
		assert.Equal(t, counselor.Id, session.CounselorId)
		assert.Equal(t, "10:00", session.ScheduledStartTime)
		assert.Equal(t, "11:00", session.ScheduledEndTime)
		require.NotNil(t, session.TimeSlotId)
		assert.Equal(t, slot.Id, *session.TimeSlotId)

		assert.True(t, slot.IsBooked)
		assert.Equal(t, []uuid.UUID{session.Id}, f.notif.booked)
	})

	t.Run("books without a slot", func(t *testing.T) {
		f := newChatFixture(t, now)
		counselor := f.seedCounselor(true)

		session, err := f.svc.BookSession(ctx, userId, schedule(counselor.Id))
		require.NoError(t, err)

		assert.Nil(t, session.TimeSlotId)
		assert.Equal(t, "2026-03-02", session.ScheduledDate.Format("2006-01-02"))
		assert.Equal(t, "10:00", session.ScheduledStartTime)
		assert.Equal(t, "11:00", session.ScheduledEndTime)
	})

	t.Run("rejects a slot that does not match the requested schedule", func(t *testing.T) {
		f := newChatFixture(t, now)
		counselor := f.seedCounselor(true)
		slot := f.seedSlot(counselor.Id, date, "14:00", "15:00")

		req := schedule(counselor.Id)
		req.TimeSlotId = &slot.Id

		_, err := f.svc.BookSession(ctx, userId, req)
		assert.ErrorIs(t, err, apperror.ErrConflict)
		assert.False(t, slot.IsBooked)
	})

	t.Run("rejects a malformed schedule", func(t *testing.T) {
		f := newChatFixture(t, now)
		counselor := f.seedCounselor(true)

		req := schedule(counselor.Id)
		req.Date = "03/02/2026"
		_, err := f.svc.BookSession(ctx, userId, req)
		assert.ErrorIs(t, err, apperror.ErrValidation)

		req = schedule(counselor.Id)
		req.EndTime = "09:00"
		_, err = f.svc.BookSession(ctx, userId, req)
		assert.ErrorIs(t, err, apperror.ErrValidation)
	})

	t.Run("rejects a booked slot", func(t *testing.T) {
		f := newChatFixture(t, now)
		counselor := f.seedCounselor(true)
		slot := f.seedSlot(counselor.Id, date, "10:00", "11:00")
		slot.IsBooked = true

		req := schedule(counselor.Id)
		req.TimeSlotId = &slot.Id

		_, err := f.svc.BookSession(ctx, userId, req)
		assert.ErrorIs(t, err, apperror.ErrConflict)
	})

	t.Run("rejects a slot of another counselor", func(t *testing.T) {
		f := newChatFixture(t, now)
		counselor := f.seedCounselor(true)
		other := f.seedCounselor(true)
		slot := f.seedSlot(other.Id, date, "10:00", "11:00")

		req := schedule(counselor.Id)
		req.TimeSlotId = &slot.Id

		_, err := f.svc.BookSession(ctx, userId, req)
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})

	t.Run("rejects an unavailable counselor", func(t *testing.T) {
		f := newChatFixture(t, now)
		counselor := f.seedCounselor(false)

		_, err := f.svc.BookSession(ctx, userId, schedule(counselor.Id))
		assert.ErrorIs(t, err, apperror.ErrConflict)
	})

	t.Run("rejects an unknown counselor", func(t *testing.T) {
		f := newChatFixture(t, now)

		_, err := f.svc.BookSession(ctx, userId, schedule(uuid.New()))
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})
}

func TestStartSession(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 2, 10, 1, 0, 0, time.UTC)
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	userId := uuid.New()

	t.Run("moves pending to active", func(t *testing.T) {
		f := newChatFixture(t, now)
		counselor := f.seedCounselor(true)
		session := f.seedSession(userId, counselor.Id, entity.SessionStatusPending, date, "10:00", "11:00")

		started, err := f.svc.StartSession(ctx, session.Id, counselor.Id)
		require.NoError(t, err)

		assert.Equal(t, entity.SessionStatusActive, started.Status)
		require.NotNil(t, started.ActualStartTime)
		assert.Equal(t, now, *started.ActualStartTime)
		assert.Equal(t, []uuid.UUID{session.Id}, f.notifier.started)
		assert.Equal(t, []uuid.UUID{session.Id}, f.notif.started)
	})

	t.Run("rejects a foreign counselor", func(t *testing.T) {
		f := newChatFixture(t, now)
		counselor := f.seedCounselor(true)
		session := f.seedSession(userId, counselor.Id, entity.SessionStatusPending, date, "10:00", "11:00")

		_, err := f.svc.StartSession(ctx, session.Id, uuid.New())
		assert.ErrorIs(t, err, apperror.ErrForbidden)
	})

	t.Run("rejects non pending states", func(t *testing.T) {
		f := newChatFixture(t, now)
		counselor := f.seedCounselor(true)

		for _, status := range []string{entity.SessionStatusActive, entity.SessionStatusCompleted, entity.SessionStatusCancelled} {
			session := f.seedSession(userId, counselor.Id, status, date, "10:00", "11:00")
			_, err := f.svc.StartSession(ctx, session.Id, counselor.Id)
			assert.ErrorIs(t, err, apperror.ErrInvalidTransition, "status %s", status)
		}
	})

	t.Run("unknown session", func(t *testing.T) {
		f := newChatFixture(t, now)
		_, err := f.svc.StartSession(ctx, uuid.New(), uuid.New())
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})
}

func TestCompleteSession(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	userId := uuid.New()

	t.Run("computes whole minute duration from actual start", func(t *testing.T) {
		start := time.Date(2026, 3, 2, 10, 2, 0, 0, time.UTC)
		end := start.Add(47*time.Minute + 30*time.Second)

		f := newChatFixture(t, end)
		counselor := f.seedCounselor(true)
		session := f.seedSession(userId, counselor.Id, entity.SessionStatusActive, date, "10:00", "11:00")
		session.ActualStartTime = &start

		completed, err := f.svc.CompleteSession(ctx, session.Id, counselor.Id, "made good progress")
		require.NoError(t, err)

		assert.Equal(t, entity.SessionStatusCompleted, completed.Status)
		require.NotNil(t, completed.Duration)
		assert.Equal(t, 47, *completed.Duration)
		require.NotNil(t, completed.ActualEndTime)
		assert.Equal(t, end, *completed.ActualEndTime)
		assert.Equal(t, "made good progress", completed.CounselorNotes)

		assert.Equal(t, 1, f.store.counselors[counselor.Id].Profile.TotalSessions)
		assert.Equal(t, []uuid.UUID{session.Id}, f.notif.completed)
		require.Len(t, f.notifier.ended, 1)
		assert.Equal(t, entity.SessionStatusCompleted, f.notifier.ended[0].Status)
	})

	t.Run("falls back to the scheduled start", func(t *testing.T) {
		end := time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC)

		f := newChatFixture(t, end)
		counselor := f.seedCounselor(true)
		session := f.seedSession(userId, counselor.Id, entity.SessionStatusActive, date, "10:00", "11:00")

		completed, err := f.svc.CompleteSession(ctx, session.Id, counselor.Id, "")
		require.NoError(t, err)
		require.NotNil(t, completed.Duration)
		assert.Equal(t, 30, *completed.Duration)
	})

	t.Run("clamps an end before the start", func(t *testing.T) {
		start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
		earlier := start.Add(-5 * time.Minute)

		f := newChatFixture(t, earlier)
		counselor := f.seedCounselor(true)
		session := f.seedSession(userId, counselor.Id, entity.SessionStatusActive, date, "10:00", "11:00")
		session.ActualStartTime = &start

		completed, err := f.svc.CompleteSession(ctx, session.Id, counselor.Id, "")
		require.NoError(t, err)
		require.NotNil(t, completed.Duration)
		assert.Equal(t, 0, *completed.Duration)
		assert.Equal(t, start, *completed.ActualEndTime)
	})

	t.Run("rejects a pending session", func(t *testing.T) {
		f := newChatFixture(t, time.Now())
		counselor := f.seedCounselor(true)
		session := f.seedSession(userId, counselor.Id, entity.SessionStatusPending, date, "10:00", "11:00")

		_, err := f.svc.CompleteSession(ctx, session.Id, counselor.Id, "")
		assert.ErrorIs(t, err, apperror.ErrInvalidTransition)
	})

	t.Run("rejects a foreign counselor", func(t *testing.T) {
		f := newChatFixture(t, time.Now())
		counselor := f.seedCounselor(true)
		session := f.seedSession(userId, counselor.Id, entity.SessionStatusActive, date, "10:00", "11:00")

		_, err := f.svc.CompleteSession(ctx, session.Id, uuid.New(), "")
		assert.ErrorIs(t, err, apperror.ErrForbidden)
	})
}

func TestCancelSession(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	userId := uuid.New()

	t.Run("cancels and releases the slot", func(t *testing.T) {
		f := newChatFixture(t, now)
		counselor := f.seedCounselor(true)
		slot := f.seedSlot(counselor.Id, date, "10:00", "11:00")
		slot.IsBooked = true
		session := f.seedSession(userId, counselor.Id, entity.SessionStatusPending, date, "10:00", "11:00")
		session.TimeSlotId = &slot.Id

		cancelled, err := f.svc.CancelSession(ctx, session.Id, userId, entity.ParticipantKindUser, "schedule conflict")
		require.NoError(t, err)

		assert.Equal(t, entity.SessionStatusCancelled, cancelled.Status)
		assert.Equal(t, "Cancellation reason: schedule conflict", cancelled.CounselorNotes)
		assert.False(t, slot.IsBooked)
		assert.Equal(t, []uuid.UUID{session.Id}, f.notif.cancelled)
		require.Len(t, f.notifier.ended, 1)
		assert.Equal(t, entity.SessionStatusCancelled, f.notifier.ended[0].Status)
		assert.Equal(t, "schedule conflict", f.notifier.ended[0].Reason)
	})

	t.Run("counselor may cancel too", func(t *testing.T) {
		f := newChatFixture(t, now)
		counselor := f.seedCounselor(true)
		session := f.seedSession(userId, counselor.Id, entity.SessionStatusPending, date, "10:00", "11:00")

		_, err := f.svc.CancelSession(ctx, session.Id, counselor.Id, entity.ParticipantKindCounselor, "emergency")
		assert.NoError(t, err)
	})

	t.Run("rejects an active session", func(t *testing.T) {
		f := newChatFixture(t, now)
		counselor := f.seedCounselor(true)
		session := f.seedSession(userId, counselor.Id, entity.SessionStatusActive, date, "10:00", "11:00")

		_, err := f.svc.CancelSession(ctx, session.Id, userId, entity.ParticipantKindUser, "too late")
		assert.ErrorIs(t, err, apperror.ErrInvalidTransition)
	})

	t.Run("rejects a non participant", func(t *testing.T) {
		f := newChatFixture(t, now)
		counselor := f.seedCounselor(true)
		session := f.seedSession(userId, counselor.Id, entity.SessionStatusPending, date, "10:00", "11:00")

		_, err := f.svc.CancelSession(ctx, session.Id, uuid.New(), entity.ParticipantKindUser, "nope")
		assert.ErrorIs(t, err, apperror.ErrForbidden)
	})
}

func TestSubmitFeedback(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	userId := uuid.New()

	t.Run("stores rating and feedback once", func(t *testing.T) {
		f := newChatFixture(t, now)
		counselor := f.seedCounselor(true)
		session := f.seedSession(userId, counselor.Id, entity.SessionStatusCompleted, date, "10:00", "11:00")

		rated, err := f.svc.SubmitFeedback(ctx, session.Id, userId, 5, "very helpful")
		require.NoError(t, err)
		require.NotNil(t, rated.Rating)
		assert.Equal(t, 5, *rated.Rating)
		assert.Equal(t, "very helpful", rated.UserFeedback)

		_, err = f.svc.SubmitFeedback(ctx, session.Id, userId, 4, "again")
		assert.ErrorIs(t, err, apperror.ErrConflict)
	})

	t.Run("rejects rating out of range", func(t *testing.T) {
		f := newChatFixture(t, now)

		_, err := f.svc.SubmitFeedback(ctx, uuid.New(), userId, 0, "")
		assert.ErrorIs(t, err, apperror.ErrValidation)

		_, err = f.svc.SubmitFeedback(ctx, uuid.New(), userId, 6, "")
		assert.ErrorIs(t, err, apperror.ErrValidation)
	})

	t.Run("requires a completed session", func(t *testing.T) {
		f := newChatFixture(t, now)
		counselor := f.seedCounselor(true)
		session := f.seedSession(userId, counselor.Id, entity.SessionStatusActive, date, "10:00", "11:00")

		_, err := f.svc.SubmitFeedback(ctx, session.Id, userId, 5, "")
		assert.ErrorIs(t, err, apperror.ErrInvalidTransition)
	})

	t.Run("only the session's user", func(t *testing.T) {
		f := newChatFixture(t, now)
		counselor := f.seedCounselor(true)
		session := f.seedSession(userId, counselor.Id, entity.SessionStatusCompleted, date, "10:00", "11:00")

		_, err := f.svc.SubmitFeedback(ctx, session.Id, uuid.New(), 5, "")
		assert.ErrorIs(t, err, apperror.ErrForbidden)
	})
}

func TestRecordMessage(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 2, 10, 15, 0, 0, time.UTC)
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	userId := uuid.New()

	t.Run("persists a trimmed message", func(t *testing.T) {
		f := newChatFixture(t, now)
		counselor := f.seedCounselor(true)
		session := f.seedSession(userId, counselor.Id, entity.SessionStatusActive, date, "10:00", "11:00")

		message, err := f.svc.RecordMessage(ctx, session.Id, userId, entity.ParticipantKindUser, "  hello there  ")
		require.NoError(t, err)
		assert.Equal(t, "hello there", message.Content)
		assert.Equal(t, session.Id, message.SessionId)
		assert.Len(t, f.store.messages, 1)
	})

	t.Run("rejects empty content", func(t *testing.T) {
		f := newChatFixture(t, now)
		_, err := f.svc.RecordMessage(ctx, uuid.New(), userId, entity.ParticipantKindUser, "   ")
		assert.ErrorIs(t, err, apperror.ErrValidation)
	})

	t.Run("rejects a terminal session", func(t *testing.T) {
		f := newChatFixture(t, now)
		counselor := f.seedCounselor(true)
		session := f.seedSession(userId, counselor.Id, entity.SessionStatusCompleted, date, "10:00", "11:00")

		_, err := f.svc.RecordMessage(ctx, session.Id, userId, entity.ParticipantKindUser, "late")
		assert.ErrorIs(t, err, apperror.ErrInvalidTransition)
	})

	t.Run("rejects a non participant", func(t *testing.T) {
		f := newChatFixture(t, now)
		counselor := f.seedCounselor(true)
		session := f.seedSession(userId, counselor.Id, entity.SessionStatusActive, date, "10:00", "11:00")

		_, err := f.svc.RecordMessage(ctx, session.Id, uuid.New(), entity.ParticipantKindUser, "hi")
		assert.ErrorIs(t, err, apperror.ErrForbidden)
	})
}

func TestGetSessionsFiltering(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	userId := uuid.New()

	f := newChatFixture(t, now)
	counselor := f.seedCounselor(true)
	f.seedSession(userId, counselor.Id, entity.SessionStatusPending, date, "10:00", "11:00")
	f.seedSession(userId, counselor.Id, entity.SessionStatusCompleted, date, "12:00", "13:00")
	f.seedSession(uuid.New(), counselor.Id, entity.SessionStatusPending, date, "14:00", "15:00")

	mine, err := f.svc.GetUserSessions(ctx, userId, "")
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	pendingOnly, err := f.svc.GetUserSessions(ctx, userId, entity.SessionStatusPending)
	require.NoError(t, err)
	assert.Len(t, pendingOnly, 1)

	counselorSide, err := f.svc.GetCounselorSessions(ctx, counselor.Id, "")
	require.NoError(t, err)
	assert.Len(t, counselorSide, 3)
}
