package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"counseling-chat-be/internal/apperror"
	"counseling-chat-be/internal/entity"
	"counseling-chat-be/internal/repository/contract"
	"counseling-chat-be/internal/repository/specification"
	"counseling-chat-be/internal/repository/unitofwork"
)

type noopLogger struct{}

func (noopLogger) Debug(string, string, map[string]interface{}) {}
func (noopLogger) Info(string, string, map[string]interface{})  {}
func (noopLogger) Warn(string, string, map[string]interface{})  {}
func (noopLogger) Error(string, string, map[string]interface{}) {}
func (noopLogger) Sync() error                                  { return nil }

// fakeStore is a shared in-memory backing store for the fake repositories.
type fakeStore struct {
	mu sync.Mutex

	users            map[uuid.UUID]*entity.User
	counselors       map[uuid.UUID]*entity.Counselor
	sessions         map[uuid.UUID]*entity.ChatSession
	slots            map[uuid.UUID]*entity.TimeSlot
	schedules        []*entity.CounselorSchedule
	unavailabilities []*entity.CounselorUnavailability
	messages         []*entity.Message
	notifications    []*entity.Notification
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:      make(map[uuid.UUID]*entity.User),
		counselors: make(map[uuid.UUID]*entity.Counselor),
		sessions:   make(map[uuid.UUID]*entity.ChatSession),
		slots:      make(map[uuid.UUID]*entity.TimeSlot),
	}
}

type fakeFactory struct {
	store *fakeStore
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUow{store: f.store}
}

type fakeUow struct {
	store *fakeStore
}

func (u *fakeUow) Begin(ctx context.Context) error { return nil }
func (u *fakeUow) Commit() error                   { return nil }
func (u *fakeUow) Rollback() error                 { return nil }

func (u *fakeUow) ChatSessionRepository() contract.ChatSessionRepository {
	return &fakeSessionRepo{store: u.store}
}

func (u *fakeUow) MessageRepository() contract.MessageRepository {
	return &fakeMessageRepo{store: u.store}
}

func (u *fakeUow) TimeSlotRepository() contract.TimeSlotRepository {
	return &fakeSlotRepo{store: u.store}
}

func (u *fakeUow) CounselorScheduleRepository() contract.CounselorScheduleRepository {
	return &fakeScheduleRepo{store: u.store}
}

func (u *fakeUow) CounselorUnavailabilityRepository() contract.CounselorUnavailabilityRepository {
	return &fakeUnavailabilityRepo{store: u.store}
}

func (u *fakeUow) UserRepository() contract.UserRepository {
	return &fakeUserRepo{store: u.store}
}

func (u *fakeUow) CounselorRepository() contract.CounselorRepository {
	return &fakeCounselorRepo{store: u.store}
}

func (u *fakeUow) NotificationRepository() contract.NotificationRepository {
	return &fakeNotificationRepo{store: u.store}
}

func specID(specs []specification.Specification) (uuid.UUID, bool) {
	for _, s := range specs {
		if byID, ok := s.(specification.ByID); ok {
			return byID.ID, true
		}
	}
	return uuid.Nil, false
}

type fakeSessionRepo struct {
	store *fakeStore
}

func (r *fakeSessionRepo) Create(ctx context.Context, session *entity.ChatSession) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.sessions[session.Id] = session
	return nil
}

func (r *fakeSessionRepo) Update(ctx context.Context, session *entity.ChatSession) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.sessions[session.Id] = session
	return nil
}

func (r *fakeSessionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatSession, error) {
	sessions, err := r.FindAll(ctx, specs...)
	if err != nil || len(sessions) == 0 {
		return nil, err
	}
	return sessions[0], nil
}

func (r *fakeSessionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatSession, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var out []*entity.ChatSession
	for _, s := range r.store.sessions {
		if matchSession(s, specs) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSessionRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	sessions, err := r.FindAll(ctx, specs...)
	return int64(len(sessions)), err
}

func matchSession(s *entity.ChatSession, specs []specification.Specification) bool {
	for _, sp := range specs {
		switch v := sp.(type) {
		case specification.ByID:
			if s.Id != v.ID {
				return false
			}
		case specification.SessionByStatus:
			if s.Status != v.Status {
				return false
			}
		case specification.SessionByUser:
			if s.UserId != v.UserID {
				return false
			}
		case specification.SessionByCounselor:
			if s.CounselorId != v.CounselorID {
				return false
			}
		case specification.SessionByScheduledDate:
			if !entity.DateOnly(s.ScheduledDate).Equal(entity.DateOnly(v.Date)) {
				return false
			}
		}
	}
	return true
}

type fakeSlotRepo struct {
	store *fakeStore
}

func (r *fakeSlotRepo) Create(ctx context.Context, slot *entity.TimeSlot) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.slots[slot.Id] = slot
	return nil
}

func (r *fakeSlotRepo) Update(ctx context.Context, slot *entity.TimeSlot) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.slots[slot.Id] = slot
	return nil
}

func (r *fakeSlotRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.TimeSlot, error) {
	slots, err := r.FindAll(ctx, specs...)
	if err != nil || len(slots) == 0 {
		return nil, err
	}
	return slots[0], nil
}

func (r *fakeSlotRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.TimeSlot, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var out []*entity.TimeSlot
	for _, s := range r.store.slots {
		if matchSlot(s, specs) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSlotRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	slots, err := r.FindAll(ctx, specs...)
	return int64(len(slots)), err
}

func matchSlot(s *entity.TimeSlot, specs []specification.Specification) bool {
	for _, sp := range specs {
		switch v := sp.(type) {
		case specification.ByID:
			if s.Id != v.ID {
				return false
			}
		case specification.SlotByCounselor:
			if s.CounselorId != v.CounselorID {
				return false
			}
		case specification.SlotByDate:
			if !entity.DateOnly(s.Date).Equal(entity.DateOnly(v.Date)) {
				return false
			}
		case specification.SlotByDateRange:
			d := entity.DateOnly(s.Date)
			if d.Before(entity.DateOnly(v.From)) || d.After(entity.DateOnly(v.To)) {
				return false
			}
		case specification.SlotAvailable:
			if !s.IsAvailable || s.IsBooked {
				return false
			}
		case specification.SlotByStartTime:
			if s.StartTime != v.StartTime {
				return false
			}
		case specification.SlotOverlapping:
			if !(s.StartTime < v.EndTime && s.EndTime > v.StartTime) {
				return false
			}
		}
	}
	return true
}

type fakeScheduleRepo struct {
	store *fakeStore
}

func (r *fakeScheduleRepo) Create(ctx context.Context, schedule *entity.CounselorSchedule) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.schedules = append(r.store.schedules, schedule)
	return nil
}

func (r *fakeScheduleRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CounselorSchedule, error) {
	schedules, err := r.FindAll(ctx, specs...)
	if err != nil || len(schedules) == 0 {
		return nil, err
	}
	return schedules[0], nil
}

func (r *fakeScheduleRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CounselorSchedule, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var out []*entity.CounselorSchedule
	for _, s := range r.store.schedules {
		if matchSchedule(s, specs) {
			out = append(out, s)
		}
	}
	return out, nil
}

func matchSchedule(s *entity.CounselorSchedule, specs []specification.Specification) bool {
	for _, sp := range specs {
		switch v := sp.(type) {
		case specification.ByID:
			if s.Id != v.ID {
				return false
			}
		case specification.ScheduleByCounselor:
			if s.CounselorId != v.CounselorID {
				return false
			}
		case specification.ScheduleActiveOn:
			if !s.IsActive || !s.Covers(v.Date) {
				return false
			}
		}
	}
	return true
}

type fakeUnavailabilityRepo struct {
	store *fakeStore
}

func (r *fakeUnavailabilityRepo) Create(ctx context.Context, unavailability *entity.CounselorUnavailability) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.unavailabilities = append(r.store.unavailabilities, unavailability)
	return nil
}

func (r *fakeUnavailabilityRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CounselorUnavailability, error) {
	items, err := r.FindAll(ctx, specs...)
	if err != nil || len(items) == 0 {
		return nil, err
	}
	return items[0], nil
}

func (r *fakeUnavailabilityRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CounselorUnavailability, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var out []*entity.CounselorUnavailability
	for _, u := range r.store.unavailabilities {
		if matchUnavailability(u, specs) {
			out = append(out, u)
		}
	}
	return out, nil
}

func matchUnavailability(u *entity.CounselorUnavailability, specs []specification.Specification) bool {
	for _, sp := range specs {
		switch v := sp.(type) {
		case specification.ByID:
			if u.Id != v.ID {
				return false
			}
		case specification.ScheduleByCounselor:
			if u.CounselorId != v.CounselorID {
				return false
			}
		case specification.UnavailabilityCovering:
			if u.CounselorId != v.CounselorID {
				return false
			}
			d := entity.DateOnly(v.Date)
			if d.Before(entity.DateOnly(u.StartDate)) || d.After(entity.DateOnly(u.EndDate)) {
				return false
			}
		}
	}
	return true
}

type fakeMessageRepo struct {
	store *fakeStore
}

func (r *fakeMessageRepo) Create(ctx context.Context, message *entity.Message) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.messages = append(r.store.messages, message)
	return nil
}

func (r *fakeMessageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Message, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var out []*entity.Message
	for _, m := range r.store.messages {
		if matchMessage(m, specs) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMessageRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	messages, err := r.FindAll(ctx, specs...)
	return int64(len(messages)), err
}

func matchMessage(m *entity.Message, specs []specification.Specification) bool {
	for _, sp := range specs {
		switch v := sp.(type) {
		case specification.ByID:
			if m.Id != v.ID {
				return false
			}
		case specification.MessageBySession:
			if m.SessionId != v.SessionID {
				return false
			}
		}
	}
	return true
}

type fakeUserRepo struct {
	store *fakeStore
}

func (r *fakeUserRepo) FindById(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.users[id], nil
}

type fakeCounselorRepo struct {
	store *fakeStore
}

func (r *fakeCounselorRepo) FindById(ctx context.Context, id uuid.UUID) (*entity.Counselor, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.counselors[id], nil
}

func (r *fakeCounselorRepo) IncrementTotalSessions(ctx context.Context, counselorId uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if c, ok := r.store.counselors[counselorId]; ok && c.Profile != nil {
		c.Profile.TotalSessions++
	}
	return nil
}

type fakeNotificationRepo struct {
	store *fakeStore
}

func (r *fakeNotificationRepo) Create(ctx context.Context, notification *entity.Notification) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.notifications = append(r.store.notifications, notification)
	return nil
}

func (r *fakeNotificationRepo) FindByUser(ctx context.Context, userId uuid.UUID, limit, offset int) ([]*entity.Notification, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var all []*entity.Notification
	for _, n := range r.store.notifications {
		if n.UserId == userId {
			all = append(all, n)
		}
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, total, nil
}

func (r *fakeNotificationRepo) UnreadCount(ctx context.Context, userId uuid.UUID) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var count int64
	for _, n := range r.store.notifications {
		if n.UserId == userId && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) MarkAsRead(ctx context.Context, id, userId uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, n := range r.store.notifications {
		if n.Id == id && n.UserId == userId {
			n.IsRead = true
			return nil
		}
	}
	return apperror.NotFound("notification %s", id)
}

func (r *fakeNotificationRepo) MarkAllAsRead(ctx context.Context, userId uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, n := range r.store.notifications {
		if n.UserId == userId {
			n.IsRead = true
		}
	}
	return nil
}

func (r *fakeNotificationRepo) HasSessionReminder(ctx context.Context, sessionId, userId uuid.UUID) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, n := range r.store.notifications {
		if n.UserId != userId || n.Type != entity.NotificationSessionReminder {
			continue
		}
		if id, ok := n.Metadata["session_id"].(string); ok && id == sessionId.String() {
			return true, nil
		}
	}
	return false, nil
}

// recordingNotifications captures lifecycle notifications and acts as the
// at-most-once reminder ledger.
type recordingNotifications struct {
	mu        sync.Mutex
	booked    []uuid.UUID
	started   []uuid.UUID
	completed []uuid.UUID
	cancelled []uuid.UUID
	reminders map[string]int
}

func newRecordingNotifications() *recordingNotifications {
	return &recordingNotifications{reminders: make(map[string]int)}
}

func reminderKey(sessionId, recipientId uuid.UUID) string {
	return fmt.Sprintf("%s|%s", sessionId, recipientId)
}

func (r *recordingNotifications) NotifySessionBooked(ctx context.Context, session *entity.ChatSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.booked = append(r.booked, session.Id)
}

func (r *recordingNotifications) NotifySessionStarted(ctx context.Context, session *entity.ChatSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started = append(r.started, session.Id)
}

func (r *recordingNotifications) NotifySessionCompleted(ctx context.Context, session *entity.ChatSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completed = append(r.completed, session.Id)
}

func (r *recordingNotifications) NotifySessionCancelled(ctx context.Context, session *entity.ChatSession, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancelled = append(r.cancelled, session.Id)
}

func (r *recordingNotifications) NotifySessionReminder(ctx context.Context, session *entity.ChatSession, recipientId uuid.UUID, minutesUntil int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reminders[reminderKey(session.Id, recipientId)]++
	return nil
}

func (r *recordingNotifications) HasSessionReminder(ctx context.Context, sessionId, recipientId uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reminders[reminderKey(sessionId, recipientId)] > 0, nil
}

func (r *recordingNotifications) GetNotifications(ctx context.Context, userId uuid.UUID, limit, offset int) ([]*entity.Notification, int64, error) {
	return nil, 0, nil
}

func (r *recordingNotifications) GetUnreadCount(ctx context.Context, userId uuid.UUID) (int64, error) {
	return 0, nil
}

func (r *recordingNotifications) MarkAsRead(ctx context.Context, id, userId uuid.UUID) error {
	return nil
}

func (r *recordingNotifications) MarkAllAsRead(ctx context.Context, userId uuid.UUID) error {
	return nil
}

type endedRoom struct {
	SessionId uuid.UUID
	Status    string
	Reason    string
}

// recordingRoomNotifier captures the lifecycle pushes the websocket
// coordinator would broadcast.
type recordingRoomNotifier struct {
	mu      sync.Mutex
	started []uuid.UUID
	ended   []endedRoom
}

func (r *recordingRoomNotifier) SessionStarted(sessionId uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started = append(r.started, sessionId)
}

func (r *recordingRoomNotifier) SessionEnded(sessionId uuid.UUID, status, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ended = append(r.ended, endedRoom{SessionId: sessionId, Status: status, Reason: reason})
}
