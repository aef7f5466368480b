package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"counseling-chat-be/internal/entity"
)

type fakeBackend struct {
	recorded  []string
	started   []uuid.UUID
	completed []uuid.UUID
	notes     string
	fail      error
}

func (f *fakeBackend) SessionForParticipant(ctx context.Context, sessionId, participantId uuid.UUID, kind string) (*entity.ChatSession, error) {
	return &entity.ChatSession{Id: sessionId, Status: entity.SessionStatusActive}, nil
}

func (f *fakeBackend) RecordMessage(ctx context.Context, sessionId, senderId uuid.UUID, senderType, content string) (*entity.Message, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	f.recorded = append(f.recorded, content)
	return &entity.Message{
		Id:         uuid.New(),
		SessionId:  sessionId,
		SenderId:   senderId,
		SenderType: senderType,
		Content:    content,
		CreatedAt:  time.Now(),
	}, nil
}

func (f *fakeBackend) StartSession(ctx context.Context, sessionId, counselorId uuid.UUID) (*entity.ChatSession, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	f.started = append(f.started, sessionId)
	return &entity.ChatSession{Id: sessionId, Status: entity.SessionStatusActive}, nil
}

func (f *fakeBackend) CompleteSession(ctx context.Context, sessionId, counselorId uuid.UUID, notes string) (*entity.ChatSession, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	f.completed = append(f.completed, sessionId)
	f.notes = notes
	return &entity.ChatSession{Id: sessionId, Status: entity.SessionStatusCompleted}, nil
}

func receiveEvent(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case raw := <-c.Send:
		var event Event
		require.NoError(t, json.Unmarshal(raw, &event))
		return event
	default:
		t.Fatal("expected an event on the send channel")
		return Event{}
	}
}

func newCoordinatorFixture() (*Coordinator, *fakeBackend, *Registry) {
	backend := &fakeBackend{}
	registry := NewRegistry(noopLogger{})
	return NewCoordinator(registry, backend, noopLogger{}), backend, registry
}

func TestCoordinatorChatMessage(t *testing.T) {
	co, backend, registry := newCoordinatorFixture()
	sessionId := uuid.New()

	sender := testClient(sessionId)
	peer := testClient(sessionId)
	registry.Join(sender)
	registry.Join(peer)

	co.handleInbound(sender, []byte(`{"type":"chat_message","content":"hello"}`))

	assert.Equal(t, []string{"hello"}, backend.recorded)

	// Broadcast reaches the whole room, the sender included.
	for _, c := range []*Client{sender, peer} {
		event := receiveEvent(t, c)
		assert.Equal(t, EventNewMessage, event.Type)
		assert.Equal(t, "hello", event.Data["content"])
	}
}

func TestCoordinatorChatMessageEmpty(t *testing.T) {
	co, backend, registry := newCoordinatorFixture()
	sender := testClient(uuid.New())
	registry.Join(sender)

	co.handleInbound(sender, []byte(`{"type":"chat_message","content":"   "}`))

	assert.Empty(t, backend.recorded)
	event := receiveEvent(t, sender)
	assert.Equal(t, EventError, event.Type)
}

func TestCoordinatorChatMessageRejected(t *testing.T) {
	co, backend, registry := newCoordinatorFixture()
	backend.fail = errors.New("cannot message a completed session")

	sender := testClient(uuid.New())
	registry.Join(sender)

	co.handleInbound(sender, []byte(`{"type":"chat_message","content":"hello"}`))

	event := receiveEvent(t, sender)
	assert.Equal(t, EventError, event.Type)
	assert.Equal(t, "cannot message a completed session", event.Data["message"])
}

func TestCoordinatorMalformedInbound(t *testing.T) {
	co, _, registry := newCoordinatorFixture()
	sender := testClient(uuid.New())
	registry.Join(sender)

	co.handleInbound(sender, []byte(`{not json`))

	event := receiveEvent(t, sender)
	assert.Equal(t, EventError, event.Type)
}

func TestCoordinatorTyping(t *testing.T) {
	co, _, registry := newCoordinatorFixture()
	sessionId := uuid.New()

	sender := testClient(sessionId)
	peer := testClient(sessionId)
	registry.Join(sender)
	registry.Join(peer)

	co.handleInbound(sender, []byte(`{"type":"typing","is_typing":true}`))

	event := receiveEvent(t, peer)
	assert.Equal(t, EventTypingIndicator, event.Type)
	assert.Equal(t, true, event.Data["is_typing"])

	assert.Empty(t, sender.Send, "typing must not echo back to the sender")
}

func TestCoordinatorSessionAction(t *testing.T) {
	sessionId := uuid.New()
	counselor := func() *Client {
		return NewClient(nil, uuid.New(), entity.ParticipantKindCounselor, "Dr. A", sessionId, nil, nil)
	}

	t.Run("user cannot control the session", func(t *testing.T) {
		co, backend, registry := newCoordinatorFixture()
		sender := testClient(sessionId)
		registry.Join(sender)

		co.handleInbound(sender, []byte(`{"type":"session_action","action":"start_session"}`))

		assert.Empty(t, backend.started)
		event := receiveEvent(t, sender)
		assert.Equal(t, EventError, event.Type)
	})

	t.Run("counselor starts the session", func(t *testing.T) {
		co, backend, registry := newCoordinatorFixture()
		c := counselor()
		registry.Join(c)

		co.handleInbound(c, []byte(`{"type":"session_action","action":"start_session"}`))

		assert.Equal(t, []uuid.UUID{sessionId}, backend.started)
		assert.Empty(t, c.Send, "success is broadcast by the service, not echoed here")
	})

	t.Run("counselor ends the session with notes", func(t *testing.T) {
		co, backend, registry := newCoordinatorFixture()
		c := counselor()
		registry.Join(c)

		co.handleInbound(c, []byte(`{"type":"session_action","action":"end_session","counselor_notes":"went well"}`))

		assert.Equal(t, []uuid.UUID{sessionId}, backend.completed)
		assert.Equal(t, "went well", backend.notes)
	})

	t.Run("rejected action goes to the sender only", func(t *testing.T) {
		co, backend, registry := newCoordinatorFixture()
		backend.fail = errors.New("cannot start a completed session")

		c := counselor()
		peer := testClient(sessionId)
		registry.Join(c)
		registry.Join(peer)

		co.handleInbound(c, []byte(`{"type":"session_action","action":"start_session"}`))

		event := receiveEvent(t, c)
		assert.Equal(t, EventError, event.Type)
		assert.Empty(t, peer.Send)
	})

	t.Run("unknown action", func(t *testing.T) {
		co, _, registry := newCoordinatorFixture()
		c := counselor()
		registry.Join(c)

		co.handleInbound(c, []byte(`{"type":"session_action","action":"pause_session"}`))

		event := receiveEvent(t, c)
		assert.Equal(t, EventError, event.Type)
	})
}

func TestCoordinatorParticipants(t *testing.T) {
	co, _, registry := newCoordinatorFixture()
	sessionId := uuid.New()

	assert.False(t, co.IsActive(sessionId))
	assert.Empty(t, co.Participants(sessionId))

	c := NewClient(nil, uuid.New(), entity.ParticipantKindUser, "anon", sessionId, nil, nil)
	registry.Join(c)

	assert.True(t, co.IsActive(sessionId))
	participants := co.Participants(sessionId)
	require.Len(t, participants, 1)
	assert.Equal(t, c.UserId, participants[0].Id)
	assert.Equal(t, entity.ParticipantKindUser, participants[0].Kind)
	assert.Equal(t, "anon", participants[0].Name)
}

// A client evicted for a stalled send buffer leaves the room like any other
// departure: the remaining participants get a user_left event.
func TestCoordinatorEvictionAnnouncesDeparture(t *testing.T) {
	co, _, registry := newCoordinatorFixture()
	sessionId := uuid.New()

	victim := testClient(sessionId)
	peer := testClient(sessionId)
	registry.Join(victim)
	registry.Join(peer)

	// Saturate the victim's outbound buffer so the next broadcast stalls it.
	for i := 0; i < cap(victim.Send); i++ {
		victim.Send <- []byte(`{}`)
	}

	co.handleInbound(peer, []byte(`{"type":"typing","is_typing":true}`))

	assert.Equal(t, 1, registry.RoomSize(sessionId))

	event := receiveEvent(t, peer)
	assert.Equal(t, EventUserLeft, event.Type)
	assert.Equal(t, victim.UserId.String(), event.Data["participant_id"])
}

func TestCoordinatorUnknownType(t *testing.T) {
	co, _, registry := newCoordinatorFixture()
	sender := testClient(uuid.New())
	registry.Join(sender)

	co.handleInbound(sender, []byte(`{"type":"presence"}`))

	event := receiveEvent(t, sender)
	assert.Equal(t, EventError, event.Type)
}
