package websocket

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"counseling-chat-be/internal/entity"
	"counseling-chat-be/internal/pkg/logger"
)

// Application close codes sent before dropping a connection.
const (
	CloseInvalidToken    = 4001
	CloseUnknownIdentity = 4002
	CloseNotParticipant  = 4003
)

// ChatBackend is the slice of the chat service the coordinator needs. The
// service package implements it; the indirection keeps this package free
// of service imports.
type ChatBackend interface {
	SessionForParticipant(ctx context.Context, sessionId, participantId uuid.UUID, kind string) (*entity.ChatSession, error)
	RecordMessage(ctx context.Context, sessionId, senderId uuid.UUID, senderType, content string) (*entity.Message, error)
	StartSession(ctx context.Context, sessionId, counselorId uuid.UUID) (*entity.ChatSession, error)
	CompleteSession(ctx context.Context, sessionId, counselorId uuid.UUID, notes string) (*entity.ChatSession, error)
}

// Coordinator owns the realtime choreography of a chat room: access checks
// on attach, inbound message fan-out, join/leave announcements, and
// lifecycle broadcasts triggered by the chat service.
type Coordinator struct {
	registry *Registry
	backend  ChatBackend
	logger   logger.ILogger
}

func NewCoordinator(registry *Registry, backend ChatBackend, log logger.ILogger) *Coordinator {
	co := &Coordinator{
		registry: registry,
		backend:  backend,
		logger:   log,
	}
	registry.OnEvict(co.announceDeparture)
	return co
}

// Participant describes one live connection in a session room.
type Participant struct {
	Id   uuid.UUID `json:"id"`
	Kind string    `json:"kind"`
	Name string    `json:"name"`
}

// Participants reports who is currently connected to a session room.
func (co *Coordinator) Participants(sessionId uuid.UUID) []Participant {
	members := co.registry.Members(sessionId)
	out := make([]Participant, 0, len(members))
	for _, m := range members {
		out = append(out, Participant{Id: m.UserId, Kind: m.Kind, Name: m.Name})
	}
	return out
}

// IsActive reports whether a session room holds any live connection.
func (co *Coordinator) IsActive(sessionId uuid.UUID) bool {
	return co.registry.RoomSize(sessionId) > 0
}

// Attach validates room access for an upgraded connection and, if allowed,
// joins the client to the room and blocks pumping until disconnect.
func (co *Coordinator) Attach(conn *websocket.Conn, userId uuid.UUID, kind, name string, sessionId uuid.UUID) {
	ctx := context.Background()

	session, err := co.backend.SessionForParticipant(ctx, sessionId, userId, kind)
	if err != nil {
		CloseWith(conn, CloseNotParticipant, err.Error())
		return
	}
	if session.IsTerminal() {
		CloseWith(conn, CloseNotParticipant, "session has ended")
		return
	}

	client := NewClient(conn, userId, kind, name, sessionId, co.handleInbound, co.handleDisconnect)
	co.registry.Join(client)

	co.registry.SendTo(client, NewEvent(EventSessionInfo, map[string]interface{}{
		"session_id":           session.Id,
		"status":               session.Status,
		"scheduled_date":       session.ScheduledDate.Format("2006-01-02"),
		"scheduled_start_time": session.ScheduledStartTime,
		"scheduled_end_time":   session.ScheduledEndTime,
		"participant_kind":     kind,
		"participants":         co.Participants(sessionId),
	}))

	co.registry.Broadcast(sessionId, NewEvent(EventUserJoined, map[string]interface{}{
		"participant_id":   userId,
		"participant_kind": kind,
		"name":             name,
	}), client)

	client.Run()
}

func (co *Coordinator) handleInbound(c *Client, raw []byte) {
	var in Inbound
	if err := json.Unmarshal(raw, &in); err != nil {
		co.registry.SendTo(c, NewEvent(EventError, map[string]interface{}{
			"message": "malformed message",
		}))
		return
	}

	switch in.Type {
	case InboundChatMessage:
		co.handleChatMessage(c, in.Content)
	case InboundTyping:
		co.registry.Broadcast(c.SessionId, NewEvent(EventTypingIndicator, map[string]interface{}{
			"participant_id":   c.UserId,
			"participant_kind": c.Kind,
			"is_typing":        in.IsTyping,
		}), c)
	case InboundSessionAction:
		co.handleSessionAction(c, in)
	default:
		co.registry.SendTo(c, NewEvent(EventError, map[string]interface{}{
			"message": "unknown message type",
		}))
	}
}

func (co *Coordinator) handleChatMessage(c *Client, content string) {
	content = strings.TrimSpace(content)
	if content == "" {
		co.registry.SendTo(c, NewEvent(EventError, map[string]interface{}{
			"message": "message content is empty",
		}))
		return
	}

	message, err := co.backend.RecordMessage(context.Background(), c.SessionId, c.UserId, c.Kind, content)
	if err != nil {
		co.logger.Warn("Coordinator", "Message rejected", map[string]interface{}{
			"session_id": c.SessionId,
			"sender_id":  c.UserId,
			"error":      err.Error(),
		})
		co.registry.SendTo(c, NewEvent(EventError, map[string]interface{}{
			"message": err.Error(),
		}))
		return
	}

	co.registry.Broadcast(c.SessionId, NewEvent(EventNewMessage, map[string]interface{}{
		"message_id":  message.Id,
		"sender_id":   message.SenderId,
		"sender_type": message.SenderType,
		"content":     message.Content,
		"created_at":  message.CreatedAt,
	}), nil)
}

// handleSessionAction runs a counselor's lifecycle command. Success is
// broadcast by the chat service through its room notifier; failures go back
// to the sender only.
func (co *Coordinator) handleSessionAction(c *Client, in Inbound) {
	if c.Kind != entity.ParticipantKindCounselor {
		co.registry.SendTo(c, NewEvent(EventError, map[string]interface{}{
			"message": "only the counselor can control the session",
		}))
		return
	}

	var err error
	switch in.Action {
	case ActionStartSession:
		_, err = co.backend.StartSession(context.Background(), c.SessionId, c.UserId)
	case ActionEndSession:
		_, err = co.backend.CompleteSession(context.Background(), c.SessionId, c.UserId, in.CounselorNotes)
	default:
		co.registry.SendTo(c, NewEvent(EventError, map[string]interface{}{
			"message": "unknown session action",
		}))
		return
	}

	if err != nil {
		co.logger.Warn("Coordinator", "Session action rejected", map[string]interface{}{
			"session_id": c.SessionId,
			"action":     in.Action,
			"error":      err.Error(),
		})
		co.registry.SendTo(c, NewEvent(EventError, map[string]interface{}{
			"message": err.Error(),
		}))
	}
}

func (co *Coordinator) handleDisconnect(c *Client) {
	if co.registry.Leave(c) {
		co.broadcastDeparture(c)
	}
}

// announceDeparture handles a client the registry evicted mid-broadcast:
// the room still gets its user_left, then the dead connection is dropped.
func (co *Coordinator) announceDeparture(c *Client) {
	co.broadcastDeparture(c)
	if c.Conn != nil {
		c.Conn.Close()
	}
}

func (co *Coordinator) broadcastDeparture(c *Client) {
	co.registry.Broadcast(c.SessionId, NewEvent(EventUserLeft, map[string]interface{}{
		"participant_id":   c.UserId,
		"participant_kind": c.Kind,
	}), nil)
}

// SessionStarted broadcasts the start transition to a room.
func (co *Coordinator) SessionStarted(sessionId uuid.UUID) {
	co.registry.Broadcast(sessionId, NewEvent(EventSessionStarted, map[string]interface{}{
		"session_id": sessionId,
	}), nil)
}

// SessionEnded broadcasts the terminal transition and closes the room.
func (co *Coordinator) SessionEnded(sessionId uuid.UUID, status, reason string) {
	data := map[string]interface{}{
		"session_id": sessionId,
		"status":     status,
	}
	if reason != "" {
		data["reason"] = reason
	}
	co.registry.CloseRoom(sessionId, NewEvent(EventSessionEnded, data))
}

// CloseWith sends an application close frame and drops the connection.
func CloseWith(conn *websocket.Conn, code int, reason string) {
	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason))
	conn.Close()
}
