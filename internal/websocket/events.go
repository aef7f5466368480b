package websocket

import (
	"encoding/json"
	"time"
)

// Wire event types pushed to chat room clients.
const (
	EventSessionInfo     = "session_info"
	EventNewMessage      = "new_message"
	EventUserJoined      = "user_joined"
	EventUserLeft        = "user_left"
	EventTypingIndicator = "typing_indicator"
	EventSessionStarted  = "session_started"
	EventSessionEnded    = "session_ended"
	EventError           = "error"
)

// Inbound message types accepted from clients.
const (
	InboundChatMessage   = "chat_message"
	InboundTyping        = "typing"
	InboundSessionAction = "session_action"
)

// Session control actions, counselor only.
const (
	ActionStartSession = "start_session"
	ActionEndSession   = "end_session"
)

// Event is the envelope for everything pushed over a chat room socket.
type Event struct {
	Type      string                 `json:"type"`
	Data      map[string]interface{} `json:"data"`
	Timestamp time.Time              `json:"timestamp"`
}

func NewEvent(eventType string, data map[string]interface{}) Event {
	if data == nil {
		data = make(map[string]interface{})
	}
	return Event{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now(),
	}
}

func (e Event) Encode() []byte {
	data, _ := json.Marshal(e)
	return data
}

// Inbound is what clients send: a type discriminator plus the fields the
// type uses.
type Inbound struct {
	Type           string `json:"type"`
	Content        string `json:"content"`
	IsTyping       bool   `json:"is_typing"`
	Action         string `json:"action"`
	CounselorNotes string `json:"counselor_notes"`
}
