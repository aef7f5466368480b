package websocket

import (
	"sync"

	"github.com/google/uuid"

	"counseling-chat-be/internal/pkg/logger"
)

// Registry tracks which clients sit in which session room. A participant
// may hold several connections (multi-tab); each is a separate client.
//
// Every send and every close of a client's Send channel happens while the
// room lock is held, so a broadcast can never race a leave into sending on
// a closed channel. Sends are non-blocking, which keeps the critical
// section short.
type Registry struct {
	mu    sync.RWMutex
	rooms map[uuid.UUID]map[*Client]struct{}

	// onEvict, when set, handles a client the registry dropped because its
	// buffer stalled. Called outside the lock.
	onEvict func(c *Client)

	logger logger.ILogger
}

func NewRegistry(log logger.ILogger) *Registry {
	return &Registry{
		rooms:  make(map[uuid.UUID]map[*Client]struct{}),
		logger: log,
	}
}

// OnEvict installs the handler for stalled clients dropped mid-broadcast.
func (r *Registry) OnEvict(fn func(c *Client)) {
	r.onEvict = fn
}

func (r *Registry) Join(c *Client) {
	r.mu.Lock()
	room, ok := r.rooms[c.SessionId]
	if !ok {
		room = make(map[*Client]struct{})
		r.rooms[c.SessionId] = room
	}
	room[c] = struct{}{}
	r.mu.Unlock()

	r.logger.Info("Registry", "Client joined room", map[string]interface{}{
		"session_id": c.SessionId,
		"user_id":    c.UserId,
		"kind":       c.Kind,
	})
}

// removeLocked takes a client out of its room and closes its Send channel.
// Callers must hold the write lock; the close is safe because no send can
// run concurrently.
func (r *Registry) removeLocked(c *Client) bool {
	room, ok := r.rooms[c.SessionId]
	if !ok {
		return false
	}
	if _, member := room[c]; !member {
		return false
	}
	delete(room, c)
	if len(room) == 0 {
		delete(r.rooms, c.SessionId)
	}
	close(c.Send)
	return true
}

// Leave removes a client from its room. Idempotent: returns false when the
// client was already gone, so disconnect paths can race safely.
func (r *Registry) Leave(c *Client) bool {
	r.mu.Lock()
	removed := r.removeLocked(c)
	r.mu.Unlock()

	if removed {
		r.logger.Info("Registry", "Client left room", map[string]interface{}{
			"session_id": c.SessionId,
			"user_id":    c.UserId,
		})
	}
	return removed
}

// Broadcast pushes an event to every client in the room, optionally
// excluding one. Clients with a full send buffer are evicted.
func (r *Registry) Broadcast(sessionId uuid.UUID, event Event, exclude *Client) {
	data := event.Encode()

	r.mu.Lock()
	var stalled []*Client
	for c := range r.rooms[sessionId] {
		if c == exclude {
			continue
		}
		select {
		case c.Send <- data:
		default:
			stalled = append(stalled, c)
		}
	}
	for _, c := range stalled {
		r.removeLocked(c)
	}
	r.mu.Unlock()

	for _, c := range stalled {
		r.logger.Warn("Registry", "Client send buffer full, evicting", map[string]interface{}{
			"session_id": sessionId,
			"user_id":    c.UserId,
		})
		r.evicted(c)
	}
}

// SendTo pushes an event to a single client still in its room.
func (r *Registry) SendTo(c *Client, event Event) {
	data := event.Encode()

	r.mu.Lock()
	if _, member := r.rooms[c.SessionId][c]; !member {
		r.mu.Unlock()
		return
	}
	stalled := false
	select {
	case c.Send <- data:
	default:
		r.removeLocked(c)
		stalled = true
	}
	r.mu.Unlock()

	if stalled {
		r.evicted(c)
	}
}

func (r *Registry) evicted(c *Client) {
	if r.onEvict != nil {
		r.onEvict(c)
		return
	}
	if c.Conn != nil {
		c.Conn.Close()
	}
}

// RoomSize reports how many connections a session room currently holds.
func (r *Registry) RoomSize(sessionId uuid.UUID) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms[sessionId])
}

// Members returns a snapshot of the clients currently in a room.
func (r *Registry) Members(sessionId uuid.UUID) []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Client, 0, len(r.rooms[sessionId]))
	for c := range r.rooms[sessionId] {
		out = append(out, c)
	}
	return out
}

// CloseRoom delivers a final event and disconnects everyone in the room.
func (r *Registry) CloseRoom(sessionId uuid.UUID, event Event) {
	data := event.Encode()

	r.mu.Lock()
	room := r.rooms[sessionId]
	delete(r.rooms, sessionId)
	for c := range room {
		select {
		case c.Send <- data:
		default:
		}
		close(c.Send)
	}
	r.mu.Unlock()

	for c := range room {
		if c.Conn != nil {
			c.Conn.Close()
		}
	}
}
