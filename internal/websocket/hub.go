package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"counseling-chat-be/internal/entity"
	"counseling-chat-be/internal/pkg/logger"
)

// Hub fans out inbox notifications to connected clients. A user may be
// connected from several devices; each holds its own client. With Redis
// configured, deliveries are mirrored across instances.
//
// Sends and Send-channel closes both run under the hub lock so a delivery
// can never hit a channel a concurrent unregister just closed.
type Hub struct {
	// Registered clients map: UserID -> List of Clients (multi-device)
	clients map[uuid.UUID][]*Client

	mu sync.Mutex

	// Redis connection for cross-instance delivery, may be nil
	rdb *redis.Client

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		clients: make(map[uuid.UUID][]*Client),
		rdb:     rdb,
		logger:  log,
	}
}

// Run starts the cross-instance subscriber when Redis is configured.
func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeToRedis()
	}
}

func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	h.clients[client.UserId] = append(h.clients[client.UserId], client)
	h.mu.Unlock()
	h.logger.Info("Hub", "Client registered", map[string]interface{}{"user_id": client.UserId})
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	removed := h.removeLocked(client)
	empty := removed && len(h.clients[client.UserId]) == 0
	h.mu.Unlock()

	if empty {
		h.logger.Info("Hub", "Client completely unregistered", map[string]interface{}{"user_id": client.UserId})
	}
}

// removeLocked drops one connection and closes its Send channel. Callers
// must hold the hub lock.
func (h *Hub) removeLocked(client *Client) bool {
	clients, ok := h.clients[client.UserId]
	if !ok {
		return false
	}
	for i, c := range clients {
		if c == client {
			h.clients[client.UserId] = append(clients[:i], clients[i+1:]...)
			if len(h.clients[client.UserId]) == 0 {
				delete(h.clients, client.UserId)
			}
			close(client.Send)
			return true
		}
	}
	return false
}

// deliverLocal pushes data to every local connection of one user. Stalled
// connections are dropped.
func (h *Hub) deliverLocal(userId uuid.UUID, data []byte) {
	h.mu.Lock()
	var dropped []*Client
	for _, client := range h.clients[userId] {
		select {
		case client.Send <- data:
		default:
			dropped = append(dropped, client)
		}
	}
	for _, client := range dropped {
		h.removeLocked(client)
	}
	h.mu.Unlock()

	for _, client := range dropped {
		h.logger.Warn("Hub", "Client send buffer full, dropping connection", map[string]interface{}{"user_id": userId})
		if client.Conn != nil {
			client.Conn.Close()
		}
	}
}

// deliverAll pushes data to every connected client on this instance.
func (h *Hub) deliverAll(data []byte) {
	h.mu.Lock()
	var dropped []*Client
	for _, clients := range h.clients {
		for _, client := range clients {
			select {
			case client.Send <- data:
			default:
				dropped = append(dropped, client)
			}
		}
	}
	for _, client := range dropped {
		h.removeLocked(client)
	}
	h.mu.Unlock()

	for _, client := range dropped {
		h.logger.Warn("Hub", "Client send buffer full, dropping connection", map[string]interface{}{"user_id": client.UserId})
		if client.Conn != nil {
			client.Conn.Close()
		}
	}
}

// Send delivers a notification to all local connections of one user, and
// publishes to Redis so other instances can do the same.
func (h *Hub) Send(userId uuid.UUID, notification *entity.Notification) {
	data, _ := json.Marshal(map[string]interface{}{
		"type": "notification",
		"data": notification,
	})

	h.deliverLocal(userId, data)

	if h.rdb != nil {
		payload, _ := json.Marshal(map[string]interface{}{
			"target_user_id": userId.String(),
			"message":        data,
		})
		h.rdb.Publish(context.Background(), "cluster_events", payload)
	}
}

// Broadcast delivers a notification to every connected user.
func (h *Hub) Broadcast(notification *entity.Notification) {
	data, _ := json.Marshal(map[string]interface{}{
		"type": "notification",
		"data": notification,
	})

	h.deliverAll(data)

	if h.rdb != nil {
		payload, _ := json.Marshal(map[string]interface{}{
			"target_user_id": "*",
			"message":        data,
		})
		h.rdb.Publish(context.Background(), "cluster_events", payload)
	}
}

func (h *Hub) subscribeToRedis() {
	// Every instance subscribes to one channel; messages carry the target
	// user id (or "*") and each instance delivers to whoever it holds.
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, "cluster_events")
	defer pubsub.Close()

	ch := pubsub.Channel()

	for msg := range ch {
		var payload struct {
			TargetUserID string          `json:"target_user_id"`
			Message      json.RawMessage `json:"message"`
		}
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			h.logger.Warn("Hub", "Redis message parse error", map[string]interface{}{"error": err.Error()})
			continue
		}

		if payload.TargetUserID == "*" {
			h.deliverAll(payload.Message)
			continue
		}

		uid, err := uuid.Parse(payload.TargetUserID)
		if err != nil {
			continue
		}
		h.deliverLocal(uid, payload.Message)
	}
}
