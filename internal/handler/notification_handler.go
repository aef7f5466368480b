package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"counseling-chat-be/internal/apperror"
	"counseling-chat-be/internal/dto"
	"counseling-chat-be/internal/identity"
	"counseling-chat-be/internal/pkg/logger"
	"counseling-chat-be/internal/service"
	internalWS "counseling-chat-be/internal/websocket"
)

// NotificationHandler serves the inbox REST endpoints and the inbox
// websocket feed.
type NotificationHandler struct {
	service       service.INotificationService
	hub           *internalWS.Hub
	resolver      *identity.Resolver
	jwtMiddleware fiber.Handler
	logger        logger.ILogger
}

func NewNotificationHandler(
	notificationService service.INotificationService,
	hub *internalWS.Hub,
	resolver *identity.Resolver,
	jwtMiddleware fiber.Handler,
	log logger.ILogger,
) *NotificationHandler {
	return &NotificationHandler{
		service:       notificationService,
		hub:           hub,
		resolver:      resolver,
		jwtMiddleware: jwtMiddleware,
		logger:        log,
	}
}

// RegisterRoutes registers the notification routes.
func (h *NotificationHandler) RegisterRoutes(router fiber.Router) {
	notif := router.Group("/notifications")
	notif.Get("/ws", h.ServeWs)

	notif.Use(h.jwtMiddleware)
	notif.Get("/", h.GetNotifications)
	notif.Get("/unread-count", h.GetUnreadCount)
	notif.Patch("/read-all", h.MarkAllAsRead)
	notif.Patch("/:id/read", h.MarkAsRead)
}

// ServeWs handles websocket requests from the peer.
func (h *NotificationHandler) ServeWs(c *fiber.Ctx) error {
	tokenStr := c.Query("token")
	if tokenStr == "" {
		authHeader := c.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		}
	}
	if tokenStr == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing token (Query 'token' or Header 'Authorization')"})
	}

	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	principal, resolveErr := h.resolver.ResolveToken(c.UserContext(), tokenStr)

	return websocket.New(func(conn *websocket.Conn) {
		if resolveErr != nil {
			code := internalWS.CloseUnknownIdentity
			if errors.Is(resolveErr, apperror.ErrAuthentication) {
				code = internalWS.CloseInvalidToken
			}
			internalWS.CloseWith(conn, code, resolveErr.Error())
			return
		}

		h.logger.Info("NotificationHandler", "Starting inbox WebSocket session", map[string]interface{}{"user_id": principal.Id})

		client := internalWS.NewClient(conn, principal.Id, principal.Kind, principal.Name, uuid.Nil,
			nil, // inbox feed is push only
			func(client *internalWS.Client) { h.hub.Unregister(client) },
		)
		h.hub.Register(client)
		client.Run()

		h.logger.Info("NotificationHandler", "Inbox WebSocket session ended", map[string]interface{}{"user_id": principal.Id})
	})(c)
}

// GetNotifications returns the requester's inbox page with counts.
func (h *NotificationHandler) GetNotifications(c *fiber.Ctx) error {
	userId, err := localUserId(c)
	if err != nil {
		return err
	}

	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)

	notifications, total, err := h.service.GetNotifications(c.UserContext(), userId, limit, offset)
	if err != nil {
		return err
	}
	unread, err := h.service.GetUnreadCount(c.UserContext(), userId)
	if err != nil {
		return err
	}

	out := dto.NotificationListResponse{
		Notifications: make([]dto.NotificationResponse, 0, len(notifications)),
		Total:         total,
		UnreadCount:   unread,
	}
	for _, n := range notifications {
		out.Notifications = append(out.Notifications, dto.NewNotificationResponse(n))
	}

	return c.JSON(out)
}

// GetUnreadCount returns the number of unread notifications.
func (h *NotificationHandler) GetUnreadCount(c *fiber.Ctx) error {
	userId, err := localUserId(c)
	if err != nil {
		return err
	}

	count, err := h.service.GetUnreadCount(c.UserContext(), userId)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"count": count})
}

// MarkAsRead marks one of the requester's own notifications as read.
func (h *NotificationHandler) MarkAsRead(c *fiber.Ctx) error {
	userId, err := localUserId(c)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	if err := h.service.MarkAsRead(c.UserContext(), id, userId); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true})
}

// MarkAllAsRead marks all of the requester's notifications as read.
func (h *NotificationHandler) MarkAllAsRead(c *fiber.Ctx) error {
	userId, err := localUserId(c)
	if err != nil {
		return err
	}

	if err := h.service.MarkAllAsRead(c.UserContext(), userId); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true})
}

func localUserId(c *fiber.Ctx) (uuid.UUID, error) {
	idStr, ok := c.Locals("user_id").(string)
	if !ok {
		return uuid.Nil, apperror.Authentication("missing subject")
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, apperror.Authentication("invalid subject id")
	}
	return id, nil
}
