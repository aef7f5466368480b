package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"counseling-chat-be/internal/apperror"
	"counseling-chat-be/internal/identity"
	"counseling-chat-be/internal/pkg/logger"
	internalWS "counseling-chat-be/internal/websocket"
)

// ChatWsHandler upgrades chat room connections. A missing token is
// rejected before the upgrade; token and identity problems after the
// upgrade are reported with application close codes so clients can tell
// "re-login" apart from "no access".
type ChatWsHandler struct {
	coordinator *internalWS.Coordinator
	resolver    *identity.Resolver
	logger      logger.ILogger
}

func NewChatWsHandler(coordinator *internalWS.Coordinator, resolver *identity.Resolver, log logger.ILogger) *ChatWsHandler {
	return &ChatWsHandler{
		coordinator: coordinator,
		resolver:    resolver,
		logger:      log,
	}
}

func (h *ChatWsHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/chat/ws/:session_id", h.ServeWs)
}

// ServeWs handles websocket requests from the peer.
func (h *ChatWsHandler) ServeWs(c *fiber.Ctx) error {
	// Query param first (browser standard), then the Authorization header.
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

	sessionId, err := uuid.Parse(c.Params("session_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session id"})
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
			h.logger.Warn("ChatWsHandler", "Rejected WS handshake", map[string]interface{}{
				"session_id": sessionId,
				"error":      resolveErr.Error(),
			})
			internalWS.CloseWith(conn, code, resolveErr.Error())
			return
		}

		h.logger.Info("ChatWsHandler", "Starting chat WebSocket session", map[string]interface{}{
			"session_id": sessionId,
			"user_id":    principal.Id,
			"kind":       principal.Kind,
		})
		h.coordinator.Attach(conn, principal.Id, principal.Kind, principal.Name, sessionId)
		h.logger.Info("ChatWsHandler", "Chat WebSocket session ended", map[string]interface{}{
			"session_id": sessionId,
			"user_id":    principal.Id,
		})
	})(c)
}
