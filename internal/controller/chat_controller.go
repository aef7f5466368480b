package controller

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"counseling-chat-be/internal/apperror"
	"counseling-chat-be/internal/dto"
	"counseling-chat-be/internal/entity"
	"counseling-chat-be/internal/identity"
	"counseling-chat-be/internal/pkg/serverutils"
	"counseling-chat-be/internal/service"
	ws "counseling-chat-be/internal/websocket"
)

// RoomPresence reports the live occupancy of a session's chat room.
// Implemented by the websocket coordinator.
type RoomPresence interface {
	Participants(sessionId uuid.UUID) []ws.Participant
	IsActive(sessionId uuid.UUID) bool
}

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	BookSession(ctx *fiber.Ctx) error
	GetSessions(ctx *fiber.Ctx) error
	GetSessionDetails(ctx *fiber.Ctx) error
	GetSessionMessages(ctx *fiber.Ctx) error
	GetConnectionInfo(ctx *fiber.Ctx) error
	StartSession(ctx *fiber.Ctx) error
	CompleteSession(ctx *fiber.Ctx) error
	CancelSession(ctx *fiber.Ctx) error
	SubmitFeedback(ctx *fiber.Ctx) error
}

type chatController struct {
	service       service.IChatService
	presence      RoomPresence
	resolver      *identity.Resolver
	jwtMiddleware fiber.Handler
}

func NewChatController(chatService service.IChatService, presence RoomPresence, resolver *identity.Resolver, jwtMiddleware fiber.Handler) IChatController {
	return &chatController{
		service:       chatService,
		presence:      presence,
		resolver:      resolver,
		jwtMiddleware: jwtMiddleware,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat")
	h.Use(c.jwtMiddleware)
	h.Post("/sessions", c.BookSession)
	h.Get("/sessions", c.GetSessions)
	h.Get("/sessions/:id", c.GetSessionDetails)
	h.Get("/sessions/:id/messages", c.GetSessionMessages)
	h.Get("/sessions/:id/connection-info", c.GetConnectionInfo)
	h.Post("/sessions/:id/start", c.StartSession)
	h.Post("/sessions/:id/complete", c.CompleteSession)
	h.Post("/sessions/:id/cancel", c.CancelSession)
	h.Post("/sessions/:id/feedback", c.SubmitFeedback)
}

func (c *chatController) BookSession(ctx *fiber.Ctx) error {
	principal, err := c.principal(ctx)
	if err != nil {
		return err
	}
	if principal.Kind != entity.ParticipantKindUser {
		return apperror.Forbidden("only users can book sessions")
	}

	var req dto.BookSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	session, err := c.service.BookSession(ctx.UserContext(), principal.Id, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Session booked", dto.NewSessionResponse(session)))
}

func (c *chatController) GetSessions(ctx *fiber.Ctx) error {
	principal, err := c.principal(ctx)
	if err != nil {
		return err
	}

	status := ctx.Query("status")

	var sessions []*entity.ChatSession
	if principal.Kind == entity.ParticipantKindCounselor {
		sessions, err = c.service.GetCounselorSessions(ctx.UserContext(), principal.Id, status)
	} else {
		sessions, err = c.service.GetUserSessions(ctx.UserContext(), principal.Id, status)
	}
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get sessions", dto.NewSessionResponses(sessions)))
}

func (c *chatController) GetSessionDetails(ctx *fiber.Ctx) error {
	principal, sessionId, err := c.principalAndSession(ctx)
	if err != nil {
		return err
	}

	session, err := c.service.GetSessionDetails(ctx.UserContext(), sessionId, principal.Id, principal.Kind)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get session", dto.NewSessionResponse(session)))
}

func (c *chatController) GetSessionMessages(ctx *fiber.Ctx) error {
	principal, sessionId, err := c.principalAndSession(ctx)
	if err != nil {
		return err
	}

	messages, err := c.service.GetSessionMessages(ctx.UserContext(), sessionId, principal.Id, principal.Kind)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get messages", dto.NewMessageResponses(messages)))
}

func (c *chatController) GetConnectionInfo(ctx *fiber.Ctx) error {
	principal, sessionId, err := c.principalAndSession(ctx)
	if err != nil {
		return err
	}

	session, err := c.service.GetSessionDetails(ctx.UserContext(), sessionId, principal.Id, principal.Kind)
	if err != nil {
		return err
	}

	participants := c.presence.Participants(session.Id)
	active := make([]dto.ParticipantInfo, 0, len(participants))
	for _, p := range participants {
		active = append(active, dto.ParticipantInfo{Id: p.Id, Kind: p.Kind, Name: p.Name})
	}

	info := dto.ConnectionInfoResponse{
		SessionId:          session.Id,
		Status:             session.Status,
		WebsocketURL:       fmt.Sprintf("/api/chat/ws/%s", session.Id),
		CanConnect:         !session.IsTerminal(),
		IsWebsocketActive:  c.presence.IsActive(session.Id),
		ActiveParticipants: active,
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get connection info", info))
}

func (c *chatController) StartSession(ctx *fiber.Ctx) error {
	principal, sessionId, err := c.principalAndSession(ctx)
	if err != nil {
		return err
	}
	if principal.Kind != entity.ParticipantKindCounselor {
		return apperror.Forbidden("only counselors can start sessions")
	}

	session, err := c.service.StartSession(ctx.UserContext(), sessionId, principal.Id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Session started", dto.NewSessionResponse(session)))
}

func (c *chatController) CompleteSession(ctx *fiber.Ctx) error {
	principal, sessionId, err := c.principalAndSession(ctx)
	if err != nil {
		return err
	}
	if principal.Kind != entity.ParticipantKindCounselor {
		return apperror.Forbidden("only counselors can complete sessions")
	}

	var req dto.CompleteSessionRequest
	if err := ctx.BodyParser(&req); err != nil && len(ctx.Body()) > 0 {
		return err
	}

	session, err := c.service.CompleteSession(ctx.UserContext(), sessionId, principal.Id, req.Notes)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Session completed", dto.NewSessionResponse(session)))
}

func (c *chatController) CancelSession(ctx *fiber.Ctx) error {
	principal, sessionId, err := c.principalAndSession(ctx)
	if err != nil {
		return err
	}

	var req dto.CancelSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	session, err := c.service.CancelSession(ctx.UserContext(), sessionId, principal.Id, principal.Kind, req.Reason)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Session cancelled", dto.NewSessionResponse(session)))
}

func (c *chatController) SubmitFeedback(ctx *fiber.Ctx) error {
	principal, sessionId, err := c.principalAndSession(ctx)
	if err != nil {
		return err
	}
	if principal.Kind != entity.ParticipantKindUser {
		return apperror.Forbidden("only users can leave feedback")
	}

	var req dto.FeedbackRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	session, err := c.service.SubmitFeedback(ctx.UserContext(), sessionId, principal.Id, req.Rating, req.Feedback)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Feedback submitted", dto.NewSessionResponse(session)))
}

func (c *chatController) principal(ctx *fiber.Ctx) (*identity.Principal, error) {
	idStr, ok := ctx.Locals("user_id").(string)
	if !ok {
		return nil, apperror.Authentication("missing subject")
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, apperror.Authentication("invalid subject id")
	}
	return c.resolver.Resolve(ctx.UserContext(), id)
}

func (c *chatController) principalAndSession(ctx *fiber.Ctx) (*identity.Principal, uuid.UUID, error) {
	principal, err := c.principal(ctx)
	if err != nil {
		return nil, uuid.Nil, err
	}
	sessionId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return nil, uuid.Nil, apperror.Validation("invalid session id")
	}
	return principal, sessionId, nil
}
