package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"counseling-chat-be/internal/apperror"
	"counseling-chat-be/internal/dto"
	"counseling-chat-be/internal/entity"
	"counseling-chat-be/internal/identity"
	"counseling-chat-be/internal/pkg/serverutils"
	"counseling-chat-be/internal/service"
)

type ICounselorController interface {
	RegisterRoutes(r fiber.Router)
	GetAvailableSlots(ctx *fiber.Ctx) error
	CreateTimeSlot(ctx *fiber.Ctx) error
	BulkCreateTimeSlots(ctx *fiber.Ctx) error
	CreateSchedule(ctx *fiber.Ctx) error
	GetSchedules(ctx *fiber.Ctx) error
	CreateUnavailability(ctx *fiber.Ctx) error
	GetUnavailabilities(ctx *fiber.Ctx) error
}

type counselorController struct {
	service       service.ICounselorService
	resolver      *identity.Resolver
	jwtMiddleware fiber.Handler
}

func NewCounselorController(counselorService service.ICounselorService, resolver *identity.Resolver, jwtMiddleware fiber.Handler) ICounselorController {
	return &counselorController{
		service:       counselorService,
		resolver:      resolver,
		jwtMiddleware: jwtMiddleware,
	}
}

func (c *counselorController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/counselors")
	h.Use(c.jwtMiddleware)

	// Slot discovery is open to any authenticated identity.
	h.Get("/:id/slots", c.GetAvailableSlots)

	// Management endpoints act on the authenticated counselor.
	h.Post("/slots", c.CreateTimeSlot)
	h.Post("/slots/bulk", c.BulkCreateTimeSlots)
	h.Post("/schedules", c.CreateSchedule)
	h.Get("/schedules", c.GetSchedules)
	h.Post("/unavailabilities", c.CreateUnavailability)
	h.Get("/unavailabilities", c.GetUnavailabilities)
}

func (c *counselorController) GetAvailableSlots(ctx *fiber.Ctx) error {
	counselorId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperror.Validation("invalid counselor id")
	}

	now := time.Now()
	from, err := parseDateQuery(ctx.Query("from"), now)
	if err != nil {
		return err
	}
	to, err := parseDateQuery(ctx.Query("to"), now.AddDate(0, 0, 7))
	if err != nil {
		return err
	}

	slots, err := c.service.GetAvailableSlots(ctx.UserContext(), counselorId, from, to)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get slots", dto.NewTimeSlotResponses(slots)))
}

func (c *counselorController) CreateTimeSlot(ctx *fiber.Ctx) error {
	counselor, err := c.counselorPrincipal(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateTimeSlotRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	slot, err := c.service.CreateTimeSlot(ctx.UserContext(), counselor.Id, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Slot created", dto.NewTimeSlotResponse(slot)))
}

func (c *counselorController) BulkCreateTimeSlots(ctx *fiber.Ctx) error {
	counselor, err := c.counselorPrincipal(ctx)
	if err != nil {
		return err
	}

	var req dto.BulkCreateTimeSlotsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	result, err := c.service.BulkCreateTimeSlots(ctx.UserContext(), counselor.Id, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Slots processed", result))
}

func (c *counselorController) CreateSchedule(ctx *fiber.Ctx) error {
	counselor, err := c.counselorPrincipal(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateScheduleRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	schedule, err := c.service.CreateSchedule(ctx.UserContext(), counselor.Id, counselor.Id, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Schedule created", dto.NewScheduleResponse(schedule)))
}

func (c *counselorController) GetSchedules(ctx *fiber.Ctx) error {
	counselor, err := c.counselorPrincipal(ctx)
	if err != nil {
		return err
	}

	schedules, err := c.service.GetSchedules(ctx.UserContext(), counselor.Id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get schedules", dto.NewScheduleResponses(schedules)))
}

func (c *counselorController) CreateUnavailability(ctx *fiber.Ctx) error {
	counselor, err := c.counselorPrincipal(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateUnavailabilityRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	unavailability, err := c.service.CreateUnavailability(ctx.UserContext(), counselor.Id, counselor.Id, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Unavailability created", dto.NewUnavailabilityResponse(unavailability)))
}

func (c *counselorController) GetUnavailabilities(ctx *fiber.Ctx) error {
	counselor, err := c.counselorPrincipal(ctx)
	if err != nil {
		return err
	}

	items, err := c.service.GetUnavailabilities(ctx.UserContext(), counselor.Id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get unavailabilities", dto.NewUnavailabilityResponses(items)))
}

func (c *counselorController) counselorPrincipal(ctx *fiber.Ctx) (*identity.Principal, error) {
	idStr, ok := ctx.Locals("user_id").(string)
	if !ok {
		return nil, apperror.Authentication("missing subject")
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, apperror.Authentication("invalid subject id")
	}
	principal, err := c.resolver.Resolve(ctx.UserContext(), id)
	if err != nil {
		return nil, err
	}
	if principal.Kind != entity.ParticipantKindCounselor {
		return nil, apperror.Forbidden("counselor role required")
	}
	return principal, nil
}

func parseDateQuery(value string, fallback time.Time) (time.Time, error) {
	if value == "" {
		return entity.DateOnly(fallback), nil
	}
	date, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, apperror.Validation("invalid date %q", value)
	}
	return date, nil
}
