package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"counseling-chat-be/internal/apperror"
	"counseling-chat-be/internal/pkg/logger"
)

// ErrorHandlerMiddleware maps domain errors to HTTP responses. Fiber errors
// keep their own codes; everything else goes through the apperror mapping.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(fiber.Map{"message": fiberErr.Message})
		}

		code := apperror.StatusCode(err)
		if code >= fiber.StatusInternalServerError {
			log.Error("http", "unhandled error", map[string]interface{}{
				"error":  err.Error(),
				"path":   ctx.Path(),
				"method": ctx.Method(),
			})
			return ctx.Status(code).JSON(fiber.Map{"message": "Internal server error"})
		}

		return ctx.Status(code).JSON(fiber.Map{"message": err.Error()})
	}
}
